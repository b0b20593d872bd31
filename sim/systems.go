package sim

import "github.com/milk9111/wavesim/ecs"

// behaviourUpdateSystem runs Update on every active behaviour. Behaviours
// deactivated earlier in the same pass are skipped.
func behaviourUpdateSystem(w *ecs.World, dt float64) {
	for _, e := range w.ActiveEntities() {
		if !w.IsActive(e) {
			continue
		}
		b, ok := w.Behaviour(e)
		if !ok {
			continue
		}
		if u, ok := b.(ecs.Updater); ok {
			u.Update(dt)
		}
	}
}

func behaviourFixedUpdateSystem(w *ecs.World, dt float64) {
	for _, e := range w.ActiveEntities() {
		if !w.IsActive(e) {
			continue
		}
		b, ok := w.Behaviour(e)
		if !ok {
			continue
		}
		if u, ok := b.(ecs.FixedUpdater); ok {
			u.FixedUpdate(dt)
		}
	}
}
