package ecs

import "github.com/jakecoffman/cp"

// Transform places an entity in the ground plane. Rotation is a yaw angle in
// radians. Parent is NoEntity for root-level entities.
type Transform struct {
	Position cp.Vector
	Rotation float64
	Parent   Entity
}

// Behaviour receives activation callbacks from SetActive.
type Behaviour interface {
	OnEnable()
	OnDisable()
}

// Updater is implemented by behaviours that run once per tick.
type Updater interface {
	Update(dt float64)
}

// FixedUpdater is implemented by behaviours that run on the fixed timestep.
type FixedUpdater interface {
	FixedUpdate(dt float64)
}

// World owns entities, their core components and the update order.
type World struct {
	entities entityStore
	systems  *Scheduler
	fixed    *Scheduler
	events   EventQueue

	transforms *SparseSet[Transform]
	active     *SparseSet[struct{}]
	behaviours *SparseSet[Behaviour]
	names      *SparseSet[string]
}

// NewWorld creates an empty world. fixedStep configures the fixed-timestep
// scheduler; values <= 0 make fixed systems run once per Update.
func NewWorld(fixedStep float64) *World {
	return &World{
		systems:    NewScheduler(),
		fixed:      NewFixedScheduler(fixedStep),
		transforms: &SparseSet[Transform]{},
		active:     &SparseSet[struct{}]{},
		behaviours: &SparseSet[Behaviour]{},
		names:      &SparseSet[string]{},
	}
}

// CreateEntity allocates a new inactive entity with a zero transform.
func (w *World) CreateEntity() Entity {
	if w == nil {
		return NoEntity
	}
	e := w.entities.create()
	w.transforms.Set(e, Transform{})
	return e
}

// DestroyEntity removes an entity and all of its components. Active
// behaviours are disabled first.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	w.SetActive(e, false)
	w.transforms.Remove(e)
	w.behaviours.Remove(e)
	w.names.Remove(e)
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.len()
}

// Entities returns a snapshot of every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.transforms.Entities()
}

// Transform returns the entity transform.
func (w *World) Transform(e Entity) (Transform, bool) {
	if w == nil || !w.IsAlive(e) {
		return Transform{}, false
	}
	return w.transforms.Get(e)
}

// SetPose sets position and rotation, leaving the parent untouched.
func (w *World) SetPose(e Entity, pos cp.Vector, rotation float64) {
	t := w.transformPtr(e)
	if t == nil {
		return
	}
	t.Position = pos
	t.Rotation = rotation
}

// SetPosition moves the entity.
func (w *World) SetPosition(e Entity, pos cp.Vector) {
	if t := w.transformPtr(e); t != nil {
		t.Position = pos
	}
}

// SetParent reparents the entity. A parent that is not alive detaches it.
func (w *World) SetParent(e, parent Entity) {
	t := w.transformPtr(e)
	if t == nil {
		return
	}
	if !w.IsAlive(parent) || parent == e {
		parent = NoEntity
	}
	t.Parent = parent
}

// Parent returns the entity parent, or NoEntity.
func (w *World) Parent(e Entity) Entity {
	t, ok := w.Transform(e)
	if !ok {
		return NoEntity
	}
	return t.Parent
}

func (w *World) transformPtr(e Entity) *Transform {
	if w == nil || !w.IsAlive(e) {
		return nil
	}
	return w.transforms.Ptr(e)
}

// SetActive toggles the active flag and fires OnEnable/OnDisable on the
// attached behaviour when the flag actually changes.
func (w *World) SetActive(e Entity, active bool) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	if w.active.Has(e) == active {
		return
	}
	if active {
		w.active.Set(e, struct{}{})
	} else {
		w.active.Remove(e)
	}
	b, ok := w.behaviours.Get(e)
	if !ok || b == nil {
		return
	}
	if active {
		b.OnEnable()
	} else {
		b.OnDisable()
	}
}

// IsActive reports whether the entity is active.
func (w *World) IsActive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.active.Has(e)
}

// ActiveEntities returns a snapshot of active entities.
func (w *World) ActiveEntities() []Entity {
	if w == nil {
		return nil
	}
	return w.active.Entities()
}

// SetBehaviour attaches a behaviour to the entity.
func (w *World) SetBehaviour(e Entity, b Behaviour) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	if b == nil {
		w.behaviours.Remove(e)
		return
	}
	w.behaviours.Set(e, b)
}

// Behaviour returns the behaviour attached to the entity.
func (w *World) Behaviour(e Entity) (Behaviour, bool) {
	if w == nil {
		return nil, false
	}
	return w.behaviours.Get(e)
}

// SetName labels the entity for logs and debugging.
func (w *World) SetName(e Entity, name string) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	w.names.Set(e, name)
}

// Name returns the entity label.
func (w *World) Name(e Entity) string {
	if w == nil {
		return ""
	}
	name, _ := w.names.Get(e)
	return name
}

// AddSystem appends a system to the per-tick update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems.Add(s)
}

// AddFixedSystem appends a system to the fixed-timestep update order.
func (w *World) AddFixedSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.fixed.Add(s)
}

// Update runs the per-tick systems once and the fixed systems as many times
// as the accumulated time allows.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.systems.Update(w, dt)
	w.fixed.Update(w, dt)
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Clear destroys every entity and drops queued events. Systems are kept.
func (w *World) Clear() {
	if w == nil {
		return
	}
	for _, e := range w.transforms.Entities() {
		w.DestroyEntity(e)
	}
	w.events.flush()
}
