package sim

import (
	"fmt"

	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/wave"
)

// Digest summarizes one drain of the world event queue.
type Digest struct {
	// Notices are lifecycle lines in the order they happened.
	Notices []string
	// Wave is the wave number of the latest lifecycle event, or -1.
	Wave    int
	Spawned int
	Died    int
}

// Summarize folds drained world events into a Digest.
func Summarize(events []ecs.Event) Digest {
	d := Digest{Wave: -1}
	for _, evt := range events {
		if evt.Type == EnemyDied {
			d.Died++
			continue
		}
		we, ok := evt.Data.(wave.Event)
		if !ok {
			continue
		}
		switch we.Type {
		case wave.SystemStarted:
			d.Notices = append(d.Notices, "waves started")
			d.Wave = we.Wave
		case wave.WaveStarted:
			d.Notices = append(d.Notices, fmt.Sprintf("wave %d started", we.Wave))
			d.Wave = we.Wave
		case wave.WaveCompleted:
			d.Notices = append(d.Notices, fmt.Sprintf("wave %d completed", we.Wave))
			d.Wave = we.Wave
		case wave.EnemySpawned:
			d.Spawned++
		}
	}
	return d
}

// DrainEvents drains the world event queue into a Digest.
func (s *Simulation) DrainEvents() Digest {
	if s == nil {
		return Digest{Wave: -1}
	}
	return Summarize(s.world.Events().Drain())
}
