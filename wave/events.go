package wave

import "github.com/milk9111/wavesim/ecs"

type EventType int

const (
	SystemStarted EventType = iota
	WaveStarted
	WaveCompleted
	EnemySpawned
)

func (t EventType) String() string {
	switch t {
	case SystemStarted:
		return "system_started"
	case WaveStarted:
		return "wave_started"
	case WaveCompleted:
		return "wave_completed"
	case EnemySpawned:
		return "enemy_spawned"
	}
	return "unknown"
}

// Event is a scheduler notification. Wave is the current wave number and
// Entity is set for EnemySpawned only.
type Event struct {
	Type   EventType
	Wave   int
	Entity ecs.Entity
}

// Listener receives scheduler notifications synchronously.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers l and returns a function that removes it.
func (s *Scheduler) Subscribe(l Listener) func() {
	if s == nil || l == nil {
		return func() {}
	}
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Scheduler) emit(t EventType, e ecs.Entity) {
	evt := Event{Type: t, Wave: s.wave, Entity: e}
	for _, sub := range s.listeners {
		sub.fn(evt)
	}
}
