package ecs

// System updates a world once per tick.
type System interface {
	Update(w *World, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Update(w *World, dt float64) {
	f(w, dt)
}

// Scheduler runs an ordered list of systems. A Scheduler with a positive
// step runs its systems on a fixed timestep, carrying the remainder over to
// the next call.
type Scheduler struct {
	systems []System
	step    float64
	acc     float64
	// maxSteps bounds catch-up work after a long frame.
	maxSteps int
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// NewFixedScheduler creates a scheduler that advances in increments of step.
func NewFixedScheduler(step float64, systems ...System) *Scheduler {
	s := NewScheduler(systems...)
	s.step = step
	s.maxSteps = 8
	return s
}

func (s *Scheduler) Add(system System) {
	if s == nil || system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs the systems. Variable-step schedulers run exactly once with dt.
// It returns the number of passes that ran.
func (s *Scheduler) Update(w *World, dt float64) int {
	if s == nil {
		return 0
	}
	if s.step <= 0 {
		s.run(w, dt)
		return 1
	}
	s.acc += dt
	passes := 0
	for s.acc >= s.step && passes < s.maxSteps {
		s.run(w, s.step)
		s.acc -= s.step
		passes++
	}
	if passes == s.maxSteps && s.acc >= s.step {
		s.acc = 0
	}
	return passes
}

func (s *Scheduler) run(w *World, dt float64) {
	for _, system := range s.systems {
		system.Update(w, dt)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
