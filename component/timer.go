package component

import "errors"

// ErrTimerRunning is returned when a running timer is reconfigured.
var ErrTimerRunning = errors.New("timer: cannot set duration while running")

// Timer is a restartable countdown advanced by explicit deltas.
//
// Completion is observed on the Update after elapsed time reaches the
// duration: that call stops the timer, rewinds it and fires OnCompleted.
type Timer struct {
	elapsed  float64
	duration float64
	running  bool

	OnStarted   func()
	OnUpdated   func(elapsed float64)
	OnPaused    func()
	OnCompleted func()
}

// NewTimer creates a stopped timer.
func NewTimer(duration float64) *Timer {
	return &Timer{duration: duration}
}

func (t *Timer) Elapsed() float64  { return t.elapsed }
func (t *Timer) Duration() float64 { return t.duration }
func (t *Timer) Running() bool     { return t != nil && t.running }

// Update advances the timer by dt.
func (t *Timer) Update(dt float64) {
	if t == nil || !t.running {
		return
	}
	if t.elapsed < t.duration {
		t.elapsed += dt
		if t.OnUpdated != nil {
			t.OnUpdated(t.elapsed)
		}
		return
	}
	t.running = false
	t.elapsed = 0
	if t.OnCompleted != nil {
		t.OnCompleted()
	}
}

// SetDuration changes the duration of a stopped timer.
func (t *Timer) SetDuration(duration float64) error {
	if t == nil {
		return nil
	}
	if t.running {
		return ErrTimerRunning
	}
	t.duration = duration
	if t.elapsed > t.duration {
		t.elapsed = t.duration
	}
	return nil
}

// Start rewinds and runs the timer. It is a no-op while running.
func (t *Timer) Start() {
	if t == nil || t.running {
		return
	}
	t.running = true
	t.elapsed = 0
	if t.OnStarted != nil {
		t.OnStarted()
	}
}

// Pause stops the timer without rewinding it.
func (t *Timer) Pause() {
	if t == nil || !t.running {
		return
	}
	t.running = false
	if t.OnPaused != nil {
		t.OnPaused()
	}
}

// Reset rewinds and stops the timer. Listeners see it as a completion.
func (t *Timer) Reset() {
	if t == nil {
		return
	}
	t.elapsed = 0
	t.running = false
	if t.OnCompleted != nil {
		t.OnCompleted()
	}
}
