package component

import (
	"errors"
	"testing"
)

func TestTimerCompletesOnUpdateAfterDuration(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		dt       float64
		updates  int // updates until OnCompleted
	}{
		{"exact_steps", 1, 0.5, 3},
		{"overshoot", 1, 0.4, 4},
		{"zero_duration", 0, 0.1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tm := NewTimer(c.duration)
			completed := 0
			tm.OnCompleted = func() { completed++ }
			tm.Start()

			for i := 1; i <= c.updates; i++ {
				if completed != 0 {
					t.Fatalf("completed early after %d updates", i-1)
				}
				tm.Update(c.dt)
			}
			if completed != 1 {
				t.Fatalf("expected one completion after %d updates, got %d", c.updates, completed)
			}
			if tm.Running() {
				t.Fatalf("timer should stop on completion")
			}
			if tm.Elapsed() != 0 {
				t.Fatalf("elapsed should rewind on completion, got %v", tm.Elapsed())
			}
		})
	}
}

func TestTimerUpdateIgnoredWhenStopped(t *testing.T) {
	tm := NewTimer(1)
	updated := 0
	tm.OnUpdated = func(float64) { updated++ }
	tm.Update(0.5)
	if updated != 0 || tm.Elapsed() != 0 {
		t.Fatalf("stopped timer should not advance")
	}
}

func TestTimerStartIsIdempotent(t *testing.T) {
	tm := NewTimer(2)
	started := 0
	tm.OnStarted = func() { started++ }
	tm.Start()
	tm.Update(0.5)
	tm.Start()
	if started != 1 {
		t.Fatalf("expected one OnStarted, got %d", started)
	}
	if tm.Elapsed() != 0.5 {
		t.Fatalf("second Start should not rewind, elapsed=%v", tm.Elapsed())
	}
}

func TestTimerPauseKeepsElapsed(t *testing.T) {
	tm := NewTimer(2)
	paused := 0
	tm.OnPaused = func() { paused++ }
	tm.Start()
	tm.Update(0.75)
	tm.Pause()
	tm.Pause()
	if paused != 1 {
		t.Fatalf("expected one OnPaused, got %d", paused)
	}
	if tm.Running() || tm.Elapsed() != 0.75 {
		t.Fatalf("pause should stop without rewinding: running=%v elapsed=%v", tm.Running(), tm.Elapsed())
	}
}

func TestTimerResetFiresCompleted(t *testing.T) {
	tm := NewTimer(2)
	completed := 0
	tm.OnCompleted = func() { completed++ }
	tm.Start()
	tm.Update(1)
	tm.Reset()
	if completed != 1 {
		t.Fatalf("Reset should fire OnCompleted once, got %d", completed)
	}
	if tm.Running() || tm.Elapsed() != 0 {
		t.Fatalf("Reset should stop and rewind")
	}
}

func TestTimerSetDuration(t *testing.T) {
	tm := NewTimer(2)
	tm.Start()
	if err := tm.SetDuration(5); !errors.Is(err, ErrTimerRunning) {
		t.Fatalf("expected ErrTimerRunning, got %v", err)
	}
	if tm.Duration() != 2 {
		t.Fatalf("duration should be unchanged while running")
	}

	tm.Update(1.5)
	tm.Pause()
	if err := tm.SetDuration(1); err != nil {
		t.Fatalf("SetDuration on stopped timer: %v", err)
	}
	if tm.Elapsed() != 1 {
		t.Fatalf("elapsed should clamp to new duration, got %v", tm.Elapsed())
	}
}
