package ai

import (
	"github.com/milk9111/wavesim/component"
	"github.com/milk9111/wavesim/nav"
)

// IdleState stands still for IdleDuration, then resumes roaming.
type IdleState struct {
	machine *Machine
	agent   nav.Agent
	timer   *component.Timer

	// duration applies on the next Enter.
	duration float64
}

func newIdleState(m *Machine, agent nav.Agent, params Params) *IdleState {
	return &IdleState{
		machine:  m,
		agent:    agent,
		timer:    component.NewTimer(params.IdleDuration),
		duration: params.IdleDuration,
	}
}

func (s *IdleState) Name() string { return StateIdle }

func (s *IdleState) Enter() {
	s.agent.Stop()
	s.agent.ResetPath()
	_ = s.timer.SetDuration(s.duration)
	s.timer.Start()
}

func (s *IdleState) Exit() {
	s.timer.Pause()
	s.agent.Resume()
	s.agent.ResetPath()
}

func (s *IdleState) Update(dt float64) {
	s.timer.Update(dt)
	if !s.timer.Running() {
		s.machine.ChangeState(s.machine.roaming)
	}
}

func (s *IdleState) FixedUpdate(dt float64) {}

// Timer exposes the idle countdown.
func (s *IdleState) Timer() *component.Timer { return s.timer }
