package ai

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/nav"
)

// RoamingState walks to destinations handed out by the RoamingManager and
// switches to idle on arrival.
type RoamingState struct {
	machine *Machine
	agent   nav.Agent
	surface nav.Surface
	solver  *RoamingManager
	params  Params

	moving  bool
	pending bool
}

func newRoamingState(m *Machine, agent nav.Agent, surface nav.Surface, solver *RoamingManager, params Params) *RoamingState {
	return &RoamingState{
		machine: m,
		agent:   agent,
		surface: surface,
		solver:  solver,
		params:  params,
	}
}

func (s *RoamingState) Name() string { return StateRoaming }

func (s *RoamingState) Enter() {
	s.moving = false
	s.pending = false
	s.solver.Register(s)
}

func (s *RoamingState) Exit() {
	s.solver.Unregister(s)
	s.moving = false
	s.pending = false
}

func (s *RoamingState) Update(dt float64) {
	if !s.moving && !s.pending {
		s.solver.Flag(s)
		s.pending = true
		return
	}
	if s.moving && !s.agent.PathPending() && s.agent.RemainingDistance() <= s.params.ArrivalThreshold {
		s.machine.ChangeState(s.machine.idle)
	}
}

func (s *RoamingState) FixedUpdate(dt float64) {}

// Position reports where the enemy stands for destination solving.
func (s *RoamingState) Position() cp.Vector {
	return s.agent.Position()
}

// SetDestination snaps dest onto the walkable surface and starts moving.
// A point with no walkable surface nearby leaves the state ready to ask
// again on its next update.
func (s *RoamingState) SetDestination(dest cp.Vector) {
	s.pending = false
	if s.surface == nil {
		return
	}
	hit, ok := s.surface.SampleNearest(dest, s.params.SampleRadius)
	if !ok {
		return
	}
	s.agent.SetDestination(hit)
	s.moving = true
}

func (s *RoamingState) Moving() bool  { return s.moving }
func (s *RoamingState) Pending() bool { return s.pending }
