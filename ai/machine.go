package ai

import (
	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/nav"
)

// Machine holds exactly one active state per enemy.
type Machine struct {
	owner   ecs.Entity
	current State

	roaming *RoamingState
	idle    *IdleState

	// OnTransition observes state changes. from is empty on Start and to is
	// empty on Halt.
	OnTransition func(owner ecs.Entity, from, to string)
}

// NewMachine builds the states for one enemy. No state is entered until
// Start.
func NewMachine(owner ecs.Entity, agent nav.Agent, surface nav.Surface, solver *RoamingManager, params Params) *Machine {
	m := &Machine{owner: owner}
	m.roaming = newRoamingState(m, agent, surface, solver, params)
	m.idle = newIdleState(m, agent, params)
	return m
}

func (m *Machine) Owner() ecs.Entity {
	if m == nil {
		return ecs.NoEntity
	}
	return m.owner
}

// Current returns the active state. It is nil before Start, after Halt and
// while a transition is in progress.
func (m *Machine) Current() State {
	if m == nil {
		return nil
	}
	return m.current
}

// CurrentName returns the active state name, or "".
func (m *Machine) CurrentName() string {
	if s := m.Current(); s != nil {
		return s.Name()
	}
	return ""
}

func (m *Machine) Roaming() *RoamingState { return m.roaming }
func (m *Machine) Idle() *IdleState       { return m.idle }

// SetParams retunes both states. Changes to the idle duration apply the
// next time the machine goes idle.
func (m *Machine) SetParams(p Params) {
	if m == nil {
		return
	}
	m.roaming.params = p
	m.idle.duration = p.IdleDuration
}

// Start enters the roaming state, leaving any current state first.
func (m *Machine) Start() {
	if m == nil {
		return
	}
	m.ChangeState(m.roaming)
}

// Halt exits the current state without entering another.
func (m *Machine) Halt() {
	if m == nil {
		return
	}
	m.ChangeState(nil)
}

// ChangeState exits the current state before entering next. A nil next
// leaves the machine without a state.
func (m *Machine) ChangeState(next State) {
	if m == nil {
		return
	}
	prev := m.current
	m.current = nil
	if prev != nil {
		prev.Exit()
	}
	if next != nil {
		next.Enter()
	}
	m.current = next

	if m.OnTransition != nil && (prev != nil || next != nil) {
		m.OnTransition(m.owner, stateName(prev), stateName(next))
	}
}

func (m *Machine) Update(dt float64) {
	if m == nil || m.current == nil {
		return
	}
	m.current.Update(dt)
}

func (m *Machine) FixedUpdate(dt float64) {
	if m == nil || m.current == nil {
		return
	}
	m.current.FixedUpdate(dt)
}

func stateName(s State) string {
	if s == nil {
		return ""
	}
	return s.Name()
}
