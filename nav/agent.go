package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Pathfinder computes waypoint paths. *Mesh implements it.
type Pathfinder interface {
	FindPath(from, to cp.Vector) ([]cp.Vector, bool)
}

// MeshAgent walks paths produced by a Pathfinder. A destination request is
// resolved on the next Step, so callers observe PathPending for one step.
type MeshAgent struct {
	finder Pathfinder

	pos     cp.Vector
	heading float64
	target  cp.Vector
	path    []cp.Vector
	pending bool
	stopped bool

	// Speed is in world units per second.
	Speed float64
	// TurnSpeed is in degrees per second. Zero snaps the heading.
	TurnSpeed float64

	// OnMove is called after every Step that changed the pose.
	OnMove func(pos cp.Vector, heading float64)
}

func NewMeshAgent(finder Pathfinder, pos cp.Vector, speed, turnSpeed float64) *MeshAgent {
	return &MeshAgent{finder: finder, pos: pos, Speed: speed, TurnSpeed: turnSpeed}
}

func (a *MeshAgent) Position() cp.Vector {
	if a == nil {
		return cp.Vector{}
	}
	return a.pos
}

// Heading returns the yaw in radians.
func (a *MeshAgent) Heading() float64 {
	if a == nil {
		return 0
	}
	return a.heading
}

func (a *MeshAgent) SetDestination(p cp.Vector) {
	if a == nil {
		return
	}
	a.target = p
	a.pending = true
}

func (a *MeshAgent) Stop() {
	if a != nil {
		a.stopped = true
	}
}

func (a *MeshAgent) Resume() {
	if a != nil {
		a.stopped = false
	}
}

func (a *MeshAgent) Stopped() bool {
	return a != nil && a.stopped
}

func (a *MeshAgent) ResetPath() {
	if a == nil {
		return
	}
	a.path = nil
	a.pending = false
}

func (a *MeshAgent) PathPending() bool {
	return a != nil && a.pending
}

// Path returns the remaining waypoints.
func (a *MeshAgent) Path() []cp.Vector {
	if a == nil {
		return nil
	}
	return a.path
}

func (a *MeshAgent) RemainingDistance() float64 {
	if a == nil || len(a.path) == 0 {
		return 0
	}
	total := a.pos.Distance(a.path[0])
	for i := 1; i < len(a.path); i++ {
		total += a.path[i-1].Distance(a.path[i])
	}
	return total
}

// Warp teleports the agent and drops any path.
func (a *MeshAgent) Warp(p cp.Vector) {
	if a == nil {
		return
	}
	a.pos = p
	a.path = nil
	a.pending = false
}

// Step resolves a pending path request and advances along the path.
func (a *MeshAgent) Step(dt float64) {
	if a == nil {
		return
	}
	if a.pending {
		a.pending = false
		a.path = nil
		if a.finder != nil {
			if path, ok := a.finder.FindPath(a.pos, a.target); ok {
				a.path = path
			}
		}
	}
	if a.stopped || len(a.path) == 0 || dt <= 0 {
		return
	}

	budget := a.Speed * dt
	moved := false
	for budget > 0 && len(a.path) > 0 {
		next := a.path[0]
		delta := next.Sub(a.pos)
		dist := delta.Length()
		if dist > 0 {
			a.turnTowards(math.Atan2(delta.Y, delta.X), dt)
		}
		if dist <= budget {
			a.pos = next
			a.path = a.path[1:]
			budget -= dist
		} else {
			a.pos = a.pos.Add(delta.Mult(budget / dist))
			budget = 0
		}
		moved = true
	}
	if len(a.path) == 0 {
		a.path = nil
	}
	if moved && a.OnMove != nil {
		a.OnMove(a.pos, a.heading)
	}
}

func (a *MeshAgent) turnTowards(yaw, dt float64) {
	if a.TurnSpeed <= 0 {
		a.heading = yaw
		return
	}
	diff := math.Remainder(yaw-a.heading, 2*math.Pi)
	maxTurn := a.TurnSpeed * math.Pi / 180 * dt
	if math.Abs(diff) <= maxTurn {
		a.heading = yaw
		return
	}
	a.heading += math.Copysign(maxTurn, diff)
}
