// Package nav provides the walkable surface and movement agents used by
// roaming enemies.
package nav

import "github.com/jakecoffman/cp"

// Surface answers nearest-walkable-point queries.
type Surface interface {
	// SampleNearest returns the walkable point nearest to p within radius.
	SampleNearest(p cp.Vector, radius float64) (cp.Vector, bool)
}

// Agent moves one entity across a surface.
type Agent interface {
	Position() cp.Vector
	// SetDestination requests a path. The path is pending until the agent
	// next steps.
	SetDestination(p cp.Vector)
	Stop()
	Resume()
	ResetPath()
	// RemainingDistance is the length of the path left to walk, or 0 when
	// there is no path.
	RemainingDistance() float64
	PathPending() bool
	Warp(p cp.Vector)
	Step(dt float64)
}
