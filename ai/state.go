// Package ai drives enemy behaviour: a per-enemy state machine that
// alternates between roaming and idling, and a shared solver that picks
// roaming destinations for many enemies at once.
package ai

// State is one behaviour mode of a Machine.
type State interface {
	Name() string
	Enter()
	Exit()
	Update(dt float64)
	FixedUpdate(dt float64)
}

const (
	StateRoaming = "roaming"
	StateIdle    = "idle"
)

// Params tunes a Machine.
type Params struct {
	// IdleDuration is how long an enemy waits after arriving, in seconds.
	IdleDuration float64
	// ArrivalThreshold is the remaining path length treated as arrived.
	ArrivalThreshold float64
	// SampleRadius bounds the search for a walkable point near a destination.
	SampleRadius float64
}

// DefaultParams returns the stock enemy tuning.
func DefaultParams() Params {
	return Params{
		IdleDuration:     2,
		ArrivalThreshold: 0.5,
		SampleRadius:     15,
	}
}
