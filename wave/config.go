package wave

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrBadConfig = errors.New("wave: invalid config")

// Config holds the wave pacing tunables. Times are in seconds.
type Config struct {
	TimeBetweenWaves  float64
	TimeBetweenSpawns float64
	BaseEnemies       int
	IncrementPerWave  int
}

func DefaultConfig() Config {
	return Config{
		TimeBetweenWaves:  5,
		TimeBetweenSpawns: 0.1,
		BaseEnemies:       30,
		IncrementPerWave:  10,
	}
}

// Validate rejects negative values.
func (c Config) Validate() error {
	switch {
	case c.TimeBetweenWaves < 0:
		return fmt.Errorf("%w: time between waves %v", ErrBadConfig, c.TimeBetweenWaves)
	case c.TimeBetweenSpawns < 0:
		return fmt.Errorf("%w: time between spawns %v", ErrBadConfig, c.TimeBetweenSpawns)
	case c.BaseEnemies < 0:
		return fmt.Errorf("%w: base enemies %d", ErrBadConfig, c.BaseEnemies)
	case c.IncrementPerWave < 0:
		return fmt.Errorf("%w: increment %d", ErrBadConfig, c.IncrementPerWave)
	}
	return nil
}

// SpawnPoint is a pose enemies can appear at.
type SpawnPoint struct {
	Position cp.Vector
	Rotation float64
}
