package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ai"
	"github.com/milk9111/wavesim/enemy"
	"github.com/milk9111/wavesim/prefabs"
	"github.com/milk9111/wavesim/wave"
)

func waveConfig(spec *prefabs.SimSpec) wave.Config {
	return wave.Config{
		TimeBetweenWaves:  *spec.Wave.TimeBetweenWaves,
		TimeBetweenSpawns: *spec.Wave.TimeBetweenSpawns,
		BaseEnemies:       *spec.Wave.BaseEnemies,
		IncrementPerWave:  *spec.Wave.IncrementPerWave,
	}
}

func roamingConfig(spec *prefabs.SimSpec) ai.RoamingConfig {
	return ai.RoamingConfig{
		MinDistance: *spec.Roaming.MinDistance,
		MaxDistance: *spec.Roaming.MaxDistance,
		BatchSize:   spec.Roaming.BatchSize,
		Workers:     spec.Roaming.Workers,
	}
}

func enemyData(e prefabs.EnemySpec, roaming prefabs.RoamingSpec) enemy.Data {
	radius := e.RoamingRadius
	if radius <= 0 {
		radius = roaming.SampleRadius
	}
	return enemy.Data{
		MaxHealth:        e.MaxHealth,
		MoveSpeed:        e.MoveSpeed,
		RotationSpeed:    e.RotationSpeed,
		IdleTime:         *e.IdleTime,
		RoamingRadius:    radius,
		ArrivalThreshold: roaming.ArrivalThreshold,
	}
}

func spawnPoints(spec *prefabs.SimSpec) []wave.SpawnPoint {
	points := make([]wave.SpawnPoint, 0, len(spec.SpawnPoints))
	for _, p := range spec.SpawnPoints {
		points = append(points, wave.SpawnPoint{Position: cp.Vector{X: p.X, Y: p.Y}, Rotation: p.Rotation})
	}
	return points
}

func box(b prefabs.BoxSpec) cp.BB {
	return cp.BB{L: b.MinX, B: b.MinY, R: b.MaxX, T: b.MaxY}
}

func walkable(spec *prefabs.SimSpec) []cp.BB {
	regions := make([]cp.BB, 0, len(spec.Navigation.Walkable))
	for _, b := range spec.Navigation.Walkable {
		regions = append(regions, box(b))
	}
	return regions
}
