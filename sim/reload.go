package sim

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/milk9111/wavesim/enemy"
	"github.com/milk9111/wavesim/prefabs"
)

// ApplySpec applies the tunables of a reloaded spec to a running
// simulation. Wave pacing, quota, roaming ranges, spawn points and enemy
// tuning change in place; new enemy types are prewarmed and removed ones
// stop spawning. Navigation changes need a restart. Nothing is applied when
// any part of the spec is invalid.
func (s *Simulation) ApplySpec(spec *prefabs.SimSpec) error {
	if s == nil || spec == nil {
		return nil
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("sim: reload: %w", err)
	}
	wcfg := waveConfig(spec)
	if err := wcfg.Validate(); err != nil {
		return fmt.Errorf("sim: reload wave: %w", err)
	}
	rcfg := roamingConfig(spec)
	if err := rcfg.Validate(); err != nil {
		return fmt.Errorf("sim: reload roaming: %w", err)
	}
	quota, err := quotaFunc(spec)
	if err != nil {
		return err
	}

	if err := s.scheduler.SetConfig(wcfg); err != nil {
		return fmt.Errorf("sim: reload wave: %w", err)
	}
	s.scheduler.SetQuotaFunc(quota)
	if err := s.roaming.SetRange(rcfg.MinDistance, rcfg.MaxDistance); err != nil {
		return fmt.Errorf("sim: reload roaming: %w", err)
	}
	s.roaming.SetParallelism(rcfg.BatchSize, rcfg.Workers)
	s.scheduler.SetSpawnPoints(spawnPoints(spec))

	next := *spec
	if !sameNavigation(next.Navigation, s.spec.Navigation) {
		log.Printf("Simulation: navigation changes apply on restart")
		next.Navigation = s.spec.Navigation
	}

	old := make(map[string]*enemy.Prototype, len(s.protos))
	for _, p := range s.protos {
		old[p.Name()] = p
	}
	s.spec = &next
	protos := make([]*enemy.Prototype, 0, len(spec.Enemies))
	for _, es := range spec.Enemies {
		if p, ok := old[es.Name]; ok {
			p.Data = enemyData(es, spec.Roaming)
			protos = append(protos, p)
			continue
		}
		p := s.newPrototype(es)
		s.pool.Prewarm(p, *es.Prewarm)
		protos = append(protos, p)
		log.Printf("Simulation: added enemy type %s", es.Name)
	}
	s.protos = protos
	s.scheduler.SetPrototypes(s.poolPrototypes())

	for _, e := range s.world.Entities() {
		en, ok := enemy.Of(s.world, e)
		if !ok {
			continue
		}
		en.SetData(en.Prototype().Data)
	}
	log.Printf("Simulation: spec reloaded")
	return nil
}

func sameNavigation(a, b prefabs.NavigationSpec) bool {
	return a.CellSize == b.CellSize &&
		a.MaxNodes == b.MaxNodes &&
		a.Bounds == b.Bounds &&
		slices.Equal(a.Walkable, b.Walkable)
}

// Reload loads a spec and applies it. name is a file path or a prefab name.
func (s *Simulation) Reload(name string) error {
	spec, err := LoadSpec(name)
	if err != nil {
		return err
	}
	return s.ApplySpec(spec)
}

// Open loads a spec and builds a simulation from it.
func Open(name string) (*Simulation, error) {
	spec, err := LoadSpec(name)
	if err != nil {
		return nil, err
	}
	return New(spec)
}

// LoadSpec reads name from disk when it is an existing file, otherwise
// through the prefab loader.
func LoadSpec(name string) (*prefabs.SimSpec, error) {
	if name == "" {
		name = prefabs.SimSpecFile
	}
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return prefabs.LoadSimSpecFile(name)
	}
	return prefabs.LoadSimSpec(name)
}

// WatchDir is the directory holding the config behind name.
func WatchDir(name string) string {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return filepath.Dir(name)
	}
	return prefabs.DiskDir
}
