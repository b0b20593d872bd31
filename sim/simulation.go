// Package sim wires the wave scheduler, instance pool, enemy behaviours and
// roaming solver into one world driven by a single Tick call.
package sim

import (
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/milk9111/wavesim/ai"
	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/enemy"
	"github.com/milk9111/wavesim/nav"
	"github.com/milk9111/wavesim/pool"
	"github.com/milk9111/wavesim/prefabs"
	"github.com/milk9111/wavesim/wave"
)

// EnemyDied is pushed to the world event queue when an enemy is defeated.
const EnemyDied = "enemy_died"

// Simulation owns every part of a run. It is not safe for concurrent use;
// call all methods from the goroutine that ticks it.
type Simulation struct {
	spec      *prefabs.SimSpec
	world     *ecs.World
	pool      *pool.Pool
	mesh      *nav.Mesh
	roaming   *ai.RoamingManager
	scheduler *wave.Scheduler
	protos    []*enemy.Prototype

	ticks   uint64
	elapsed float64
	kills   int
}

// New builds a simulation from a validated spec and prewarms the pool.
func New(spec *prefabs.SimSpec) (*Simulation, error) {
	if spec == nil {
		return nil, fmt.Errorf("sim: nil spec")
	}
	rng := newRand(spec.Seed)

	mesh, err := nav.NewMesh(box(spec.Navigation.Bounds), walkable(spec), spec.Navigation.CellSize, spec.Navigation.MaxNodes)
	if err != nil {
		return nil, fmt.Errorf("sim: navigation: %w", err)
	}
	roaming, err := ai.NewRoamingManager(roamingConfig(spec), rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))
	if err != nil {
		return nil, fmt.Errorf("sim: roaming: %w", err)
	}

	s := &Simulation{
		spec:    spec,
		world:   ecs.NewWorld(spec.FixedStep),
		mesh:    mesh,
		roaming: roaming,
	}
	s.pool = pool.New(s.world)
	s.pool.Init()

	for _, es := range spec.Enemies {
		s.protos = append(s.protos, s.newPrototype(es))
	}

	opts := []wave.Option{wave.WithRand(rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())))}
	quota, err := quotaFunc(spec)
	if err != nil {
		return nil, err
	}
	if quota != nil {
		opts = append(opts, wave.WithQuota(quota))
	}
	s.scheduler, err = wave.NewScheduler(waveConfig(spec), s.pool, s.poolPrototypes(), spawnPoints(spec), opts...)
	if err != nil {
		return nil, fmt.Errorf("sim: scheduler: %w", err)
	}
	s.scheduler.Subscribe(func(evt wave.Event) {
		s.world.Events().Push(ecs.Event{Type: evt.Type.String(), Data: evt})
	})

	for i, proto := range s.protos {
		s.pool.Prewarm(proto, *spec.Enemies[i].Prewarm)
	}

	s.world.AddSystem(ecs.SystemFunc(behaviourUpdateSystem))
	s.world.AddSystem(ecs.SystemFunc(func(*ecs.World, float64) { s.roaming.Update() }))
	s.world.AddFixedSystem(ecs.SystemFunc(behaviourFixedUpdateSystem))

	log.Printf("Simulation: ready, %d prototypes, %d spawn points", len(s.protos), len(spec.SpawnPoints))
	return s, nil
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func quotaFunc(spec *prefabs.SimSpec) (wave.QuotaFunc, error) {
	src, err := spec.QuotaScriptSource()
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if src == nil {
		return nil, nil
	}
	fn, err := wave.ScriptQuota(spec.Wave.QuotaScript, src)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	return fn, nil
}

func (s *Simulation) newPrototype(es prefabs.EnemySpec) *enemy.Prototype {
	proto := enemy.NewPrototype(es.Name, enemyData(es, s.spec.Roaming))
	proto.Mesh = s.mesh
	proto.Solver = s.roaming
	proto.Pool = s.pool
	proto.Deaths = s
	return proto
}

func (s *Simulation) poolPrototypes() []pool.Prototype {
	out := make([]pool.Prototype, len(s.protos))
	for i, p := range s.protos {
		out[i] = p
	}
	return out
}

// OnEntityDestroyed forwards an enemy death to the scheduler.
func (s *Simulation) OnEntityDestroyed(e ecs.Entity) {
	s.kills++
	s.scheduler.OnEntityDestroyed(e)
	s.world.Events().Push(ecs.Event{Type: EnemyDied, Data: e})
}

// Tick advances the whole simulation by dt seconds.
func (s *Simulation) Tick(dt float64) {
	if s == nil || dt < 0 {
		return
	}
	s.scheduler.Update(dt)
	s.world.Update(dt)
	s.ticks++
	s.elapsed += dt
}

func (s *Simulation) Start()                 { s.scheduler.Start() }
func (s *Simulation) Stop()                  { s.scheduler.Stop() }
func (s *Simulation) Reset()                 { s.scheduler.Reset() }
func (s *Simulation) ToggleSpawning() bool   { return s.scheduler.ToggleSpawning() }
func (s *Simulation) ForceNextWave()         { s.scheduler.ForceNextWave() }
func (s *Simulation) DestroyCurrentEnemies() { s.scheduler.DestroyCurrentEnemies() }

func (s *Simulation) World() *ecs.World              { return s.world }
func (s *Simulation) Pool() *pool.Pool               { return s.pool }
func (s *Simulation) Mesh() *nav.Mesh                { return s.mesh }
func (s *Simulation) Roaming() *ai.RoamingManager    { return s.roaming }
func (s *Simulation) Scheduler() *wave.Scheduler     { return s.scheduler }
func (s *Simulation) Prototypes() []*enemy.Prototype { return s.protos }
func (s *Simulation) Spec() *prefabs.SimSpec         { return s.spec }

// Enemies returns the active enemies.
func (s *Simulation) Enemies() []*enemy.Enemy {
	var out []*enemy.Enemy
	for _, e := range s.world.ActiveEntities() {
		if en, ok := enemy.Of(s.world, e); ok {
			out = append(out, en)
		}
	}
	return out
}

// DamageAll hits every active enemy and returns how many were hit.
func (s *Simulation) DamageAll(amount float64) int {
	hit := 0
	for _, en := range s.Enemies() {
		if !en.Active() {
			continue
		}
		en.TakeDamage(amount)
		hit++
	}
	return hit
}

// Status is a snapshot for HUDs and logs.
type Status struct {
	Wave     int
	Phase    wave.Phase
	Started  bool
	Spawning bool
	Quota    int
	Spawned  int
	Alive    int
	Roaming  int
	Idle     int
	Pooled   int
	Kills    int
	Ticks    uint64
	Elapsed  float64
}

func (s *Simulation) Status() Status {
	st := Status{
		Wave:     s.scheduler.WaveCount(),
		Phase:    s.scheduler.Phase(),
		Started:  s.scheduler.Started(),
		Spawning: s.scheduler.IsSpawning(),
		Quota:    s.scheduler.Quota(),
		Spawned:  s.scheduler.SpawnedThisWave(),
		Alive:    s.scheduler.Alive(),
		Kills:    s.kills,
		Ticks:    s.ticks,
		Elapsed:  s.elapsed,
	}
	for _, en := range s.Enemies() {
		switch en.StateName() {
		case ai.StateRoaming:
			st.Roaming++
		case ai.StateIdle:
			st.Idle++
		}
	}
	for _, p := range s.protos {
		st.Pooled += s.pool.InactiveCount(p)
	}
	return st
}

func (st Status) String() string {
	return fmt.Sprintf("wave=%d phase=%s spawned=%d/%d alive=%d roaming=%d idle=%d pooled=%d kills=%d t=%.1fs",
		st.Wave, st.Phase, st.Spawned, st.Quota, st.Alive, st.Roaming, st.Idle, st.Pooled, st.Kills, st.Elapsed)
}
