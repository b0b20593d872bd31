// Package wave paces enemy spawning into waves of growing size. A wave
// spawns its quota at a fixed interval, waits for every enemy it spawned to
// be defeated, cools down and starts the next wave.
package wave

import (
	"log"
	"math/rand/v2"

	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/pool"
)

// Phase is the step the scheduling routine is suspended at.
type Phase int

const (
	// PhaseIdle means no routine is running: stopped or paused.
	PhaseIdle Phase = iota
	PhaseSpawning
	// PhaseDraining waits for the live set to empty.
	PhaseDraining
	PhaseCooldown
	// PhaseForcing waits one tick after a forced flush before the next wave.
	PhaseForcing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpawning:
		return "spawning"
	case PhaseDraining:
		return "draining"
	case PhaseCooldown:
		return "cooldown"
	case PhaseForcing:
		return "forcing"
	}
	return "unknown"
}

// Spawner hands out and takes back entities. *pool.Pool implements it.
type Spawner interface {
	Acquire(proto pool.Prototype, opts ...pool.AcquireOption) ecs.Entity
	Release(e ecs.Entity)
}

// Scheduler is a tick-driven wave state machine. Only one routine (spawn
// loop, cooldown or forced advance) is active at a time; every control
// operation cancels the current one before starting another.
type Scheduler struct {
	cfg     Config
	quotaFn QuotaFunc
	spawner Spawner
	protos  []pool.Prototype
	points  []SpawnPoint
	rng     *rand.Rand

	wave     int
	quota    int
	spawned  int
	spawning bool
	started  bool
	phase    Phase
	wait     float64
	warned   bool

	live    []ecs.Entity
	liveIdx map[ecs.Entity]int

	listeners []subscription
	nextSub   int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithQuota replaces the linear quota formula.
func WithQuota(fn QuotaFunc) Option {
	return func(s *Scheduler) { s.quotaFn = fn }
}

// WithRand sets the source used to pick prototypes and spawn points.
func WithRand(r *rand.Rand) Option {
	return func(s *Scheduler) { s.rng = r }
}

func NewScheduler(cfg Config, spawner Spawner, protos []pool.Prototype, points []SpawnPoint, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{
		cfg:     cfg,
		spawner: spawner,
		protos:  append([]pool.Prototype(nil), protos...),
		points:  append([]SpawnPoint(nil), points...),
		liveIdx: make(map[ecs.Entity]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s, nil
}

func (s *Scheduler) WaveCount() int       { return s.wave }
func (s *Scheduler) IsSpawning() bool     { return s.spawning }
func (s *Scheduler) Started() bool        { return s.started }
func (s *Scheduler) Alive() int           { return len(s.live) }
func (s *Scheduler) Quota() int           { return s.quota }
func (s *Scheduler) SpawnedThisWave() int { return s.spawned }
func (s *Scheduler) Phase() Phase         { return s.phase }
func (s *Scheduler) Config() Config       { return s.cfg }

// LiveEntities returns a snapshot of the live set in spawn order.
func (s *Scheduler) LiveEntities() []ecs.Entity {
	return append([]ecs.Entity(nil), s.live...)
}

// IsLive reports whether e was spawned by this scheduler and is still alive.
func (s *Scheduler) IsLive(e ecs.Entity) bool {
	_, ok := s.liveIdx[e]
	return ok
}

// SetConfig applies new tunables. Pending waits keep their remaining time.
// A wave's quota is fixed when the wave starts, so quota changes apply from
// the next wave on.
func (s *Scheduler) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// SetQuotaFunc replaces the quota formula from the next wave on. nil
// restores the linear one.
func (s *Scheduler) SetQuotaFunc(fn QuotaFunc) {
	s.quotaFn = fn
}

// SetPrototypes replaces the prototypes picked from on later spawns.
func (s *Scheduler) SetPrototypes(protos []pool.Prototype) {
	s.protos = append(s.protos[:0], protos...)
}

// SetSpawnPoints replaces the spawn points.
func (s *Scheduler) SetSpawnPoints(points []SpawnPoint) {
	s.points = append(s.points[:0], points...)
}

// Start begins wave 1. It is a no-op once started.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true
	s.emit(SystemStarted, ecs.NoEntity)
	s.startNextWave()
}

// Stop cancels the current routine and releases every live enemy.
func (s *Scheduler) Stop() {
	s.cancel()
	s.started = false
	s.spawning = false
	s.clearLive()
}

// Reset stops the scheduler and rewinds the wave counter.
func (s *Scheduler) Reset() {
	s.cancel()
	s.wave = 0
	s.quota = 0
	s.spawned = 0
	s.started = false
	s.spawning = false
	s.clearLive()
}

// ToggleSpawning pauses or resumes the spawn loop and returns the new
// spawning flag. Resuming continues the current wave where it left off.
func (s *Scheduler) ToggleSpawning() bool {
	s.spawning = !s.spawning
	if s.spawning && s.started && s.phase == PhaseIdle {
		s.run(PhaseSpawning, 0)
	} else if !s.spawning {
		s.cancel()
	}
	return s.spawning
}

// ForceNextWave spawns what is left of the current wave at once and starts
// the next wave on the following Update, whether or not enemies remain.
func (s *Scheduler) ForceNextWave() {
	if !s.started {
		return
	}
	s.cancel()
	for s.spawned < s.quota {
		if !s.spawnEnemy() {
			break
		}
	}
	s.phase = PhaseForcing
	s.wait = 0
}

// DestroyCurrentEnemies releases every live enemy. A wave that was still
// spawning is cut short: it completes immediately and cools down.
func (s *Scheduler) DestroyCurrentEnemies() {
	if !s.started {
		return
	}
	s.clearLive()
	if s.spawning {
		s.spawning = false
		s.cancel()
		s.emit(WaveCompleted, ecs.NoEntity)
		s.phase = PhaseCooldown
		s.wait = s.cfg.TimeBetweenWaves
	}
}

// OnEntityDestroyed drops e from the live set.
func (s *Scheduler) OnEntityDestroyed(e ecs.Entity) {
	idx, ok := s.liveIdx[e]
	if !ok {
		return
	}
	last := len(s.live) - 1
	moved := s.live[last]
	s.live[idx] = moved
	s.liveIdx[moved] = idx
	s.live = s.live[:last]
	delete(s.liveIdx, e)
}

// Update advances the current routine by dt.
func (s *Scheduler) Update(dt float64) {
	if s.phase == PhaseIdle {
		return
	}
	if s.wait > 0 {
		s.wait -= dt
		if s.wait > 0 {
			return
		}
	}
	s.advance()
}

func (s *Scheduler) run(phase Phase, wait float64) {
	s.phase = phase
	s.wait = wait
	if wait <= 0 {
		s.advance()
	}
}

func (s *Scheduler) cancel() {
	s.phase = PhaseIdle
	s.wait = 0
}

// advance runs the current routine until its next suspension point.
func (s *Scheduler) advance() {
	switch s.phase {
	case PhaseSpawning:
		if s.spawned < s.quota {
			s.spawnEnemy()
			s.wait = s.cfg.TimeBetweenSpawns
			return
		}
		s.spawning = false
		s.phase = PhaseDraining
		fallthrough
	case PhaseDraining:
		if len(s.live) > 0 {
			return
		}
		log.Printf("WaveScheduler: wave %d complete", s.wave)
		s.emit(WaveCompleted, ecs.NoEntity)
		s.phase = PhaseCooldown
		s.wait = s.cfg.TimeBetweenWaves
	case PhaseCooldown, PhaseForcing:
		s.startNextWave()
	}
}

func (s *Scheduler) startNextWave() {
	s.wave++
	s.spawned = 0
	s.spawning = true
	s.warned = false
	s.quota = s.computeQuota(s.wave)
	log.Printf("WaveScheduler: wave %d started, quota %d", s.wave, s.quota)
	s.emit(WaveStarted, ecs.NoEntity)
	s.run(PhaseSpawning, 0)
}

// spawnEnemy acquires one enemy from a random prototype at a random spawn
// point. It reports false without spawning when either list is empty.
func (s *Scheduler) spawnEnemy() bool {
	if len(s.protos) == 0 || len(s.points) == 0 || s.spawner == nil {
		if !s.warned {
			log.Printf("WaveScheduler: wave %d cannot spawn: %d prototypes, %d spawn points", s.wave, len(s.protos), len(s.points))
			s.warned = true
		}
		return false
	}
	proto := s.protos[s.rng.IntN(len(s.protos))]
	point := s.points[s.rng.IntN(len(s.points))]

	e := s.spawner.Acquire(proto, pool.WithPosition(point.Position), pool.WithRotation(point.Rotation))
	if e == ecs.NoEntity {
		return false
	}
	if _, ok := s.liveIdx[e]; !ok {
		s.liveIdx[e] = len(s.live)
		s.live = append(s.live, e)
	}
	s.spawned++
	s.emit(EnemySpawned, e)
	return true
}

// clearLive empties the live set before releasing, so release side effects
// never see a half-cleared set.
func (s *Scheduler) clearLive() {
	live := s.live
	s.live = nil
	clear(s.liveIdx)
	for _, e := range live {
		if s.spawner != nil {
			s.spawner.Release(e)
		}
	}
}
