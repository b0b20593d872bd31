package ai

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/jakecoffman/cp"
	"golang.org/x/sync/errgroup"
)

var ErrBadRange = errors.New("ai: roaming range must satisfy 0 <= min <= max")

// Roamer is anything the RoamingManager can hand destinations to.
type Roamer interface {
	Position() cp.Vector
	SetDestination(dest cp.Vector)
}

// RoamingConfig tunes the destination solver.
type RoamingConfig struct {
	MinDistance float64
	MaxDistance float64
	// BatchSize is the number of requests solved per worker task.
	BatchSize int
	// Workers caps concurrent tasks. Zero picks a value from GOMAXPROCS.
	Workers int
}

func DefaultRoamingConfig() RoamingConfig {
	return RoamingConfig{MinDistance: 5, MaxDistance: 15, BatchSize: 32}
}

type request struct {
	roamer Roamer
	origin cp.Vector
	seed   uint64
	dest   cp.Vector
}

type requestBatch struct {
	entries []request
}

// RoamingManager collects destination requests during a tick and solves
// them together in Update. Requests are solved in parallel over a snapshot
// and applied in the order they were raised.
type RoamingManager struct {
	cfg RoamingConfig
	rng *rand.Rand

	registered map[Roamer]struct{}
	// order keeps registration order for Registered.
	order   []Roamer
	flagged map[Roamer]struct{}
	batch   []Roamer

	buffers sync.Pool
}

// NewRoamingManager creates a solver. A nil rng seeds one from the runtime.
func NewRoamingManager(cfg RoamingConfig, rng *rand.Rand) (*RoamingManager, error) {
	cfg = normalizeRoaming(cfg)
	if err := validateRange(cfg.MinDistance, cfg.MaxDistance); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := &RoamingManager{
		cfg:        cfg,
		rng:        rng,
		registered: make(map[Roamer]struct{}),
		flagged:    make(map[Roamer]struct{}),
	}
	m.buffers.New = func() any {
		return &requestBatch{entries: make([]request, 0, 256)}
	}
	return m, nil
}

// Validate reports whether the distance range is usable.
func (c RoamingConfig) Validate() error {
	return validateRange(c.MinDistance, c.MaxDistance)
}

func normalizeRoaming(cfg RoamingConfig) RoamingConfig {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return cfg
}

func validateRange(lo, hi float64) error {
	if lo < 0 || hi < lo || math.IsNaN(lo) || math.IsNaN(hi) {
		return fmt.Errorf("%w: min=%v max=%v", ErrBadRange, lo, hi)
	}
	return nil
}

// SetRange changes the distance range used by subsequent solves.
func (m *RoamingManager) SetRange(lo, hi float64) error {
	if m == nil {
		return nil
	}
	if err := validateRange(lo, hi); err != nil {
		return err
	}
	m.cfg.MinDistance = lo
	m.cfg.MaxDistance = hi
	return nil
}

// SetParallelism changes chunk size and worker limit.
func (m *RoamingManager) SetParallelism(batchSize, workers int) {
	if m == nil {
		return
	}
	cfg := m.cfg
	cfg.BatchSize = batchSize
	cfg.Workers = workers
	m.cfg = normalizeRoaming(cfg)
}

func (m *RoamingManager) Config() RoamingConfig {
	if m == nil {
		return RoamingConfig{}
	}
	return m.cfg
}

// Register makes r eligible for destinations.
func (m *RoamingManager) Register(r Roamer) {
	if m == nil || r == nil {
		return
	}
	if _, ok := m.registered[r]; ok {
		return
	}
	m.registered[r] = struct{}{}
	m.order = append(m.order, r)
}

// Unregister removes r and drops any request it raised.
func (m *RoamingManager) Unregister(r Roamer) {
	if m == nil || r == nil {
		return
	}
	if _, ok := m.registered[r]; !ok {
		return
	}
	delete(m.registered, r)
	m.order = removeRoamer(m.order, r)
	if _, ok := m.flagged[r]; ok {
		delete(m.flagged, r)
		m.batch = removeRoamer(m.batch, r)
	}
}

// Flag queues a destination request for r. Flagging twice before the next
// Update has no further effect.
func (m *RoamingManager) Flag(r Roamer) {
	if m == nil || r == nil {
		return
	}
	if _, ok := m.flagged[r]; ok {
		return
	}
	m.flagged[r] = struct{}{}
	m.batch = append(m.batch, r)
}

func (m *RoamingManager) IsRegistered(r Roamer) bool {
	if m == nil {
		return false
	}
	_, ok := m.registered[r]
	return ok
}

func (m *RoamingManager) IsFlagged(r Roamer) bool {
	if m == nil {
		return false
	}
	_, ok := m.flagged[r]
	return ok
}

// Registered returns the registered roamers in registration order.
func (m *RoamingManager) Registered() []Roamer {
	if m == nil {
		return nil
	}
	return append([]Roamer(nil), m.order...)
}

// Pending returns the number of queued requests.
func (m *RoamingManager) Pending() int {
	if m == nil {
		return 0
	}
	return len(m.batch)
}

// Update solves every queued request. Each request draws its own seed so
// the parallel section never touches shared random state.
func (m *RoamingManager) Update() {
	if m == nil || len(m.batch) == 0 {
		return
	}

	buf := m.buffers.Get().(*requestBatch)
	entries := buf.entries[:0]
	for _, r := range m.batch {
		if _, ok := m.registered[r]; !ok {
			continue
		}
		entries = append(entries, request{
			roamer: r,
			origin: r.Position(),
			seed:   m.rng.Uint64(),
		})
	}
	for _, r := range m.batch {
		delete(m.flagged, r)
	}
	clear(m.batch)
	m.batch = m.batch[:0]

	m.solve(entries)

	for i := range entries {
		entries[i].roamer.SetDestination(entries[i].dest)
	}

	clear(entries)
	buf.entries = entries[:0]
	m.buffers.Put(buf)
}

func (m *RoamingManager) solve(entries []request) {
	minDist, maxDist := m.cfg.MinDistance, m.cfg.MaxDistance
	chunk := m.cfg.BatchSize

	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)
	for start := 0; start < len(entries); start += chunk {
		end := min(start+chunk, len(entries))
		part := entries[start:end]
		g.Go(func() error {
			for i := range part {
				part[i].dest = roamDestination(part[i].origin, part[i].seed, minDist, maxDist)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func roamDestination(origin cp.Vector, seed uint64, minDist, maxDist float64) cp.Vector {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	angle := r.Float64() * 2 * math.Pi
	dist := minDist + r.Float64()*(maxDist-minDist)
	return origin.Add(cp.ForAngle(angle).Mult(dist))
}

func removeRoamer(list []Roamer, r Roamer) []Roamer {
	for i, v := range list {
		if v == r {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}
