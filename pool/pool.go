// Package pool recycles entities built from prototypes so that steady-state
// spawning does not allocate.
package pool

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ecs"
)

// Prototype builds the components of a pooled instance.
type Prototype interface {
	Name() string
	Build(w *ecs.World, e ecs.Entity)
}

// AcquireOption customizes an Acquire call.
type AcquireOption func(*acquireConfig)

type acquireConfig struct {
	position  cp.Vector
	rotation  float64
	parent    ecs.Entity
	hasParent bool
}

// WithPosition places the acquired instance.
func WithPosition(p cp.Vector) AcquireOption {
	return func(c *acquireConfig) { c.position = p }
}

// WithRotation sets the yaw of the acquired instance.
func WithRotation(r float64) AcquireOption {
	return func(c *acquireConfig) { c.rotation = r }
}

// WithParent reparents the acquired instance. Without it the instance keeps
// whatever parent it had while pooled.
func WithParent(parent ecs.Entity) AcquireOption {
	return func(c *acquireConfig) {
		c.parent = parent
		c.hasParent = true
	}
}

type entry struct {
	folder   ecs.Entity
	inactive []ecs.Entity
	active   int
}

// Pool keeps one FIFO queue of inactive instances per prototype.
type Pool struct {
	world   *ecs.World
	root    ecs.Entity
	entries map[Prototype]*entry
	origin  map[ecs.Entity]Prototype
	active  map[ecs.Entity]bool
}

func New(w *ecs.World) *Pool {
	return &Pool{
		world:   w,
		entries: make(map[Prototype]*entry),
		origin:  make(map[ecs.Entity]Prototype),
		active:  make(map[ecs.Entity]bool),
	}
}

// Init creates the pool root entity. It is safe to call more than once.
func (p *Pool) Init() {
	if p == nil || p.world == nil {
		return
	}
	if p.world.IsAlive(p.root) {
		return
	}
	p.root = p.world.CreateEntity()
	p.world.SetName(p.root, "Pool")
}

// Root returns the entity pooled instances are parented to.
func (p *Pool) Root() ecs.Entity {
	if p == nil {
		return ecs.NoEntity
	}
	return p.root
}

// Prewarm builds count inactive instances of proto under a per-prototype
// folder and queues them for reuse.
func (p *Pool) Prewarm(proto Prototype, count int) {
	if p == nil || proto == nil {
		log.Printf("Pool: prewarm skipped, nil prototype")
		return
	}
	p.Init()
	en := p.entry(proto)
	if !p.world.IsAlive(en.folder) {
		en.folder = p.world.CreateEntity()
		p.world.SetName(en.folder, "Pool_"+proto.Name())
		p.world.SetParent(en.folder, p.root)
	}
	for i := 0; i < count; i++ {
		e := p.build(proto)
		p.world.SetParent(e, en.folder)
		en.inactive = append(en.inactive, e)
	}
	log.Printf("Pool: prewarmed %d x %s", count, proto.Name())
}

// Acquire returns an active instance of proto, reusing the oldest inactive
// one when available.
func (p *Pool) Acquire(proto Prototype, opts ...AcquireOption) ecs.Entity {
	if p == nil || proto == nil {
		log.Printf("Pool: acquire with nil prototype")
		return ecs.NoEntity
	}
	cfg := acquireConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	en := p.entry(proto)
	var e ecs.Entity
	for len(en.inactive) > 0 && e == ecs.NoEntity {
		head := en.inactive[0]
		en.inactive[0] = ecs.NoEntity
		en.inactive = en.inactive[1:]
		if p.world.IsAlive(head) {
			e = head
		}
	}
	if e == ecs.NoEntity {
		p.Init()
		e = p.build(proto)
	}

	if cfg.hasParent {
		p.world.SetParent(e, cfg.parent)
	}
	p.world.SetPose(e, cfg.position, cfg.rotation)
	p.active[e] = true
	en.active++
	p.world.SetActive(e, true)
	return e
}

// Release deactivates e and returns it to its prototype's queue. Unknown or
// already inactive instances are ignored.
func (p *Pool) Release(e ecs.Entity) {
	if p == nil || !p.active[e] {
		return
	}
	proto := p.origin[e]
	delete(p.active, e)
	en := p.entry(proto)
	en.active--

	p.world.SetActive(e, false)
	if !p.world.IsAlive(e) {
		delete(p.origin, e)
		return
	}
	p.world.SetParent(e, p.root)
	en.inactive = append(en.inactive, e)
}

// PrototypeOf returns the prototype an instance was built from.
func (p *Pool) PrototypeOf(e ecs.Entity) (Prototype, bool) {
	if p == nil {
		return nil, false
	}
	proto, ok := p.origin[e]
	return proto, ok
}

// IsActive reports whether e is currently handed out by the pool.
func (p *Pool) IsActive(e ecs.Entity) bool {
	return p != nil && p.active[e]
}

// InactiveCount returns the number of queued instances of proto.
func (p *Pool) InactiveCount(proto Prototype) int {
	if p == nil {
		return 0
	}
	en, ok := p.entries[proto]
	if !ok {
		return 0
	}
	return len(en.inactive)
}

// ActiveCount returns the number of handed-out instances of proto.
func (p *Pool) ActiveCount(proto Prototype) int {
	if p == nil {
		return 0
	}
	en, ok := p.entries[proto]
	if !ok {
		return 0
	}
	return en.active
}

func (p *Pool) entry(proto Prototype) *entry {
	en, ok := p.entries[proto]
	if !ok {
		en = &entry{}
		p.entries[proto] = en
	}
	return en
}

func (p *Pool) build(proto Prototype) ecs.Entity {
	e := p.world.CreateEntity()
	p.world.SetName(e, proto.Name())
	proto.Build(p.world, e)
	p.origin[e] = proto
	return e
}
