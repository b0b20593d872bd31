package enemy

import (
	"math/rand/v2"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ai"
	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/nav"
	"github.com/milk9111/wavesim/pool"
)

type deathLog struct {
	entities []ecs.Entity
	active   []bool
	world    *ecs.World
}

func (d *deathLog) OnEntityDestroyed(e ecs.Entity) {
	d.entities = append(d.entities, e)
	d.active = append(d.active, d.world.IsActive(e))
}

type fixture struct {
	world  *ecs.World
	pool   *pool.Pool
	solver *ai.RoamingManager
	proto  *Prototype
	deaths *deathLog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := ecs.NewWorld(0)
	mesh, err := nav.NewMesh(cp.BB{L: -50, B: -50, R: 50, T: 50}, []cp.BB{{L: -50, B: -50, R: 50, T: 50}}, 2, 0)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	solver, err := ai.NewRoamingManager(ai.DefaultRoamingConfig(), rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatalf("NewRoamingManager: %v", err)
	}
	p := pool.New(w)
	p.Init()
	deaths := &deathLog{world: w}

	proto := NewPrototype("Grunt", DefaultData())
	proto.Mesh = mesh
	proto.Solver = solver
	proto.Pool = p
	proto.Deaths = deaths
	return &fixture{world: w, pool: p, solver: solver, proto: proto, deaths: deaths}
}

func (f *fixture) spawn(t *testing.T, at cp.Vector) *Enemy {
	t.Helper()
	e := f.pool.Acquire(f.proto, pool.WithPosition(at))
	en, ok := Of(f.world, e)
	if !ok {
		t.Fatalf("expected enemy behaviour on %v", e)
	}
	return en
}

func TestActivationStartsRoaming(t *testing.T) {
	f := newFixture(t)
	en := f.spawn(t, cp.Vector{X: 4, Y: 6})

	if en.StateName() != ai.StateRoaming {
		t.Fatalf("expected roaming, got %q", en.StateName())
	}
	if en.Position() != (cp.Vector{X: 4, Y: 6}) {
		t.Fatalf("agent should start at the spawn point, got %v", en.Position())
	}
	if !f.solver.IsRegistered(en.Machine().Roaming()) {
		t.Fatalf("active enemy should be registered with the solver")
	}
}

func TestTakeDamageKillsAndReleases(t *testing.T) {
	f := newFixture(t)
	en := f.spawn(t, cp.Vector{})

	en.TakeDamage(40)
	if en.Health().Current != 60 || len(f.deaths.entities) != 0 {
		t.Fatalf("expected 60 hp and no death, got %v", en.Health().Current)
	}

	en.TakeDamage(60)
	if len(f.deaths.entities) != 1 || f.deaths.entities[0] != en.Entity() {
		t.Fatalf("expected one death notification, got %v", f.deaths.entities)
	}
	if !f.deaths.active[0] {
		t.Fatalf("listener should be notified before release")
	}
	if en.Active() || f.pool.InactiveCount(f.proto) != 1 {
		t.Fatalf("dead enemy should return to the pool")
	}
	if en.Machine().Current() != nil || f.solver.IsRegistered(en.Machine().Roaming()) {
		t.Fatalf("pooled enemy should leave its state and the solver")
	}

	en.TakeDamage(10)
	if len(f.deaths.entities) != 1 {
		t.Fatalf("damage to an inactive enemy must be ignored")
	}
}

func TestReactivationResetsHealth(t *testing.T) {
	f := newFixture(t)
	en := f.spawn(t, cp.Vector{})
	en.TakeDamage(100)

	again := f.spawn(t, cp.Vector{X: 1})
	if again != en {
		t.Fatalf("expected the pooled instance to be reused")
	}
	if again.Health().Current != again.Health().Max {
		t.Fatalf("health should reset on activation, got %v", again.Health().Current)
	}
	if again.StateName() != ai.StateRoaming {
		t.Fatalf("reactivated enemy should roam, got %q", again.StateName())
	}
}

func TestEnemyRoamsAndMoves(t *testing.T) {
	f := newFixture(t)
	en := f.spawn(t, cp.Vector{})

	en.Update(0.02)
	f.solver.Update()
	if !en.Machine().Roaming().Moving() {
		t.Fatalf("expected a destination after the solver ran")
	}
	for i := 0; i < 10; i++ {
		en.FixedUpdate(0.02)
	}
	if en.Position() == (cp.Vector{}) {
		t.Fatalf("enemy should have moved")
	}
	tr, _ := f.world.Transform(en.Entity())
	if tr.Position != en.Position() {
		t.Fatalf("transform should follow the agent, got %v want %v", tr.Position, en.Position())
	}
}

func TestSetDataRetunes(t *testing.T) {
	f := newFixture(t)
	en := f.spawn(t, cp.Vector{})
	d := DefaultData()
	d.MaxHealth = 50
	d.MoveSpeed = 9

	en.SetData(d)
	if en.Health().Max != 50 || en.Health().Current != 50 {
		t.Fatalf("expected max 50, got %v/%v", en.Health().Current, en.Health().Max)
	}
	if en.Agent().Speed != 9 {
		t.Fatalf("expected speed 9, got %v", en.Agent().Speed)
	}
}
