package enemy

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ai"
	"github.com/milk9111/wavesim/component"
	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/nav"
	"github.com/milk9111/wavesim/pool"
)

// Prototype builds enemies for the instance pool. The collaborator fields
// are read when instances are built or die, so they may be wired after the
// prototype is created.
type Prototype struct {
	name string
	Data Data

	Mesh   *nav.Mesh
	Solver *ai.RoamingManager
	Pool   *pool.Pool
	Deaths DeathListener

	// OnTransition observes state changes of every instance.
	OnTransition func(e ecs.Entity, from, to string)
}

var _ pool.Prototype = (*Prototype)(nil)

func NewPrototype(name string, data Data) *Prototype {
	return &Prototype{name: name, Data: data}
}

func (p *Prototype) Name() string { return p.name }

// Build attaches an Enemy behaviour to e.
func (p *Prototype) Build(w *ecs.World, e ecs.Entity) {
	en := &Enemy{
		entity: e,
		world:  w,
		proto:  p,
		data:   p.Data,
		health: component.NewHealth(p.Data.MaxHealth),
	}
	en.health.OnDeath = func(*component.Health) { en.Die() }

	var surface nav.Surface
	var finder nav.Pathfinder
	if p.Mesh != nil {
		surface = p.Mesh
		finder = p.Mesh
	}
	en.agent = nav.NewMeshAgent(finder, cp.Vector{}, p.Data.MoveSpeed, p.Data.RotationSpeed)
	en.agent.OnMove = func(pos cp.Vector, heading float64) {
		w.SetPose(e, pos, heading)
	}

	en.machine = ai.NewMachine(e, en.agent, surface, p.Solver, p.Data.Params())
	en.machine.OnTransition = func(owner ecs.Entity, from, to string) {
		if p.OnTransition != nil {
			p.OnTransition(owner, from, to)
		}
	}
	w.SetBehaviour(e, en)
}
