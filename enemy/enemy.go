// Package enemy assembles pooled enemies: health, a navigation agent and a
// behaviour state machine, recycled through the instance pool on death.
package enemy

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ai"
	"github.com/milk9111/wavesim/component"
	"github.com/milk9111/wavesim/ecs"
	"github.com/milk9111/wavesim/nav"
)

// Data is the per-prototype enemy tuning.
type Data struct {
	MaxHealth     float64
	MoveSpeed     float64
	RotationSpeed float64
	IdleTime      float64
	RoamingRadius float64

	// ArrivalThreshold of zero uses the state machine default.
	ArrivalThreshold float64
}

// DefaultData returns the stock enemy tuning.
func DefaultData() Data {
	return Data{
		MaxHealth:     100,
		MoveSpeed:     3.5,
		RotationSpeed: 120,
		IdleTime:      2,
		RoamingRadius: 15,
	}
}

// Params converts the tuning into state machine parameters.
func (d Data) Params() ai.Params {
	p := ai.DefaultParams()
	p.IdleDuration = d.IdleTime
	if d.RoamingRadius > 0 {
		p.SampleRadius = d.RoamingRadius
	}
	if d.ArrivalThreshold > 0 {
		p.ArrivalThreshold = d.ArrivalThreshold
	}
	return p
}

// DeathListener is told about every enemy defeat before the enemy returns
// to the pool.
type DeathListener interface {
	OnEntityDestroyed(e ecs.Entity)
}

// Enemy is the behaviour attached to every pooled enemy entity.
type Enemy struct {
	entity ecs.Entity
	world  *ecs.World
	proto  *Prototype

	data    Data
	health  *component.Health
	agent   *nav.MeshAgent
	machine *ai.Machine
}

// Of returns the Enemy behaviour attached to e.
func Of(w *ecs.World, e ecs.Entity) (*Enemy, bool) {
	b, ok := w.Behaviour(e)
	if !ok {
		return nil, false
	}
	en, ok := b.(*Enemy)
	return en, ok
}

func (en *Enemy) Entity() ecs.Entity        { return en.entity }
func (en *Enemy) Data() Data                { return en.data }
func (en *Enemy) Health() *component.Health { return en.health }
func (en *Enemy) Agent() *nav.MeshAgent     { return en.agent }
func (en *Enemy) Machine() *ai.Machine      { return en.machine }
func (en *Enemy) Position() cp.Vector       { return en.agent.Position() }
func (en *Enemy) Active() bool              { return en.world.IsActive(en.entity) }
func (en *Enemy) StateName() string         { return en.machine.CurrentName() }
func (en *Enemy) Prototype() *Prototype     { return en.proto }

// OnEnable restores health, places the agent at the entity position and
// starts roaming.
func (en *Enemy) OnEnable() {
	en.health.Reset()
	if t, ok := en.world.Transform(en.entity); ok {
		en.agent.Warp(t.Position)
	}
	en.agent.Resume()
	en.machine.Start()
}

// OnDisable leaves the current state so nothing keeps a reference to a
// pooled enemy.
func (en *Enemy) OnDisable() {
	en.machine.Halt()
	en.agent.ResetPath()
}

func (en *Enemy) Update(dt float64) {
	en.machine.Update(dt)
}

func (en *Enemy) FixedUpdate(dt float64) {
	en.machine.FixedUpdate(dt)
	en.agent.Step(dt)
}

// TakeDamage applies damage to an active enemy. Reaching zero health kills
// it.
func (en *Enemy) TakeDamage(amount float64) {
	if !en.Active() {
		return
	}
	en.health.ApplyDamage(amount)
}

// Die notifies the death listener and returns the enemy to the pool.
func (en *Enemy) Die() {
	if !en.Active() {
		return
	}
	if en.proto.Deaths != nil {
		en.proto.Deaths.OnEntityDestroyed(en.entity)
	}
	if en.proto.Pool != nil {
		en.proto.Pool.Release(en.entity)
		return
	}
	en.world.SetActive(en.entity, false)
}

// SetData retunes a live enemy. Health changes apply to Max immediately and
// to Current on the next activation.
func (en *Enemy) SetData(d Data) {
	en.data = d
	en.health.SetMaxHP(d.MaxHealth)
	en.agent.Speed = d.MoveSpeed
	en.agent.TurnSpeed = d.RotationSpeed
	en.machine.SetParams(d.Params())
}
