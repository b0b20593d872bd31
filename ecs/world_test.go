package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(0)
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if w.Len() != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, w.Len())
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should return false")
				}
			}
		})
	}
}

func TestStaleHandleDoesNotAliasReusedSlot(t *testing.T) {
	w := NewWorld(0)
	a := w.CreateEntity()
	w.SetName(a, "first")
	w.DestroyEntity(a)

	b := w.CreateEntity()
	if a.Index() != b.Index() {
		t.Fatalf("expected slot reuse, got %v and %v", a, b)
	}
	if a == b {
		t.Fatalf("reused slot should bump generation")
	}
	if w.IsAlive(a) {
		t.Fatalf("stale handle should not be alive")
	}
	if got := w.Name(b); got != "" {
		t.Fatalf("new entity should not inherit name, got %q", got)
	}
	w.SetPosition(a, cp.Vector{X: 5})
	if tr, _ := w.Transform(b); tr.Position != (cp.Vector{}) {
		t.Fatalf("stale handle moved the new entity: %v", tr.Position)
	}
}

type recordingBehaviour struct {
	enabled  int
	disabled int
}

func (r *recordingBehaviour) OnEnable()  { r.enabled++ }
func (r *recordingBehaviour) OnDisable() { r.disabled++ }

func TestSetActiveFiresOnlyOnChange(t *testing.T) {
	w := NewWorld(0)
	e := w.CreateEntity()
	b := &recordingBehaviour{}
	w.SetBehaviour(e, b)

	if w.IsActive(e) {
		t.Fatalf("entities start inactive")
	}
	w.SetActive(e, true)
	w.SetActive(e, true)
	w.SetActive(e, false)
	w.SetActive(e, false)

	if b.enabled != 1 || b.disabled != 1 {
		t.Fatalf("expected 1/1 callbacks, got enabled=%d disabled=%d", b.enabled, b.disabled)
	}

	w.SetActive(e, true)
	w.DestroyEntity(e)
	if b.disabled != 2 {
		t.Fatalf("destroying an active entity should disable it first")
	}
}

func TestSetParent(t *testing.T) {
	w := NewWorld(0)
	root := w.CreateEntity()
	child := w.CreateEntity()

	w.SetParent(child, root)
	if got := w.Parent(child); got != root {
		t.Fatalf("expected parent %v, got %v", root, got)
	}
	w.SetParent(child, child)
	if got := w.Parent(child); got != NoEntity {
		t.Fatalf("self-parenting should detach, got %v", got)
	}
	w.SetParent(child, root)
	w.DestroyEntity(root)
	w.SetParent(child, root)
	if got := w.Parent(child); got != NoEntity {
		t.Fatalf("dead parent should detach, got %v", got)
	}
}

func TestSetPose(t *testing.T) {
	w := NewWorld(0)
	e := w.CreateEntity()
	w.SetPose(e, cp.Vector{X: 1, Y: 2}, 0.5)
	tr, ok := w.Transform(e)
	if !ok {
		t.Fatalf("expected transform")
	}
	if tr.Position != (cp.Vector{X: 1, Y: 2}) || tr.Rotation != 0.5 {
		t.Fatalf("unexpected transform %+v", tr)
	}
}

func TestWorldUpdateRunsFixedSystems(t *testing.T) {
	cases := []struct {
		name      string
		step      float64
		frames    []float64
		wantVar   int
		wantFixed int
	}{
		{"variable_only", 0, []float64{0.016, 0.016}, 2, 2},
		{"fixed_accumulates", 0.02, []float64{0.01, 0.01, 0.01}, 3, 1},
		{"fixed_catch_up", 0.02, []float64{0.05}, 1, 2},
		{"fixed_bounded", 0.01, []float64{1}, 1, 8},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(c.step)
			vars, fixed := 0, 0
			w.AddSystem(SystemFunc(func(*World, float64) { vars++ }))
			w.AddFixedSystem(SystemFunc(func(_ *World, dt float64) {
				if c.step > 0 && dt != c.step {
					t.Fatalf("fixed system got dt %v, want %v", dt, c.step)
				}
				fixed++
			}))
			for _, dt := range c.frames {
				w.Update(dt)
			}
			if vars != c.wantVar || fixed != c.wantFixed {
				t.Fatalf("expected %d/%d runs, got %d/%d", c.wantVar, c.wantFixed, vars, fixed)
			}
		})
	}
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld(0)
	w.Events().Push(Event{Type: "a"})
	w.Events().Push(Event{Type: "b"})
	w.Update(0.1)

	if w.Events().Len() != 2 {
		t.Fatalf("events should survive a tick until drained")
	}
	got := w.Events().Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("unexpected drain order %+v", got)
	}
	if w.Events().Len() != 0 {
		t.Fatalf("drain should empty the queue")
	}
}

func TestClear(t *testing.T) {
	w := NewWorld(0)
	b := &recordingBehaviour{}
	e := w.CreateEntity()
	w.SetBehaviour(e, b)
	w.SetActive(e, true)
	w.CreateEntity()
	w.Events().Push(Event{Type: "x"})

	w.Clear()
	if w.Len() != 0 {
		t.Fatalf("expected empty world, got %d", w.Len())
	}
	if b.disabled != 1 {
		t.Fatalf("clear should disable active behaviours")
	}
	if w.Events().Len() != 0 {
		t.Fatalf("clear should drop queued events")
	}
}
