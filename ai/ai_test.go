package ai

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/wavesim/ecs"
)

type fakeAgent struct {
	pos       cp.Vector
	dest      cp.Vector
	dests     int
	pending   bool
	remaining float64
	stopped   bool
	stops     int
	resumes   int
	resets    int
}

func (a *fakeAgent) Position() cp.Vector { return a.pos }
func (a *fakeAgent) SetDestination(p cp.Vector) {
	a.dest = p
	a.dests++
	a.pending = true
}
func (a *fakeAgent) Stop() {
	a.stopped = true
	a.stops++
}
func (a *fakeAgent) Resume() {
	a.stopped = false
	a.resumes++
}
func (a *fakeAgent) ResetPath() {
	a.resets++
	a.pending = false
	a.remaining = 0
}
func (a *fakeAgent) RemainingDistance() float64 { return a.remaining }
func (a *fakeAgent) PathPending() bool          { return a.pending }
func (a *fakeAgent) Warp(p cp.Vector)           { a.pos = p }
func (a *fakeAgent) Step(float64)               {}

// fakeSurface accepts every point unless reject is set.
type fakeSurface struct {
	reject bool
	calls  int
}

func (s *fakeSurface) SampleNearest(p cp.Vector, radius float64) (cp.Vector, bool) {
	s.calls++
	if s.reject {
		return cp.Vector{}, false
	}
	return p, true
}

func newTestSolver(t *testing.T) *RoamingManager {
	t.Helper()
	m, err := NewRoamingManager(DefaultRoamingConfig(), rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("NewRoamingManager: %v", err)
	}
	return m
}

func newTestMachine(t *testing.T, solver *RoamingManager) (*Machine, *fakeAgent, *fakeSurface) {
	t.Helper()
	agent := &fakeAgent{}
	surface := &fakeSurface{}
	params := Params{IdleDuration: 1, ArrivalThreshold: 0.5, SampleRadius: 15}
	return NewMachine(ecs.NoEntity, agent, surface, solver, params), agent, surface
}

func TestMachineStartAndHalt(t *testing.T) {
	solver := newTestSolver(t)
	m, _, _ := newTestMachine(t, solver)

	if m.Current() != nil {
		t.Fatalf("construction should not enter a state")
	}
	m.Start()
	if m.CurrentName() != StateRoaming {
		t.Fatalf("expected roaming, got %q", m.CurrentName())
	}
	if !solver.IsRegistered(m.Roaming()) {
		t.Fatalf("roaming should register with the solver")
	}

	m.Update(0.1)
	if !solver.IsFlagged(m.Roaming()) {
		t.Fatalf("first update should request a destination")
	}

	m.Halt()
	if m.Current() != nil {
		t.Fatalf("halt should leave no active state")
	}
	if solver.IsRegistered(m.Roaming()) || solver.Pending() != 0 {
		t.Fatalf("halt should unregister and drop the request")
	}
}

type recordingState struct {
	name string
	log  *[]string
	m    *Machine
}

func (s *recordingState) Name() string { return s.name }
func (s *recordingState) Enter() {
	if s.m.Current() != nil {
		*s.log = append(*s.log, "current-not-nil")
	}
	*s.log = append(*s.log, "enter:"+s.name)
}

func (s *recordingState) Exit()               { *s.log = append(*s.log, "exit:"+s.name) }
func (s *recordingState) Update(float64)      {}
func (s *recordingState) FixedUpdate(float64) {}

func TestChangeStateExitsBeforeEnter(t *testing.T) {
	m := &Machine{}
	var log []string
	a := &recordingState{name: "a", log: &log, m: m}
	b := &recordingState{name: "b", log: &log, m: m}
	var transitions []string
	m.OnTransition = func(_ ecs.Entity, from, to string) {
		transitions = append(transitions, from+">"+to)
	}

	m.ChangeState(a)
	m.ChangeState(b)
	m.ChangeState(nil)

	want := []string{"enter:a", "exit:a", "enter:b", "exit:b"}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	wantT := []string{">a", "a>b", "b>"}
	if !reflect.DeepEqual(transitions, wantT) {
		t.Fatalf("expected transitions %v, got %v", wantT, transitions)
	}
}

func TestRoamingRequestsOncePerDestination(t *testing.T) {
	solver := newTestSolver(t)
	m, agent, _ := newTestMachine(t, solver)
	m.Start()

	m.Update(0.1)
	m.Update(0.1)
	if solver.Pending() != 1 {
		t.Fatalf("expected a single request, got %d", solver.Pending())
	}

	solver.Update()
	if agent.dests != 1 {
		t.Fatalf("expected one destination, got %d", agent.dests)
	}
	if !m.Roaming().Moving() || m.Roaming().Pending() {
		t.Fatalf("expected moving and not pending")
	}

	m.Update(0.1)
	if solver.Pending() != 0 {
		t.Fatalf("moving roamer must not request again")
	}
}

func TestRoamingSampleFailureRetries(t *testing.T) {
	solver := newTestSolver(t)
	m, agent, surface := newTestMachine(t, solver)
	surface.reject = true
	m.Start()

	m.Update(0.1)
	solver.Update()
	if agent.dests != 0 || m.Roaming().Moving() || m.Roaming().Pending() {
		t.Fatalf("failed sample should leave the roamer idle and ready")
	}

	surface.reject = false
	m.Update(0.1)
	solver.Update()
	if agent.dests != 1 {
		t.Fatalf("expected retry to set a destination")
	}
}

func TestRoamingArrivalGoesIdleThenRoams(t *testing.T) {
	solver := newTestSolver(t)
	m, agent, _ := newTestMachine(t, solver)
	m.Start()
	m.Update(0.1)
	solver.Update()

	// path still computing
	agent.remaining = 0
	m.Update(0.1)
	if m.CurrentName() != StateRoaming {
		t.Fatalf("pending path must not count as arrival")
	}

	agent.pending = false
	agent.remaining = 3
	m.Update(0.1)
	if m.CurrentName() != StateRoaming {
		t.Fatalf("should keep roaming while far away")
	}

	agent.remaining = 0.4
	m.Update(0.1)
	if m.CurrentName() != StateIdle {
		t.Fatalf("expected idle on arrival, got %q", m.CurrentName())
	}
	if !agent.stopped || solver.IsRegistered(m.Roaming()) {
		t.Fatalf("idle should stop the agent and leave the solver")
	}

	m.Update(0.5)
	m.Update(0.5)
	if m.CurrentName() != StateIdle {
		t.Fatalf("idle should wait for the timer to complete")
	}
	m.Update(0.5)
	if m.CurrentName() != StateRoaming {
		t.Fatalf("expected roaming after idle, got %q", m.CurrentName())
	}
	if agent.stopped || agent.resumes != 1 {
		t.Fatalf("leaving idle should resume the agent")
	}
	if !solver.IsRegistered(m.Roaming()) || m.Roaming().Moving() {
		t.Fatalf("re-entering roaming should register with a fresh state")
	}
}

func TestHaltDuringIdleRewindsTimer(t *testing.T) {
	solver := newTestSolver(t)
	m, agent, _ := newTestMachine(t, solver)
	m.Start()
	m.Update(0.1)
	solver.Update()
	agent.pending = false
	agent.remaining = 0
	m.Update(0.1)
	m.Update(0.5)

	m.Halt()
	m.ChangeState(m.Idle())
	if m.Idle().Timer().Elapsed() != 0 {
		t.Fatalf("idle timer should restart from zero")
	}
}

type fakeRoamer struct {
	pos   cp.Vector
	dests []cp.Vector
	order *[]*fakeRoamer
}

func (r *fakeRoamer) Position() cp.Vector { return r.pos }
func (r *fakeRoamer) SetDestination(p cp.Vector) {
	r.dests = append(r.dests, p)
	if r.order != nil {
		*r.order = append(*r.order, r)
	}
}

func TestSolverDestinationsWithinRange(t *testing.T) {
	solver := newTestSolver(t)
	roamers := make([]*fakeRoamer, 200)
	for i := range roamers {
		roamers[i] = &fakeRoamer{pos: cp.Vector{X: float64(i), Y: float64(-i)}}
		solver.Register(roamers[i])
		solver.Flag(roamers[i])
	}

	solver.Update()

	for i, r := range roamers {
		if len(r.dests) != 1 {
			t.Fatalf("roamer %d: expected one destination, got %d", i, len(r.dests))
		}
		d := r.dests[0].Distance(r.pos)
		if d < 5-1e-9 || d > 15+1e-9 {
			t.Fatalf("roamer %d: distance %v outside [5, 15]", i, d)
		}
	}
	if solver.Pending() != 0 {
		t.Fatalf("batch should be cleared")
	}
}

func TestSolverAppliesInRequestOrder(t *testing.T) {
	solver := newTestSolver(t)
	solver.SetParallelism(2, 4)
	var order []*fakeRoamer
	roamers := make([]*fakeRoamer, 9)
	for i := range roamers {
		roamers[i] = &fakeRoamer{order: &order}
		solver.Register(roamers[i])
	}
	for i := len(roamers) - 1; i >= 0; i-- {
		solver.Flag(roamers[i])
	}

	solver.Update()

	for i, r := range order {
		if r != roamers[len(roamers)-1-i] {
			t.Fatalf("destination %d applied out of order", i)
		}
	}
}

func TestSolverSkipsUnregisteredAndDedupes(t *testing.T) {
	solver := newTestSolver(t)
	kept := &fakeRoamer{}
	dropped := &fakeRoamer{}
	stranger := &fakeRoamer{}
	solver.Register(kept)
	solver.Register(dropped)

	solver.Flag(kept)
	solver.Flag(kept)
	solver.Flag(dropped)
	solver.Flag(stranger)
	solver.Unregister(dropped)

	if solver.Pending() != 2 {
		t.Fatalf("expected 2 queued requests, got %d", solver.Pending())
	}
	solver.Update()

	if len(kept.dests) != 1 {
		t.Fatalf("duplicate flags should resolve once, got %d", len(kept.dests))
	}
	if len(dropped.dests) != 0 || len(stranger.dests) != 0 {
		t.Fatalf("unregistered roamers must not receive destinations")
	}
	if solver.IsFlagged(stranger) {
		t.Fatalf("skipped requests should still be cleared")
	}
}

func TestSolverParallelMatchesSerial(t *testing.T) {
	run := func(batch, workers int) []cp.Vector {
		solver, err := NewRoamingManager(RoamingConfig{MinDistance: 1, MaxDistance: 9, BatchSize: batch, Workers: workers}, rand.New(rand.NewPCG(7, 7)))
		if err != nil {
			t.Fatalf("NewRoamingManager: %v", err)
		}
		roamers := make([]*fakeRoamer, 500)
		for i := range roamers {
			roamers[i] = &fakeRoamer{pos: cp.Vector{X: float64(i % 17), Y: float64(i % 5)}}
			solver.Register(roamers[i])
			solver.Flag(roamers[i])
		}
		solver.Update()
		out := make([]cp.Vector, len(roamers))
		for i, r := range roamers {
			out[i] = r.dests[0]
		}
		return out
	}

	serial := run(1000, 1)
	parallel := run(7, 8)
	if !reflect.DeepEqual(serial, parallel) {
		t.Fatalf("chunking should not change results")
	}
}

func TestSolverSetRange(t *testing.T) {
	solver := newTestSolver(t)
	cases := []struct {
		name    string
		lo, hi  float64
		wantErr bool
	}{
		{"valid", 1, 2, false},
		{"equal", 3, 3, false},
		{"inverted", 5, 1, true},
		{"negative", -1, 2, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := solver.SetRange(c.lo, c.hi)
			if (err != nil) != c.wantErr {
				t.Fatalf("wantErr=%v, got %v", c.wantErr, err)
			}
		})
	}

	if err := solver.SetRange(3, 3); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	r := &fakeRoamer{}
	solver.Register(r)
	solver.Flag(r)
	solver.Update()
	if d := r.dests[0].Length(); d < 3-1e-9 || d > 3+1e-9 {
		t.Fatalf("expected fixed distance 3, got %v", d)
	}
}
