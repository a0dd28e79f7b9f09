package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/ports"
	"github.com/tickforge/simcore/statemachine"
	"github.com/tickforge/simcore/wave"
)

type fakeInput struct{ pressed map[string]bool }

func (f fakeInput) IsPressed(b string) bool  { return f.pressed[b] }
func (f fakeInput) IsHeld(string) bool       { return false }
func (f fakeInput) IsReleased(string) bool   { return false }
func (f fakeInput) Direction() ports.Vec3    { return ports.Vec3{} }

type fakeInputProvider struct{ state fakeInput }

func (f fakeInputProvider) GetInput(arena.AnyHandle) ports.InputState { return f.state }

type fakeStateProvider struct{}

func (fakeStateProvider) GetState(arena.AnyHandle) ports.GameState { return nil }

type fakeFactory struct{}

func (fakeFactory) Build(id action.ActionID) *statemachine.ActionDefinition {
	return &statemachine.ActionDefinition{ActionID: id, Category: "FullBody", TotalFrames: 4}
}

type fakeSpawner struct{ despawned []arena.AnyHandle }

func (f *fakeSpawner) Spawn() arena.AnyHandle { return arena.AnyHandle{} }
func (f *fakeSpawner) Despawn(h arena.AnyHandle) bool {
	f.despawned = append(f.despawned, h)
	return true
}

type fakeTransform struct{ pos map[arena.AnyHandle]ports.Vec3 }

func (f *fakeTransform) GetPosition(h arena.AnyHandle) ports.Vec3 { return f.pos[h] }
func (f *fakeTransform) SetPosition(h arena.AnyHandle, p ports.Vec3) {
	if f.pos == nil {
		f.pos = make(map[arena.AnyHandle]ports.Vec3)
	}
	f.pos[h] = p
}

type fakeConflictSource struct{ pairs []ports.ConflictPair }

func (f fakeConflictSource) GetConflicts() []ports.ConflictPair { return f.pairs }

type fakePushOutRule struct{}

func (fakePushOutRule) Resolve(pair ports.ConflictPair) (ports.Vec3, ports.Vec3) {
	return ports.Vec3{X: 1}, ports.Vec3{X: -1}
}

type pingCmd struct{}

func (pingCmd) Priority() int { return 0 }

func TestDecisionThenExecutionStartsSelectedAction(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](1)
	h, err := a.Allocate()
	require.NoError(t, err)
	handle := h.Any()

	ctx, err := registry.Register(handle)
	require.NoError(t, err)
	ctx.Actions = statemachine.NewActionStateMachine("FullBody")
	ctx.Judgments = []action.Judgment{
		action.NewJudgment("Jump", "FullBody", action.Normal, action.Press("jump"), nil),
	}

	buffer := NewDecisionResultBuffer()
	decision := NewDecisionPhase(registry, fakeInputProvider{state: fakeInput{pressed: map[string]bool{"jump": true}}}, fakeStateProvider{}, action.IdentityOnly, buffer)
	execution := NewExecutionPhase(registry, buffer, fakeFactory{})

	sc := &SystemContext{DeltaTicks: 1, CurrentTick: 1, CancelToken: NewCancelToken()}
	require.NoError(t, decision.Run(context.Background(), sc))
	require.NoError(t, execution.Run(context.Background(), sc))

	assert.True(t, ctx.Actions.IsRunning("FullBody"))
	assert.Equal(t, 0, buffer.Len(), "execution must reset the buffer after draining it")
}

type fixedFactory struct{ defs map[action.ActionID]*statemachine.ActionDefinition }

func (f fixedFactory) Build(id action.ActionID) *statemachine.ActionDefinition { return f.defs[id] }

func TestExecutionLeavesAMatchingRunningActionAlone(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](1)
	h, err := a.Allocate()
	require.NoError(t, err)
	handle := h.Any()
	ctx, err := registry.Register(handle)
	require.NoError(t, err)
	ctx.Actions = statemachine.NewActionStateMachine("FullBody")

	factory := fixedFactory{defs: map[action.ActionID]*statemachine.ActionDefinition{
		"Attack": {ActionID: "Attack", Category: "FullBody", TotalFrames: 10},
	}}
	ctx.Actions.StartAction(factory.defs["Attack"])
	ctx.Actions.Tick(3) // now 3 frames into a 10-frame action, well past any cancel window

	buffer := NewDecisionResultBuffer()
	buffer.Set(handle, action.SelectionResult{Selected: map[action.Category]action.Judgment{
		"FullBody": action.NewJudgment("Attack", "FullBody", action.Normal, action.Always(), nil),
	}})
	execution := NewExecutionPhase(registry, buffer, factory)
	require.NoError(t, execution.Run(context.Background(), &SystemContext{DeltaTicks: 1, CancelToken: NewCancelToken()}))

	current, running := ctx.Actions.Current("FullBody")
	require.True(t, running)
	assert.Equal(t, 4, current.ElapsedFrames, "re-selecting the same action must not reset its elapsed frames")
}

func TestExecutionBlocksADifferentActionOutsideTheCancelWindow(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](1)
	h, err := a.Allocate()
	require.NoError(t, err)
	handle := h.Any()
	ctx, err := registry.Register(handle)
	require.NoError(t, err)
	ctx.Actions = statemachine.NewActionStateMachine("FullBody")

	factory := fixedFactory{defs: map[action.ActionID]*statemachine.ActionDefinition{
		"Attack": {ActionID: "Attack", Category: "FullBody", TotalFrames: 10, CancelWindow: statemachine.FrameWindow{Start: 8, End: 10}},
		"Dodge":  {ActionID: "Dodge", Category: "FullBody", TotalFrames: 5},
	}}
	ctx.Actions.StartAction(factory.defs["Attack"])
	ctx.Actions.Tick(2) // elapsed=2, outside the [8,10] cancel window

	buffer := NewDecisionResultBuffer()
	buffer.Set(handle, action.SelectionResult{Selected: map[action.Category]action.Judgment{
		"FullBody": action.NewJudgment("Dodge", "FullBody", action.Normal, action.Always(), nil),
	}})
	execution := NewExecutionPhase(registry, buffer, factory)
	require.NoError(t, execution.Run(context.Background(), &SystemContext{DeltaTicks: 0, CancelToken: NewCancelToken()}))

	current, running := ctx.Actions.Current("FullBody")
	require.True(t, running)
	assert.Equal(t, action.ActionID("Attack"), current.Def.ActionID, "a selection outside the cancel window must not interrupt the running action")
}

func TestExecutionAllowsADifferentActionInsideTheCancelWindow(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](1)
	h, err := a.Allocate()
	require.NoError(t, err)
	handle := h.Any()
	ctx, err := registry.Register(handle)
	require.NoError(t, err)
	ctx.Actions = statemachine.NewActionStateMachine("FullBody")

	factory := fixedFactory{defs: map[action.ActionID]*statemachine.ActionDefinition{
		"Attack": {ActionID: "Attack", Category: "FullBody", TotalFrames: 10, CancelWindow: statemachine.FrameWindow{Start: 2, End: 10}},
		"Dodge":  {ActionID: "Dodge", Category: "FullBody", TotalFrames: 5},
	}}
	ctx.Actions.StartAction(factory.defs["Attack"])
	ctx.Actions.Tick(2) // elapsed=2, inside the [2,10] cancel window

	buffer := NewDecisionResultBuffer()
	buffer.Set(handle, action.SelectionResult{Selected: map[action.Category]action.Judgment{
		"FullBody": action.NewJudgment("Dodge", "FullBody", action.Normal, action.Always(), nil),
	}})
	execution := NewExecutionPhase(registry, buffer, factory)
	require.NoError(t, execution.Run(context.Background(), &SystemContext{DeltaTicks: 0, CancelToken: NewCancelToken()}))

	current, running := ctx.Actions.Current("FullBody")
	require.True(t, running)
	assert.Equal(t, action.ActionID("Dodge"), current.Def.ActionID, "a selection inside the cancel window must be allowed to interrupt")
}

func TestReconciliationAppliesPushOutToBothSides(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](2)
	ha, _ := a.Allocate()
	hb, _ := a.Allocate()
	handleA, handleB := ha.Any(), hb.Any()
	_, err := registry.Register(handleA)
	require.NoError(t, err)
	_, err = registry.Register(handleB)
	require.NoError(t, err)

	transform := &fakeTransform{pos: map[arena.AnyHandle]ports.Vec3{handleA: {}, handleB: {}}}
	phase := NewReconciliationPhase(registry, nil, fakeConflictSource{pairs: []ports.ConflictPair{{A: handleA, B: handleB}}}, fakePushOutRule{}, transform)

	require.NoError(t, phase.Run(context.Background(), &SystemContext{CancelToken: NewCancelToken()}))
	assert.Equal(t, 1.0, transform.GetPosition(handleA).X)
	assert.Equal(t, -1.0, transform.GetPosition(handleB).X)
}

func TestReconciliationSkipsOnlyTheCyclicPairAndStillAppliesTheRest(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](3)
	ha, _ := a.Allocate()
	hb, _ := a.Allocate()
	hc, _ := a.Allocate()
	handleA, handleB, handleC := ha.Any(), hb.Any(), hc.Any()
	for _, h := range []arena.AnyHandle{handleA, handleB, handleC} {
		_, err := registry.Register(h)
		require.NoError(t, err)
	}

	// A and B depend on each other (a cycle); C has no dependencies and
	// is in a conflict pair of its own.
	hd, _ := a.Allocate()
	handleD := hd.Any()
	_, err := registry.Register(handleD)
	require.NoError(t, err)

	graph := &fakeDependencyGraph{deps: map[arena.AnyHandle][]arena.AnyHandle{
		handleA: {handleB},
		handleB: {handleA},
	}}

	transform := &fakeTransform{pos: map[arena.AnyHandle]ports.Vec3{
		handleA: {}, handleB: {}, handleC: {}, handleD: {},
	}}
	conflicts := fakeConflictSource{pairs: []ports.ConflictPair{
		{A: handleA, B: handleB},
		{A: handleC, B: handleD},
	}}
	phase := NewReconciliationPhase(registry, graph, conflicts, fakePushOutRule{}, transform)

	err = phase.Run(context.Background(), &SystemContext{CancelToken: NewCancelToken()})
	require.ErrorIs(t, err, ErrCyclicDependency)

	// The cyclic pair is left untouched for the tick...
	assert.Equal(t, ports.Vec3{}, transform.GetPosition(handleA))
	assert.Equal(t, ports.Vec3{}, transform.GetPosition(handleB))
	// ...but the unrelated, acyclic pair still gets reconciled.
	assert.Equal(t, 1.0, transform.GetPosition(handleC).X)
	assert.Equal(t, -1.0, transform.GetPosition(handleD).X)
}

func TestCleanupPhaseRemovesMarkedEntities(t *testing.T) {
	registry := entityregistry.NewRegistry()
	a := arena.New[int](1)
	h, _ := a.Allocate()
	handle := h.Any()
	_, err := registry.Register(handle)
	require.NoError(t, err)
	registry.MarkForDeletion(handle)

	spawner := &fakeSpawner{}
	cleanup := NewCleanupPhase(registry, spawner, nil)
	require.NoError(t, cleanup.Run(context.Background(), &SystemContext{CurrentTick: 1, CancelToken: NewCancelToken()}))

	assert.Equal(t, 1, cleanup.LastRemoved())
	assert.Equal(t, []arena.AnyHandle{handle}, spawner.despawned)
	assert.Equal(t, 0, registry.Len())
}

func TestMessagePhaseRecordsConvergedResult(t *testing.T) {
	processor := wave.NewProcessor(4)
	queue := wave.NewCommandQueue[pingCmd]("ping", func(*pingCmd) error { return nil })
	processor.Register(queue)

	phase := NewMessagePhase(processor, nil)
	require.NoError(t, phase.Run(context.Background(), &SystemContext{CancelToken: NewCancelToken()}))
	assert.Equal(t, wave.Converged, phase.LastResult().Outcome)
}

func TestPipelineTickIncrementsTickAndRunsRoot(t *testing.T) {
	var ran []string
	var mu sync.Mutex
	g := NewSerialGroup("root", newRecordingSystem("collision", &ran, &mu))

	p := New(g, nil, nil, nil, nil)
	r1 := p.Tick(context.Background(), 1)
	r2 := p.Tick(context.Background(), 1)

	assert.Equal(t, uint64(1), r1.Tick)
	assert.Equal(t, uint64(2), r2.Tick)
	assert.Equal(t, []string{"collision", "collision"}, ran)
}
