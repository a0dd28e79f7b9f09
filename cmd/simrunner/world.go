package main

import (
	"math/rand"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/ports"
	"github.com/tickforge/simcore/statemachine"
)

// demoWorld wires in-memory stand-ins for every port the pipeline needs,
// so the engine can run with no real game client attached. Entities
// jump on a random one-in-four "press" each tick, move only when
// Reconciliation pushes them, and the two lowest-handled entities are reported as perpetually in conflict so
// Reconciliation has something to push apart.
type demoWorld struct {
	registry  *entityregistry.Registry
	arena     *arena.Arena[struct{}]
	spawner   *demoSpawner
	input     *demoInputProvider
	state     demoStateProvider
	factory   demoFactory
	transform *demoTransform
	conflicts *demoConflictSource
	pushOut   demoPushOutRule
}

func newDemoWorld(count int) *demoWorld {
	if count <= 0 {
		count = 1
	}

	a := arena.New[struct{}](uint32(count))
	registry := entityregistry.NewRegistry()
	transform := &demoTransform{positions: make(map[arena.AnyHandle]ports.Vec3, count)}
	input := &demoInputProvider{}

	handles := make([]arena.AnyHandle, 0, count)
	for i := 0; i < count; i++ {
		h, err := a.Allocate()
		if err != nil {
			break
		}
		handle := h.Any()
		handles = append(handles, handle)

		ctx, err := registry.Register(handle)
		if err != nil {
			continue
		}
		ctx.Actions = statemachine.NewActionStateMachine("FullBody")
		ctx.Judgments = []action.Judgment{
			action.NewJudgment("Jump", "FullBody", action.NewPriority(0, 0, 0), action.Press("jump"), nil),
		}
		transform.positions[handle] = ports.Vec3{X: float64(i)}
	}

	var conflictPairs []ports.ConflictPair
	if len(handles) >= 2 {
		conflictPairs = []ports.ConflictPair{{A: handles[0], B: handles[1], Normal: ports.Vec3{X: 1}}}
	}

	return &demoWorld{
		registry:  registry,
		arena:     a,
		spawner:   &demoSpawner{arena: a},
		input:     input,
		state:     demoStateProvider{},
		factory:   demoFactory{},
		transform: transform,
		conflicts: &demoConflictSource{pairs: conflictPairs},
		pushOut:   demoPushOutRule{},
	}
}

// demoInputState reports a single button's random press for one
// tick; Direction and held/released states are never exercised by the
// demo judgments so they stay at their zero value.
type demoInputState struct {
	jumpPressed bool
}

func (s demoInputState) IsPressed(button string) bool { return button == "jump" && s.jumpPressed }
func (demoInputState) IsHeld(string) bool             { return false }
func (demoInputState) IsReleased(string) bool         { return false }
func (demoInputState) Direction() ports.Vec3          { return ports.Vec3{} }

// demoInputProvider answers GetInput with a fresh one-in-four random
// press per entity per call, standing in for a real controller or replay
// buffer.
type demoInputProvider struct{}

func (demoInputProvider) GetInput(arena.AnyHandle) ports.InputState {
	return demoInputState{jumpPressed: rand.Intn(4) == 0}
}

// demoStateProvider has no game state to report; every Judgment in the
// demo omits a Condition, so the nil state the selector fetches from it
// is never read.
type demoStateProvider struct{}

func (demoStateProvider) GetState(arena.AnyHandle) ports.GameState { return nil }

// demoFactory builds the same short full-body action for every
// ActionID the selector picks, enough to exercise the state machine
// without a real animation/move table.
type demoFactory struct{}

func (demoFactory) Build(id action.ActionID) *statemachine.ActionDefinition {
	return &statemachine.ActionDefinition{ActionID: id, Category: "FullBody", TotalFrames: 6}
}

// demoSpawner despawns by freeing the arena slot backing the handle;
// Spawn is never called by the demo (the entity set is fixed at
// startup) but is implemented to satisfy ports.EntitySpawner.
type demoSpawner struct {
	arena *arena.Arena[struct{}]
}

func (s *demoSpawner) Spawn() arena.AnyHandle { return arena.AnyHandle{} }

func (s *demoSpawner) Despawn(h arena.AnyHandle) bool {
	return s.arena.Free(h.Index, h.Generation)
}

// demoTransform is an in-memory position table Reconciliation reads and
// writes directly; a real game would back this with its own transform
// component store.
type demoTransform struct {
	positions map[arena.AnyHandle]ports.Vec3
}

func (t *demoTransform) GetPosition(h arena.AnyHandle) ports.Vec3 { return t.positions[h] }
func (t *demoTransform) SetPosition(h arena.AnyHandle, pos ports.Vec3) {
	t.positions[h] = pos
}

// demoConflictSource reports a fixed conflicting pair, set up once at
// startup, so Reconciliation always has something to resolve.
type demoConflictSource struct {
	pairs []ports.ConflictPair
}

func (s *demoConflictSource) GetConflicts() []ports.ConflictPair { return s.pairs }

// demoPushOutRule separates a conflicting pair by a fixed unit step
// along the pair's Normal.
type demoPushOutRule struct{}

func (demoPushOutRule) Resolve(pair ports.ConflictPair) (pushA, pushB ports.Vec3) {
	return pair.Normal, ports.Vec3{X: -pair.Normal.X, Y: -pair.Normal.Y, Z: -pair.Normal.Z}
}
