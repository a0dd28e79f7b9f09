package pipeline

import (
	"context"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/statemachine"
)

// ActionFactory is the game-provided constructor Execution uses to turn
// a selected Judgment's ActionID into the concrete ActionDefinition
// (frame counts, cancel/hitbox/invincible windows) the state machine
// needs to run it.
type ActionFactory interface {
	Build(id action.ActionID) *statemachine.ActionDefinition
}

// ExecutionPhase drains the DecisionResultBuffer Decision populated and,
// for every active entity — iterated in the registry's stable
// registration-order snapshot, not the buffer's concurrent map order —
// starts any newly selected action per category and advances that
// entity's ActionStateMachine by the tick's DeltaTicks.
//
// A category whose running action already matches the selected Judgment
// is left alone rather than restarted, and a category whose running
// action names a different Judgment is only interrupted while that
// action is inside its cancel window — otherwise the selection is
// dropped for this tick and the running action keeps going.
type ExecutionPhase struct {
	PhaseName string
	Registry  *entityregistry.Registry
	Buffer    *DecisionResultBuffer
	Factory   ActionFactory
}

// NewExecutionPhase builds an ExecutionPhase named "Execution".
func NewExecutionPhase(registry *entityregistry.Registry, buffer *DecisionResultBuffer, factory ActionFactory) *ExecutionPhase {
	return &ExecutionPhase{PhaseName: "Execution", Registry: registry, Buffer: buffer, Factory: factory}
}

func (p *ExecutionPhase) Name() string { return p.PhaseName }

func (p *ExecutionPhase) Run(_ context.Context, sc *SystemContext) error {
	if p.Registry == nil || p.Buffer == nil {
		return nil
	}

	for _, ctx := range p.Registry.GetAllActive() {
		if ctx.Actions == nil {
			continue
		}
		result, ok := p.Buffer.Get(ctx.Handle)
		if ok {
			for _, cat := range ctx.Actions.Categories() {
				judgment, selected := result.Selected[cat]
				if !selected || p.Factory == nil {
					continue
				}
				if current, running := ctx.Actions.Current(cat); running {
					if current.Def.ActionID == judgment.ID() {
						continue // already running this action; let it play out uninterrupted
					}
					if !ctx.Actions.CanCancel(cat) {
						continue // outside the cancel window; the running action can't be interrupted
					}
				}
				if def := p.Factory.Build(judgment.ID()); def != nil {
					ctx.Actions.StartAction(def)
				}
			}
		}
		ctx.Actions.Tick(sc.DeltaTicks)
	}

	p.Buffer.Reset()
	return nil
}
