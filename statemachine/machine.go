package statemachine

import "github.com/tickforge/simcore/action"

type categorySlot struct {
	current  *ExecutableAction
	executor CategoryExecutor
}

// ActionStateMachine maintains, per entity, one running ExecutableAction
// per Category. Categories iterate in the order they were declared to
// NewActionStateMachine, never in map order, so results are deterministic
// tick over tick regardless of Go's randomized map iteration.
type ActionStateMachine struct {
	order []action.Category
	slots map[action.Category]*categorySlot
}

// NewActionStateMachine builds a state machine over the given categories,
// in the order they should be iterated by Tick. A category not listed
// here is rejected by StartAction.
func NewActionStateMachine(categories ...action.Category) *ActionStateMachine {
	m := &ActionStateMachine{
		order: append([]action.Category(nil), categories...),
		slots: make(map[action.Category]*categorySlot, len(categories)),
	}
	for _, c := range categories {
		m.slots[c] = &categorySlot{executor: NopExecutor{}}
	}
	return m
}

// SetExecutor installs the CategoryExecutor invoked for a category's
// enter/update/exit lifecycle. Must be called with a category passed to
// NewActionStateMachine.
func (m *ActionStateMachine) SetExecutor(cat action.Category, executor CategoryExecutor) {
	slot, ok := m.slots[cat]
	if !ok {
		return
	}
	if executor == nil {
		executor = NopExecutor{}
	}
	slot.executor = executor
}

// StartAction replaces whatever action is currently running in def's
// category: the outgoing action (if any) receives OnExit, then the new
// action is installed and receives OnEnter. Returns false if the category
// was never declared to NewActionStateMachine.
func (m *ActionStateMachine) StartAction(def *ActionDefinition) bool {
	slot, ok := m.slots[def.Category]
	if !ok {
		return false
	}
	if slot.current != nil {
		slot.executor.OnExit(slot.current)
	}
	next := &ExecutableAction{Def: def}
	slot.current = next
	slot.executor.OnEnter(next)
	return true
}

// Tick advances every running action by deltaTicks frames, invokes each
// category's OnUpdate hook, then — in a second pass, so completions
// discovered mid-iteration never mutate the set being iterated — invokes
// OnExit and clears every action that has completed.
func (m *ActionStateMachine) Tick(deltaTicks int) []action.Category {
	var completed []action.Category

	for _, cat := range m.order {
		slot := m.slots[cat]
		if slot.current == nil {
			continue
		}
		slot.current.ElapsedFrames += deltaTicks
		slot.executor.OnUpdate(slot.current, deltaTicks)
		if slot.current.IsComplete() {
			completed = append(completed, cat)
		}
	}

	for _, cat := range completed {
		slot := m.slots[cat]
		slot.executor.OnExit(slot.current)
		slot.current = nil
	}

	return completed
}

// IsRunning reports whether cat currently has an action in flight.
func (m *ActionStateMachine) IsRunning(cat action.Category) bool {
	slot, ok := m.slots[cat]
	return ok && slot.current != nil
}

// CanCancel reports whether cat's running action (if any) is within its
// cancel window.
func (m *ActionStateMachine) CanCancel(cat action.Category) bool {
	slot, ok := m.slots[cat]
	if !ok || slot.current == nil {
		return false
	}
	return slot.current.CanCancel()
}

// Current returns cat's running action, if any.
func (m *ActionStateMachine) Current(cat action.Category) (*ExecutableAction, bool) {
	slot, ok := m.slots[cat]
	if !ok || slot.current == nil {
		return nil, false
	}
	return slot.current, true
}

// Categories returns the declared iteration order.
func (m *ActionStateMachine) Categories() []action.Category {
	return append([]action.Category(nil), m.order...)
}
