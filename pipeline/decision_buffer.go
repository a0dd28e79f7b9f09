package pipeline

import (
	"sync"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
)

// DecisionResultBuffer is the thread-safe, handle-keyed map the Decision
// phase writes into concurrently and the Execution phase later drains.
// Decision holds only this buffer and read-only ports; Execution is the
// only phase with exclusive write access to the registry, which is why
// the buffer — not the registry — absorbs Decision's concurrency.
type DecisionResultBuffer struct {
	mu      sync.Mutex
	results map[arena.AnyHandle]action.SelectionResult
}

// NewDecisionResultBuffer builds an empty buffer.
func NewDecisionResultBuffer() *DecisionResultBuffer {
	return &DecisionResultBuffer{results: make(map[arena.AnyHandle]action.SelectionResult)}
}

// Set records entity's SelectionResult. Safe to call from any number of
// concurrent Decision goroutines.
func (b *DecisionResultBuffer) Set(entity arena.AnyHandle, result action.SelectionResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[entity] = result
}

// Get returns the recorded result for entity, if any.
func (b *DecisionResultBuffer) Get(entity arena.AnyHandle) (action.SelectionResult, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r, ok := b.results[entity]
	return r, ok
}

// Reset clears every recorded result. Execution calls this once it has
// consumed the buffer, so a handle with no Decision result this tick
// never sees last tick's stale entry.
func (b *DecisionResultBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = make(map[arena.AnyHandle]action.SelectionResult)
}

// Len reports how many entities currently have a recorded result.
func (b *DecisionResultBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.results)
}
