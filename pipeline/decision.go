package pipeline

import (
	"context"
	"sync"

	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/ports"
)

// DecisionPhase evaluates the Action Selector for every active entity
// against that entity's own judgment array, writing each entity's
// SelectionResult into a thread-safe DecisionResultBuffer. It is
// parallel-capable: entities are independent, so this phase fans out one
// goroutine per active entity rather than looping serially.
//
// A Selector carries per-Judgment trigger state (Entry.started, and the
// Trigger's own internal state such as HoldTrigger's accumulated frames)
// that must persist tick over tick for edge-triggered triggers to work.
// Building a fresh Selector every tick would reset that state and break
// Press/Release/Hold semantics, so DecisionPhase caches one Selector per
// entity, built from EntityContext.Judgments the first time the entity
// is seen and rebuilt only if the judgment count changes.
type DecisionPhase struct {
	PhaseName string
	Registry  *entityregistry.Registry
	Input     ports.InputProvider
	State     ports.CharacterStateProvider
	Rules     action.CategoryRules
	Buffer    *DecisionResultBuffer

	mu        sync.Mutex
	selectors map[arena.AnyHandle]*cachedSelector
}

type cachedSelector struct {
	selector     *action.Selector
	judgmentLen  int
}

// NewDecisionPhase builds a DecisionPhase named "Decision".
func NewDecisionPhase(registry *entityregistry.Registry, input ports.InputProvider, state ports.CharacterStateProvider, rules action.CategoryRules, buffer *DecisionResultBuffer) *DecisionPhase {
	return &DecisionPhase{
		PhaseName: "Decision",
		Registry:  registry,
		Input:     input,
		State:     state,
		Rules:     rules,
		Buffer:    buffer,
		selectors: make(map[arena.AnyHandle]*cachedSelector),
	}
}

func (p *DecisionPhase) Name() string { return p.PhaseName }

func (p *DecisionPhase) Run(_ context.Context, sc *SystemContext) error {
	if p.Registry == nil || p.Buffer == nil {
		return nil
	}
	active := p.Registry.GetAllActive()

	var wg sync.WaitGroup
	for _, ctx := range active {
		wg.Add(1)
		go func(ctx *entityregistry.EntityContext) {
			defer wg.Done()
			selector := p.selectorFor(ctx)
			result := selector.Select(ctx.Handle, p.Input, p.State, sc.DeltaTicks)
			p.Buffer.Set(ctx.Handle, result)
		}(ctx)
	}
	wg.Wait()
	return nil
}

func (p *DecisionPhase) selectorFor(ctx *entityregistry.EntityContext) *action.Selector {
	p.mu.Lock()
	defer p.mu.Unlock()

	cached, ok := p.selectors[ctx.Handle]
	if ok && cached.judgmentLen == len(ctx.Judgments) {
		return cached.selector
	}

	selector := action.NewSelector(p.Rules)
	for _, j := range ctx.Judgments {
		_ = selector.Register(j) // a duplicate ID within ctx.Judgments is rejected and skipped
	}
	p.selectors[ctx.Handle] = &cachedSelector{selector: selector, judgmentLen: len(ctx.Judgments)}
	return selector
}
