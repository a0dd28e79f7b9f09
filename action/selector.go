package action

import (
	"sort"

	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/ports"
)

// Entry wraps a registered Judgment with its insertion index, the tie
// breaker used whenever two Judgments in the same category share a
// Priority.
type Entry struct {
	Judgment Judgment
	index    int
	started  bool
}

// Selector runs the Action Selector: per entity, per tick, it evaluates
// every registered Judgment and picks at most one winner per Category,
// honoring CategoryRules exclusivity across categories. Selection is a
// pure function of (registered judgments, input, game state) for a given
// tick — no hidden RNG, no wall-clock.
type Selector struct {
	rules   CategoryRules
	entries map[Category][]*Entry
	next    int
}

// NewSelector builds a Selector using rules to decide cross-category
// exclusivity. A nil rules falls back to IdentityOnly.
func NewSelector(rules CategoryRules) *Selector {
	if rules == nil {
		rules = IdentityOnly
	}
	return &Selector{rules: rules, entries: make(map[Category][]*Entry)}
}

// Register adds a Judgment to its category's evaluation order. Judgments
// are evaluated within a category in ascending Priority order, ties
// broken by registration order (first registered, first evaluated).
func (s *Selector) Register(j Judgment) error {
	cat := j.Category()
	for _, e := range s.entries[cat] {
		if e.Judgment.ID() == j.ID() {
			return ErrDuplicateEntry
		}
	}
	s.entries[cat] = append(s.entries[cat], &Entry{Judgment: j, index: s.next})
	s.next++
	s.sortCategory(cat)
	return nil
}

func (s *Selector) sortCategory(cat Category) {
	entries := s.entries[cat]
	sort.SliceStable(entries, func(i, k int) bool {
		pi, pk := entries[i].Judgment.Priority(), entries[k].Judgment.Priority()
		if pi.Less(pk) || pk.Less(pi) {
			return pi.Less(pk)
		}
		return entries[i].index < entries[k].index
	})
}

type categoryCandidate struct {
	category Category
	entry    *Entry
	priority Priority
}

// Select evaluates every registered Judgment for one entity on one tick
// and returns the winners per category plus a full evaluation trace.
//
// The algorithm runs in four deterministic passes:
//  1. Within each category (ascending Priority, ties by registration
//     order), find the first Judgment whose Trigger fires and whose
//     Condition allows it. Every Judgment in the category is recorded:
//     as disabled-priority, not-triggered or condition-failed where that
//     applies, and as category-occupied when it fires and is allowed
//     after the category already has a winner.
//  2. Categories that found no candidate are dropped.
//  3. The surviving per-category candidates are sorted globally by
//     Priority (ties by category name, then registration order) so that
//     cross-category exclusivity is resolved in priority order regardless
//     of which category happens to iterate first.
//  4. Candidates are accepted greedily in that global order; a candidate
//     whose category is exclusive (per CategoryRules) with an
//     already-accepted category is marked as an exclusivity conflict
//     instead of winning.
func (s *Selector) Select(entity arena.AnyHandle, input ports.InputProvider, state ports.CharacterStateProvider, deltaTicks int) SelectionResult {
	result := SelectionResult{Entity: entity, Selected: make(map[Category]Judgment)}

	var inputState ports.InputState
	if input != nil {
		inputState = input.GetInput(entity)
	}
	var gameState ports.GameState
	if state != nil {
		gameState = state.GetState(entity)
	}

	categories := make([]Category, 0, len(s.entries))
	for cat := range s.entries {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, k int) bool { return categories[i] < categories[k] })

	candidates := make([]categoryCandidate, 0, len(categories))
	// evalIndex maps category -> index into result.Evaluations of its
	// accepted candidate's evaluation record, so step 4 can flip it to
	// suppressed without a second pass over every entry.
	evalIndex := make(map[Category]int)

	for _, cat := range categories {
		won := false
		for _, e := range s.entries[cat] {
			j := e.Judgment
			if j.Priority().IsDisabled() {
				result.Evaluations = append(result.Evaluations, Evaluation{Judgment: j, Outcome: OutcomeDisabledPriority})
				continue
			}
			if !e.started {
				j.Trigger().OnStart()
				e.started = true
			}
			j.Trigger().OnUpdate(inputState, deltaTicks)

			if !j.Trigger().IsTriggered(inputState) {
				result.Evaluations = append(result.Evaluations, Evaluation{Judgment: j, Outcome: OutcomeNotTriggered})
				continue
			}
			if !evalAllowed(j, gameState) {
				result.Evaluations = append(result.Evaluations, Evaluation{Judgment: j, Outcome: OutcomeConditionFailed})
				continue
			}
			if won {
				result.Evaluations = append(result.Evaluations, Evaluation{Judgment: j, Outcome: OutcomeCategoryOccupied})
				continue
			}

			idx := len(result.Evaluations)
			result.Evaluations = append(result.Evaluations, Evaluation{Judgment: j, Outcome: OutcomeSelected})
			evalIndex[cat] = idx
			candidates = append(candidates, categoryCandidate{category: cat, entry: e, priority: j.Priority()})
			won = true
		}
	}

	sort.SliceStable(candidates, func(i, k int) bool {
		pi, pk := candidates[i].priority, candidates[k].priority
		if pi.Less(pk) || pk.Less(pi) {
			return pi.Less(pk)
		}
		if candidates[i].category != candidates[k].category {
			return candidates[i].category < candidates[k].category
		}
		return candidates[i].entry.index < candidates[k].entry.index
	})

	var accepted []Category
	for _, c := range candidates {
		blocked := false
		for _, a := range accepted {
			if s.rules.AreExclusive(c.category, a) {
				blocked = true
				break
			}
		}
		if blocked {
			result.Evaluations[evalIndex[c.category]].Outcome = OutcomeExclusivityConflict
			continue
		}
		accepted = append(accepted, c.category)
		result.Selected[c.category] = c.entry.Judgment
	}

	return result
}

// evalAllowed calls j.Allowed, converting a panicking condition into a
// condition-failure rather than letting it crash tick processing.
func evalAllowed(j Judgment, state ports.GameState) (allowed bool) {
	defer func() {
		if recover() != nil {
			allowed = false
		}
	}()
	return j.Allowed(state)
}
