package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/ports"
)

// ErrCyclicDependency is joined into topoSortEntities' returned error for
// every cycle the game-provided DependencyGraph contains. The handles
// making up each cycle are reported separately via the cyclic return
// value and excluded from order; reconciliation is expected to skip
// displacement for exactly those handles and still proceed with the
// acyclic remainder, never abort the whole phase over one bad subgraph.
var ErrCyclicDependency = errors.New("pipeline: cyclic entity dependency")

// topoSortEntities orders handles so that every handle's dependencies
// (per graph) are reconciled before it. Ties and a nil graph fall back
// to the order handles were given in (the active-entity snapshot order),
// keeping the result deterministic regardless of what order a
// game-defined graph happens to return dependency lists in. Uses a
// standard depth-first, temp/visited-mark topological sort, extended to
// isolate a cycle to just the handles on its own path rather than
// failing the whole sort: when a dependency walk revisits a handle still
// on the current DFS stack, every handle from that point to the top of
// the stack is part of the cycle, is excluded from order, and is
// reported in cyclic. Unrelated handles — including ones that merely
// depend on a cyclic handle — are still ordered normally.
func topoSortEntities(handles []arena.AnyHandle, graph ports.DependencyGraph) (order []arena.AnyHandle, cyclic []arena.AnyHandle, err error) {
	position := make(map[arena.AnyHandle]int, len(handles))
	for i, h := range handles {
		position[h] = i
	}

	visited := make(map[arena.AnyHandle]bool, len(handles))
	onStack := make(map[arena.AnyHandle]bool, len(handles))
	stackIndex := make(map[arena.AnyHandle]int, len(handles))
	excluded := make(map[arena.AnyHandle]bool)
	var stack []arena.AnyHandle
	var errs []error

	var visit func(h arena.AnyHandle)
	visit = func(h arena.AnyHandle) {
		if visited[h] || excluded[h] {
			return
		}
		if onStack[h] {
			idx := stackIndex[h]
			cycle := append([]arena.AnyHandle(nil), stack[idx:]...)
			for _, c := range cycle {
				if !excluded[c] {
					excluded[c] = true
					cyclic = append(cyclic, c)
				}
			}
			errs = append(errs, fmt.Errorf("%w: %d entities starting at snapshot index %d", ErrCyclicDependency, len(cycle), position[h]))
			return
		}

		onStack[h] = true
		stackIndex[h] = len(stack)
		stack = append(stack, h)

		var deps []arena.AnyHandle
		if graph != nil {
			deps = append(deps, graph.Dependencies(h)...)
		}
		sort.SliceStable(deps, func(i, k int) bool { return position[deps[i]] < position[deps[k]] })

		for _, dep := range deps {
			if _, known := position[dep]; !known {
				continue // outside this tick's active snapshot; nothing to order against
			}
			visit(dep)
		}

		stack = stack[:len(stack)-1]
		onStack[h] = false

		if excluded[h] {
			return
		}
		visited[h] = true
		order = append(order, h)
	}

	for _, h := range handles {
		visit(h)
	}

	return order, cyclic, errors.Join(errs...)
}
