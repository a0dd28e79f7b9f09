package pipeline

import (
	"context"

	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/ports"
)

// ReconciliationPhase resolves the conflicting entity pairs
// ConflictSource reports this tick: it topologically sorts the active
// entities per DependencyGraph (so a dependency settles before anything
// depending on it reads a stale position), computes each pair's mutual
// push-out via Rule, accumulates per-entity displacement, and applies
// the result through TransformAccessor in dependency order.
//
// A dependency cycle never aborts the phase: topoSortEntities reports
// the cyclic handles separately, Run skips displacement for just those
// handles (and any conflict pair naming one of them) and returns the
// cycle as an error for the tick's diagnostics, while every acyclic
// handle still gets reconciled normally.
type ReconciliationPhase struct {
	PhaseName string
	Registry  *entityregistry.Registry
	Graph     ports.DependencyGraph
	Conflicts ports.ConflictSource
	Rule      ports.PushOutRule
	Transform ports.TransformAccessor
}

// NewReconciliationPhase builds a ReconciliationPhase named
// "Reconciliation".
func NewReconciliationPhase(registry *entityregistry.Registry, graph ports.DependencyGraph, conflicts ports.ConflictSource, rule ports.PushOutRule, transform ports.TransformAccessor) *ReconciliationPhase {
	return &ReconciliationPhase{
		PhaseName: "Reconciliation",
		Registry:  registry,
		Graph:     graph,
		Conflicts: conflicts,
		Rule:      rule,
		Transform: transform,
	}
}

func (p *ReconciliationPhase) Name() string { return p.PhaseName }

func (p *ReconciliationPhase) Run(_ context.Context, _ *SystemContext) error {
	if p.Registry == nil || p.Conflicts == nil || p.Rule == nil || p.Transform == nil {
		return nil
	}

	active := p.Registry.GetAllActive()
	handles := make([]arena.AnyHandle, 0, len(active))
	for _, ctx := range active {
		handles = append(handles, ctx.Handle)
	}

	// A cyclic subgraph is reported, not fatal: its handles are excluded
	// from order and skipped below, but every acyclic handle still gets
	// reconciled this tick.
	order, cyclic, cycleErr := topoSortEntities(handles, p.Graph)
	skip := make(map[arena.AnyHandle]bool, len(cyclic))
	for _, h := range cyclic {
		skip[h] = true
	}

	displacement := make(map[arena.AnyHandle]ports.Vec3)
	for _, pair := range p.Conflicts.GetConflicts() {
		if skip[pair.A] || skip[pair.B] {
			continue
		}
		pushA, pushB := p.Rule.Resolve(pair)
		displacement[pair.A] = addVec3(displacement[pair.A], pushA)
		displacement[pair.B] = addVec3(displacement[pair.B], pushB)
	}

	for _, h := range order {
		delta, ok := displacement[h]
		if !ok {
			continue
		}
		pos := p.Transform.GetPosition(h)
		p.Transform.SetPosition(h, addVec3(pos, delta))
	}
	return cycleErr
}

func addVec3(a, b ports.Vec3) ports.Vec3 {
	return ports.Vec3{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}
