package pipeline

import (
	"context"

	"github.com/tickforge/simcore/entityregistry"
	"github.com/tickforge/simcore/ports"
	"github.com/tickforge/simcore/simlog"
)

// CleanupPhase is the sole caller of Registry.ProcessDeletions: every
// context marked for deletion this tick is despawned through the
// game-provided EntitySpawner and removed from the registry.
type CleanupPhase struct {
	PhaseName string
	Registry  *entityregistry.Registry
	Spawner   ports.EntitySpawner
	Log       simlog.Logger

	lastRemoved int
}

// NewCleanupPhase builds a CleanupPhase named "Cleanup". A nil log falls
// back to simlog.NopLogger{}.
func NewCleanupPhase(registry *entityregistry.Registry, spawner ports.EntitySpawner, log simlog.Logger) *CleanupPhase {
	if log == nil {
		log = simlog.NopLogger{}
	}
	return &CleanupPhase{PhaseName: "Cleanup", Registry: registry, Spawner: spawner, Log: log}
}

func (p *CleanupPhase) Name() string { return p.PhaseName }

func (p *CleanupPhase) Run(_ context.Context, sc *SystemContext) error {
	if p.Registry == nil {
		return nil
	}
	removed := p.Registry.ProcessDeletions(p.Spawner)
	p.lastRemoved = len(removed)
	if len(removed) > 0 {
		p.Log.Debug("cleanup removed entities", "tick", sc.CurrentTick, "count", len(removed))
	}
	return nil
}

// LastRemoved reports how many entities the most recent Run removed.
func (p *CleanupPhase) LastRemoved() int { return p.lastRemoved }
