package pipeline

import (
	"context"

	"github.com/tickforge/simcore/ports"
)

// CollisionPhase reads every collision pair the external CollisionSource
// detected since the last tick, hands them to the CollisionMessageEmitter
// to turn into game-defined commands on the message queue, then clears
// the source so next tick starts from nothing.
type CollisionPhase struct {
	PhaseName string
	Source    ports.CollisionSource
	Emitter   ports.CollisionMessageEmitter
}

// NewCollisionPhase builds a CollisionPhase named "Collision".
func NewCollisionPhase(source ports.CollisionSource, emitter ports.CollisionMessageEmitter) *CollisionPhase {
	return &CollisionPhase{PhaseName: "Collision", Source: source, Emitter: emitter}
}

func (p *CollisionPhase) Name() string { return p.PhaseName }

// Run is a no-op with a nil Source (a game that has no collision system
// yet simply never enqueues collision commands).
func (p *CollisionPhase) Run(_ context.Context, _ *SystemContext) error {
	if p.Source == nil {
		return nil
	}
	pairs := p.Source.GetCollisions()
	if p.Emitter != nil {
		p.Emitter.Emit(pairs)
	}
	p.Source.Clear()
	return nil
}
