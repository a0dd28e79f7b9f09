// Package entityregistry implements the Entity Context Registry: the
// handle → EntityContext map plus the active/marked-for-deletion
// bookkeeping that the Phase Pipeline reads and mutates every tick.
package entityregistry

import (
	"github.com/tickforge/simcore/action"
	"github.com/tickforge/simcore/arena"
	"github.com/tickforge/simcore/ports"
	"github.com/tickforge/simcore/statemachine"
)

// EntityContext is exclusively owned by the Registry. It is created by
// Register, mutated only by pipeline phases, and destroyed by Cleanup
// (via ProcessDeletions) — no other path may remove it.
type EntityContext struct {
	Handle      arena.AnyHandle
	Actions     *statemachine.ActionStateMachine
	Judgments   []action.Judgment // borrowed, never owned
	Volumes     []ports.Vec3      // owned collision volumes for this entity
	Backref     any               // optional unit/spawn backref, game-defined

	active             bool
	markedForDeletion  bool
}

// IsActive reports whether this context counts toward GetAllActive.
func (c *EntityContext) IsActive() bool { return c.active && !c.markedForDeletion }

// IsMarkedForDeletion reports whether Cleanup will remove this context.
func (c *EntityContext) IsMarkedForDeletion() bool { return c.markedForDeletion }
