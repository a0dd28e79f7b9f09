// Package ports declares the narrow interfaces the simulation core consumes
// from external collaborators (collision geometry, input capture, game
// state, spawning, transforms) without depending on their implementations.
// Every port is a small interface of one to four methods, in the spirit
// of Go's standard-library interfaces (Reader, Writer, Closer).
package ports

import (
	"github.com/tickforge/simcore/arena"
)

// Vec3 is a minimal 3-component vector; the core does no vector math on
// it beyond Reconciliation adding a push-out to a position (the rest
// belongs to the spatial/collision system this package is a port into).
type Vec3 struct {
	X, Y, Z float64
}

// CollisionPair carries the two entities a collision source observed in
// contact for one tick, plus the contact geometry.
type CollisionPair struct {
	A, B    arena.AnyHandle
	Contact Vec3
	Normal  Vec3
}

// CollisionSource is the external collision/geometry system. The Collision
// phase reads its results and clears it for the next tick.
type CollisionSource interface {
	// GetCollisions returns every collision pair detected since the last
	// Clear call.
	GetCollisions() []CollisionPair
	// Clear discards buffered collisions after they have been consumed.
	Clear()
}

// CollisionMessageEmitter turns raw collision pairs into game-defined
// commands on the message queue. It is the only thing the Collision phase
// calls.
type CollisionMessageEmitter interface {
	Emit(pairs []CollisionPair)
}

// InputState exposes one entity's input for the current tick.
type InputState interface {
	IsPressed(button string) bool
	IsHeld(button string) bool
	IsReleased(button string) bool
	Direction() Vec3
}

// InputProvider resolves the InputState for a handle, e.g. from a local
// controller or a replay buffer. It is read-only from the core's side.
type InputProvider interface {
	GetInput(h arena.AnyHandle) InputState
}

// GameState is an opaque, game-defined snapshot a Judgment's condition can
// inspect (health, resources, cooldowns, whatever the game needs); the core
// never interprets its contents.
type GameState interface{}

// CharacterStateProvider resolves the GameState for a handle.
type CharacterStateProvider interface {
	GetState(h arena.AnyHandle) GameState
}

// EntityPositionProvider resolves an entity's current world position.
type EntityPositionProvider interface {
	GetPosition(h arena.AnyHandle) Vec3
}

// TransformAccessor is the read/write port Reconciliation uses to apply
// computed push-out vectors.
type TransformAccessor interface {
	GetPosition(h arena.AnyHandle) Vec3
	SetPosition(h arena.AnyHandle, pos Vec3)
}

// EntityType is a game-defined classification (player, enemy, projectile,
// ...) used by the registry's default GetEntitiesOfType filter.
// Reconciliation does not consult it: push-out order comes only from the
// DependencyGraph and the order of the ConflictSource's pairs.
type EntityType string

// EntityTypeAccessor resolves the EntityType of a handle.
type EntityTypeAccessor interface {
	TypeOf(h arena.AnyHandle) EntityType
}

// EntitySpawner creates and destroys entities at the arena/registry level;
// the Cleanup phase calls Despawn for every handle it removes.
type EntitySpawner interface {
	Spawn() arena.AnyHandle
	Despawn(h arena.AnyHandle) bool
}

// DependencyGraph resolves the ordering constraints the Reconciliation
// phase must respect when it topologically sorts one tick's active
// entities: h's returned dependencies must be reconciled before h itself
// (e.g. a platform settles before the entity riding it). A handle this
// tick doesn't know about (outside the active snapshot) is ignored by
// the sort rather than treated as an error.
type DependencyGraph interface {
	Dependencies(h arena.AnyHandle) []arena.AnyHandle
}

// ConflictPair names two entities Reconciliation must push apart this
// tick, plus the contact geometry the configured PushOutRule resolves
// against. It is deliberately the same shape as CollisionPair; unlike
// Collision, Reconciliation's conflicts are read fresh every phase
// rather than drained from a queue.
type ConflictPair struct {
	A, B    arena.AnyHandle
	Contact Vec3
	Normal  Vec3
}

// ConflictSource reports the conflicting entity pairs Reconciliation must
// resolve this tick.
type ConflictSource interface {
	GetConflicts() []ConflictPair
}

// PushOutRule computes the mutual separation vectors for one conflicting
// pair; a positive PushA moves A further along Normal, PushB moves B the
// opposite way. The rule is pure: same inputs, same outputs, every time.
type PushOutRule interface {
	Resolve(pair ConflictPair) (pushA, pushB Vec3)
}
