package arena

import "errors"

// Arena errors.
var (
	// ErrArenaFull is returned by Allocate when a maximum capacity was
	// configured and every slot up to that ceiling is in use.
	ErrArenaFull = errors.New("arena: at capacity")

	// ErrStaleHandle is returned by Get when the supplied (index, generation)
	// pair no longer identifies a live slot.
	ErrStaleHandle = errors.New("arena: stale handle")

	// ErrIndexOutOfRange is returned by Get when the index was never
	// issued by this arena (Free reports that case by returning false).
	ErrIndexOutOfRange = errors.New("arena: index out of range")
)
