package pipeline

import (
	"sync"

	"github.com/tickforge/simcore/arena"
)

// QueryCache memoizes query-key -> handle-list results for the duration
// of one tick. A mutation of CurrentTick (via Invalidate) drops every
// entry at once rather than tracking per-key staleness, matching the
// spec's "cache is keyed on current_tick" model: there is never a
// partial cache spanning two ticks.
type QueryCache struct {
	mu      sync.RWMutex
	tick    uint64
	entries map[string][]arena.AnyHandle
}

// NewQueryCache builds an empty cache pinned to tick 0.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string][]arena.AnyHandle)}
}

// Get returns the cached result for key if it was stored for the
// currently pinned tick; a cache pinned to a stale tick (Invalidate
// wasn't called after the tick advanced) never hits.
func (c *QueryCache) Get(tick uint64, key string) ([]arena.AnyHandle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if tick != c.tick {
		return nil, false
	}
	v, ok := c.entries[key]
	return v, ok
}

// Set stores result for key under tick, provided tick matches the
// pinned tick (a stale write after Invalidate moved on is silently
// dropped rather than corrupting the new tick's cache).
func (c *QueryCache) Set(tick uint64, key string, result []arena.AnyHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tick != c.tick {
		return
	}
	c.entries[key] = result
}

// Invalidate pins the cache to tick, discarding every entry from the
// previous tick. Called once per Pipeline.Tick, before any phase runs.
func (c *QueryCache) Invalidate(tick uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick = tick
	c.entries = make(map[string][]arena.AnyHandle)
}
