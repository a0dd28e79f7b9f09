// Package pipeline implements the Phase Pipeline: an ordered composition
// of serial and parallel groups that advances one logical tick through
// Collision, Message, Decision, Execution, Reconciliation and Cleanup
// under a shared SystemContext.
package pipeline

import "sync/atomic"

// CancelToken is a thread-safe, one-shot cancellation flag shared by
// every group and phase within a single Tick call. It is polled at group
// and phase boundaries only — never mid-wave, never mid-message — so a
// cancellation can never leave a phase partially applied.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a fresh, uncancelled token.
func NewCancelToken() *CancelToken { return &CancelToken{} }

// Cancel flips the token. Safe to call from any goroutine, any number of
// times.
func (c *CancelToken) Cancel() { c.cancelled.Store(true) }

// IsCancelled reports the current state.
func (c *CancelToken) IsCancelled() bool { return c.cancelled.Load() }

// SystemContext is the immutable per-tick parameter threaded by
// reference through every phase. It is the only ambient state a phase
// may depend on; nothing is captured from an outer scheduler.
type SystemContext struct {
	DeltaTicks  int
	CurrentTick uint64
	CancelToken *CancelToken
}

// Cancelled is a nil-safe convenience for phases: a SystemContext with no
// CancelToken is never considered cancelled.
func (sc *SystemContext) Cancelled() bool {
	return sc != nil && sc.CancelToken != nil && sc.CancelToken.IsCancelled()
}
