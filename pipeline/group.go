package pipeline

import (
	"context"
	"errors"
	"sync"
)

// SerialGroup runs its children strictly in insertion order on the
// caller's goroutine. A disabled child (IsEnabled() == false) is
// skipped entirely; the cancel token is checked before every child, so
// cancellation takes effect between children, never mid-child.
type SerialGroup struct {
	GroupName string
	Enabled   bool
	Children  []System
}

// NewSerialGroup builds an enabled SerialGroup over the given children,
// run in the order given.
func NewSerialGroup(name string, children ...System) *SerialGroup {
	return &SerialGroup{GroupName: name, Enabled: true, Children: children}
}

func (g *SerialGroup) Name() string    { return g.GroupName }
func (g *SerialGroup) IsEnabled() bool { return g.Enabled }

// Run executes every enabled child in order, short-circuiting on
// cancellation and joining every child error rather than stopping at the
// first one: a failing phase doesn't prevent later phases from running.
func (g *SerialGroup) Run(ctx context.Context, sc *SystemContext) error {
	var errs []error
	for _, child := range g.Children {
		if sc.Cancelled() {
			break
		}
		if !isEnabled(child) {
			continue
		}
		if err := child.Run(ctx, sc); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ParallelGroup runs its children concurrently, one goroutine per
// enabled child, and waits for all of them before returning. Children
// must be side-effect isolated — read-only on shared state, or writing
// into a disjoint, thread-safe buffer such as DecisionResultBuffer —
// since nothing here coordinates their writes against each other.
type ParallelGroup struct {
	GroupName string
	Enabled   bool
	Children  []System
}

// NewParallelGroup builds an enabled ParallelGroup over the given
// children.
func NewParallelGroup(name string, children ...System) *ParallelGroup {
	return &ParallelGroup{GroupName: name, Enabled: true, Children: children}
}

func (g *ParallelGroup) Name() string    { return g.GroupName }
func (g *ParallelGroup) IsEnabled() bool { return g.Enabled }

// Run fans out every enabled child to its own goroutine and blocks until
// all have returned. It checks the cancel token once, before fan-out —
// per spec, cancellation is a group-boundary concern, not something a
// running parallel child is expected to poll mid-flight.
func (g *ParallelGroup) Run(ctx context.Context, sc *SystemContext) error {
	if sc.Cancelled() {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, child := range g.Children {
		if !isEnabled(child) {
			continue
		}
		wg.Add(1)
		go func(s System) {
			defer wg.Done()
			if err := s.Run(ctx, sc); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(child)
	}
	wg.Wait()
	return errors.Join(errs...)
}
