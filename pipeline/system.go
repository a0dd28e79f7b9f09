package pipeline

import "context"

// System is one node in the pipeline's composition tree: a named unit of
// work run under a shared SystemContext. Both phases and groups
// (SerialGroup, ParallelGroup) implement it, so groups nest freely.
type System interface {
	Name() string
	Run(ctx context.Context, sc *SystemContext) error
}

// Enabler is implemented by a System that can be switched off without
// being removed from its group. A child that doesn't implement Enabler
// is always treated as enabled.
type Enabler interface {
	IsEnabled() bool
}

func isEnabled(s System) bool {
	if e, ok := s.(Enabler); ok {
		return e.IsEnabled()
	}
	return true
}
