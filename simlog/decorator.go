package simlog

// Decorator wraps a Logger to add behavior without modifying the core
// implementation; the base decorator forwards every call unchanged.
type Decorator interface {
	Logger
	Inner() Logger
}

// BaseDecorator forwards all Logger calls to the wrapped logger.
type BaseDecorator struct {
	inner Logger
}

// NewBaseDecorator wraps inner.
func NewBaseDecorator(inner Logger) *BaseDecorator {
	return &BaseDecorator{inner: inner}
}

func (d *BaseDecorator) Inner() Logger { return d.inner }

func (d *BaseDecorator) Info(msg string, args ...any)  { d.inner.Info(msg, args...) }
func (d *BaseDecorator) Error(msg string, args ...any) { d.inner.Error(msg, args...) }
func (d *BaseDecorator) Warn(msg string, args ...any)  { d.inner.Warn(msg, args...) }
func (d *BaseDecorator) Debug(msg string, args ...any) { d.inner.Debug(msg, args...) }

// TickTagged decorates a Logger by prepending the current tick number as
// a "tick" key-value pair on every call, so every log line emitted during
// pipeline execution can be correlated back to the tick that produced it.
type TickTagged struct {
	*BaseDecorator
	tick uint64
}

// NewTickTagged wraps inner, starting at tick 0.
func NewTickTagged(inner Logger) *TickTagged {
	return &TickTagged{BaseDecorator: NewBaseDecorator(inner)}
}

// SetTick updates the tick number stamped on subsequent log calls. The
// Phase Pipeline calls this once per tick, before running any phase.
func (d *TickTagged) SetTick(tick uint64) { d.tick = tick }

func (d *TickTagged) tag(args []any) []any {
	return append([]any{"tick", d.tick}, args...)
}

func (d *TickTagged) Info(msg string, args ...any)  { d.inner.Info(msg, d.tag(args)...) }
func (d *TickTagged) Error(msg string, args ...any) { d.inner.Error(msg, d.tag(args)...) }
func (d *TickTagged) Warn(msg string, args ...any)  { d.inner.Warn(msg, d.tag(args)...) }
func (d *TickTagged) Debug(msg string, args ...any) { d.inner.Debug(msg, d.tag(args)...) }
