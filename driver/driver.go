// Package driver supplies an optional real-time pump for the Phase
// Pipeline: the core engine advances only when Pipeline.Tick is called
// and never reads a clock itself, so anything that needs wall-clock
// cadence — a standalone demo, a long-running server — needs something
// external calling Tick on a schedule. Driver is that something, built
// on the same cron library robfig/cron/v3 that backs cron-scheduled jobs
// elsewhere.
package driver

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/tickforge/simcore/pipeline"
	"github.com/tickforge/simcore/simlog"
)

// OnTick is called once per pump with the report from Pipeline.Tick.
// Driver never inspects the report itself; wiring it to a diag.Reporter
// or any other consumer is the caller's job.
type OnTick func(report pipeline.TickReport)

// Config controls how Driver pumps ticks.
type Config struct {
	// Schedule is a cron expression (standard five-field form, or a
	// "@every <duration>" descriptor) understood by robfig/cron's
	// standard parser. "@every 16ms" gives a steady ~60Hz pump; a
	// conventional five-field expression suits coarser demo cadences.
	Schedule string

	// DeltaTicks is passed through to Pipeline.Tick on every pump.
	DeltaTicks int
}

// Driver pumps Pipeline.Tick on the cadence named by Config.Schedule.
// It is deliberately thin: the pipeline stays a pure logical-tick
// engine (per its own invariants), and Driver is the only piece of
// this module that ever consults a real clock.
type Driver struct {
	pipeline *pipeline.Pipeline
	config   Config
	log      simlog.Logger
	onTick   OnTick

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
	started bool
}

// New builds a Driver over p. log and onTick may both be nil; a nil log
// falls back to simlog.NopLogger{}, a nil onTick simply discards every
// report.
func New(p *pipeline.Pipeline, config Config, log simlog.Logger, onTick OnTick) *Driver {
	if log == nil {
		log = simlog.NopLogger{}
	}
	if onTick == nil {
		onTick = func(pipeline.TickReport) {}
	}
	return &Driver{pipeline: p, config: config, log: log, onTick: onTick}
}

// Start registers the tick pump with a fresh cron scheduler and starts
// it. Calling Start on an already-started Driver is a no-op.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}

	if _, err := cron.ParseStandard(d.config.Schedule); err != nil {
		return fmt.Errorf("driver: invalid schedule %q: %w", d.config.Schedule, err)
	}

	c := cron.New()
	entryID, err := c.AddFunc(d.config.Schedule, func() { d.pump(ctx) })
	if err != nil {
		return fmt.Errorf("driver: scheduling pump: %w", err)
	}

	d.cron = c
	d.entryID = entryID
	d.cron.Start()
	d.started = true
	d.log.Info("driver started", "schedule", d.config.Schedule, "deltaTicks", d.config.DeltaTicks)
	return nil
}

func (d *Driver) pump(ctx context.Context) {
	report := d.pipeline.Tick(ctx, d.config.DeltaTicks)
	if len(report.Errors) > 0 {
		d.log.Error("tick reported errors", "tick", report.Tick, "errors", len(report.Errors))
	}
	d.onTick(report)
}

// Stop stops the cron scheduler and waits for any in-flight pump to
// finish, bounded by ctx's deadline.
func (d *Driver) Stop(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}

	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		d.started = false
		return fmt.Errorf("driver: stop timed out: %w", ctx.Err())
	}

	d.started = false
	d.log.Info("driver stopped")
	return nil
}

// IsRunning reports whether the pump is currently active.
func (d *Driver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}
