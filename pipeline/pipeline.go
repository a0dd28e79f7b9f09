package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/tickforge/simcore/simevents"
	"github.com/tickforge/simcore/simlog"
	"github.com/tickforge/simcore/wave"
)

// TickReport summarizes one Pipeline.Tick call for diagnostics and
// observers: the tick number, the Message phase's wave outcome, how many
// entities Cleanup removed, and any errors the root group collected.
type TickReport struct {
	Tick         uint64
	DeltaTicks   int
	WaveResult   wave.Result
	Removed      int
	Errors       []error
	StartedAt    time.Time
	Duration     time.Duration
}

// Pipeline owns the shared SystemContext plumbing — the tick counter,
// cancel token and query cache — and runs the root group (ordinarily the
// six canonical phases under one SerialGroup) once per Tick call.
type Pipeline struct {
	Root       System
	Cache      *QueryCache
	Log        simlog.Logger
	Subject    simevents.Subject
	message    *MessagePhase
	cleanup    *CleanupPhase

	mu   sync.Mutex
	tick uint64
}

// New builds a Pipeline over root (typically a SerialGroup of the six
// canonical phases). message and cleanup are optional references into
// that same root used purely to read back per-tick results for
// TickReport; pass nil for either if the corresponding phase isn't part
// of root. A nil log falls back to simlog.NopLogger{}; a nil subject
// means no events are emitted.
func New(root System, message *MessagePhase, cleanup *CleanupPhase, log simlog.Logger, subject simevents.Subject) *Pipeline {
	if log == nil {
		log = simlog.NopLogger{}
	}
	return &Pipeline{
		Root:    root,
		Cache:   NewQueryCache(),
		Log:     log,
		Subject: subject,
		message: message,
		cleanup: cleanup,
	}
}

// Tick advances one logical tick: it pins the query cache to the new
// tick number, builds a fresh CancelToken and SystemContext, runs the
// root group to completion or cancellation, and returns a TickReport.
// There is no internal wall-clock timer — the caller decides when a
// tick happens, matching the core's Non-goal of owning real-time
// scheduling itself.
func (p *Pipeline) Tick(ctx context.Context, deltaTicks int) TickReport {
	p.mu.Lock()
	p.tick++
	tick := p.tick
	p.mu.Unlock()

	if tagged, ok := p.Log.(*simlog.TickTagged); ok {
		tagged.SetTick(tick)
	}

	p.Cache.Invalidate(tick)

	sc := &SystemContext{DeltaTicks: deltaTicks, CurrentTick: tick, CancelToken: NewCancelToken()}

	report := TickReport{Tick: tick, DeltaTicks: deltaTicks, StartedAt: time.Now()}
	p.emitPhaseChanged(ctx, tick, "pipeline", "entered")

	if p.Root != nil {
		if err := p.Root.Run(ctx, sc); err != nil {
			report.Errors = append(report.Errors, err)
		}
	}

	if p.message != nil {
		report.WaveResult = p.message.LastResult()
		p.emitMessageResult(ctx, tick, report.WaveResult)
	}
	if p.cleanup != nil {
		report.Removed = p.cleanup.LastRemoved()
	}

	report.Duration = time.Since(report.StartedAt)
	p.emitPhaseChanged(ctx, tick, "pipeline", "exited")
	return report
}

func (p *Pipeline) emitPhaseChanged(ctx context.Context, tick uint64, phase, stage string) {
	if p.Subject == nil {
		return
	}
	evt := simevents.NewPhaseChangedEvent(simevents.PhaseChangedPayload{Tick: tick, Phase: phase, Stage: stage})
	if err := p.Subject.NotifyObservers(ctx, evt); err != nil {
		p.Log.Warn("phase changed notification failed", "tick", tick, "phase", phase, "err", err)
	}
}

func (p *Pipeline) emitMessageResult(ctx context.Context, tick uint64, result wave.Result) {
	if p.Subject == nil {
		return
	}
	errs := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, e.Error())
	}
	evt := simevents.NewMessagePhaseResultEvent(simevents.MessagePhaseResultPayload{
		Tick:    tick,
		Waves:   result.Waves,
		Outcome: result.Outcome.String(),
		Errors:  errs,
	})
	if err := p.Subject.NotifyObservers(ctx, evt); err != nil {
		p.Log.Warn("message result notification failed", "tick", tick, "err", err)
	}
}
