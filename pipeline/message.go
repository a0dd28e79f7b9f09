package pipeline

import (
	"context"

	"github.com/tickforge/simcore/simlog"
	"github.com/tickforge/simcore/wave"
)

// MessagePhase drives the registered CommandQueues to convergence via a
// wave.Processor and records the last Result for diagnostics and for the
// MessagePhaseResult event the Pipeline emits afterward.
type MessagePhase struct {
	PhaseName string
	Processor *wave.Processor
	Log       simlog.Logger

	lastResult wave.Result
}

// NewMessagePhase builds a MessagePhase named "Message" over processor.
// A nil log falls back to simlog.NopLogger{}.
func NewMessagePhase(processor *wave.Processor, log simlog.Logger) *MessagePhase {
	if log == nil {
		log = simlog.NopLogger{}
	}
	return &MessagePhase{PhaseName: "Message", Processor: processor, Log: log}
}

func (p *MessagePhase) Name() string { return p.PhaseName }

func (p *MessagePhase) Run(_ context.Context, _ *SystemContext) error {
	if p.Processor == nil {
		p.lastResult = wave.Result{Outcome: wave.Converged}
		return nil
	}
	result := p.Processor.ProcessAllWaves()
	p.lastResult = result
	if result.Outcome == wave.DepthExceeded {
		p.Log.Warn("message wave depth exceeded", "waves", result.Waves, "errors", len(result.Errors))
	}
	return nil
}

// LastResult returns the outcome of the most recent ProcessAllWaves call.
func (p *MessagePhase) LastResult() wave.Result { return p.lastResult }
