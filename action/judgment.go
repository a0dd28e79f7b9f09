package action

import "github.com/tickforge/simcore/ports"

// Condition inspects game state and reports whether a Judgment may fire
// this tick, independent of its Trigger's input reading. Conditions must
// be side-effect free: the selector may call one speculatively and discard
// the result if a higher-priority Judgment in the same category wins.
type Condition func(state ports.GameState) bool

// Judgment pairs a Trigger (input evaluation) with a Condition (state
// evaluation) under a Priority and Category, and names the ActionID it
// requests when both fire. The selector drives the Judgment's Trigger via
// OnStart and OnUpdate; it does not call OnStop.
type Judgment interface {
	ID() ActionID
	Category() Category
	Priority() Priority
	Trigger() Trigger
	Allowed(state ports.GameState) bool
}

// StaticJudgment is the common Judgment implementation: a fixed ID,
// category, priority, trigger and condition wired together at
// construction time.
type StaticJudgment struct {
	id        ActionID
	category  Category
	priority  Priority
	trigger   Trigger
	condition Condition
}

// NewJudgment builds a StaticJudgment. A nil condition is treated as
// always-allowed.
func NewJudgment(id ActionID, category Category, priority Priority, trigger Trigger, condition Condition) *StaticJudgment {
	return &StaticJudgment{id: id, category: category, priority: priority, trigger: trigger, condition: condition}
}

func (j *StaticJudgment) ID() ActionID        { return j.id }
func (j *StaticJudgment) Category() Category  { return j.category }
func (j *StaticJudgment) Priority() Priority  { return j.priority }
func (j *StaticJudgment) Trigger() Trigger    { return j.trigger }

func (j *StaticJudgment) Allowed(state ports.GameState) bool {
	if j.condition == nil {
		return true
	}
	return j.condition(state)
}
