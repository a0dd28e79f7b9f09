package action

import "github.com/tickforge/simcore/ports"

// Trigger is a stateful input evaluator. The selector calls OnStart once,
// the first time it evaluates the judgment that owns the trigger, and
// OnUpdate on every evaluation (that first one included) before
// IsTriggered is queried; the selector never calls OnStop. Triggers never
// retain references to an InputState past the OnUpdate call that received
// it — button/axis snapshots are only valid for the tick they were taken
// in (open question in spec §9: edge-triggered builtins fire at most once
// per OnUpdate regardless of deltaTicks; level-triggered builtins treat a
// multi-tick advance as having held for deltaTicks ticks).
type Trigger interface {
	OnStart()
	OnStop()
	OnUpdate(input ports.InputState, deltaTicks int)
	IsTriggered(input ports.InputState) bool
}

// PressTrigger fires on the tick a button transitions from not-pressed to
// pressed; edge-triggered.
type PressTrigger struct {
	Button string
	fired  bool
}

func Press(button string) *PressTrigger { return &PressTrigger{Button: button} }

func (t *PressTrigger) OnStart() { t.fired = false }
func (t *PressTrigger) OnStop()  {}
func (t *PressTrigger) OnUpdate(input ports.InputState, _ int) {
	t.fired = input != nil && input.IsPressed(t.Button)
}
func (t *PressTrigger) IsTriggered(ports.InputState) bool { return t.fired }

// ReleaseTrigger fires on the tick a button is released; edge-triggered.
type ReleaseTrigger struct {
	Button string
	fired  bool
}

func Release(button string) *ReleaseTrigger { return &ReleaseTrigger{Button: button} }

func (t *ReleaseTrigger) OnStart() { t.fired = false }
func (t *ReleaseTrigger) OnStop()  {}
func (t *ReleaseTrigger) OnUpdate(input ports.InputState, _ int) {
	t.fired = input != nil && input.IsReleased(t.Button)
}
func (t *ReleaseTrigger) IsTriggered(ports.InputState) bool { return t.fired }

// HoldTrigger fires once a button has been continuously held for at least
// MinTicks ticks; level-triggered, so a deltaTicks > 1 advance counts for
// that many ticks of hold time at once.
type HoldTrigger struct {
	Button   string
	MinTicks int

	held int
}

func Hold(button string, minTicks int) *HoldTrigger {
	return &HoldTrigger{Button: button, MinTicks: minTicks}
}

func (t *HoldTrigger) OnStart() { t.held = 0 }
func (t *HoldTrigger) OnStop()  {}
func (t *HoldTrigger) OnUpdate(input ports.InputState, deltaTicks int) {
	if input != nil && input.IsHeld(t.Button) {
		t.held += deltaTicks
	} else {
		t.held = 0
	}
}
func (t *HoldTrigger) IsTriggered(ports.InputState) bool { return t.held >= t.MinTicks }

// ChargeTrigger is a HoldTrigger that exposes intermediate charge
// thresholds crossed so far, in addition to the final trigger condition.
type ChargeTrigger struct {
	Button     string
	Thresholds []int // ascending tick counts

	held int
}

func Charge(button string, thresholds ...int) *ChargeTrigger {
	return &ChargeTrigger{Button: button, Thresholds: thresholds}
}

func (t *ChargeTrigger) OnStart() { t.held = 0 }
func (t *ChargeTrigger) OnStop()  {}
func (t *ChargeTrigger) OnUpdate(input ports.InputState, deltaTicks int) {
	if input != nil && input.IsHeld(t.Button) {
		t.held += deltaTicks
	} else {
		t.held = 0
	}
}

// IsTriggered fires once the held duration reaches the final (highest)
// threshold.
func (t *ChargeTrigger) IsTriggered(ports.InputState) bool {
	if len(t.Thresholds) == 0 {
		return false
	}
	return t.held >= t.Thresholds[len(t.Thresholds)-1]
}

// CrossedThreshold returns the highest threshold index reached so far, or
// -1 if none.
func (t *ChargeTrigger) CrossedThreshold() int {
	idx := -1
	for i, th := range t.Thresholds {
		if t.held >= th {
			idx = i
		}
	}
	return idx
}

// MashTrigger fires once a button has been pressed Count times within a
// rolling WindowTicks window.
type MashTrigger struct {
	Button      string
	Count       int
	WindowTicks int

	elapsed int
	presses int
	armed   bool // whether a new press edge is waitable
}

func Mash(button string, count, windowTicks int) *MashTrigger {
	return &MashTrigger{Button: button, Count: count, WindowTicks: windowTicks, armed: true}
}

func (t *MashTrigger) OnStart() { t.elapsed, t.presses, t.armed = 0, 0, true }
func (t *MashTrigger) OnStop()  {}
func (t *MashTrigger) OnUpdate(input ports.InputState, deltaTicks int) {
	t.elapsed += deltaTicks
	if t.elapsed > t.WindowTicks {
		t.elapsed, t.presses = 0, 0
	}
	held := input != nil && input.IsHeld(t.Button)
	if held && t.armed {
		t.presses++
		t.armed = false
	} else if !held {
		t.armed = true
	}
}
func (t *MashTrigger) IsTriggered(ports.InputState) bool { return t.presses >= t.Count }

// SimultaneousTrigger fires only while every wrapped trigger is currently
// triggered.
type SimultaneousTrigger struct {
	Triggers []Trigger
}

func Simultaneous(triggers ...Trigger) *SimultaneousTrigger {
	return &SimultaneousTrigger{Triggers: triggers}
}

func (t *SimultaneousTrigger) OnStart() {
	for _, c := range t.Triggers {
		c.OnStart()
	}
}
func (t *SimultaneousTrigger) OnStop() {
	for _, c := range t.Triggers {
		c.OnStop()
	}
}
func (t *SimultaneousTrigger) OnUpdate(input ports.InputState, deltaTicks int) {
	for _, c := range t.Triggers {
		c.OnUpdate(input, deltaTicks)
	}
}
func (t *SimultaneousTrigger) IsTriggered(input ports.InputState) bool {
	for _, c := range t.Triggers {
		if !c.IsTriggered(input) {
			return false
		}
	}
	return len(t.Triggers) > 0
}

// CommandTrigger fires when Sequence of directions was entered, in order,
// within TotalWindowTicks ticks of the first direction of the sequence.
type CommandTrigger struct {
	Sequence        []ports.Vec3
	TotalWindowTicks int

	progress int
	elapsed  int
	done     bool
}

func Command(totalWindowTicks int, sequence ...ports.Vec3) *CommandTrigger {
	return &CommandTrigger{Sequence: sequence, TotalWindowTicks: totalWindowTicks}
}

func (t *CommandTrigger) OnStart() { t.progress, t.elapsed, t.done = 0, 0, false }
func (t *CommandTrigger) OnStop()  {}
func (t *CommandTrigger) OnUpdate(input ports.InputState, deltaTicks int) {
	if t.done || len(t.Sequence) == 0 {
		return
	}
	if t.progress > 0 {
		t.elapsed += deltaTicks
		if t.elapsed > t.TotalWindowTicks {
			t.progress, t.elapsed = 0, 0
		}
	}
	if input == nil {
		return
	}
	want := t.Sequence[t.progress]
	if directionMatches(input.Direction(), want) {
		t.progress++
		if t.progress == len(t.Sequence) {
			t.done = true
		}
	}
}
func (t *CommandTrigger) IsTriggered(ports.InputState) bool { return t.done }

func directionMatches(got, want ports.Vec3) bool {
	const eps = 1e-6
	diff := func(a, b float64) bool {
		d := a - b
		return d < eps && d > -eps
	}
	return diff(got.X, want.X) && diff(got.Y, want.Y) && diff(got.Z, want.Z)
}

// AlwaysTrigger is always triggered.
type AlwaysTrigger struct{}

func Always() *AlwaysTrigger                                  { return &AlwaysTrigger{} }
func (*AlwaysTrigger) OnStart()                                {}
func (*AlwaysTrigger) OnStop()                                 {}
func (*AlwaysTrigger) OnUpdate(ports.InputState, int)          {}
func (*AlwaysTrigger) IsTriggered(ports.InputState) bool       { return true }

// NeverTrigger is never triggered.
type NeverTrigger struct{}

func Never() *NeverTrigger                               { return &NeverTrigger{} }
func (*NeverTrigger) OnStart()                           {}
func (*NeverTrigger) OnStop()                            {}
func (*NeverTrigger) OnUpdate(ports.InputState, int)     {}
func (*NeverTrigger) IsTriggered(ports.InputState) bool  { return false }

// AllTrigger fires only while every wrapped trigger fires; alias of
// SimultaneousTrigger kept distinct for readability at call sites.
type AllTrigger struct{ SimultaneousTrigger }

func All(triggers ...Trigger) *AllTrigger {
	return &AllTrigger{SimultaneousTrigger{Triggers: triggers}}
}

// AnyTrigger fires while at least one wrapped trigger fires.
type AnyTrigger struct {
	Triggers []Trigger
}

func Any(triggers ...Trigger) *AnyTrigger { return &AnyTrigger{Triggers: triggers} }

func (t *AnyTrigger) OnStart() {
	for _, c := range t.Triggers {
		c.OnStart()
	}
}
func (t *AnyTrigger) OnStop() {
	for _, c := range t.Triggers {
		c.OnStop()
	}
}
func (t *AnyTrigger) OnUpdate(input ports.InputState, deltaTicks int) {
	for _, c := range t.Triggers {
		c.OnUpdate(input, deltaTicks)
	}
}
func (t *AnyTrigger) IsTriggered(input ports.InputState) bool {
	for _, c := range t.Triggers {
		if c.IsTriggered(input) {
			return true
		}
	}
	return false
}
