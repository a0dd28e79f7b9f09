// Package statemachine implements the Action State Machine: per category,
// one running ExecutableAction at a time, advanced by whole ticks, with
// enter/exit lifecycle hooks and frame-window queries for cancel/hitbox/
// invincible windows.
package statemachine

import "github.com/tickforge/simcore/action"

// FrameWindow is an inclusive [Start, End] range over elapsed frames.
type FrameWindow struct {
	Start, End int
}

// Contains reports whether elapsed falls within the window, inclusive on
// both ends.
func (w FrameWindow) Contains(elapsed int) bool {
	return elapsed >= w.Start && elapsed <= w.End
}

// ActionDefinition is an immutable description of an action: how long it
// runs and which frame windows gate cancellation and (for downstream,
// observational-only consumers) hitboxes/invincibility.
type ActionDefinition struct {
	ActionID         action.ActionID
	Category         action.Category
	TotalFrames      int
	CancelWindow     FrameWindow
	HitboxWindow     *FrameWindow
	InvincibleWindow *FrameWindow
	MotionRef        string
}

// ExecutableAction is a live, per-entity instance of an ActionDefinition.
type ExecutableAction struct {
	Def          *ActionDefinition
	ElapsedFrames int
}

// IsComplete reports whether the action has run its full duration.
func (e *ExecutableAction) IsComplete() bool {
	return e.ElapsedFrames >= e.Def.TotalFrames
}

// CanCancel reports whether the action is currently inside its cancel
// window.
func (e *ExecutableAction) CanCancel() bool {
	return e.Def.CancelWindow.Contains(e.ElapsedFrames)
}

// InHitboxWindow reports whether the action is currently inside its
// hitbox window, if it declares one. Purely observational — the state
// machine never acts on this itself.
func (e *ExecutableAction) InHitboxWindow() bool {
	return e.Def.HitboxWindow != nil && e.Def.HitboxWindow.Contains(e.ElapsedFrames)
}

// InInvincibleWindow reports whether the action is currently inside its
// invincibility window, if it declares one. Purely observational.
func (e *ExecutableAction) InInvincibleWindow() bool {
	return e.Def.InvincibleWindow != nil && e.Def.InvincibleWindow.Contains(e.ElapsedFrames)
}

// CategoryExecutor receives lifecycle notifications for one category's
// running action. All three hooks are optional to implement fully — a
// category that doesn't care about updates can leave OnUpdate a no-op.
type CategoryExecutor interface {
	OnEnter(action *ExecutableAction)
	OnUpdate(action *ExecutableAction, deltaTicks int)
	OnExit(action *ExecutableAction)
}

// NopExecutor implements CategoryExecutor with no-op hooks, usable for
// categories that only need frame tracking, not callbacks.
type NopExecutor struct{}

func (NopExecutor) OnEnter(*ExecutableAction)             {}
func (NopExecutor) OnUpdate(*ExecutableAction, int)       {}
func (NopExecutor) OnExit(*ExecutableAction)              {}
