// Package action implements the Action Selector: priority/category
// evaluation of Judgments against the current input and game state,
// producing at most one selected action per category while honoring
// category exclusivity rules (spec §4.3).
package action

// Category is a logical action bucket, e.g. "FullBody" or "UpperBody".
// At most one action runs per category per entity per tick.
type Category string

// ActionID names an action definition a Judgment can request.
type ActionID string

// CategoryRules decides whether two categories may be simultaneously
// occupied in one tick. It must be reflexive for at least the identity
// pair — AreExclusive(c, c) should be true — so a category can't be
// double-selected within itself.
type CategoryRules interface {
	AreExclusive(a, b Category) bool
}

// RuleFunc adapts a plain function to CategoryRules.
type RuleFunc func(a, b Category) bool

// AreExclusive implements CategoryRules.
func (f RuleFunc) AreExclusive(a, b Category) bool { return f(a, b) }

// IdentityOnly treats only a category and itself as mutually exclusive;
// distinct categories may run simultaneously.
var IdentityOnly CategoryRules = RuleFunc(func(a, b Category) bool { return a == b })

// FullExclusivity treats every pair of categories as mutually exclusive,
// so at most one action total may be selected per tick.
var FullExclusivity CategoryRules = RuleFunc(func(a, b Category) bool { return true })
