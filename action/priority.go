package action

// Priority is a totally ordered (tier, band, rank) tuple deciding selection
// order within the Action Selector: lower values are evaluated, and
// therefore selected, first. A distinguished disabled priority is never
// selected regardless of tier/band/rank.
type Priority struct {
	tier, band, rank int
	disabled         bool
}

// NewPriority builds an ordinary, non-disabled priority.
func NewPriority(tier, band, rank int) Priority {
	return Priority{tier: tier, band: band, rank: rank}
}

// DisabledPriority returns the distinguished priority that is never
// selected by the Action Selector.
func DisabledPriority() Priority {
	return Priority{disabled: true}
}

// IsDisabled reports whether this is the distinguished disabled priority.
func (p Priority) IsDisabled() bool { return p.disabled }

// Less reports whether p is evaluated before o, i.e. p is numerically
// lower and therefore preferred. Less compares (tier, band, rank) only and
// ignores the disabled flag, so DisabledPriority() orders like (0, 0, 0);
// the Selector sorts disabled entries with the rest and skips them when it
// evaluates them.
func (p Priority) Less(o Priority) bool {
	if p.tier != o.tier {
		return p.tier < o.tier
	}
	if p.band != o.band {
		return p.band < o.band
	}
	return p.rank < o.rank
}

// Common priority tiers used by judgments that don't need finer-grained
// bands or ranks.
var (
	Highest = NewPriority(0, 0, 0)
	High    = NewPriority(1, 0, 0)
	Normal  = NewPriority(2, 0, 0)
	Lowest  = NewPriority(3, 0, 0)
)
