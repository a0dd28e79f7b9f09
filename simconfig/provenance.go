// Package simconfig loads simulation configuration from layered sources
// (TOML/YAML/env), tracks per-field provenance, and supports hot reload
// gated to fields explicitly declared dynamic — applied between ticks,
// never mid-wave.
package simconfig

import "time"

// FieldProvenance records where a configuration field's current value
// came from, for diagnostics ("why is max_wave_depth 8 and not the
// default 4?").
type FieldProvenance struct {
	FieldPath string
	Source    string
	Detail    string
	Value     any
	Timestamp time.Time
}

// ConfigChange describes one field's old/new value during a reload.
type ConfigChange struct {
	FieldPath string
	OldValue  any
	NewValue  any
	Source    string
}

// ConfigDiff groups the changes detected between two loads of the same
// configuration struct.
type ConfigDiff struct {
	Changed map[string]ConfigChange
	Added   map[string]any
	Removed map[string]any
}

// IsEmpty reports whether the diff carries no changes at all.
func (d *ConfigDiff) IsEmpty() bool {
	return d == nil || (len(d.Changed) == 0 && len(d.Added) == 0 && len(d.Removed) == 0)
}
