package simconfig

import (
	"errors"
	"fmt"
	"sync"
)

// ErrStaticFieldChange is returned by ReloadManager.ApplyDiff when a diff
// touches any field not declared dynamic; the whole diff is rejected
// rather than partially applied.
var ErrStaticFieldChange = errors.New("simconfig: static field change rejected")

// Reloadable receives a batch of dynamic-field changes. Implementations
// apply them atomically. ReloadManager.ApplyDiff is what calls Reload;
// the Phase Pipeline never does, so whether a reload lands between ticks
// is up to whoever calls ApplyDiff.
type Reloadable interface {
	Reload(changes []ConfigChange) error
}

// ReloadManager gates hot reload to an explicitly declared set of
// dynamic field paths: a diff touching anything outside that set is
// rejected wholesale, never partially applied.
type ReloadManager struct {
	mu      sync.Mutex
	dynamic map[string]struct{}
	applied [][]ConfigChange
}

// NewReloadManager builds a manager with the given dynamic field paths.
// Any field not listed is treated as static.
func NewReloadManager(dynamicFields ...string) *ReloadManager {
	set := make(map[string]struct{}, len(dynamicFields))
	for _, f := range dynamicFields {
		set[f] = struct{}{}
	}
	return &ReloadManager{dynamic: set}
}

// ApplyDiff filters diff to only its dynamic-field changes and applies
// them to module. If diff touches even one static field, the entire
// diff is rejected with ErrStaticFieldChange and nothing is applied.
func (m *ReloadManager) ApplyDiff(module Reloadable, diff *ConfigDiff) error {
	if diff.IsEmpty() {
		return nil
	}

	changes := make([]ConfigChange, 0, len(diff.Changed)+len(diff.Added)+len(diff.Removed))
	staticTouched := false

	add := func(path string, oldV, newV any) {
		if _, ok := m.dynamic[path]; !ok {
			staticTouched = true
			return
		}
		changes = append(changes, ConfigChange{FieldPath: path, OldValue: oldV, NewValue: newV, Source: "reload"})
	}
	for path, c := range diff.Changed {
		add(path, c.OldValue, c.NewValue)
	}
	for path, v := range diff.Added {
		add(path, nil, v)
	}
	for path, v := range diff.Removed {
		add(path, v, nil)
	}

	if staticTouched {
		return ErrStaticFieldChange
	}
	if len(changes) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := module.Reload(changes); err != nil {
		return fmt.Errorf("simconfig: reload apply: %w", err)
	}
	m.applied = append(m.applied, changes)
	return nil
}

// AppliedBatches returns every successfully applied change batch, for
// tests and diagnostics.
func (m *ReloadManager) AppliedBatches() [][]ConfigChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]ConfigChange, len(m.applied))
	copy(out, m.applied)
	return out
}

// Diff computes a ConfigDiff between two flat field-path maps, such as
// two successive Source.Raw() snapshots of the same file.
func Diff(before, after map[string]any) *ConfigDiff {
	diff := &ConfigDiff{Changed: map[string]ConfigChange{}, Added: map[string]any{}, Removed: map[string]any{}}
	for path, newV := range after {
		oldV, existed := before[path]
		if !existed {
			diff.Added[path] = newV
			continue
		}
		if !equalValue(oldV, newV) {
			diff.Changed[path] = ConfigChange{FieldPath: path, OldValue: oldV, NewValue: newV}
		}
	}
	for path, oldV := range before {
		if _, stillPresent := after[path]; !stillPresent {
			diff.Removed[path] = oldV
		}
	}
	return diff
}

func equalValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}
