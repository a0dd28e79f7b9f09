package simconfig

import (
	"fmt"
	"sort"
	"time"
)

// Loader applies a list of Sources to a configuration struct, in
// ascending priority order, and tracks per-field provenance for every
// field a Source's Raw map reported.
type Loader struct {
	sources    []Source
	provenance map[string]*FieldProvenance
}

// NewLoader builds an empty Loader.
func NewLoader() *Loader {
	return &Loader{provenance: make(map[string]*FieldProvenance)}
}

// AddSource registers a Source. Order of registration doesn't matter;
// Load sorts by Priority before applying.
func (l *Loader) AddSource(s Source) { l.sources = append(l.sources, s) }

// Load feeds every registered source into target, lowest priority
// first, recording provenance for each field a source's Raw() reports.
func (l *Loader) Load(target any) error {
	l.provenance = make(map[string]*FieldProvenance)

	ordered := append([]Source(nil), l.sources...)
	sort.SliceStable(ordered, func(i, k int) bool { return ordered[i].Priority() < ordered[k].Priority() })

	for _, s := range ordered {
		if err := s.Feed(target); err != nil {
			return fmt.Errorf("simconfig: source %s: %w", s.Name(), err)
		}
		raw, err := s.Raw()
		if err != nil {
			return fmt.Errorf("simconfig: source %s provenance: %w", s.Name(), err)
		}
		now := time.Now()
		for path, value := range raw {
			l.provenance[path] = &FieldProvenance{FieldPath: path, Source: s.Name(), Value: value, Timestamp: now}
		}
	}
	return nil
}

// Provenance returns where fieldPath's value came from, if tracked.
func (l *Loader) Provenance(fieldPath string) (*FieldProvenance, bool) {
	p, ok := l.provenance[fieldPath]
	return p, ok
}

// AllProvenance returns every tracked field's provenance.
func (l *Loader) AllProvenance() map[string]*FieldProvenance {
	out := make(map[string]*FieldProvenance, len(l.provenance))
	for k, v := range l.provenance {
		out[k] = v
	}
	return out
}
