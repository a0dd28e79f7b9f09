package simconfig

import (
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/tickforge/simcore/simlog"
)

// Watcher observes a set of config file Sources for changes and, on
// write, recomputes a diff against the last known Raw() snapshot and
// queues it. It never applies a reload itself — callers take the queued
// diffs with DrainPending and pass them to a ReloadManager.
type Watcher struct {
	mu        sync.Mutex
	fsw       *fsnotify.Watcher
	sources   map[string]Source // path -> source
	snapshots map[string]map[string]any
	pending   []*ConfigDiff
	log       simlog.Logger
	done      chan struct{}
}

// NewWatcher builds a Watcher backed by fsnotify. Call Close when done.
func NewWatcher(log simlog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = simlog.NopLogger{}
	}
	w := &Watcher{
		fsw:       fsw,
		sources:   make(map[string]Source),
		snapshots: make(map[string]map[string]any),
		log:       log,
		done:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Watch registers a Source's backing file for change notifications. Its
// current Raw() value becomes the baseline diffs are computed against.
func (w *Watcher) Watch(path string, source Source) error {
	raw, err := source.Raw()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.sources[path] = source
	w.snapshots[path] = raw
	w.mu.Unlock()

	return w.fsw.Add(path)
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleChange(event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("config watch error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleChange(path string) {
	w.mu.Lock()
	source, ok := w.sources[path]
	before := w.snapshots[path]
	w.mu.Unlock()
	if !ok {
		return
	}

	after, err := source.Raw()
	if err != nil {
		w.log.Error("config reload read failed", "path", path, "error", err)
		return
	}

	diff := Diff(before, after)
	if diff.IsEmpty() {
		return
	}

	w.mu.Lock()
	w.snapshots[path] = after
	w.pending = append(w.pending, diff)
	w.mu.Unlock()
}

// DrainPending returns and clears every diff accumulated since the last
// drain. The Phase Pipeline does not call it; the caller that drives
// ticks decides when to drain and applies the result via a ReloadManager.
func (w *Watcher) DrainPending() []*ConfigDiff {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	return out
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
