// Package wave implements the Message Wave Processor: a set of pooled,
// priority-ordered command queues drained to convergence within a tick,
// bounded by a maximum wave depth.
package wave

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Command is the minimal contract a queued message must satisfy: a
// non-negative integer priority, higher draining first. Ties break by
// enqueue order.
type Command interface {
	Priority() int
}

type entry[T Command] struct {
	id    uuid.UUID
	seq   int
	value *T
}

// Queue is the type-erased view of a CommandQueue the Processor drains.
type Queue interface {
	// Name identifies the queue for diagnostics and deterministic
	// registration-order iteration.
	Name() string
	// Len reports how many commands are currently queued.
	Len() int
	// DrainOne pops and executes the single highest-priority, earliest
	// queued command, returning any error its handler produced. ok is
	// false if the queue was already empty.
	DrainOne() (err error, ok bool)
}

// CommandQueue is a FIFO (broken by priority) queue of one command type,
// pooled to avoid per-enqueue allocation churn. A handler may itself call
// Enqueue — including on other queues — from inside DrainOne; that is
// exactly the cascade the Processor's wave loop is built to absorb.
type CommandQueue[T Command] struct {
	mu      sync.Mutex
	name    string
	pool    sync.Pool
	items   []entry[T]
	nextSeq int
	handler func(*T) error
}

// NewCommandQueue builds a CommandQueue named name, invoking handler for
// every drained command.
func NewCommandQueue[T Command](name string, handler func(*T) error) *CommandQueue[T] {
	return &CommandQueue[T]{
		name:    name,
		handler: handler,
		pool:    sync.Pool{New: func() any { return new(T) }},
	}
}

func (q *CommandQueue[T]) Name() string { return q.name }

// Enqueue rents a pooled *T, runs init against it, and inserts it at its
// priority position: higher Priority() drains first, ties by enqueue
// order (FIFO).
func (q *CommandQueue[T]) Enqueue(init func(*T)) {
	v := q.pool.Get().(*T)
	init(v)

	q.mu.Lock()
	defer q.mu.Unlock()
	e := entry[T]{id: uuid.New(), seq: q.nextSeq, value: v}
	q.nextSeq++
	idx := sort.Search(len(q.items), func(i int) bool {
		pi := (*q.items[i].value).Priority()
		pe := (*e.value).Priority()
		if pi != pe {
			return pi < pe
		}
		return q.items[i].seq > e.seq
	})
	q.items = append(q.items, entry[T]{})
	copy(q.items[idx+1:], q.items[idx:])
	q.items[idx] = e
}

// Len reports the number of pending commands.
func (q *CommandQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// DrainOne pops the front command, executes the handler, and returns its
// value to the pool.
func (q *CommandQueue[T]) DrainOne() (error, bool) {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return nil, false
	}
	e := q.items[0]
	q.items = q.items[1:]
	q.mu.Unlock()

	err := q.handler(e.value)
	var zero T
	*e.value = zero
	q.pool.Put(e.value)
	return err, true
}
