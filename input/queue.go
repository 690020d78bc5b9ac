package input

import (
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the queue size used when none is given.
const DefaultCapacity = 256

// ErrEventQueueOverflow is returned by Push when the queue is full. The
// event is dropped.
var ErrEventQueueOverflow = errors.New("input: event queue overflow")

// Queue is a bounded FIFO of events with one or more producers and a single
// consumer.
//
// Push never blocks on the consumer: when the queue is full the incoming
// event is dropped and counted. Drain swaps the pending buffer for an empty
// one under the lock and delivers outside it, so producers are only held
// for the swap.
type Queue struct {
	mu       sync.Mutex
	pending  []Event
	spare    []Event
	capacity int

	drainMu sync.Mutex
	dropped atomic.Uint64
}

// NewQueue returns a queue holding up to capacity events. A non-positive
// capacity selects DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		pending:  make([]Event, 0, capacity),
		spare:    make([]Event, 0, capacity),
		capacity: capacity,
	}
}

// Push appends e. It returns ErrEventQueueOverflow and drops e when the
// queue is full.
func (q *Queue) Push(e Event) error {
	q.mu.Lock()
	if len(q.pending) >= q.capacity {
		q.mu.Unlock()
		q.dropped.Add(1)
		return ErrEventQueueOverflow
	}
	q.pending = append(q.pending, e)
	q.mu.Unlock()
	return nil
}

// Drain calls fn for every pending event in arrival order and returns how
// many were delivered. Events pushed while fn runs are kept for the next
// Drain.
func (q *Queue) Drain(fn func(Event)) int {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	q.mu.Lock()
	batch := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, e := range batch {
		fn(e)
	}

	clear(batch)
	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int { return q.capacity }

// Dropped returns the number of events rejected since the queue was
// created.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }
