package dispatch

import (
	"sync/atomic"

	"github.com/giada-core/engine/pkg/event"
)

// Queue is a fixed-capacity single-producer/single-consumer lock-free
// ring buffer of Events (§4.6: "two fixed-capacity lock-free SPSC
// queues"). Exactly one goroutine may call Push (the UI thread or the
// MIDI-in thread) and exactly one goroutine may call Drain (the
// dispatcher worker) for a given Queue instance — the single-writer/
// single-reader discipline is the caller's responsibility, same as the
// Swapper's RCU contract.
//
// The ring is sized to a power of two so index wraparound is a mask
// instead of a modulo, keeping Push allocation-free and branch-light —
// safe to call from the MIDI driver's realtime inbound callback.
type Queue struct {
	buf  []event.Event
	mask uint64

	head atomic.Uint64 // next slot to write
	tail atomic.Uint64 // next slot to read
}

// NewQueue returns a Queue capable of holding capacity events (rounded
// up to the next power of two).
func NewQueue(capacity int) *Queue {
	size := nextPow2(capacity)
	return &Queue{
		buf:  make([]event.Event, size),
		mask: uint64(size - 1),
	}
}

func nextPow2(n int) int {
	if n < 1 {
		n = 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Push enqueues e. It returns false (and drops e) if the queue is full,
// matching §7's CapacityExceeded policy: the caller increments its own
// dropped-event counter and never blocks.
func (q *Queue) Push(e event.Event) bool {
	head := q.head.Load()
	tail := q.tail.Load()
	if head-tail >= uint64(len(q.buf)) {
		return false
	}
	q.buf[head&q.mask] = e
	q.head.Store(head + 1)
	return true
}

// Drain moves every currently-available event out of the queue into out
// and returns the extended slice. Only the single consumer goroutine may
// call this.
func (q *Queue) Drain(out []event.Event) []event.Event {
	head := q.head.Load()
	tail := q.tail.Load()
	for tail != head {
		out = append(out, q.buf[tail&q.mask])
		tail++
	}
	q.tail.Store(tail)
	return out
}

// Len reports the number of events currently queued (approximate under
// concurrent Push, exact once the producer is quiesced).
func (q *Queue) Len() int {
	return int(q.head.Load() - q.tail.Load())
}

// Capacity returns the queue's fixed capacity.
func (q *Queue) Capacity() int {
	return len(q.buf)
}
