// Package quantizer schedules deferred callbacks at the next
// quantization grid point (§4.7). One Quantizer exists per channel and
// one for the sequencer.
package quantizer

import (
	"sync"

	"github.com/giada-core/engine/pkg/clock"
)

// ActionID identifies a pending trigger within a Quantizer's table. The
// caller (sample player, sequencer) picks its own ID scheme; the
// Quantizer only needs it to support Clear/per-trigger bookkeeping.
type ActionID uint32

// Callback is invoked when a pending trigger's grid point falls inside
// the current block. delta is the offset from the block's start frame
// to the grid point, for sample-accurate scheduling.
type Callback func(delta clock.Frame)

// Quantizer holds a table of pending triggers. It performs no
// allocation on Advance's hot path beyond map lookups already present
// before the call.
type Quantizer struct {
	mu      sync.Mutex
	pending map[ActionID]Callback
}

// New returns an empty Quantizer.
func New() *Quantizer {
	return &Quantizer{pending: make(map[ActionID]Callback)}
}

// Trigger marks id pending with the given callback, replacing any
// previous pending trigger for the same id (§4.7: "at most one firing
// per trigger").
func (q *Quantizer) Trigger(id ActionID, cb Callback) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[id] = cb
}

// Clear cancels all pending triggers. Rewind always calls Clear (§4.7,
// §9 open question: the engine cancels both the channel's and the
// sample player's quantizer on rewind, per the spec's stricter
// inherited rule).
func (q *Quantizer) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = make(map[ActionID]Callback)
}

// ClearOne cancels a single pending trigger, e.g. when a key press
// toggles a scheduled quantized play back off before it fires.
func (q *Quantizer) ClearOne(id ActionID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
}

// Pending reports whether id currently has a scheduled callback.
func (q *Quantizer) Pending(id ActionID) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[id]
	return ok
}

// Advance checks every pending trigger against the block
// [blockStart, blockStart+numFrames) at the given quantization step
// (the same value as clock.FramesInBeat()/quantize): if the next grid
// point at or after blockStart falls within the block, its callback
// fires with delta = grid - blockStart and the trigger is cleared.
//
// Called once per audio block from the audio thread; holds its mutex
// only across a map scan, no allocation, no syscall.
func (q *Quantizer) Advance(blockStart clock.Frame, numFrames int, step clock.Frame) {
	if step <= 0 {
		return
	}
	blockEnd := blockStart + clock.Frame(numFrames)

	grid := ((blockStart + step - 1) / step) * step

	q.mu.Lock()
	defer q.mu.Unlock()

	if grid < blockStart || grid >= blockEnd {
		return
	}

	delta := grid - blockStart
	for id, cb := range q.pending {
		cb(delta)
		delete(q.pending, id)
	}
}
