// Package midilighter implements feedback-lighting: emitting a raw
// MIDI byte to a controller's LED ring whenever a channel's play/rec
// status changes, so hardware controllers with backlit pads reflect
// engine state (§4.5).
package midilighter

import (
	"github.com/giada-core/engine/pkg/chantype"
	"github.com/giada-core/engine/pkg/midi"
)

// Lighter maps each play_status/rec_status value to the raw 3-byte
// MIDI message (packed via midi.Pack3) sent to light a controller pad.
type Lighter struct {
	PlayMsgs map[chantype.PlayStatus]uint32
	RecMsgs  map[chantype.RecStatus]uint32

	lastPlay   chantype.PlayStatus
	lastRec    chantype.RecStatus
	playPrimed bool
	recPrimed  bool
}

// New returns a Lighter with no bindings; OnPlayStatusChange and
// OnRecStatusChange are no-ops until msgs are configured via the
// learner-driven binding flow.
func New() *Lighter {
	return &Lighter{
		PlayMsgs: make(map[chantype.PlayStatus]uint32),
		RecMsgs:  make(map[chantype.RecStatus]uint32),
	}
}

// OnPlayStatusChange returns the raw message to send for the new
// status and whether one exists, only when status actually changed
// since the last call (§4.5: lights update once per transition, not
// once per block).
func (l *Lighter) OnPlayStatusChange(status chantype.PlayStatus) (uint32, bool) {
	if l.playPrimed && status == l.lastPlay {
		return 0, false
	}
	l.lastPlay = status
	l.playPrimed = true
	msg, ok := l.PlayMsgs[status]
	return msg, ok
}

// OnRecStatusChange mirrors OnPlayStatusChange for rec_status.
func (l *Lighter) OnRecStatusChange(status chantype.RecStatus) (uint32, bool) {
	if l.recPrimed && status == l.lastRec {
		return 0, false
	}
	l.lastRec = status
	l.recPrimed = true
	msg, ok := l.RecMsgs[status]
	return msg, ok
}

// Bind assigns the packed message sent when play_status becomes
// status.
func (l *Lighter) Bind(status chantype.PlayStatus, statusByte, data1, data2 byte) {
	l.PlayMsgs[status] = midi.Pack3(statusByte, data1, data2)
}

// BindRec assigns the packed message sent when rec_status becomes
// status.
func (l *Lighter) BindRec(status chantype.RecStatus, statusByte, data1, data2 byte) {
	l.RecMsgs[status] = midi.Pack3(statusByte, data1, data2)
}

// Clone returns a deep copy whose PlayMsgs/RecMsgs maps are
// independent of l's, so mutating a channel clone's bindings never
// mutates the original (§4.11 cloning rule).
func (l *Lighter) Clone() *Lighter {
	cp := &Lighter{
		PlayMsgs:   make(map[chantype.PlayStatus]uint32, len(l.PlayMsgs)),
		RecMsgs:    make(map[chantype.RecStatus]uint32, len(l.RecMsgs)),
		lastPlay:   l.lastPlay,
		lastRec:    l.lastRec,
		playPrimed: l.playPrimed,
		recPrimed:  l.recPrimed,
	}
	for k, v := range l.PlayMsgs {
		cp.PlayMsgs[k] = v
	}
	for k, v := range l.RecMsgs {
		cp.RecMsgs[k] = v
	}
	return cp
}
