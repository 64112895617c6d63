// Package midireceiver implements the MIDI channel's input side (§4.5):
// enqueuing driver-delivered events with a block-local sample offset so
// they land in the channel's EventQueue ready for the same-block render
// pass. It does not change the channel's play_status.
package midireceiver

import "github.com/giada-core/engine/pkg/midi"

// Receiver holds the input filter (which MIDI channel this component
// listens to; -1 means any) and forwards accepted events into a
// channel's Buffer.MIDI input queue.
type Receiver struct {
	FilterChannel int // -1 = accept all channels
}

// New returns a Receiver listening on all channels.
func New() *Receiver {
	return &Receiver{FilterChannel: -1}
}

// Accepts reports whether an inbound raw MIDI channel nibble passes
// this receiver's filter.
func (r *Receiver) Accepts(ch uint8) bool {
	return r.FilterChannel < 0 || r.FilterChannel == int(ch)
}

// Enqueue appends e into q at sampleOffset if it passes the filter.
// sampleOffset is relative to the start of the current audio block
// (§4.5: "driver events carry a block-local delta, not absolute
// frames").
func (r *Receiver) Enqueue(q *midi.EventQueue, e midi.Event, sampleOffset int32) {
	if !r.Accepts(e.Channel()) {
		return
	}
	q.Add(withOffset(e, sampleOffset))
}

func withOffset(e midi.Event, offset int32) midi.Event {
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		ev.Offset = offset
		return ev
	case midi.NoteOffEvent:
		ev.Offset = offset
		return ev
	case midi.ControlChangeEvent:
		ev.Offset = offset
		return ev
	case midi.PitchBendEvent:
		ev.Offset = offset
		return ev
	default:
		return e
	}
}
