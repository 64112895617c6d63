// Package midisender implements the MIDI channel's output side (§4.5):
// rewriting recorded (channel-0-flattened) events onto the configured
// output filter channel, and emitting ALL_NOTES_OFF on stop/kill while
// the channel holds live notes.
package midisender

import "github.com/giada-core/engine/pkg/midi"

// Sender holds the output filter channel a MIDI channel transmits on.
type Sender struct {
	FilterChannel uint8
	Enabled       bool
}

// New returns a disabled Sender targeting channel 0.
func New() *Sender {
	return &Sender{FilterChannel: 0, Enabled: false}
}

// Prepare rewrites e (recorded on channel 0, §4.10) onto s.FilterChannel
// for transmission, returning nil if the sender is disabled.
func (s *Sender) Prepare(e midi.Event) midi.Event {
	if !s.Enabled {
		return nil
	}
	return midi.WithChannel(e, s.FilterChannel)
}

// AllNotesOff returns the panic message to send on SEQUENCER_STOP or
// KEY_KILL while the channel was playing (§4.5). Returns nil when the
// sender is disabled, since there is nothing to silence downstream.
func (s *Sender) AllNotesOff() midi.Event {
	if !s.Enabled {
		return nil
	}
	return midi.WithChannel(midi.AllNotesOffEvent{}, s.FilterChannel)
}
