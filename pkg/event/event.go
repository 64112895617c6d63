// Package event defines the wire format that flows through the engine's
// event pipeline (§4.6): UI and MIDI-in producers build Events, the
// dispatcher fans them out to channels and the sequencer, and the
// sequencer itself emits Events of its own (FIRST_BEAT, BAR, REWIND,
// ACTIONS) that channel.Advance consumes.
//
// This package is intentionally a leaf: it has no dependency on the
// channel package, so that both the dispatcher (which needs both) and
// the channel package (which only needs Event) can import it without a
// cycle. The CHANNEL_FUNCTION deferred-mutation variant (§4.6, §9) is
// carried as an opaque `any` precisely so this package never needs to
// know the concrete channel type; the one place that invokes it
// (channel.React) performs the type assertion itself.
package event

import "github.com/giada-core/engine/pkg/clock"

// Type identifies what kind of event this is.
type Type int

const (
	TypeNone Type = iota

	// Transport / gesture events, normally channel-directed.
	TypeKeyPress
	TypeKeyRelease
	TypeKeyKill

	// MIDI events arriving from the MIDI-in thread or recorded actions
	// being played back.
	TypeMidi
	TypeAction

	// Sequencer-originated events (§4.8), broadcast (ChannelID == 0).
	TypeFirstBeat
	TypeBar
	TypeRewind
	TypeActionsDue // one or more actions fall within the current block

	// Transport control, channel-directed or broadcast.
	TypeSequencerStop
	TypeSequencerStart

	// Mixer/channel status toggles.
	TypeMute
	TypeSolo

	// Action-recording "R button" gestures, channel-directed (§4.2
	// rec_status transitions: start/stop/kill).
	TypeRecStart
	TypeRecStop
	TypeRecKill

	// CHANNEL_FUNCTION (§4.6, §9): a deferred mutation closure, queued by
	// realtime-adjacent code to run on the next dispatch cycle. Data
	// holds a `func(*channel.Data)` value boxed as `any`.
	TypeChannelFunction
)

func (t Type) String() string {
	switch t {
	case TypeKeyPress:
		return "KEY_PRESS"
	case TypeKeyRelease:
		return "KEY_RELEASE"
	case TypeKeyKill:
		return "KEY_KILL"
	case TypeMidi:
		return "MIDI"
	case TypeAction:
		return "ACTION"
	case TypeFirstBeat:
		return "FIRST_BEAT"
	case TypeBar:
		return "BAR"
	case TypeRewind:
		return "REWIND"
	case TypeActionsDue:
		return "ACTIONS"
	case TypeSequencerStop:
		return "SEQUENCER_STOP"
	case TypeSequencerStart:
		return "SEQUENCER_START"
	case TypeMute:
		return "MUTE"
	case TypeSolo:
		return "SOLO"
	case TypeRecStart:
		return "REC_START"
	case TypeRecStop:
		return "REC_STOP"
	case TypeRecKill:
		return "REC_KILL"
	case TypeChannelFunction:
		return "CHANNEL_FUNCTION"
	default:
		return "NONE"
	}
}

// Event is the dispatcher's unit of work (§4.6): {type, delta, channel_id,
// data}. ChannelID == 0 means broadcast: every channel sees it.
type Event struct {
	Type      Type
	Delta     clock.Frame // intra-block timing for MIDI/action events
	ChannelID uint32
	Data      any
}

// IsBroadcast reports whether this event addresses every channel.
func (e Event) IsBroadcast() bool {
	return e.ChannelID == 0
}

// AddressedTo reports whether e should be handled by channelID: either
// it's a broadcast or it names that channel directly.
func (e Event) AddressedTo(channelID uint32) bool {
	return e.IsBroadcast() || e.ChannelID == channelID
}
