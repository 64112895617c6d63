package patch

import "github.com/giada-core/engine/pkg/midi"

// Event is the JSON-serializable projection of a midi.Event (§6:
// "serialized Layout snapshot ... only value-typed fields are
// serialized" — midi.Event is an interface, so recorded Actions persist
// through this flat struct instead of the concrete event types
// directly).
type Event struct {
	Type       midi.EventType `json:"type"`
	Channel    uint8          `json:"channel"`
	Offset     int32          `json:"offset"`
	Note       uint8          `json:"note,omitempty"`
	Velocity   uint8          `json:"velocity,omitempty"`
	Controller uint8          `json:"controller,omitempty"`
	Value      uint8          `json:"value,omitempty"`
	Program    uint8          `json:"program,omitempty"`
	Pressure   uint8          `json:"pressure,omitempty"`
	PitchValue int16          `json:"pitch_value,omitempty"`
}

// ToEvent converts the persisted projection back to a concrete
// midi.Event.
func ToEvent(p Event) midi.Event {
	base := midi.BaseEvent{EventChannel: p.Channel, Offset: p.Offset}
	switch p.Type {
	case midi.EventTypeNoteOn:
		return midi.NoteOnEvent{BaseEvent: base, NoteNumber: p.Note, Velocity: p.Velocity}
	case midi.EventTypeNoteOff:
		return midi.NoteOffEvent{BaseEvent: base, NoteNumber: p.Note, Velocity: p.Velocity}
	case midi.EventTypeNoteKill:
		return midi.NoteKillEvent{BaseEvent: base, NoteNumber: p.Note}
	case midi.EventTypeControlChange:
		return midi.ControlChangeEvent{BaseEvent: base, Controller: p.Controller, Value: p.Value}
	case midi.EventTypePolyPressure:
		return midi.PolyPressureEvent{BaseEvent: base, NoteNumber: p.Note, Pressure: p.Pressure}
	case midi.EventTypeChannelPressure:
		return midi.ChannelPressureEvent{BaseEvent: base, Pressure: p.Pressure}
	case midi.EventTypeProgramChange:
		return midi.ProgramChangeEvent{BaseEvent: base, Program: p.Program}
	case midi.EventTypePitchBend:
		return midi.PitchBendEvent{BaseEvent: base, Value: p.PitchValue}
	case midi.EventTypeAllNotesOff:
		return midi.AllNotesOffEvent{BaseEvent: base}
	default:
		return midi.NoteKillEvent{BaseEvent: base, NoteNumber: p.Note}
	}
}

// FromEvent projects a concrete midi.Event down to its persisted form.
// Unknown/transport event types (Clock/Start/Stop/Continue) are never
// recorded as Actions (§4.10 only covers note/CC/kill events), so they
// fall through to the zero-value projection rather than a panic.
func FromEvent(e midi.Event) Event {
	p := Event{Type: e.Type(), Channel: e.Channel(), Offset: e.SampleOffset()}
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		p.Note, p.Velocity = ev.NoteNumber, ev.Velocity
	case midi.NoteOffEvent:
		p.Note, p.Velocity = ev.NoteNumber, ev.Velocity
	case midi.NoteKillEvent:
		p.Note = ev.NoteNumber
	case midi.ControlChangeEvent:
		p.Controller, p.Value = ev.Controller, ev.Value
	case midi.PolyPressureEvent:
		p.Note, p.Pressure = ev.NoteNumber, ev.Pressure
	case midi.ChannelPressureEvent:
		p.Pressure = ev.Pressure
	case midi.ProgramChangeEvent:
		p.Program = ev.Program
	case midi.PitchBendEvent:
		p.PitchValue = ev.Value
	}
	return p
}
