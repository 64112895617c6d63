package midi

import (
	"fmt"
)

type EventType uint8

const (
	EventTypeNoteOff EventType = iota
	EventTypeNoteOn
	EventTypePolyPressure
	EventTypeControlChange
	EventTypeProgramChange
	EventTypeChannelPressure
	EventTypePitchBend
	EventTypeSystemExclusive
	EventTypeClock
	EventTypeStart
	EventTypeStop
	EventTypeContinue
	EventTypeReset
	EventTypeActiveSensing
	// EventTypeNoteKill marks an unpaired live note that must be cut
	// without a matching NoteOff (e.g. a killed channel mid-note).
	EventTypeNoteKill
	// EventTypeAllNotesOff is the "panic" message sent on stop/kill when
	// a MIDI sender is enabled (§4.5).
	EventTypeAllNotesOff
)

type Event interface {
	Type() EventType
	Channel() uint8
	SampleOffset() int32
	String() string
}

type BaseEvent struct {
	EventChannel uint8
	Offset       int32
}

func (e BaseEvent) Channel() uint8 {
	return e.EventChannel
}

func (e BaseEvent) SampleOffset() int32 {
	return e.Offset
}

type NoteOnEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOnEvent) Type() EventType {
	return EventTypeNoteOn
}

func (e NoteOnEvent) String() string {
	return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d, offset:%d}", 
		e.EventChannel, e.NoteNumber, e.Velocity, e.Offset)
}

type NoteOffEvent struct {
	BaseEvent
	NoteNumber uint8
	Velocity   uint8
}

func (e NoteOffEvent) Type() EventType {
	return EventTypeNoteOff
}

func (e NoteOffEvent) String() string {
	return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d, offset:%d}", 
		e.EventChannel, e.NoteNumber, e.Velocity, e.Offset)
}

type ControlChangeEvent struct {
	BaseEvent
	Controller uint8
	Value      uint8
}

func (e ControlChangeEvent) Type() EventType {
	return EventTypeControlChange
}

func (e ControlChangeEvent) String() string {
	return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d, offset:%d}", 
		e.EventChannel, e.Controller, e.Value, e.Offset)
}

const (
	CCModWheel       uint8 = 1
	CCBreath         uint8 = 2
	CCFoot           uint8 = 4
	CCPortamentoTime uint8 = 5
	CCVolume         uint8 = 7
	CCBalance        uint8 = 8
	CCPan            uint8 = 10
	CCExpression     uint8 = 11
	CCSustain        uint8 = 64
	CCPortamento     uint8 = 65
	CCSostenuto      uint8 = 66
	CCSoft           uint8 = 67
	CCLegato         uint8 = 68
	CCHold2          uint8 = 69
	CCAllSoundOff    uint8 = 120
	CCResetAll       uint8 = 121
	CCLocalControl   uint8 = 122
	CCAllNotesOff    uint8 = 123
)

type PitchBendEvent struct {
	BaseEvent
	Value int16 // -8192 to 8191, 0 is center
}

func (e PitchBendEvent) Type() EventType {
	return EventTypePitchBend
}

func (e PitchBendEvent) String() string {
	return fmt.Sprintf("PitchBend{ch:%d, val:%d, offset:%d}", 
		e.EventChannel, e.Value, e.Offset)
}

func (e PitchBendEvent) NormalizedValue() float64 {
	return float64(e.Value) / 8192.0
}

type PolyPressureEvent struct {
	BaseEvent
	NoteNumber uint8
	Pressure   uint8
}

func (e PolyPressureEvent) Type() EventType {
	return EventTypePolyPressure
}

func (e PolyPressureEvent) String() string {
	return fmt.Sprintf("PolyPressure{ch:%d, note:%d, pressure:%d, offset:%d}", 
		e.EventChannel, e.NoteNumber, e.Pressure, e.Offset)
}

type ChannelPressureEvent struct {
	BaseEvent
	Pressure uint8
}

func (e ChannelPressureEvent) Type() EventType {
	return EventTypeChannelPressure
}

func (e ChannelPressureEvent) String() string {
	return fmt.Sprintf("ChannelPressure{ch:%d, pressure:%d, offset:%d}", 
		e.EventChannel, e.Pressure, e.Offset)
}

type ProgramChangeEvent struct {
	BaseEvent
	Program uint8
}

func (e ProgramChangeEvent) Type() EventType {
	return EventTypeProgramChange
}

func (e ProgramChangeEvent) String() string {
	return fmt.Sprintf("ProgramChange{ch:%d, prog:%d, offset:%d}", 
		e.EventChannel, e.Program, e.Offset)
}

type ClockEvent struct {
	BaseEvent
}

func (e ClockEvent) Type() EventType {
	return EventTypeClock
}

func (e ClockEvent) String() string {
	return fmt.Sprintf("Clock{offset:%d}", e.Offset)
}

type StartEvent struct {
	BaseEvent
}

func (e StartEvent) Type() EventType {
	return EventTypeStart
}

func (e StartEvent) String() string {
	return fmt.Sprintf("Start{offset:%d}", e.Offset)
}

type StopEvent struct {
	BaseEvent
}

func (e StopEvent) Type() EventType {
	return EventTypeStop
}

func (e StopEvent) String() string {
	return fmt.Sprintf("Stop{offset:%d}", e.Offset)
}

type ContinueEvent struct {
	BaseEvent
}

func (e ContinueEvent) Type() EventType {
	return EventTypeContinue
}

func (e ContinueEvent) String() string {
	return fmt.Sprintf("Continue{offset:%d}", e.Offset)
}

// NoteKillEvent cuts a live, unpaired note immediately (§3: "unpaired
// live notes use NOTE_KILL").
type NoteKillEvent struct {
	BaseEvent
	NoteNumber uint8
}

func (e NoteKillEvent) Type() EventType { return EventTypeNoteKill }

func (e NoteKillEvent) String() string {
	return fmt.Sprintf("NoteKill{ch:%d, note:%d, offset:%d}", e.EventChannel, e.NoteNumber, e.Offset)
}

// AllNotesOffEvent is CC 123 on filter, emitted by a MIDI sender on
// SEQUENCER_STOP or KEY_KILL while playing (§4.5).
type AllNotesOffEvent struct {
	BaseEvent
}

func (e AllNotesOffEvent) Type() EventType { return EventTypeAllNotesOff }

func (e AllNotesOffEvent) String() string {
	return fmt.Sprintf("AllNotesOff{ch:%d, offset:%d}", e.EventChannel, e.Offset)
}

// Pack3 packs a 3-byte MIDI message into a little-endian uint32, as
// required by the MIDI driver's send(raw_u32) contract (§6).
func Pack3(status, data1, data2 byte) uint32 {
	return uint32(status) | uint32(data1)<<8 | uint32(data2)<<16
}

// Encode3 is Pack3's inverse direction: it renders e as the raw status/
// data1/data2 bytes the MIDI driver's send(raw_u32) expects, the final
// step for anything a MIDI sender or lighter appended to a channel's
// outbound Buffer.MIDI queue. Program changes and events with no
// second data byte pad data2 with 0; NoteKill and the transport/clock
// events carry no wire representation of their own (NoteKill resolves
// to the matching NOTE_OFF by the action recorder before it ever
// reaches here) and report ok=false.
func Encode3(e Event) (status, data1, data2 byte, ok bool) {
	ch := e.Channel() & 0x0F
	switch ev := e.(type) {
	case NoteOnEvent:
		return 0x90 | ch, ev.NoteNumber, ev.Velocity, true
	case NoteOffEvent:
		return 0x80 | ch, ev.NoteNumber, ev.Velocity, true
	case ControlChangeEvent:
		return 0xB0 | ch, ev.Controller, ev.Value, true
	case ProgramChangeEvent:
		return 0xC0 | ch, ev.Program, 0, true
	case ChannelPressureEvent:
		return 0xD0 | ch, ev.Pressure, 0, true
	case PolyPressureEvent:
		return 0xA0 | ch, ev.NoteNumber, ev.Pressure, true
	case PitchBendEvent:
		v := uint16(ev.Value + 8192)
		return 0xE0 | ch, byte(v & 0x7F), byte((v >> 7) & 0x7F), true
	case AllNotesOffEvent:
		return 0xB0 | ch, CCAllNotesOff, 0, true
	default:
		return 0, 0, 0, false
	}
}

// FlattenToChannel0 rewrites an event's channel field to 0. The action
// recorder stores every recorded event on channel 0 (§4.10: "flatten to
// channel 0") so playback channel routing is entirely controlled by
// MIDI sender's filter, not by the recorded byte.
func FlattenToChannel0(e Event) Event {
	switch ev := e.(type) {
	case NoteOnEvent:
		ev.EventChannel = 0
		return ev
	case NoteOffEvent:
		ev.EventChannel = 0
		return ev
	case NoteKillEvent:
		ev.EventChannel = 0
		return ev
	case ControlChangeEvent:
		ev.EventChannel = 0
		return ev
	default:
		return e
	}
}

// WithChannel rewrites an event's channel field to ch. Used by the MIDI
// sender to rewrite a recorded (channel-0) event onto its output filter
// channel before transmission (§4.5).
func WithChannel(e Event, ch uint8) Event {
	switch ev := e.(type) {
	case NoteOnEvent:
		ev.EventChannel = ch
		return ev
	case NoteOffEvent:
		ev.EventChannel = ch
		return ev
	case NoteKillEvent:
		ev.EventChannel = ch
		return ev
	case ControlChangeEvent:
		ev.EventChannel = ch
		return ev
	case AllNotesOffEvent:
		ev.EventChannel = ch
		return ev
	default:
		return e
	}
}

func NoteToFrequency(note uint8, tuningA4 float64) float64 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	return tuningA4 * pow2((float64(note) - 69.0) / 12.0)
}

func pow2(x float64) float64 {
	// Fast approximation of 2^x
	if x >= 0 {
		whole := int(x)
		frac := x - float64(whole)
		// 2^whole * 2^frac
		// Use Taylor series approximation for fractional part
		fracPow := 1.0 + frac*(0.693147 + frac*(0.240227 + frac*0.055504))
		return float64(uint64(1)<<uint(whole)) * fracPow
	} else {
		// For negative x, use 2^x = 1 / 2^(-x)
		return 1.0 / pow2(-x)
	}
}

func FrequencyToNote(freq, tuningA4 float64) uint8 {
	if tuningA4 == 0 {
		tuningA4 = 440.0
	}
	note := 69.0 + 12.0*log2(freq/tuningA4)
	if note < 0 {
		return 0
	}
	if note > 127 {
		return 127
	}
	return uint8(note + 0.5)
}

func log2(x float64) float64 {
	// Fast approximation of log2(x)
	if x <= 0 {
		return -1000.0 // Return a very negative number for invalid input
	}
	
	// Normalize x to [1, 2) range
	exp := 0
	for x >= 2.0 {
		x /= 2.0
		exp++
	}
	for x < 1.0 {
		x *= 2.0
		exp--
	}
	
	// Now x is in [1, 2), use polynomial approximation
	// log2(x) â‰ˆ (x-1) * (1.4427 - 0.7213*(x-1) + 0.4821*(x-1)^2)
	t := x - 1.0
	frac := t * (1.4427 - t*(0.7213 - t*0.4821))
	
	return float64(exp) + frac
}

func NoteNumberToName(note uint8) string {
	noteNames := []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	octave := int(note / 12) - 1
	noteName := noteNames[note % 12]
	return fmt.Sprintf("%s%d", noteName, octave)
}