// Package mididriver defines the narrow external collaborator §6 calls
// the MIDI driver: outbound raw message send plus the "lightning"
// (hardware-controller LED feedback) send used by
// pkg/channel/midilighter's encoded messages. The core never binds to a
// concrete MIDI backend; it calls through this interface.
package mididriver

// MapEntry resolves a lightning bitmask into the raw MIDI bytes to OR
// it into before sending (§6: "look up map_entry.channel/byte1/byte2,
// OR with the 32-bit mask, and send").
type MapEntry struct {
	Channel uint8
	Byte1   uint8
	Byte2   uint8
}

// Driver is the narrow MIDI output contract the core consumes. Inbound
// MIDI arrives through a separate path (the driver's own callback
// pushes event.Event{Type: TypeMidi} into a dispatch.Queue; this
// interface only covers the two outbound calls §6 names).
type Driver interface {
	// Send transmits a 3-byte MIDI message packed little-endian into
	// raw, as produced by pkg/channel/midisender and midilighter's raw
	// message encoding.
	Send(raw uint32) error
	// SendLightning looks up entry, ORs mask into its channel/byte1/byte2,
	// and sends it — the hardware-feedback counterpart of a play_status/
	// rec_status transition (§4.5).
	SendLightning(mask uint32, entry MapEntry) error
}
