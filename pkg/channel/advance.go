package channel

import (
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/event"
)

// Advance is the audio thread's per-block entry point (§2 data flow,
// §4.8): it applies the sequencer's FIRST_BEAT/BAR/REWIND/ACTIONS
// events for this block — the same play_status/rec_status transition
// tables React uses for UI/MIDI-sourced events, since both ultimately
// just flip d.State's atomics — and advances the channel's own
// Quantizer so a pending quantized play can fire mid-block.
//
// Unlike React, Advance never touches MidiLearner (MIDI learn only
// observes live MIDI-in traffic, never sequencer-originated events).
func Advance(d *Data, seqEvents []event.Event, clk clock.Clock, cfg Config, blockStart clock.Frame, numFrames int) {
	for _, e := range seqEvents {
		if !e.AddressedTo(d.ID) {
			continue
		}
		reactController(d, e)
		reactReceiver(d, e)
		reactSender(d, e)
		reactPlayStatus(d, e, clk, cfg)
		reactRecStatus(d, e, clk, cfg)
		reactLighter(d)
	}

	if clk.Quantize > 0 {
		step := clk.FramesInBeat() / clock.Frame(clk.Quantize)
		d.Quantizer().Advance(blockStart, numFrames, step)
	}
}
