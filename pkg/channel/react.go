package channel

import (
	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/event"
	"github.com/giada-core/engine/pkg/midi"
)

// Config carries the engine-wide flags §4.2's rec_status table and
// sequencer-stop behavior are gated on (§6's `Conf`).
type Config struct {
	TreatRecsAsLoops   bool
	ChansStopOnSeqHalt bool
}

// React applies every event in events addressed to d (§4.2, §4.6). It
// runs on a clone of the channel, dispatched by the event-dispatcher
// worker, in the fixed sub-component order: controller, receiver,
// sender, sample player, action recorders (§4.2 tie-break rule). It
// never blocks and never touches the shared action.Store beyond
// read-only lookups; mutating the store is the control thread's job.
func React(d *Data, events []event.Event, clk clock.Clock, cfg Config) {
	for _, e := range events {
		if !e.AddressedTo(d.ID) {
			continue
		}

		if e.Type == event.TypeChannelFunction {
			if fn, ok := e.Data.(func(*Data)); ok {
				fn(d)
			}
			continue
		}

		reactController(d, e)
		reactReceiver(d, e)
		reactSender(d, e)
		reactPlayStatus(d, e, clk, cfg)
		reactRecStatus(d, e, clk, cfg)
		reactLearner(d, e)
		reactLighter(d)
	}
}

func reactController(d *Data, e event.Event) {
	if d.MidiController == nil {
		return
	}
	switch e.Type {
	case event.TypeKeyPress:
		if d.MidiController.OnNoteOn(noteFromEvent(e)) {
			cycleMidiControllerPress(d)
		}
	case event.TypeKeyRelease:
		d.MidiController.OnNoteOff(noteFromEvent(e))
	case event.TypeKeyKill, event.TypeSequencerStop:
		d.State.SetPlayStatus(PlayOff)
	case event.TypeFirstBeat, event.TypeRewind:
		switch d.State.PlayStatus() {
		case PlayWait:
			d.State.SetPlayStatus(PlayPlay)
		case PlayEnding:
			d.State.SetPlayStatus(PlayOff)
		}
	}
}

// cycleMidiControllerPress handles a bound key press on a MIDI channel:
// OFF→WAIT, WAIT→OFF, PLAY→ENDING, ENDING→PLAY. The WAIT→PLAY and
// ENDING→OFF steps of the OFF→WAIT→PLAY→ENDING→OFF cycle are taken on
// FIRST_BEAT/REWIND above, not on a press (§4.5: MIDI channels have no
// sample player to drive end-of-sample events, so the controller
// sub-component itself drives the cycle).
func cycleMidiControllerPress(d *Data) {
	switch d.State.PlayStatus() {
	case PlayOff:
		d.State.SetPlayStatus(PlayWait)
	case PlayWait:
		d.State.SetPlayStatus(PlayOff)
	case PlayPlay:
		d.State.SetPlayStatus(PlayEnding)
	case PlayEnding:
		d.State.SetPlayStatus(PlayPlay)
	}
}

func reactReceiver(d *Data, e event.Event) {
	if d.MidiReceiver == nil || d.Buffer == nil {
		return
	}
	switch e.Type {
	case event.TypeMidi:
		if ev, ok := e.Data.(midi.Event); ok {
			d.MidiReceiver.Enqueue(d.Buffer.MIDI, midi.FlattenToChannel0(ev), int32(e.Delta))
		}
	case event.TypeAction:
		if d.State.PlayStatus() == PlayPlay {
			if a, ok := e.Data.(*action.Action); ok && a.Event != nil {
				d.MidiReceiver.Enqueue(d.Buffer.MIDI, a.Event, int32(e.Delta))
			}
		}
	case event.TypeKeyKill, event.TypeSequencerStop, event.TypeRewind:
		d.Buffer.MIDI.Add(midi.AllNotesOffEvent{})
	}
}

func reactSender(d *Data, e event.Event) {
	if d.MidiSender == nil || d.Buffer == nil {
		return
	}
	switch e.Type {
	case event.TypeSequencerStop, event.TypeKeyKill:
		if d.State.PlayStatus() == PlayPlay {
			if msg := d.MidiSender.AllNotesOff(); msg != nil {
				d.Buffer.MIDI.Add(msg)
			}
		}
	case event.TypeAction:
		if a, ok := e.Data.(*action.Action); ok && a.Event != nil {
			if out := d.MidiSender.Prepare(a.Event); out != nil {
				d.Buffer.MIDI.Add(out)
			}
		}
	}
}

// reactPlayStatus implements §4.2's play_status table for SAMPLE and
// PREVIEW channels (those with a SamplePlayer). MIDI channels' cycle is
// handled entirely by reactController above.
func reactPlayStatus(d *Data, e event.Event, clk clock.Clock, cfg Config) {
	sp := d.SamplePlayer
	if sp == nil {
		return
	}

	status := d.State.PlayStatus()
	if status == PlayEmpty {
		return
	}

	switch e.Type {
	case event.TypeKeyPress:
		switch status {
		case PlayOff:
			if sp.Mode.IsLoop() {
				d.State.SetPlayStatus(PlayWait)
			} else if clk.CanQuantize() {
				scheduleQuantizedPlay(d)
			} else {
				d.State.SetPlayStatus(PlayPlay)
				d.State.SetOffset(e.Delta)
			}
		case PlayWait:
			d.State.SetPlayStatus(PlayOff)
			d.Quantizer().ClearOne(quantizerPlayTriggerID)
		case PlayPlay:
			switch {
			case sp.Mode == ModeSingleRetrig:
				sp.Rewind(d.State, true)
			case sp.Mode.IsLoop() || sp.Mode == ModeSingleEndless:
				d.State.SetPlayStatus(PlayEnding)
			default: // SINGLE_BASIC
				d.State.SetPlayStatus(PlayOff)
				sp.Rewind(d.State, true)
			}
		case PlayEnding:
			d.State.SetPlayStatus(PlayPlay)
		}

	case event.TypeKeyRelease:
		if status == PlayPlay && sp.Mode == ModeSinglePress {
			d.State.SetPlayStatus(PlayOff)
			sp.Rewind(d.State, true)
			d.Quantizer().Clear()
		}

	case event.TypeKeyKill:
		d.State.SetPlayStatus(PlayOff)
		sp.Rewind(d.State, true)
		d.Quantizer().Clear()

	case event.TypeSequencerStop:
		switch status {
		case PlayWait:
			if sp.Mode.IsLoop() {
				d.State.SetPlayStatus(PlayOff)
			}
		case PlayPlay:
			if cfg.ChansStopOnSeqHalt && (sp.Mode.IsLoop() || d.ReadActions) {
				d.State.SetPlayStatus(PlayOff)
				sp.Rewind(d.State, true)
			}
		}

	case event.TypeFirstBeat:
		switch status {
		case PlayWait:
			d.State.SetPlayStatus(PlayPlay)
		case PlayPlay:
			if sp.Mode.IsLoop() {
				sp.Rewind(d.State, true)
			}
		case PlayEnding:
			if sp.Mode.IsLoop() {
				d.State.SetPlayStatus(PlayOff)
			}
		}

	case event.TypeBar:
		if status == PlayPlay && (sp.Mode == ModeLoopRepeat || sp.Mode == ModeLoopOnceBar) {
			sp.Rewind(d.State, true)
		}

	case event.TypeRewind:
		d.Quantizer().Clear() // §9 open question: clear both quantizers on rewind.
	}
}

// quantizerPlayTriggerID is the channel Quantizer's sole trigger slot
// used for the OFF→(scheduled PLAY) transition (§4.2); a channel only
// ever has one pending quantized play at a time.
const quantizerPlayTriggerID = 0

// scheduleQuantizedPlay arms the channel's own Quantizer to flip
// PLAY at the next grid point (§4.2: "OFF -> OFF (schedules Q_PLAY)").
func scheduleQuantizedPlay(d *Data) {
	d.Quantizer().Trigger(quantizerPlayTriggerID, func(delta clock.Frame) {
		d.State.SetPlayStatus(PlayPlay)
		d.State.SetOffset(delta)
	})
}

func reactRecStatus(d *Data, e event.Event, clk clock.Clock, cfg Config) {
	rec := d.SampleActionRecorder
	if rec == nil {
		rec = d.MidiActionRecorder
	}
	if rec == nil {
		return
	}

	switch e.Type {
	case event.TypeRecStart:
		if cfg.TreatRecsAsLoops {
			d.State.SetRecStatus(RecWait)
		} else {
			d.State.SetRecStatus(RecPlay)
			d.ReadActions = true
		}

	case event.TypeRecStop:
		if clk.Status != clock.StatusRunning || !cfg.TreatRecsAsLoops {
			d.State.SetRecStatus(RecOff)
			d.ReadActions = false
			return
		}
		switch d.State.RecStatus() {
		case RecWait:
			d.State.SetRecStatus(RecOff)
		case RecEnding:
			d.State.SetRecStatus(RecPlay)
		case RecPlay:
			d.State.SetRecStatus(RecEnding)
		}

	case event.TypeRecKill:
		if cfg.TreatRecsAsLoops {
			d.State.SetRecStatus(RecOff)
			d.ReadActions = false
		}

	case event.TypeFirstBeat:
		switch d.State.RecStatus() {
		case RecEnding:
			d.State.SetRecStatus(RecOff)
			d.ReadActions = false
		case RecWait:
			d.State.SetRecStatus(RecPlay)
			d.ReadActions = true
		}
	}
}

func reactLearner(d *Data, e event.Event) {
	if d.MidiLearner == nil {
		return
	}
	if e.Type != event.TypeMidi {
		return
	}
	if ev, ok := e.Data.(midi.Event); ok {
		d.MidiLearner.Capture(ev)
	}
}

func reactLighter(d *Data) {
	if d.MidiLighter == nil || d.Buffer == nil {
		return
	}
	if msg, ok := d.MidiLighter.OnPlayStatusChange(d.State.PlayStatus()); ok {
		d.Buffer.MIDI.Add(rawLightMessage(msg))
	}
	if msg, ok := d.MidiLighter.OnRecStatusChange(d.State.RecStatus()); ok {
		d.Buffer.MIDI.Add(rawLightMessage(msg))
	}
}

func rawLightMessage(raw uint32) midi.Event {
	return midi.ControlChangeEvent{
		BaseEvent:  midi.BaseEvent{EventChannel: uint8(raw & 0x0F)},
		Controller: uint8((raw >> 8) & 0xFF),
		Value:      uint8((raw >> 16) & 0xFF),
	}
}

func noteFromEvent(e event.Event) uint8 {
	if ev, ok := e.Data.(midi.Event); ok {
		if n, ok := ev.(midi.NoteOnEvent); ok {
			return n.NoteNumber
		}
	}
	return 0
}
