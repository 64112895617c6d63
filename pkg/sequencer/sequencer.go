// Package sequencer implements §4.8: from the Clock's current frame,
// the block size, and the action map, it emits the per-block broadcast
// events (FIRST_BEAT, BAR, REWIND, ACTIONS) that channel.Advance
// consumes. It is the audio thread's only source of transport-driven
// events; channel.React handles everything UI/MIDI-sourced instead.
package sequencer

import (
	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/event"
)

// Advance moves clk forward by numFrames and returns the broadcast
// events due within [blockStart, blockStart+numFrames) (§4.8). It is
// called once per audio callback, before any channel.Advance/Render
// call, from the thread holding the RT read guard on the Layout — so it
// must never allocate beyond the returned slice and never block.
//
// clk is mutated in place (its CurrentFrame advances); actions is
// read-only (action edits go through the dispatcher/Swapper, never the
// audio thread).
func Advance(clk *clock.Clock, numFrames int, actions *action.Store) []event.Event {
	blockStart := clk.CurrentFrame
	res := clk.Advance(numFrames)

	var events []event.Event

	if res.HitFirstBeat {
		events = append(events, event.Event{Type: event.TypeFirstBeat})
	}
	if res.HitBar {
		events = append(events, event.Event{Type: event.TypeBar})
	}
	if res.HitRewind {
		events = append(events, event.Event{Type: event.TypeRewind, Delta: res.FrameAtRewind})
	}

	events = appendActionsDue(events, actions, blockStart, numFrames, res)

	return events
}

// appendActionsDue finds every action due within the block and appends
// one TypeAction event per action, addressed to its owning channel.
// When the block crosses a rewind boundary, the due range wraps: frames
// [blockStart, framesInSeq) plus [0, wrappedEnd).
func appendActionsDue(events []event.Event, actions *action.Store, blockStart clock.Frame, numFrames int, res clock.AdvanceResult) []event.Event {
	if actions == nil {
		return events
	}

	if !res.HitRewind {
		end := blockStart + clock.Frame(numFrames)
		for _, a := range actions.GetActionsInRange(blockStart, end) {
			events = append(events, actionEvent(a, a.Frame-blockStart))
		}
		return events
	}

	framesInSeq := blockStart + res.FrameAtRewind
	for _, a := range actions.GetActionsInRange(blockStart, framesInSeq) {
		events = append(events, actionEvent(a, a.Frame-blockStart))
	}

	wrappedFrames := clock.Frame(numFrames) - res.FrameAtRewind
	for _, a := range actions.GetActionsInRange(0, wrappedFrames) {
		events = append(events, actionEvent(a, res.FrameAtRewind+a.Frame))
	}
	return events
}

func actionEvent(a *action.Action, delta clock.Frame) event.Event {
	return event.Event{
		Type:      event.TypeAction,
		Delta:     delta,
		ChannelID: a.ChannelID,
		Data:      a,
	}
}
