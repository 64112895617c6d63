package sequencer

import (
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/event"
)

// React applies transport-control events to clk (§4.6: "feed the same
// buffer to sequencer::react to handle transport commands"). It runs on
// the dispatcher worker, not the audio thread — transport starts/stops
// are control-thread-paced gestures, unlike the per-block Advance call.
func React(clk *clock.Clock, events []event.Event) {
	for _, e := range events {
		switch e.Type {
		case event.TypeSequencerStart:
			clk.Status = clock.StatusRunning
		case event.TypeSequencerStop:
			clk.Status = clock.StatusStopped
		}
	}
}
