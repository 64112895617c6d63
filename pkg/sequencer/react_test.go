package sequencer

import (
	"testing"

	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/event"
)

func TestReactStartStop(t *testing.T) {
	c := clock.New(48000)

	React(&c, []event.Event{{Type: event.TypeSequencerStart}})
	if c.Status != clock.StatusRunning {
		t.Error("expected SEQUENCER_START to set the clock running")
	}

	React(&c, []event.Event{{Type: event.TypeSequencerStop}})
	if c.Status != clock.StatusStopped {
		t.Error("expected SEQUENCER_STOP to stop the clock")
	}
}

func TestReactIgnoresUnrelatedEvents(t *testing.T) {
	c := clock.New(48000)
	c.Status = clock.StatusRunning

	React(&c, []event.Event{{Type: event.TypeKeyPress, ChannelID: 5}})
	if c.Status != clock.StatusRunning {
		t.Error("expected unrelated events to leave transport state untouched")
	}
}
