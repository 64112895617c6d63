package sequencer

import (
	"testing"

	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/event"
	"github.com/giada-core/engine/pkg/midi"
)

func newRunningClock() clock.Clock {
	c := clock.New(48000)
	c.Status = clock.StatusRunning
	c.Beats = 4
	c.Bars = 1
	return c
}

func hasType(events []event.Event, t event.Type) bool {
	for _, e := range events {
		if e.Type == t {
			return true
		}
	}
	return false
}

func TestAdvanceEmitsFirstBeatAtStart(t *testing.T) {
	c := newRunningClock()
	events := Advance(&c, 64, action.NewStore())
	if !hasType(events, event.TypeFirstBeat) {
		t.Error("expected FIRST_BEAT at frame 0")
	}
}

func TestAdvanceEmitsRewindAtLoopBoundary(t *testing.T) {
	c := newRunningClock()
	loop := int(c.FramesInLoop())

	c.CurrentFrame = clock.Frame(loop - 10)
	events := Advance(&c, 20, action.NewStore())
	if !hasType(events, event.TypeRewind) {
		t.Error("expected REWIND when the block crosses the loop boundary")
	}
}

func TestAdvanceEmitsActionWithinBlock(t *testing.T) {
	c := newRunningClock()
	store := action.NewStore()
	store.Record(42, 10, midi.NoteOnEvent{NoteNumber: 60, Velocity: 100})

	events := Advance(&c, 64, store)

	found := false
	for _, e := range events {
		if e.Type == event.TypeAction && e.ChannelID == 42 {
			found = true
			if e.Delta != 10 {
				t.Errorf("expected delta 10, got %v", e.Delta)
			}
		}
	}
	if !found {
		t.Error("expected an ACTION event for the action due in this block")
	}
}

func TestAdvanceStoppedClockEmitsNothing(t *testing.T) {
	c := clock.New(48000)
	c.Status = clock.StatusStopped
	events := Advance(&c, 64, action.NewStore())
	if len(events) != 0 {
		t.Errorf("expected no events while stopped, got %v", events)
	}
}

func TestAdvanceActionAfterBlockNotEmitted(t *testing.T) {
	c := newRunningClock()
	store := action.NewStore()
	store.Record(1, 1000, midi.NoteOnEvent{NoteNumber: 60, Velocity: 100})

	events := Advance(&c, 64, store)
	if hasType(events, event.TypeAction) {
		t.Error("expected no ACTION event for an action outside this block")
	}
}
