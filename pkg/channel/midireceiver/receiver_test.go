package midireceiver

import (
	"testing"

	"github.com/giada-core/engine/pkg/midi"
)

func TestAcceptsAnyByDefault(t *testing.T) {
	r := New()
	if !r.Accepts(0) || !r.Accepts(15) {
		t.Error("expected default receiver to accept any channel")
	}
}

func TestAcceptsFiltersChannel(t *testing.T) {
	r := &Receiver{FilterChannel: 3}
	if r.Accepts(2) {
		t.Error("expected channel 2 to be rejected")
	}
	if !r.Accepts(3) {
		t.Error("expected channel 3 to be accepted")
	}
}

func TestEnqueueAppliesOffset(t *testing.T) {
	r := New()
	q := midi.NewEventQueue()
	r.Enqueue(q, midi.NoteOnEvent{BaseEvent: midi.BaseEvent{EventChannel: 0}, NoteNumber: 60, Velocity: 100}, 128)

	events := q.GetAllEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].SampleOffset() != 128 {
		t.Errorf("expected offset 128, got %d", events[0].SampleOffset())
	}
}

func TestEnqueueDropsFilteredChannel(t *testing.T) {
	r := &Receiver{FilterChannel: 5}
	q := midi.NewEventQueue()
	r.Enqueue(q, midi.NoteOnEvent{BaseEvent: midi.BaseEvent{EventChannel: 1}}, 0)
	if !q.IsEmpty() {
		t.Error("expected filtered-out event to be dropped")
	}
}
