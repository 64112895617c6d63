package action

import (
	"testing"

	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/midi"
)

func noteOn(note uint8) midi.Event {
	return midi.NoteOnEvent{BaseEvent: midi.BaseEvent{}, NoteNumber: note, Velocity: 100}
}

func noteOff(note uint8) midi.Event {
	return midi.NoteOffEvent{BaseEvent: midi.BaseEvent{}, NoteNumber: note, Velocity: 0}
}

func TestRecordAndGet(t *testing.T) {
	s := NewStore()
	id := s.Record(1, 1000, noteOn(60))
	got := s.Get(id)
	if got == nil {
		t.Fatal("expected action")
	}
	if got.ChannelID != 1 || got.Frame != 1000 {
		t.Errorf("unexpected action: %+v", got)
	}
}

func TestGetActionsOnFrame(t *testing.T) {
	s := NewStore()
	s.Record(1, 500, noteOn(60))
	s.Record(1, 500, noteOn(61))
	s.Record(1, 600, noteOn(62))

	onFrame := s.GetActionsOnFrame(500)
	if len(onFrame) != 2 {
		t.Fatalf("expected 2 actions at frame 500, got %d", len(onFrame))
	}
}

// TestActionDeleteRepair mirrors spec.md §8 scenario 6.
func TestActionDeleteRepair(t *testing.T) {
	s := NewStore()
	onID := s.Record(1, clock.Frame(1000), noteOn(60))
	offID := s.Record(1, clock.Frame(2000), noteOff(60))
	s.Link(onID, offID)

	s.DeleteAction(offID)

	on := s.Get(onID)
	if on == nil {
		t.Fatal("expected NOTE_ON to survive")
	}
	if on.NextID != 0 {
		t.Errorf("expected NOTE_ON.NextID reset to 0, got %d", on.NextID)
	}
	if s.CountForChannel(1) != 1 {
		t.Errorf("expected has_actions semantics: exactly one remaining action, got %d", s.CountForChannel(1))
	}

	var count int
	s.ForEach(func(a *Action) { count++ })
	if count != 1 {
		t.Errorf("expected ForEach to yield exactly one action, got %d", count)
	}
}

func TestNextIDPrevIDSymmetryInvariant(t *testing.T) {
	s := NewStore()
	onID := s.Record(1, 1000, noteOn(60))
	offID := s.Record(1, 2000, noteOff(60))
	s.Link(onID, offID)

	on := s.Get(onID)
	off := s.Get(offID)
	if on.NextID != offID {
		t.Fatal("expected on.NextID == offID")
	}
	if off.PrevID != on.ID {
		t.Errorf("invariant violated: off.PrevID (%d) != on.ID (%d)", off.PrevID, on.ID)
	}
}

func TestClearChannelResolvesSiblings(t *testing.T) {
	s := NewStore()
	onID := s.Record(1, 1000, noteOn(60))
	offID := s.Record(1, 2000, noteOff(60))
	s.Link(onID, offID)
	s.Record(2, 1500, noteOn(70)) // different channel, survives

	s.ClearChannel(1)

	if s.CountForChannel(1) != 0 {
		t.Error("expected channel 1 actions cleared")
	}
	if s.CountForChannel(2) != 1 {
		t.Error("expected channel 2 actions to survive")
	}
}

func TestUpdateKeyFrames(t *testing.T) {
	s := NewStore()
	id := s.Record(1, 1000, noteOn(60))
	s.UpdateKeyFrames(func(f clock.Frame) clock.Frame { return f * 2 })

	a := s.Get(id)
	if a.Frame != 2000 {
		t.Errorf("expected rescaled frame 2000, got %d", a.Frame)
	}
	onFrame := s.GetActionsOnFrame(2000)
	if len(onFrame) != 1 {
		t.Errorf("expected 1 action at rescaled frame, got %d", len(onFrame))
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStore()
	id := s.Record(1, 1000, noteOn(60))
	clone := s.Clone()

	clone.DeleteAction(id)

	if s.Get(id) == nil {
		t.Error("deleting from clone should not affect original")
	}
	if clone.Get(id) != nil {
		t.Error("expected clone to have deleted the action")
	}
}

func TestRecordRoundTripIdempotence(t *testing.T) {
	// record(a); delete(a.id) restores the ActionMap to its pre-record
	// state (§8 round-trip property).
	s := NewStore()
	before := s.CountForChannel(1)
	id := s.Record(1, 1000, noteOn(60))
	s.DeleteAction(id)
	after := s.CountForChannel(1)
	if before != after {
		t.Errorf("expected count to return to %d, got %d", before, after)
	}
}
