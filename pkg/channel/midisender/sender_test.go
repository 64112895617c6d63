package midisender

import (
	"testing"

	"github.com/giada-core/engine/pkg/midi"
)

func TestPrepareDisabledReturnsNil(t *testing.T) {
	s := New()
	if s.Prepare(midi.NoteOnEvent{}) != nil {
		t.Error("expected disabled sender to drop events")
	}
}

func TestPrepareRewritesChannel(t *testing.T) {
	s := &Sender{FilterChannel: 7, Enabled: true}
	out := s.Prepare(midi.NoteOnEvent{BaseEvent: midi.BaseEvent{EventChannel: 0}, NoteNumber: 64})
	if out == nil {
		t.Fatal("expected enabled sender to forward event")
	}
	if out.Channel() != 7 {
		t.Errorf("expected channel 7, got %d", out.Channel())
	}
}

func TestAllNotesOffDisabled(t *testing.T) {
	s := New()
	if s.AllNotesOff() != nil {
		t.Error("expected disabled sender to produce no panic message")
	}
}

func TestAllNotesOffEnabled(t *testing.T) {
	s := &Sender{FilterChannel: 2, Enabled: true}
	e := s.AllNotesOff()
	if e == nil {
		t.Fatal("expected panic message")
	}
	if e.Type() != midi.EventTypeAllNotesOff {
		t.Errorf("expected AllNotesOff event, got %v", e.Type())
	}
	if e.Channel() != 2 {
		t.Errorf("expected channel 2, got %d", e.Channel())
	}
}
