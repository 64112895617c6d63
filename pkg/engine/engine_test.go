package engine

import (
	"testing"

	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/config"
	"github.com/giada-core/engine/pkg/event"
	"github.com/giada-core/engine/pkg/mididriver"
	"github.com/giada-core/engine/pkg/midi"
	"github.com/giada-core/engine/pkg/plugin"
	"github.com/giada-core/engine/pkg/wave"
)

type fakeHost struct{}

func (fakeHost) ProcessStack(buf [][]float32, refs []plugin.Ref, midiBuf *midi.EventQueue) {}
func (fakeHost) ClonePlugins(refs []plugin.Ref) []plugin.Ref                               { return nil }
func (fakeHost) FreePlugins(refs []plugin.Ref)                                             {}

type fakeLoader struct{}

func (fakeLoader) CreateFromFile(path string, targetRate, quality int) (*wave.Wave, error) {
	return &wave.Wave{Path: path, Rate: targetRate, Channels: 2, Frames: [][]float32{{0, 0}, {0, 0}}}, nil
}
func (fakeLoader) CreateEmpty(frames, channels, rate int, name string) *wave.Wave { return nil }
func (fakeLoader) CreateFromWave(src *wave.Wave, a, b int) *wave.Wave             { return nil }
func (fakeLoader) Write(w *wave.Wave, path string) error                         { return nil }

type fakeMidiDriver struct {
	sent []uint32
}

func (f *fakeMidiDriver) Send(raw uint32) error { f.sent = append(f.sent, raw); return nil }
func (f *fakeMidiDriver) SendLightning(mask uint32, entry mididriver.MapEntry) error { return nil }

func uiEvent() event.Event { return event.Event{Type: event.TypeNone} }

func newTestEngine() *Engine {
	cfg := config.Default()
	cfg.SampleRate = 48000
	cfg.BufferSize = 64
	return New(cfg, fakeHost{}, fakeLoader{}, nil)
}

func TestProcessRunsWithoutChannels(t *testing.T) {
	e := newTestEngine()
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	in := [][]float32{make([]float32, 64), make([]float32, 64)}

	e.Process(out, in, 64)
}

func TestProcessAdvancesClock(t *testing.T) {
	e := newTestEngine()
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	in := [][]float32{make([]float32, 64), make([]float32, 64)}

	// The clock only moves while the transport runs.
	e.swapper.GetRT().Layout().Clock.Status = clock.StatusRunning

	before := e.swapper.GetRT().Layout().Clock.CurrentFrame
	e.Process(out, in, 64)
	after := e.swapper.GetRT().Layout().Clock.CurrentFrame
	if after-before != 64 {
		t.Errorf("clock advanced by %d frames, want 64", after-before)
	}
}

func TestSavePatchAndLoadPatchRoundTrip(t *testing.T) {
	e := newTestEngine()
	id := e.Channels.Create(channel.TypeSample, 0)
	if err := e.Channels.SetName(id, "kick"); err != nil {
		t.Fatalf("SetName returned error: %v", err)
	}

	p := e.SavePatch("")
	if p.ID == "" {
		t.Fatal("expected a non-empty patch ID")
	}

	e2 := newTestEngine()
	if err := e2.LoadPatch(p, fakeLoader{}); err != nil {
		t.Fatalf("LoadPatch returned error: %v", err)
	}

	got := e2.swapper.GetRT().Layout().ChannelByID(id)
	if got == nil || got.Name != "kick" {
		t.Errorf("expected channel %d named kick to survive load, got %+v", id, got)
	}
}

func TestPollMidiSendFailuresStartsAtZeroAndResets(t *testing.T) {
	e := newTestEngine()
	if n := e.PollMidiSendFailures(); n != 0 {
		t.Errorf("expected 0 failures on a fresh engine, got %d", n)
	}
	e.midiSendFailures = 2
	if n := e.PollMidiSendFailures(); n != 2 {
		t.Errorf("expected 2 failures, got %d", n)
	}
	if n := e.PollMidiSendFailures(); n != 0 {
		t.Errorf("expected PollMidiSendFailures to reset the counter, got %d", n)
	}
}

func TestPushUIEventAndPushMidiEvent(t *testing.T) {
	e := newTestEngine()
	if !e.PushUIEvent(uiEvent()) {
		t.Error("expected PushUIEvent to succeed on an empty queue")
	}
	if !e.PushMidiEvent(uiEvent()) {
		t.Error("expected PushMidiEvent to succeed on an empty queue")
	}
}
