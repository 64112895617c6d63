package patch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/layout"
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

func TestFromLayoutToLayoutRoundTripsChannelFields(t *testing.T) {
	l := layout.New(48000, 512, 2)
	id := l.Channels[0].ID // MASTER_OUT
	l.ChannelByID(id).Volume = 0.5
	l.ChannelByID(id).Name = "Master"

	p := FromLayout(l, "session-1")
	if p.ID != "session-1" {
		t.Errorf("ID = %q, want %q", p.ID, "session-1")
	}

	l2, err := p.ToLayout(48000, 512, 2, fakeLoader{}, fakeHost{})
	if err != nil {
		t.Fatalf("ToLayout returned error: %v", err)
	}

	got := l2.ChannelByID(id)
	if got == nil {
		t.Fatal("expected master-out channel to survive round trip")
	}
	if got.Volume != 0.5 || got.Name != "Master" {
		t.Errorf("got Volume=%v Name=%q, want Volume=0.5 Name=\"Master\"", got.Volume, got.Name)
	}
}

func TestActionsRoundTripWithSiblingLinks(t *testing.T) {
	l := layout.New(48000, 512, 2)
	sampleID := uint32(10)
	l.Channels = append(l.Channels, channel.New(sampleID, channel.TypeSample, 0))

	onID := l.Actions.Record(sampleID, 100, midi.NoteOnEvent{NoteNumber: 60, Velocity: 100})
	offID := l.Actions.Record(sampleID, 200, midi.NoteOffEvent{NoteNumber: 60})
	l.Actions.Link(onID, offID)

	p := FromLayout(l, "session-2")
	l2, err := p.ToLayout(48000, 512, 2, fakeLoader{}, fakeHost{})
	if err != nil {
		t.Fatalf("ToLayout returned error: %v", err)
	}

	var frames []int64
	var linked bool
	l2.Actions.ForEach(func(a *action.Action) {
		frames = append(frames, int64(a.Frame))
		if a.Frame == 100 && a.NextID != 0 {
			linked = true
		}
	})
	if len(frames) != 2 {
		t.Fatalf("expected 2 actions after round trip, got %d", len(frames))
	}
	if !linked {
		t.Error("expected the NOTE_ON action's sibling link to survive the round trip")
	}
}

func TestSaveLoadRoundTripsJSON(t *testing.T) {
	l := layout.New(48000, 512, 2)
	p := FromLayout(l, "session-3")

	dir := t.TempDir()
	path := filepath.Join(dir, "patch.json")
	if err := Save(p, path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.ID != "session-3" {
		t.Errorf("loaded ID = %q, want %q", loaded.ID, "session-3")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected patch file to exist: %v", err)
	}
}
