// Package patch implements the persisted Layout snapshot (§6 "Patch
// (persisted state)"): a JSON document holding every value-typed field
// of a Layout, plus the re-hydration logic that turns one back into a
// live Layout via the plug-in host and wave loader.
package patch

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"

	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/chantype"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/layout"
	"github.com/giada-core/engine/pkg/plugin"
	"github.com/giada-core/engine/pkg/waveio"

	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/channel/midicontroller"
)

// Patch is the on-disk snapshot (§6). ID is a session identifier
// assigned once at creation and kept stable across saves, grounded on
// github.com/google/uuid the same way the rest of the pack uses it for
// opaque stable identifiers (unlike channel/action IDs, which must stay
// compact and frame-map-ordered — see pkg/mixerhandler and pkg/action's
// monotonic counters).
type Patch struct {
	ID         string         `json:"id"`
	SampleRate int            `json:"sample_rate"`
	Clock      ClockPatch     `json:"clock"`
	Mixer      MixerPatch     `json:"mixer"`
	Channels   []ChannelPatch `json:"channels"`
	Actions    []ActionPatch  `json:"actions"`
}

type ClockPatch struct {
	Bpm      float64 `json:"bpm"`
	Beats    int     `json:"beats"`
	Bars     int     `json:"bars"`
	Quantize int     `json:"quantize"`
}

type MixerPatch struct {
	MasterOutVolume float64 `json:"master_out_volume"`
	InToOut         bool    `json:"in_to_out"`
}

type SamplePlayerPatch struct {
	Pitch         float64     `json:"pitch"`
	Mode          int         `json:"mode"`
	Shift         clock.Frame `json:"shift"`
	Begin         clock.Frame `json:"begin"`
	End           clock.Frame `json:"end"`
	VelocityAsVol bool        `json:"velocity_as_vol"`
	WavePath      string      `json:"wave_path,omitempty"`
	WaveRate      int         `json:"wave_rate,omitempty"`
}

type AudioReceiverPatch struct {
	InputMonitor      bool `json:"input_monitor"`
	OverdubProtection bool `json:"overdub_protection"`
}

type MidiControllerPatch struct {
	Action    int  `json:"action"`
	Note      uint8 `json:"note"`
	Momentary bool `json:"momentary"`
}

type MidiSenderPatch struct {
	FilterChannel uint8 `json:"filter_channel"`
	Enabled       bool  `json:"enabled"`
}

// ChannelPatch is the value-typed projection of channel.Data (§3's
// field table, "Field-by-field mapping in §3; only value-typed fields
// are serialized" — State/Buffer are runtime scratch and never
// persisted, Plugins are re-hydrated via the host from PluginRefs).
type ChannelPatch struct {
	ID       uint32 `json:"id"`
	Type     int    `json:"type"`
	ColumnID uint32 `json:"column_id"`

	Volume float64 `json:"volume"`
	Pan    float64 `json:"pan"`

	Mute        bool `json:"mute"`
	Solo        bool `json:"solo"`
	Armed       bool `json:"armed"`
	ReadActions bool `json:"read_actions"`

	Key    rune   `json:"key"`
	Name   string `json:"name"`
	Height int    `json:"height"`

	SamplePlayer   *SamplePlayerPatch   `json:"sample_player,omitempty"`
	AudioReceiver  *AudioReceiverPatch  `json:"audio_receiver,omitempty"`
	MidiController *MidiControllerPatch `json:"midi_controller,omitempty"`
	MidiSender     *MidiSenderPatch     `json:"midi_sender,omitempty"`

	PluginRefIDs []uint32 `json:"plugin_ref_ids,omitempty"`
}

// ActionPatch is the value-typed projection of action.Action.
type ActionPatch struct {
	ID        uint32 `json:"id"`
	ChannelID uint32 `json:"channel_id"`
	Frame     int64  `json:"frame"`
	Event     Event  `json:"event"`
	PrevID    uint32 `json:"prev_id,omitempty"`
	NextID    uint32 `json:"next_id,omitempty"`
}

// New returns an empty Patch with a freshly assigned session ID.
func New() *Patch {
	return &Patch{ID: uuid.NewString()}
}

// FromLayout projects l's value-typed fields into a new Patch, keeping
// id stable across saves of the same session.
func FromLayout(l *layout.Layout, id string) *Patch {
	p := &Patch{
		ID:         id,
		SampleRate: l.Kernel.SampleRate,
		Clock: ClockPatch{
			Bpm: l.Clock.Bpm, Beats: l.Clock.Beats, Bars: l.Clock.Bars, Quantize: l.Clock.Quantize,
		},
		Mixer: MixerPatch{
			MasterOutVolume: l.Mixer.MasterOutVolume, InToOut: l.Mixer.InToOut,
		},
	}

	for _, c := range l.Channels {
		p.Channels = append(p.Channels, channelToPatch(c))
	}

	l.Actions.ForEach(func(a *action.Action) {
		p.Actions = append(p.Actions, ActionPatch{
			ID: uint32(a.ID), ChannelID: a.ChannelID, Frame: int64(a.Frame),
			Event: FromEvent(a.Event), PrevID: uint32(a.PrevID), NextID: uint32(a.NextID),
		})
	})

	return p
}

func channelToPatch(c *channel.Data) ChannelPatch {
	cp := ChannelPatch{
		ID: c.ID, Type: int(c.Type), ColumnID: c.ColumnID,
		Volume: c.Volume, Pan: c.Pan,
		Mute: c.Mute, Solo: c.Solo, Armed: c.Armed, ReadActions: c.ReadActions,
		Key: c.Key, Name: c.Name, Height: c.Height,
	}

	if c.SamplePlayer != nil {
		sp := &SamplePlayerPatch{
			Pitch: c.SamplePlayer.Pitch, Mode: int(c.SamplePlayer.Mode),
			Shift: c.SamplePlayer.Shift, Begin: c.SamplePlayer.Begin, End: c.SamplePlayer.End,
			VelocityAsVol: c.SamplePlayer.VelocityAsVol,
		}
		if c.SamplePlayer.Wave != nil {
			sp.WavePath = c.SamplePlayer.Wave.Path
			sp.WaveRate = c.SamplePlayer.Wave.Rate
		}
		cp.SamplePlayer = sp
	}
	if c.AudioReceiver != nil {
		cp.AudioReceiver = &AudioReceiverPatch{
			InputMonitor: c.AudioReceiver.InputMonitor, OverdubProtection: c.AudioReceiver.OverdubProtection,
		}
	}
	if c.MidiController != nil {
		cp.MidiController = &MidiControllerPatch{
			Action: int(c.MidiController.Action), Note: c.MidiController.Note, Momentary: c.MidiController.Momentary,
		}
	}
	if c.MidiSender != nil {
		cp.MidiSender = &MidiSenderPatch{
			FilterChannel: c.MidiSender.FilterChannel, Enabled: c.MidiSender.Enabled,
		}
	}

	for _, ref := range c.Plugins {
		cp.PluginRefIDs = append(cp.PluginRefIDs, ref.ID)
	}

	return cp
}

// ToLayout re-hydrates a fresh Layout from p: channels rebuilt via
// channel.New, Waves re-loaded via loader, plug-ins re-instantiated via
// host (by ID lookup — host is expected to resolve a Ref's ID to its
// Processor the same way it did before save; a host that can't finds
// the ID simply yields a Ref with no Processor, skipped by
// plugin.Host.ProcessStack). begin/end/shift are rescaled by
// file_rate/current_rate when a wave's native rate differs from
// currentSampleRate (§6: "scale begin/end/shift by
// file_rate / current_rate").
func (p *Patch) ToLayout(currentSampleRate, blockSize, numChannels int, loader waveio.Loader, host plugin.Host) (*layout.Layout, error) {
	l := layout.New(currentSampleRate, blockSize, numChannels)
	l.Clock.Bpm, l.Clock.Beats, l.Clock.Bars, l.Clock.Quantize = p.Clock.Bpm, p.Clock.Beats, p.Clock.Bars, p.Clock.Quantize
	l.Mixer.MasterOutVolume, l.Mixer.InToOut = p.Mixer.MasterOutVolume, p.Mixer.InToOut

	l.Channels = l.Channels[:0]
	for _, cp := range p.Channels {
		c, err := patchToChannel(cp, currentSampleRate, numChannels, blockSize, loader, host)
		if err != nil {
			return nil, err
		}
		l.Channels = append(l.Channels, c)
	}

	for _, ap := range p.Actions {
		l.Actions.Record(ap.ChannelID, clock.Frame(ap.Frame), ToEvent(ap.Event))
	}
	relinkActions(l.Actions, p.Actions)

	return l, nil
}

func patchToChannel(cp ChannelPatch, currentSampleRate, numChannels, blockSize int, loader waveio.Loader, host plugin.Host) (*channel.Data, error) {
	c := channel.New(cp.ID, chantype.Type(cp.Type), cp.ColumnID)
	c.Buffer = channel.NewBuffer(numChannels, blockSize)
	c.Volume, c.Pan = cp.Volume, cp.Pan
	c.Mute, c.Solo, c.Armed, c.ReadActions = cp.Mute, cp.Solo, cp.Armed, cp.ReadActions
	c.Key, c.Name, c.Height = cp.Key, cp.Name, cp.Height

	if cp.SamplePlayer != nil && c.SamplePlayer != nil {
		sp := cp.SamplePlayer
		c.SamplePlayer.Pitch = sp.Pitch
		c.SamplePlayer.Mode = chantype.SampleMode(sp.Mode)
		c.SamplePlayer.VelocityAsVol = sp.VelocityAsVol
		c.SamplePlayer.Shift, c.SamplePlayer.Begin, c.SamplePlayer.End = sp.Shift, sp.Begin, sp.End

		if sp.WavePath != "" {
			w, err := loader.CreateFromFile(sp.WavePath, currentSampleRate, 0)
			if err != nil {
				return nil, err
			}
			c.SamplePlayer.Wave = w
			if sp.WaveRate > 0 && sp.WaveRate != currentSampleRate {
				ratio := float64(sp.WaveRate) / float64(currentSampleRate)
				c.SamplePlayer.Shift = clock.Frame(float64(sp.Shift) * ratio)
				c.SamplePlayer.Begin = clock.Frame(float64(sp.Begin) * ratio)
				c.SamplePlayer.End = clock.Frame(float64(sp.End) * ratio)
			}
		}
	}
	if cp.AudioReceiver != nil && c.AudioReceiver != nil {
		c.AudioReceiver.InputMonitor = cp.AudioReceiver.InputMonitor
		c.AudioReceiver.OverdubProtection = cp.AudioReceiver.OverdubProtection
	}
	if cp.MidiController != nil && c.MidiController != nil {
		c.MidiController.Action = midicontroller.Action(cp.MidiController.Action)
		c.MidiController.Note = cp.MidiController.Note
		c.MidiController.Momentary = cp.MidiController.Momentary
	}
	if cp.MidiSender != nil && c.MidiSender != nil {
		c.MidiSender.FilterChannel = cp.MidiSender.FilterChannel
		c.MidiSender.Enabled = cp.MidiSender.Enabled
	}

	for _, id := range cp.PluginRefIDs {
		c.Plugins = append(c.Plugins, plugin.Ref{ID: id})
	}
	if host != nil && len(c.Plugins) > 0 {
		c.Plugins = host.ClonePlugins(c.Plugins)
	}

	return c, nil
}

// relinkActions re-resolves the prev/next sibling pointers a
// field-typed round trip cannot preserve directly: Store.Record assigns
// each re-inserted Action a fresh ID, so the patch's old IDs are mapped
// to new ones positionally (ForEach's frame-then-insertion order always
// matches the append order Record produced them in during FromLayout,
// §4.10: "After any structural mutation, re-resolve non-owning
// prev/next pointers by scanning the map").
func relinkActions(store *action.Store, patches []ActionPatch) {
	all := make([]*action.Action, 0, len(patches))
	store.ForEach(func(a *action.Action) { all = append(all, a) })

	oldToNew := make(map[uint32]action.ID, len(patches))
	for i, ap := range patches {
		if i < len(all) {
			oldToNew[ap.ID] = all[i].ID
		}
	}

	for i, ap := range patches {
		if i >= len(all) {
			break
		}
		if next, ok := oldToNew[ap.NextID]; ok && ap.NextID != 0 {
			store.Link(all[i].ID, next)
		}
	}
}

// Save writes p to path as indented JSON.
func Save(p *Patch, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads and decodes a Patch from path.
func Load(path string) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
