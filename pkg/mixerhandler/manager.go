// Package mixerhandler implements the non-realtime channel manager
// (§4.11): channel lifecycle, wave loading, and the per-channel value
// setters the UI/control thread calls. Every mutation lands on the
// Swapper's pending Layout and is followed by exactly one Swap, never
// touching the live Layout directly.
package mixerhandler

import (
	"sync"

	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/chantype"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/giadaerr"
	"github.com/giada-core/engine/pkg/layout"
	"github.com/giada-core/engine/pkg/plugin"
	"github.com/giada-core/engine/pkg/waveio"
)

// Manager is the control thread's entry point for everything that
// changes channel structure or per-channel config. It shares the
// Swapper with the dispatcher; both only ever mutate Get()'s pending
// Layout (§4.1, §4.11: "All mutations: mutate pending Layout via a
// helper, then call swap").
type Manager struct {
	swapper *layout.Swapper
	host    plugin.Host
	loader  waveio.Loader

	mu     sync.Mutex
	nextID uint32
}

// New returns a Manager driving swapper's pending Layout. host clones
// plug-in instances for Clone; loader decodes/encodes waves for
// LoadChannel and FinalizeInputRec.
func New(swapper *layout.Swapper, host plugin.Host, loader waveio.Loader) *Manager {
	return &Manager{swapper: swapper, host: host, loader: loader, nextID: chantype.IDPreview + 1}
}

func (m *Manager) nextChannelID() uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return id
}

// ChannelNotFound returns the giadaerr.StateRejected error every
// lookup-by-ID operation below returns when id isn't in the Layout.
func ChannelNotFound(id uint32) error {
	return giadaerr.NewStateRejected("channel not found")
}

// Create appends a new channel of the given type/column to the pending
// Layout and publishes HARD, returning the new channel's ID.
func (m *Manager) Create(typ channel.Type, columnID uint32) uint32 {
	id := m.nextChannelID()
	l := m.swapper.Get()
	c := channel.New(id, typ, columnID)
	c.Buffer = channel.NewBuffer(l.Kernel.Channels, l.Kernel.BlockSize)
	l.Channels = append(l.Channels, c)
	m.swapper.Swap(layout.SwapHard)
	return id
}

// Clone deep-copies channel id — fields and plug-in instances via
// host, recorded actions by re-recording each one under the new ID
// (their sibling links are not copied) — into a new channel appended
// to the Layout (§4.11 cloning rules), returning the clone's ID.
func (m *Manager) Clone(id uint32) (uint32, error) {
	l := m.swapper.Get()
	src := l.ChannelByID(id)
	if src == nil {
		return 0, ChannelNotFound(id)
	}

	newID := m.nextChannelID()
	cp := src.Clone(m.host)
	cp.ID = newID
	cp.State = channel.NewState()
	cp.Buffer = channel.NewBuffer(l.Kernel.Channels, l.Kernel.BlockSize)
	l.Channels = append(l.Channels, cp)

	l.Actions.ForEachChannel(id, func(a *action.Action) {
		l.Actions.Record(newID, a.Frame, a.Event)
	})

	m.swapper.Swap(layout.SwapHard)
	return newID, nil
}

// Delete removes channel id from the pending Layout and publishes
// HARD. Internal channels (MASTER_OUT, MASTER_IN, PREVIEW) can never be
// deleted (§3 invariant).
func (m *Manager) Delete(id uint32) error {
	if chantype.IsInternal(id) {
		return giadaerr.NewStateRejected("internal channels cannot be deleted")
	}

	l := m.swapper.Get()
	idx := -1
	for i, c := range l.Channels {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ChannelNotFound(id)
	}

	l.Channels = append(l.Channels[:idx], l.Channels[idx+1:]...)
	l.Actions.ClearChannel(id)
	m.swapper.Swap(layout.SwapHard)
	return nil
}

// LoadChannel decodes path via the wave loader and swaps it in as
// channel id's sample_player.Wave, then publishes HARD. The previously
// referenced Wave, if any, is simply dropped: a Wave is reachable only
// while some sample player's Wave field points to it (§3 invariant), so
// once this channel's pointer is overwritten the old Wave is collected
// like any other unreferenced Go value unless another channel (e.g. a
// clone) still points to it.
func (m *Manager) LoadChannel(id uint32, path string, targetRate, quality int) error {
	l := m.swapper.Get()
	c := l.ChannelByID(id)
	if c == nil {
		return ChannelNotFound(id)
	}
	if c.SamplePlayer == nil {
		return giadaerr.NewStateRejected("channel has no sample player")
	}

	w, err := m.loader.CreateFromFile(path, targetRate, quality)
	if err != nil {
		return err
	}

	c.SamplePlayer.Wave = w
	c.SamplePlayer.Begin = 0
	c.SamplePlayer.End = clock.Frame(w.NumFrames())
	c.State.SetPlayStatus(chantype.PlayOff)
	m.swapper.Swap(layout.SwapHard)
	return nil
}

// FreeChannel clears channel id's sample_player.Wave reference and
// publishes HARD, reverting the channel to EMPTY.
func (m *Manager) FreeChannel(id uint32) error {
	l := m.swapper.Get()
	c := l.ChannelByID(id)
	if c == nil {
		return ChannelNotFound(id)
	}
	if c.SamplePlayer == nil {
		return giadaerr.NewStateRejected("channel has no sample player")
	}

	c.SamplePlayer.Wave = nil
	c.State.SetPlayStatus(chantype.PlayEmpty)
	m.swapper.Swap(layout.SwapHard)
	return nil
}

// SetName sets channel id's display name and publishes SOFT (a
// value-only change, §4.1).
func (m *Manager) SetName(id uint32, name string) error {
	return m.withChannel(id, func(c *channel.Data) { c.Name = name })
}

// SetHeight sets channel id's UI row height and publishes SOFT.
func (m *Manager) SetHeight(id uint32, height int) error {
	return m.withChannel(id, func(c *channel.Data) { c.Height = height })
}

// SetOverdubProtection toggles channel id's audio_receiver overdub
// protection and publishes SOFT.
func (m *Manager) SetOverdubProtection(id uint32, on bool) error {
	return m.withChannel(id, func(c *channel.Data) {
		if c.AudioReceiver != nil {
			c.AudioReceiver.OverdubProtection = on
		}
	})
}

// SetInputMonitor toggles channel id's audio_receiver input monitoring
// and publishes SOFT.
func (m *Manager) SetInputMonitor(id uint32, on bool) error {
	return m.withChannel(id, func(c *channel.Data) {
		if c.AudioReceiver != nil {
			c.AudioReceiver.InputMonitor = on
		}
	})
}

// SetSampleMode sets channel id's sample_player loop/one-shot mode and
// publishes SOFT.
func (m *Manager) SetSampleMode(id uint32, mode chantype.SampleMode) error {
	return m.withChannel(id, func(c *channel.Data) {
		if c.SamplePlayer != nil {
			c.SamplePlayer.Mode = mode
		}
	})
}

// UpdateSoloCount sets channel id's solo flag. mixer.HasSolos/Audible
// are computed live from the channel vector on every render, so there
// is no cached counter to maintain; this still publishes SOFT so
// listeners (e.g. midilighter's play/rec feedback) observe the new
// solo set on the next callback.
func (m *Manager) UpdateSoloCount(id uint32, solo bool) error {
	return m.withChannel(id, func(c *channel.Data) { c.Solo = solo })
}

func (m *Manager) withChannel(id uint32, fn func(*channel.Data)) error {
	l := m.swapper.Get()
	c := l.ChannelByID(id)
	if c == nil {
		return ChannelNotFound(id)
	}
	fn(c)
	m.swapper.Swap(layout.SwapSoft)
	return nil
}

// ArmInputRec arms the Layout's input recorder for one sequencer loop
// and publishes SOFT.
func (m *Manager) ArmInputRec(numChannels, loopFrames int) {
	l := m.swapper.Get()
	l.Recorder.Arm(numChannels, loopFrames)
	m.swapper.Swap(layout.SwapSoft)
}

// FinalizeInputRec walks every armed, recordable channel (audio
// receiver present, not overdub-protected once it already holds a
// Wave) and materializes its Wave from the Layout's mixer.Recorder
// buffer, then clears the recorder (§4.9, §4.11). Publishes HARD since
// Wave references change.
func (m *Manager) FinalizeInputRec(sampleRate int, name string) error {
	l := m.swapper.Get()
	if len(l.Recorder.Buffer) == 0 {
		return nil
	}
	frames := len(l.Recorder.Buffer[0])
	channels := len(l.Recorder.Buffer)

	for _, c := range l.Channels {
		if c.IsInternal() || c.SamplePlayer == nil || c.AudioReceiver == nil || !c.Armed {
			continue
		}
		if c.AudioReceiver.OverdubProtection && c.SamplePlayer.Wave != nil {
			continue
		}

		w := m.loader.CreateEmpty(frames, channels, sampleRate, name)
		for ch := range w.Frames {
			if ch >= len(l.Recorder.Buffer) {
				break
			}
			copy(w.Frames[ch], l.Recorder.Buffer[ch])
		}

		c.SamplePlayer.Wave = w
		c.SamplePlayer.Begin = 0
		c.SamplePlayer.End = clock.Frame(w.NumFrames())
	}

	l.Recorder.Stop()
	l.Recorder.Buffer = nil
	m.swapper.Swap(layout.SwapHard)
	return nil
}
