// Package layout implements the Swapper: the hazard-free double-buffered
// RCU store (§4.1) that hands a frozen Layout snapshot to the audio
// thread once per callback while the control thread and the event
// dispatcher mutate a separate pending copy.
package layout

import (
	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/mixer"
	"github.com/giada-core/engine/pkg/plugin"
	"github.com/giada-core/engine/pkg/quantizer"
)

// Kernel mirrors the audio driver's fixed block geometry (§4's "Kernel"
// member of Layout): read-only to everything except the driver-binding
// code that constructs the engine, so the mixer and channel buffers
// always agree on shape without the audio thread ever calling back into
// the driver mid-callback.
type Kernel struct {
	SampleRate int
	BlockSize  int
	Channels   int
}

// MidiIn is the MIDI-in thread's filter/learn state (§4's "MidiIn"
// member): which input channel to accept messages from (0 = omni) and
// whether a MIDI-learn capture is currently armed engine-wide.
type MidiIn struct {
	FilterChannel int // 0 = omni, 1-16 = that channel only
	LearnArmed    bool
}

// Layout is the unit of atomic publish (§3, §4.1): every piece of state
// the audio thread touches in one callback lives in exactly one Layout
// value, reachable from a single pointer the Swapper hands out.
type Layout struct {
	Clock    clock.Clock
	Mixer    mixer.Mixer
	Kernel   Kernel
	Recorder mixer.Recorder
	MidiIn   MidiIn

	Channels []*channel.Data
	Actions  *action.Store

	// SeqQuantizer is the sequencer's own pending-trigger table (§4.7:
	// "one Quantizer exists per channel and one for the sequencer"),
	// e.g. for a quantized REWIND or a quantized transport start.
	SeqQuantizer *quantizer.Quantizer
}

// New returns a Layout with the three pre-assigned internal channels
// (§3 invariant: MASTER_OUT, MASTER_IN, PREVIEW at fixed IDs) and empty
// Clock/Mixer/Actions state, sized to the given driver geometry.
func New(sampleRate, blockSize, numChannels int) *Layout {
	l := &Layout{
		Clock:        clock.New(sampleRate),
		Mixer:        mixer.New(),
		Kernel:       Kernel{SampleRate: sampleRate, BlockSize: blockSize, Channels: numChannels},
		Actions:      action.NewStore(),
		SeqQuantizer: quantizer.New(),
	}

	masterOut := channel.New(channel.IDMasterOut, channel.TypeMaster, 0)
	masterOut.Buffer = channel.NewBuffer(numChannels, blockSize)
	masterIn := channel.New(channel.IDMasterIn, channel.TypeMaster, 0)
	masterIn.Buffer = channel.NewBuffer(numChannels, blockSize)
	preview := channel.New(channel.IDPreview, channel.TypePreview, 0)
	preview.Buffer = channel.NewBuffer(numChannels, blockSize)

	l.Channels = []*channel.Data{masterOut, masterIn, preview}
	return l
}

// Clone deep-copies every control-thread-owned field (§4.1: "after swap
// the writer must resynchronize its pending slot (clone from live)").
// Channels are cloned via channel.Data.Clone so plug-in instances are
// re-homed through host rather than aliased; Actions are cloned via the
// store's own deep-copy. Clock/Mixer/Kernel/MidiIn are plain values,
// copied by the surrounding struct copy.
func (l *Layout) Clone(host plugin.Host) *Layout {
	cp := *l

	cp.Channels = make([]*channel.Data, len(l.Channels))
	for i, c := range l.Channels {
		cp.Channels[i] = c.Clone(host)
	}

	cp.Actions = l.Actions.Clone()

	cp.Mixer.MasterOutPlugins = host.ClonePlugins(l.Mixer.MasterOutPlugins)
	cp.Mixer.MasterInPlugins = host.ClonePlugins(l.Mixer.MasterInPlugins)

	return &cp
}

// ChannelByID returns the channel with the given ID, or nil.
func (l *Layout) ChannelByID(id uint32) *channel.Data {
	for _, c := range l.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// MasterOut, MasterIn and Preview return the three pre-assigned internal
// channels, or nil if this Layout was built without New (e.g. a bare
// struct literal in a test).
func (l *Layout) MasterOut() *channel.Data { return l.ChannelByID(channel.IDMasterOut) }
func (l *Layout) MasterIn() *channel.Data  { return l.ChannelByID(channel.IDMasterIn) }
func (l *Layout) Preview() *channel.Data   { return l.ChannelByID(channel.IDPreview) }
