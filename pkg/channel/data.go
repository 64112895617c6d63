package channel

import (
	"github.com/giada-core/engine/pkg/action"
	"github.com/giada-core/engine/pkg/channel/audioreceiver"
	"github.com/giada-core/engine/pkg/channel/midicontroller"
	"github.com/giada-core/engine/pkg/channel/midilearner"
	"github.com/giada-core/engine/pkg/channel/midilighter"
	"github.com/giada-core/engine/pkg/channel/midireceiver"
	"github.com/giada-core/engine/pkg/channel/midisender"
	"github.com/giada-core/engine/pkg/channel/sampleplayer"
	"github.com/giada-core/engine/pkg/framework/param"
	"github.com/giada-core/engine/pkg/plugin"
	"github.com/giada-core/engine/pkg/quantizer"
)

// ActionRecorder is the per-channel action-recording config shared by
// SAMPLE and MIDI channels (§3's `sample_action_recorder` /
// `midi_action_recorder` sub-records). The actual recorded Actions
// live in the Layout's single shared action.Store, keyed by channel
// ID; this sub-record only carries the channel-local recording mode.
type ActionRecorder struct {
	IsRecordingAction bool
}

// Data is the central per-channel entity (§3). Which optional
// sub-records are non-nil is entirely determined by Type (§9 REDESIGN
// FLAGS: "tagged variant keyed on ChannelType" replacing
// std::optional).
type Data struct {
	ID       uint32
	Type     Type
	ColumnID uint32

	Volume        float64
	VolumeInternal float64 // velocity-drives-volume scratch (§3)
	Pan           float64  // [0,1], 0.5 = center

	Mute        bool
	Solo        bool
	Armed       bool
	ReadActions bool

	Key    rune
	Name   string
	Height int

	State  *State  // shared by pointer across every clone (§3)
	Buffer *Buffer // shared by pointer across every clone (§3)

	SamplePlayer   *sampleplayer.Player    // SAMPLE, PREVIEW
	AudioReceiver  *audioreceiver.Receiver // SAMPLE, PREVIEW
	MidiController *midicontroller.Controller
	MidiReceiver   *midireceiver.Receiver // MIDI
	MidiSender     *midisender.Sender
	SampleActionRecorder *ActionRecorder // SAMPLE, PREVIEW
	MidiActionRecorder   *ActionRecorder // MIDI

	MidiLearner *midilearner.Learner // always present
	MidiLighter *midilighter.Lighter // always present

	Plugins []plugin.Ref // stack order matters (§3)

	quantizer      *quantizer.Quantizer
	volumeSmoother *param.Smoother // de-zippers Volume changes on render (§4.9); shared across dispatch clones like State
}

// New builds a Data of the given type with the sub-records §3's
// invariant table requires for that type populated, and every other
// sub-record left nil.
func New(id uint32, typ Type, columnID uint32) *Data {
	d := &Data{
		ID:          id,
		Type:        typ,
		ColumnID:    columnID,
		Volume:      1.0,
		Pan:         0.5,
		Key:         0,
		State:       NewState(),
		MidiLearner: midilearner.New(),
		MidiLighter: midilighter.New(),
		quantizer:   quantizer.New(),
	}

	switch typ {
	case TypeSample, TypePreview:
		d.SamplePlayer = sampleplayer.New()
		d.AudioReceiver = audioreceiver.New()
		d.SampleActionRecorder = &ActionRecorder{}
		if typ == TypeSample {
			d.State.SetPlayStatus(PlayEmpty)
		}
	case TypeMIDI:
		d.MidiController = midicontroller.New()
		d.MidiSender = midisender.New()
		d.MidiReceiver = midireceiver.New()
		d.MidiActionRecorder = &ActionRecorder{}
	}

	return d
}

// Quantizer returns the channel's own pending-trigger table (§4.7),
// separate from the sequencer's.
func (d *Data) Quantizer() *quantizer.Quantizer { return d.quantizer }

// IsInternal reports whether this channel is one of the three
// pre-assigned internal channels.
func (d *Data) IsInternal() bool { return IsInternal(d.ID) }

// HasActions reports whether the shared action store currently holds
// any Action belonging to this channel. Computed lazily from the
// store rather than tracked as a mutable counter on Data, avoiding the
// drift bug the original engine's incremental counter was prone to
// (SPEC_FULL.md supplemented fix).
func (d *Data) HasActions(store *action.Store) bool {
	return store.CountForChannel(d.ID) > 0
}

// Clone deep-copies every control-thread-owned field. State and
// Buffer are shared by pointer (§3: "back-pointer ... kept in a
// separate heap-allocated record ... so clones share state by
// pointer"). Plugins are cloned via host so instances are not
// aliased between the original and the clone (§4.11).
func (d *Data) Clone(host plugin.Host) *Data {
	cp := *d
	cp.Plugins = host.ClonePlugins(d.Plugins)

	if d.SamplePlayer != nil {
		p := *d.SamplePlayer
		cp.SamplePlayer = &p
	}
	if d.AudioReceiver != nil {
		r := *d.AudioReceiver
		cp.AudioReceiver = &r
	}
	if d.MidiController != nil {
		c := *d.MidiController
		cp.MidiController = &c
	}
	if d.MidiReceiver != nil {
		r := *d.MidiReceiver
		cp.MidiReceiver = &r
	}
	if d.MidiSender != nil {
		s := *d.MidiSender
		cp.MidiSender = &s
	}
	if d.SampleActionRecorder != nil {
		r := *d.SampleActionRecorder
		cp.SampleActionRecorder = &r
	}
	if d.MidiActionRecorder != nil {
		r := *d.MidiActionRecorder
		cp.MidiActionRecorder = &r
	}
	ml := *d.MidiLearner
	cp.MidiLearner = &ml
	cp.MidiLighter = d.MidiLighter.Clone()
	// quantizer is intentionally NOT reset here: the dispatcher clones
	// the channel vector every cycle (§4.6), and a pending Trigger must
	// survive across cycles until its grid point arrives. It is shared
	// by pointer like State and Buffer, not deep-copied.

	return &cp
}
