// Package engine wires every other package into the single facade the
// hosting binary drives: a Swapper-backed Layout, the dispatcher worker,
// the mixer handler, and the audio/MIDI driver callbacks (§2, §6).
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/giada-core/engine/pkg/audiodriver"
	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/config"
	"github.com/giada-core/engine/pkg/dispatch"
	"github.com/giada-core/engine/pkg/event"
	"github.com/giada-core/engine/pkg/layout"
	"github.com/giada-core/engine/pkg/mididriver"
	"github.com/giada-core/engine/pkg/midi"
	"github.com/giada-core/engine/pkg/mixer"
	"github.com/giada-core/engine/pkg/mixerhandler"
	"github.com/giada-core/engine/pkg/patch"
	"github.com/giada-core/engine/pkg/plugin"
	"github.com/giada-core/engine/pkg/sequencer"
	"github.com/giada-core/engine/pkg/waveio"
)

// Engine is the top-level facade (§2 data flow, §5 thread model): it
// owns the Swapper, the event queues, the dispatcher worker, and the
// channel manager, and exposes exactly the entry points the audio and
// MIDI drivers call into.
type Engine struct {
	cfg     config.Conf
	swapper *layout.Swapper
	host    plugin.Host
	mdDrv   mididriver.Driver

	uiQueue   *dispatch.Queue
	midiQueue *dispatch.Queue
	dispatcher *dispatch.Dispatcher

	Channels *mixerhandler.Manager

	midiSendFailures int32 // incremented on the audio thread, read/reset by PollMidiSendFailures
}

// New builds an Engine from cfg, sized for numChannels of driver audio.
// host processes plug-in stacks; loader decodes/encodes waves; mdDrv, if
// non-nil, receives outbound MIDI (sender/lighter traffic); a nil mdDrv
// means outbound MIDI is silently dropped, matching §7's "no driver
// configured" degraded-but-running posture rather than failing startup.
func New(cfg config.Conf, host plugin.Host, loader waveio.Loader, mdDrv mididriver.Driver) *Engine {
	initial := layout.New(cfg.SampleRate, cfg.BufferSize, 2)
	sw := layout.NewSwapper(initial, host)

	maxEvents := cfg.MaxDispatcherEvents
	if maxEvents <= 0 {
		maxEvents = 256
	}

	e := &Engine{
		cfg:       cfg,
		swapper:   sw,
		host:      host,
		mdDrv:     mdDrv,
		uiQueue:   dispatch.NewQueue(maxEvents),
		midiQueue: dispatch.NewQueue(maxEvents),
		Channels:  mixerhandler.New(sw, host, loader),
	}

	chanCfg := channel.Config{TreatRecsAsLoops: cfg.TreatRecsAsLoops, ChansStopOnSeqHalt: cfg.ChansStopOnSeqHalt}
	e.dispatcher = dispatch.New(e.uiQueue, e.midiQueue, sw, chanCfg, dispatcherInterval(cfg.BufferSize, cfg.SampleRate))

	return e
}

// dispatcherInterval picks a period strictly shorter than one audio
// block's wall-clock duration (§4.6, §5), halved for headroom.
func dispatcherInterval(blockSize, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	blockDur := time.Duration(float64(blockSize) / float64(sampleRate) * float64(time.Second))
	if blockDur <= 0 {
		return time.Millisecond
	}
	return blockDur / 2
}

// Start launches the dispatcher worker.
func (e *Engine) Start(ctx context.Context) { e.dispatcher.Start(ctx) }

// Stop halts the dispatcher worker, waiting for it to exit.
func (e *Engine) Stop() error { return e.dispatcher.Stop() }

// PushUIEvent enqueues a control-surface/UI-originated event for the
// next dispatch cycle.
func (e *Engine) PushUIEvent(ev event.Event) bool { return e.uiQueue.Push(ev) }

// PushMidiEvent enqueues an inbound MIDI event (built by the MIDI
// driver's callback) for the next dispatch cycle.
func (e *Engine) PushMidiEvent(ev event.Event) bool { return e.midiQueue.Push(ev) }

// Process is installed as the audiodriver.ProcessFunc (§6): the audio
// thread's entire per-block entry point. It never calls through the
// dispatcher. It is not allocation- or lock-free: sequencer.Advance
// reads due actions under action.Store's RWMutex and builds a fresh
// event slice every block, and the quantizers and MIDI event queues it
// reaches take their own mutexes.
func (e *Engine) Process(out, in [][]float32, blockSize int) {
	rt := e.swapper.GetRT()
	l := rt.Layout()
	defer rt.Release()

	blockStart := l.Clock.CurrentFrame
	seqEvents := sequencer.Advance(&l.Clock, blockSize, l.Actions)

	masterOut := l.MasterOut()
	masterIn := l.MasterIn()
	if masterOut != nil {
		masterOut.Buffer.Clear()
	}
	if masterIn != nil {
		masterIn.Buffer.Clear()
	}

	hasSolos := mixer.HasSolos(l.Channels)
	running := l.Clock.Status == clock.StatusRunning

	for _, c := range l.Channels {
		if c.IsInternal() {
			continue
		}
		c.Buffer.Clear()
		channel.Advance(c, seqEvents, l.Clock, channel.Config{TreatRecsAsLoops: e.cfg.TreatRecsAsLoops, ChansStopOnSeqHalt: e.cfg.ChansStopOnSeqHalt}, blockStart, blockSize)
		audible := mixer.Audible(c, hasSolos)
		dest := out
		if masterOut != nil {
			dest = masterOut.Buffer.Audio
		}
		channel.Render(c, dest, in, running, audible, e.host)
		e.flushOutboundMidi(c)
	}

	l.Mixer.Render(e.host, masterOut, masterIn, out, in)

	if l.Recorder.Recording {
		l.Recorder.Accumulate(in, blockSize)
	}
}

// flushOutboundMidi drains c's Buffer.MIDI queue (populated by
// channel.Advance's reactSender/reactLighter calls, §4.5) and transmits
// each event via the MIDI driver, encoding it to a raw 3-byte message
// (§6: "send(raw_u32) — transmit a 3-byte MIDI message"). Runs on the
// audio thread, so a Send failure is only counted, never logged here;
// PollMidiSendFailures lets the control thread notice and log it.
func (e *Engine) flushOutboundMidi(c *channel.Data) {
	if e.mdDrv == nil || c.Buffer == nil || c.Buffer.MIDI == nil {
		return
	}
	events := c.Buffer.MIDI.GetAllEvents()
	if len(events) == 0 {
		return
	}
	c.Buffer.MIDI.Clear()

	for _, ev := range events {
		status, d1, d2, ok := midi.Encode3(ev)
		if !ok {
			continue
		}
		if err := e.mdDrv.Send(midi.Pack3(status, d1, d2)); err != nil {
			atomic.AddInt32(&e.midiSendFailures, 1)
		}
	}
}

// PollMidiSendFailures returns the number of outbound MIDI sends that
// have failed since the last call, resetting the counter. Intended for
// a dispatcher-driven or UI polling loop to log via pkg/logging, since
// the audio thread that observes the failures cannot log them itself.
func (e *Engine) PollMidiSendFailures() int32 {
	return atomic.SwapInt32(&e.midiSendFailures, 0)
}

// SavePatch projects the live Layout into a patch.Patch. id should be
// the stable session ID returned by a prior Load, or "" to mint a new
// one (patch.New).
func (e *Engine) SavePatch(id string) *patch.Patch {
	l := e.swapper.GetRT().Layout()
	if id == "" {
		id = patch.New().ID
	}
	return patch.FromLayout(l, id)
}

// LoadPatch re-hydrates p into a fresh Layout and publishes it,
// replacing the engine's entire state (§6 Patch load path).
func (e *Engine) LoadPatch(p *patch.Patch, loader waveio.Loader) error {
	l, err := p.ToLayout(e.cfg.SampleRate, e.cfg.BufferSize, 2, loader, e.host)
	if err != nil {
		return err
	}

	pending := e.swapper.Get()
	*pending = *l
	e.swapper.Swap(layout.SwapHard)
	return nil
}

var _ audiodriver.ProcessFunc = (*Engine)(nil).Process
