// Package dispatch implements the event pipeline's non-realtime worker
// (§4.6): the periodic cycle that drains the two SPSC queues, reacts to
// channel-directed events on a clone of the channel vector, applies
// transport commands to the sequencer, and publishes via the Swapper.
package dispatch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/event"
	"github.com/giada-core/engine/pkg/layout"
	"github.com/giada-core/engine/pkg/logging"
	"github.com/giada-core/engine/pkg/sequencer"
)

// Dispatcher owns the periodic worker goroutine (§4.6: "a dedicated
// worker thread runs at a period strictly shorter than the audio
// block"). Grounded on golang.org/x/sync/errgroup for the
// one-supervised-periodic-goroutine-with-clean-shutdown shape (pulled
// transitively by several ebiten-based repos in the reference pack).
type Dispatcher struct {
	ui       *Queue
	midiIn   *Queue
	swapper  *layout.Swapper
	cfg      channel.Config
	interval time.Duration

	group  *errgroup.Group
	cancel context.CancelFunc
}

// New returns a Dispatcher wired to the given queues, Swapper, and
// channel.React configuration. interval must be strictly shorter than
// the audio driver's block period (§4.6). The plug-in host used to
// clone plug-in instances on every publish is the one the Swapper was
// constructed with; the dispatcher never touches plug-ins directly.
func New(ui, midiIn *Queue, swapper *layout.Swapper, cfg channel.Config, interval time.Duration) *Dispatcher {
	return &Dispatcher{ui: ui, midiIn: midiIn, swapper: swapper, cfg: cfg, interval: interval}
}

// Start launches the worker goroutine. Calling Start twice without an
// intervening Stop is a caller error (mirrors the single-writer
// discipline documented on layout.Swapper).
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	g, gctx := errgroup.WithContext(ctx)
	d.group = g

	g.Go(func() error {
		d.run(gctx)
		return nil
	})
}

// Stop cancels the worker and waits for it to exit.
func (d *Dispatcher) Stop() error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()
	return d.group.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	log := logging.For("dispatcher")
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	var buf []event.Event
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			buf = buf[:0]
			buf = d.ui.Drain(buf)
			buf = d.midiIn.Drain(buf)
			if len(buf) == 0 {
				continue
			}
			log.WithField("events", len(buf)).Debug("dispatch cycle")
			d.cycle(buf)
		}
	}
}

// cycle implements one dispatch pass (§4.6): react to every
// channel-directed event on the pending Layout's channels (already a
// fresh clone of live, resynchronized by the previous Swap), apply
// transport commands to the sequencer's clock, then publish HARD.
func (d *Dispatcher) cycle(events []event.Event) {
	l := d.swapper.Get()

	for _, c := range l.Channels {
		channel.React(c, events, l.Clock, d.cfg)
	}

	sequencer.React(&l.Clock, events)

	d.swapper.Swap(layout.SwapHard)
}
