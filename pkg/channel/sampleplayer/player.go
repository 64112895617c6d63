// Package sampleplayer implements the sample channel's render loop
// (§4.3): a pitch-aware reader over an owned Wave, with begin/end/shift,
// loop modes, and rewind/stop/on-last-frame transitions.
//
// It depends only on chantype, clock, and wave — never on channel —
// so channel.Data can embed a *Player without an import cycle.
package sampleplayer

import (
	"github.com/giada-core/engine/pkg/chantype"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/wave"
)

// Cursor is the slice of channel.State that the sample player needs to
// read and mutate. channel.State implements it.
type Cursor interface {
	Tracker() clock.Frame
	SetTracker(clock.Frame)
	AddTracker(delta int) int64
	Rewinding() bool
	SetRewinding(bool)
	Offset() clock.Frame
	SetOffset(clock.Frame)
	PlayStatus() chantype.PlayStatus
	SetPlayStatus(chantype.PlayStatus)
}

// Player is the value-typed sample-player sub-record (§3). Pitch,
// Mode, Shift/Begin/End and VelocityAsVol are config mutated by the
// control thread; Wave is a back-reference (not owned) resolved by the
// mixer handler whenever the channel's wave changes.
type Player struct {
	Pitch            float64 // [0.1, 4.0], default 1.0
	Mode             chantype.SampleMode
	Shift            clock.Frame
	Begin            clock.Frame
	End              clock.Frame
	VelocityAsVol    bool
	Wave             *wave.Wave
	QuantizerPending bool

	reader  wave.Reader
	scratch [][]float32 // reused by sliceFrom; grown only on a channel-count change
}

// New returns a Player with sane defaults (pitch 1.0, SINGLE_BASIC).
func New() *Player {
	return &Player{Pitch: 1.0, Mode: chantype.ModeSingleBasic}
}

// Clamp enforces begin <= tracker <= end (§3 invariant), called at the
// top of every render while PLAY.
func (p *Player) Clamp(c Cursor) {
	t := c.Tracker()
	if t < p.Begin {
		c.SetTracker(p.Begin)
	} else if t >= p.End {
		c.SetTracker(p.End - 1)
	}
}

// OnLastFrame is invoked by Render when tracker reaches End. It applies
// the end-of-sample play_status transition from §4.2's table and
// reports whether playback should continue (looping) so the caller can
// render the remainder of the block from Begin. running is the
// clock's transport state: a loop mode with the transport stopped
// behaves like a one-shot (§4.2: "(loop ∧ ¬running) -> OFF").
func (p *Player) OnLastFrame(c Cursor, running bool) (continues bool) {
	switch p.Mode {
	case chantype.ModeLoopOnce, chantype.ModeLoopOnceBar:
		c.SetPlayStatus(chantype.PlayWait)
		return false
	case chantype.ModeLoopBasic, chantype.ModeLoopRepeat:
		if !running {
			c.SetPlayStatus(chantype.PlayOff)
			return false
		}
		return true
	default: // SINGLE_* (not ENDLESS stays Playing forever until killed elsewhere)
		if p.Mode == chantype.ModeSingleEndless {
			return true
		}
		c.SetPlayStatus(chantype.PlayOff)
		return false
	}
}

// Render implements §4.3's algorithm. out is the destination scratch
// buffer (channel count already matching p.Wave); it is appended to
// starting at Offset, not overwritten, since audio receiver input may
// already have been mixed in (§4.4 runs audio receiver before render in
// the fixed sub-component order, §4.2 tie-break note).
func (p *Player) Render(c Cursor, out [][]float32, running bool) {
	if p.Wave == nil || c.PlayStatus() != chantype.PlayPlay {
		return
	}

	p.Clamp(c)

	offset := int(c.Offset())
	if offset < 0 || offset >= len(out[0]) {
		offset = 0
	}

	if c.Rewinding() {
		// Read from tracker to End into the buffer starting at 0.
		scratch := p.sliceFrom(out, 0)
		p.reader.Fill(p.Wave, int(c.Tracker()), int(p.End), p.Pitch, scratch)
		c.SetTracker(p.Begin)
		c.SetRewinding(false)
	}

	remaining := p.sliceFrom(out, offset)
	remainingLen := len(remaining[0])
	used := p.reader.Fill(p.Wave, int(c.Tracker()), int(p.End), p.Pitch, remaining)
	c.AddTracker(used)

	if c.Tracker() >= p.End {
		continues := p.OnLastFrame(c, running)
		c.SetTracker(p.Begin)
		if continues {
			// Render the remainder of this block from Begin.
			consumedOut := used
			if consumedOut < remainingLen {
				tail := p.sliceFrom(remaining, consumedOut)
				p.reader.Fill(p.Wave, int(p.Begin), int(p.End), p.Pitch, tail)
			}
		}
	}

	c.SetOffset(0)
}

// Rewind restarts playback from Begin: when immediate, it sets tracker
// to Begin at once; otherwise it marks Rewinding so Render performs the
// read-to-end-then-wrap sequence described in §4.3 step 3. Used by
// SINGLE_RETRIG (§4.2) and by quantized BAR/FIRST_BEAT loop restarts.
func (p *Player) Rewind(c Cursor, immediate bool) {
	if immediate {
		c.SetTracker(p.Begin)
		c.SetRewinding(false)
	} else {
		c.SetRewinding(true)
	}
}

// sliceFrom returns a view of bufs starting at offset in each channel,
// reusing p.scratch's backing array instead of allocating one per
// call. Each slot is read from bufs before being overwritten, so
// re-slicing a view previously returned by sliceFrom (as Render does
// for its rewind and tail passes) is safe even though it shares
// storage with this call's result.
func (p *Player) sliceFrom(bufs [][]float32, offset int) [][]float32 {
	if cap(p.scratch) < len(bufs) {
		p.scratch = make([][]float32, len(bufs))
	}
	out := p.scratch[:len(bufs)]
	for i := range bufs {
		if offset >= len(bufs[i]) {
			out[i] = bufs[i][:0]
			continue
		}
		out[i] = bufs[i][offset:]
	}
	return out
}
