package sampleplayer

import (
	"testing"

	"github.com/giada-core/engine/pkg/chantype"
	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/wave"
)

type fakeCursor struct {
	tracker    clock.Frame
	rewinding  bool
	offset     clock.Frame
	playStatus chantype.PlayStatus
}

func (c *fakeCursor) Tracker() clock.Frame     { return c.tracker }
func (c *fakeCursor) SetTracker(f clock.Frame) { c.tracker = f }
func (c *fakeCursor) AddTracker(delta int) int64 {
	c.tracker += clock.Frame(delta)
	return int64(c.tracker)
}
func (c *fakeCursor) Rewinding() bool                          { return c.rewinding }
func (c *fakeCursor) SetRewinding(v bool)                      { c.rewinding = v }
func (c *fakeCursor) Offset() clock.Frame                      { return c.offset }
func (c *fakeCursor) SetOffset(f clock.Frame)                  { c.offset = f }
func (c *fakeCursor) PlayStatus() chantype.PlayStatus          { return c.playStatus }
func (c *fakeCursor) SetPlayStatus(v chantype.PlayStatus)      { c.playStatus = v }

func testWave(n int) *wave.Wave {
	frames := make([]float32, n)
	for i := range frames {
		frames[i] = float32(i)
	}
	return &wave.Wave{ID: 1, Channels: 1, Frames: [][]float32{frames}}
}

func TestClamp(t *testing.T) {
	p := New()
	p.Begin, p.End = 10, 100
	c := &fakeCursor{tracker: 0}
	p.Clamp(c)
	if c.tracker != 10 {
		t.Errorf("expected clamp to begin=10, got %d", c.tracker)
	}

	c.tracker = 200
	p.Clamp(c)
	if c.tracker != 99 {
		t.Errorf("expected clamp to end-1=99, got %d", c.tracker)
	}
}

func TestOnLastFrameSingleBasicStops(t *testing.T) {
	p := New()
	p.Mode = chantype.ModeSingleBasic
	c := &fakeCursor{playStatus: chantype.PlayPlay}
	if cont := p.OnLastFrame(c, true); cont {
		t.Error("expected SINGLE_BASIC to not continue")
	}
	if c.playStatus != chantype.PlayOff {
		t.Errorf("expected OFF after single-shot end, got %v", c.playStatus)
	}
}

func TestOnLastFrameLoopBasicContinues(t *testing.T) {
	p := New()
	p.Mode = chantype.ModeLoopBasic
	c := &fakeCursor{playStatus: chantype.PlayPlay}
	if cont := p.OnLastFrame(c, true); !cont {
		t.Error("expected LOOP_BASIC to continue")
	}
}

func TestOnLastFrameLoopBasicStopsWhenNotRunning(t *testing.T) {
	p := New()
	p.Mode = chantype.ModeLoopBasic
	c := &fakeCursor{playStatus: chantype.PlayPlay}
	if cont := p.OnLastFrame(c, false); cont {
		t.Error("expected LOOP_BASIC to behave as one-shot when transport stopped")
	}
	if c.playStatus != chantype.PlayOff {
		t.Errorf("expected OFF, got %v", c.playStatus)
	}
}

func TestOnLastFrameLoopOnceWaits(t *testing.T) {
	p := New()
	p.Mode = chantype.ModeLoopOnce
	c := &fakeCursor{playStatus: chantype.PlayPlay}
	if cont := p.OnLastFrame(c, true); cont {
		t.Error("expected LOOP_ONCE to not continue this pass")
	}
	if c.playStatus != chantype.PlayWait {
		t.Errorf("expected WAIT after LOOP_ONCE end, got %v", c.playStatus)
	}
}

func TestRenderAdvancesTracker(t *testing.T) {
	p := New()
	p.Begin, p.End = 0, 10
	p.Wave = testWave(10)
	c := &fakeCursor{tracker: 0, playStatus: chantype.PlayPlay}

	out := [][]float32{make([]float32, 4)}
	p.Render(c, out, true)

	if c.tracker == 0 {
		t.Error("expected tracker to advance")
	}
}

func TestRenderNoopWhenNotPlaying(t *testing.T) {
	p := New()
	p.Wave = testWave(10)
	c := &fakeCursor{playStatus: chantype.PlayOff}
	out := [][]float32{make([]float32, 4)}
	p.Render(c, out, true)
	if c.tracker != 0 {
		t.Error("expected no tracker movement while not PLAY")
	}
}

func TestRewindImmediate(t *testing.T) {
	p := New()
	p.Begin = 5
	c := &fakeCursor{tracker: 50, rewinding: true}
	p.Rewind(c, true)
	if c.tracker != 5 || c.rewinding {
		t.Errorf("expected immediate rewind to begin=5 with rewinding cleared, got tracker=%d rewinding=%v", c.tracker, c.rewinding)
	}
}

func TestRewindDeferred(t *testing.T) {
	p := New()
	c := &fakeCursor{tracker: 50}
	p.Rewind(c, false)
	if !c.rewinding {
		t.Error("expected deferred rewind to set rewinding flag")
	}
}
