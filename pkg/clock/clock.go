// Package clock tracks bar/beat/bpm/quantize state and the engine's
// current frame position. It is a value type embedded in Layout; the
// audio thread advances it once per callback, the control thread
// mutates bpm/quantize/bars through the pending Layout.
package clock

// Status is the transport's running state.
type Status int

const (
	StatusStopped Status = iota
	StatusRunning
)

// Frame is an integer sample index at the working sample rate.
type Frame int64

// Clock holds the tempo/meter state and the current playback position.
// All fields are plain values: cloned with the rest of Layout on every
// Swapper publish.
type Clock struct {
	SampleRate int
	Bpm        float64
	Beats      int // beats per bar
	Bars       int
	Quantize   int // 0 = off, else subdivision of a beat

	Status       Status
	CurrentFrame Frame
}

// New returns a Clock with sane defaults (120bpm, 4/4, one bar, no
// quantize).
func New(sampleRate int) Clock {
	return Clock{
		SampleRate: sampleRate,
		Bpm:        120,
		Beats:      4,
		Bars:       1,
		Quantize:   0,
		Status:     StatusStopped,
	}
}

// FramesInBeat is the number of frames in one beat at the current bpm.
func (c Clock) FramesInBeat() Frame {
	return Frame(float64(c.SampleRate) * 60.0 / c.Bpm)
}

// FramesInBar is the number of frames in one bar.
func (c Clock) FramesInBar() Frame {
	return c.FramesInBeat() * Frame(c.Beats)
}

// FramesInLoop is the number of frames in the whole sequencer loop
// (all bars).
func (c Clock) FramesInLoop() Frame {
	return c.FramesInBar() * Frame(c.Bars)
}

// FramesInSeq is an alias for FramesInLoop, named to match the REWIND
// boundary terminology of §4.8.
func (c Clock) FramesInSeq() Frame {
	return c.FramesInLoop()
}

// CanQuantize reports whether quantization is currently enabled and the
// clock is running — the condition gating the OFF→(schedule Q_PLAY)
// transition of §4.2.
func (c Clock) CanQuantize() bool {
	return c.Quantize > 0 && c.Status == StatusRunning
}

// QuantizeFrame rounds f to the nearest multiple of framesInBeat/quantize,
// ties rounding up to the next grid point (§8 boundary property).
func (c Clock) QuantizeFrame(f Frame) Frame {
	if c.Quantize <= 0 {
		return f
	}
	step := c.FramesInBeat() / Frame(c.Quantize)
	if step <= 0 {
		return f
	}
	rem := f % step
	if rem == 0 {
		return f
	}
	if 2*rem >= step {
		return f + (step - rem)
	}
	return f - rem
}

// AdvanceResult is what Advance reports after moving the clock forward
// by numFrames (wrapping at the loop boundary): whether a bar boundary,
// the first beat of the sequence, or a rewind occurred within
// [CurrentFrame, CurrentFrame+numFrames) — the sequencer uses these to
// emit its block events (§4.8).
type AdvanceResult struct {
	HitFirstBeat bool
	HitBar       bool
	HitRewind    bool
	// FrameAtRewind is the offset within the block where the rewind
	// occurred, valid only if HitRewind.
	FrameAtRewind Frame
}

// Advance is called once per audio block by the audio thread. It never
// allocates and never blocks.
func (c *Clock) Advance(numFrames int) AdvanceResult {
	var res AdvanceResult

	if c.Status != StatusRunning {
		return res
	}

	framesInBar := c.FramesInBar()
	framesInLoop := c.FramesInLoop()
	if framesInBar <= 0 || framesInLoop <= 0 {
		return res
	}

	start := c.CurrentFrame
	end := start + Frame(numFrames)

	if start == 0 {
		res.HitFirstBeat = true
	}

	for boundary := (start/framesInBar + 1) * framesInBar; boundary < end; boundary += framesInBar {
		res.HitBar = true
	}

	if end >= framesInLoop {
		res.HitRewind = true
		res.FrameAtRewind = framesInLoop - start
		c.CurrentFrame = (end - framesInLoop) % framesInLoop
		if c.CurrentFrame == 0 {
			res.HitFirstBeat = true
		}
	} else {
		c.CurrentFrame = end
	}

	return res
}
