// Package wave defines the immutable-after-construction audio buffer
// owned by the Layout store (§3) and the pitch-aware reader sample
// players use to pull frames out of it (§4.3).
package wave

import (
	"sync"

	"github.com/giada-core/engine/pkg/dsp/interpolation"
)

// ID identifies a Wave. 0 means "none".
type ID uint32

// Wave is an owned, immutable-after-construction audio buffer. Channels
// reference it through their sample player's *Wave pointer; there is no
// separate wave store, so a Wave stays alive exactly while some sample
// player points to it (§3 invariant).
type Wave struct {
	ID       ID
	Path     string
	Bits     int
	Rate     int
	Channels int
	Frames   [][]float32 // Frames[channel][sample]

	IsLogical bool // synthesized in memory, not yet persisted
	IsEdited  bool

	mu sync.RWMutex
}

// NumFrames returns the number of frames (samples per channel).
func (w *Wave) NumFrames() int {
	if w == nil || len(w.Frames) == 0 {
		return 0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.Frames[0])
}

// Clone makes a fresh Wave with identical sample content but no shared
// backing arrays, so edits to the clone never mutate the original (§4.11
// cloning rule, §8 round-trip property).
func (w *Wave) Clone(newID ID) *Wave {
	w.mu.RLock()
	defer w.mu.RUnlock()

	frames := make([][]float32, len(w.Frames))
	for ch := range w.Frames {
		frames[ch] = make([]float32, len(w.Frames[ch]))
		copy(frames[ch], w.Frames[ch])
	}

	return &Wave{
		ID:        newID,
		Path:      w.Path,
		Bits:      w.Bits,
		Rate:      w.Rate,
		Channels:  w.Channels,
		Frames:    frames,
		IsLogical: w.IsLogical,
		IsEdited:  w.IsEdited,
	}
}

// MixIn adds src's samples into w starting at frame offset, growing w if
// necessary, and marks w logical and edited — the overdub operation of
// §4.9 scenario 5. mixerhandler.Manager.FinalizeInputRec does not call
// it: finalize only materializes fresh Waves.
func (w *Wave) MixIn(src [][]float32, offset int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.Frames) == 0 {
		w.Frames = make([][]float32, len(src))
	}

	for ch := range src {
		if ch >= len(w.Frames) {
			w.Frames = append(w.Frames, make([]float32, offset))
		}
		need := offset + len(src[ch])
		if need > len(w.Frames[ch]) {
			grown := make([]float32, need)
			copy(grown, w.Frames[ch])
			w.Frames[ch] = grown
		}
		for i, s := range src[ch] {
			w.Frames[ch][offset+i] += s
		}
	}
	w.IsLogical = true
	w.IsEdited = true
}

// NewEmpty creates a logical (in-memory) Wave of the given length, with
// name stored as its Path (e.g. TAKE-n.wav, §4.9 scenario 5). Input-
// recording finalize obtains its Waves from waveio.Loader.CreateEmpty
// instead.
func NewEmpty(id ID, frames, channels, rate int, name string) *Wave {
	f := make([][]float32, channels)
	for ch := range f {
		f[ch] = make([]float32, frames)
	}
	return &Wave{
		ID:        id,
		Path:      name,
		Bits:      32,
		Rate:      rate,
		Channels:  channels,
		Frames:    f,
		IsLogical: true,
	}
}

// Reader is a pitch-aware cursor over a Wave. Given a pitch p it fills k
// frames of per-channel output from floor(k*p) input frames,
// interpolating when p != 1.0 (§4.3).
type Reader struct {
	Quality ResampleQuality
}

// ResampleQuality selects which interpolation algorithm Fill uses.
type ResampleQuality int

const (
	QualityLinear ResampleQuality = iota
	QualityCubic
)

// Fill reads from w starting at the integer frame position pos, pitched
// by p, into out (one slice per channel, already sized to the desired
// output length). It returns the number of input frames consumed. Reads
// never go beyond end-1 (over-reads stop at the wave's last readable
// frame, per §4.3's wave-reader contract).
func (r Reader) Fill(w *Wave, pos int, end int, p float64, out [][]float32) (consumed int) {
	if w == nil || len(out) == 0 || len(out[0]) == 0 {
		return 0
	}
	numOut := len(out[0])

	w.mu.RLock()
	defer w.mu.RUnlock()

	for ch := range out {
		if ch >= len(w.Frames) {
			continue
		}
		src := w.Frames[ch]
		srcEnd := end
		if srcEnd > len(src) {
			srcEnd = len(src)
		}

		for i := 0; i < numOut; i++ {
			srcPosF := float64(pos) + float64(i)*p
			srcIdx := int(srcPosF)
			frac := float32(srcPosF - float64(srcIdx))

			if srcIdx >= srcEnd-1 {
				// Over-read stops at end-1: hold the last sample.
				if srcEnd-1 >= 0 && srcEnd-1 < len(src) {
					out[ch][i] = src[srcEnd-1]
				}
				continue
			}

			switch r.Quality {
			case QualityCubic:
				y0 := sampleAt(src, srcIdx-1)
				y1 := src[srcIdx]
				y2 := src[srcIdx+1]
				y3 := sampleAt(src, srcIdx+2)
				out[ch][i] = interpolation.Cubic(y0, y1, y2, y3, frac)
			default:
				if frac == 0 {
					out[ch][i] = src[srcIdx]
				} else {
					out[ch][i] = interpolation.Linear(src[srcIdx], src[srcIdx+1], frac)
				}
			}
		}
	}

	consumed = int(float64(numOut) * p)
	if consumed < 0 {
		consumed = 0
	}
	return consumed
}

func sampleAt(s []float32, idx int) float32 {
	if idx < 0 || idx >= len(s) {
		return 0
	}
	return s[idx]
}
