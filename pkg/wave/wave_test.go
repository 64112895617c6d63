package wave

import "testing"

func makeWave(id ID, frames int) *Wave {
	f := make([]float32, frames)
	for i := range f {
		f[i] = float32(i)
	}
	return &Wave{ID: id, Channels: 1, Rate: 44100, Frames: [][]float32{f}}
}

func TestFillPitch1ConsumesExactlyK(t *testing.T) {
	w := makeWave(1, 100)
	r := Reader{}
	out := [][]float32{make([]float32, 10)}
	consumed := r.Fill(w, 0, 100, 1.0, out)
	if consumed != 10 {
		t.Errorf("expected 10 consumed, got %d", consumed)
	}
	if out[0][0] != 0 || out[0][9] != 9 {
		t.Errorf("unexpected samples: %v", out[0])
	}
}

func TestFillPitch2Consumes2K(t *testing.T) {
	w := makeWave(1, 100)
	r := Reader{}
	out := [][]float32{make([]float32, 10)}
	consumed := r.Fill(w, 0, 100, 2.0, out)
	if consumed != 20 {
		t.Errorf("expected 20 consumed, got %d", consumed)
	}
}

func TestFillStopsAtEndMinus1(t *testing.T) {
	w := makeWave(1, 20)
	r := Reader{}
	out := [][]float32{make([]float32, 10)}
	r.Fill(w, 15, 20, 1.0, out)
	// positions 15..24 requested but source only has up to 19; should
	// hold the last sample (19) rather than read out of bounds.
	if out[0][9] != 19 {
		t.Errorf("expected hold at last sample 19, got %v", out[0][9])
	}
}

func TestWaveClonesIndependently(t *testing.T) {
	w := makeWave(1, 10)
	clone := w.Clone(2)
	clone.Frames[0][0] = 999
	if w.Frames[0][0] == 999 {
		t.Error("mutating clone mutated original")
	}
	if clone.ID != 2 {
		t.Errorf("expected clone ID 2, got %d", clone.ID)
	}
}

func TestMixInGrowsAndMarksLogical(t *testing.T) {
	w := makeWave(1, 5)
	src := [][]float32{{1, 1, 1}}
	w.MixIn(src, 4)
	if w.NumFrames() != 7 {
		t.Errorf("expected growth to 7 frames, got %d", w.NumFrames())
	}
	if !w.IsLogical {
		t.Error("expected IsLogical after mix-in")
	}
	if w.Frames[0][4] != 1+4 {
		t.Errorf("expected mixed sample 5, got %v", w.Frames[0][4])
	}
}

func TestNewEmpty(t *testing.T) {
	w := NewEmpty(3, 44100, 2, 44100, "TAKE-1.wav")
	if w.NumFrames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", w.NumFrames())
	}
	if !w.IsLogical {
		t.Error("expected logical wave")
	}
	if w.Path != "TAKE-1.wav" {
		t.Errorf("unexpected name %q", w.Path)
	}
}
