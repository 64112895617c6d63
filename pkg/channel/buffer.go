package channel

import "github.com/giada-core/engine/pkg/midi"

// Buffer is per-channel audio and MIDI scratch space sized to the
// driver's block size (§3). Like State, it is heap-allocated once per
// channel and shared by pointer across every clone of Data, so the
// dispatcher's clone-for-react never needs to reallocate scratch space.
type Buffer struct {
	Audio [][]float32 // Audio[channelCount][blockSize]
	MIDI  *midi.EventQueue
}

// NewBuffer allocates a Buffer for the given channel count and block
// size.
func NewBuffer(numChannels, blockSize int) *Buffer {
	audio := make([][]float32, numChannels)
	for i := range audio {
		audio[i] = make([]float32, blockSize)
	}
	return &Buffer{
		Audio: audio,
		MIDI:  midi.NewEventQueue(),
	}
}

// Clear zeros the audio scratch. Called once per block before render
// writes into it.
func (b *Buffer) Clear() {
	for ch := range b.Audio {
		for i := range b.Audio[ch] {
			b.Audio[ch][i] = 0
		}
	}
}

// Resize grows or shrinks the audio scratch to match a new block size
// (control-thread only — never called while the audio thread might be
// reading this Buffer through a live Layout).
func (b *Buffer) Resize(numChannels, blockSize int) {
	audio := make([][]float32, numChannels)
	for i := range audio {
		audio[i] = make([]float32, blockSize)
	}
	b.Audio = audio
}
