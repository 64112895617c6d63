// Package waveio defines the narrow external collaborator §6 calls the
// wave loader/writer: turning files on disk into wave.Wave buffers and
// back, and synthesizing empty/derived waves for recording and preview.
// The core never touches a codec directly; mixerhandler.Manager calls
// through a Loader.
package waveio

import "github.com/giada-core/engine/pkg/wave"

// Loader is the consumer-provided decode/encode backend. quality
// selects the resampling algorithm applied when a file's native rate
// differs from targetRate (config.ResampleQuality, interpreted by the
// loader implementation — this package stays codec-agnostic).
type Loader interface {
	// CreateFromFile decodes path, resampling to targetRate if it
	// differs from the file's native rate, and returns a logical-false
	// Wave ready to be assigned to a sample player.
	CreateFromFile(path string, targetRate int, quality int) (*wave.Wave, error)

	// CreateEmpty returns a new IsLogical Wave of the given size, used
	// by mixerhandler.Manager.FinalizeInputRec to hold a recorded take
	// copied out of the Layout's mixer.Recorder.
	CreateEmpty(frames, channels, rate int, name string) *wave.Wave

	// CreateFromWave derives a new Wave covering the [a, b) frame range
	// of src. No engine code path calls it.
	CreateFromWave(src *wave.Wave, a, b int) *wave.Wave

	// Write encodes w to path in the loader's native on-disk format,
	// used when a channel's Wave is exported or the patch is saved with
	// edited audio.
	Write(w *wave.Wave, path string) error
}
