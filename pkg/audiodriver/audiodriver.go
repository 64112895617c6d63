// Package audiodriver defines the narrow external collaborator §6 calls
// the audio driver: the pull callback the core's audio thread runs
// inside, plus the geometry queries used to size layout.Kernel and the
// buffers passed to mixer.Render.
package audiodriver

// ProcessFunc is the core's audio thread entry point. out and in are
// per-channel sample buffers, blockSize frames each; the driver calls
// it once per hardware period and must not proceed past the call until
// it returns.
type ProcessFunc func(out, in [][]float32, blockSize int)

// Driver is the consumer-provided audio backend. The core never owns a
// device or stream; it registers its ProcessFunc with one of these and
// is pulled from whatever thread the backend's stream runs on (§6:
// "Pull callback process(out, in, block_size) — the core plugs its
// audio thread here").
type Driver interface {
	// SetCallback installs the function the driver invokes once per
	// block. Must be called before the stream is started.
	SetCallback(fn ProcessFunc)

	// RealBufSize returns the driver's actual block size, which may
	// differ from the size requested at open time.
	RealBufSize() int
	// SampleRate returns the stream's running sample rate.
	SampleRate() int
	// Channels returns the channel count of the buffers ProcessFunc is
	// called with.
	Channels() int
}
