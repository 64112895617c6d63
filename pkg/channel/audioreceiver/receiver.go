// Package audioreceiver implements a SAMPLE channel's live input path
// (§4.4): mixing the mixer's master-in buffer into the channel's own
// audio output when input_monitor is on, and gating overdub recording
// behind overdub_protection so a channel already holding recorded
// audio is never silently overwritten.
package audioreceiver

// Receiver holds a SAMPLE channel's input-monitoring/overdub config.
type Receiver struct {
	InputMonitor      bool
	OverdubProtection bool
}

// New returns a Receiver with monitoring off and overdub protection on
// (the safer default: §4.4 "armed channels default to protected").
func New() *Receiver {
	return &Receiver{InputMonitor: false, OverdubProtection: true}
}

// Monitor mixes in (master-in) into out in place when input_monitor is
// enabled. Called from the channel's render step before the sample
// player writes its own content, so recorded-but-not-yet-played-back
// input is audible immediately (§4.4).
func (r *Receiver) Monitor(out, in [][]float32) {
	if !r.InputMonitor {
		return
	}
	for ch := range out {
		if ch >= len(in) {
			continue
		}
		n := len(out[ch])
		if len(in[ch]) < n {
			n = len(in[ch])
		}
		for i := 0; i < n; i++ {
			out[ch][i] += in[ch][i]
		}
	}
}

// CanOverdub reports whether a new input-recording take is allowed to
// overwrite this channel's existing wave. hasWave is whether the
// channel currently holds recorded content.
func (r *Receiver) CanOverdub(hasWave bool) bool {
	if !hasWave {
		return true
	}
	return !r.OverdubProtection
}
