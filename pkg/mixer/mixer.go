// Package mixer implements the master-out/master-in path and the
// input-recording accumulator (§4.9). It owns no audio thread of its
// own: Render is called once per block from the same audio callback
// that drives channel.Render, after every channel has written into its
// own scratch Buffer.
package mixer

import (
	"github.com/giada-core/engine/pkg/channel"
	"github.com/giada-core/engine/pkg/dsp"
	"github.com/giada-core/engine/pkg/plugin"
)

// Mixer is the value-typed master-path state embedded in Layout (§3,
// §4.9). MasterOut/MasterIn carry their own plug-in stacks, distinct
// from any regular channel's.
type Mixer struct {
	MasterOutVolume float64
	InToOut         bool // forward master-in straight to master-out

	MasterOutPlugins []plugin.Ref
	MasterInPlugins  []plugin.Ref
}

// New returns a Mixer with unity master volume and monitoring off.
func New() Mixer {
	return Mixer{MasterOutVolume: 1.0}
}

// HasSolos reports whether any non-internal channel in chans is
// soloed (§3 invariant: `mixer.has_solos` true iff any non-internal
// channel has solo == true).
func HasSolos(chans []*channel.Data) bool {
	for _, c := range chans {
		if !c.IsInternal() && c.Solo {
			return true
		}
	}
	return false
}

// Audible applies the solo rule (§4.9): if hasSolos, a non-internal
// channel is audible only if solo && !mute; otherwise audible iff
// !mute. Internal channels (MASTER_OUT, MASTER_IN, PREVIEW) are always
// audible — solo/mute never apply to them.
func Audible(c *channel.Data, hasSolos bool) bool {
	if c.IsInternal() {
		return true
	}
	if hasSolos {
		return c.Solo && !c.Mute
	}
	return !c.Mute
}

// Render implements the master path for one block. masterOut/masterIn
// are the two internal channels; channel.Render is never called on
// them. masterIn.Buffer.Audio is filled here from driverIn, the audio
// driver's input for this block; driverOut is what gets copied to the
// driver's output.
//
// Every non-internal channel has already been mixed into
// masterOut.Buffer.Audio by the caller (each channel.Render call
// accumulates into masterOut's scratch directly, since regular channels
// have no output bus of their own — §2's data flow: channels render
// straight into the mix).
func (m *Mixer) Render(host plugin.Host, masterOut, masterIn *channel.Data, driverOut, driverIn [][]float32) {
	if masterIn != nil && driverIn != nil {
		mio := masterIn.Buffer
		for ch := range mio.Audio {
			if ch >= len(driverIn) {
				break
			}
			copy(mio.Audio[ch], driverIn[ch])
		}
		if host != nil && len(m.MasterInPlugins) > 0 {
			host.ProcessStack(mio.Audio, m.MasterInPlugins, mio.MIDI)
		}
		if m.InToOut {
			mo := masterOut.Buffer
			for ch := range mio.Audio {
				if ch >= len(mo.Audio) {
					break
				}
				dsp.Add(mo.Audio[ch], mio.Audio[ch])
			}
		}
	}

	if masterOut == nil {
		return
	}
	mo := masterOut.Buffer
	if host != nil && len(m.MasterOutPlugins) > 0 {
		host.ProcessStack(mo.Audio, m.MasterOutPlugins, mo.MIDI)
	}

	vol := float32(m.MasterOutVolume)
	for ch := range mo.Audio {
		if ch >= len(driverOut) {
			break
		}
		dsp.AddScaled(driverOut[ch], mo.Audio[ch], vol)
	}
}
