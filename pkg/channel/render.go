package channel

import (
	"github.com/giada-core/engine/pkg/dsp/pan"
	"github.com/giada-core/engine/pkg/framework/param"
	"github.com/giada-core/engine/pkg/plugin"
)

// Render is the audio thread's per-block output step (§4.3, §4.4,
// §4.9): mix in live input when armed and monitoring, let the sample
// player append its content, run the plugin stack, then apply
// pan/volume into out. in is the driver's input buffer (ignored by
// channels with no audio receiver); out is the accumulator the
// volume/pan-scaled result is added into (MASTER_OUT's buffer or the
// driver output), while the channel's own scratch is d.Buffer.Audio,
// already zeroed by the caller for this block; audible
// reflects the mixer's solo/mute rule (§4.9) — render still advances
// tracker state for an inaudible channel, only output is silenced.
func Render(d *Data, out, in [][]float32, running, audible bool, host plugin.Host) {
	if d.Buffer == nil {
		return
	}

	scratch := d.Buffer.Audio

	if d.AudioReceiver != nil && in != nil && d.Armed {
		d.AudioReceiver.Monitor(scratch, in)
	}

	if d.SamplePlayer != nil {
		d.SamplePlayer.Render(d.State, scratch, running)
	}

	if host != nil && len(d.Plugins) > 0 {
		host.ProcessStack(scratch, d.Plugins, d.Buffer.MIDI)
	}

	if !audible {
		return
	}

	applyVolumeAndPan(d, scratch, out)
}

// applyVolumeAndPan writes d.volume-scaled, panned scratch into out,
// smoothing volume changes with a one-pole filter to avoid zipper
// noise on live volume automation (adapted from the teacher's
// param.Smoother, normally used for plug-in parameters).
func applyVolumeAndPan(d *Data, scratch, out [][]float32) {
	if d.volumeSmoother == nil {
		d.volumeSmoother = param.NewSmoother(param.ExponentialSmoothing, 0.992)
		d.volumeSmoother.Reset(d.Volume)
	}
	d.volumeSmoother.SetTarget(d.Volume)

	panF := float32(d.Pan*2 - 1) // spec's [0,1] (0.5=center) -> pan package's [-1,1]
	leftGain, rightGain := pan.MonoToStereo(panF, pan.ConstantPower)

	n := len(scratch[0])
	if len(out[0]) < n {
		n = len(out[0])
	}

	for i := 0; i < n; i++ {
		v := float32(d.volumeSmoother.Next())
		if len(scratch) == 1 {
			s := scratch[0][i] * v
			out[0][i] += s * leftGain
			if len(out) > 1 {
				out[1][i] += s * rightGain
			}
			continue
		}
		for ch := range scratch {
			if ch >= len(out) {
				break
			}
			g := leftGain
			if ch == 1 {
				g = rightGain
			}
			out[ch][i] += scratch[ch][i] * v * g
		}
	}
}
