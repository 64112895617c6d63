package mixer

// Recorder accumulates driver input into a loop-length scratch buffer
// while input recording is active (§4.9). It is part of Layout (the
// spec's aggregate lists it as a sibling of Mixer/Clock/Kernel), but its
// accumulation step runs on the audio thread (engine.Process calls
// Accumulate after Mixer.Render), so it must never allocate once armed.
type Recorder struct {
	Recording bool
	Buffer    [][]float32 // sized to one sequencer loop at arm time
	cursor    int
}

// Arm allocates Buffer to hold one loop of audio at numChannels/loopFrames
// and resets the write cursor. Called from the control thread only.
func (r *Recorder) Arm(numChannels, loopFrames int) {
	r.Buffer = make([][]float32, numChannels)
	for ch := range r.Buffer {
		r.Buffer[ch] = make([]float32, loopFrames)
	}
	r.cursor = 0
	r.Recording = true
}

// Accumulate copies numFrames of in starting at the recorder's current
// cursor, wrapping at the loop boundary. Called once per block from the
// audio thread while Recording is true; never allocates.
func (r *Recorder) Accumulate(in [][]float32, numFrames int) {
	if !r.Recording || len(r.Buffer) == 0 {
		return
	}
	loopFrames := len(r.Buffer[0])
	if loopFrames == 0 {
		return
	}
	for ch := range r.Buffer {
		if ch >= len(in) {
			break
		}
		for i := 0; i < numFrames; i++ {
			r.Buffer[ch][(r.cursor+i)%loopFrames] = in[ch][i]
		}
	}
	r.cursor = (r.cursor + numFrames) % loopFrames
}

// Stop disarms the recorder; the accumulated Buffer is left intact for
// the channel manager's finalize_input_rec (§4.11) to consume.
func (r *Recorder) Stop() {
	r.Recording = false
}
