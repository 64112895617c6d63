package chantype

import "testing"

func TestIsInternal(t *testing.T) {
	for _, id := range []uint32{IDMasterOut, IDMasterIn, IDPreview} {
		if !IsInternal(id) {
			t.Errorf("expected %d to be internal", id)
		}
	}
	if IsInternal(4) {
		t.Error("expected channel 4 to not be internal")
	}
}

func TestSampleModeIsLoop(t *testing.T) {
	loops := []SampleMode{ModeLoopBasic, ModeLoopOnce, ModeLoopRepeat, ModeLoopOnceBar}
	for _, m := range loops {
		if !m.IsLoop() {
			t.Errorf("expected %v to be a loop mode", m)
		}
	}
	nonLoops := []SampleMode{ModeSingleBasic, ModeSinglePress, ModeSingleRetrig, ModeSingleEndless}
	for _, m := range nonLoops {
		if m.IsLoop() {
			t.Errorf("expected %v to not be a loop mode", m)
		}
	}
}

func TestPlayStatusStrings(t *testing.T) {
	if PlayPlay.String() != "PLAY" {
		t.Errorf("unexpected string %q", PlayPlay.String())
	}
}
