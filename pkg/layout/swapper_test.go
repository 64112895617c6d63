package layout

import (
	"testing"

	"github.com/giada-core/engine/pkg/midi"
	"github.com/giada-core/engine/pkg/plugin"
)

type fakeHost struct{}

func (fakeHost) ProcessStack(buf [][]float32, refs []plugin.Ref, midiBuf *midi.EventQueue) {}
func (fakeHost) ClonePlugins(refs []plugin.Ref) []plugin.Ref {
	if len(refs) == 0 {
		return nil
	}
	out := make([]plugin.Ref, len(refs))
	copy(out, refs)
	return out
}
func (fakeHost) FreePlugins(refs []plugin.Ref) {}

func newTestSwapper() *Swapper {
	return NewSwapper(New(48000, 512, 2), fakeHost{})
}

func TestGetRTSeesLiveUntilSwap(t *testing.T) {
	s := newTestSwapper()

	pending := s.Get()
	pending.Clock.Bpm = 140

	if got := s.GetRT().Layout().Clock.Bpm; got == 140 {
		t.Fatal("expected pending mutation to not be visible before Swap")
	}

	s.Swap(SwapSoft)

	if got := s.GetRT().Layout().Clock.Bpm; got != 140 {
		t.Errorf("expected live Bpm=140 after swap, got %v", got)
	}
}

func TestSwapResynchronizesPendingFromLive(t *testing.T) {
	s := newTestSwapper()

	s.Get().Clock.Bpm = 100
	s.Swap(SwapSoft)

	// The new pending slot must be a fresh clone of the now-live state,
	// not stale state from two swaps ago.
	if got := s.Get().Clock.Bpm; got != 100 {
		t.Errorf("expected pending to resync to 100, got %v", got)
	}

	s.Get().Clock.Bpm = 200
	s.Swap(SwapSoft)
	if got := s.GetRT().Layout().Clock.Bpm; got != 200 {
		t.Errorf("expected live Bpm=200 after second swap, got %v", got)
	}
}

func TestOnSwapNotifiesListenersExceptNone(t *testing.T) {
	s := newTestSwapper()

	var calls []SwapType
	s.OnSwap(func(t SwapType) error {
		calls = append(calls, t)
		return nil
	})

	s.Swap(SwapHard)
	s.Swap(SwapNone)
	s.Swap(SwapSoft)

	if len(calls) != 2 || calls[0] != SwapHard || calls[1] != SwapSoft {
		t.Errorf("expected [HARD, SOFT] notifications, got %v", calls)
	}
}

func TestOnSwapListenerErrorDoesNotBlockPublish(t *testing.T) {
	s := newTestSwapper()
	s.OnSwap(func(t SwapType) error { return errFailing })

	s.Get().Clock.Bpm = 77
	s.Swap(SwapHard) // must not panic or roll back despite the listener failing

	if got := s.GetRT().Layout().Clock.Bpm; got != 77 {
		t.Errorf("expected publish to succeed despite listener error, got %v", got)
	}
}

var errFailing = &testError{"listener failed"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
