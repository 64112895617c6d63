package layout

import (
	"sync"
	"sync/atomic"

	"github.com/giada-core/engine/pkg/logging"
	"github.com/giada-core/engine/pkg/plugin"
)

// SwapType informs on_swap listeners what changed in the published
// Layout (§4.1): HARD means channel structure changed (add/remove/clone
// a channel, load a wave), SOFT means only values changed (volume, pan,
// a state-machine transition), NONE means publish with no listener
// notification at all.
type SwapType int

const (
	SwapNone SwapType = iota
	SwapSoft
	SwapHard
)

// Listener is an on_swap callback. An error is logged, not propagated:
// a failing listener never rolls back the publish (§4.1 failure
// semantics).
type Listener func(SwapType) error

// Swapper is the RCU Layout store (§4.1): two Layout slots, one "live"
// read by the audio thread via GetRT, one "pending" mutated by the
// control thread via Get. Swap atomically flips which slot is live,
// then resynchronizes the new pending slot by cloning the new live one,
// so the writer can keep mutating without re-reading.
//
// Single writer is a caller discipline, not enforced: the components
// that hold the *Swapper (the dispatcher and the non-realtime mixer
// handler) call Get/Swap, and nothing stops a second caller from doing
// so too, matching
// the source design's documented-not-enforced discipline (§4.1's
// "single reader, single writer" is a contract, not a runtime check).
type Swapper struct {
	slots   [2]*Layout
	liveIdx atomic.Uint32
	host    plugin.Host

	mu        sync.Mutex
	listeners []Listener
}

// NewSwapper seeds both slots from initial (the pending slot holds a
// Clone so early mutations on Get() never alias the live slot's
// sub-records).
func NewSwapper(initial *Layout, host plugin.Host) *Swapper {
	s := &Swapper{host: host}
	s.slots[0] = initial
	s.slots[1] = initial.Clone(host)
	return s
}

// Get returns the pending Layout for mutation. Control thread only.
func (s *Swapper) Get() *Layout {
	return s.slots[1-s.liveIdx.Load()]
}

// RtLock is the scoped read guard handed to the audio thread by GetRT.
// Release is a no-op placeholder kept for API symmetry with the
// spec's `drop`-releases-the-guard contract: Go's GC reclaims the slot
// naturally once no RtLock references it, so there's nothing to
// actually release.
type RtLock struct {
	layout *Layout
}

// Layout returns the frozen snapshot this guard holds.
func (r RtLock) Layout() *Layout { return r.layout }

// Release is a no-op (see RtLock doc).
func (r RtLock) Release() {}

// GetRT returns a read guard over the currently live Layout. Never
// blocks; safe to call once per audio callback. Multiple sequential
// calls are fine; the spec does not require overlapping guards to be
// supported.
func (s *Swapper) GetRT() RtLock {
	return RtLock{layout: s.slots[s.liveIdx.Load()]}
}

// Swap atomically publishes the pending Layout as live, then
// resynchronizes the new pending slot by cloning the new live one
// (§4.1's algorithm). Never blocks the audio thread: the index flip is
// a single atomic store; the resync clone happens on the writer's own
// slot, invisible to any reader already holding an RtLock from before
// the flip.
func (s *Swapper) Swap(t SwapType) {
	oldLive := s.liveIdx.Load()
	newLive := 1 - oldLive
	s.liveIdx.Store(newLive)
	s.slots[oldLive] = s.slots[newLive].Clone(s.host)

	if t != SwapNone {
		s.notify(t)
	}
}

// OnSwap registers a listener invoked after every publish whose
// SwapType isn't SwapNone.
func (s *Swapper) OnSwap(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Swapper) notify(t SwapType) {
	s.mu.Lock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	log := logging.For("swapper")
	for _, l := range listeners {
		if err := l(t); err != nil {
			log.WithError(err).Warn("on_swap listener failed")
		}
	}
}
