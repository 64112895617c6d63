package channel

import (
	"sync/atomic"

	"github.com/giada-core/engine/pkg/chantype"
	"github.com/giada-core/engine/pkg/clock"
)

// State is the only part of a channel mutated concurrently by the audio
// thread while the control thread holds a reference to it (§3). It is
// heap-allocated once per channel and referenced by pointer from every
// clone of Data across a Layout swap, so state survives the dispatcher's
// clone-and-react cycle untouched.
//
// tracker uses relaxed ordering (meter/playhead reads tolerate staleness
// by a block); play_status/rec_status use release/acquire so a control
// thread observing PLAY also observes every audio-thread write that
// happened before the transition (§5).
type State struct {
	tracker    atomic.Int64 // clock.Frame
	playStatus atomic.Int32 // chantype.PlayStatus
	recStatus  atomic.Int32 // chantype.RecStatus
	rewinding  atomic.Bool
	offset     atomic.Int64 // clock.Frame
}

// NewState returns a State initialized to OFF/OFF at tracker 0.
func NewState() *State {
	s := &State{}
	s.playStatus.Store(int32(chantype.PlayOff))
	s.recStatus.Store(int32(chantype.RecOff))
	return s
}

func (s *State) Tracker() clock.Frame     { return clock.Frame(s.tracker.Load()) }
func (s *State) SetTracker(f clock.Frame) { s.tracker.Store(int64(f)) }
func (s *State) AddTracker(delta int) int64 {
	return s.tracker.Add(int64(delta))
}

func (s *State) PlayStatus() chantype.PlayStatus     { return chantype.PlayStatus(s.playStatus.Load()) }
func (s *State) SetPlayStatus(v chantype.PlayStatus) { s.playStatus.Store(int32(v)) }
func (s *State) CompareAndSwapPlayStatus(old, new chantype.PlayStatus) bool {
	return s.playStatus.CompareAndSwap(int32(old), int32(new))
}

func (s *State) RecStatus() chantype.RecStatus     { return chantype.RecStatus(s.recStatus.Load()) }
func (s *State) SetRecStatus(v chantype.RecStatus) { s.recStatus.Store(int32(v)) }

func (s *State) Rewinding() bool     { return s.rewinding.Load() }
func (s *State) SetRewinding(v bool) { s.rewinding.Store(v) }

func (s *State) Offset() clock.Frame     { return clock.Frame(s.offset.Load()) }
func (s *State) SetOffset(f clock.Frame) { s.offset.Store(int64(f)) }
