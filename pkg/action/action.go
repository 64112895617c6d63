// Package action implements the frame-indexed action map (§3, §4.10):
// recorded MIDI-like events per channel, with doubly linked siblings for
// paired NOTE_ON/NOTE_OFF actions.
package action

import (
	"sort"
	"sync"

	"github.com/giada-core/engine/pkg/clock"
	"github.com/giada-core/engine/pkg/midi"
)

// ID identifies an Action. 0 is reserved as "none".
type ID uint32

// Action is a single recorded event (§3).
type Action struct {
	ID        ID
	ChannelID uint32
	Frame     clock.Frame
	Event     midi.Event
	PrevID    ID
	NextID    ID
}

// Store is the frame-indexed map of Actions for one Layout. It
// is read-only to the audio thread: all edits happen on the control
// thread (directly, or via the event dispatcher) followed by a Swapper
// publish (§5).
type Store struct {
	mu      sync.RWMutex
	byID    map[ID]*Action
	byFrame map[clock.Frame][]ID // ordered insertion per frame
	nextID  ID
}

// NewStore returns an empty action store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[ID]*Action),
		byFrame: make(map[clock.Frame][]ID),
		nextID:  1,
	}
}

// Clone deep-copies the store (used by layout.Layout.Clone when the
// Swapper resynchronizes its pending Layout).
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clone := NewStore()
	clone.nextID = s.nextID
	for id, a := range s.byID {
		cp := *a
		clone.byID[id] = &cp
	}
	for f, ids := range s.byFrame {
		cp := make([]ID, len(ids))
		copy(cp, ids)
		clone.byFrame[f] = cp
	}
	return clone
}

// nextIDLocked returns a fresh monotonic ID. Caller must hold s.mu.
func (s *Store) nextIDLocked() ID {
	id := s.nextID
	s.nextID++
	return id
}

// Record inserts a new Action at the given frame (already quantized by
// the caller) for channelID, returning its assigned ID (§4.10 live_rec).
func (s *Store) Record(channelID uint32, frame clock.Frame, event midi.Event) ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextIDLocked()
	a := &Action{ID: id, ChannelID: channelID, Frame: frame, Event: midi.FlattenToChannel0(event)}
	s.byID[id] = a
	s.byFrame[frame] = append(s.byFrame[frame], id)
	return id
}

// Link sets the sibling pointers between two actions (e.g. a recorded
// NOTE_ON/NOTE_OFF pair for SINGLE_PRESS, §4.10). Both actions must
// already exist in the store.
func (s *Store) Link(prevID, nextID ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byID[prevID]; ok {
		prev.NextID = nextID
	}
	if next, ok := s.byID[nextID]; ok {
		next.PrevID = prevID
	}
}

// Get returns the action with the given ID, or nil.
func (s *Store) Get(id ID) *Action {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.byID[id]; ok {
		cp := *a
		return &cp
	}
	return nil
}

// GetActionsOnFrame returns the actions recorded exactly at frame, in
// insertion order. The lookup is a single hash-map access; the result
// is a newly allocated slice of copies, not a view into the store.
func (s *Store) GetActionsOnFrame(frame clock.Frame) []*Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byFrame[frame]
	out := make([]*Action, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.byID[id]; ok {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out
}

// GetActionsInRange returns every action whose frame falls within
// [start, end), in frame order. Used by the sequencer to find actions
// due within the current block (§4.8's "ACTIONS(frame) whenever one or
// more actions fall within the block").
func (s *Store) GetActionsInRange(start, end clock.Frame) []*Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Action
	for f, ids := range s.byFrame {
		if f < start || f >= end {
			continue
		}
		for _, id := range ids {
			if a, ok := s.byID[id]; ok {
				cp := *a
				out = append(out, &cp)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frame != out[j].Frame {
			return out[i].Frame < out[j].Frame
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ForEachChannel calls fn for every action belonging to channelID, frame
// order ascending.
func (s *Store) ForEachChannel(channelID uint32, fn func(*Action)) {
	for _, a := range s.sortedCopy() {
		if a.ChannelID == channelID {
			fn(a)
		}
	}
}

// ForEach calls fn for every action in the store, frame order ascending.
func (s *Store) ForEach(fn func(*Action)) {
	for _, a := range s.sortedCopy() {
		fn(a)
	}
}

func (s *Store) sortedCopy() []*Action {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Action, 0, len(s.byID))
	for _, a := range s.byID {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frame != out[j].Frame {
			return out[i].Frame < out[j].Frame
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CountForChannel returns the number of actions belonging to channelID.
// channel.Data.HasActions is backed by this rather than a mutable
// counter, avoiding the drift bug noted in SPEC_FULL.md's supplemented
// features.
func (s *Store) CountForChannel(channelID uint32) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.byID {
		if a.ChannelID == channelID {
			n++
		}
	}
	return n
}

// ClearAll removes every action from the store.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID = make(map[ID]*Action)
	s.byFrame = make(map[clock.Frame][]ID)
}

// ClearChannel removes every action belonging to channelID.
func (s *Store) ClearChannel(channelID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhereLocked(func(a *Action) bool { return a.ChannelID == channelID })
}

// ClearActions removes actions belonging to channelID whose event is of
// the given MIDI event type.
func (s *Store) ClearActions(channelID uint32, eventType midi.EventType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeWhereLocked(func(a *Action) bool {
		return a.ChannelID == channelID && a.Event != nil && a.Event.Type() == eventType
	})
}

// DeleteAction removes the action with id only, repairing its siblings'
// pointers so neither references the deleted action; the siblings
// themselves stay in the store (§4.10, §8 scenario 6). There is no
// variant that also deletes a paired sibling.
func (s *Store) DeleteAction(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return
	}
	s.removeOneLocked(id)

	// Repair siblings: whoever pointed at `id` now points at 0, and
	// whoever `id` pointed at now has prev/next cleared.
	if a.PrevID != 0 {
		if prev, ok := s.byID[a.PrevID]; ok && prev.NextID == id {
			prev.NextID = 0
		}
	}
	if a.NextID != 0 {
		if next, ok := s.byID[a.NextID]; ok && next.PrevID == id {
			next.PrevID = 0
		}
	}
}

// UpdateSiblings relinks id's prev/next pointers explicitly (§4.10).
func (s *Store) UpdateSiblings(id, prevID, nextID ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.byID[id]; ok {
		a.PrevID = prevID
		a.NextID = nextID
	}
}

// UpdateKeyFrames rebuilds the map's keys by applying f to every action's
// frame, used for BPM/bar-count changes when resize_recordings is
// enabled (§4.10).
func (s *Store) UpdateKeyFrames(f func(clock.Frame) clock.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newByFrame := make(map[clock.Frame][]ID)
	for _, a := range s.byID {
		a.Frame = f(a.Frame)
		newByFrame[a.Frame] = append(newByFrame[a.Frame], a.ID)
	}
	s.byFrame = newByFrame
	s.resolveSiblingsLocked()
}

// resolveSiblingsLocked re-scans the map and drops any prev/next pointer
// referencing an ID that no longer exists (§4.10: "re-resolve non-owning
// prev/next pointers by scanning the map" after a structural mutation).
func (s *Store) resolveSiblingsLocked() {
	for _, a := range s.byID {
		if a.PrevID != 0 {
			if _, ok := s.byID[a.PrevID]; !ok {
				a.PrevID = 0
			}
		}
		if a.NextID != 0 {
			if _, ok := s.byID[a.NextID]; !ok {
				a.NextID = 0
			}
		}
	}
}

func (s *Store) removeWhereLocked(match func(*Action) bool) {
	var toRemove []ID
	for id, a := range s.byID {
		if match(a) {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		s.removeOneLocked(id)
	}
	s.resolveSiblingsLocked()
}

func (s *Store) removeOneLocked(id ID) {
	a, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	ids := s.byFrame[a.Frame]
	for i, cand := range ids {
		if cand == id {
			s.byFrame[a.Frame] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byFrame[a.Frame]) == 0 {
		delete(s.byFrame, a.Frame)
	}
}
