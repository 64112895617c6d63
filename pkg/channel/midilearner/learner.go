// Package midilearner implements "MIDI learn": the non-realtime
// capture-next-incoming-event-and-bind-it-as-a-parameter-source flow.
// This is not part of the distilled spec's closed operation set but a
// feature present in the original engine and supplemented here (§4.5
// SUPPLEMENT): without it, a MIDI channel's controller bindings and
// input filter channel could only ever be set by typing a raw note/CC
// number, which no real workstation actually asks its users to do.
package midilearner

import "github.com/giada-core/engine/pkg/midi"

// Target identifies which channel parameter a learn session is
// capturing a binding for.
type Target int

const (
	TargetNone Target = iota
	TargetPlayStop
	TargetRecord
	TargetMute
	TargetSolo
	TargetVolume
	TargetInputFilterChannel
)

// Binding is a captured MIDI source for a Target: either a specific
// note number (controller actions) or a CC number (continuous
// parameters like volume).
type Binding struct {
	Target     Target
	Note       uint8
	Controller uint8
	IsCC       bool
}

// Learner holds at most one pending capture. Armed by the control
// thread in response to a UI "learn" click; Capture is called for
// every inbound event on the non-realtime MIDI thread until it
// produces a Binding or is cancelled.
type Learner struct {
	pending Target
}

// New returns an idle Learner.
func New() *Learner { return &Learner{pending: TargetNone} }

// Arm begins a learn session for t. A second Arm before a Capture
// replaces the pending target (last call wins).
func (l *Learner) Arm(t Target) { l.pending = t }

// Cancel aborts a pending learn session without producing a Binding.
func (l *Learner) Cancel() { l.pending = TargetNone }

// Pending reports the in-progress learn target, or TargetNone if idle.
func (l *Learner) Pending() Target { return l.pending }

// Capture inspects e against the pending target. If a session is
// armed and e is a learnable event type, it returns the resulting
// Binding and clears the pending state (one-shot capture).
func (l *Learner) Capture(e midi.Event) (Binding, bool) {
	if l.pending == TargetNone {
		return Binding{}, false
	}

	var b Binding
	switch ev := e.(type) {
	case midi.NoteOnEvent:
		b = Binding{Target: l.pending, Note: ev.NoteNumber}
	case midi.ControlChangeEvent:
		b = Binding{Target: l.pending, Controller: ev.Controller, IsCC: true}
	default:
		return Binding{}, false
	}

	l.pending = TargetNone
	return b, true
}
