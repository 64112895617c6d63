// Package channel implements the per-channel data model, its two
// coupled state machines (play_status / rec_status, §4.2), the sample
// player render loop (§4.3), and the react/advance/render contracts that
// the dispatcher and audio thread call into.
package channel

import "github.com/giada-core/engine/pkg/chantype"

// Aliases so callers write channel.TypeSample / channel.PlayWait instead
// of reaching into chantype directly. The enums themselves live in
// chantype to break an import cycle: every sub-component package
// (sampleplayer, midisender, ...) needs these types but must not import
// channel itself (channel imports them).
type (
	Type       = chantype.Type
	PlayStatus = chantype.PlayStatus
	RecStatus  = chantype.RecStatus
	SampleMode = chantype.SampleMode
)

const (
	TypeMaster  = chantype.TypeMaster
	TypePreview = chantype.TypePreview
	TypeSample  = chantype.TypeSample
	TypeMIDI    = chantype.TypeMIDI

	IDMasterOut = chantype.IDMasterOut
	IDMasterIn  = chantype.IDMasterIn
	IDPreview   = chantype.IDPreview

	PlayOff    = chantype.PlayOff
	PlayWait   = chantype.PlayWait
	PlayPlay   = chantype.PlayPlay
	PlayEnding = chantype.PlayEnding
	PlayEmpty  = chantype.PlayEmpty

	RecOff    = chantype.RecOff
	RecWait   = chantype.RecWait
	RecPlay   = chantype.RecPlay
	RecEnding = chantype.RecEnding

	ModeSingleBasic   = chantype.ModeSingleBasic
	ModeSinglePress   = chantype.ModeSinglePress
	ModeSingleRetrig  = chantype.ModeSingleRetrig
	ModeSingleEndless = chantype.ModeSingleEndless
	ModeLoopBasic     = chantype.ModeLoopBasic
	ModeLoopOnce      = chantype.ModeLoopOnce
	ModeLoopRepeat    = chantype.ModeLoopRepeat
	ModeLoopOnceBar   = chantype.ModeLoopOnceBar
)

// IsInternal reports whether id is one of the three pre-assigned
// internal channels, which can never be muted or deleted (§3 invariant).
func IsInternal(id uint32) bool { return chantype.IsInternal(id) }
