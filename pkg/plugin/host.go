package plugin

import (
	"github.com/giada-core/engine/pkg/framework/process"
	"github.com/giada-core/engine/pkg/logging"
	"github.com/giada-core/engine/pkg/midi"
)

// Ref is a channel's reference to one loaded plugin instance (§3:
// "plugins: Vec<PluginRef>, stack order matters"). Host owns the
// Processor's lifecycle; Ref is a thin, clonable handle a channel
// carries in its plugin stack.
type Ref struct {
	ID        uint32
	Processor Processor
	Bypass    bool
}

// Host is the narrow plugin-hosting contract the engine consumes
// (§6): process an ordered stack of plugins over a buffer, and manage
// instance lifetime across channel clone/delete.
type Host interface {
	ProcessStack(buf [][]float32, refs []Ref, midiBuf *midi.EventQueue)
	ClonePlugins(refs []Ref) []Ref
	FreePlugins(refs []Ref)
}

// DefaultHost runs each Ref's Processor in stack order through a
// shared process.Context, skipping bypassed entries. It is the
// default, in-process Host — consumer code may swap in a different
// Host for out-of-process plugin isolation without touching the
// engine.
type DefaultHost struct {
	ctx *process.Context
}

// NewDefaultHost returns a Host with a context sized for maxBlockSize
// samples.
func NewDefaultHost(maxBlockSize int) *DefaultHost {
	return &DefaultHost{ctx: process.NewContext(maxBlockSize, nil)}
}

// ProcessStack runs buf through every non-bypassed plugin in refs, in
// order, in place.
func (h *DefaultHost) ProcessStack(buf [][]float32, refs []Ref, midiBuf *midi.EventQueue) {
	for _, r := range refs {
		if r.Bypass || r.Processor == nil {
			continue
		}
		h.ctx.Input = buf
		h.ctx.Output = buf
		r.Processor.ProcessAudio(h.ctx)
	}
}

// ClonePlugins is not implemented for DefaultHost: the teacher's
// Processor interface carries no Clone contract, so channel cloning
// (§4.11) currently drops plugin instances rather than duplicating
// them wrongly. Logged, not silently dropped.
func (h *DefaultHost) ClonePlugins(refs []Ref) []Ref {
	if len(refs) > 0 {
		logging.For("plugin").Warn("plugin clone not supported by DefaultHost, dropping stack")
	}
	return nil
}

// FreePlugins calls SetActive(false) on each instance: Processor has no
// other teardown, so this is all DefaultHost releases, kept for
// symmetry with a real host's resource release.
func (h *DefaultHost) FreePlugins(refs []Ref) {
	for _, r := range refs {
		if r.Processor != nil {
			_ = r.Processor.SetActive(false)
		}
	}
}
