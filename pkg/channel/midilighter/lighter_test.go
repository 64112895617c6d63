package midilighter

import (
	"testing"

	"github.com/giada-core/engine/pkg/chantype"
)

func TestOnPlayStatusChangeFiresOnce(t *testing.T) {
	l := New()
	l.Bind(chantype.PlayPlay, 0x90, 60, 127)

	msg, ok := l.OnPlayStatusChange(chantype.PlayPlay)
	if !ok || msg == 0 {
		t.Fatal("expected first transition to fire")
	}

	if _, ok := l.OnPlayStatusChange(chantype.PlayPlay); ok {
		t.Error("expected repeated status to not re-fire")
	}
}

func TestOnPlayStatusChangeNoBinding(t *testing.T) {
	l := New()
	if _, ok := l.OnPlayStatusChange(chantype.PlayWait); ok {
		t.Error("expected unbound status to produce nothing")
	}
}

func TestOnRecStatusChangeFiresOnce(t *testing.T) {
	l := New()
	l.BindRec(chantype.RecPlay, 0x90, 10, 127)

	if _, ok := l.OnRecStatusChange(chantype.RecPlay); !ok {
		t.Fatal("expected first transition to fire")
	}
	if _, ok := l.OnRecStatusChange(chantype.RecPlay); ok {
		t.Error("expected repeated status to not re-fire")
	}
}
