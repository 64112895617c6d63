package layout

import "testing"

func TestNewHasThreeInternalChannels(t *testing.T) {
	l := New(48000, 512, 2)

	if len(l.Channels) != 3 {
		t.Fatalf("expected 3 internal channels, got %d", len(l.Channels))
	}
	if l.MasterOut() == nil || l.MasterIn() == nil || l.Preview() == nil {
		t.Error("expected MasterOut/MasterIn/Preview to all resolve")
	}
	for _, c := range l.Channels {
		if !c.IsInternal() {
			t.Errorf("channel %d: expected internal", c.ID)
		}
	}
}

func TestCloneDoesNotAliasChannelSlice(t *testing.T) {
	l := New(48000, 512, 2)
	cp := l.Clone(fakeHost{})

	cp.Channels[0].Volume = 0.5
	if l.Channels[0].Volume == 0.5 {
		t.Error("expected clone's Channels slice to be independent of the original")
	}
}

func TestCloneSharesStateAndBufferByPointer(t *testing.T) {
	l := New(48000, 512, 2)
	cp := l.Clone(fakeHost{})

	orig := l.ChannelByID(l.Channels[0].ID)
	clone := cp.ChannelByID(l.Channels[0].ID)

	if clone.State != orig.State {
		t.Error("expected State to be shared by pointer across clones")
	}
	if clone.Buffer != orig.Buffer {
		t.Error("expected Buffer to be shared by pointer across clones")
	}
}

func TestChannelByIDMissing(t *testing.T) {
	l := New(48000, 512, 2)
	if l.ChannelByID(9999) != nil {
		t.Error("expected missing ID to return nil")
	}
}
