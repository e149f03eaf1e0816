package mapping

import (
	"testing"

	"github.com/oxy-render/scenectl/ids"
)

type fakeDisplays struct {
	framebuffers map[ids.DID]ids.BID
}

func (f *fakeDisplays) Framebuffer(did ids.DID) (ids.BID, bool) {
	bid, ok := f.framebuffers[did]
	return bid, ok
}

func newFakeDisplays() *fakeDisplays {
	return &fakeDisplays{framebuffers: map[ids.DID]ids.BID{
		ids.DID(1): ids.BID(100),
		ids.DID(2): ids.BID(200),
	}}
}

func TestSetMappingRejectsUnknownDisplay(t *testing.T) {
	c := New(newFakeDisplays())
	if err := c.SetMapping(ids.SID(1), ids.DID(404), ids.Unavailable, ids.Unavailable); err == nil {
		t.Fatal("expected error for unknown display")
	}
}

func TestSetMappingRejectsWhenAtOrAboveReady(t *testing.T) {
	c := New(newFakeDisplays())
	if err := c.SetMapping(ids.SID(1), ids.DID(1), ids.Ready, ids.Unavailable); err == nil {
		t.Fatal("expected error when current >= Ready")
	}
	if err := c.SetMapping(ids.SID(1), ids.DID(1), ids.Unavailable, ids.Ready); err == nil {
		t.Fatal("expected error when target >= Ready")
	}
}

func TestSetMappingSucceedsAndNormalizesBuffer(t *testing.T) {
	c := New(newFakeDisplays())
	if err := c.SetMapping(ids.SID(1), ids.DID(1), ids.Available, ids.Available); err != nil {
		t.Fatalf("SetMapping: %v", err)
	}
	rec := c.Get(ids.SID(1))
	if !rec.MappingSet || rec.Display != ids.DID(1) || rec.Buffer != ids.BIDInvalid {
		t.Fatalf("unexpected record after SetMapping: %+v", rec)
	}
}

func TestSetBufferAssignmentRequiresMapping(t *testing.T) {
	c := New(newFakeDisplays())
	if err := c.SetBufferAssignment(ids.SID(1), ids.BID(5), 0); err == nil {
		t.Fatal("expected error without a prior mapping")
	}
}

func TestSetBufferAssignmentNormalizesFramebuffer(t *testing.T) {
	c := New(newFakeDisplays())
	if err := c.SetMapping(ids.SID(1), ids.DID(1), ids.Unavailable, ids.Unavailable); err != nil {
		t.Fatalf("SetMapping: %v", err)
	}

	if err := c.SetBufferAssignment(ids.SID(1), ids.BID(100), 3); err != nil {
		t.Fatalf("SetBufferAssignment: %v", err)
	}
	direct := c.Get(ids.SID(1))

	c2 := New(newFakeDisplays())
	_ = c2.SetMapping(ids.SID(1), ids.DID(1), ids.Unavailable, ids.Unavailable)
	_ = c2.SetBufferAssignment(ids.SID(1), ids.BIDInvalid, 3)
	viaNull := c2.Get(ids.SID(1))

	if direct.Buffer != ids.BIDInvalid || direct.Buffer != viaNull.Buffer || direct.RenderOrder != viaNull.RenderOrder {
		t.Fatalf("framebuffer assignment %+v should normalize the same as null assignment %+v", direct, viaNull)
	}
}
