package event

import (
	"testing"

	"github.com/oxy-render/scenectl/ids"
)

type fakeDriver struct {
	mappedDisplay ids.DID
	mappedSID     ids.SID
	targetState   ids.SceneState
	targetSID     ids.SID
}

func (f *fakeDriver) SetSceneMapping(sid ids.SID, did ids.DID) error {
	f.mappedSID, f.mappedDisplay = sid, did
	return nil
}

func (f *fakeDriver) SetSceneState(sid ids.SID, state ids.SceneState) error {
	f.targetSID, f.targetState = sid, state
	return nil
}

func TestAutoShowMapsAndShowsOnFirstAvailable(t *testing.T) {
	driver := &fakeDriver{}
	h := NewAutoShowHandler(driver, ids.DID(1), true)

	h.SceneStateChanged(ids.SID(33), ids.Available)

	if driver.mappedSID != ids.SID(33) || driver.mappedDisplay != ids.DID(1) {
		t.Fatalf("expected mapping for scene 33 on display 1, got sid=%v did=%v", driver.mappedSID, driver.mappedDisplay)
	}
	if driver.targetSID != ids.SID(33) || driver.targetState != ids.Rendered {
		t.Fatalf("expected target Rendered for scene 33, got sid=%v state=%v", driver.targetSID, driver.targetState)
	}
}

func TestAutoShowDisabledDoesNothing(t *testing.T) {
	driver := &fakeDriver{}
	h := NewAutoShowHandler(driver, ids.DID(1), false)
	h.SceneStateChanged(ids.SID(33), ids.Available)
	if driver.mappedSID != 0 {
		t.Fatal("expected no mapping while disabled")
	}
}

func TestAutoShowOnlyTriggersOnTransitionFromUnavailable(t *testing.T) {
	driver := &fakeDriver{}
	h := NewAutoShowHandler(driver, ids.DID(1), true)

	h.SceneStateChanged(ids.SID(33), ids.Available)
	driver.mappedSID = 0 // reset to detect a second call

	h.SceneStateChanged(ids.SID(33), ids.Ready)
	h.SceneStateChanged(ids.SID(33), ids.Rendered)
	if driver.mappedSID != 0 {
		t.Fatalf("auto-show re-triggered on a non-republish transition")
	}
}

func TestAutoShowRetriggersAfterUnpublish(t *testing.T) {
	driver := &fakeDriver{}
	h := NewAutoShowHandler(driver, ids.DID(1), true)

	h.SceneStateChanged(ids.SID(33), ids.Available)
	h.SceneStateChanged(ids.SID(33), ids.Unavailable)
	driver.mappedSID = 0

	h.SceneStateChanged(ids.SID(33), ids.Available)
	if driver.mappedSID != ids.SID(33) {
		t.Fatal("expected auto-show to retrigger after republish")
	}
}
