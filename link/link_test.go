package link

import (
	"testing"

	"github.com/oxy-render/scenectl/ids"
)

func TestValidateBufferLink(t *testing.T) {
	cases := []struct {
		name                        string
		state                       ids.SceneState
		mapped                      bool
		consumerDisplay, bufDisplay ids.DID
		wantErr                     bool
	}{
		{"not ready", ids.Available, true, 1, 1, true},
		{"not mapped", ids.Ready, false, 1, 1, true},
		{"wrong display", ids.Ready, true, 1, 2, true},
		{"ok", ids.Ready, true, 1, 1, false},
		{"rendered ok", ids.Rendered, true, 1, 1, false},
	}
	for _, c := range cases {
		err := ValidateBufferLink(c.state, c.mapped, c.consumerDisplay, c.bufDisplay)
		if (err != nil) != c.wantErr {
			t.Errorf("%s: ValidateBufferLink() error = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestValidateDataLink(t *testing.T) {
	ok := func() error {
		return ValidateDataLink(ids.Ready, ids.Ready, true, true, ids.DID(1), ids.DID(1), ids.SlotTypeFloat, ids.SlotTypeFloat)
	}
	if err := ok(); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	if err := ValidateDataLink(ids.Available, ids.Ready, true, true, 1, 1, ids.SlotTypeFloat, ids.SlotTypeFloat); err == nil {
		t.Error("expected error when provider is not Ready")
	}
	if err := ValidateDataLink(ids.Ready, ids.Ready, false, true, 1, 1, ids.SlotTypeFloat, ids.SlotTypeFloat); err == nil {
		t.Error("expected error when provider is not mapped")
	}
	if err := ValidateDataLink(ids.Ready, ids.Ready, true, true, 1, 2, ids.SlotTypeFloat, ids.SlotTypeFloat); err == nil {
		t.Error("expected error when scenes are mapped to different displays")
	}
	if err := ValidateDataLink(ids.Ready, ids.Ready, true, true, 1, 1, ids.SlotTypeFloat, ids.SlotTypeVec4f); err == nil {
		t.Error("expected error when slot types mismatch")
	}
}

func TestManagerLastWriterWins(t *testing.T) {
	m := New()
	consumer, slot := ids.SID(1), ids.DataSlotID(4)

	m.OnLinked(consumer, slot, Source{Kind: SourceOffscreenBuffer, BID: ids.BID(5)})
	if src, ok := m.Lookup(consumer, slot); !ok || src.Kind != SourceOffscreenBuffer || src.BID != ids.BID(5) {
		t.Fatalf("unexpected source after first link: %+v, ok=%v", src, ok)
	}

	m.OnLinked(consumer, slot, Source{Kind: SourceData, ProviderSID: ids.SID(7), ProviderSlot: ids.DataSlotID(2)})
	src, ok := m.Lookup(consumer, slot)
	if !ok || src.Kind != SourceData || src.ProviderSID != ids.SID(7) {
		t.Fatalf("second link did not replace the first: %+v, ok=%v", src, ok)
	}

	m.OnUnlinked(consumer, slot)
	if _, ok := m.Lookup(consumer, slot); ok {
		t.Fatal("expected no source after OnUnlinked")
	}
}
