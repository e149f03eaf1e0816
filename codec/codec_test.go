package codec

import (
	"reflect"
	"testing"

	"github.com/oxy-render/scenectl/ids"
)

func TestSceneReferenceEventRoundTrip(t *testing.T) {
	e := SceneReferenceEvent{
		Type:            RefEventDataLinked,
		ReferencedScene: ids.SID(7),
		ConsumerScene:   ids.SID(33),
		ProviderScene:   ids.SID(9),
		DataConsumer:    ids.DataSlotID(4),
		DataProvider:    ids.DataSlotID(7),
		SceneState:      ids.Ready,
		VersionTag:      0xdeadbeef,
		Status:          true,
	}

	blob := e.Encode()
	if len(blob) != SceneReferenceEventSize {
		t.Fatalf("Encode produced %d bytes, want %d", len(blob), SceneReferenceEventSize)
	}

	got, err := DecodeSceneReferenceEvent(blob)
	if err != nil {
		t.Fatalf("DecodeSceneReferenceEvent: %v", err)
	}
	if !reflect.DeepEqual(got, e) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestDecodeSceneReferenceEventRejectsWrongLength(t *testing.T) {
	if _, err := DecodeSceneReferenceEvent(make([]byte, SceneReferenceEventSize-1)); err == nil {
		t.Fatal("expected error for short blob")
	}
}

func TestDecodeSceneReferenceEventRejectsWrongDiscriminator(t *testing.T) {
	blob := SceneReferenceEvent{}.Encode()
	blob[0] = byte(BlobResourceAvailability)
	if _, err := DecodeSceneReferenceEvent(blob); err == nil {
		t.Fatal("expected error for wrong discriminator")
	}
}

func TestResourceAvailabilityEventRoundTrip(t *testing.T) {
	e := ResourceAvailabilityEvent{
		SID: ids.SID(99),
		Hashes: []Hash128{
			{Low: 1, High: 2},
			{Low: 0xffffffffffffffff, High: 0},
		},
	}

	blob := e.Encode()
	if len(blob) != e.Size() {
		t.Fatalf("Encode produced %d bytes, want %d", len(blob), e.Size())
	}

	got, err := DecodeResourceAvailabilityEvent(blob)
	if err != nil {
		t.Fatalf("DecodeResourceAvailabilityEvent: %v", err)
	}
	if !reflect.DeepEqual(got, e) {
		t.Fatalf("round-trip mismatch: got %+v, want %+v", got, e)
	}
}

func TestResourceAvailabilityEventEmpty(t *testing.T) {
	e := ResourceAvailabilityEvent{SID: ids.SID(1)}
	blob := e.Encode()
	got, err := DecodeResourceAvailabilityEvent(blob)
	if err != nil {
		t.Fatalf("DecodeResourceAvailabilityEvent: %v", err)
	}
	if len(got.Hashes) != 0 {
		t.Fatalf("got %d hashes, want 0", len(got.Hashes))
	}
}

func TestDecodeResourceAvailabilityEventRejectsTruncated(t *testing.T) {
	e := ResourceAvailabilityEvent{SID: ids.SID(1), Hashes: []Hash128{{Low: 1, High: 2}}}
	blob := e.Encode()
	if _, err := DecodeResourceAvailabilityEvent(blob[:len(blob)-1]); err == nil {
		t.Fatal("expected error for truncated blob")
	}
}
