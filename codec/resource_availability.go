package codec

import (
	"fmt"

	"github.com/oxy-render/scenectl/ids"
)

// Hash128 is a 128-bit content hash, split into low/high 64-bit halves.
type Hash128 struct {
	Low, High uint64
}

// ResourceAvailabilityEvent is the variable-size resource-availability event
// blob: kind (1B), SID, u64 count, then count 128-bit content hashes.
type ResourceAvailabilityEvent struct {
	SID    ids.SID
	Hashes []Hash128
}

// Size returns the exact byte length Encode will produce for this event.
func (e ResourceAvailabilityEvent) Size() int {
	return 1 + 8 + 8 + 16*len(e.Hashes)
}

// Encode writes the event to a freshly allocated blob of exactly e.Size()
// bytes.
func (e ResourceAvailabilityEvent) Encode() []byte {
	b := make([]byte, e.Size())
	i := 0
	b[i] = byte(BlobResourceAvailability)
	i++
	putU64(b[i:], uint64(e.SID))
	i += 8
	putU64(b[i:], uint64(len(e.Hashes)))
	i += 8
	for _, h := range e.Hashes {
		putU64(b[i:], h.Low)
		i += 8
		putU64(b[i:], h.High)
		i += 8
	}

	if i != len(b) {
		panic("codec: ResourceAvailabilityEvent.Encode wrote the wrong length")
	}
	return b
}

// DecodeResourceAvailabilityEvent reads a ResourceAvailabilityEvent from
// blob, consuming it exactly — blob must carry the BlobResourceAvailability
// discriminator and be exactly long enough for the count it declares.
func DecodeResourceAvailabilityEvent(blob []byte) (ResourceAvailabilityEvent, error) {
	var e ResourceAvailabilityEvent
	if len(blob) < 1+8+8 {
		return e, fmt.Errorf("codec: resource-availability blob too short (%d bytes)", len(blob))
	}
	if BlobKind(blob[0]) != BlobResourceAvailability {
		return e, fmt.Errorf("codec: blob is not a resource-availability event")
	}

	i := 1
	e.SID = ids.SID(getU64(blob[i:]))
	i += 8
	count := getU64(blob[i:])
	i += 8

	want := 1 + 8 + 8 + 16*int(count)
	if len(blob) != want {
		return e, fmt.Errorf("codec: resource-availability blob has wrong length %d, want %d", len(blob), want)
	}

	e.Hashes = make([]Hash128, count)
	for n := range e.Hashes {
		low := getU64(blob[i:])
		i += 8
		high := getU64(blob[i:])
		i += 8
		e.Hashes[n] = Hash128{Low: low, High: high}
	}

	if i != len(blob) {
		return e, fmt.Errorf("codec: resource-availability blob was not fully consumed")
	}
	return e, nil
}
