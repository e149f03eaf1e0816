package codec

import (
	"fmt"

	"github.com/oxy-render/scenectl/ids"
)

// SceneReferenceEventSize is the exact, fixed wire size of SceneReferenceEvent.
const SceneReferenceEventSize = 1 + 1 + 8 + 8 + 8 + 4 + 4 + 1 + 8 + 1

// SceneReferenceEvent is the fixed-size scene-reference event blob.
type SceneReferenceEvent struct {
	Type            RefEventType
	ReferencedScene ids.SID
	ConsumerScene   ids.SID
	ProviderScene   ids.SID
	DataConsumer    ids.DataSlotID
	DataProvider    ids.DataSlotID
	SceneState      ids.SceneState
	VersionTag      uint64
	Status          bool
}

// Encode writes the event to a freshly allocated blob of exactly
// SceneReferenceEventSize bytes.
func (e SceneReferenceEvent) Encode() []byte {
	b := make([]byte, SceneReferenceEventSize)
	i := 0
	b[i] = byte(BlobSceneReference)
	i++
	b[i] = byte(e.Type)
	i++
	putU64(b[i:], uint64(e.ReferencedScene))
	i += 8
	putU64(b[i:], uint64(e.ConsumerScene))
	i += 8
	putU64(b[i:], uint64(e.ProviderScene))
	i += 8
	putU32(b[i:], uint32(e.DataConsumer))
	i += 4
	putU32(b[i:], uint32(e.DataProvider))
	i += 4
	b[i] = byte(e.SceneState)
	i++
	putU64(b[i:], e.VersionTag)
	i += 8
	putBool(b[i:], e.Status)
	i++

	if i != SceneReferenceEventSize {
		panic("codec: SceneReferenceEvent.Encode wrote the wrong length")
	}
	return b
}

// DecodeSceneReferenceEvent reads a SceneReferenceEvent from blob. blob must
// be exactly SceneReferenceEventSize bytes and carry the BlobSceneReference
// discriminator, and the reader consumes the whole blob.
func DecodeSceneReferenceEvent(blob []byte) (SceneReferenceEvent, error) {
	var e SceneReferenceEvent
	if len(blob) != SceneReferenceEventSize {
		return e, fmt.Errorf("codec: scene-reference blob has wrong length %d, want %d", len(blob), SceneReferenceEventSize)
	}
	if BlobKind(blob[0]) != BlobSceneReference {
		return e, fmt.Errorf("codec: blob is not a scene-reference event")
	}

	i := 1
	e.Type = RefEventType(blob[i])
	i++
	e.ReferencedScene = ids.SID(getU64(blob[i:]))
	i += 8
	e.ConsumerScene = ids.SID(getU64(blob[i:]))
	i += 8
	e.ProviderScene = ids.SID(getU64(blob[i:]))
	i += 8
	e.DataConsumer = ids.DataSlotID(getU32(blob[i:]))
	i += 4
	e.DataProvider = ids.DataSlotID(getU32(blob[i:]))
	i += 4
	e.SceneState = ids.SceneState(blob[i])
	i++
	e.VersionTag = getU64(blob[i:])
	i += 8
	e.Status = getBool(blob[i:])
	i++

	if i != SceneReferenceEventSize {
		return e, fmt.Errorf("codec: scene-reference blob was not fully consumed")
	}
	return e, nil
}
