// Package codec implements the two self-describing binary event blobs that
// cross the scene layer between renderer and client.
//
// Both codecs are tightly packed, host-endian (the transport is same-host)
// and fully deterministic: Decode(Encode(e)) == e, and Encode always
// produces exactly the declared byte length.
package codec

import (
	"encoding/binary"
)

// BlobKind is the first byte of every event blob, discriminating which of
// the two shapes follows.
type BlobKind uint8

const (
	BlobSceneReference BlobKind = iota
	BlobResourceAvailability
)

// RefEventType is the scene-reference event's own sub-discriminator.
type RefEventType uint8

const (
	RefEventSceneStateChanged RefEventType = iota
	RefEventSceneFlushed
	RefEventDataLinked
	RefEventDataUnlinked
)

var nativeEndian = binary.NativeEndian

func putU64(b []byte, v uint64) { nativeEndian.PutUint64(b, v) }
func getU64(b []byte) uint64    { return nativeEndian.Uint64(b) }
func putU32(b []byte, v uint32) { nativeEndian.PutUint32(b, v) }
func getU32(b []byte) uint32    { return nativeEndian.Uint32(b) }

func putBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}
func getBool(b []byte) bool { return b[0] != 0 }
