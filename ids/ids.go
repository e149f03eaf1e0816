// Package ids defines the opaque handle types shared across the scene-control
// plane. Every cross-reference between scenes, displays and buffers is one of
// these identifiers — never a pointer — so the control plane never needs to
// know anything about what a scene, display or buffer actually contains.
package ids

import "fmt"

// SID is a scene identifier, unique per control plane.
type SID uint64

func (s SID) String() string { return fmt.Sprintf("scene(%d)", uint64(s)) }

// DID is a display identifier denoting a rendering surface.
type DID uint32

func (d DID) String() string { return fmt.Sprintf("display(%d)", uint32(d)) }

// BID is a display-buffer identifier: either a display's implicit framebuffer
// or one of its offscreen buffers. BIDInvalid denotes "no explicit buffer
// assigned" (i.e. normalized to the mapped display's framebuffer).
type BID uint32

// BIDInvalid marks a scene's buffer assignment as normalized to the mapped
// display's framebuffer.
const BIDInvalid BID = 0xFFFFFFFF

func (b BID) String() string {
	if b == BIDInvalid {
		return "buffer(framebuffer)"
	}
	return fmt.Sprintf("buffer(%d)", uint32(b))
}

// SBID is a stream-buffer identifier: an externally produced image source
// exposed through the same linking protocol as an offscreen buffer.
type SBID uint32

// EBID is an external-buffer identifier, analogous to SBID.
type EBID uint32

// SlotKind distinguishes a data-slot's direction.
type SlotKind uint8

const (
	SlotProvider SlotKind = iota
	SlotConsumer
)

func (k SlotKind) String() string {
	if k == SlotProvider {
		return "provider"
	}
	return "consumer"
}

// SlotType is the payload type carried by a data slot. Two slots may only be
// linked when their types match.
type SlotType uint8

const (
	SlotTypeTransform SlotType = iota
	SlotTypeFloat
	SlotTypeVec2i
	SlotTypeVec4f
	SlotTypeTextureSampler
	SlotTypeViewportOffset
	SlotTypeViewportSize
)

// DataSlotID is a 32-bit identifier for a provider or consumer slot defined
// inside a scene.
type DataSlotID uint32

// SceneState is the ordered lifecycle of a scene known to the control plane.
// Ordering defines both "higher" and the direction the state machine steps.
type SceneState uint8

const (
	Unavailable SceneState = iota
	Available
	Ready
	Rendered
)

func (s SceneState) String() string {
	switch s {
	case Unavailable:
		return "Unavailable"
	case Available:
		return "Available"
	case Ready:
		return "Ready"
	case Rendered:
		return "Rendered"
	default:
		return fmt.Sprintf("SceneState(%d)", uint8(s))
	}
}

// Rank returns the state's position in the lifecycle ordering, used to check
// that a transition moved by exactly one step.
func (s SceneState) Rank() int { return int(s) }

// Step returns the state one notch closer to target, or s unchanged if
// already there. It never skips more than one step.
func (s SceneState) Step(target SceneState) SceneState {
	switch {
	case s.Rank() < target.Rank():
		return s + 1
	case s.Rank() > target.Rank():
		return s - 1
	default:
		return s
	}
}
