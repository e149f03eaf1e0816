// Package link implements the Link Manager: validation rules for the
// provider→consumer data-link graph (offscreen/stream/external buffers and
// in-scene data slots) plus a record of the current link for each consumer
// slot, which renderersim.Renderer keeps up to date.
//
// Validation is renderer-side knowledge (whether a scene is Ready and mapped
// to the right display, whether slot types match); renderersim.Renderer
// calls the Validate* functions here with its own bookkeeping so the rule
// lives in exactly one place, shared by both "sides" of the control plane.
package link

import (
	"fmt"
	"sync"

	"github.com/oxy-render/scenectl/ids"
)

// SourceKind identifies what kind of provider a consumer slot is linked to.
type SourceKind uint8

const (
	SourceOffscreenBuffer SourceKind = iota
	SourceStreamBuffer
	SourceExternalBuffer
	SourceData
)

// Source describes whatever a consumer slot is currently linked to.
type Source struct {
	Kind SourceKind

	BID  ids.BID
	SBID ids.SBID
	EBID ids.EBID

	ProviderSID  ids.SID
	ProviderSlot ids.DataSlotID
}

// ValidateBufferLink checks the buffer→consumer precondition: the consumer
// scene must be ≥ Ready and mapped to the same display that owns the buffer.
func ValidateBufferLink(consumerState ids.SceneState, consumerMapped bool, consumerDisplay, bufferDisplay ids.DID) error {
	if consumerState < ids.Ready {
		return fmt.Errorf("link: consumer scene is not Ready")
	}
	if !consumerMapped {
		return fmt.Errorf("link: consumer scene has no mapping")
	}
	if consumerDisplay != bufferDisplay {
		return fmt.Errorf("link: consumer scene is not mapped to the buffer's display")
	}
	return nil
}

// ValidateDataLink checks the scene→scene precondition: both scenes must be
// ≥ Ready and mapped to the same display, and their slot types must match.
// provider == consumer is rejected eagerly at the API boundary
// (control.Control), not here.
func ValidateDataLink(providerState, consumerState ids.SceneState, providerMapped, consumerMapped bool, providerDisplay, consumerDisplay ids.DID, providerType, consumerType ids.SlotType) error {
	if providerState < ids.Ready || consumerState < ids.Ready {
		return fmt.Errorf("link: both provider and consumer scenes must be Ready")
	}
	if !providerMapped || !consumerMapped {
		return fmt.Errorf("link: both provider and consumer scenes must be mapped")
	}
	if providerDisplay != consumerDisplay {
		return fmt.Errorf("link: provider and consumer scenes must be mapped to the same display")
	}
	if providerType != consumerType {
		return fmt.Errorf("link: provider and consumer slot types do not match")
	}
	return nil
}

// Manager records which Source (if any) each consumer slot is currently
// linked to. A consumer linked twice is last-writer-wins on
// success; on failure the previous link's fate is left as the caller last
// observed it.
type Manager struct {
	mu    sync.Mutex
	links map[ids.SID]map[ids.DataSlotID]Source
}

// New creates an empty link Manager.
func New() *Manager {
	return &Manager{links: make(map[ids.SID]map[ids.DataSlotID]Source)}
}

// OnLinked records a successful link of consumer/slot to src.
func (m *Manager) OnLinked(consumer ids.SID, slot ids.DataSlotID, src Source) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bySlot, ok := m.links[consumer]
	if !ok {
		bySlot = make(map[ids.DataSlotID]Source)
		m.links[consumer] = bySlot
	}
	bySlot[slot] = src
}

// OnUnlinked removes whichever link currently attaches to consumer/slot.
func (m *Manager) OnUnlinked(consumer ids.SID, slot ids.DataSlotID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links[consumer], slot)
}

// Lookup returns the Source currently linked to consumer/slot, if any.
func (m *Manager) Lookup(consumer ids.SID, slot ids.DataSlotID) (Source, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.links[consumer][slot]
	return src, ok
}
