// Package event converts the single opaque event stream produced by the
// renderer into typed callbacks, and maintains the client-side mirror of
// each scene's current state.
//
// One raw event in, exactly one typed handler call out, with the state
// mirror updated before the corresponding callback fires.
package event

import "github.com/oxy-render/scenectl/ids"

// Kind identifies which Raw event a renderer produced.
type Kind uint8

const (
	KindSceneStateChanged Kind = iota
	KindOffscreenBufferLinked
	KindStreamBufferLinked
	KindExternalBufferLinked
	KindDataLinked
	KindDataUnlinked
	KindDataConsumerChangeUnlinked // acknowledged, never forwarded — semantics unclear, intentionally not wired to a callback
	KindDataProviderCreated
	KindDataProviderDestroyed
	KindDataConsumerCreated
	KindDataConsumerDestroyed
	KindObjectsPicked
	KindSceneFlushed
	KindSceneExpirationMonitoringEnabled
	KindSceneExpirationMonitoringDisabled
	KindSceneExpired
	KindSceneRecoveredFromExpiration
	KindStreamAvailabilityChanged
)

// Raw is a single event produced by the renderer, not yet dispatched to a
// Handler. Only the fields relevant to Kind are populated.
type Raw struct {
	Kind Kind

	SID, ProviderSID, ConsumerSID ids.SID
	State                         ids.SceneState
	BID                           ids.BID
	SBID                          ids.SBID
	EBID                          ids.EBID
	ProviderSlot, ConsumerSlot    ids.DataSlotID
	Result                        bool
	Version                       uint64
	PickedIDs                     []uint64
	StreamAvailable               bool
}
