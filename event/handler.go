package event

import "github.com/oxy-render/scenectl/ids"

// Handler receives typed scene-control-plane callbacks. Implementations
// normally embed EmptyHandler and override only the events they care about.
type Handler interface {
	// SceneStateChanged fires after the mirror has already been updated to
	// state, so re-entrant API calls made from inside this callback observe
	// the new mirror value.
	SceneStateChanged(sid ids.SID, state ids.SceneState)

	OffscreenBufferLinked(bid ids.BID, consumer ids.SID, slot ids.DataSlotID, ok bool)
	StreamBufferLinked(sbid ids.SBID, consumer ids.SID, slot ids.DataSlotID, ok bool)
	ExternalBufferLinked(ebid ids.EBID, consumer ids.SID, slot ids.DataSlotID, ok bool)
	DataLinked(providerSID ids.SID, providerSlot ids.DataSlotID, consumerSID ids.SID, consumerSlot ids.DataSlotID, ok bool)
	DataUnlinked(consumer ids.SID, slot ids.DataSlotID, ok bool)

	DataProviderCreated(sid ids.SID, slot ids.DataSlotID)
	DataProviderDestroyed(sid ids.SID, slot ids.DataSlotID)
	DataConsumerCreated(sid ids.SID, slot ids.DataSlotID)
	DataConsumerDestroyed(sid ids.SID, slot ids.DataSlotID)

	ObjectsPicked(sid ids.SID, pickedIDs []uint64)

	SceneFlushed(sid ids.SID, version uint64)
	SceneExpirationMonitoringEnabled(sid ids.SID)
	SceneExpirationMonitoringDisabled(sid ids.SID)
	SceneExpired(sid ids.SID)
	SceneRecoveredFromExpiration(sid ids.SID)

	StreamAvailabilityChanged(sbid ids.SBID, available bool)
}

// EmptyHandler implements Handler with no-op methods. Embed it in a handler
// struct to override only the callbacks you need.
type EmptyHandler struct{}

var _ Handler = EmptyHandler{}

func (EmptyHandler) SceneStateChanged(ids.SID, ids.SceneState)                         {}
func (EmptyHandler) OffscreenBufferLinked(ids.BID, ids.SID, ids.DataSlotID, bool)      {}
func (EmptyHandler) StreamBufferLinked(ids.SBID, ids.SID, ids.DataSlotID, bool)        {}
func (EmptyHandler) ExternalBufferLinked(ids.EBID, ids.SID, ids.DataSlotID, bool)      {}
func (EmptyHandler) DataLinked(ids.SID, ids.DataSlotID, ids.SID, ids.DataSlotID, bool) {}
func (EmptyHandler) DataUnlinked(ids.SID, ids.DataSlotID, bool)                        {}
func (EmptyHandler) DataProviderCreated(ids.SID, ids.DataSlotID)                       {}
func (EmptyHandler) DataProviderDestroyed(ids.SID, ids.DataSlotID)                     {}
func (EmptyHandler) DataConsumerCreated(ids.SID, ids.DataSlotID)                       {}
func (EmptyHandler) DataConsumerDestroyed(ids.SID, ids.DataSlotID)                     {}
func (EmptyHandler) ObjectsPicked(ids.SID, []uint64)                                   {}
func (EmptyHandler) SceneFlushed(ids.SID, uint64)                                      {}
func (EmptyHandler) SceneExpirationMonitoringEnabled(ids.SID)                          {}
func (EmptyHandler) SceneExpirationMonitoringDisabled(ids.SID)                         {}
func (EmptyHandler) SceneExpired(ids.SID)                                              {}
func (EmptyHandler) SceneRecoveredFromExpiration(ids.SID)                              {}
func (EmptyHandler) StreamAvailabilityChanged(ids.SBID, bool)                          {}
