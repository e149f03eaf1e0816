package event

import "github.com/oxy-render/scenectl/ids"

// Chain is a stateless decorator that invokes h1 then h2 for every callback
// method. Order is fixed by construction. Used to layer application
// callbacks atop built-in convenience handlers (e.g. AutoShowHandler)
// without hidden coupling.
type Chain struct {
	h1, h2 Handler
}

var _ Handler = Chain{}

// NewChain returns a Handler that calls h1 then h2 for every event.
func NewChain(h1, h2 Handler) Chain {
	return Chain{h1: h1, h2: h2}
}

func (c Chain) SceneStateChanged(sid ids.SID, state ids.SceneState) {
	c.h1.SceneStateChanged(sid, state)
	c.h2.SceneStateChanged(sid, state)
}

func (c Chain) OffscreenBufferLinked(bid ids.BID, consumer ids.SID, slot ids.DataSlotID, ok bool) {
	c.h1.OffscreenBufferLinked(bid, consumer, slot, ok)
	c.h2.OffscreenBufferLinked(bid, consumer, slot, ok)
}

func (c Chain) StreamBufferLinked(sbid ids.SBID, consumer ids.SID, slot ids.DataSlotID, ok bool) {
	c.h1.StreamBufferLinked(sbid, consumer, slot, ok)
	c.h2.StreamBufferLinked(sbid, consumer, slot, ok)
}

func (c Chain) ExternalBufferLinked(ebid ids.EBID, consumer ids.SID, slot ids.DataSlotID, ok bool) {
	c.h1.ExternalBufferLinked(ebid, consumer, slot, ok)
	c.h2.ExternalBufferLinked(ebid, consumer, slot, ok)
}

func (c Chain) DataLinked(providerSID ids.SID, providerSlot ids.DataSlotID, consumerSID ids.SID, consumerSlot ids.DataSlotID, ok bool) {
	c.h1.DataLinked(providerSID, providerSlot, consumerSID, consumerSlot, ok)
	c.h2.DataLinked(providerSID, providerSlot, consumerSID, consumerSlot, ok)
}

func (c Chain) DataUnlinked(consumer ids.SID, slot ids.DataSlotID, ok bool) {
	c.h1.DataUnlinked(consumer, slot, ok)
	c.h2.DataUnlinked(consumer, slot, ok)
}

func (c Chain) DataProviderCreated(sid ids.SID, slot ids.DataSlotID) {
	c.h1.DataProviderCreated(sid, slot)
	c.h2.DataProviderCreated(sid, slot)
}

func (c Chain) DataProviderDestroyed(sid ids.SID, slot ids.DataSlotID) {
	c.h1.DataProviderDestroyed(sid, slot)
	c.h2.DataProviderDestroyed(sid, slot)
}

func (c Chain) DataConsumerCreated(sid ids.SID, slot ids.DataSlotID) {
	c.h1.DataConsumerCreated(sid, slot)
	c.h2.DataConsumerCreated(sid, slot)
}

func (c Chain) DataConsumerDestroyed(sid ids.SID, slot ids.DataSlotID) {
	c.h1.DataConsumerDestroyed(sid, slot)
	c.h2.DataConsumerDestroyed(sid, slot)
}

func (c Chain) ObjectsPicked(sid ids.SID, pickedIDs []uint64) {
	c.h1.ObjectsPicked(sid, pickedIDs)
	c.h2.ObjectsPicked(sid, pickedIDs)
}

func (c Chain) SceneFlushed(sid ids.SID, version uint64) {
	c.h1.SceneFlushed(sid, version)
	c.h2.SceneFlushed(sid, version)
}

func (c Chain) SceneExpirationMonitoringEnabled(sid ids.SID) {
	c.h1.SceneExpirationMonitoringEnabled(sid)
	c.h2.SceneExpirationMonitoringEnabled(sid)
}

func (c Chain) SceneExpirationMonitoringDisabled(sid ids.SID) {
	c.h1.SceneExpirationMonitoringDisabled(sid)
	c.h2.SceneExpirationMonitoringDisabled(sid)
}

func (c Chain) SceneExpired(sid ids.SID) {
	c.h1.SceneExpired(sid)
	c.h2.SceneExpired(sid)
}

func (c Chain) SceneRecoveredFromExpiration(sid ids.SID) {
	c.h1.SceneRecoveredFromExpiration(sid)
	c.h2.SceneRecoveredFromExpiration(sid)
}

func (c Chain) StreamAvailabilityChanged(sbid ids.SBID, available bool) {
	c.h1.StreamAvailabilityChanged(sbid, available)
	c.h2.StreamAvailabilityChanged(sbid, available)
}
