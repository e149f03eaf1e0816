package event

import (
	"sync"

	"github.com/oxy-render/scenectl/ids"
)

// Demux stages raw renderer events and demultiplexes them into typed Handler
// calls on Dispatch, maintaining the client-side mirror of each scene's
// current state and last-known flush version.
//
// Demux is touched only from the thread that calls Dispatch; Stage may be
// called from any thread that produces events (renderersim's loop thread in
// owned-thread mode).
type Demux struct {
	mu      sync.Mutex
	staged  []Raw
	depth   int // number of Dispatch calls currently running
	mirror  map[ids.SID]ids.SceneState
	version map[ids.SID]uint64
}

// New creates an empty Demux.
func New() *Demux {
	return &Demux{
		mirror:  make(map[ids.SID]ids.SceneState),
		version: make(map[ids.SID]uint64),
	}
}

// Stage appends events produced by the renderer since the last Dispatch.
func (d *Demux) Stage(events ...Raw) {
	if len(events) == 0 {
		return
	}
	d.mu.Lock()
	d.staged = append(d.staged, events...)
	d.mu.Unlock()
}

// CurrentState returns the mirrored current_state for sid (Unavailable if
// the scene has never been observed).
func (d *Demux) CurrentState(sid ids.SID) ids.SceneState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mirror[sid]
}

// LastKnownVersion returns the version tag of the last applied content flush
// observed for sid.
func (d *Demux) LastKnownVersion(sid ids.SID) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version[sid]
}

// Dispatch drains events staged before this call began and invokes h's
// methods in arrival order, exactly once per event. A Dispatch made from
// inside a handler callback drains nothing: the outer call has already
// claimed every event staged when it began, and events staged since then
// (by a re-entrant Flush and tick, say) are left for a later Dispatch.
func (d *Demux) Dispatch(h Handler) {
	d.mu.Lock()
	n := len(d.staged)
	if d.depth > 0 {
		n = 0
	}
	d.depth++
	batch := make([]Raw, n)
	copy(batch, d.staged[:n])
	d.staged = d.staged[n:]
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.depth--
		d.mu.Unlock()
	}()

	for _, raw := range batch {
		d.dispatchOne(raw, h)
	}
}

func (d *Demux) dispatchOne(raw Raw, h Handler) {
	switch raw.Kind {
	case KindSceneStateChanged:
		d.mu.Lock()
		d.mirror[raw.SID] = raw.State
		d.mu.Unlock()
		h.SceneStateChanged(raw.SID, raw.State)
	case KindOffscreenBufferLinked:
		h.OffscreenBufferLinked(raw.BID, raw.ConsumerSID, raw.ConsumerSlot, raw.Result)
	case KindStreamBufferLinked:
		h.StreamBufferLinked(raw.SBID, raw.ConsumerSID, raw.ConsumerSlot, raw.Result)
	case KindExternalBufferLinked:
		h.ExternalBufferLinked(raw.EBID, raw.ConsumerSID, raw.ConsumerSlot, raw.Result)
	case KindDataLinked:
		h.DataLinked(raw.ProviderSID, raw.ProviderSlot, raw.ConsumerSID, raw.ConsumerSlot, raw.Result)
	case KindDataUnlinked:
		h.DataUnlinked(raw.ConsumerSID, raw.ConsumerSlot, raw.Result)
	case KindDataConsumerChangeUnlinked:
		// Legacy event; semantics unclear, intentionally not forwarded.
	case KindDataProviderCreated:
		h.DataProviderCreated(raw.SID, raw.ProviderSlot)
	case KindDataProviderDestroyed:
		h.DataProviderDestroyed(raw.SID, raw.ProviderSlot)
	case KindDataConsumerCreated:
		h.DataConsumerCreated(raw.SID, raw.ConsumerSlot)
	case KindDataConsumerDestroyed:
		h.DataConsumerDestroyed(raw.SID, raw.ConsumerSlot)
	case KindObjectsPicked:
		h.ObjectsPicked(raw.SID, raw.PickedIDs)
	case KindSceneFlushed:
		d.mu.Lock()
		d.version[raw.SID] = raw.Version
		d.mu.Unlock()
		h.SceneFlushed(raw.SID, raw.Version)
	case KindSceneExpirationMonitoringEnabled:
		h.SceneExpirationMonitoringEnabled(raw.SID)
	case KindSceneExpirationMonitoringDisabled:
		h.SceneExpirationMonitoringDisabled(raw.SID)
	case KindSceneExpired:
		h.SceneExpired(raw.SID)
	case KindSceneRecoveredFromExpiration:
		h.SceneRecoveredFromExpiration(raw.SID)
	case KindStreamAvailabilityChanged:
		h.StreamAvailabilityChanged(raw.SBID, raw.StreamAvailable)
	default:
		panic("event: unknown raw event kind")
	}
}
