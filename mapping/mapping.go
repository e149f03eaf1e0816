// Package mapping implements the Target-State Controller: it guards and
// records display/buffer mapping configuration so the state machine's step
// into Ready has complete context.
package mapping

import (
	"fmt"
	"sync"

	"github.com/oxy-render/scenectl/ids"
)

// DisplayRegistry resolves a display's implicit framebuffer buffer. In
// production this is backed by the renderer; renderersim.Displays
// implements it for tests and examples.
type DisplayRegistry interface {
	Framebuffer(did ids.DID) (ids.BID, bool)
}

// Record is the mapping state tracked for a single scene.
type Record struct {
	MappingSet  bool
	Display     ids.DID
	Buffer      ids.BID // ids.BIDInvalid means "framebuffer of Display"
	RenderOrder int32
}

// Controller owns the mapping record for every SID it has seen.
type Controller struct {
	mu       sync.Mutex
	displays DisplayRegistry
	records  map[ids.SID]*Record
}

// New creates a Controller resolving framebuffers through displays.
func New(displays DisplayRegistry) *Controller {
	return &Controller{
		displays: displays,
		records:  make(map[ids.SID]*Record),
	}
}

func (c *Controller) record(sid ids.SID) *Record {
	r, ok := c.records[sid]
	if !ok {
		r = &Record{}
		c.records[sid] = r
	}
	return r
}

// Get returns a copy of sid's current mapping record.
func (c *Controller) Get(sid ids.SID) Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.record(sid)
}

// SetMapping records displayID as sid's mapping, clearing the buffer
// assignment to the display's framebuffer and zeroing render order. Permitted
// only while both current and target state are below Ready; the caller
// supplies those because they are owned by the state machine.
func (c *Controller) SetMapping(sid ids.SID, did ids.DID, current, target ids.SceneState) error {
	if current >= ids.Ready || target >= ids.Ready {
		return fmt.Errorf("mapping: cannot change mapping for %s: current or target state already at or above Ready", sid)
	}
	if _, ok := c.displays.Framebuffer(did); !ok {
		return fmt.Errorf("mapping: %s is not a known display", did)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.record(sid)
	r.MappingSet = true
	r.Display = did
	r.Buffer = ids.BIDInvalid
	r.RenderOrder = 0
	return nil
}

// SetBufferAssignment records bid and renderOrder as sid's display-buffer
// assignment. Permitted at any time after SetMapping has been called. If bid
// equals the mapped display's framebuffer, the recorded buffer is normalized
// to ids.BIDInvalid ("framebuffer").
func (c *Controller) SetBufferAssignment(sid ids.SID, bid ids.BID, renderOrder int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.record(sid)
	if !r.MappingSet {
		return fmt.Errorf("mapping: %s has no mapping set; call SetMapping first", sid)
	}

	fb, _ := c.displays.Framebuffer(r.Display)
	if bid == fb {
		bid = ids.BIDInvalid
	}
	r.Buffer = bid
	r.RenderOrder = renderOrder
	return nil
}
