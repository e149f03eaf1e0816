// Package control is the top-level facade of the scene-control plane: the
// object an application holds to request scene states, mapping, buffer
// assignment, and data links, flush those intents to the renderer, and
// dispatch the renderer's events back as typed callbacks.
//
// Control performs every eager, synchronous precondition check before a
// command ever reaches the queue — rejecting it with an APIError and
// enqueuing nothing — and keeps its own small client-side record per scene
// purely to make those checks, separate from whatever mapping/state
// bookkeeping the renderer itself keeps authoritatively.
package control

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/oxy-render/scenectl/event"
	"github.com/oxy-render/scenectl/ids"
	"github.com/oxy-render/scenectl/internal/common"
	"github.com/oxy-render/scenectl/queue"
)

// defaultTickRate is the owned-thread drive interval New starts with and
// WithTickRate falls back to when given a value <= 0 (~60Hz).
const defaultTickRate = 16 * time.Millisecond

// Code identifies which API-level precondition an APIError reports.
type Code uint8

const (
	NoMapping Code = iota
	MappingLocked
	AssignmentWithoutMapping
	SelfLink
	UnknownDisplay
	IllegalState
)

func (c Code) String() string {
	switch c {
	case NoMapping:
		return "NoMapping"
	case MappingLocked:
		return "MappingLocked"
	case AssignmentWithoutMapping:
		return "AssignmentWithoutMapping"
	case SelfLink:
		return "SelfLink"
	case UnknownDisplay:
		return "UnknownDisplay"
	case IllegalState:
		return "IllegalState"
	default:
		return "Unknown"
	}
}

// APIError is returned by API calls that violate a documented precondition.
// It is always returned before anything is enqueued.
type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("control: %s: %s", e.Code, e.Message) }

func apiErr(code Code, format string, args ...any) *APIError {
	return &APIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// DisplayLookup resolves whether a DID has been created. renderersim.Displays
// implements it.
type DisplayLookup interface {
	Known(did ids.DID) bool
}

type clientRecord struct {
	target         ids.SceneState
	mappingSet     bool
	mappingDisplay ids.DID
}

// Control is the scene-control plane API object. Create one with New.
type Control struct {
	mu       sync.Mutex
	records  map[ids.SID]*clientRecord
	queue    *queue.Queue
	demux    *event.Demux
	displays DisplayLookup
	logger   *log.Logger

	mode concurrencyMode

	tickRate  time.Duration
	quit      chan struct{}
	quitOnce  sync.Once
	wg        sync.WaitGroup
	doOneTick func()
}

type concurrencyMode uint8

const (
	modeUnset concurrencyMode = iota
	modeHosted
	modeOwnedThread
)

// Option configures a Control at construction time.
type Option func(*Control)

// WithLogger overrides the default logger, which writes to os.Stderr with
// the standard log flags. Pass your own *log.Logger to integrate with an
// application's existing logging setup.
func WithLogger(l *log.Logger) Option {
	return func(c *Control) { c.logger = l }
}

// WithTickRate sets the interval StartThread drives the renderer at in
// owned-thread mode. Values <= 0 fall back to the default (16ms, ~60Hz).
func WithTickRate(d time.Duration) Option {
	return func(c *Control) {
		if d <= 0 {
			d = 0
		}
		c.tickRate = common.Coalesce(d, defaultTickRate)
	}
}

// New creates a Control that flushes commands to intake, resolves displays
// through displays, and drives the renderer via tick. tick is called once
// per cycle by both DoOneLoop and the owned-thread loop; it is the caller's
// responsibility to have tick both advance the renderer and feed whatever
// events it produced into Stage — e.g.
//
//	r := renderersim.New(displays)
//	c := control.New(r, r.Displays, func() {
//		r.Tick()
//		c.Stage(r.Events()...)
//	})
//
// (c is captured by the closure after its own declaration; see the package
// tests for the exact two-step construction this requires in Go.)
func New(intake queue.Intake, displays DisplayLookup, tick func(), opts ...Option) *Control {
	c := &Control{
		records:   make(map[ids.SID]*clientRecord),
		queue:     queue.New(intake),
		demux:     event.New(),
		displays:  displays,
		logger:    log.New(os.Stderr, "scenectl: ", log.LstdFlags),
		tickRate:  defaultTickRate,
		doOneTick: tick,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Control) record(sid ids.SID) *clientRecord {
	r, ok := c.records[sid]
	if !ok {
		r = &clientRecord{}
		c.records[sid] = r
	}
	return r
}

// SetSceneState requests target_state := state for sid. Rejected eagerly
// (NoMapping) if state >= Ready and no mapping has been set; rejected
// (IllegalState) if state == Unavailable, since releasing a scene is
// requested via Available, not by naming Unavailable directly.
func (c *Control) SetSceneState(sid ids.SID, state ids.SceneState) error {
	if state == ids.Unavailable {
		return apiErr(IllegalState, "set_scene_state(%s, Unavailable) is not permitted; target Available to release", sid)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.record(sid)
	if state.Rank() >= ids.Ready.Rank() && !rec.mappingSet {
		return apiErr(NoMapping, "%s has no mapping; set one before targeting %s", sid, state)
	}

	rec.target = state
	c.queue.Enqueue(queue.Command{Kind: queue.KindSetSceneState, SID: uint64(sid), State: uint8(state)})
	return nil
}

// SetSceneMapping records did as sid's display. Permitted only while both
// the client's mirrored current_state and its own cached target are below
// Ready; rejected (MappingLocked) otherwise, or (UnknownDisplay) if did was
// never registered with the display registry.
func (c *Control) SetSceneMapping(sid ids.SID, did ids.DID) error {
	if !c.displays.Known(did) {
		return apiErr(UnknownDisplay, "%s is not a known display", did)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.demux.CurrentState(sid)
	rec := c.record(sid)
	if current.Rank() >= ids.Ready.Rank() || rec.target.Rank() >= ids.Ready.Rank() {
		return apiErr(MappingLocked, "%s cannot change mapping while current or target state is at or above Ready", sid)
	}

	rec.mappingSet = true
	rec.mappingDisplay = did
	c.queue.Enqueue(queue.Command{Kind: queue.KindSetSceneMapping, SID: uint64(sid), DID: uint32(did)})
	return nil
}

// SetSceneDisplayBufferAssignment records bid and renderOrder as sid's
// buffer assignment. Rejected (AssignmentWithoutMapping) if no mapping has
// been set yet.
func (c *Control) SetSceneDisplayBufferAssignment(sid ids.SID, bid ids.BID, renderOrder int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.record(sid).mappingSet {
		return apiErr(AssignmentWithoutMapping, "%s has no mapping set", sid)
	}

	c.queue.Enqueue(queue.Command{
		Kind: queue.KindSetSceneDisplayBufferAssignment, SID: uint64(sid), BID: uint32(bid), RenderOrder: renderOrder,
	})
	return nil
}

// LinkOffscreenBuffer requests a data link from bid to consumer's slot. The
// buffer's ownership and the consumer's state/mapping are validated
// renderer-side; failure is surfaced as a result=false event, not an error.
func (c *Control) LinkOffscreenBuffer(bid ids.BID, consumer ids.SID, slot ids.DataSlotID) {
	c.queue.Enqueue(queue.Command{
		Kind: queue.KindLinkOffscreenBuffer, BID: uint32(bid), ConsumerSID: uint64(consumer), ConsumerSlot: uint32(slot),
	})
}

// LinkStreamBuffer is LinkOffscreenBuffer's analogue for stream buffers.
func (c *Control) LinkStreamBuffer(sbid ids.SBID, consumer ids.SID, slot ids.DataSlotID) {
	c.queue.Enqueue(queue.Command{
		Kind: queue.KindLinkStreamBuffer, SBID: uint32(sbid), ConsumerSID: uint64(consumer), ConsumerSlot: uint32(slot),
	})
}

// LinkExternalBuffer is LinkOffscreenBuffer's analogue for external buffers.
func (c *Control) LinkExternalBuffer(ebid ids.EBID, consumer ids.SID, slot ids.DataSlotID) {
	c.queue.Enqueue(queue.Command{
		Kind: queue.KindLinkExternalBuffer, EBID: uint32(ebid), ConsumerSID: uint64(consumer), ConsumerSlot: uint32(slot),
	})
}

// LinkData requests a scene-to-scene data link from provider's slot to
// consumer's slot. Rejected (SelfLink) eagerly if provider == consumer;
// every other precondition is renderer-side and surfaced as an event.
func (c *Control) LinkData(provider ids.SID, providerSlot ids.DataSlotID, consumer ids.SID, consumerSlot ids.DataSlotID) error {
	if provider == consumer {
		return apiErr(SelfLink, "provider and consumer scene are both %s", provider)
	}
	c.queue.Enqueue(queue.Command{
		Kind: queue.KindLinkData, ProviderSID: uint64(provider), ProviderSlot: uint32(providerSlot),
		ConsumerSID: uint64(consumer), ConsumerSlot: uint32(consumerSlot),
	})
	return nil
}

// UnlinkData removes whichever link currently attaches to consumer's slot.
func (c *Control) UnlinkData(consumer ids.SID, slot ids.DataSlotID) {
	c.queue.Enqueue(queue.Command{Kind: queue.KindUnlinkData, ConsumerSID: uint64(consumer), ConsumerSlot: uint32(slot)})
}

// HandlePick enqueues a hit-test request at buffer-normalized (nx, ny).
func (c *Control) HandlePick(sid ids.SID, nx, ny float32) {
	c.queue.Enqueue(queue.Command{Kind: queue.KindHandlePick, SID: uint64(sid), PickX: nx, PickY: ny})
}

// Flush commits every pending command to the renderer. Never blocks.
func (c *Control) Flush() {
	c.queue.Flush()
}

// clientMirror resets a scene's cached client-side target the instant the
// renderer reports it Unavailable — entirely separate from whatever driving
// target the renderer itself remembers for redriving after republish
// (statemachine.Machine.TargetState is never reset this way).
type clientMirror struct {
	event.EmptyHandler
	c *Control
}

func (m clientMirror) SceneStateChanged(sid ids.SID, state ids.SceneState) {
	if state != ids.Unavailable {
		return
	}
	m.c.mu.Lock()
	m.c.record(sid).target = ids.Unavailable
	m.c.mu.Unlock()
}

// DispatchEvents drains events staged since the last call and invokes h's
// callbacks in arrival order. The client-side target-state reset on
// unpublish always runs first, so h observes a consistent record even if it
// re-enters the API.
func (c *Control) DispatchEvents(h event.Handler) {
	c.demux.Dispatch(event.NewChain(clientMirror{c: c}, h))
}

// Stage feeds events produced by the renderer since the last call into the
// pending batch DispatchEvents will drain. renderersim.Renderer.Events is
// the production source in this module.
func (c *Control) Stage(events ...event.Raw) {
	c.demux.Stage(events...)
}

// CurrentState returns the client-side mirror of sid's current_state.
func (c *Control) CurrentState(sid ids.SID) ids.SceneState {
	return c.demux.CurrentState(sid)
}

// LastKnownVersion returns the version tag of the last applied content flush
// observed for sid.
func (c *Control) LastKnownVersion(sid ids.SID) uint64 {
	return c.demux.LastKnownVersion(sid)
}

// DoOneLoop advances the renderer by exactly one cycle on the caller's
// thread (hosted-loop mode). Switching to StartThread afterward is
// forbidden.
func (c *Control) DoOneLoop() {
	c.mu.Lock()
	if c.mode == modeOwnedThread {
		c.mu.Unlock()
		panic("control: DoOneLoop called after StartThread; switching concurrency mode is forbidden")
	}
	c.mode = modeHosted
	c.mu.Unlock()

	c.doOneTick()
}

// StartThread launches the owned-thread loop, ticking the renderer once per
// configured tick rate until StopThread is called. Switching to DoOneLoop
// afterward is forbidden. Grounded on engine.go's handleEngine goroutine
// loop: a quit channel plus sync.Once/WaitGroup for a clean, idempotent
// join.
func (c *Control) StartThread() {
	c.mu.Lock()
	if c.mode == modeHosted {
		c.mu.Unlock()
		panic("control: StartThread called after DoOneLoop; switching concurrency mode is forbidden")
	}
	c.mode = modeOwnedThread
	quit := make(chan struct{})
	c.quit = quit
	rate := c.tickRate
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(rate)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				c.doOneTick() // process whatever was flushed before StopThread
				return
			case <-ticker.C:
				c.doOneTick()
			}
		}
	}()
}

// StopThread signals the owned-thread loop to exit and waits for it to
// join. Commands already flushed are still processed before the thread
// exits. Safe to call multiple times or when the loop was never started.
func (c *Control) StopThread() {
	c.quitOnce.Do(func() {
		if c.quit != nil {
			close(c.quit)
		}
	})
	c.wg.Wait()
}
