// Package renderersim is the in-process stand-in for "the renderer" used by
// tests, examples, and control.Control's two concurrency modes. It is the one
// place in this module that plays both sides of the wire: it accepts queue
// commands as an intake, drives statemachine.Machine, validates links via
// link.Validate*, resolves display framebuffers for mapping.Controller, and
// hands its own produced events back as an event.Raw stream.
//
// Nothing under control exercises renderersim directly as a production
// dependency — a real deployment would replace it with a transport to an
// actual renderer process. Its owned-thread loop (goroutine + quit channel +
// sync.Once) is adapted to a scene-control-plane simulator instead of a 3D
// engine frame loop.
package renderersim

import (
	"sync"

	"github.com/oxy-render/scenectl/event"
	"github.com/oxy-render/scenectl/ids"
	"github.com/oxy-render/scenectl/link"
	"github.com/oxy-render/scenectl/mapping"
	"github.com/oxy-render/scenectl/pick"
	"github.com/oxy-render/scenectl/queue"
	"github.com/oxy-render/scenectl/statemachine"
)

// StepOutcome lets a test script control how many times a given step (map,
// show, hide, unmap) fails before it succeeds. The zero value always
// succeeds immediately.
type StepOutcome struct {
	FailCount int // number of leading failures before success
}

// Displays is the display registry owned by a Renderer: each display has an
// implicit framebuffer BID, and owns zero or more offscreen/stream/external
// buffers.
type Displays struct {
	mu          sync.Mutex
	framebuffer map[ids.DID]ids.BID
	offscreen   map[ids.BID]ids.DID
	stream      map[ids.SBID]ids.DID
	external    map[ids.EBID]ids.DID
}

// NewDisplays creates an empty display registry.
func NewDisplays() *Displays {
	return &Displays{
		framebuffer: make(map[ids.DID]ids.BID),
		offscreen:   make(map[ids.BID]ids.DID),
		stream:      make(map[ids.SBID]ids.DID),
		external:    make(map[ids.EBID]ids.DID),
	}
}

// AddDisplay registers did with an implicit framebuffer bid.
func (d *Displays) AddDisplay(did ids.DID, framebuffer ids.BID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.framebuffer[did] = framebuffer
}

// AddOffscreenBuffer registers bid as owned by did.
func (d *Displays) AddOffscreenBuffer(did ids.DID, bid ids.BID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offscreen[bid] = did
}

// AddStreamBuffer registers sbid as owned by did.
func (d *Displays) AddStreamBuffer(did ids.DID, sbid ids.SBID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stream[sbid] = did
}

// AddExternalBuffer registers ebid as owned by did.
func (d *Displays) AddExternalBuffer(did ids.DID, ebid ids.EBID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.external[ebid] = did
}

// Framebuffer implements mapping.DisplayRegistry.
func (d *Displays) Framebuffer(did ids.DID) (ids.BID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	bid, ok := d.framebuffer[did]
	return bid, ok
}

// Known implements control.DisplayLookup.
func (d *Displays) Known(did ids.DID) bool {
	_, ok := d.Framebuffer(did)
	return ok
}

func (d *Displays) offscreenDisplay(bid ids.BID) (ids.DID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	did, ok := d.offscreen[bid]
	return did, ok
}

func (d *Displays) streamDisplay(sbid ids.SBID) (ids.DID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	did, ok := d.stream[sbid]
	return did, ok
}

func (d *Displays) externalDisplay(ebid ids.EBID) (ids.DID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	did, ok := d.external[ebid]
	return did, ok
}

// Renderer is the simulated renderer core: it implements queue.Intake
// (command acceptance), statemachine.Executor (step outcomes), and drives a
// pick.Registry and link.Manager on behalf of whichever scenes it tracks.
type Renderer struct {
	Displays *Displays
	Machine  *statemachine.Machine
	Mapping  *mapping.Controller
	Links    *link.Manager
	Picks    *pick.Registry

	mu          sync.Mutex
	scheduled   []queue.Command
	stepOutcome map[ids.SID]map[statemachine.StepKind]*StepOutcome
	sceneSlots  map[ids.SID]map[ids.DataSlotID]ids.SlotType

	events   []event.Raw
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Renderer backed by displays (a *Displays created by
// NewDisplays). machineOpts are forwarded to
// statemachine.New, e.g. statemachine.WithWorkerPool for scenes counted in
// the hundreds.
func New(displays *Displays, machineOpts ...statemachine.Option) *Renderer {
	m := statemachine.New(machineOpts...)
	return &Renderer{
		Displays:    displays,
		Machine:     m,
		Mapping:     mapping.New(displays),
		Links:       link.New(),
		Picks:       pick.New(),
		stepOutcome: make(map[ids.SID]map[statemachine.StepKind]*StepOutcome),
		sceneSlots:  make(map[ids.SID]map[ids.DataSlotID]ids.SlotType),
	}
}

// DeclareSlot records the slot type a scene exposes at slot, for data-link
// type-matching. Scenes with no declared slot type default to
// ids.SlotTypeTransform.
func (r *Renderer) DeclareSlot(sid ids.SID, slot ids.DataSlotID, kind ids.SlotType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bySlot, ok := r.sceneSlots[sid]
	if !ok {
		bySlot = make(map[ids.DataSlotID]ids.SlotType)
		r.sceneSlots[sid] = bySlot
	}
	bySlot[slot] = kind
}

func (r *Renderer) slotType(sid ids.SID, slot ids.DataSlotID) ids.SlotType {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sceneSlots[sid][slot]
}

// SetStepOutcome configures how many times the given step fails for sid
// before it succeeds. Intended for tests exercising retry and recovery.
func (r *Renderer) SetStepOutcome(sid ids.SID, kind statemachine.StepKind, failCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bySid, ok := r.stepOutcome[sid]
	if !ok {
		bySid = make(map[statemachine.StepKind]*StepOutcome)
		r.stepOutcome[sid] = bySid
	}
	bySid[kind] = &StepOutcome{FailCount: failCount}
}

// BeginStep implements statemachine.Executor. Outcomes are reported
// synchronously, from within the Tick call that issued them, which is
// sufficient to exercise retry: a configured failure simply leaves current
// and target unchanged so the very next Tick reissues the same step.
func (r *Renderer) BeginStep(sid ids.SID, kind statemachine.StepKind, callback statemachine.StepCallback) {
	r.mu.Lock()
	outcome, ok := r.stepOutcome[sid][kind]
	if ok && outcome.FailCount > 0 {
		outcome.FailCount--
		r.mu.Unlock()
		callback(false)
		return
	}
	r.mu.Unlock()
	callback(true)
}

// Publish reports sid as published to the state machine.
func (r *Renderer) Publish(sid ids.SID) {
	r.Machine.OnPublish(sid)
	r.drainMachineEvents()
}

// Unpublish reports sid as unpublished to the state machine.
func (r *Renderer) Unpublish(sid ids.SID) {
	r.Machine.OnUnpublish(sid)
	r.drainMachineEvents()
}

func (r *Renderer) drainMachineEvents() {
	events := r.Machine.Drain()
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
}

// Submit implements queue.Intake. Commands submitted before a Tick/DoOneLoop
// call are only observed by that call — Submit itself never executes them
// synchronously, so a Flush made from inside an event callback produces no
// events until the next Tick.
func (r *Renderer) Submit(commands []queue.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, commands...)
}

// Tick executes every command scheduled since the last Tick, then advances
// the state machine by one step per scene. This is the unit of work a
// hosted-loop caller's do_one_loop performs, and what an owned-thread loop
// performs once per tick interval.
func (r *Renderer) Tick() {
	r.mu.Lock()
	commands := r.scheduled
	r.scheduled = nil
	r.mu.Unlock()

	for _, cmd := range commands {
		r.apply(cmd)
	}
	r.Machine.Tick(r)
	r.drainMachineEvents()
}

func (r *Renderer) apply(cmd queue.Command) {
	switch cmd.Kind {
	case queue.KindSetSceneState:
		r.applySetSceneState(cmd)
	case queue.KindSetSceneMapping:
		r.applySetSceneMapping(cmd)
	case queue.KindSetSceneDisplayBufferAssignment:
		r.applySetSceneDisplayBufferAssignment(cmd)
	case queue.KindLinkOffscreenBuffer:
		r.applyLinkOffscreenBuffer(cmd)
	case queue.KindLinkStreamBuffer:
		r.applyLinkStreamBuffer(cmd)
	case queue.KindLinkExternalBuffer:
		r.applyLinkExternalBuffer(cmd)
	case queue.KindLinkData:
		r.applyLinkData(cmd)
	case queue.KindUnlinkData:
		r.applyUnlinkData(cmd)
	case queue.KindHandlePick:
		r.applyHandlePick(cmd)
	}
}

func (r *Renderer) applySetSceneState(cmd queue.Command) {
	r.Machine.SetTarget(ids.SID(cmd.SID), ids.SceneState(cmd.State))
}

func (r *Renderer) applySetSceneMapping(cmd queue.Command) {
	sid := ids.SID(cmd.SID)
	current := r.Machine.CurrentState(sid)
	target := r.Machine.TargetState(sid)
	if err := r.Mapping.SetMapping(sid, ids.DID(cmd.DID), current, target); err != nil {
		return
	}
}

func (r *Renderer) applySetSceneDisplayBufferAssignment(cmd queue.Command) {
	sid := ids.SID(cmd.SID)
	if err := r.Mapping.SetBufferAssignment(sid, ids.BID(cmd.BID), cmd.RenderOrder); err != nil {
		return
	}
}

func (r *Renderer) applyLinkOffscreenBuffer(cmd queue.Command) {
	bid := ids.BID(cmd.BID)
	consumer := ids.SID(cmd.ConsumerSID)
	slot := ids.DataSlotID(cmd.ConsumerSlot)

	bufferDisplay, known := r.Displays.offscreenDisplay(bid)
	rec := r.Mapping.Get(consumer)
	state := r.Machine.CurrentState(consumer)
	ok := known && link.ValidateBufferLink(state, rec.MappingSet, rec.Display, bufferDisplay) == nil
	if ok {
		r.Links.OnLinked(consumer, slot, link.Source{Kind: link.SourceOffscreenBuffer, BID: bid})
	}
	r.mu.Lock()
	r.events = append(r.events, event.Raw{Kind: event.KindOffscreenBufferLinked, ConsumerSID: consumer, ConsumerSlot: slot, BID: bid, Result: ok})
	r.mu.Unlock()
}

func (r *Renderer) applyLinkStreamBuffer(cmd queue.Command) {
	sbid := ids.SBID(cmd.SBID)
	consumer := ids.SID(cmd.ConsumerSID)
	slot := ids.DataSlotID(cmd.ConsumerSlot)

	bufferDisplay, known := r.Displays.streamDisplay(sbid)
	rec := r.Mapping.Get(consumer)
	state := r.Machine.CurrentState(consumer)
	ok := known && link.ValidateBufferLink(state, rec.MappingSet, rec.Display, bufferDisplay) == nil
	if ok {
		r.Links.OnLinked(consumer, slot, link.Source{Kind: link.SourceStreamBuffer, SBID: sbid})
	}
	r.mu.Lock()
	r.events = append(r.events, event.Raw{Kind: event.KindStreamBufferLinked, ConsumerSID: consumer, ConsumerSlot: slot, SBID: sbid, Result: ok})
	r.mu.Unlock()
}

func (r *Renderer) applyLinkExternalBuffer(cmd queue.Command) {
	ebid := ids.EBID(cmd.EBID)
	consumer := ids.SID(cmd.ConsumerSID)
	slot := ids.DataSlotID(cmd.ConsumerSlot)

	bufferDisplay, known := r.Displays.externalDisplay(ebid)
	rec := r.Mapping.Get(consumer)
	state := r.Machine.CurrentState(consumer)
	ok := known && link.ValidateBufferLink(state, rec.MappingSet, rec.Display, bufferDisplay) == nil
	if ok {
		r.Links.OnLinked(consumer, slot, link.Source{Kind: link.SourceExternalBuffer, EBID: ebid})
	}
	r.mu.Lock()
	r.events = append(r.events, event.Raw{Kind: event.KindExternalBufferLinked, ConsumerSID: consumer, ConsumerSlot: slot, EBID: ebid, Result: ok})
	r.mu.Unlock()
}

func (r *Renderer) applyLinkData(cmd queue.Command) {
	provider := ids.SID(cmd.ProviderSID)
	consumer := ids.SID(cmd.ConsumerSID)
	providerSlot := ids.DataSlotID(cmd.ProviderSlot)
	consumerSlot := ids.DataSlotID(cmd.ConsumerSlot)

	providerRec := r.Mapping.Get(provider)
	consumerRec := r.Mapping.Get(consumer)
	providerState := r.Machine.CurrentState(provider)
	consumerState := r.Machine.CurrentState(consumer)
	providerType := r.slotType(provider, providerSlot)
	consumerType := r.slotType(consumer, consumerSlot)

	err := link.ValidateDataLink(providerState, consumerState, providerRec.MappingSet, consumerRec.MappingSet,
		providerRec.Display, consumerRec.Display, providerType, consumerType)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.events = append(r.events, event.Raw{Kind: event.KindDataLinked, ProviderSID: provider, ConsumerSID: consumer, ProviderSlot: providerSlot, ConsumerSlot: consumerSlot, Result: false})
		return
	}
	r.Links.OnLinked(consumer, consumerSlot, link.Source{Kind: link.SourceData, ProviderSID: provider, ProviderSlot: providerSlot})
	r.events = append(r.events, event.Raw{Kind: event.KindDataLinked, ProviderSID: provider, ConsumerSID: consumer, ProviderSlot: providerSlot, ConsumerSlot: consumerSlot, Result: true})
}

func (r *Renderer) applyUnlinkData(cmd queue.Command) {
	consumer := ids.SID(cmd.ConsumerSID)
	slot := ids.DataSlotID(cmd.ConsumerSlot)
	r.Links.OnUnlinked(consumer, slot)
	r.mu.Lock()
	r.events = append(r.events, event.Raw{Kind: event.KindDataUnlinked, ConsumerSID: consumer, ConsumerSlot: slot, Result: true})
	r.mu.Unlock()
}

func (r *Renderer) applyHandlePick(cmd queue.Command) {
	sid := ids.SID(cmd.SID)
	hits := r.Picks.HitTest(sid, cmd.PickX, cmd.PickY)
	r.mu.Lock()
	r.events = append(r.events, event.Raw{Kind: event.KindObjectsPicked, SID: sid, PickedIDs: hits})
	r.mu.Unlock()
}

// Events returns and clears every event produced since the last call,
// mirroring the renderer's opaque outgoing event stream that
// event.Demux.Stage consumes.
func (r *Renderer) Events() []event.Raw {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// StartThread launches the owned-thread loop: Tick fires once per interval
// until StopThread is called. Grounded on engine.go's handleEngine loop —
// a goroutine guarded by a quit channel and joined exactly once via
// sync.Once/WaitGroup.
func (r *Renderer) StartThread(interval func() <-chan struct{}) {
	r.quit = make(chan struct{})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticks := interval()
		for {
			select {
			case <-r.quit:
				return
			case <-ticks:
				r.Tick()
			}
		}
	}()
}

// StopThread signals the owned-thread loop to exit and waits for it to join.
// Safe to call multiple times.
func (r *Renderer) StopThread() {
	r.quitOnce.Do(func() {
		if r.quit != nil {
			close(r.quit)
		}
	})
	r.wg.Wait()
}
