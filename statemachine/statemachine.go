// Package statemachine implements the Scene State Machine: for each scene it
// drives current_state toward target_state one step at a time, retrying
// renderer-reported step failures indefinitely and recovering cleanly from
// unpublish/republish.
//
// This is renderer-side logic — in a deployed system it runs wherever the
// renderer lives; here it is the core that renderersim.Renderer drives each
// Tick.
package statemachine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/oxy-render/scenectl/event"
	"github.com/oxy-render/scenectl/ids"
)

// fanOutThreshold is the minimum number of scenes needing a step in the same
// Tick before the worker pool is used instead of issuing steps inline. Below
// this, pool submission overhead isn't worth it.
const fanOutThreshold = 4

// StepKind identifies which internal step command is outstanding for a scene.
type StepKind uint8

const (
	StepMap StepKind = iota
	StepShow
	StepHide
	StepUnmap
)

func (k StepKind) String() string {
	switch k {
	case StepMap:
		return "map"
	case StepShow:
		return "show"
	case StepHide:
		return "hide"
	case StepUnmap:
		return "unmap"
	default:
		return "unknown"
	}
}

// StepCallback reports the outcome of a step requested via Executor.BeginStep.
type StepCallback func(ok bool)

// Executor performs the renderer-internal action for a single step and
// reports the outcome — synchronously or later — via callback. Exactly one
// callback invocation is expected per BeginStep call.
type Executor interface {
	BeginStep(sid ids.SID, kind StepKind, callback StepCallback)
}

type record struct {
	current   ids.SceneState
	target    ids.SceneState
	published bool

	outstanding     bool
	outstandingKind StepKind
	generation      int // bumped on unpublish to invalidate in-flight step callbacks
}

// Machine drives every scene it has been told about toward its target state.
type Machine struct {
	mu      sync.Mutex
	records map[ids.SID]*record
	events  []event.Raw

	pool worker.DynamicWorkerPool
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithWorkerPool drives Tick's per-scene step issuance across a bounded pool
// of reusable goroutines instead of issuing steps inline on the caller's
// goroutine, once a single Tick has more than a handful of scenes to drive at
// once. Grounded on the compute pool scene.go sets up for its own per-frame
// parallel prep phase: workers persist across ticks, avoiding goroutine
// spawn/teardown overhead every cycle.
func WithWorkerPool(workers, queueSize int, submitTimeout time.Duration) Option {
	return func(m *Machine) {
		m.pool = worker.NewDynamicWorkerPool(workers, queueSize, submitTimeout)
	}
}

// New creates an empty Machine. Every scene starts Unavailable with target
// Unavailable, created lazily on first touch.
func New(opts ...Option) *Machine {
	m := &Machine{records: make(map[ids.SID]*record)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) touch(sid ids.SID) *record {
	r, ok := m.records[sid]
	if !ok {
		r = &record{}
		m.records[sid] = r
	}
	return r
}

// CurrentState returns sid's current state (Unavailable if never observed).
func (m *Machine) CurrentState(sid ids.SID) ids.SceneState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touch(sid).current
}

// TargetState returns sid's driving target, which — unlike the client-side
// mirror's cached target — is NOT reset to Unavailable on unpublish: the
// machine remembers it so driving resumes toward the same target after a
// republish.
func (m *Machine) TargetState(sid ids.SID) ids.SceneState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.touch(sid).target
}

// SetTarget records the user's desired state for sid. Callers (renderersim,
// applying a SetSceneState command) are expected to have already rejected
// Unavailable and missing-mapping cases at the API boundary.
func (m *Machine) SetTarget(sid ids.SID, target ids.SceneState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch(sid).target = target
}

// OnPublish handles the renderer reporting sid as published: if the scene
// was Unavailable it advances to Available and is marked published so Tick
// starts driving it toward its target.
func (m *Machine) OnPublish(sid ids.SID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.touch(sid)
	r.published = true
	if r.current == ids.Unavailable {
		r.current = ids.Available
		m.events = append(m.events, event.Raw{Kind: event.KindSceneStateChanged, SID: sid, State: r.current})
	}
}

// OnUnpublish handles the renderer reporting sid as unpublished, possibly
// mid-step. It rolls the mirror back to Unavailable one step at a time
// (emitting one SceneStateChanged per step, per invariant 3), marks the
// scene unpublished, and invalidates any outstanding step so a subsequently
// arriving stale response is absorbed without retry. The driving target is
// left untouched: resuming after republish drives toward the same target.
func (m *Machine) OnUnpublish(sid ids.SID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.touch(sid)
	r.published = false
	r.outstanding = false
	r.generation++

	for r.current != ids.Unavailable {
		r.current--
		m.events = append(m.events, event.Raw{Kind: event.KindSceneStateChanged, SID: sid, State: r.current})
	}
}

// Tick issues, for every published scene whose current state differs from
// its target and that has no outstanding step, the single step command that
// moves it one notch toward its target. At most one outstanding step exists
// per scene at any time (coalescing).
func (m *Machine) Tick(exec Executor) {
	m.mu.Lock()
	type pending struct {
		sid  ids.SID
		kind StepKind
		gen  int
	}
	var toIssue []pending

	for sid, r := range m.records {
		if !r.published || r.outstanding || r.current == r.target {
			continue
		}
		kind, ok := nextStep(r.current, r.target)
		if !ok {
			// Unavailable<->Available is event-driven only (Publish/Unpublish),
			// never an issued step.
			continue
		}
		r.outstanding = true
		r.outstandingKind = kind
		toIssue = append(toIssue, pending{sid: sid, kind: kind, gen: r.generation})
	}
	m.mu.Unlock()

	issue := func(p pending) {
		sid, kind, gen := p.sid, p.kind, p.gen
		exec.BeginStep(sid, kind, func(ok bool) {
			m.onStepResult(sid, kind, gen, ok)
		})
	}

	if m.pool == nil || len(toIssue) < fanOutThreshold {
		for _, p := range toIssue {
			issue(p)
		}
		return
	}

	var wg sync.WaitGroup
	for i, p := range toIssue {
		wg.Add(1)
		pCap := p
		m.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				issue(pCap)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// nextStep returns the step command that moves current one notch toward
// target. ok is false at the Unavailable<->Available boundary, which has no
// issued step.
func nextStep(current, target ids.SceneState) (StepKind, bool) {
	switch {
	case current == ids.Available && target.Rank() > ids.Available.Rank():
		return StepMap, true
	case current == ids.Ready && target.Rank() > ids.Ready.Rank():
		return StepShow, true
	case current == ids.Rendered && target.Rank() < ids.Rendered.Rank():
		return StepHide, true
	case current == ids.Ready && target.Rank() < ids.Ready.Rank():
		return StepUnmap, true
	default:
		return 0, false
	}
}

func (m *Machine) onStepResult(sid ids.SID, kind StepKind, gen int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := m.touch(sid)
	if gen != r.generation {
		// Stale response for a step that was invalidated by an unpublish in
		// the meantime — absorbed silently, per recovery rule (b).
		return
	}
	if r.outstandingKind != kind || !r.outstanding {
		return
	}
	r.outstanding = false
	if !ok {
		// Retried automatically: current/target are unchanged, so the next
		// Tick call will reissue the same step.
		return
	}

	r.current = r.current.Step(r.target)
	m.events = append(m.events, event.Raw{Kind: event.KindSceneStateChanged, SID: sid, State: r.current})
}

// Drain returns and clears every SceneStateChanged event produced since the
// last Drain call.
func (m *Machine) Drain() []event.Raw {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.events
	m.events = nil
	return out
}
