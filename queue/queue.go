// Package queue provides flush-atomic, in-order submission of control-plane
// commands from a caller to the renderer's intake.
//
// A Queue accumulates commands locally via Enqueue; nothing is visible to
// the renderer until Flush moves the whole pending list across in one shot.
// Enqueue never has side effects beyond appending, and flush is the only
// operation that hands commands to the other side.
package queue

import "sync"

// Kind identifies which command a Command carries.
type Kind uint8

const (
	KindSetSceneState Kind = iota
	KindSetSceneMapping
	KindSetSceneDisplayBufferAssignment
	KindLinkOffscreenBuffer
	KindLinkStreamBuffer
	KindLinkExternalBuffer
	KindLinkData
	KindUnlinkData
	KindHandlePick
)

// Command is a single control-plane intent. Only the fields relevant to Kind
// are populated; this keeps the pending-list a single flat, cheaply-copyable
// slice rather than modeling each kind as a separate Go type.
type Command struct {
	Kind Kind

	SID, ProviderSID, ConsumerSID uint64
	DID                           uint32
	BID                           uint32
	SBID                          uint32
	EBID                          uint32
	ProviderSlot, ConsumerSlot    uint32
	State                         uint8
	RenderOrder                   int32
	PickX, PickY                  float32
}

// Intake is the renderer-side acceptor that Flush hands the pending list to.
// In production this would be backed by a wire transport; in this module it
// is implemented by renderersim.Renderer for tests and examples.
type Intake interface {
	Submit(commands []Command)
}

// Queue is the caller-local pending-command buffer.
type Queue struct {
	mu      sync.Mutex
	pending []Command
	intake  Intake
}

// New creates a Queue that flushes to the given Intake.
func New(intake Intake) *Queue {
	return &Queue{intake: intake}
}

// Enqueue appends a command to the pending list. It has no side effects on
// the renderer — callers are expected to have already performed any eager,
// synchronous validation (see control.Control) before calling Enqueue.
func (q *Queue) Enqueue(cmd Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, cmd)
}

// Flush atomically moves the entire pending list to the intake and clears it.
// Commands become visible to the renderer together, in enqueue order, and
// are executed within the renderer's next update cycle. Flush never blocks
// on the renderer — Submit is expected to return immediately.
func (q *Queue) Flush() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	q.intake.Submit(pending)
}

// Pending returns a copy of the currently buffered, not-yet-flushed commands.
// Intended for tests and diagnostics only.
func (q *Queue) Pending() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Command, len(q.pending))
	copy(out, q.pending)
	return out
}
