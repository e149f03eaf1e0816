package control

import (
	"errors"
	"time"

	"github.com/oxy-render/scenectl/event"
)

// ErrDeadlineExceeded is returned by WaitUntil when predicate never became
// true before deadline elapsed.
var ErrDeadlineExceeded = errors.New("control: deadline exceeded waiting for predicate")

// WaitUntil repeatedly drives the hosted loop (DoOneLoop + DispatchEvents)
// and evaluates predicate until it returns true or deadline elapses,
// sleeping poll between iterations. It is a convenience for examples and
// tests only — the core itself stays non-blocking, and this is the one
// place that loops with a sleep policy on the caller's behalf. Must not be
// used together with StartThread: hosted and owned-thread modes cannot be
// mixed.
func (c *Control) WaitUntil(h event.Handler, predicate func() bool, deadline, poll time.Duration) error {
	if poll <= 0 {
		poll = time.Millisecond
	}
	deadlineAt := time.Now().Add(deadline)
	for {
		c.DoOneLoop()
		c.DispatchEvents(h)
		if predicate() {
			return nil
		}
		if time.Now().After(deadlineAt) {
			return ErrDeadlineExceeded
		}
		time.Sleep(poll)
	}
}
