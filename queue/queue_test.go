package queue

import "testing"

type fakeIntake struct {
	submitted [][]Command
}

func (f *fakeIntake) Submit(commands []Command) {
	f.submitted = append(f.submitted, commands)
}

func TestEnqueueHasNoSideEffectUntilFlush(t *testing.T) {
	intake := &fakeIntake{}
	q := New(intake)

	q.Enqueue(Command{Kind: KindSetSceneState, SID: 1, State: 1})
	q.Enqueue(Command{Kind: KindSetSceneState, SID: 2, State: 1})

	if len(intake.submitted) != 0 {
		t.Fatalf("intake.Submit called before Flush")
	}
	if got := len(q.Pending()); got != 2 {
		t.Fatalf("Pending() len = %d, want 2", got)
	}
}

func TestFlushMovesPendingAtomically(t *testing.T) {
	intake := &fakeIntake{}
	q := New(intake)
	q.Enqueue(Command{Kind: KindSetSceneState, SID: 1, State: 2})
	q.Enqueue(Command{Kind: KindSetSceneState, SID: 2, State: 2})

	q.Flush()

	if len(intake.submitted) != 1 {
		t.Fatalf("Submit called %d times, want 1", len(intake.submitted))
	}
	if got := len(intake.submitted[0]); got != 2 {
		t.Fatalf("first Submit carried %d commands, want 2", got)
	}
	if got := len(q.Pending()); got != 0 {
		t.Fatalf("Pending() after Flush len = %d, want 0", got)
	}
}

func TestFlushWithNothingPendingDoesNotSubmit(t *testing.T) {
	intake := &fakeIntake{}
	q := New(intake)
	q.Flush()
	if len(intake.submitted) != 0 {
		t.Fatalf("Submit called with nothing pending")
	}
}

func TestFlushPreservesEnqueueOrder(t *testing.T) {
	intake := &fakeIntake{}
	q := New(intake)
	for i := uint64(0); i < 5; i++ {
		q.Enqueue(Command{Kind: KindSetSceneState, SID: i})
	}
	q.Flush()

	got := intake.submitted[0]
	for i, cmd := range got {
		if cmd.SID != uint64(i) {
			t.Fatalf("command %d has SID %d, want %d", i, cmd.SID, i)
		}
	}
}
