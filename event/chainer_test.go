package event

import (
	"testing"

	"github.com/oxy-render/scenectl/ids"
)

type callLogger struct {
	EmptyHandler
	calls *[]string
	tag   string
}

func (c callLogger) SceneStateChanged(ids.SID, ids.SceneState) {
	*c.calls = append(*c.calls, c.tag)
}

func TestChainCallsBothInOrder(t *testing.T) {
	var calls []string
	chain := NewChain(callLogger{calls: &calls, tag: "first"}, callLogger{calls: &calls, tag: "second"})

	chain.SceneStateChanged(ids.SID(1), ids.Ready)

	want := []string{"first", "second"}
	if len(calls) != 2 || calls[0] != want[0] || calls[1] != want[1] {
		t.Fatalf("call order = %v, want %v", calls, want)
	}
}
