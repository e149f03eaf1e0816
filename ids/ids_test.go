package ids

import "testing"

func TestSceneStateStep(t *testing.T) {
	cases := []struct {
		from, target, want SceneState
	}{
		{Unavailable, Rendered, Available},
		{Available, Rendered, Ready},
		{Ready, Rendered, Rendered},
		{Rendered, Unavailable, Ready},
		{Ready, Available, Available},
		{Available, Available, Available},
	}
	for _, c := range cases {
		if got := c.from.Step(c.target); got != c.want {
			t.Errorf("%s.Step(%s) = %s, want %s", c.from, c.target, got, c.want)
		}
	}
}

func TestSceneStateRankOrdering(t *testing.T) {
	order := []SceneState{Unavailable, Available, Ready, Rendered}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("%s.Rank() should be less than %s.Rank()", order[i-1], order[i])
		}
	}
}

func TestBIDInvalidString(t *testing.T) {
	if got := BIDInvalid.String(); got != "buffer(framebuffer)" {
		t.Errorf("BIDInvalid.String() = %q", got)
	}
	if got := BID(7).String(); got != "buffer(7)" {
		t.Errorf("BID(7).String() = %q", got)
	}
}
