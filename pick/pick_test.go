package pick

import (
	"reflect"
	"testing"

	"github.com/oxy-render/scenectl/ids"
)

func TestHitTestOutOfRangeProducesNoPicks(t *testing.T) {
	r := New()
	r.Register(ids.SID(1), Pickable{ID: 1, MinX: -1, MinY: -1, MaxX: 1, MaxY: 1})

	cases := [][2]float32{{-1.01, 0}, {1.01, 0}, {0, -1.01}, {0, 1.01}}
	for _, c := range cases {
		if got := r.HitTest(ids.SID(1), c[0], c[1]); got != nil {
			t.Errorf("HitTest(%v) = %v, want nil", c, got)
		}
	}
}

func TestHitTestUnknownSceneProducesNoPicks(t *testing.T) {
	r := New()
	if got := r.HitTest(ids.SID(404), 0, 0); got != nil {
		t.Fatalf("HitTest on unknown scene = %v, want nil", got)
	}
}

// TestHitTestTwoRegisteredObjects covers two pickable objects registered
// with ids {2, 3}; picking at two distinct points yields the expected
// single id each time.
func TestHitTestTwoRegisteredObjects(t *testing.T) {
	sid := ids.SID(33)
	r := New()
	r.Register(sid, Pickable{ID: 2, MinX: -0.5, MinY: 0.41, MaxX: -0.2, MaxY: 0.6})
	r.Register(sid, Pickable{ID: 3, MinX: -0.5, MinY: -0.2, MaxX: -0.2, MaxY: 0.40})

	if got, want := r.HitTest(sid, -0.38, 0.44), []uint64{2}; !reflect.DeepEqual(got, want) {
		t.Errorf("first pick HitTest = %v, want %v", got, want)
	}
	if got, want := r.HitTest(sid, -0.38, 0.40), []uint64{3}; !reflect.DeepEqual(got, want) {
		t.Errorf("second pick HitTest = %v, want %v", got, want)
	}
}

func TestHitTestRegistrationOrder(t *testing.T) {
	sid := ids.SID(1)
	r := New()
	r.Register(sid, Pickable{ID: 10, MinX: -1, MinY: -1, MaxX: 1, MaxY: 1})
	r.Register(sid, Pickable{ID: 20, MinX: -1, MinY: -1, MaxX: 1, MaxY: 1})

	got := r.HitTest(sid, 0, 0)
	want := []uint64{10, 20}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("HitTest order = %v, want %v", got, want)
	}
}

func TestClearRemovesRegistrations(t *testing.T) {
	sid := ids.SID(1)
	r := New()
	r.Register(sid, Pickable{ID: 1, MinX: -1, MinY: -1, MaxX: 1, MaxY: 1})
	r.Clear(sid)
	if got := r.HitTest(sid, 0, 0); got != nil {
		t.Fatalf("HitTest after Clear = %v, want nil", got)
	}
}
