// Package pick implements the picking subsystem: registration of pickable
// objects per scene and the hit-test evaluated against a normalized
// coordinate.
//
// HandlePick itself (enqueuing the request) lives in control.Control; this
// package is what a renderer-side stand-in (renderersim.Renderer) consults
// to produce the objects-picked result, and what a host application uses to
// register which objects are pickable in the first place.
package pick

import "github.com/oxy-render/scenectl/ids"

// Pickable is an axis-aligned hit region in buffer-normalized coordinates
// ([-1, 1] x [-1, 1]), registered by the scene's owning application.
type Pickable struct {
	ID         uint64
	MinX, MinY float32
	MaxX, MaxY float32
}

func (p Pickable) contains(nx, ny float32) bool {
	return nx >= p.MinX && nx <= p.MaxX && ny >= p.MinY && ny <= p.MaxY
}

// Registry tracks the pickable objects registered for each scene.
type Registry struct {
	objects map[ids.SID][]Pickable
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{objects: make(map[ids.SID][]Pickable)}
}

// Register adds a pickable object to sid's registry.
func (r *Registry) Register(sid ids.SID, p Pickable) {
	r.objects[sid] = append(r.objects[sid], p)
}

// Clear removes every pickable object registered for sid.
func (r *Registry) Clear(sid ids.SID) {
	delete(r.objects, sid)
}

// HitTest returns the ids of every pickable object registered for sid whose
// region contains (nx, ny), in registration order. Coordinates outside
// [-1, 1] x [-1, 1], or a scene with no registry entry, produce an empty
// result — never an error.
func (r *Registry) HitTest(sid ids.SID, nx, ny float32) []uint64 {
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 {
		return nil
	}

	var hits []uint64
	for _, p := range r.objects[sid] {
		if p.contains(nx, ny) {
			hits = append(hits, p.ID)
		}
	}
	return hits
}
