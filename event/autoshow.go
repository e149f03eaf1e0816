package event

import "github.com/oxy-render/scenectl/ids"

// SceneDriver is the minimal surface AutoShowHandler needs from the control
// API. control.Control satisfies it.
type SceneDriver interface {
	SetSceneMapping(sid ids.SID, did ids.DID) error
	SetSceneState(sid ids.SID, state ids.SceneState) error
}

// AutoShowHandler maps and shows any scene the moment it becomes Available,
// on the given display. Compose it with application callbacks via Chain
// instead of subclassing.
type AutoShowHandler struct {
	EmptyHandler

	driver  SceneDriver
	display ids.DID
	enabled bool

	prev map[ids.SID]ids.SceneState
}

var _ Handler = (*AutoShowHandler)(nil)

// NewAutoShowHandler creates a handler that, while enabled, maps and shows
// every scene that transitions to Available for the first time (or after an
// unpublish) on display.
func NewAutoShowHandler(driver SceneDriver, display ids.DID, enabled bool) *AutoShowHandler {
	return &AutoShowHandler{
		driver:  driver,
		display: display,
		enabled: enabled,
		prev:    make(map[ids.SID]ids.SceneState),
	}
}

// SetEnabled turns auto-show behavior on or off.
func (a *AutoShowHandler) SetEnabled(enabled bool) { a.enabled = enabled }

func (a *AutoShowHandler) SceneStateChanged(sid ids.SID, state ids.SceneState) {
	prev, seen := a.prev[sid]
	justPublished := !seen || prev == ids.Unavailable
	a.prev[sid] = state

	if a.enabled && justPublished && state == ids.Available {
		_ = a.driver.SetSceneMapping(sid, a.display)
		_ = a.driver.SetSceneState(sid, ids.Rendered)
	}
}
