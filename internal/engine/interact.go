package engine

// EventKind discriminates pointer events.
type EventKind int

const (
	EventPress EventKind = iota
	EventDrag
	EventRelease
)

func (k EventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventDrag:
		return "drag"
	case EventRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Event is one pointer action aimed at a named target. Producers
// translate device coordinates into layout space before pushing; the
// engine never sees terminal cells or window pixels.
type Event struct {
	Kind   EventKind
	Target string
	At     Vec2
}

// Target is a manipulable region a simulation exposes. Hit and Handle
// read live geometry, so a target keeps tracking a moving feature such
// as a pendulum bob or a drifting body.
//
// A nil Drag makes the target tap-only: Press fires the whole action
// and no drag state is kept. Raw targets receive the pointer position
// as-is instead of the grab-offset corrected position.
type Target struct {
	ID      string
	Hit     func(p Vec2) bool
	Handle  func() Vec2
	Press   func()
	Drag    func(p Vec2)
	Release func()
	Raw     bool
}

type dragState struct {
	dragging bool
	offset   Vec2
}

// Controller routes pointer events to targets and keeps one drag state
// machine per target, so several targets can be dragged at once. The
// grab offset is captured at press time against the target's handle,
// which keeps the grabbed feature from jumping to the pointer.
type Controller struct {
	targets []Target
	index   map[string]int
	state   map[string]*dragState
}

// NewController registers the given targets. Duplicate IDs are a
// programming error and reported via ErrDuplicateTarget.
func NewController(targets []Target) (*Controller, error) {
	c := &Controller{
		targets: targets,
		index:   make(map[string]int, len(targets)),
		state:   make(map[string]*dragState, len(targets)),
	}
	for i, t := range targets {
		if _, dup := c.index[t.ID]; dup {
			return nil, ErrDuplicateTarget
		}
		c.index[t.ID] = i
		c.state[t.ID] = &dragState{}
	}
	return c, nil
}

// HitTest resolves a layout-space point to the first target whose hit
// region contains it, in registration order. Event producers use this
// so they never own geometry themselves.
func (c *Controller) HitTest(p Vec2) (string, bool) {
	for _, t := range c.targets {
		if t.Hit != nil && t.Hit(p) {
			return t.ID, true
		}
	}
	return "", false
}

// Dragging reports whether the named target is mid-drag.
func (c *Controller) Dragging(id string) bool {
	s, ok := c.state[id]
	return ok && s.dragging
}

// Apply processes one event. Events for unknown targets, presses that
// miss the hit region, and drags or releases without a preceding press
// are ignored rather than failed: stale events are normal when the
// geometry moved under the pointer.
func (c *Controller) Apply(ev Event) {
	i, ok := c.index[ev.Target]
	if !ok {
		return
	}
	t := c.targets[i]
	s := c.state[ev.Target]

	switch ev.Kind {
	case EventPress:
		if t.Hit != nil && !t.Hit(ev.At) {
			return
		}
		if t.Drag == nil {
			if t.Press != nil {
				t.Press()
			}
			return
		}
		s.dragging = true
		s.offset = Vec2{}
		if !t.Raw && t.Handle != nil {
			s.offset = ev.At.Sub(t.Handle())
		}
		if t.Press != nil {
			t.Press()
		}

	case EventDrag:
		if !s.dragging || t.Drag == nil {
			return
		}
		t.Drag(ev.At.Sub(s.offset))

	case EventRelease:
		if !s.dragging {
			return
		}
		s.dragging = false
		if t.Release != nil {
			t.Release()
		}
	}
}
