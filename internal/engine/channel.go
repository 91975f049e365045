package engine

// Mode says who owns a channel's value on a given tick.
type Mode int

const (
	// ModePhysics lets Integrate advance the channel each tick.
	ModePhysics Mode = iota

	// ModeHeld pins the channel to user input; Integrate is a no-op
	// until Release.
	ModeHeld
)

func (m Mode) String() string {
	switch m {
	case ModePhysics:
		return "physics"
	case ModeHeld:
		return "held"
	default:
		return "unknown"
	}
}

// Channel is a scalar parameter driven either by its physics or by a
// user hold. Values are clamped to [min, max]; an infinite bound
// disables clamping on that side, which is how the unbounded pendulum
// angle is represented.
type Channel struct {
	value    float64
	velocity float64
	min, max float64
	mode     Mode
}

// NewChannel returns a physics-owned channel at the given initial
// value, clamped into [min, max].
func NewChannel(initial, min, max float64) *Channel {
	c := &Channel{min: min, max: max, mode: ModePhysics}
	c.value = c.clamp(initial)
	return c
}

func (c *Channel) Value() float64    { return c.value }
func (c *Channel) Velocity() float64 { return c.velocity }
func (c *Channel) Mode() Mode        { return c.mode }

// Held reports whether the channel is pinned by user input.
func (c *Channel) Held() bool { return c.mode == ModeHeld }

// SetHeld pins the channel at v with zero velocity. The physics skips
// the channel until Release.
func (c *Channel) SetHeld(v float64) {
	c.value = c.clamp(v)
	c.velocity = 0
	c.mode = ModeHeld
}

// Release returns the channel to physics ownership. Value and velocity
// are untouched, so motion resumes from rest at the released position.
func (c *Channel) Release() {
	c.mode = ModePhysics
}

// Integrate advances one step of damped motion. The order is fixed:
// force accelerates, damping scales the new velocity, then the value
// moves. Held channels ignore the call.
func (c *Channel) Integrate(force, damping, dt float64) {
	if c.mode == ModeHeld {
		return
	}
	c.velocity += force * dt
	c.velocity *= damping
	c.value = c.clamp(c.value + c.velocity*dt)
}

// Snap places the channel at v with zero velocity without changing
// ownership. Used for deadzone settling.
func (c *Channel) Snap(v float64) {
	c.value = c.clamp(v)
	c.velocity = 0
}

func (c *Channel) clamp(v float64) float64 {
	if v < c.min {
		return c.min
	}
	if v > c.max {
		return c.max
	}
	return v
}
