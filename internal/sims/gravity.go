package sims

import (
	"fmt"
	"math"

	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
)

const (
	gravityCenter   = 64.0
	gravityDeadzone = 0.1
	gravityDamping  = 0.98
	// restoring force = strength^2 * gravityScale, applied with
	// gravityGain per unit of distance from center.
	gravityScale = 0.8
	gravityGain  = 0.1

	chanSliderX   = 100.0
	chanSliderY   = 200.0
	chanSliderW   = 80.0
	chanSliderH   = 300.0
	chanSliderGap = 150.0

	strengthSliderX = 600.0
	strengthSliderY = 150.0
	strengthSliderW = 30.0
	strengthSliderH = 200.0
)

// strengthLabels names notable gravity settings, lightest first.
var strengthLabels = []struct {
	strength float64
	label    string
}{
	{0.0, "Zero G"},
	{0.2, "Moon"},
	{0.5, "Earth"},
	{0.8, "Jupiter"},
	{1.0, "Black Hole"},
}

// StrengthLabel returns the named setting closest to g. Ties resolve
// to the lighter side.
func StrengthLabel(g float64) string {
	best := strengthLabels[0]
	for _, sl := range strengthLabels[1:] {
		if math.Abs(sl.strength-g) < math.Abs(best.strength-g) {
			best = sl
		}
	}
	return best.label
}

// Gravity is the spring-return module: three control channels the user
// drags away from center and gravity pulls back.
type Gravity struct {
	channels [3]*engine.Channel
	bindings [3]midimap.Binding
	strength float64

	sliders  [3]vslider
	strSlide vslider
}

// NewGravity builds the module with the given controller numbers and
// initial gravity strength in [0,1].
func NewGravity(controllers [3]uint8, strength float64) (*Gravity, error) {
	if strength < 0 || strength > 1 {
		return nil, fmt.Errorf("sims: gravity strength %v out of range [0,1]", strength)
	}
	g := &Gravity{strength: strength}
	for i, cc := range controllers {
		b := midimap.Binding{Controller: cc, Label: fmt.Sprintf("controller %d", i+1)}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("sims: %w", err)
		}
		g.bindings[i] = b
		g.channels[i] = engine.NewChannel(gravityCenter, 0, midimap.ControlMax)
		g.sliders[i] = vslider{track: engine.Rect{
			X: chanSliderX + float64(i)*chanSliderGap,
			Y: chanSliderY,
			W: chanSliderW,
			H: chanSliderH,
		}}
	}
	g.strSlide = vslider{track: engine.Rect{
		X: strengthSliderX, Y: strengthSliderY, W: strengthSliderW, H: strengthSliderH,
	}}
	return g, nil
}

func (g *Gravity) Name() string { return "gravity" }

// Strength returns the current gravity strength in [0,1].
func (g *Gravity) Strength() float64 { return g.strength }

// Restoring returns the quadratic restoring coefficient for the
// current strength.
func (g *Gravity) Restoring() float64 {
	return g.strength * g.strength * gravityScale
}

// Tick pulls every non-held channel toward center. Inside the
// deadzone a channel snaps to rest so it cannot jitter around the
// equilibrium, but only while gravity is on: with zero strength a
// parked channel stays wherever it was left.
func (g *Gravity) Tick(dt float64) {
	restoring := g.Restoring()
	for _, ch := range g.channels {
		if ch.Held() {
			continue
		}
		dist := ch.Value() - gravityCenter
		if math.Abs(dist) > gravityDeadzone {
			ch.Integrate(-dist*restoring*gravityGain, gravityDamping, dt)
		} else if restoring > 0 {
			ch.Snap(gravityCenter)
		}
	}
}

func (g *Gravity) Targets() []engine.Target {
	targets := make([]engine.Target, 0, 4)
	for i := range g.channels {
		ch := g.channels[i]
		sl := g.sliders[i]
		targets = append(targets, engine.Target{
			ID:     fmt.Sprintf("slider-%d", i+1),
			Hit:    sl.track.Contains,
			Handle: func() engine.Vec2 { return sl.handleAt(ch.Value() / midimap.ControlMax) },
			Press:  func() { ch.SetHeld(ch.Value()) },
			Drag: func(p engine.Vec2) {
				ch.SetHeld(sl.fracAt(p) * midimap.ControlMax)
			},
			Release: ch.Release,
		})
	}
	targets = append(targets, engine.Target{
		ID:     "strength",
		Hit:    g.strSlide.track.Contains,
		Handle: func() engine.Vec2 { return g.strSlide.handleAt(g.strength) },
		Drag: func(p engine.Vec2) {
			g.strength = g.strSlide.fracAt(p)
		},
	})
	return targets
}

func (g *Gravity) Outputs() []engine.Output {
	outs := make([]engine.Output, 0, 3)
	for i, ch := range g.channels {
		outs = append(outs, engine.Output{
			Kind:       engine.OutputControl,
			Controller: g.bindings[i].Controller,
			Value:      midimap.ToControlValue(ch.Value(), 0, midimap.ControlMax),
		})
	}
	return outs
}

func (g *Gravity) Snapshot() engine.Snapshot {
	values := map[string]float64{"strength": g.strength}
	held := make(map[string]bool, 3)
	for i, ch := range g.channels {
		key := fmt.Sprintf("controller%d", i+1)
		values[key] = ch.Value()
		held[key] = ch.Held()
	}
	return engine.Snapshot{
		Module:  g.Name(),
		Values:  values,
		Held:    held,
		Outputs: g.Outputs(),
	}
}

// ChannelState is one channel's view for rendering.
type ChannelState struct {
	CC       uint8
	Value    float64
	Velocity float64
	Held     bool
}

// GravityState is the typed view the terminal renderer draws from.
type GravityState struct {
	Channels  [3]ChannelState
	Strength  float64
	Label     string
	Restoring float64
}

func (g *Gravity) State() GravityState {
	st := GravityState{
		Strength:  g.strength,
		Label:     StrengthLabel(g.strength),
		Restoring: g.Restoring(),
	}
	for i, ch := range g.channels {
		st.Channels[i] = ChannelState{
			CC:       g.bindings[i].Controller,
			Value:    ch.Value(),
			Velocity: ch.Velocity(),
			Held:     ch.Held(),
		}
	}
	return st
}

// SliderTrack returns the i-th channel slider's track rectangle.
func (g *Gravity) SliderTrack(i int) engine.Rect { return g.sliders[i].track }

// SliderHandle returns the i-th channel slider's handle point.
func (g *Gravity) SliderHandle(i int) engine.Vec2 {
	return g.sliders[i].handleAt(g.channels[i].Value() / midimap.ControlMax)
}

// StrengthTrack returns the gravity slider's track rectangle.
func (g *Gravity) StrengthTrack() engine.Rect { return g.strSlide.track }

// StrengthHandle returns the gravity slider's handle point.
func (g *Gravity) StrengthHandle() engine.Vec2 { return g.strSlide.handleAt(g.strength) }
