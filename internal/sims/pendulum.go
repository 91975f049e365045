package sims

import (
	"fmt"
	"math"

	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
)

const (
	pivotX = 400.0
	pivotY = 150.0

	// MinArm and MaxArm bound the configurable arm length.
	MinArm = 100.0
	MaxArm = 300.0

	pendulumDamping = 0.999
	pendulumGain    = 0.1

	// BobRadius sizes the drawn bob; the grab circle is twice this.
	BobRadius = 20.0

	// dragClamp bounds the angle while the bob is directly
	// manipulated; a free swing is unconstrained.
	dragClamp = 0.8 * math.Pi

	armSliderX = 550.0
	armSliderY = 150.0
	armSliderW = 30.0
	armSliderH = 200.0

	modeButtonX = 550.0
	modeButtonY = 400.0
	modeButtonW = 120.0
	modeButtonH = 40.0

	startAngle = math.Pi / 4
)

// Pendulum is the swinging module: a damped pendulum whose bob
// position maps to a single control value or to pitch bend.
type Pendulum struct {
	angle   *engine.Channel
	arm     float64
	gravity float64
	mode    midimap.Mode
	bind    midimap.Binding

	armSlide vslider
	modeRect engine.Rect
}

// NewPendulum builds the module. arm must lie within [MinArm, MaxArm];
// gravity is the dimensionless pull (0.5 matches Earth-feel at the
// fixed tick rate).
func NewPendulum(mode midimap.Mode, controller uint8, arm, gravity float64) (*Pendulum, error) {
	if arm < MinArm || arm > MaxArm {
		return nil, fmt.Errorf("sims: arm length %v out of range [%v,%v]", arm, MinArm, MaxArm)
	}
	if gravity <= 0 {
		return nil, fmt.Errorf("sims: pendulum gravity %v must be positive", gravity)
	}
	bind := midimap.Binding{Controller: controller, Label: "pendulum"}
	if err := bind.Validate(); err != nil {
		return nil, fmt.Errorf("sims: %w", err)
	}
	return &Pendulum{
		angle:   engine.NewChannel(startAngle, math.Inf(-1), math.Inf(1)),
		arm:     arm,
		gravity: gravity,
		mode:    mode,
		bind:    bind,
		armSlide: vslider{track: engine.Rect{
			X: armSliderX, Y: armSliderY, W: armSliderW, H: armSliderH,
		}},
		modeRect: engine.Rect{X: modeButtonX, Y: modeButtonY, W: modeButtonW, H: modeButtonH},
	}, nil
}

func (p *Pendulum) Name() string { return "pendulum" }

// Mode returns the current output encoding.
func (p *Pendulum) Mode() midimap.Mode { return p.mode }

// ToggleMode switches between control-value and bend encoding. Bound
// to both the on-screen button and a key.
func (p *Pendulum) ToggleMode() {
	if p.mode == midimap.ModeControl {
		p.mode = midimap.ModeBend
	} else {
		p.mode = midimap.ModeControl
	}
}

// Arm returns the current arm length.
func (p *Pendulum) Arm() float64 { return p.arm }

// Bob returns the derived bob position in layout space. Angle zero
// hangs straight down.
func (p *Pendulum) Bob() engine.Vec2 {
	a := p.angle.Value()
	return engine.Vec2{
		X: pivotX + p.arm*math.Sin(a),
		Y: pivotY + p.arm*math.Cos(a),
	}
}

// Pivot returns the fixed pivot point in layout space.
func (p *Pendulum) Pivot() engine.Vec2 { return engine.Vec2{X: pivotX, Y: pivotY} }

// accel returns the angular acceleration for the current state. A
// non-positive arm cannot happen through the public surface but is
// guarded so the division can never blow up.
func (p *Pendulum) accel() float64 {
	if p.arm <= 0 {
		return 0
	}
	return -(p.gravity / p.arm) * math.Sin(p.angle.Value()) * pendulumGain
}

func (p *Pendulum) Tick(dt float64) {
	p.angle.Integrate(p.accel(), pendulumDamping, dt)
}

func (p *Pendulum) Targets() []engine.Target {
	return []engine.Target{
		{
			ID: "bob",
			Hit: func(pt engine.Vec2) bool {
				c := engine.Circle{Center: p.Bob(), Radius: 2 * BobRadius}
				return c.Contains(pt)
			},
			Handle: p.Bob,
			Press:  func() { p.angle.SetHeld(p.angle.Value()) },
			Drag: func(pt engine.Vec2) {
				dx := pt.X - pivotX
				dy := pt.Y - pivotY
				// Only below the pivot: dragging above would flip the
				// bob through the mount.
				if dy <= 0 {
					return
				}
				a := math.Atan2(dx, dy)
				if a > dragClamp {
					a = dragClamp
				}
				if a < -dragClamp {
					a = -dragClamp
				}
				p.angle.SetHeld(a)
			},
			Release: p.angle.Release,
			Raw:     true,
		},
		{
			ID:     "arm",
			Hit:    p.armSlide.track.Contains,
			Handle: func() engine.Vec2 { return p.armSlide.handleAt(p.armFrac()) },
			Drag: func(pt engine.Vec2) {
				p.arm = MinArm + p.armSlide.fracAt(pt)*(MaxArm-MinArm)
			},
		},
		{
			ID:    "mode",
			Hit:   p.modeRect.Contains,
			Press: p.ToggleMode,
		},
	}
}

func (p *Pendulum) armFrac() float64 {
	return (p.arm - MinArm) / (MaxArm - MinArm)
}

func (p *Pendulum) Outputs() []engine.Output {
	bob := p.Bob()
	if p.mode == midimap.ModeBend {
		norm := (bob.X - pivotX) / p.arm
		return []engine.Output{{
			Kind:  engine.OutputBend,
			Value: midimap.ToPitchBend(norm),
		}}
	}
	return []engine.Output{{
		Kind:       engine.OutputControl,
		Controller: p.bind.Controller,
		Value:      midimap.ToControlValue(bob.X, pivotX-p.arm, pivotX+p.arm),
	}}
}

func (p *Pendulum) Snapshot() engine.Snapshot {
	bob := p.Bob()
	return engine.Snapshot{
		Module: p.Name(),
		Values: map[string]float64{
			"angle":   p.angle.Value(),
			"omega":   p.angle.Velocity(),
			"arm":     p.arm,
			"gravity": p.gravity,
			"bob.x":   bob.X,
			"bob.y":   bob.Y,
		},
		Held:    map[string]bool{"bob": p.angle.Held()},
		Outputs: p.Outputs(),
	}
}

// PendulumState is the typed view the terminal renderer draws from.
type PendulumState struct {
	Angle float64
	Omega float64
	Arm   float64
	Held  bool
	Bob   engine.Vec2
	Pivot engine.Vec2
	Mode  midimap.Mode
	CC    uint8
}

func (p *Pendulum) State() PendulumState {
	return PendulumState{
		Angle: p.angle.Value(),
		Omega: p.angle.Velocity(),
		Arm:   p.arm,
		Held:  p.angle.Held(),
		Bob:   p.Bob(),
		Pivot: p.Pivot(),
		Mode:  p.mode,
		CC:    p.bind.Controller,
	}
}

// ArmTrack returns the arm slider's track rectangle.
func (p *Pendulum) ArmTrack() engine.Rect { return p.armSlide.track }

// ArmHandle returns the arm slider's handle point.
func (p *Pendulum) ArmHandle() engine.Vec2 { return p.armSlide.handleAt(p.armFrac()) }

// ModeButton returns the mode toggle's tap region.
func (p *Pendulum) ModeButton() engine.Rect { return p.modeRect }
