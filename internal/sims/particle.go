package sims

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
)

const (
	arenaX    = 50.0
	arenaY    = 130.0
	arenaSize = 400.0

	bodyRadius   = 15.0
	spawnMargin  = 50.0
	maxSpeedMult = 3.0

	tempSliderX = 500.0
	tempSliderY = 150.0
	tempSliderW = 30.0
	tempSliderH = 200.0
)

// Body is one circular particle in arena-local coordinates.
type Body struct {
	Pos    engine.Vec2
	Vel    engine.Vec2
	Radius float64
	Held   bool

	bindX midimap.Binding
	bindY midimap.Binding
}

// Particle is the collision module: two bodies bounce in a bounded
// arena, their positions streaming out as four control values. A
// temperature scalar scales integration speed.
type Particle struct {
	red         Body
	green       Body
	temperature float64

	tempSlide vslider
}

// NewParticle builds the module. controllers holds the red-x, red-y,
// green-x, green-y numbers in that order. A zero seed spawns from the
// clock.
func NewParticle(controllers [4]uint8, temperature float64, seed int64) (*Particle, error) {
	if temperature < 0 || temperature > 1 {
		return nil, fmt.Errorf("sims: temperature %v out of range [0,1]", temperature)
	}
	labels := [4]string{"red x", "red y", "green x", "green y"}
	bindings := [4]midimap.Binding{}
	for i, cc := range controllers {
		bindings[i] = midimap.Binding{Controller: cc, Label: labels[i]}
		if err := bindings[i].Validate(); err != nil {
			return nil, fmt.Errorf("sims: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	if seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &Particle{
		temperature: temperature,
		tempSlide: vslider{track: engine.Rect{
			X: tempSliderX, Y: tempSliderY, W: tempSliderW, H: tempSliderH,
		}},
	}
	p.red = spawnBody(rng, bindings[0], bindings[1])
	p.green = spawnBody(rng, bindings[2], bindings[3])
	return p, nil
}

func spawnBody(rng *rand.Rand, bindX, bindY midimap.Binding) Body {
	span := arenaSize - 2*spawnMargin
	return Body{
		Pos: engine.Vec2{
			X: spawnMargin + rng.Float64()*span,
			Y: spawnMargin + rng.Float64()*span,
		},
		Vel: engine.Vec2{
			X: rng.Float64()*6 - 3,
			Y: rng.Float64()*6 - 3,
		},
		Radius: bodyRadius,
		bindX:  bindX,
		bindY:  bindY,
	}
}

func (p *Particle) Name() string { return "particle" }

// Temperature returns the current temperature in [0,1].
func (p *Particle) Temperature() float64 { return p.temperature }

// SpeedMultiplier returns the temperature-scaled speed factor in
// [1, maxSpeedMult].
func (p *Particle) SpeedMultiplier() float64 {
	return 1 + p.temperature*(maxSpeedMult-1)
}

// Tick moves both free bodies, bounces them off the walls, then
// resolves the pairwise collision. Wall handling runs before the pair
// so a pair push-out can leave a body on a wall; the next tick's
// clamp recovers it, exactly one frame later.
func (p *Particle) Tick(dt float64) {
	mult := p.SpeedMultiplier()
	moveBody(&p.red, mult*dt)
	moveBody(&p.green, mult*dt)
	resolvePair(&p.red, &p.green)
}

func moveBody(b *Body, scale float64) {
	if b.Held {
		return
	}
	b.Pos = b.Pos.Add(b.Vel.Scale(scale))

	// Walls reflect with an absolute-value flip: a body pinned into a
	// corner cannot get stuck oscillating against it.
	if b.Pos.X <= b.Radius {
		b.Pos.X = b.Radius
		b.Vel.X = abs(b.Vel.X)
	} else if b.Pos.X >= arenaSize-b.Radius {
		b.Pos.X = arenaSize - b.Radius
		b.Vel.X = -abs(b.Vel.X)
	}

	if b.Pos.Y <= b.Radius {
		b.Pos.Y = b.Radius
		b.Vel.Y = abs(b.Vel.Y)
	} else if b.Pos.Y >= arenaSize-b.Radius {
		b.Pos.Y = arenaSize - b.Radius
		b.Vel.Y = -abs(b.Vel.Y)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// resolvePair separates overlapping bodies and exchanges the normal
// velocity component for equal masses. A held body is immovable: the
// free body takes only its own half of the correction and its own
// side of the impulse. Identical centers are skipped outright.
func resolvePair(b1, b2 *Body) {
	delta := b1.Pos.Sub(b2.Pos)
	dist := delta.Length()
	if dist >= b1.Radius+b2.Radius {
		return
	}
	if dist == 0 {
		return
	}
	if b1.Held && b2.Held {
		return
	}

	n := delta.Scale(1 / dist)
	overlap := (b1.Radius + b2.Radius) - dist

	if !b1.Held {
		b1.Pos = b1.Pos.Add(n.Scale(overlap * 0.5))
	}
	if !b2.Held {
		b2.Pos = b2.Pos.Sub(n.Scale(overlap * 0.5))
	}

	rv := b1.Vel.Sub(b2.Vel)
	s := rv.Dot(n)
	if s > 0 {
		return
	}

	if !b1.Held {
		b1.Vel = b1.Vel.Sub(n.Scale(s))
	}
	if !b2.Held {
		b2.Vel = b2.Vel.Add(n.Scale(s))
	}
}

// arenaOrigin is the arena's top-left corner in layout space.
func arenaOrigin() engine.Vec2 { return engine.Vec2{X: arenaX, Y: arenaY} }

func clampToArena(p engine.Vec2, radius float64) engine.Vec2 {
	if p.X < radius {
		p.X = radius
	}
	if p.X > arenaSize-radius {
		p.X = arenaSize - radius
	}
	if p.Y < radius {
		p.Y = radius
	}
	if p.Y > arenaSize-radius {
		p.Y = arenaSize - radius
	}
	return p
}

func (p *Particle) Targets() []engine.Target {
	bodyTarget := func(id string, b *Body) engine.Target {
		return engine.Target{
			ID: id,
			Hit: func(pt engine.Vec2) bool {
				c := engine.Circle{Center: b.Pos.Add(arenaOrigin()), Radius: b.Radius}
				return c.Contains(pt)
			},
			Handle: func() engine.Vec2 { return b.Pos.Add(arenaOrigin()) },
			Press: func() {
				b.Held = true
				b.Vel = engine.Vec2{}
			},
			Drag: func(pt engine.Vec2) {
				b.Pos = clampToArena(pt.Sub(arenaOrigin()), b.Radius)
			},
			Release: func() { b.Held = false },
		}
	}
	return []engine.Target{
		bodyTarget("red", &p.red),
		bodyTarget("green", &p.green),
		{
			ID:     "temperature",
			Hit:    p.tempSlide.track.Contains,
			Handle: func() engine.Vec2 { return p.tempSlide.handleAt(p.temperature) },
			Drag: func(pt engine.Vec2) {
				p.temperature = p.tempSlide.fracAt(pt)
			},
		},
	}
}

func (p *Particle) Outputs() []engine.Output {
	bodyOuts := func(b *Body) []engine.Output {
		return []engine.Output{
			{
				Kind:       engine.OutputControl,
				Controller: b.bindX.Controller,
				Value:      midimap.ToControlValue(b.Pos.X, 0, arenaSize),
			},
			{
				Kind:       engine.OutputControl,
				Controller: b.bindY.Controller,
				Value:      midimap.ToControlValue(b.Pos.Y, 0, arenaSize),
			},
		}
	}
	return append(bodyOuts(&p.red), bodyOuts(&p.green)...)
}

func (p *Particle) Snapshot() engine.Snapshot {
	return engine.Snapshot{
		Module: p.Name(),
		Values: map[string]float64{
			"red.x":       p.red.Pos.X,
			"red.y":       p.red.Pos.Y,
			"green.x":     p.green.Pos.X,
			"green.y":     p.green.Pos.Y,
			"temperature": p.temperature,
			"speed":       p.SpeedMultiplier(),
		},
		Held: map[string]bool{
			"red":   p.red.Held,
			"green": p.green.Held,
		},
		Outputs: p.Outputs(),
	}
}

// BodyState is one body's view for rendering, in arena coordinates.
type BodyState struct {
	Pos    engine.Vec2
	Vel    engine.Vec2
	Radius float64
	Held   bool
	CCX    uint8
	CCY    uint8
}

// ParticleState is the typed view the terminal renderer draws from.
type ParticleState struct {
	Red             BodyState
	Green           BodyState
	Temperature     float64
	SpeedMultiplier float64
}

func (p *Particle) State() ParticleState {
	view := func(b *Body) BodyState {
		return BodyState{
			Pos:    b.Pos,
			Vel:    b.Vel,
			Radius: b.Radius,
			Held:   b.Held,
			CCX:    b.bindX.Controller,
			CCY:    b.bindY.Controller,
		}
	}
	return ParticleState{
		Red:             view(&p.red),
		Green:           view(&p.green),
		Temperature:     p.temperature,
		SpeedMultiplier: p.SpeedMultiplier(),
	}
}

// Arena returns the simulation area's rectangle in layout space.
func (p *Particle) Arena() engine.Rect {
	return engine.Rect{X: arenaX, Y: arenaY, W: arenaSize, H: arenaSize}
}

// TempTrack returns the temperature slider's track rectangle.
func (p *Particle) TempTrack() engine.Rect { return p.tempSlide.track }

// TempHandle returns the temperature slider's handle point.
func (p *Particle) TempHandle() engine.Vec2 { return p.tempSlide.handleAt(p.temperature) }
