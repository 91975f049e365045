package sims

import (
	"math"
	"testing"

	"github.com/drmarkreuter/physiCCs/internal/engine"
)

func findTarget(t *testing.T, s engine.Simulation, id string) engine.Target {
	t.Helper()
	for _, tgt := range s.Targets() {
		if tgt.ID == id {
			return tgt
		}
	}
	t.Fatalf("target %s not found", id)
	return engine.Target{}
}

func newGravity(t *testing.T, strength float64) *Gravity {
	t.Helper()
	g, err := NewGravity([3]uint8{74, 75, 76}, strength)
	if err != nil {
		t.Fatalf("NewGravity failed: %v", err)
	}
	return g
}

func TestNewGravityValidation(t *testing.T) {
	if _, err := NewGravity([3]uint8{74, 75, 76}, -0.01); err == nil {
		t.Error("expected error for negative strength")
	}
	if _, err := NewGravity([3]uint8{74, 75, 76}, 1.01); err == nil {
		t.Error("expected error for strength above 1")
	}
	if _, err := NewGravity([3]uint8{74, 75, 200}, 0.5); err == nil {
		t.Error("expected error for controller above 127")
	}
	if _, err := NewGravity([3]uint8{74, 75, 76}, 0.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGravityConvergence(t *testing.T) {
	g := newGravity(t, 1.0)
	g.channels[0].SetHeld(127)
	g.channels[0].Release()

	for i := 0; i < 2000; i++ {
		g.Tick(1.0)
		v := g.channels[0].Value()
		if v < 0 || v > 127 {
			t.Fatalf("tick %d: value %f escaped [0,127]", i, v)
		}
	}

	v := g.channels[0].Value()
	if math.Abs(v-64) > 0.1 {
		t.Errorf("expected convergence to 64, got %f", v)
	}
}

func TestGravityZeroStrengthParksChannels(t *testing.T) {
	g := newGravity(t, 0.0)
	g.channels[0].SetHeld(100)
	g.channels[0].Release()
	g.channels[1].SetHeld(64.05)
	g.channels[1].Release()

	for i := 0; i < 500; i++ {
		g.Tick(1.0)
	}

	if v := g.channels[0].Value(); v != 100 {
		t.Errorf("expected parked channel to stay at 100, got %f", v)
	}
	if v := g.channels[1].Value(); v != 64.05 {
		t.Errorf("expected channel inside deadzone to stay at 64.05, got %f", v)
	}
}

func TestGravityDeadzoneSnaps(t *testing.T) {
	g := newGravity(t, 0.5)
	g.channels[0].SetHeld(64.05)
	g.channels[0].Release()

	g.Tick(1.0)

	if v := g.channels[0].Value(); v != 64 {
		t.Errorf("expected snap to 64, got %f", v)
	}
	if vel := g.channels[0].Velocity(); vel != 0 {
		t.Errorf("expected zero velocity after snap, got %f", vel)
	}
}

func TestGravityHeldChannelIgnoresPull(t *testing.T) {
	g := newGravity(t, 1.0)
	g.channels[0].SetHeld(120)

	for i := 0; i < 100; i++ {
		g.Tick(1.0)
	}

	if v := g.channels[0].Value(); v != 120 {
		t.Errorf("expected held channel to stay at 120, got %f", v)
	}
	if !g.channels[0].Held() {
		t.Error("expected channel to remain held")
	}
}

func TestGravitySliderTargets(t *testing.T) {
	g := newGravity(t, 0.5)
	tgt := findTarget(t, g, "slider-1")

	if !tgt.Hit(engine.Vec2{X: 140, Y: 350}) {
		t.Error("expected point inside track to hit")
	}
	if tgt.Hit(engine.Vec2{X: 90, Y: 350}) {
		t.Error("expected point left of track to miss")
	}

	tgt.Drag(engine.Vec2{X: 140, Y: 200})
	if v := g.channels[0].Value(); v != 127 {
		t.Errorf("expected drag to track top to give 127, got %f", v)
	}
	if !g.channels[0].Held() {
		t.Error("expected dragged channel to be held")
	}

	tgt.Drag(engine.Vec2{X: 140, Y: 500})
	if v := g.channels[0].Value(); v != 0 {
		t.Errorf("expected drag to track bottom to give 0, got %f", v)
	}

	tgt.Drag(engine.Vec2{X: 140, Y: 9999})
	if v := g.channels[0].Value(); v != 0 {
		t.Errorf("expected overshoot below track to clamp to 0, got %f", v)
	}

	tgt.Release()
	if g.channels[0].Held() {
		t.Error("expected release to free the channel")
	}
}

func TestGravityStrengthSlider(t *testing.T) {
	g := newGravity(t, 0.5)
	tgt := findTarget(t, g, "strength")

	tgt.Drag(engine.Vec2{X: 615, Y: 150})
	if g.Strength() != 1.0 {
		t.Errorf("expected strength 1.0 at track top, got %f", g.Strength())
	}

	tgt.Drag(engine.Vec2{X: 615, Y: 350})
	if g.Strength() != 0.0 {
		t.Errorf("expected strength 0.0 at track bottom, got %f", g.Strength())
	}

	tgt.Drag(engine.Vec2{X: 615, Y: 250})
	if math.Abs(g.Strength()-0.5) > 1e-9 {
		t.Errorf("expected strength 0.5 at track middle, got %f", g.Strength())
	}
}

func TestGravityOutputs(t *testing.T) {
	g := newGravity(t, 0.5)
	outs := g.Outputs()

	if len(outs) != 3 {
		t.Fatalf("expected 3 outputs, got %d", len(outs))
	}
	want := [3]uint8{74, 75, 76}
	for i, out := range outs {
		if out.Kind != engine.OutputControl {
			t.Errorf("output %d: expected control kind, got %v", i, out.Kind)
		}
		if out.Controller != want[i] {
			t.Errorf("output %d: expected controller %d, got %d", i, want[i], out.Controller)
		}
		if out.Value != 64 {
			t.Errorf("output %d: expected centered value 64, got %d", i, out.Value)
		}
	}
}

func TestGravitySnapshot(t *testing.T) {
	g := newGravity(t, 0.8)
	snap := g.Snapshot()

	if snap.Module != "gravity" {
		t.Errorf("expected module gravity, got %s", snap.Module)
	}
	if snap.Values["strength"] != 0.8 {
		t.Errorf("expected strength 0.8, got %f", snap.Values["strength"])
	}
	for _, key := range []string{"controller1", "controller2", "controller3"} {
		if _, ok := snap.Values[key]; !ok {
			t.Errorf("missing value key %s", key)
		}
		if _, ok := snap.Held[key]; !ok {
			t.Errorf("missing held key %s", key)
		}
	}
	if len(snap.Outputs) != 3 {
		t.Errorf("expected 3 outputs, got %d", len(snap.Outputs))
	}
}

func TestStrengthLabel(t *testing.T) {
	tests := []struct {
		strength float64
		expected string
	}{
		{0.0, "Zero G"},
		{0.2, "Moon"},
		{0.5, "Earth"},
		{0.8, "Jupiter"},
		{1.0, "Black Hole"},
		{0.35, "Moon"},
		{0.9, "Jupiter"},
	}

	for _, tt := range tests {
		if got := StrengthLabel(tt.strength); got != tt.expected {
			t.Errorf("strength %f: expected %s, got %s", tt.strength, tt.expected, got)
		}
	}
}
