package sims

import (
	"strings"
	"testing"

	"github.com/drmarkreuter/physiCCs/internal/config"
)

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	names := r.List()

	want := []string{"gravity", "particle", "pendulum"}
	if len(names) != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("expected %s at %d, got %s", name, i, names[i])
		}
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	cfg := config.DefaultConfig()

	for _, name := range r.List() {
		sim, err := r.Get(name, cfg)
		if err != nil {
			t.Fatalf("get %s failed: %v", name, err)
		}
		if sim.Name() != name {
			t.Errorf("expected name %s, got %s", name, sim.Name())
		}
		if len(sim.Targets()) == 0 {
			t.Errorf("%s: expected targets", name)
		}
		if len(sim.Outputs()) == 0 {
			t.Errorf("%s: expected outputs", name)
		}
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("warp", config.DefaultConfig())
	if err == nil {
		t.Fatal("expected error for unknown module")
	}
	if !strings.Contains(err.Error(), "unknown module") {
		t.Errorf("expected unknown module error, got %v", err)
	}
}

func TestRegistryGetBadConfig(t *testing.T) {
	r := NewRegistry()

	cfg := config.DefaultConfig()
	cfg.Gravity.Controllers = []int{74, 75}
	if _, err := r.Get("gravity", cfg); err == nil {
		t.Error("expected error for short controller list")
	}

	cfg = config.DefaultConfig()
	cfg.Gravity.Controllers = []int{74, 75, 128}
	if _, err := r.Get("gravity", cfg); err == nil {
		t.Error("expected error for controller above 127")
	}

	cfg = config.DefaultConfig()
	cfg.Particle.Green.Y = 300
	if _, err := r.Get("particle", cfg); err == nil {
		t.Error("expected error for particle controller above 127")
	}

	cfg = config.DefaultConfig()
	cfg.Pendulum.Mode = "warble"
	if _, err := r.Get("pendulum", cfg); err == nil {
		t.Error("expected error for unknown mode")
	}

	cfg = config.DefaultConfig()
	cfg.Pendulum.CC = -1
	if _, err := r.Get("pendulum", cfg); err == nil {
		t.Error("expected error for negative controller")
	}
}
