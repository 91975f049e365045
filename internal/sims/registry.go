package sims

import (
	"fmt"
	"sort"

	"github.com/drmarkreuter/physiCCs/internal/config"
	"github.com/drmarkreuter/physiCCs/internal/engine"
	"github.com/drmarkreuter/physiCCs/internal/midimap"
)

type Registry struct {
	modules map[string]func(*config.Config) (engine.Simulation, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		modules: make(map[string]func(*config.Config) (engine.Simulation, error)),
	}

	r.modules["gravity"] = func(cfg *config.Config) (engine.Simulation, error) {
		ccs, err := gravityControllers(cfg.Gravity.Controllers)
		if err != nil {
			return nil, err
		}
		return NewGravity(ccs, cfg.Gravity.Strength)
	}
	r.modules["particle"] = func(cfg *config.Config) (engine.Simulation, error) {
		ccs, err := particleControllers(cfg.Particle)
		if err != nil {
			return nil, err
		}
		return NewParticle(ccs, cfg.Particle.Temperature, cfg.Particle.Seed)
	}
	r.modules["pendulum"] = func(cfg *config.Config) (engine.Simulation, error) {
		mode, err := midimap.ParseMode(cfg.Pendulum.Mode)
		if err != nil {
			return nil, err
		}
		cc, err := ccNumber(cfg.Pendulum.CC, "pendulum")
		if err != nil {
			return nil, err
		}
		return NewPendulum(mode, cc, cfg.Pendulum.Length, cfg.Pendulum.Gravity)
	}

	return r
}

// Get builds the named module from the configuration.
func (r *Registry) Get(name string, cfg *config.Config) (engine.Simulation, error) {
	fn, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("unknown module: %s", name)
	}
	return fn(cfg)
}

// List returns the available module names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ccNumber(v int, label string) (uint8, error) {
	if v < 0 || v > midimap.ControlMax {
		return 0, fmt.Errorf("sims: %s controller %d out of range (0-127)", label, v)
	}
	return uint8(v), nil
}

func gravityControllers(vs []int) ([3]uint8, error) {
	var out [3]uint8
	if len(vs) != 3 {
		return out, fmt.Errorf("sims: expected 3 controller numbers, got %d", len(vs))
	}
	for i, v := range vs {
		cc, err := ccNumber(v, fmt.Sprintf("slider %d", i+1))
		if err != nil {
			return out, err
		}
		out[i] = cc
	}
	return out, nil
}

func particleControllers(pc config.ParticleConfig) ([4]uint8, error) {
	vals := [4]int{pc.Red.X, pc.Red.Y, pc.Green.X, pc.Green.Y}
	labels := [4]string{"red x", "red y", "green x", "green y"}
	var out [4]uint8
	for i, v := range vals {
		cc, err := ccNumber(v, labels[i])
		if err != nil {
			return out, err
		}
		out[i] = cc
	}
	return out, nil
}
