package config

// Presets are named starting points per module. Each preset is a complete
// configuration built on the defaults, so applying one never leaves port
// or channel settings unset.
var Presets = map[string]map[string]*Config{
	"gravity": {
		"zero-g":     preset(func(c *Config) { c.Module = "gravity"; c.Gravity.Strength = 0.0 }),
		"moon":       preset(func(c *Config) { c.Module = "gravity"; c.Gravity.Strength = 0.2 }),
		"earth":      preset(func(c *Config) { c.Module = "gravity"; c.Gravity.Strength = 0.5 }),
		"jupiter":    preset(func(c *Config) { c.Module = "gravity"; c.Gravity.Strength = 0.8 }),
		"black-hole": preset(func(c *Config) { c.Module = "gravity"; c.Gravity.Strength = 1.0 }),
	},
	"particle": {
		"frozen": preset(func(c *Config) { c.Module = "particle"; c.Particle.Temperature = 0.0 }),
		"warm":   preset(func(c *Config) { c.Module = "particle"; c.Particle.Temperature = 0.5 }),
		"plasma": preset(func(c *Config) { c.Module = "particle"; c.Particle.Temperature = 1.0 }),
	},
	"pendulum": {
		"cc":    preset(func(c *Config) { c.Module = "pendulum"; c.Pendulum.Mode = "cc" }),
		"bend":  preset(func(c *Config) { c.Module = "pendulum"; c.Pendulum.Mode = "bend" }),
		"long":  preset(func(c *Config) { c.Module = "pendulum"; c.Pendulum.Length = 300 }),
		"short": preset(func(c *Config) { c.Module = "pendulum"; c.Pendulum.Length = 100 }),
	},
}

func preset(mutate func(*Config)) *Config {
	cfg := DefaultConfig()
	mutate(cfg)
	return cfg
}

func GetPreset(module, name string) *Config {
	presets, ok := Presets[module]
	if !ok {
		return nil
	}
	cfg, ok := presets[name]
	if !ok {
		return nil
	}
	// Copy so callers can layer overrides without touching the preset.
	out := *cfg
	out.Gravity.Controllers = append([]int(nil), cfg.Gravity.Controllers...)
	return &out
}

func ListPresets(module string) []string {
	presets, ok := Presets[module]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	return names
}
