package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModule      = "gravity"
	DefaultChannel     = 1
	DefaultAPIPort     = 8080
	DefaultStrength    = 0.5
	DefaultTemperature = 0.5
	DefaultArmLength   = 200.0
	DefaultGravity     = 0.5
	DefaultMode        = "cc"
	DefaultCC          = 74
)

type Config struct {
	Module   string         `yaml:"module"`
	Port     string         `yaml:"port"`
	Channel  int            `yaml:"channel"`
	APIPort  int            `yaml:"api_port"`
	Gravity  GravityConfig  `yaml:"gravity"`
	Particle ParticleConfig `yaml:"particle"`
	Pendulum PendulumConfig `yaml:"pendulum"`
}

type GravityConfig struct {
	Controllers []int   `yaml:"controllers"`
	Strength    float64 `yaml:"strength"`
}

type AxisConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type ParticleConfig struct {
	Red         AxisConfig `yaml:"red"`
	Green       AxisConfig `yaml:"green"`
	Temperature float64    `yaml:"temperature"`
	Seed        int64      `yaml:"seed"`
}

type PendulumConfig struct {
	Mode    string  `yaml:"mode"`
	CC      int     `yaml:"cc"`
	Length  float64 `yaml:"length"`
	Gravity float64 `yaml:"gravity"`
}

func DefaultConfig() *Config {
	return &Config{
		Module:  DefaultModule,
		Channel: DefaultChannel,
		APIPort: DefaultAPIPort,
		Gravity: GravityConfig{
			Controllers: []int{74, 75, 76},
			Strength:    DefaultStrength,
		},
		Particle: ParticleConfig{
			Red:         AxisConfig{X: 74, Y: 75},
			Green:       AxisConfig{X: 76, Y: 77},
			Temperature: DefaultTemperature,
		},
		Pendulum: PendulumConfig{
			Mode:    DefaultMode,
			CC:      DefaultCC,
			Length:  DefaultArmLength,
			Gravity: DefaultGravity,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
