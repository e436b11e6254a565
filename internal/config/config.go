package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTickRate  = 60.0
	DefaultDuration  = 10.0
	DefaultStartTime = 1000.0
)

// Scenario validation errors.
var (
	ErrNoUser            = errors.New("config: scenario needs exactly one user entity")
	ErrSuperluminal      = errors.New("config: entity velocity at or above light speed")
	ErrBadTickRate       = errors.New("config: tick rate must be positive")
	ErrBadDuration       = errors.New("config: duration must be positive")
	ErrUnorderedCommands = errors.New("config: commands must be ordered by time")
)

// CommandConfig schedules a proper-acceleration command at a time offset
// from the scenario start. A zero acceleration means coast.
type CommandConfig struct {
	Time  float64    `yaml:"time"`
	Accel [3]float64 `yaml:"accel"`
}

// EntityConfig describes one entity's seed frame, rendering metadata, and
// command schedule.
type EntityConfig struct {
	Name     string          `yaml:"name"`
	Model    string          `yaml:"model"`
	Color    [4]float64      `yaml:"color"`
	Position [4]float64      `yaml:"position"`
	Velocity [3]float64      `yaml:"velocity"`
	User     bool            `yaml:"user"`
	Commands []CommandConfig `yaml:"commands"`
}

// Config is a full simulation scenario.
type Config struct {
	Name      string         `yaml:"name"`
	TickRate  float64        `yaml:"tick_rate"`
	Duration  float64        `yaml:"duration"`
	StartTime float64        `yaml:"start_time"`
	Entities  []EntityConfig `yaml:"entities"`
}

// Default returns a minimal scenario: a resting user and one inertial
// bystander.
func Default() *Config {
	return &Config{
		Name:      "default",
		TickRate:  DefaultTickRate,
		Duration:  DefaultDuration,
		StartTime: DefaultStartTime,
		Entities: []EntityConfig{
			{
				Name:  "ship",
				Model: "ship",
				Color: [4]float64{1, 1, 1, 1},
				User:  true,
			},
			{
				Name:     "beacon",
				Model:    "cube",
				Color:    [4]float64{0.2, 0.8, 1, 1},
				Position: [4]float64{0, 0, -20, 0},
			},
		},
	}
}

// Load reads a scenario from a yaml file, filling unset fields from
// Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	cfg.Entities = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a scenario to a yaml file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scenario's structural invariants.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%w, got %f", ErrBadTickRate, c.TickRate)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w, got %f", ErrBadDuration, c.Duration)
	}

	users := 0
	for _, e := range c.Entities {
		if e.User {
			users++
		}

		speed2 := e.Velocity[0]*e.Velocity[0] + e.Velocity[1]*e.Velocity[1] + e.Velocity[2]*e.Velocity[2]
		if speed2 >= 1 {
			return fmt.Errorf("%w: entity %q", ErrSuperluminal, e.Name)
		}

		for i := 1; i < len(e.Commands); i++ {
			if e.Commands[i].Time <= e.Commands[i-1].Time {
				return fmt.Errorf("%w: entity %q", ErrUnorderedCommands, e.Name)
			}
		}
	}
	if users != 1 {
		return fmt.Errorf("%w, got %d", ErrNoUser, users)
	}

	return nil
}

// UserIndex returns the index of the user entity, or -1 when absent.
func (c *Config) UserIndex() int {
	for i, e := range c.Entities {
		if e.User {
			return i
		}
	}
	return -1
}
