package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the simulation setup read from a YAML file. Zero fields take
// the values from Default.
type Config struct {
	// Rank is the difficulty in [0, 1] that patterns read as $rank.
	Rank float64 `yaml:"rank"`
	// TimeSpeed scales every duration and movement step.
	TimeSpeed float64 `yaml:"time_speed"`
	Seed      uint64  `yaml:"seed"`
	Frames    int     `yaml:"frames"`
	// Scene is the prefab scene the emitters and target come from.
	Scene      string `yaml:"scene"`
	BulletTTL  int    `yaml:"bullet_ttl"`
	MaxBullets int    `yaml:"max_bullets"`
	// Loop restarts emitter patterns once they finish.
	Loop bool `yaml:"loop"`
}

func Default() Config {
	return Config{
		Rank:       0.5,
		TimeSpeed:  1,
		Seed:       1,
		Frames:     300,
		Scene:      "default",
		BulletTTL:  600,
		MaxBullets: 2000,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Rank < 0 || c.Rank > 1 {
		errs = append(errs, fmt.Errorf("%w: rank %v outside [0, 1]", ErrInvalid, c.Rank))
	}
	if c.TimeSpeed <= 0 {
		errs = append(errs, fmt.Errorf("%w: time_speed must be positive, got %v", ErrInvalid, c.TimeSpeed))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalid, c.Frames))
	}
	if c.BulletTTL < 0 {
		errs = append(errs, fmt.Errorf("%w: bullet_ttl must not be negative, got %d", ErrInvalid, c.BulletTTL))
	}
	if c.MaxBullets < 0 {
		errs = append(errs, fmt.Errorf("%w: max_bullets must not be negative, got %d", ErrInvalid, c.MaxBullets))
	}
	if c.Scene == "" {
		errs = append(errs, fmt.Errorf("%w: scene must be set", ErrInvalid))
	}
	return errors.Join(errs...)
}
