// Package config loads and validates player configuration files.
//
// Files are JSON or YAML; JSON is parsed as YAML.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Pairing modes for choosing a soundtrack per background image.
const (
	PairRandom     = "random"
	PairPositional = "positional"
)

// Config represents a player configuration.
type Config struct {
	Metadata   MetadataConfig   `yaml:"metadata"`
	Font       string           `yaml:"font"`
	StartPhase string           `yaml:"start_phase"`
	Pairing    string           `yaml:"pairing" default:"random" validate:"oneof=random positional"`
	Seed       int64            `yaml:"seed"`
	Transition TransitionConfig `yaml:"transition"`
	Controls   ControlsConfig   `yaml:"controls"`
	Phases     []PhaseConfig    `yaml:"phases" validate:"required,min=1,dive"`
	Endings    []EndingConfig   `yaml:"endings" validate:"dive"`
	Sfx        []SfxConfig      `yaml:"sfx" validate:"dive"`
}

// MetadataConfig names the configuration and its asset directory.
type MetadataConfig struct {
	Name      string `yaml:"name" validate:"required"`
	AssetsDir string `yaml:"assets_dir" validate:"required"`
}

// TransitionConfig sets the crossfade length and the tick rate.
type TransitionConfig struct {
	DurationSeconds float64 `yaml:"duration_seconds" default:"5" validate:"gt=0,lte=600"`
	FPS             int     `yaml:"fps" default:"20" validate:"gt=0,lte=240"`
}

// ControlsConfig binds the generic keys.
type ControlsConfig struct {
	Fullscreen string `yaml:"fullscreen" default:"f11"`
	Controls   string `yaml:"controls" default:"f1"`
}

// PhaseConfig represents a single phase.
type PhaseConfig struct {
	UniqueID    string   `yaml:"unique_id"`
	Name        string   `yaml:"name" validate:"required"`
	Soundtracks []string `yaml:"soundtracks" validate:"required,min=1,dive,required"`
	Img         string   `yaml:"img" validate:"required"`
	Key         string   `yaml:"key"`
	NextPhase   string   `yaml:"next_phase"`
	Duration    float64  `yaml:"duration" validate:"gte=0"`
}

// EndingConfig represents a phase reachable only through its key.
type EndingConfig struct {
	Key   string `yaml:"key" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Img   string `yaml:"img" validate:"required"`
	Audio string `yaml:"audio" validate:"required"`
}

// SfxConfig represents a keyed sound effect.
type SfxConfig struct {
	Name  string `yaml:"name" validate:"required"`
	Key   string `yaml:"key" validate:"required"`
	Audio string `yaml:"audio" validate:"required"`
}

// ID returns the phase id, falling back to its name.
func (p PhaseConfig) ID() string {
	if p.UniqueID != "" {
		return p.UniqueID
	}
	return p.Name
}

// AutoplayDuration returns how long the phase plays before advancing on its
// own; zero means manual advance only.
func (p PhaseConfig) AutoplayDuration() time.Duration {
	return time.Duration(p.Duration * float64(time.Second))
}

// ID returns the id an ending is registered under.
func (e EndingConfig) ID() string {
	return "ending:" + e.Name
}

// FadeDuration returns the crossfade length.
func (t TransitionConfig) FadeDuration() time.Duration {
	return time.Duration(t.DurationSeconds * float64(time.Second))
}

// Load loads configuration from a JSON or YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes, defaults and validates configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	return c.validatePhaseLinks()
}

// validatePhaseLinks checks id uniqueness and that every next_phase and the
// start phase name an existing phase.
func (c *Config) validatePhaseLinks() error {
	ids := make(map[string]bool, len(c.Phases)+len(c.Endings))
	for _, p := range c.Phases {
		if ids[p.ID()] {
			return errors.Newf("duplicate phase id %q", p.ID())
		}
		ids[p.ID()] = true
	}
	for _, e := range c.Endings {
		if ids[e.ID()] {
			return errors.Newf("duplicate ending %q", e.Name)
		}
		ids[e.ID()] = true
	}

	for _, p := range c.Phases {
		if p.NextPhase != "" && !ids[p.NextPhase] {
			return errors.Newf("phase %q: next_phase %q does not exist", p.ID(), p.NextPhase)
		}
	}
	if c.StartPhase != "" && !ids[c.StartPhase] {
		return errors.Newf("start_phase %q does not exist", c.StartPhase)
	}

	return nil
}
