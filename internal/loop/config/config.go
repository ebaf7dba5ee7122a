// Package config centralizes all tunable game parameters.
//
// Defaults are embedded from defaults.yaml; a user file only needs the
// fields it wants to override.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every gameplay parameter.
type Config struct {
	Profile  string                 `yaml:"profile"`
	Profiles map[string]RulesConfig `yaml:"profiles"`
	Screen   ScreenConfig           `yaml:"screen"`
	Layout   LayoutConfig           `yaml:"layout"`
	Physics  PhysicsConfig          `yaml:"physics"`
	Meter    MeterConfig            `yaml:"meter"`
	Tracking TrackingConfig         `yaml:"tracking"`
	Rays     RaysConfig             `yaml:"rays"`
	Client   ClientConfig           `yaml:"client"`

	// Rules is the active profile, resolved after loading.
	Rules RulesConfig `yaml:"-"`
}

// Difficulty selects which counter drives tolerance, ray cadence and ray speed.
type Difficulty string

const (
	DifficultyLevel    Difficulty = "level"
	DifficultySubLevel Difficulty = "sub_level"
)

// RulesConfig is one named rule set. The two shipped profiles differ only in
// these numbers; the game runs a single code path for both.
type RulesConfig struct {
	StartingDuration      int64      `yaml:"starting_duration"`
	PunishmentBase        float64    `yaml:"punishment_base"`
	PunishmentPerLevel    float64    `yaml:"punishment_per_level"`
	PunishmentPerSubLevel float64    `yaml:"punishment_per_sub_level"`
	Difficulty            Difficulty `yaml:"difficulty"`
	SubLevelDuration      int64      `yaml:"sub_level_duration"`
	SubLevelsPerLevel     int        `yaml:"sub_levels_per_level"`
}

// Vec is a 2D position in logical screen units.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// ScreenConfig is the logical resolution every position is expressed in.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LayoutConfig holds anchor positions of the body parts.
type LayoutConfig struct {
	Lungs Vec `yaml:"lungs"`
	Mouth Vec `yaml:"mouth"`
	Eye   Vec `yaml:"eye"`
	Meter Vec `yaml:"meter"`
	Item  Vec `yaml:"item"`
}

// BoundsConfig is the sweep rectangle; bodies leaving it are removed.
type BoundsConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// PhysicsConfig holds rigid-body parameters.
type PhysicsConfig struct {
	StepDelta        float64      `yaml:"step_delta"`
	Gravity          float64      `yaml:"gravity"`
	ItemSize         float64      `yaml:"item_size"`
	ItemMass         float64      `yaml:"item_mass"`
	ItemSpin         float64      `yaml:"item_spin"`
	ItemReleaseSpeed float64      `yaml:"item_release_speed"`
	RayWidth         float64      `yaml:"ray_width"`
	RayHeight        float64      `yaml:"ray_height"`
	RayMass          float64      `yaml:"ray_mass"`
	Bounds           BoundsConfig `yaml:"bounds"`
}

// MeterConfig holds laughometer parameters.
type MeterConfig struct {
	Initial         float64 `yaml:"initial"`
	Max             float64 `yaml:"max"`
	Growth          float64 `yaml:"growth"`
	ChangeLimit     float64 `yaml:"change_limit"`
	FunnyBonus      float64 `yaml:"funny_bonus"`
	NotFunnyPenalty float64 `yaml:"not_funny_penalty"`
}

// TrackingConfig holds mouth/lung target tracking parameters.
type TrackingConfig struct {
	ToleranceBase         float64 `yaml:"tolerance_base"`
	TolerancePerLevel     float64 `yaml:"tolerance_per_level"`
	ToleranceMin          float64 `yaml:"tolerance_min"`
	PhaseSpeedBase        float64 `yaml:"phase_speed_base"`
	PhaseSpeedPerLevel    float64 `yaml:"phase_speed_per_level"`
	PhaseSpeedPerSubLevel float64 `yaml:"phase_speed_per_sub_level"`
	LungStep              float64 `yaml:"lung_step"`
	LungStepPerLevel      float64 `yaml:"lung_step_per_level"`
	LungMin               float64 `yaml:"lung_min"`
	LungMax               float64 `yaml:"lung_max"`
	ItemSpeed             float64 `yaml:"item_speed"`
}

// RaysConfig holds ray spawner parameters.
type RaysConfig struct {
	AttractCooldown     int64   `yaml:"attract_cooldown"`
	PlayCooldownMin     int64   `yaml:"play_cooldown_min"`
	PlayCooldownSpan    int64   `yaml:"play_cooldown_span"`
	PlayCooldownSpanMin int64   `yaml:"play_cooldown_span_min"`
	PlayCooldownShrink  int64   `yaml:"play_cooldown_shrink"`
	AttractSpeed        float64 `yaml:"attract_speed"`
	Speed               float64 `yaml:"speed"`
	SpeedPerLevel       float64 `yaml:"speed_per_level"`
	Spin                float64 `yaml:"spin"`
}

// ClientConfig holds terminal session parameters.
type ClientConfig struct {
	TargetFPS            int     `yaml:"target_fps"`
	MaxTermWidth         int     `yaml:"max_term_width"`
	MaxTermHeight        int     `yaml:"max_term_height"`
	InactivityWarn       float64 `yaml:"inactivity_warn"`       // Seconds
	InactivityDisconnect float64 `yaml:"inactivity_disconnect"` // Seconds
	ShutdownDisplay      float64 `yaml:"shutdown_display"`      // Seconds
}

// FrameTime returns the target duration of one client frame.
func (c ClientConfig) FrameTime() time.Duration {
	if c.TargetFPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.TargetFPS)
}

// Default returns the embedded defaults with the default profile resolved.
// It panics if the embedded file is broken, which is a build defect.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.UseProfile(cfg.Profile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseProfile makes the named profile the active rule set.
func (c *Config) UseProfile(name string) error {
	rules, ok := c.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}
	c.Profile = name
	c.Rules = rules
	return nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Physics.StepDelta <= 0 {
		errs = append(errs, errors.New("physics.step_delta must be positive"))
	}
	b := c.Physics.Bounds
	if b.MinX >= b.MaxX || b.MinY >= b.MaxY {
		errs = append(errs, errors.New("physics.bounds are inverted"))
	}
	if c.Physics.RayMass <= 0 || c.Physics.ItemMass <= 0 {
		errs = append(errs, errors.New("physics masses must be positive"))
	}
	if c.Meter.Max <= 0 || c.Meter.Initial < 0 || c.Meter.Initial > c.Meter.Max {
		errs = append(errs, errors.New("meter.initial must lie in [0, meter.max]"))
	}
	if c.Meter.ChangeLimit <= 0 {
		errs = append(errs, errors.New("meter.change_limit must be positive"))
	}
	if c.Tracking.ToleranceMin <= 0 {
		errs = append(errs, errors.New("tracking.tolerance_min must be positive"))
	}
	if c.Tracking.LungMin >= c.Tracking.LungMax {
		errs = append(errs, errors.New("tracking lung range is inverted"))
	}
	switch c.Rules.Difficulty {
	case DifficultyLevel, DifficultySubLevel:
	default:
		errs = append(errs, fmt.Errorf("profile %q: unknown difficulty %q", c.Profile, c.Rules.Difficulty))
	}
	if c.Rules.StartingDuration < 0 || c.Rules.SubLevelDuration <= 0 {
		errs = append(errs, fmt.Errorf("profile %q: durations must be positive", c.Profile))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
