package loop

import (
	"math"

	"github.com/tomz197/makemelaugh/internal/loop/config"
	"github.com/tomz197/makemelaugh/internal/physics"
)

// Status tells the player which way a channel has to move.
type Status int

const (
	StatusNeutral Status = iota // Within tolerance
	StatusUp                    // Target is above actual
	StatusDown                  // Target is below actual
)

func (s Status) String() string {
	switch s {
	case StatusNeutral:
		return "neutral"
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	default:
		return "unknown"
	}
}

// Channel is one tracked body part: where it is, where it should be.
type Channel struct {
	Actual float64
	Target float64
	Status Status
}

// Correct reports whether the channel is within tolerance.
func (c Channel) Correct() bool {
	return c.Status == StatusNeutral
}

// DeriveStatus compares target against actual with a tolerance band.
func DeriveStatus(actual, target, tolerance float64) Status {
	switch {
	case target > actual+tolerance:
		return StatusUp
	case target < actual-tolerance:
		return StatusDown
	default:
		return StatusNeutral
	}
}

// Tolerance returns the half-width of the correct band at a difficulty.
func Tolerance(cfg config.TrackingConfig, difficulty int) float64 {
	return math.Max(cfg.ToleranceMin, cfg.ToleranceBase-cfg.TolerancePerLevel*float64(difficulty))
}

// Punishment returns the change applied per incorrect channel per frame.
func Punishment(rules config.RulesConfig, level, subLevel int) float64 {
	return rules.PunishmentBase +
		rules.PunishmentPerLevel*float64(level) +
		rules.PunishmentPerSubLevel*float64(subLevel)
}

// Meter is the laughometer. Level runs out, the game is over.
type Meter struct {
	Level  float64
	Change float64
	cfg    config.MeterConfig
}

// NewMeter creates a meter at its initial level.
func NewMeter(cfg config.MeterConfig) Meter {
	m := Meter{cfg: cfg}
	m.Reset()
	return m
}

// Reset restores the start-of-game level and clears the change rate.
func (m *Meter) Reset() {
	m.Level = m.cfg.Initial
	m.Change = 0
}

// Apply runs one playing frame: grow, punish each incorrect channel, clamp
// the change rate, then move and clamp the level.
func (m *Meter) Apply(punishment float64, incorrect int) {
	m.Change += m.cfg.Growth
	m.Change += punishment * float64(incorrect)
	m.Change = physics.Clamp(m.Change, -m.cfg.ChangeLimit, m.cfg.ChangeLimit)
	m.Level = physics.Clamp(m.Level+m.Change, 0, m.cfg.Max)
}

// Bump adds delta to the level directly.
func (m *Meter) Bump(delta float64) {
	m.Level = physics.Clamp(m.Level+delta, 0, m.cfg.Max)
}

// Set forces the level, used by the idle animation.
func (m *Meter) Set(level float64) {
	m.Level = physics.Clamp(level, 0, m.cfg.Max)
}

// Empty reports whether the meter ran out.
func (m *Meter) Empty() bool {
	return m.Level <= 0
}
