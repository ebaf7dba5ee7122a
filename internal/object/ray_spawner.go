package object

import (
	"math/rand"

	"github.com/tomz197/makemelaugh/internal/loop/config"
)

// Cadence selects how often and how fast rays are fired.
type Cadence int

const (
	CadenceAttract Cadence = iota // Fixed window, slow rays
	CadencePlay                   // Random window shrinking with difficulty
)

// RaySpawner fires at most one ray per cooldown window.
type RaySpawner struct {
	cfg  config.RaysConfig
	rng  *rand.Rand
	next int64 // Earliest time of the next spawn
}

// NewRaySpawner creates a spawner drawing windows from rng.
func NewRaySpawner(cfg config.RaysConfig, rng *rand.Rand) *RaySpawner {
	return &RaySpawner{cfg: cfg, rng: rng}
}

// Reset re-arms the spawner so the first ray comes one window after now.
func (s *RaySpawner) Reset(now int64, cadence Cadence, difficulty int) {
	s.next = now + s.Window(cadence, difficulty)
}

// Next returns the earliest time of the next spawn.
func (s *RaySpawner) Next() int64 {
	return s.next
}

// Window returns a cooldown for the cadence. Play windows are random.
func (s *RaySpawner) Window(cadence Cadence, difficulty int) int64 {
	if cadence == CadenceAttract {
		return s.cfg.AttractCooldown
	}
	span := s.cfg.PlayCooldownSpan - int64(difficulty)*s.cfg.PlayCooldownShrink
	if span < s.cfg.PlayCooldownSpanMin {
		span = s.cfg.PlayCooldownSpanMin
	}
	return s.cfg.PlayCooldownMin + s.rng.Int63n(span+1)
}

// Speed returns the ray speed for the cadence.
func (s *RaySpawner) Speed(cadence Cadence, difficulty int) float64 {
	if cadence == CadenceAttract {
		return s.cfg.AttractSpeed
	}
	return s.cfg.Speed + float64(difficulty)*s.cfg.SpeedPerLevel
}

// Update fires a ray from the eye when the window has passed.
// Returns true if a ray was spawned.
func (s *RaySpawner) Update(now int64, cadence Cadence, difficulty int, eye *Eye, sp Spawner) bool {
	if now < s.next || sp == nil {
		return false
	}

	spin := s.cfg.Spin
	if s.rng.Intn(2) == 0 {
		spin = -spin
	}
	sp.SpawnRay(eye.Pos, eye.Angle, s.Speed(cadence, difficulty), spin)
	s.next = now + s.Window(cadence, difficulty)
	return true
}
