// Package object holds the game actors the loop drives: the item, the eye,
// the ray spawner and on-screen labels.
package object

import (
	"github.com/jakecoffman/cp"

	"github.com/tomz197/makemelaugh/internal/physics"
)

// Spawner allows objects to spawn rays during update.
type Spawner interface {
	SpawnRay(pos cp.Vector, angle, speed, spin float64) *cp.Body
}

// Screen represents the logical play area.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen creates a screen of the given logical size.
func NewScreen(w, h int) Screen {
	return Screen{Width: w, Height: h, CenterX: w / 2, CenterY: h / 2}
}

// ClampPosition keeps a point inside the screen.
func (s Screen) ClampPosition(p cp.Vector) cp.Vector {
	return cp.Vector{
		X: physics.Clamp(p.X, 0, float64(s.Width)),
		Y: physics.Clamp(p.Y, 0, float64(s.Height)),
	}
}

// Eye fires rays at the item.
type Eye struct {
	Pos   cp.Vector
	Angle float64 // Radians, 0 = pointing right, increases clockwise (screen y grows down)
	Scale float64
}

// NewEye creates an eye at pos with unit scale.
func NewEye(pos cp.Vector) *Eye {
	return &Eye{Pos: pos, Scale: 1}
}

// Aim points the eye at target.
func (e *Eye) Aim(target cp.Vector) {
	e.Angle = physics.AngleTo(e.Pos, target)
}

// ShouldRenderBlink returns true during the visible half of each one-second
// blink period.
func ShouldRenderBlink(now int64) bool {
	return now%1_000_000 > 500_000
}
