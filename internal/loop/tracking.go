package loop

import (
	"math"

	"github.com/tomz197/makemelaugh/internal/input"
	"github.com/tomz197/makemelaugh/internal/physics"
)

// MouthFromStick maps stick deflection to a mouth angle in [0, π/4].
func MouthFromStick(stickY int8) float64 {
	y := physics.Clamp(float64(stickY), -input.StickRange, input.StickRange)
	return math.Pi/8 + (y/input.StickRange)*math.Pi/8
}

// MouthTarget is the angle the mouth should be at time now.
func MouthTarget(now int64, speed float64) float64 {
	return math.Pi * (1 + 0.75*physics.SinApprox(float64(now)*speed/1_000_000)) / 8
}

// LungTarget is the scale the lungs should be at time now.
func LungTarget(now int64, speed float64) float64 {
	return 0.95 + 0.1*physics.SinApprox(float64(now)*speed/1_000_000)
}

// updateTracking moves the body parts from input, refreshes the targets and
// derives each channel's status. Returns the number of incorrect channels.
func (w *World) updateTracking(in input.Input) int {
	cfg := w.cfg.Tracking

	w.mouth.Actual = MouthFromStick(in.StickY)

	step := cfg.LungStep + cfg.LungStepPerLevel*float64(w.level)
	if in.Held.Has(input.ButtonDUp) {
		w.lungs.Actual += step
	}
	if in.Held.Has(input.ButtonDDown) {
		w.lungs.Actual -= step
	}
	w.lungs.Actual = physics.Clamp(w.lungs.Actual, cfg.LungMin, cfg.LungMax)

	var dx, dy float64
	if in.Held.Has(input.ButtonCUp) {
		dy -= cfg.ItemSpeed
	}
	if in.Held.Has(input.ButtonCDown) {
		dy += cfg.ItemSpeed
	}
	if in.Held.Has(input.ButtonCLeft) {
		dx -= cfg.ItemSpeed
	}
	if in.Held.Has(input.ButtonCRight) {
		dx += cfg.ItemSpeed
	}
	if dx != 0 || dy != 0 {
		w.item.Move(dx, dy, w.screen)
		w.space.MoveItem(w.item.Pos)
	}

	w.mouth.Target = MouthTarget(w.now, w.phaseSpeed)
	w.lungs.Target = LungTarget(w.now, w.phaseSpeed)

	tol := Tolerance(cfg, w.difficulty())
	w.mouth.Status = DeriveStatus(w.mouth.Actual, w.mouth.Target, tol)
	w.lungs.Status = DeriveStatus(w.lungs.Actual, w.lungs.Target, tol)

	incorrect := 0
	if !w.mouth.Correct() {
		incorrect++
	}
	if !w.lungs.Correct() {
		incorrect++
	}
	return incorrect
}

// hint nudges the player toward the first channel that is off.
func (w *World) hint() string {
	switch {
	case !w.lungs.Correct():
		return "Breath harder!"
	case !w.mouth.Correct():
		return "Mouth harder!"
	default:
		return ""
	}
}
