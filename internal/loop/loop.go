// Package loop provides the game world and its per-frame state machine.
package loop

import (
	"github.com/tomz197/makemelaugh/internal/input"
)

// Frame advances the world by one frame: read the clock, step physics,
// run the active state, aim the eye, sweep stray rays, record.
func (w *World) Frame(in input.Input) {
	w.now = w.deps.Clock.Micros()
	w.frames++

	// Contacts queue their commands here; Step applies them before returning.
	w.space.Step()

	switch w.state {
	case StateAttract:
		w.updateAttract(in)
	case StateStarting:
		w.updateStarting(in)
	case StatePlaying:
		w.updatePlaying(in)
	case StateGameOver:
		w.updateGameOver(in)
	}

	w.updateDebug(in)

	w.eye.Aim(w.space.ItemState().Pos)
	w.space.Sweep()

	if w.deps.Recorder != nil {
		snap := w.Snapshot()
		if err := w.deps.Recorder.Record(&snap); err != nil {
			w.log.Warn("trace record failed, disabling", "err", err)
			w.deps.Recorder = nil
		}
	}
}

// setState stamps the transition time and runs the new state's entry action.
func (w *World) setState(next GameState) {
	prev := w.state
	w.log.Debug("state change", "from", prev, "to", next, "at", w.now)

	w.state = next
	w.stateStart = w.now

	switch next {
	case StateAttract:
		w.enterAttract(prev)
	case StateStarting:
		w.enterStarting(prev)
	case StatePlaying:
		w.enterPlaying(prev)
	case StateGameOver:
		w.enterGameOver(prev)
	}
}

// updateDebug handles the debug buttons in every state.
func (w *World) updateDebug(in input.Input) {
	if in.Pressed.Has(input.ButtonR) {
		w.log.Debug("dump",
			"lungs", w.lungs.Actual,
			"lungs_target", w.lungs.Target,
			"mouth", w.mouth.Actual,
			"mouth_target", w.mouth.Target,
			"eye", w.eye.Scale,
			"meter", w.meter.Level,
			"change", w.meter.Change,
			"level", w.level,
			"sub_level", w.subLevel,
			"rays", w.space.RayCount(),
		)
	}
	if in.Pressed.Has(input.ButtonL) {
		w.debug = !w.debug
		w.log.Info("debug toggled", "debug", w.debug)
	}
}
