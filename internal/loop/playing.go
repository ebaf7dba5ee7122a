package loop

import (
	"github.com/tomz197/makemelaugh/internal/input"
	"github.com/tomz197/makemelaugh/internal/object"
)

// enterPlaying shows the targets and arms the sub-level timer.
func (w *World) enterPlaying(_ GameState) {
	w.ghostsVisible = true
	w.subtitle.Visible = false
	w.title.Set("")
	w.subLevelEnd = w.now + w.cfg.Rules.SubLevelDuration
	w.spawner.Reset(w.now, object.CadencePlay, w.difficulty())
	w.sting()
}

// updatePlaying runs one frame of gameplay.
func (w *World) updatePlaying(in input.Input) {
	incorrect := w.updateTracking(in)

	w.meter.Apply(Punishment(w.cfg.Rules, w.level, w.subLevel), incorrect)
	w.title.Set(w.hint())

	w.spawner.Update(w.now, object.CadencePlay, w.difficulty(), w.eye, w.space)

	// Two separate ways to lose: the meter runs out outside debug mode, or
	// the kill button in debug mode.
	if w.meter.Empty() && !w.debug {
		w.setState(StateGameOver)
		return
	}
	if w.debug && in.Pressed.Has(input.ButtonB) {
		w.log.Debug("forced game over")
		w.setState(StateGameOver)
		return
	}

	if w.debug && in.Pressed.Has(input.ButtonA) {
		w.log.Debug("forced level advance")
		w.advanceLevel()
		return
	}
	if w.now >= w.subLevelEnd {
		w.advanceSubLevel()
	}
}

// advanceSubLevel speeds things up; enough sub-levels make a level.
func (w *World) advanceSubLevel() {
	w.subLevel++
	if w.subLevel > w.cfg.Rules.SubLevelsPerLevel {
		w.advanceLevel()
		return
	}

	w.log.Debug("sub-level advance", "level", w.level, "sub_level", w.subLevel)
	w.subLevelEnd = w.now + w.cfg.Rules.SubLevelDuration
	w.setupSpeeds()
	w.sting()
}

// advanceLevel moves to the next level through the level card.
func (w *World) advanceLevel() {
	w.level++
	w.subLevel = 0
	w.log.Info("level up", "player", w.deps.Player, "level", w.level)
	w.setState(StateStarting)
}
