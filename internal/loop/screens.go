package loop

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/tomz197/makemelaugh/internal/input"
	"github.com/tomz197/makemelaugh/internal/object"
	"github.com/tomz197/makemelaugh/internal/physics"
)

// enterAttract shows the title screen.
func (w *World) enterAttract(_ GameState) {
	w.title.Set("Make Me Laugh!")
	w.subtitle.Set("Press start!")
	w.ghostsVisible = false
	w.score = 0
	w.newHigh = false

	w.item.Type = object.ItemQuestion
	w.item.Reset()
	w.space.ResetItem(w.item.Pos)

	w.spawner.Reset(w.now, object.CadenceAttract, 0)
}

func (w *World) updateAttract(in input.Input) {
	w.idleAnimation()
	w.meter.Set(1 + physics.SinApprox(float64(w.now)*4/(5_000_000*w.phaseSpeed)))
	w.subtitle.Visible = object.ShouldRenderBlink(w.now)

	w.spawner.Update(w.now, object.CadenceAttract, 0, w.eye, w.space)

	if in.Pressed.Has(input.ButtonStart) {
		w.setState(StateStarting)
	}
}

// enterStarting shows the level card. Coming from the title screen it starts
// a new game.
func (w *World) enterStarting(prev GameState) {
	if prev == StateAttract {
		w.meter.Reset()
		w.level = 0
		w.subLevel = 0
		w.score = 0
		w.gameStart = w.now
		w.funnyHits = 0
		w.notFunnyHits = 0
		w.lungs = Channel{Actual: 1, Target: 1}
		w.space.ClearRays()
		w.log.Info("new game", "player", w.deps.Player)
	}

	w.setupSpeeds()
	w.item.Type = object.ItemForLevel(w.level, w.rng)
	w.ghostsVisible = false
	w.title.Set(fmt.Sprintf("Level %d", w.level+1))
	w.subtitle.Set(w.item.Type.String())
}

func (w *World) updateStarting(_ input.Input) {
	if w.now-w.stateStart >= w.cfg.Rules.StartingDuration {
		w.setState(StatePlaying)
	}
}

// enterGameOver scores the run and lets the item fall away.
func (w *World) enterGameOver(_ GameState) {
	w.score = int((w.now - w.gameStart) / 1_000_000)
	if w.score < 0 {
		w.score = 0
	}
	w.newHigh = w.deps.Scores.Submit(w.deps.Player, w.score)

	w.title.Set("Game over!")
	if w.newHigh {
		w.subtitle.Set(fmt.Sprintf("You got a new high score of %d seconds!", w.score))
	} else {
		w.subtitle.Set(fmt.Sprintf("You survived %d seconds", w.score))
	}
	w.ghostsVisible = false

	w.space.ReleaseItem(cp.Vector{X: 0, Y: -w.cfg.Physics.ItemReleaseSpeed}, w.cfg.Physics.ItemSpin)
	w.sting()

	w.log.Info("game over",
		"player", w.deps.Player,
		"score", w.score,
		"high_score", w.newHigh,
		"level", w.level,
		"funny_hits", w.funnyHits,
		"not_funny_hits", w.notFunnyHits,
	)
}

func (w *World) updateGameOver(in input.Input) {
	w.idleAnimation()

	if in.Pressed.Has(input.ButtonStart) {
		w.setState(StateAttract)
	}
}

// idleAnimation breathes the lungs, wobbles the mouth and pulses the eye.
func (w *World) idleAnimation() {
	t := float64(w.now)
	w.lungs.Actual = 0.95 + 0.1*physics.SinApprox(t/(1_000_000*w.phaseSpeed))
	w.mouth.Actual = math.Pi/8 + (math.Pi/10)*physics.SinApprox(t/2_000_000)
	w.eye.Scale = 0.9 + 0.2*physics.SinApprox(t/3_000_000)
}
