package loop

import (
	"github.com/jakecoffman/cp"
)

// resolveContact decides what a ray hitting the item does. It runs inside
// the physics step, so the body changes are queued and the space applies
// them once the step returns.
func (w *World) resolveContact(ray *cp.Body) {
	playing := w.state == StatePlaying

	if w.item.Type.Funny() {
		if !w.space.QueueRemove(ray) {
			return
		}
		w.funnyHits++
		if playing {
			w.meter.Bump(w.cfg.Meter.FunnyBonus)
		}
		w.sting()
		return
	}

	if !w.space.QueuePromote(ray) {
		return
	}
	w.notFunnyHits++
	if playing {
		w.meter.Bump(-w.cfg.Meter.NotFunnyPenalty)
		return
	}
	w.sting()
}
