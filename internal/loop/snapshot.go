package loop

import (
	"github.com/jakecoffman/cp"

	"github.com/tomz197/makemelaugh/internal/object"
	"github.com/tomz197/makemelaugh/internal/physics"
)

// ItemView is the item as the renderer sees it.
type ItemView struct {
	Type    object.ItemType
	Pos     cp.Vector
	Angle   float64
	Dynamic bool
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	Time  int64
	Frame int64
	State GameState

	Meter       float64
	MeterChange float64
	Mouth       Channel
	Lungs       Channel
	Eye         object.Eye
	Item        ItemView
	Rays        []physics.BodyState

	Title         object.Label
	Subtitle      object.Label
	GhostsVisible bool

	Level        int
	SubLevel     int
	Score        int
	HighScore    int
	NewHighScore bool
	Elapsed      int64 // Microseconds since the game started, while one is running
	Debug        bool

	FunnyHits    int
	NotFunnyHits int
}

// Snapshot copies the current world state.
func (w *World) Snapshot() Snapshot {
	item := w.space.ItemState()

	var elapsed int64
	if w.state == StateStarting || w.state == StatePlaying {
		elapsed = w.now - w.gameStart
	}

	return Snapshot{
		Time:  w.now,
		Frame: w.frames,
		State: w.state,

		Meter:       w.meter.Level,
		MeterChange: w.meter.Change,
		Mouth:       w.mouth,
		Lungs:       w.lungs,
		Eye:         *w.eye,
		Item: ItemView{
			Type:    w.item.Type,
			Pos:     item.Pos,
			Angle:   item.Angle,
			Dynamic: item.Dynamic,
		},
		Rays: w.space.Rays(),

		Title:         w.title,
		Subtitle:      w.subtitle,
		GhostsVisible: w.ghostsVisible,

		Level:        w.level,
		SubLevel:     w.subLevel,
		Score:        w.score,
		HighScore:    w.deps.Scores.HighScore(),
		NewHighScore: w.newHigh,
		Elapsed:      elapsed,
		Debug:        w.debug,

		FunnyHits:    w.funnyHits,
		NotFunnyHits: w.notFunnyHits,
	}
}
