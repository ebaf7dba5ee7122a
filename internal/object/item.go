package object

import (
	"math/rand"

	"github.com/jakecoffman/cp"
)

// ItemType is what the player holds up in front of the eye.
type ItemType int

const (
	ItemBrick ItemType = iota
	ItemCheese
	ItemBeans
	ItemTax
	ItemQuestion // Attract-mode placeholder
)

// Progression is the item for each of the first levels. Later levels pick
// at random from the same set.
var Progression = []ItemType{ItemBrick, ItemCheese, ItemTax, ItemBeans}

// Funny reports whether rays hitting this item make the face laugh.
func (t ItemType) Funny() bool {
	return t == ItemCheese || t == ItemBeans
}

// String returns the display name.
func (t ItemType) String() string {
	switch t {
	case ItemBrick:
		return "Brick"
	case ItemCheese:
		return "Cheese"
	case ItemBeans:
		return "Beans"
	case ItemTax:
		return "Tax Return"
	case ItemQuestion:
		return "?"
	default:
		return "Unknown"
	}
}

// ItemForLevel returns the item for a level: the progression entry while it
// lasts, then a random one.
func ItemForLevel(level int, rng *rand.Rand) ItemType {
	if level >= 0 && level < len(Progression) {
		return Progression[level]
	}
	return Progression[rng.Intn(len(Progression))]
}

// Item is the player-controlled object.
type Item struct {
	Type  ItemType
	Pos   cp.Vector
	Start cp.Vector
}

// NewItem creates an item resting at its start position.
func NewItem(start cp.Vector) *Item {
	return &Item{Type: ItemQuestion, Pos: start, Start: start}
}

// Reset returns the item to its start position.
func (it *Item) Reset() {
	it.Pos = it.Start
}

// Move shifts the item by (dx, dy), staying on screen.
func (it *Item) Move(dx, dy float64, screen Screen) {
	it.Pos = screen.ClampPosition(cp.Vector{X: it.Pos.X + dx, Y: it.Pos.Y + dy})
}
