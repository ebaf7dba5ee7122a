// Package draw renders to ANSI terminals with half-block characters.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Bar renders a horizontal gauge of the given cell width. fill is in [0, 1];
// the last partial cell is shaded.
func Bar(width int, fill float64) string {
	if width <= 0 {
		return ""
	}
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	cells := fill * float64(width)
	full := int(cells)

	out := make([]rune, width)
	for i := range out {
		switch {
		case i < full:
			out[i] = BlockFull
		case i == full:
			out[i] = ShadeLevel(cells - float64(full))
		default:
			out[i] = BlockEmpty
		}
	}
	return string(out)
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI colors for text overlays.
const (
	ColorReset      = "\033[0m"
	ColorRed        = "\033[31m"
	ColorGreen      = "\033[32m"
	ColorYellow     = "\033[33m"
	ColorBrightCyan = "\033[96m"
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
