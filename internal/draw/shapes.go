package draw

import "math"

// Rect fills out with the four corners of a w×h rectangle centered on (cx, cy)
// and rotated by angle radians. out must have length 4.
func Rect(out []Point, cx, cy, w, h, angle float64) []Point {
	hw, hh := w/2, h/2
	sin, cos := math.Sincos(angle)
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for i, c := range corners {
		out[i] = Point{
			X: cx + c[0]*cos - c[1]*sin,
			Y: cy + c[0]*sin + c[1]*cos,
		}
	}
	return out[:4]
}

// Ellipse fills out with len(out) points around an axis-aligned ellipse.
func Ellipse(out []Point, cx, cy, rx, ry float64) []Point {
	n := len(out)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		sin, cos := math.Sincos(a)
		out[i] = Point{X: cx + rx*cos, Y: cy + ry*sin}
	}
	return out
}

// Ray returns the end point of a segment of the given length starting at
// (x, y) in direction angle.
func Ray(x, y, angle, length float64) Point {
	sin, cos := math.Sincos(angle)
	return Point{X: x + cos*length, Y: y + sin*length}
}
