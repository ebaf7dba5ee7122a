package object

import (
	"fmt"
	"io"
)

// Label is a line of title or subtitle text that can be hidden.
type Label struct {
	Value   string
	Visible bool
}

// Set replaces the text and shows the label.
func (l *Label) Set(value string) {
	l.Value = value
	l.Visible = true
}

// Draw writes the label centered on column cx at row y using ANSI cursor
// movement. Coordinates are 1-based terminal positions.
func (l Label) Draw(w io.Writer, cx, y int) error {
	if !l.Visible || l.Value == "" {
		return nil
	}
	x := cx - len(l.Value)/2
	if x < 1 {
		x = 1
	}
	if y < 1 {
		y = 1
	}
	if _, err := fmt.Fprintf(w, "\033[%d;%dH%s", y, x, l.Value); err != nil {
		return err
	}
	return nil
}
