package client

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/tomz197/makemelaugh/internal/draw"
	"github.com/tomz197/makemelaugh/internal/loop"
	"github.com/tomz197/makemelaugh/internal/loop/config"
	"github.com/tomz197/makemelaugh/internal/object"
)

// Body part sizes in logical units at scale 1.
const (
	lungRadiusX = 18.0
	lungRadiusY = 40.0
	lungSpacing = 22.0
	jawLength   = 70.0
	eyeRadius   = 28.0
	pupilRadius = 8.0
	meterWidth  = 400.0
	meterHeight = 16.0
	ellipseSegs = 24
	dotSpacing  = 6.0
	leaderRows  = 5
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	snap := c.world.Snapshot()

	// On state or inactivity transitions, do a full terminal clear so UI
	// elements from the previous screen don't persist.
	if snap.State != c.state.prevState || c.state.isInactive != c.state.wasInactive {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevState = snap.State
		c.state.wasInactive = c.state.isInactive
	}

	c.canvas.Clear()
	c.drawScene(&snap)
	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)

	c.drawUI(&snap, now)

	return c.chunkWriter.Flush()
}

// drawScene rasterizes the body parts, meter, item and rays.
func (c *Client) drawScene(s *loop.Snapshot) {
	layout := c.cfg.Layout

	c.drawLungs(layout.Lungs, s.Lungs.Actual, false)
	if s.GhostsVisible {
		c.drawLungs(layout.Lungs, s.Lungs.Target, true)
	}

	c.drawMouth(layout.Mouth, s.Mouth.Actual, false)
	if s.GhostsVisible {
		c.drawMouth(layout.Mouth, s.Mouth.Target, true)
	}

	c.drawEye(s.Eye)
	c.drawMeter(layout.Meter, s.Meter/c.cfg.Meter.Max)
	c.drawItem(s.Item)

	phys := c.cfg.Physics
	for _, ray := range s.Rays {
		pts := draw.Rect(c.canvas.BorrowPoints(4), ray.Pos.X, ray.Pos.Y, phys.RayWidth, phys.RayHeight, ray.Angle)
		// Debris is drawn hollow.
		c.canvas.DrawPolygon(pts, !ray.Dynamic)
	}
}

func (c *Client) drawLungs(at config.Vec, scale float64, ghost bool) {
	for _, side := range []float64{-1, 1} {
		pts := draw.Ellipse(c.canvas.BorrowPoints(ellipseSegs),
			at.X+side*lungSpacing, at.Y, lungRadiusX*scale, lungRadiusY*scale)
		if ghost {
			c.canvas.DrawDashed(pts)
		} else {
			c.canvas.DrawPolygon(pts, true)
		}
	}
}

// drawMouth draws two jaws opening by angle around the hinge.
func (c *Client) drawMouth(at config.Vec, angle float64, ghost bool) {
	hinge := draw.Point{X: at.X, Y: at.Y}
	for _, a := range []float64{-angle, angle} {
		end := draw.Ray(at.X, at.Y, a, jawLength)
		if ghost {
			c.dotted(hinge, end)
		} else {
			c.canvas.DrawLine(hinge, end)
		}
	}
}

func (c *Client) dotted(a, b draw.Point) {
	length := math.Hypot(b.X-a.X, b.Y-a.Y)
	for d := 0.0; d <= length; d += dotSpacing {
		t := d / length
		c.canvas.SetFloat(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
	}
}

func (c *Client) drawEye(e object.Eye) {
	r := eyeRadius * e.Scale
	c.canvas.DrawPolygon(draw.Ellipse(c.canvas.BorrowPoints(ellipseSegs), e.Pos.X, e.Pos.Y, r, r), false)

	pupil := draw.Ray(e.Pos.X, e.Pos.Y, e.Angle, r-pupilRadius)
	pr := pupilRadius * e.Scale
	c.canvas.DrawPolygon(draw.Ellipse(c.canvas.BorrowPoints(ellipseSegs), pupil.X, pupil.Y, pr, pr), true)
}

// drawMeter draws the outline and fills it left to right by fill in [0, 1].
func (c *Client) drawMeter(at config.Vec, fill float64) {
	fill = math.Max(0, math.Min(1, fill))
	c.canvas.DrawPolygon(draw.Rect(c.canvas.BorrowPoints(4), at.X, at.Y, meterWidth, meterHeight, 0), false)
	if fill > 0 {
		w := meterWidth * fill
		left := at.X - meterWidth/2
		c.canvas.DrawPolygon(draw.Rect(c.canvas.BorrowPoints(4), left+w/2, at.Y, w, meterHeight, 0), true)
	}
}

func (c *Client) drawItem(item loop.ItemView) {
	size := c.cfg.Physics.ItemSize
	pts := draw.Rect(c.canvas.BorrowPoints(4), item.Pos.X, item.Pos.Y, size, size, item.Angle)
	c.canvas.DrawPolygon(pts, item.Type.Funny())
}

// drawUI draws the text overlay.
func (c *Client) drawUI(s *loop.Snapshot, now time.Time) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth/2 + 1
	centerY := termHeight / 2

	if c.state.shuttingDown {
		c.drawShutdownScreen(centerX, centerY)
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(centerX, centerY, now)
		return
	}

	_, titleRow := c.canvas.LogicalToTerminal(0, c.cfg.Layout.Meter.Y+40)
	c.drawLabel(s.Title, centerX, titleRow)
	c.drawLabel(s.Subtitle, centerX, titleRow+2)

	switch s.State {
	case loop.StateAttract:
		c.drawControls(centerX, termHeight-8)
	case loop.StateStarting, loop.StatePlaying:
		c.drawHUD(s, termWidth, termHeight)
	case loop.StateGameOver:
		c.drawLeaderboard(centerX, titleRow+4)
	}

	if c.state.notice != "" && now.Before(c.state.noticeUntil) {
		c.writeAt(centerX-len(c.state.notice)/2, termHeight-1, c.state.notice)
	}
}

// drawLabel centers a label on a canvas column, converting to absolute
// terminal coordinates for Label.Draw.
func (c *Client) drawLabel(l object.Label, centerX, row int) {
	if !l.Visible || l.Value == "" {
		return
	}
	_ = l.Draw(c.chunkWriter, centerX+c.canvas.OffsetCol(), row+c.canvas.OffsetRow())
	c.canvas.MarkTextDirty(centerX-len(l.Value)/2, row, len(l.Value))
}

// writeAt writes text at a canvas position and marks it for repaint.
func (c *Client) writeAt(col, row int, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() {
		return
	}
	if col < 1 {
		col = 1
	}
	c.chunkWriter.WriteAt(col, row, s)
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// drawHUD draws level, time, high score and channel hints.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(s *loop.Snapshot, termWidth, termHeight int) {
	c.writeAt(2, 1, fmt.Sprintf("Level %d-%d  Time %-5ds", s.Level+1, s.SubLevel+1, s.Elapsed/1_000_000))

	high := fmt.Sprintf("High %-5d", s.HighScore)
	if holder := c.board.Holder(); holder != "" {
		high = fmt.Sprintf("High %d (%s)", s.HighScore, holder)
	}
	c.writeAt(termWidth-len(high)-1, 1, high)

	// Meter reading just right of the gauge.
	col, row := c.canvas.LogicalToTerminal(c.cfg.Layout.Meter.X, c.cfg.Layout.Meter.Y)
	c.writeAt(col+c.canvas.LogicalLength(meterWidth/2)+2, row, fmt.Sprintf("%3.0f%%", 100*s.Meter/c.cfg.Meter.Max))

	if s.State == loop.StatePlaying {
		status := fmt.Sprintf("Lungs %s  Mouth %s",
			statusText(s.Lungs), statusText(s.Mouth))
		// Escape codes take no cells; pad by the visible width.
		c.chunkWriter.WriteAt(2, termHeight, status)
		c.canvas.MarkTextDirty(2, termHeight, 20)
	}

	if s.Debug {
		dbg := fmt.Sprintf("dbg meter %.3f (%+.4f) lungs %.3f/%.3f mouth %.3f/%.3f rays %d",
			s.Meter, s.MeterChange, s.Lungs.Actual, s.Lungs.Target,
			s.Mouth.Actual, s.Mouth.Target, len(s.Rays))
		c.writeAt(2, termHeight-1, dbg)
	}
}

func statusText(ch loop.Channel) string {
	switch ch.Status {
	case loop.StatusUp:
		return draw.ColorRed + "▲" + draw.ColorReset
	case loop.StatusDown:
		return draw.ColorRed + "▼" + draw.ColorReset
	default:
		return draw.ColorGreen + "●" + draw.ColorReset
	}
}

// drawControls lists the key bindings on the title screen.
func (c *Client) drawControls(centerX, startRow int) {
	lines := []string{
		"SPACE . . . . . . Start",
		"W / S . . . . . .  Lungs",
		"I K / 0-9 . . . .  Mouth",
		"Arrows . . . . . .  Item",
		"Q . . . . . . . . . Quit",
	}
	for i, line := range lines {
		c.writeAt(centerX-len(line)/2, startRow+i, line)
	}
}

// drawLeaderboard shows the best runs across all sessions.
func (c *Client) drawLeaderboard(centerX, startRow int) {
	top := c.board.Top()
	if len(top) == 0 {
		return
	}
	header := "Top laughs"
	c.writeAt(centerX-len(header)/2, startRow, header)
	for i, e := range top {
		if i >= leaderRows {
			break
		}
		line := fmt.Sprintf("%2d. %-12.12s %5ds", i+1, e.Username, e.Score)
		c.writeAt(centerX-len(line)/2, startRow+1+i, line)
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int, now time.Time) {
	title := "INACTIVITY WARNING"
	c.writeAt(centerX-len(title)/2, centerY-2, title)

	remaining := c.cfg.Client.InactivityDisconnect - now.Sub(c.state.lastInput).Seconds()
	msg := fmt.Sprintf("You will be disconnected in %d seconds.", int(math.Max(0, remaining)))
	c.writeAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	c.writeAt(centerX-len(hint)/2, centerY+2, hint)
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	title := "SERVER SHUTTING DOWN"
	c.writeAt(centerX-len(title)/2, centerY-3, title)

	msg := "Please reconnect in a moment."
	c.writeAt(centerX-len(msg)/2, centerY-1, msg)

	countdown := fmt.Sprintf("Disconnecting in %d seconds...", int(c.state.shutdownTimer)+1)
	c.writeAt(centerX-len(countdown)/2, centerY+1, countdown)

	hint := "Press Q to disconnect now"
	c.writeAt(centerX-len(hint)/2, centerY+3, hint)
}
