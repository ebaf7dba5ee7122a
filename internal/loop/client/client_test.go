package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/makemelaugh/internal/input"
	"github.com/tomz197/makemelaugh/internal/loop"
	"github.com/tomz197/makemelaugh/internal/loop/config"
	"github.com/tomz197/makemelaugh/internal/loop/server"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

// blockingReader never returns, like an idle terminal.
type blockingReader struct{ ch chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.ch
	return 0, io.EOF
}

func newIdleClient(t *testing.T, cfg *config.Config, board *server.Scoreboard) (*Client, *bytes.Buffer) {
	t.Helper()
	idle := blockingReader{ch: make(chan struct{})}
	t.Cleanup(func() { close(idle.ch) })

	var out bytes.Buffer
	c := NewClient(cfg, board, bufio.NewReader(idle), &out, Options{
		TermSizeFunc: fixedSize(80, 24),
		Username:     "tester",
		Clock:        loop.NewManualClock(0),
	})
	return c, &out
}

func TestRunQuitsOnQ(t *testing.T) {
	board := server.NewScoreboard(0, nil)
	var out bytes.Buffer
	c := NewClient(config.Default(), board, bufio.NewReader(strings.NewReader("q")), &out, Options{
		TermSizeFunc: fixedSize(80, 24),
		Username:     "tester",
	})
	if board.Sessions() != 1 {
		t.Fatalf("sessions = %d, want 1 after NewClient", board.Sessions())
	}

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}

	if board.Sessions() != 0 {
		t.Errorf("session still registered after Run")
	}
	if !strings.Contains(out.String(), "\033[?25l") || !strings.Contains(out.String(), "\033[?25h") {
		t.Error("cursor not hidden and restored")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	board := server.NewScoreboard(0, nil)
	c, _ := newIdleClient(t, config.Default(), board)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run ignored context cancellation")
	}
}

func TestInactivity(t *testing.T) {
	cfg := config.Default()
	cfg.Client.InactivityWarn = 10
	cfg.Client.InactivityDisconnect = 20
	c, _ := newIdleClient(t, cfg, server.NewScoreboard(0, nil))

	start := c.state.lastInput
	c.processInput(start.Add(5 * time.Second))
	if c.state.isInactive || !c.state.running {
		t.Fatal("active session flagged early")
	}

	c.processInput(start.Add(15 * time.Second))
	if !c.state.isInactive {
		t.Error("no inactivity warning after the warn period")
	}

	c.processInput(start.Add(25 * time.Second))
	if c.state.running {
		t.Error("idle session not disconnected")
	}
}

func TestShutdownEvent(t *testing.T) {
	cfg := config.Default()
	board := server.NewScoreboard(0, nil)
	c, _ := newIdleClient(t, cfg, board)

	go board.Shutdown(10 * time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for !c.state.shuttingDown && time.Now().Before(deadline) {
		c.processServerEvents(time.Now())
		time.Sleep(time.Millisecond)
	}
	if !c.state.shuttingDown {
		t.Fatal("shutdown event not handled")
	}
	if c.state.shutdownTimer != cfg.Client.ShutdownDisplay {
		t.Errorf("shutdown timer = %f, want %f", c.state.shutdownTimer, cfg.Client.ShutdownDisplay)
	}
}

func TestHighScoreNotice(t *testing.T) {
	board := server.NewScoreboard(0, nil)
	c, _ := newIdleClient(t, config.Default(), board)

	board.Submit("someone", 42)
	now := time.Now()
	c.processServerEvents(now)
	if !strings.Contains(c.state.notice, "someone") {
		t.Errorf("notice = %q", c.state.notice)
	}

	// Own records are not announced back.
	c.state.notice = ""
	board.Submit("tester", 50)
	c.processServerEvents(now)
	if c.state.notice != "" {
		t.Errorf("own record announced: %q", c.state.notice)
	}
}

func TestDrawFrameRendersTitle(t *testing.T) {
	c, out := newIdleClient(t, config.Default(), server.NewScoreboard(0, nil))

	c.world.Frame(input.Input{})
	if err := c.drawFrame(time.Now()); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), "Make Me Laugh!") {
		t.Error("title not drawn on attract screen")
	}
	if !strings.Contains(out.String(), "Quit") {
		t.Error("controls not drawn on attract screen")
	}
}

func TestDrawFrameShowsMeterReading(t *testing.T) {
	c, out := newIdleClient(t, config.Default(), server.NewScoreboard(0, nil))

	c.world.Frame(input.Input{Pressed: input.ButtonStart, Held: input.ButtonStart})
	if c.world.State() != loop.StateStarting {
		t.Fatalf("state = %s, want starting", c.world.State())
	}
	if err := c.drawFrame(time.Now()); err != nil {
		t.Fatalf("drawFrame: %v", err)
	}
	if !strings.Contains(out.String(), " 50%") {
		t.Error("meter reading not drawn next to the gauge")
	}
}

func TestResizeClears(t *testing.T) {
	c, out := newIdleClient(t, config.Default(), server.NewScoreboard(0, nil))
	c.termSizeFunc = fixedSize(100, 30)
	c.updateScreen()
	if err := c.chunkWriter.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if !strings.Contains(out.String(), "\033[2J") {
		t.Error("resize did not clear the screen")
	}
	if c.canvas.TerminalWidth() != 100 || c.canvas.TerminalHeight() != 30 {
		t.Errorf("canvas = %dx%d, want 100x30", c.canvas.TerminalWidth(), c.canvas.TerminalHeight())
	}
}
