// Package client drives one terminal session: input, world frames, rendering.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/makemelaugh/internal/draw"
	"github.com/tomz197/makemelaugh/internal/input"
	"github.com/tomz197/makemelaugh/internal/loop"
	"github.com/tomz197/makemelaugh/internal/loop/config"
	"github.com/tomz197/makemelaugh/internal/loop/server"
)

// noticeDuration is how long a broadcast notice stays on screen.
const noticeDuration = 4 * time.Second

// Client handles rendering and input for a single connection.
type Client struct {
	cfg          *config.Config
	board        *server.Scoreboard
	handle       *server.SessionHandle
	world        *loop.World
	state        *sessionState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	log          *log.Logger
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Logger       *log.Logger
	Audio        loop.Audio
	Recorder     loop.Recorder
	Clock        loop.Clock
}

// NewClient creates a client with its own world, registered on board.
func NewClient(cfg *config.Config, board *server.Scoreboard, r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	world := loop.NewWorld(cfg, loop.Deps{
		Clock:    opts.Clock,
		Audio:    opts.Audio,
		Scores:   board,
		Recorder: opts.Recorder,
		Logger:   logger,
		Player:   opts.Username,
	})

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(
		termWidth, termHeight, cfg.Client.MaxTermWidth, cfg.Client.MaxTermHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight,
		float64(cfg.Screen.Width), float64(cfg.Screen.Height))
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		cfg:          cfg,
		board:        board,
		handle:       board.Register(opts.Username),
		world:        world,
		state:        newSessionState(time.Now()),
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		log:          logger,
	}
}

// World returns the session's world.
func (c *Client) World() *loop.World {
	return c.world
}

// Run starts the client loop. Blocks until the player quits, the session goes
// idle, the server shuts down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.board.Unregister(c.handle.ID)

	frameTime := c.cfg.Client.FrameTime()
	lastTime := time.Now()

	for c.state.running {
		select {
		case <-ctx.Done():
			draw.ClearScreen(c.writer)
			return nil
		default:
		}

		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		in := c.processInput(frameStart)
		c.processServerEvents(frameStart)
		c.updateScreen()

		if c.state.shuttingDown {
			c.state.shutdownTimer -= c.state.delta.Seconds()
			if c.state.shutdownTimer <= 0 {
				c.state.running = false
			}
		}

		c.world.Frame(in)

		if err := c.drawFrame(frameStart); err != nil {
			return fmt.Errorf("drawing frame: %w", err)
		}

		if elapsed := time.Since(frameStart); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads this frame's input and tracks inactivity.
func (c *Client) processInput(now time.Time) input.Input {
	in := input.ReadInput(c.inputStream)

	idle := now.Sub(c.state.lastInput).Seconds()
	switch {
	case in.Pressed != 0 || in.StickY != c.state.lastStick:
		c.state.lastInput = now
		c.state.isInactive = false
	case idle > c.cfg.Client.InactivityDisconnect:
		c.log.Info("disconnecting idle session", "idle", idle)
		c.state.running = false
	case idle > c.cfg.Client.InactivityWarn:
		c.state.isInactive = true
	}
	c.state.lastStick = in.StickY

	if in.Quit {
		c.state.running = false
	}
	return in
}

// processServerEvents handles events from the scoreboard.
func (c *Client) processServerEvents(now time.Time) {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.running = false
				return
			}
			switch event.Type {
			case server.EventHighScore:
				if event.Username != c.handle.Username {
					c.state.notice = fmt.Sprintf("%s set a new high score: %ds", event.Username, event.Score)
					c.state.noticeUntil = now.Add(noticeDuration)
				}
			case server.EventServerShutdown:
				if !c.state.shuttingDown {
					c.state.shuttingDown = true
					c.state.shutdownTimer = c.cfg.Client.ShutdownDisplay
				}
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(
		termWidth, termHeight, c.cfg.Client.MaxTermWidth, c.cfg.Client.MaxTermHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}
