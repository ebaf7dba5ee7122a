package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/makemelaugh/internal/audio"
	"github.com/tomz197/makemelaugh/internal/config"
	"github.com/tomz197/makemelaugh/internal/draw"
	"github.com/tomz197/makemelaugh/internal/loop/client"
	gameconfig "github.com/tomz197/makemelaugh/internal/loop/config"
	"github.com/tomz197/makemelaugh/internal/loop/server"
	"github.com/tomz197/makemelaugh/internal/trace"
)

var defaults = config.Settings{
	SSHHost:     "::",
	SSHPort:     "2222",
	HostKeyPath: "/app/keys/host_key",
	DisplayHost: "your-server.com",
	LogLevel:    "info",
	Audio:       "bell",
	TopN:        server.DefaultTopN,
}

// host is the state shared by all SSH sessions.
type host struct {
	settings config.Settings
	game     *gameconfig.Config
	board    *server.Scoreboard
	log      *log.Logger
}

func main() {
	settings, err := config.LoadSettings(defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading settings: %v\n", err)
		os.Exit(1)
	}
	logger := settings.NewLogger(os.Stderr)

	game, err := settings.LoadGame()
	if err != nil {
		logger.Fatal("loading game config", "err", err)
	}
	if settings.Audio == "speaker" {
		logger.Warn("speaker audio plays on the host, using the terminal bell")
		settings.Audio = "bell"
	}

	h := &host{
		settings: settings,
		game:     game,
		board:    server.NewScoreboard(settings.TopN, logger),
		log:      logger,
	}
	logger.Info("ssh config",
		"host", settings.SSHHost,
		"port", settings.SSHPort,
		"host_key", settings.HostKeyPath,
		"profile", game.Profile,
	)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(settings.SSHHost, settings.SSHPort)),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if settings.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(settings.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("creating server", "err", err)
	}

	var web *http.Server
	if settings.WebPort != "" {
		web = &http.Server{
			Addr:              net.JoinHostPort(settings.SSHHost, settings.WebPort),
			Handler:           newScoreboardHandler(h.board, settings.DisplayHost, settings.SSHPort),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting scoreboard page", "addr", web.Addr)
			if err := web.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("web server error", "err", err)
			}
		}()
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", net.JoinHostPort(settings.SSHHost, settings.SSHPort))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	// Notify players and wait for them to disconnect.
	h.board.Shutdown(time.Duration(game.Client.ShutdownDisplay+5) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if web != nil {
		_ = web.Shutdown(ctx)
	}
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware runs one game per SSH session.
func (h *host) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := h.log.With("session", sess.User())
		logger.Info("new game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		recorder, err := trace.NewRecorder(h.traceDir(sess.User()))
		if err != nil {
			logger.Warn("tracing disabled", "err", err)
			recorder = nil
		}

		opts := client.Options{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Logger:       logger,
			Audio:        audio.New(h.settings.Audio, sess, logger),
		}
		// Keep the interface nil when tracing is off.
		if recorder != nil {
			opts.Recorder = recorder
		}

		c := client.NewClient(h.game, h.board, bufio.NewReader(sess), sess, opts)
		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		for _, run := range recorder.Runs() {
			logger.Info("run summary",
				"score", run.Score,
				"meter_mean", run.MeterMean,
				"meter_p50", run.MeterP50,
				"mouth_correct", run.MouthCorrect,
				"lungs_correct", run.LungsCorrect,
			)
		}
		if err := recorder.Close(); err != nil {
			logger.Warn("closing trace", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// traceDir returns a per-session trace directory, or "" when tracing is off.
func (h *host) traceDir(user string) string {
	if h.settings.TraceDir == "" {
		return ""
	}
	return filepath.Join(h.settings.TraceDir, fmt.Sprintf("%s-%d", user, time.Now().UnixNano()))
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
