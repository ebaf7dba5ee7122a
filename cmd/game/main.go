package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/makemelaugh/internal/audio"
	"github.com/tomz197/makemelaugh/internal/config"
	"github.com/tomz197/makemelaugh/internal/loop/client"
	"github.com/tomz197/makemelaugh/internal/loop/server"
	"github.com/tomz197/makemelaugh/internal/trace"
)

var defaults = config.Settings{
	LogLevel: "warn",
	Audio:    "speaker",
	TopN:     server.DefaultTopN,
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.LoadSettings(defaults)
	if err != nil {
		return err
	}
	game, err := settings.LoadGame()
	if err != nil {
		return err
	}

	// Logs go to a file so they don't draw over the game.
	logFile, err := os.OpenFile(filepath.Join(os.TempDir(), "makemelaugh.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := settings.NewLogger(logFile)

	recorder, err := trace.NewRecorder(settings.TraceDir)
	if err != nil {
		return err
	}
	defer recorder.Close()

	sink := audio.New(settings.Audio, os.Stdout, logger)
	if sp, ok := sink.(*audio.Speaker); ok {
		defer sp.Close()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := client.Options{
		Username: os.Getenv("USER"),
		Logger:   logger,
		Audio:    sink,
	}
	if recorder != nil {
		opts.Recorder = recorder
	}

	board := server.NewScoreboard(settings.TopN, logger)
	c := client.NewClient(game, board, bufio.NewReader(os.Stdin), os.Stdout, opts)
	if err := c.Run(ctx); err != nil {
		return err
	}

	for _, run := range recorder.Runs() {
		logger.Info("run summary", "score", run.Score, "meter_mean", run.MeterMean, "meter_std", run.MeterStd)
	}
	return nil
}
