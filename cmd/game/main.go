package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/SpinellyA/freefall-io/internal/config"
	"github.com/SpinellyA/freefall-io/internal/loop"
	gameconfig "github.com/SpinellyA/freefall-io/internal/loop/config"
)

func main() {
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	settings, err := gameconfig.LoadSettings(
		config.GetEnv("FREEFALL_DIFFICULTY", gameconfig.DefaultDifficulty.Name),
		config.GetEnv("FREEFALL_VOLUME", string(gameconfig.VolumeNormal)),
	)
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Difficulty:    settings.Difficulty,
		Volume:        settings.Volume,
		HighScorePath: config.GetEnv("FREEFALL_HIGHSCORE", gameconfig.DefaultHighScorePath),
		Mouse:         config.GetEnvBool("FREEFALL_MOUSE", true),
		Logger:        logger,
	})
	stop()
	_ = term.Restore(fd, oldState)

	if err != nil {
		logger.Error("game error", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// newLogger logs to FREEFALL_LOG_FILE, or nowhere: the terminal belongs to the game.
func newLogger() (*log.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}

	if path := config.GetEnv("FREEFALL_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "freefall",
	})
	level, err := log.ParseLevel(config.GetEnv("FREEFALL_LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	log.SetDefault(logger)
	return logger, closeFn, nil
}
