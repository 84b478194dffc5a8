package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/SpinellyA/freefall-io/internal/audio"
	"github.com/SpinellyA/freefall-io/internal/config"
	"github.com/SpinellyA/freefall-io/internal/desktop"
	gameconfig "github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/score"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "freefall",
	})
	if level, err := log.ParseLevel(config.GetEnv("FREEFALL_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	log.SetDefault(logger)

	settings, err := gameconfig.LoadSettings(
		config.GetEnv("FREEFALL_DIFFICULTY", gameconfig.DefaultDifficulty.Name),
		config.GetEnv("FREEFALL_VOLUME", string(gameconfig.VolumeNormal)),
	)
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}

	var player audio.Player = audio.Nop{}
	m := audio.NewManager(settings.Volume)
	if err := m.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
	} else {
		defer m.Close()
		player = m
	}

	store := score.NewFileStore(config.GetEnv("FREEFALL_HIGHSCORE", gameconfig.DefaultHighScorePath))
	session := desktop.NewSession(desktop.Options{
		Difficulty: settings.Difficulty,
		Volume:     settings.Volume,
		Board:      score.NewBoard(store, logger),
		Audio:      player,
		Logger:     logger,
	})
	defer session.Close()

	ebiten.SetWindowSize(gameconfig.ScreenWidth, gameconfig.ScreenHeight)
	ebiten.SetWindowTitle("freefall")
	if err := ebiten.RunGame(newGame(session)); err != nil {
		logger.Fatal("game stopped", "err", err)
	}
}
