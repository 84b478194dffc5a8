// Package loop runs a single-player session on the local terminal.
package loop

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/SpinellyA/freefall-io/internal/audio"
	"github.com/SpinellyA/freefall-io/internal/draw"
	"github.com/SpinellyA/freefall-io/internal/loop/client"
	"github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/score"
)

// Options configure a local session.
type Options struct {
	Difficulty    config.Difficulty
	Volume        config.Volume
	HighScorePath string // Defaults to config.DefaultHighScorePath
	Mouse         bool
	Audio         audio.Player // Defaults to the system speaker
	TermSizeFunc  draw.TermSizeFunc
	Logger        *log.Logger
}

// Run plays on the terminal behind r and w until the player quits or ctx is
// cancelled. The terminal must already be in raw mode.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.HighScorePath == "" {
		opts.HighScorePath = config.DefaultHighScorePath
	}
	if opts.Volume == "" {
		opts.Volume = config.VolumeNormal
	}

	if opts.Audio == nil {
		m := audio.NewManager(opts.Volume)
		if err := m.Initialize(); err != nil {
			opts.Logger.Warn("audio disabled", "err", err)
			opts.Audio = audio.Nop{}
		} else {
			defer m.Close()
			opts.Audio = m
		}
	}

	store := score.NewFileStore(opts.HighScorePath)
	board := score.NewBoard(store, opts.Logger)
	opts.Logger.Debug("high score loaded", "path", store.Path(), "high", board.High())

	c := client.New(r, w, client.Options{
		TermSizeFunc: opts.TermSizeFunc,
		Difficulty:   opts.Difficulty,
		Volume:       opts.Volume,
		Board:        board,
		Audio:        opts.Audio,
		Logger:       opts.Logger,
		Mouse:        opts.Mouse,
	})
	return c.Run(ctx)
}
