package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/SpinellyA/freefall-io/internal/audio"
	"github.com/SpinellyA/freefall-io/internal/config"
	"github.com/SpinellyA/freefall-io/internal/draw"
	"github.com/SpinellyA/freefall-io/internal/loop/client"
	gameconfig "github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/score"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	sessionDrainTime   = 15 * time.Second
)

// game holds what every session shares: settings, the high score, and the
// context whose cancellation tells sessions the server is going away.
type game struct {
	ctx      context.Context
	settings gameconfig.Settings
	store    score.Store
	sessions sync.WaitGroup
}

func main() {
	log.SetReportTimestamp(true)
	log.SetPrefix("freefall-ssh")
	if level, err := log.ParseLevel(config.GetEnv("FREEFALL_LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	highScorePath := config.GetEnv("FREEFALL_HIGHSCORE", gameconfig.DefaultHighScorePath)

	settings, err := gameconfig.LoadSettings(
		config.GetEnv("FREEFALL_DIFFICULTY", gameconfig.DefaultDifficulty.Name),
		config.GetEnv("FREEFALL_VOLUME", string(gameconfig.VolumeNormal)),
	)
	if err != nil {
		log.Warn("using default settings", "err", err)
	}
	log.Info("SSH config", "host", host, "port", port, "host_key", hostKeyPath, "high_score", highScorePath)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameCtx, endGame := context.WithCancel(context.Background())
	defer endGame()

	g := &game{
		ctx:      gameCtx,
		settings: settings,
		store:    score.NewMaxStore(score.NewFileStore(highScorePath)),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", "err", err)
	}

	eg, egCtx := errgroup.WithContext(sigCtx)
	eg.Go(func() error {
		log.Info("starting SSH server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info("shutting down server")

		// Sessions show a shutdown notice, save their scores and disconnect.
		endGame()
		g.waitSessions(sessionDrainTime)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Fatal("server stopped", "err", err)
	}
	log.Info("server stopped")
}

// waitSessions waits for running sessions to end, giving up after timeout.
func (g *game) waitSessions(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		g.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		log.Warn("sessions still running after drain timeout", "timeout", timeout)
	}
}

// middleware runs one independent game per SSH session.
func (g *game) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		if g.ctx.Err() != nil {
			fmt.Fprintln(sess, "Server is shutting down. Please reconnect in a moment.")
			return
		}
		g.sessions.Add(1)
		defer g.sessions.Done()

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.New(bufio.NewReader(sess), sess, client.Options{
			TermSizeFunc: sizeTracker.getSize,
			Difficulty:   g.settings.Difficulty,
			Volume:       g.settings.Volume,
			Board:        score.NewBoard(g.store, log.Default()),
			Audio:        audio.Nop{},
			Logger:       log.Default(),
			Mouse:        true,
			Username:     sess.User(),
		})
		log.Info("new game session", "session", c.Session(), "user", sess.User(),
			"term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		if err := c.Run(g.ctx); err != nil {
			log.Error("game error", "session", c.Session(), "user", sess.User(), "err", err)
		}
		next(sess)
	}
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

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
