package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/SpinellyA/freefall-io/internal/config"
	gameconfig "github.com/SpinellyA/freefall-io/internal/loop/config"
	"github.com/SpinellyA/freefall-io/internal/score"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type page struct {
	Command   string
	HighScore int
}

func main() {
	log.SetReportTimestamp(true)
	log.SetPrefix("freefall-web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")
	store := score.NewFileStore(config.GetEnv("FREEFALL_HIGHSCORE", gameconfig.DefaultHighScorePath))

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newHandler(sshCommand(sshHost, sshPort), store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("starting web server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil {
		log.Fatal("server stopped", "err", err)
	}
}

// sshCommand is the command players paste to connect.
func sshCommand(host, port string) string {
	if port == "" || port == "22" {
		return "ssh -t " + host
	}
	return fmt.Sprintf("ssh -t -p %s %s", port, host)
}

// newHandler serves the landing page with the current high score.
func newHandler(command string, store score.Store) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		high, err := store.Load()
		if err != nil {
			log.Debug("high score unavailable", "err", err)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, page{Command: command, HighScore: high}); err != nil {
			log.Warn("render landing page", "err", err)
		}
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}
