package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/ballpit/internal/config"
	"github.com/tomz197/ballpit/internal/logging"
	loopconfig "github.com/tomz197/ballpit/internal/loop/config"
	"github.com/tomz197/ballpit/internal/loop/server"
	"github.com/tomz197/ballpit/internal/render"
	"github.com/tomz197/ballpit/internal/sim"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	logger := logging.New("web")
	logging.Install(logger)

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	refresh := config.GetEnvInt("WEB_REFRESH_MS", 100)

	world, err := sim.NewWorld(loopconfig.Physics(), loopconfig.Sim())
	if err != nil {
		logger.Fatal("Invalid configuration", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pit := server.NewServer(world, logger.WithPrefix("pit"))
	go pit.Run(ctx)

	page := strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.RefreshMS}}", fmt.Sprint(refresh),
	).Replace(htmlPage)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("GET /frame.png", func(w http.ResponseWriter, r *http.Request) {
		opts := render.DefaultOptions()
		opts.ShowQuadtree = r.URL.Query().Get("quadtree") != "0"

		snap := pit.GetSnapshot()
		var buf bytes.Buffer
		scene := render.Scene{Bodies: snap.Bodies, Quadtree: snap.Quadtree, World: snap.World}
		if err := render.WritePNG(&buf, scene, opts); err != nil {
			logger.Error("Frame render failed", "err", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})

	addr := fmt.Sprintf("%s:%s", host, port)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting web server", "url", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server error", "err", err)
	}
}
