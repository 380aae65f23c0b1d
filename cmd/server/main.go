package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/messenger-cosmos-public/relay/internal/config"
	"github.com/messenger-cosmos-public/relay/internal/history"
	relayhttp "github.com/messenger-cosmos-public/relay/internal/http"
	"github.com/messenger-cosmos-public/relay/internal/logging"
	"github.com/messenger-cosmos-public/relay/internal/metrics"
	"github.com/messenger-cosmos-public/relay/internal/realtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level, _ := cfg.Level()
	log := logging.New(os.Stderr, level, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := history.NewStore()
	m := metrics.New(store.Len)
	hub := realtime.NewHub(
		realtime.WithBufferSize(cfg.ListenerBufferSize),
		realtime.WithHeartbeat(cfg.HeartbeatInterval),
		realtime.WithLogger(log.With(slog.String("component", "hub"))),
		realtime.WithRecorder(m),
	)

	router := relayhttp.NewRouter(relayhttp.RouterDeps{
		Handler: relayhttp.NewHandler(store, hub, cfg, log.With(slog.String("component", "http"))),
		Metrics: m,
		Config:  cfg,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
		// Request contexts derive from ctx, so every open stream ends on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("relay listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
	case <-ctx.Done():
	}
	stop()

	log.Info("shutting down", slog.Int("listeners", hub.Len()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ensure gin uses release mode in production
func init() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
