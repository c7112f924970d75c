package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// NewMonitoringHandler exposes /healthz and /metrics.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, db DBPinger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", NewHealthChecker(log, db))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

// StartMonitoringServer serves the health check and metrics endpoints on port
// until ctx is canceled.
func StartMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	db DBPinger,
	port int,
) error {
	return Run(ctx, log, "monitoring", &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      NewMonitoringHandler(log, reg, db),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
}

// Run starts srv and shuts it down gracefully once ctx is canceled.
// A clean shutdown returns nil.
func Run(ctx context.Context, log *slog.Logger, name string, srv *http.Server) error {
	log.InfoContext(ctx, "Starting server", "name", name, "addr", srv.Addr)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.InfoContext(ctx, "Server shutting down.", "name", name)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s server failed to shutdown: %w", name, err)
		}
		return nil
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s server failed: %w", name, err)
	}
}
