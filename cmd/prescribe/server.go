package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrWong99/glyphoxa/internal/config"
	"github.com/MrWong99/glyphoxa/internal/observe"
)

// startMetricsServer launches the thin HTTP surface ServerConfig describes:
// a liveness check and a Prometheus scrape endpoint, both run through
// [observe.Middleware] for tracing/logging of the scrape requests
// themselves. It never blocks the caller; Process runs independently on
// the main goroutine while this serves in the background for the
// invocation's duration.
func startMetricsServer(cfg *config.Config, m *observe.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle(cfg.Metrics.PrometheusPath, promhttp.Handler())

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: observe.Middleware(m)(mux),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Warn("metrics server stopped", "err", err)
		}
	}()
	return srv
}

// shutdownMetricsServer stops srv, giving in-flight scrapes a chance to
// finish.
func shutdownMetricsServer(ctx context.Context, srv *http.Server) {
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("metrics server shutdown error", "err", err)
	}
}
