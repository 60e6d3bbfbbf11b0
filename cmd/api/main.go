package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/regiaodoslagos/concierge/internal/adapters/http"
	"github.com/regiaodoslagos/concierge/internal/bootstrap"
	"github.com/regiaodoslagos/concierge/internal/config"
	"github.com/regiaodoslagos/concierge/internal/observability/logging"
	"github.com/regiaodoslagos/concierge/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logging.NewJSONLogger("api", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")

	app, err := bootstrap.NewWithOptions(ctx, cfg, bootstrap.Options{
		EmbedCacheCounter: httpMetrics.EmbedCacheCounter(),
	})
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(app.SearchUC, app.Repo, app.Queue, httpMetrics, cfg).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}
