package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/regiaodoslagos/concierge/internal/bootstrap"
	"github.com/regiaodoslagos/concierge/internal/config"
	"github.com/regiaodoslagos/concierge/internal/observability/logging"
	"github.com/regiaodoslagos/concierge/internal/observability/metrics"
)

const reindexTimeout = 2 * time.Minute

func main() {
	cfg := config.Load()
	logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribePartnerUpserted(ctx, func(handlerCtx context.Context, partnerID string) error {
		reindexCtx, cancel := context.WithTimeout(handlerCtx, reindexTimeout)
		defer cancel()

		workerMetrics.StartReindex()
		start := time.Now()
		reindexErr := app.ReindexUC.ReindexByID(reindexCtx, partnerID)
		workerMetrics.FinishReindex("worker", time.Since(start), reindexErr)
		return reindexErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
