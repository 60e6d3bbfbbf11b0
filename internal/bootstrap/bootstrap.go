package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/regiaodoslagos/concierge/internal/config"
	"github.com/regiaodoslagos/concierge/internal/core/ports"
	"github.com/regiaodoslagos/concierge/internal/core/usecase"
	"github.com/regiaodoslagos/concierge/internal/infrastructure/embedding/embcache"
	"github.com/regiaodoslagos/concierge/internal/infrastructure/embedding/openai"
	"github.com/regiaodoslagos/concierge/internal/infrastructure/queue/nats"
	"github.com/regiaodoslagos/concierge/internal/infrastructure/repository/postgres"
	"github.com/regiaodoslagos/concierge/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.PartnerRepository
	SearchUC  ports.PartnerSearcher
	ReindexUC ports.PartnerReindexer

	closeFn func()
}

// Options carries the per-process wiring that differs between api and
// worker; everything else comes from config.
type Options struct {
	// EmbedCacheCounter receives hit/miss counts from the embedding
	// cache; nil leaves the cache uncounted.
	EmbedCacheCounter *prometheus.CounterVec
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	return NewWithOptions(ctx, cfg, Options{})
}

func NewWithOptions(ctx context.Context, cfg config.Config, options Options) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewPartnerRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	index := postgres.NewPartnerIndex(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	embedder := openai.NewEmbedder(openai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIEmbedModel,
	}, executor)
	cachedEmbedder := embcache.New(embedder, cfg.EmbedCacheTTL, cfg.EmbedCacheMaxEntries, options.EmbedCacheCounter)

	searchUC := usecase.NewHybridSearchUseCase(cachedEmbedder, index, index, cfg.SearchStageTimeout)
	reindexUC := usecase.NewReindexPartnerUseCase(repo, cachedEmbedder)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		SearchUC:  searchUC,
		ReindexUC: reindexUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
