package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	formatcatalog "brandcast/contexts/content-publishing/format-catalog"
	"brandcast/contexts/content-publishing/format-catalog/adapters/yamlsource"
	publishingservice "brandcast/contexts/content-publishing/publishing-service"
	"brandcast/contexts/content-publishing/publishing-service/adapters/memory"
	"brandcast/contexts/content-publishing/publishing-service/adapters/platforms"
	postgresadapter "brandcast/contexts/content-publishing/publishing-service/adapters/postgres"
	"brandcast/contexts/content-publishing/publishing-service/application/workers"
	"brandcast/internal/platform/config"
	"brandcast/internal/platform/db"
	"brandcast/internal/platform/httpserver"
	"brandcast/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres          *db.Postgres
	publishing        publishingservice.Module
	consumer          workers.CardEventsConsumer
	enableScheduler   bool
	enableOutboxRelay bool
	schedulerInterval time.Duration
	relayInterval     time.Duration
	logger            *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	catalogModule, err := buildCatalogModule(cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	publishingModule := buildPublishingModule(cfg, pg, catalogModule, logger)

	server := httpserver.New(catalogModule, publishingModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	catalogModule, err := buildCatalogModule(cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	publishingModule := buildPublishingModule(cfg, pg, catalogModule, logger)
	publishingModule.Relay.Publisher = kafka

	return &WorkerApp{
		postgres:   pg,
		publishing: publishingModule,
		consumer: workers.CardEventsConsumer{
			Subscriber: kafka,
			Repository: publishingModule.Commands.Repository,
			Logger:     logger,
		},
		enableScheduler:   cfg.EnableScheduler,
		enableOutboxRelay: cfg.EnableOutboxRelay,
		schedulerInterval: cfg.SchedulerInterval,
		relayInterval:     cfg.RelayInterval,
		logger:            logger,
	}, nil
}

func buildCatalogModule(cfg config.Config, logger *slog.Logger) (formatcatalog.Module, error) {
	return formatcatalog.NewModule(formatcatalog.Dependencies{
		Source: yamlsource.Source{Path: cfg.CatalogPath},
		Logger: logger,
	})
}

func buildPublishingModule(
	cfg config.Config,
	pg *db.Postgres,
	catalogModule formatcatalog.Module,
	logger *slog.Logger,
) publishingservice.Module {
	repo := postgresadapter.NewRepository(pg.DB, logger)

	facebookClient := platforms.NewGraphClient(cfg.FacebookGraphURL, cfg.PublishTimeout, logger)
	instagramClient := platforms.NewGraphClient(cfg.InstagramGraphURL, cfg.PublishTimeout, logger)
	registry := platforms.NewRegistry(logger,
		platforms.FacebookPublisher{
			Client: facebookClient,
			PageID: cfg.FacebookPageID,
		},
		platforms.InstagramPublisher{
			Client: instagramClient,
			UserID: cfg.InstagramUserID,
		},
	)

	return publishingservice.NewModule(publishingservice.Dependencies{
		Repository:  repo,
		Outbox:      repo,
		OutboxRepo:  repo,
		Catalog:     catalogModule.Catalog,
		Validator:   catalogModule.Validator,
		Publishers:  registry,
		Tokens:      memory.NewTokenVault(cfg.AccessTokens),
		Clock:       postgresadapter.SystemClock{},
		IDGen:       postgresadapter.UUIDGenerator{},
		MaxParallel: cfg.PublishParallelism,
		Logger:      logger,
	})
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.consumer.Start(ctx); err != nil {
		return err
	}

	schedulerTicker := time.NewTicker(w.schedulerInterval)
	defer schedulerTicker.Stop()
	relayTicker := time.NewTicker(w.relayInterval)
	defer relayTicker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"scheduler_enabled", w.enableScheduler,
		"relay_enabled", w.enableOutboxRelay,
		"scheduler_interval", w.schedulerInterval.String(),
		"relay_interval", w.relayInterval.String(),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-schedulerTicker.C:
			if !w.enableScheduler {
				continue
			}
			if err := w.publishing.Scheduler.RunOnce(ctx); err != nil {
				return err
			}
		case <-relayTicker.C:
			if !w.enableOutboxRelay {
				continue
			}
			if err := w.publishing.Relay.RunOnce(ctx); err != nil {
				return err
			}
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
