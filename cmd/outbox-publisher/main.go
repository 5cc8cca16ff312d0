package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/db"
	"github.com/tradekart/tradekart-backend/pkg/logger"
	"github.com/tradekart/tradekart-backend/pkg/migrate"
	"github.com/tradekart/tradekart-backend/pkg/outbox"
	"github.com/tradekart/tradekart-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	publisher, err := pubsub.NewPublisher(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub publisher", err)
		}
	}()

	repo := outbox.NewRepository(dbClient.DB())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env})
	logg.Info(ctx, "starting outbox publisher")

	if err := run(ctx, cfg.Outbox, logg, repo, publisher); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox publisher shutting down gracefully")
}

// run drains unpublished outbox rows on an interval until the context ends.
// Rows that fail to publish are retried on the next tick.
func run(ctx context.Context, cfg config.OutboxConfig, logg *logger.Logger, repo *outbox.Repository, publisher *pubsub.Publisher) error {
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		if err := drain(ctx, cfg.BatchSize, logg, repo, publisher); err != nil {
			logg.Error(ctx, "outbox drain failed", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func drain(ctx context.Context, batchSize int, logg *logger.Logger, repo *outbox.Repository, publisher *pubsub.Publisher) error {
	rows, err := repo.FetchUnpublished(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if err := publisher.Publish(ctx, string(row.EventType), row.Payload); err != nil {
			if markErr := repo.MarkFailed(ctx, row.ID, err); markErr != nil {
				logg.Error(ctx, "failed to record publish failure", markErr)
			}
			continue
		}
		if err := repo.MarkPublished(ctx, row.ID); err != nil {
			logg.Error(ctx, "failed to mark event published", err)
		}
	}
	return nil
}
