package lifeflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/lifeflow/internal/config"
	"github.com/magabrotheeeer/lifeflow/internal/migrations"
	"github.com/magabrotheeeer/lifeflow/internal/storage"
	"github.com/magabrotheeeer/lifeflow/internal/storage/file"
	"github.com/magabrotheeeer/lifeflow/internal/storage/memory"
	"github.com/magabrotheeeer/lifeflow/internal/storage/postgresql"
	"github.com/magabrotheeeer/lifeflow/internal/storage/rediskv"
	"github.com/magabrotheeeer/lifeflow/internal/telemetry"
)

// OpenStore открывает хранилище записей по storage.driver.
// Возвращённая функция закрывает соединения бэкенда.
// Для postgres применяются миграции, а пул соединений регистрируется в registerer (если не nil).
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, registerer prometheus.Registerer) (storage.RecordStore, func() error, error) {
	const op = "lifeflow.OpenStore"
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on exit")
		return memory.New(), noop, nil

	case config.DriverFile:
		s, err := file.New(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("using file storage", slog.String("path", cfg.FilePath))
		return s, noop, nil

	case config.DriverRedis:
		s, err := rediskv.New(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("using redis storage", slog.String("addr", cfg.AddressRedis))
		return s, s.Close, nil

	case config.DriverPostgres:
		s, err := postgresql.New(cfg.StorageConnectionString)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(s.DB, cfg.MigrationsPath); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := postgresql.CheckDatabaseReady(ctx, s); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if registerer != nil {
			if err := telemetry.RegisterDBPoolMetrics(s.DB, registerer); err != nil {
				logger.Warn("failed to register db pool metrics", slog.String("error", err.Error()))
			}
		}
		logger.Info("using postgres storage")
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}
