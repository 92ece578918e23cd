package bootstrap

import (
	"context"
	"log/slog"

	"venue-booking/internal/infra/cache"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewVenueDaysCache,
	),
)

// NewVenueDaysCache falls back to a no-op cache when Redis is disabled or unreachable.
func NewVenueDaysCache(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.VenueDaysCache {
	if !cfg.Redis.Enabled {
		return cache.NewNoopVenueDaysCache()
	}

	client, cleanup, err := cache.Connect(context.Background(), cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, venue day cache disabled", "addr", cfg.Redis.Addr, "error", err.Error())
		return cache.NewNoopVenueDaysCache()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return cache.NewRedisVenueDaysCache(client, cfg.Redis.TTL)
}
