package bootstrap

import (
	"context"

	"bookline/internal/infra/cache"
	"bookline/internal/pkg/config"
	"bookline/internal/usecase/commands"
	"bookline/internal/usecase/queries"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewAvailabilityCache,
		NewSlotCache,
		NewSlotCacheInvalidator,
	),
)

// NewAvailabilityCache returns nil when redis is not configured; the
// availability queries then compute every listing fresh and writes skip
// invalidation.
func NewAvailabilityCache(lc fx.Lifecycle, cfg config.Config) *cache.AvailabilitySlotCache {
	slotCache, cleanup := cache.NewAvailabilitySlotCache(cfg.Redis)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return slotCache
}

func NewSlotCache(c *cache.AvailabilitySlotCache) queries.SlotCache {
	if c == nil {
		return nil
	}
	return c
}

func NewSlotCacheInvalidator(c *cache.AvailabilitySlotCache) commands.SlotCacheInvalidator {
	if c == nil {
		return nil
	}
	return c
}
