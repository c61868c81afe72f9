package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookline/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AvailabilitySlotCache caches computed slot listings with a short TTL.
// Booking and cancellation commits invalidate the affected day, so a
// listing is stale only for writes racing the listing within the TTL;
// cache misses and redis errors both fall through to a fresh
// computation.
type AvailabilitySlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAvailabilitySlotCache returns nil when no address is configured;
// the query layer treats a nil cache as disabled.
func NewAvailabilitySlotCache(cfg config.RedisConfig) (*AvailabilitySlotCache, func()) {
	if cfg.Addr == "" {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	cleanup := func() {
		_ = client.Close()
	}
	return &AvailabilitySlotCache{client: client, ttl: cfg.TTL}, cleanup
}

func slotKey(companyID, serviceID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s:%s", companyID, serviceID, date.Format(time.DateOnly))
}

func (c *AvailabilitySlotCache) Get(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time) ([]string, bool) {
	raw, err := c.client.Get(ctx, slotKey(companyID, serviceID, date)).Bytes()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *AvailabilitySlotCache) Set(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time, slots []string) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, slotKey(companyID, serviceID, date), raw, c.ttl).Err()
}

// Invalidate drops the cached listing for one service day after a write
// changed it. Best effort: a failed delete leaves a stale entry that
// expires with the TTL, and booking correctness never depends on the
// cache.
func (c *AvailabilitySlotCache) Invalidate(ctx context.Context, companyID, serviceID uuid.UUID, date time.Time) {
	_ = c.client.Del(ctx, slotKey(companyID, serviceID, date)).Err()
}
