package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"venue-booking/internal/domain/period"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/pkg/metrics"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const venueDaysKeyPrefix = "venue:unavailable_days:"

func VenueDaysKey(venueID uuid.UUID) string {
	return venueDaysKeyPrefix + venueID.String()
}

type RedisVenueDaysCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisVenueDaysCache(client redis.Cmdable, ttl time.Duration) *RedisVenueDaysCache {
	return &RedisVenueDaysCache{client: client, ttl: ttl}
}

var _ shared.VenueDaysCache = (*RedisVenueDaysCache)(nil)

func (c *RedisVenueDaysCache) Get(ctx context.Context, venueID uuid.UUID) ([]period.Day, bool, error) {
	raw, err := c.client.Get(ctx, VenueDaysKey(venueID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(false)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Mark(errs.Wrap(err, "failed to read venue days"), errs.ErrCacheOperationFailed)
	}

	var days []period.Day
	if err := json.Unmarshal(raw, &days); err != nil {
		// A corrupt entry behaves like a miss and is overwritten on the next Set.
		metrics.RecordCacheLookup(false)
		return nil, false, nil
	}
	metrics.RecordCacheLookup(true)
	return days, true, nil
}

func (c *RedisVenueDaysCache) Set(ctx context.Context, venueID uuid.UUID, days []period.Day) error {
	if days == nil {
		days = []period.Day{}
	}
	raw, err := json.Marshal(days)
	if err != nil {
		return errs.Wrap(err, "failed to encode venue days")
	}
	if err := c.client.Set(ctx, VenueDaysKey(venueID), raw, c.ttl).Err(); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to write venue days"), errs.ErrCacheOperationFailed)
	}
	return nil
}

func (c *RedisVenueDaysCache) Invalidate(ctx context.Context, venueIDs ...uuid.UUID) error {
	keys := make([]string, 0, len(venueIDs))
	for _, id := range venueIDs {
		keys = append(keys, VenueDaysKey(id))
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return errs.Mark(errs.Wrap(err, "failed to invalidate venue days"), errs.ErrCacheOperationFailed)
	}
	return nil
}

// NoopVenueDaysCache is used when Redis is disabled. Every lookup misses.
type NoopVenueDaysCache struct{}

func NewNoopVenueDaysCache() *NoopVenueDaysCache { return &NoopVenueDaysCache{} }

func (NoopVenueDaysCache) Get(context.Context, uuid.UUID) ([]period.Day, bool, error) {
	return nil, false, nil
}

func (NoopVenueDaysCache) Set(context.Context, uuid.UUID, []period.Day) error { return nil }

func (NoopVenueDaysCache) Invalidate(context.Context, ...uuid.UUID) error { return nil }
