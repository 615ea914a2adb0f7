// Package cache provides the short-TTL Redis cache for the wheel snapshot.
// The wheel config is read on every spin but changes only when an operator
// edits it, so a small TTL takes the read load off Postgres without letting
// stale config live long. The cache is strictly best-effort: any Redis
// failure is logged at debug and treated as a miss.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/unionmart/lucky-wheel-service/internal/model"
)

const wheelSnapshotKey = "lucky-wheel:snapshot"

// WheelCache caches the wheel config and prize table in Redis with a TTL.
type WheelCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewWheelCache creates a WheelCache over the given client.
func NewWheelCache(rdb *redis.Client, ttl time.Duration) *WheelCache {
	return &WheelCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot, or ok=false on a miss or backend failure.
func (c *WheelCache) Get(ctx context.Context) (*model.WheelSnapshot, bool) {
	raw, err := c.rdb.Get(ctx, wheelSnapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Msg("wheel cache read failed")
		}
		return nil, false
	}
	var snap model.WheelSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Debug().Err(err).Msg("wheel cache entry corrupt, discarding")
		c.Invalidate(ctx)
		return nil, false
	}
	return &snap, true
}

// Set stores the snapshot for the configured TTL.
func (c *WheelCache) Set(ctx context.Context, snap *model.WheelSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		log.Debug().Err(err).Msg("wheel cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, wheelSnapshotKey, raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("wheel cache write failed")
	}
}

// Invalidate drops the cached snapshot, forcing the next read through to
// Postgres. Called after operator config updates.
func (c *WheelCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, wheelSnapshotKey).Err(); err != nil {
		log.Debug().Err(err).Msg("wheel cache invalidate failed")
	}
}
