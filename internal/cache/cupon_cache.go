package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/manuelveliznajera/backend-SDigitales/internal/models"
)

// cuponTTL bounds how long a snapshot can lag behind a coupon edit or a
// burst of usage increments.
const cuponTTL = 30 * time.Second

// CuponCache keeps short-lived snapshots of coupon rows keyed by code, so the
// public validation endpoint does not hit the database on every storefront
// keystroke. Writes invalidate the snapshot.
type CuponCache struct {
	redis *RedisClient
}

// NewCuponCache creates a CuponCache.
func NewCuponCache(redis *RedisClient) *CuponCache {
	return &CuponCache{redis: redis}
}

func (c *CuponCache) key(codigo string) string {
	return fmt.Sprintf("cupon:codigo:%s", codigo)
}

// Get returns the cached coupon for a code, or nil on miss.
func (c *CuponCache) Get(ctx context.Context, codigo string) *models.Cupon {
	raw, err := c.redis.Get(ctx, c.key(codigo))
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("codigo", codigo).Msg("coupon cache read failed")
		}
		return nil
	}
	var cupon models.Cupon
	if err := json.Unmarshal([]byte(raw), &cupon); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("coupon cache entry corrupt")
		return nil
	}
	return &cupon
}

// Put stores a coupon snapshot. Failures are logged and ignored.
func (c *CuponCache) Put(ctx context.Context, cupon *models.Cupon) {
	raw, err := json.Marshal(cupon)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(cupon.Codigo), string(raw), cuponTTL); err != nil {
		log.Warn().Err(err).Str("codigo", cupon.Codigo).Msg("coupon cache write failed")
	}
}

// Invalidate drops the snapshot for a code after a write.
func (c *CuponCache) Invalidate(ctx context.Context, codigo string) {
	if err := c.redis.Delete(ctx, c.key(codigo)); err != nil {
		log.Warn().Err(err).Str("codigo", codigo).Msg("coupon cache invalidation failed")
	}
}
