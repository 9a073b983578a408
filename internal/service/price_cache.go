package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jeroroldan/admin-panel-sub001/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const priceKeyPrefix = "price:"

// PriceCache keeps public price lookups in Redis. A nil *PriceCache, or one
// without a client, is a no-op cache that always misses.
type PriceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPriceCache(rdb *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{rdb: rdb, ttl: ttl}
}

func (c *PriceCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *PriceCache) Get(ctx context.Context, sku string) (*dto.PriceLookupResponse, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, priceKeyPrefix+sku).Bytes()
	if err != nil {
		return nil, false
	}
	var resp dto.PriceLookupResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set is best effort; a failed write only costs a future miss.
func (c *PriceCache) Set(ctx context.Context, resp *dto.PriceLookupResponse) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, priceKeyPrefix+resp.SKU, b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("sku", resp.SKU).Msg("price cache write failed")
	}
}

func (c *PriceCache) Invalidate(ctx context.Context, skus ...string) {
	if !c.enabled() || len(skus) == 0 {
		return
	}
	keys := make([]string, len(skus))
	for i, sku := range skus {
		keys[i] = priceKeyPrefix + sku
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("skus", skus).Msg("price cache invalidation failed")
	}
}
