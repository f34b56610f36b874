package rentals

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wheelio/bike-rental/internal/billing"
	"github.com/wheelio/bike-rental/pkg/logger"
	"github.com/wheelio/bike-rental/pkg/redis"
)

// QuoteCache keeps quote previews in Redis for a short TTL. Quotes are
// deterministic for a given bike, window and slab, so the cache key is
// just those inputs. Cache failures are logged and treated as misses.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewQuoteCache(client *redis.Client, ttlSeconds int) *QuoteCache {
	return &QuoteCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// QuoteKey builds the cache key for a quote preview
func QuoteKey(bikeID uuid.UUID, window billing.RentalWindow, slabName string) string {
	return fmt.Sprintf("quote:%s:%d:%d:%s", bikeID, window.Pickup.Unix(), window.Dropoff.Unix(), slabName)
}

func (c *QuoteCache) Get(ctx context.Context, key string) (*billing.Quote, bool) {
	raw, err := c.client.GetString(ctx, key)
	if err != nil {
		return nil, false
	}

	var quote billing.Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		logger.WithContext(ctx).Warn("failed to decode cached quote", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &quote, true
}

func (c *QuoteCache) Set(ctx context.Context, key string, quote *billing.Quote) {
	raw, err := json.Marshal(quote)
	if err != nil {
		logger.WithContext(ctx).Warn("failed to encode quote for cache", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.SetWithExpiration(ctx, key, raw, c.ttl); err != nil {
		logger.WithContext(ctx).Warn("failed to cache quote", zap.String("key", key), zap.Error(err))
	}
}
