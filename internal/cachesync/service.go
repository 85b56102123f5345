// Package cachesync keeps the Redis order cache honest: it consumes the
// order lifecycle topic and drops cached entries for orders that changed or
// disappeared. This covers writers that committed but died before dropping
// the cache themselves.
package cachesync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/hanifwid/go-shop-api/internal/kafka"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/redisx"
)

// Cache is the slice of Redis the service uses. Satisfied by RedisCache;
// tests use a map-backed fake.
type Cache interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type RedisCache struct{ RDB *redis.Client }

func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	return redisx.Exists(ctx, c.RDB, key)
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.RDB.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.RDB.Del(ctx, key).Err()
}

type Service struct {
	Cache Cache
	Log   *zap.Logger
}

// HandleLifecycleEvent is attached as the consumer handler for the order
// lifecycle topic.
func (s *Service) HandleLifecycleEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup on event id; redeliveries are expected with manual commits
	dkey := fmt.Sprintf(redisx.KeyDedup, "cachesync", env.EventID)
	seen, _ := s.Cache.Exists(ctx, dkey)
	if seen {
		return nil
	}
	_ = s.Cache.Set(ctx, dkey, "1", redisx.TTLDedup)

	switch env.EventType {
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.drop(ctx, p.OrderID, env.EventType)
	case orders.EventOrderDeleted:
		p, err := kafkax.UnwrapPayload[orders.OrderDeletedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.drop(ctx, p.OrderID, env.EventType)
	default:
		// OrderPlaced creates a fresh id; there is nothing stale to drop.
		return nil
	}
}

func (s *Service) drop(ctx context.Context, orderID int64, eventType string) error {
	if err := s.Cache.Del(ctx, fmt.Sprintf(redisx.KeyOrder, orderID)); err != nil {
		return err
	}
	s.Log.Debug("dropped cached order",
		zap.Int64("order_id", orderID),
		zap.String("event_type", eventType),
	)
	return nil
}
