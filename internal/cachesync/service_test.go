package cachesync_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hanifwid/go-shop-api/internal/cachesync"
	"github.com/hanifwid/go-shop-api/internal/orders"
	"github.com/hanifwid/go-shop-api/internal/redisx"
)

type fakeCache struct {
	entries map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]string{}} }

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.entries[key]
	return ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func lifecycleMessage(t *testing.T, eventID, eventType string, payload any) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	env := orders.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload:      b,
	}
	v, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: v}
}

func TestStatusChangeDropsCachedOrder(t *testing.T) {
	cache := newFakeCache()
	svc := &cachesync.Service{Cache: cache, Log: zap.NewNop()}

	orderKey := fmt.Sprintf(redisx.KeyOrder, int64(7))
	cache.entries[orderKey] = `{"orderStatus":"PENDING"}`

	m := lifecycleMessage(t, "ev-1", orders.EventOrderStatusChanged, orders.OrderStatusChangedPayload{
		OrderID: 7, From: orders.StatusPending, To: orders.StatusCancelled, Restocked: 2,
	})
	require.NoError(t, svc.HandleLifecycleEvent(context.Background(), m))

	_, cached := cache.entries[orderKey]
	assert.False(t, cached)
}

func TestDeleteDropsCachedOrder(t *testing.T) {
	cache := newFakeCache()
	svc := &cachesync.Service{Cache: cache, Log: zap.NewNop()}

	orderKey := fmt.Sprintf(redisx.KeyOrder, int64(3))
	cache.entries[orderKey] = `{"orderStatus":"SHIPPED"}`

	m := lifecycleMessage(t, "ev-2", orders.EventOrderDeleted, orders.OrderDeletedPayload{OrderID: 3, Restocked: 1})
	require.NoError(t, svc.HandleLifecycleEvent(context.Background(), m))

	_, cached := cache.entries[orderKey]
	assert.False(t, cached)
}

func TestRedeliveredEventIsIgnored(t *testing.T) {
	cache := newFakeCache()
	svc := &cachesync.Service{Cache: cache, Log: zap.NewNop()}
	ctx := context.Background()

	orderKey := fmt.Sprintf(redisx.KeyOrder, int64(9))
	m := lifecycleMessage(t, "ev-3", orders.EventOrderStatusChanged, orders.OrderStatusChangedPayload{
		OrderID: 9, From: orders.StatusPending, To: orders.StatusShipped,
	})
	require.NoError(t, svc.HandleLifecycleEvent(ctx, m))

	// the same event id arriving again must not touch a freshly written entry
	cache.entries[orderKey] = `{"orderStatus":"SHIPPED"}`
	require.NoError(t, svc.HandleLifecycleEvent(ctx, m))
	assert.Equal(t, `{"orderStatus":"SHIPPED"}`, cache.entries[orderKey])
}

func TestPlacedEventLeavesCacheAlone(t *testing.T) {
	cache := newFakeCache()
	svc := &cachesync.Service{Cache: cache, Log: zap.NewNop()}

	orderKey := fmt.Sprintf(redisx.KeyOrder, int64(4))
	cache.entries[orderKey] = `{"orderStatus":"PENDING"}`

	m := lifecycleMessage(t, "ev-4", orders.EventOrderPlaced, orders.OrderPlacedPayload{OrderID: 4, Quantity: 1})
	require.NoError(t, svc.HandleLifecycleEvent(context.Background(), m))
	assert.Equal(t, `{"orderStatus":"PENDING"}`, cache.entries[orderKey])
}

func TestMalformedEnvelopeErrors(t *testing.T) {
	svc := &cachesync.Service{Cache: newFakeCache(), Log: zap.NewNop()}

	err := svc.HandleLifecycleEvent(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
