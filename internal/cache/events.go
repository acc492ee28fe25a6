package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"event-checkout-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	eventKeyPrefix = "event:"
	eventsAllKey   = "events:all"
	defaultTTL     = 5 * time.Minute
)

// InitRedis connects to redis and verifies the connection
func InitRedis(addr, password string, db int, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established", zap.String("addr", addr))
	return rdb, nil
}

// EventCache is a read-through cache in front of the event catalog.
// It is peripheral: callers must tolerate a nil or unreachable cache.
type EventCache struct {
	rdb *redis.Client
}

// NewEventCache creates an event cache backed by the given client
func NewEventCache(rdb *redis.Client) *EventCache {
	return &EventCache{rdb: rdb}
}

// GetEvent returns the cached event or redis.Nil-wrapped error on miss
func (c *EventCache) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	data, err := c.rdb.Get(ctx, fmt.Sprintf("%s%d", eventKeyPrefix, id)).Bytes()
	if err != nil {
		return nil, err
	}

	event := &models.Event{}
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to decode cached event: %w", err)
	}

	return event, nil
}

// SetEvent caches an event for the default TTL
func (c *EventCache) SetEvent(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf("%s%d", eventKeyPrefix, event.ID), data, defaultTTL).Err()
}

// GetEvents returns the cached event list or redis.Nil-wrapped error on miss
func (c *EventCache) GetEvents(ctx context.Context) ([]*models.Event, error) {
	data, err := c.rdb.Get(ctx, eventsAllKey).Bytes()
	if err != nil {
		return nil, err
	}

	var events []*models.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to decode cached events: %w", err)
	}

	return events, nil
}

// SetEvents caches the full event list for the default TTL
func (c *EventCache) SetEvents(ctx context.Context, events []*models.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, eventsAllKey, data, defaultTTL).Err()
}

// Invalidate drops the cached entries for the given events and the list key.
// Called after any write to inventory counters.
func (c *EventCache) Invalidate(ctx context.Context, eventIDs ...int) error {
	keys := make([]string, 0, len(eventIDs)+1)
	for _, id := range eventIDs {
		keys = append(keys, fmt.Sprintf("%s%d", eventKeyPrefix, id))
	}
	keys = append(keys, eventsAllKey)
	return c.rdb.Del(ctx, keys...).Err()
}
