package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NotificationGuard deduplicates post-reconciliation notifications by
// transaction id, so a replayed gateway callback does not re-send the
// invoice email.
type NotificationGuard interface {
	// MarkNotified records the transaction as notified. It returns true if
	// this call was the first to do so.
	MarkNotified(ctx context.Context, tranID string) (bool, error)
}

type redisNotificationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationGuard(client *redis.Client, ttl time.Duration) NotificationGuard {
	return &redisNotificationGuard{client: client, ttl: ttl}
}

func (g *redisNotificationGuard) key(tranID string) string {
	return fmt.Sprintf("notified:payment:%s", tranID)
}

func (g *redisNotificationGuard) MarkNotified(ctx context.Context, tranID string) (bool, error) {
	return g.client.SetNX(ctx, g.key(tranID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}
