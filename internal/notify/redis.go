package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smokyabdulrahman/vaktija/internal/prayer"
)

// snapshotTTL lets the snapshot key expire shortly after the loop stops.
const snapshotTTL = 5 * time.Second

// redisCmdable is the subset of the go-redis client Redis needs.
type redisCmdable interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Redis publishes notifications on <prefix>:notifications and stores the
// latest snapshot under <prefix>:snapshot.
type Redis struct {
	rdb    redisCmdable
	closer func() error
	prefix string
}

// NewRedis connects a client to addr.
func NewRedis(addr, password, prefix string) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	r := newRedis(rdb, prefix)
	r.closer = rdb.Close
	return r
}

func newRedis(rdb redisCmdable, prefix string) *Redis {
	if prefix == "" {
		prefix = "vaktija"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

// Notify publishes n as JSON.
func (r *Redis) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := r.rdb.Publish(ctx, r.prefix+":notifications", payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Publish stores s with a short expiry.
func (r *Redis) Publish(ctx context.Context, s prayer.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := r.rdb.Set(ctx, r.prefix+":snapshot", payload, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}
