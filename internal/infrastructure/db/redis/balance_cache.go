// Package redis backs the optional balance cache. The ledger is fully
// functional without it; when enabled it only shortcuts the net-balance query.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finbook/ledger-system/internal/infrastructure/config"
)

const (
	balanceTTL  = 5 * time.Minute
	pingTimeout = 5 * time.Second
)

// Connect dials the Redis instance that will hold cached balances and fails
// fast when it is unreachable: a cache that cannot be invalidated on ledger
// writes is worse than no cache.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// BalanceCache caches per-user net balances in Redis.
// Key format: balance:<user_id>
//
// The cache is strictly an accelerator: entries expire after balanceTTL and
// every ledger write invalidates the owner's entry, so the store remains
// authoritative.
type BalanceCache struct {
	client *redis.Client
}

// NewBalanceCache creates a BalanceCache wrapping the given Redis client.
func NewBalanceCache(client *redis.Client) *BalanceCache {
	return &BalanceCache{client: client}
}

// Get returns the cached balance for the user; ok is false on a miss.
func (c *BalanceCache) Get(ctx context.Context, userID int64) (int64, bool, error) {
	val, err := c.client.Get(ctx, c.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("balance cache get: %w", err)
	}

	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("balance cache decode: %w", err)
	}
	return balance, true, nil
}

// Set stores the user's balance (expires after balanceTTL).
func (c *BalanceCache) Set(ctx context.Context, userID, balance int64) error {
	return c.client.Set(ctx, c.key(userID), strconv.FormatInt(balance, 10), balanceTTL).Err()
}

// Invalidate drops the user's cached balance after a ledger write.
func (c *BalanceCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *BalanceCache) key(userID int64) string {
	return fmt.Sprintf("balance:%d", userID)
}
