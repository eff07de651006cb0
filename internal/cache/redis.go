package cache

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisEligibilityCache keeps one set per user holding the ids of products
// that user has bought.
type RedisEligibilityCache struct {
	client  redis.Cmdable
	baseTTL time.Duration
}

func NewRedisEligibilityCache(client redis.Cmdable) *RedisEligibilityCache {
	return &RedisEligibilityCache{client: client, baseTTL: 6 * time.Hour}
}

func (r *RedisEligibilityCache) Purchased(ctx context.Context, userID, productID string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, purchasedKey(userID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember failed: %w", err)
	}
	return ok, nil
}

func (r *RedisEligibilityCache) MarkPurchased(ctx context.Context, userID string, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	members := make([]any, len(productIDs))
	for i, id := range productIDs {
		members[i] = id
	}
	key := purchasedKey(userID)
	jitter := time.Duration(rand.Intn(30)) * time.Minute

	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, key, members...)
		p.Expire(ctx, key, r.baseTTL+jitter)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis sadd failed: %w", err)
	}
	return nil
}

func purchasedKey(userID string) string {
	return fmt.Sprintf("purchased:%s", userID)
}

// NoopCache never hits, so every lookup goes to the database.
type NoopCache struct{}

func (NoopCache) Purchased(context.Context, string, string) (bool, error) { return false, nil }
func (NoopCache) MarkPurchased(context.Context, string, ...string) error { return nil }
