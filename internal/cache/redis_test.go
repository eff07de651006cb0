package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisEligibilityCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisEligibilityCache(client), mr
}

func TestPurchased_MissThenHit(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := c.Purchased(ctx, "u-alice", "oil-set-12")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.MarkPurchased(ctx, "u-alice", "oil-set-12", "canvas-40x50"))

	ok, err = c.Purchased(ctx, "u-alice", "oil-set-12")
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := mr.Members(purchasedKey("u-alice"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"oil-set-12", "canvas-40x50"}, members)
	assert.Greater(t, mr.TTL(purchasedKey("u-alice")), time.Duration(0))
}

func TestPurchased_ScopedPerUser(t *testing.T) {
	c, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.MarkPurchased(ctx, "u-alice", "oil-set-12"))

	ok, err := c.Purchased(ctx, "u-bob", "oil-set-12")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPurchased_ServerDown(t *testing.T) {
	c, mr := setupTestRedis(t)
	mr.Close()

	_, err := c.Purchased(context.Background(), "u-alice", "oil-set-12")
	assert.Error(t, err)
}

func TestMarkPurchased_Empty(t *testing.T) {
	c, mr := setupTestRedis(t)
	require.NoError(t, c.MarkPurchased(context.Background(), "u-alice"))
	assert.False(t, mr.Exists(purchasedKey("u-alice")))
}
