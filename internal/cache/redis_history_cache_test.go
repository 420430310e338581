package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisHistoryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisHistoryCache(client, ttl), mr
}

func TestRedisHistoryCacheRoundTrip(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)
	key := testKey(models.Timeframe1M)

	observations := []models.HistoricalObservation{
		{Date: "2026-08-01", Quantity: 9},
		{Date: "2026-08-02", Quantity: 11},
	}
	cache.Put(key, observations)

	got, ok := cache.Get(key)
	require.True(t, ok)
	assert.Equal(t, observations, got)
}

func TestRedisHistoryCacheMiss(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)

	_, ok := cache.Get(testKey(models.Timeframe7D))
	assert.False(t, ok)
}

func TestRedisHistoryCacheInvalidate(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)
	key := testKey(models.Timeframe1M)

	cache.Put(key, []models.HistoricalObservation{{Date: "2026-08-01", Quantity: 9}})
	cache.Invalidate(key)

	_, ok := cache.Get(key)
	assert.False(t, ok)
}

func TestRedisHistoryCacheTTLExpiry(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	key := testKey(models.Timeframe1M)

	cache.Put(key, []models.HistoricalObservation{{Date: "2026-08-01", Quantity: 9}})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(key)
	assert.False(t, ok)
}

func TestRedisHistoryCacheCorruptEntry(t *testing.T) {
	cache, mr := newRedisCache(t, time.Hour)
	key := testKey(models.Timeframe1M)

	require.NoError(t, mr.Set("history_cache:"+key.String(), "not json"))

	_, ok := cache.Get(key)
	assert.False(t, ok, "corrupt entries read as misses")
}

func TestRedisHistoryCacheStats(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)
	key := testKey(models.Timeframe1M)

	cache.Get(key) // miss
	cache.Put(key, []models.HistoricalObservation{{Date: "2026-08-01", Quantity: 9}})
	cache.Get(key) // hit

	stats := cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}
