package cache

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// historyCacheEntry wraps cached observations with caching metadata.
type historyCacheEntry struct {
	Observations []models.HistoricalObservation `json:"observations"`
	CachedAt     time.Time                      `json:"cached_at"`
	ExpiresAt    time.Time                      `json:"expires_at"`
}

// HistoryCacheStats tracks cache performance metrics.
type HistoryCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// RedisHistoryCache implements HistoryCache on Redis so multiple instances
// share one view of fetched history.
type RedisHistoryCache struct {
	redis  *redis.Client
	ttl    time.Duration
	prefix string

	statsMu sync.RWMutex
	stats   HistoryCacheStats
}

// NewRedisHistoryCache creates a Redis-backed history cache with the given TTL.
func NewRedisHistoryCache(redisClient *redis.Client, ttl time.Duration) *RedisHistoryCache {
	return &RedisHistoryCache{
		redis:  redisClient,
		ttl:    ttl,
		prefix: "history_cache:",
	}
}

// Get retrieves cached observations for a key.
func (c *RedisHistoryCache) Get(key HistoryKey) ([]models.HistoricalObservation, bool) {
	ctx := context.Background()
	cacheKey := c.prefix + key.String()

	data, err := c.redis.Get(ctx, cacheKey).Result()
	if err == redis.Nil {
		c.recordMiss()
		return nil, false
	}
	if err != nil {
		log.Printf("Redis error getting history for %s: %v", key, err)
		c.recordMiss()
		return nil, false
	}

	var entry historyCacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		log.Printf("Error deserializing cached history for %s: %v", key, err)
		c.recordMiss()
		return nil, false
	}

	c.statsMu.Lock()
	c.stats.Hits++
	c.statsMu.Unlock()

	return entry.Observations, true
}

// Put stores observations for a key with the configured TTL.
func (c *RedisHistoryCache) Put(key HistoryKey, observations []models.HistoricalObservation) {
	ctx := context.Background()
	cacheKey := c.prefix + key.String()

	now := time.Now()
	entry := historyCacheEntry{
		Observations: observations,
		CachedAt:     now,
		ExpiresAt:    now.Add(c.ttl),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Error serializing history for %s: %v", key, err)
		return
	}

	if err := c.redis.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		log.Printf("Redis error setting history for %s: %v", key, err)
		return
	}

	c.statsMu.Lock()
	c.stats.Sets++
	c.statsMu.Unlock()
}

// Invalidate drops the entry for a key.
func (c *RedisHistoryCache) Invalidate(key HistoryKey) {
	ctx := context.Background()
	if err := c.redis.Del(ctx, c.prefix+key.String()).Err(); err != nil {
		log.Printf("Redis error invalidating history for %s: %v", key, err)
	}
}

// GetStats returns current cache statistics.
func (c *RedisHistoryCache) GetStats() HistoryCacheStats {
	c.statsMu.RLock()
	defer c.statsMu.RUnlock()
	return c.stats
}

// LogStats logs current cache performance statistics.
func (c *RedisHistoryCache) LogStats() {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}

	log.Printf("Redis History Cache Stats - Hits: %d, Misses: %d, Sets: %d, Hit Rate: %.2f%%",
		stats.Hits, stats.Misses, stats.Sets, hitRate)
}

func (c *RedisHistoryCache) recordMiss() {
	c.statsMu.Lock()
	c.stats.Misses++
	c.statsMu.Unlock()
}
