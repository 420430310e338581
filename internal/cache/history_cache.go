package cache

import (
	"fmt"
	"sync"

	"github.com/pharmaforge/rxcast-go/internal/models"
)

// HistoryKey identifies one cached historical series. The timeframe is part of
// the key so a timeframe switch can never surface another window's data.
type HistoryKey struct {
	ItemType  string
	ItemID    string
	Timeframe models.Timeframe
}

func (k HistoryKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.ItemType, k.ItemID, k.Timeframe)
}

// HistoryCache stores raw historical observations per (itemType, itemId,
// timeframe). Implementations only need single-writer-per-key discipline;
// last write wins.
type HistoryCache interface {
	Get(key HistoryKey) ([]models.HistoricalObservation, bool)
	Put(key HistoryKey, observations []models.HistoricalObservation)
	Invalidate(key HistoryKey)
}

// MemoryHistoryCache is the in-process HistoryCache used by tests and
// single-node deployments.
type MemoryHistoryCache struct {
	mu      sync.RWMutex
	entries map[string][]models.HistoricalObservation
}

// NewMemoryHistoryCache creates an empty in-memory history cache.
func NewMemoryHistoryCache() *MemoryHistoryCache {
	return &MemoryHistoryCache{
		entries: make(map[string][]models.HistoricalObservation),
	}
}

// Get returns the cached observations for a key, if any.
func (c *MemoryHistoryCache) Get(key HistoryKey) ([]models.HistoricalObservation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	obs, ok := c.entries[key.String()]
	return obs, ok
}

// Put stores observations for a key, replacing any previous entry.
func (c *MemoryHistoryCache) Put(key HistoryKey, observations []models.HistoricalObservation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = observations
}

// Invalidate drops the entry for a key.
func (c *MemoryHistoryCache) Invalidate(key HistoryKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.String())
}
