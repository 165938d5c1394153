package service

import (
	"sync"
	"time"

	"github.com/set-night/styleit/internal/domain"
)

type catalogEntry struct {
	items    []domain.WardrobeItem
	filter   domain.FilterState
	cachedAt time.Time
}

// catalogCache keeps the last list result per chat so repeated browsing
// does not refetch. Mutations drop the chat's entry.
type catalogCache struct {
	mu      sync.RWMutex
	entries map[int64]catalogEntry
	ttl     time.Duration
}

func newCatalogCache(ttl time.Duration) *catalogCache {
	return &catalogCache{entries: make(map[int64]catalogEntry), ttl: ttl}
}

func (c *catalogCache) Get(chatID int64) ([]domain.WardrobeItem, domain.FilterState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[chatID]
	if !ok || time.Since(e.cachedAt) > c.ttl {
		return nil, domain.FilterState{}, false
	}
	return e.items, e.filter, true
}

func (c *catalogCache) Set(chatID int64, filter domain.FilterState, items []domain.WardrobeItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[chatID] = catalogEntry{items: items, filter: filter, cachedAt: time.Now()}
}

func (c *catalogCache) Invalidate(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, chatID)
}
