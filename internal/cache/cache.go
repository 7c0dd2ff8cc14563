package cache

import "sync"

// Cache is a category-keyed read-through cache. Writes to any entity in a
// category invalidate the whole category; there is no fine-grained or
// partial invalidation.
type Cache struct {
	mu         sync.RWMutex
	categories map[string]map[string]any
}

const (
	CategoryUsers    = "users"
	CategoryCards    = "cards"
	CategoryMessages = "messages"
	CategoryRates    = "rates"
)

func New() *Cache {
	return &Cache{categories: make(map[string]map[string]any)}
}

func (c *Cache) Get(category, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entries, ok := c.categories[category]
	if !ok {
		return nil, false
	}
	value, ok := entries[key]
	return value, ok
}

func (c *Cache) Set(category, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.categories[category] == nil {
		c.categories[category] = make(map[string]any)
	}
	c.categories[category][key] = value
}

func (c *Cache) InvalidateAll(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.categories, category)
}
