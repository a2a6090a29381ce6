package leaderboard

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

// Cache is the bounded TTL cache in front of the aggregation pipelines.
// Entries expire after a fixed TTL; at capacity the least recently used
// key is evicted. Get refreshes recency. One instance is constructed at
// startup and injected wherever results are served.
type Cache struct {
	lru *expirable.LRU[string, *models.LeaderboardResult]
}

func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, *models.LeaderboardResult](size, nil, ttl)}
}

func (c *Cache) Get(key string) (*models.LeaderboardResult, bool) {
	return c.lru.Get(key)
}

func (c *Cache) Set(key string, value *models.LeaderboardResult) {
	c.lru.Add(key, value)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}
