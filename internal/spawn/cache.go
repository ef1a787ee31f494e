package spawn

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/domain"
)

// cellPrecision rounds query centers to about 11 m so nearby players share entries
const cellPrecision = 4

// cellMarginMeters widens cached queries so rounding never drops an in-range spawn
const cellMarginMeters = 20.0

// nearbyCache provides an in-memory LRU cache of candidate spawns per query cell
// with time-based expiration. Entries are read-only once stored.
type nearbyCache struct {
	lru *expirable.LRU[string, []*domain.Spawn]
}

// newNearbyCache returns nil when size is not positive, disabling caching
func newNearbyCache(size int, ttl time.Duration) *nearbyCache {
	if size <= 0 || ttl <= 0 {
		return nil
	}
	return &nearbyCache{
		lru: expirable.NewLRU[string, []*domain.Spawn](size, nil, ttl),
	}
}

func cellKey(lat, lng, radius float64) string {
	return fmt.Sprintf("%.*f:%.*f:%.0f", cellPrecision, lat, cellPrecision, lng, radius)
}

func (c *nearbyCache) Get(key string) ([]*domain.Spawn, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *nearbyCache) Set(key string, spawns []*domain.Spawn) {
	if c == nil {
		return
	}
	c.lru.Add(key, spawns)
}

// Clear removes all entries. Called after every committed spawn mutation.
func (c *nearbyCache) Clear() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
