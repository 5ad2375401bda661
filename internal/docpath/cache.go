package docpath

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/tether/internal/log"
)

const (
	// DefaultExpiration bounds how long an unused parse result is kept.
	DefaultExpiration = 10 * time.Minute
	// DefaultCleanupInterval is how often expired parse results are purged.
	DefaultCleanupInterval = 30 * time.Minute
)

// Cache memoizes Parse. The path matcher re-parses the same ids on every
// scroll and hover event, so hot ids are served from memory.
type Cache struct {
	cache *gocache.Cache
}

// NewCache creates a parse cache.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	return &Cache{cache: gocache.New(defaultExpiration, cleanupInterval)}
}

// Parse returns the cached parse of s, parsing and storing it on a miss.
// Failed parses are not cached.
func (c *Cache) Parse(s string) (Path, error) {
	if v, found := c.cache.Get(s); found {
		if p, ok := v.(Path); ok {
			return p, nil
		}
		log.Error(log.CatTracker, "wrong type assertion when getting cached path", "key", s)
	}

	p, err := Parse(s)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(s, p)
	return p, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached entry.
func (c *Cache) Flush() {
	c.cache.Flush()
}

var shared = NewCache(DefaultExpiration, DefaultCleanupInterval)

// ParseCached parses s through the process-wide cache.
func ParseCached(s string) (Path, error) {
	return shared.Parse(s)
}
