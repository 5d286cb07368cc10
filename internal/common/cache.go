package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a process-local read-through cache over go-cache. Values expire
// after the default TTL given at construction; writers are expected to
// invalidate the keys they make stale.
type Cache struct {
	c *cache.Cache
}

func NewCache(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{c: cache.New(defaultTTL, cleanupInterval)}
}

func (c *Cache) Set(key string, value any) {
	c.c.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (any, bool) {
	return c.c.Get(key)
}

func (c *Cache) Delete(key string) {
	c.c.Delete(key)
}

func (c *Cache) Flush() {
	c.c.Flush()
}

// Cache key constructors. Every writer invalidates the keys its write makes
// stale, so the constructors live here rather than with each service.

func CacheKeyBlog(id int) string {
	return "blog:" + strconv.Itoa(id)
}

func CacheKeyBlogs() string {
	return "blogs"
}

func CacheKeyBlogStats() string {
	return "blog_stats"
}

func CacheKeyUsers() string {
	return "users"
}
