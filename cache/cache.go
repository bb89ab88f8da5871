package cache

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache holds oracle answers keyed by dataset and question.
type Cache struct {
	cache *cache.Cache
}

// New creates a cache whose entries expire after ttl. A non-positive ttl
// keeps entries forever.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Cache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func answerKey(contextLabel, question string) string {
	return "answer:" + contextLabel + ":" + question
}

// Answer returns the cached oracle answer for a question.
func (c *Cache) Answer(contextLabel, question string) (string, bool) {
	v, found := c.cache.Get(answerKey(contextLabel, question))
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// SetAnswer caches an oracle answer with the default expiration.
func (c *Cache) SetAnswer(contextLabel, question, answer string) {
	c.cache.Set(answerKey(contextLabel, question), answer, cache.DefaultExpiration)
}

// Flush drops every entry. Datasets reloaded with different columns make
// cached queries stale.
func (c *Cache) Flush() {
	c.cache.Flush()
}

func (c *Cache) Len() int {
	return c.cache.ItemCount()
}
