// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"sync"
	"time"

	"github.com/pdiddy/pubmed-client/pkg/types"
)

// cacheEntry pairs a fetched article with the time it was stored.
type cacheEntry struct {
	article  types.Article
	storedAt time.Time
}

// resultCache is an in-memory TTL cache of fetched articles keyed by PMID.
// Expired entries are evicted lazily at lookup time. A disabled cache
// reports every id missing and stores nothing. Ids the server never
// returned are not cached, so they are re-requested on the next fetch.
type resultCache struct {
	mu      sync.Mutex
	enabled bool
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newResultCache(enabled bool, ttl time.Duration) *resultCache {
	return &resultCache{
		enabled: enabled,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// lookup partitions ids into still-fresh cached articles and the ids that
// must be fetched, preserving caller order in missing.
func (c *resultCache) lookup(ids []string) (map[string]types.Article, []string) {
	if !c.enabled {
		return nil, ids
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := timeNow()
	fresh := make(map[string]types.Article)
	var missing []string
	for _, id := range ids {
		entry, ok := c.entries[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, id)
			missing = append(missing, id)
			continue
		}
		fresh[id] = entry.article
	}
	return fresh, missing
}

// store records each article under its PMID at the current time.
func (c *resultCache) store(articles []types.Article) {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := timeNow()
	for _, a := range articles {
		c.entries[a.PMID] = cacheEntry{article: a, storedAt: now}
	}
}

// clear drops every cached entry.
func (c *resultCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// len reports the number of entries, expired or not.
func (c *resultCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
