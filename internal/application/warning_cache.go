package application

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// warningCache stores recently computed conflict warnings so repeated list
// queries do not re-run the detector while schedules remain unchanged. Keys
// embed a store generation counter, so entries written before a schedule
// mutation are simply never looked up again and age out of the LRU.
type warningCache struct {
	cache *expirable.LRU[string, []ConflictWarning]
}

func newWarningCache(ttl time.Duration, maxEntries int) *warningCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &warningCache{
		cache: expirable.NewLRU[string, []ConflictWarning](maxEntries, nil, ttl),
	}
}

func (c *warningCache) Get(key string) ([]ConflictWarning, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	warnings, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return cloneWarnings(warnings), true
}

func (c *warningCache) Put(key string, warnings []ConflictWarning) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Add(key, cloneWarnings(warnings))
}

func cloneWarnings(warnings []ConflictWarning) []ConflictWarning {
	if warnings == nil {
		return nil
	}
	out := make([]ConflictWarning, len(warnings))
	copy(out, warnings)
	return out
}
