// Package cache holds the in-memory clip collections keyed by logical
// name. The cache is an explicitly owned container handed to its
// consumers by reference; there is no package-level instance. A mutex
// guards all access because Bubble Tea commands run on their own
// goroutines.
package cache

import (
	"sync"

	"github.com/miwitv/fanclient/internal/model"
)

// Key names a cached clip collection.
type Key string

// The collections tracked by the feed.
const (
	Clips         Key = "clips"
	LikedClips    Key = "likedClips"
	TrendingClips Key = "trendingClips"
	BestClips     Key = "bestClips"
)

// Cache is a keyed, in-memory store of fetched clip collections with
// manual invalidation and support for optimistic mutation.
type Cache struct {
	mu          sync.RWMutex
	collections map[Key][]model.Clip
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{collections: make(map[Key][]model.Clip)}
}

// Get returns a copy of the collection under key. A missing or
// invalidated key yields an empty slice.
func (c *Cache) Get(key Key) []model.Clip {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored := c.collections[key]
	out := make([]model.Clip, len(stored))
	copy(out, stored)
	return out
}

// Set replaces the collection under key.
func (c *Cache) Set(key Key, clips []model.Clip) {
	c.Update(key, func([]model.Clip) []model.Clip { return clips })
}

// Update applies fn to the collection under key and stores the result.
// fn receives a copy, so it may mutate freely. All cache writes funnel
// through this single locked step.
func (c *Cache) Update(key Key, fn func([]model.Clip) []model.Clip) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := c.collections[key]
	working := make([]model.Clip, len(stored))
	copy(working, stored)
	c.collections[key] = fn(working)
}

// Invalidate drops the collection under key. The next Get returns an
// empty slice until a refetch repopulates it.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.collections, key)
}

// Contains reports whether the collection under key holds a clip with
// the given id.
func (c *Cache) Contains(key Key, clipID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, clip := range c.collections[key] {
		if clip.ID == clipID {
			return true
		}
	}
	return false
}

// Find returns the clip with the given id from the collection under
// key, if present.
func (c *Cache) Find(key Key, clipID string) (model.Clip, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, clip := range c.collections[key] {
		if clip.ID == clipID {
			return clip, true
		}
	}
	return model.Clip{}, false
}
