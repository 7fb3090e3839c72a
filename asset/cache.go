package asset

import (
	"fmt"
	"image"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores decoded assets for the process lifetime. With a zero size nothing is ever
// evicted, otherwise the least recently used entries are dropped past the size.
type Cache struct {
	entries map[Identity]*image.RGBA
	bounded *lru.Cache[Identity, *image.RGBA]
	mu      sync.RWMutex
	bytes   int64
}

func NewCache(maxEntries int) (*Cache, error) {
	cache := &Cache{}

	if maxEntries <= 0 {
		cache.entries = make(map[Identity]*image.RGBA)
		return cache, nil
	}

	bounded, err := lru.NewWithEvict(maxEntries, func(_ Identity, img *image.RGBA) {
		cache.bytes -= footprint(img)
	})
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	cache.bounded = bounded

	return cache, nil
}

func (c *Cache) Get(identity Identity) (*image.RGBA, bool) {
	if c.bounded != nil {
		// lru updates recency on read
		c.mu.Lock()
		defer c.mu.Unlock()

		return c.bounded.Get(identity)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	img, ok := c.entries[identity]
	return img, ok
}

func (c *Cache) Put(identity Identity, img *image.RGBA) {
	if img == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bounded != nil {
		if previous, ok := c.bounded.Peek(identity); ok {
			c.bytes -= footprint(previous)
		}

		c.bounded.Add(identity, img)
	} else {
		if previous, ok := c.entries[identity]; ok {
			c.bytes -= footprint(previous)
		}

		c.entries[identity] = img
	}

	c.bytes += footprint(img)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.bounded != nil {
		return c.bounded.Len()
	}

	return len(c.entries)
}

// MemoryEstimate is the decoded size of every cached bitmap, 4 bytes per pixel
func (c *Cache) MemoryEstimate() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.bytes
}

func footprint(img *image.RGBA) int64 {
	size := img.Bounds().Size()
	return int64(size.X) * int64(size.Y) * 4
}
