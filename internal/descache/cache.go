// SPDX-License-Identifier: MPL-2.0

// Package descache memoizes parsed module descriptors by absolute file path.
//
// The cache is safe for concurrent use. Two goroutines missing on the same
// path both parse the file and the last one stores its result; parsing is
// side-effect free, so the race only duplicates work.
package descache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jpmsdeps/jpmsdeps/internal/metrics"
	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/types"
)

// DefaultSize bounds the number of descriptors kept in memory.
const DefaultSize = 1024

// Cache memoizes javamod.ParseFile results.
type Cache struct {
	entries *lru.Cache[types.FilesystemPath, *javamod.Descriptor]
	metrics *metrics.Recorder
	parse   func(path string) (*javamod.Descriptor, error)
}

// New creates a cache holding up to size descriptors. rec may be nil.
func New(size int, rec *metrics.Recorder) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[types.FilesystemPath, *javamod.Descriptor](size)
	if err != nil {
		return nil, fmt.Errorf("create descriptor cache: %w", err)
	}
	return &Cache{entries: entries, metrics: rec, parse: javamod.ParseFile}, nil
}

// Get returns the descriptor at path, parsing it on first use. A missing
// file yields javamod.Empty.
func (c *Cache) Get(path types.FilesystemPath) (*javamod.Descriptor, error) {
	key, err := path.Abs()
	if err != nil {
		return nil, err
	}
	if d, ok := c.entries.Get(key); ok {
		c.metrics.CacheHit()
		return d, nil
	}
	d, err := c.parse(string(key))
	if err != nil {
		return nil, err
	}
	c.metrics.Parsed()
	c.entries.Add(key, d)
	return d, nil
}

// Invalidate drops a cached descriptor, e.g. after the watcher saw a change.
func (c *Cache) Invalidate(path types.FilesystemPath) {
	if key, err := path.Abs(); err == nil {
		c.entries.Remove(key)
	}
}

// ContainsModule reports whether any cached descriptor declares the module.
func (c *Cache) ContainsModule(name string) bool {
	for _, key := range c.entries.Keys() {
		if d, ok := c.entries.Peek(key); ok && !d.IsEmpty() && d.ModuleName() == name {
			return true
		}
	}
	return false
}

// Len returns the number of cached descriptors.
func (c *Cache) Len() int { return c.entries.Len() }
