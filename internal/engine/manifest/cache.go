package manifest

import (
	"sync"

	"go.trai.ch/buckle/internal/core/domain"
)

// Cache memoizes merge results per request key. Each key is computed once,
// and computing one key never blocks callers of another.
type Cache struct {
	merger *Merger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once   sync.Once
	result domain.MergedManifest
	err    error
}

// NewCache creates a new Cache backed by merger.
func NewCache(merger *Merger) *Cache {
	return &Cache{
		merger:  merger,
		entries: make(map[string]*entry),
	}
}

// Get returns the memoized result for req, merging on first use.
func (c *Cache) Get(req Request) (domain.MergedManifest, error) {
	c.mu.Lock()
	e, ok := c.entries[req.Key]
	if !ok {
		e = &entry{}
		c.entries[req.Key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.result, e.err = c.merger.Merge(&req)
	})
	return e.result, e.err
}

// Package returns the package of the memoized manifest for req.
func (c *Cache) Package(req Request) (string, error) {
	result, err := c.Get(req)
	if err != nil {
		return "", err
	}
	return result.Package()
}
