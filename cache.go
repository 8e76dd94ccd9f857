package lfsr

import (
	"strconv"
	"sync"

	"github.com/chronos-tachyon/assert"
	"golang.org/x/sync/singleflight"
)

// Cache builds each distinct (Polynomial, block width) Matrix at most once
// and shares the result.  Concurrent requests for the same key wait for a
// single construction.  Failed constructions are not remembered.
type Cache struct {
	tracers []Tracer
	group   singleflight.Group

	mu       sync.Mutex
	matrices map[string]*Matrix
}

var (
	gSharedOnce  sync.Once
	gSharedCache *Cache
)

// SharedCache returns the process-wide Cache.
func SharedCache() *Cache {
	gSharedOnce.Do(func() {
		gSharedCache = NewCache()
	})
	return gSharedCache
}

// NewCache constructs and returns a new, empty Cache.  Only WithTracers is
// honored.
func NewCache(opts ...Option) *Cache {
	var o options
	o.reset()
	o.apply(opts)
	return &Cache{
		tracers:  o.tracers,
		matrices: make(map[string]*Matrix),
	}
}

// Get returns the Matrix for the given Polynomial and block width, building
// it on first use.
func (c *Cache) Get(poly Polynomial, blockWidth uint) (*Matrix, error) {
	assert.NotNil(&c)

	key := poly.key() + "/" + strconv.FormatUint(uint64(blockWidth), 10)

	c.mu.Lock()
	m, found := c.matrices[key]
	c.mu.Unlock()

	if found {
		sendEvent(c.tracers, Event{
			Type:       CacheHitEvent,
			Width:      m.Width(),
			BlockWidth: m.BlockWidth(),
			Polynomial: poly.String(),
		})
		return m, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		m, found := c.matrices[key]
		c.mu.Unlock()
		if found {
			return m, nil
		}

		m, err := Build(poly, blockWidth, WithTracers(c.tracers...))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.matrices[key] = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Matrix), nil
}

// Len returns the number of matrices held by this Cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	n := len(c.matrices)
	c.mu.Unlock()
	return n
}
