// Package cache memoizes transmission results keyed by their numeric
// inputs, with a fixed time-to-live and a bounded entry count. It is
// purely a performance layer: identical inputs produce identical
// results whether they hit or miss.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-tissue/spectral/absorption"
	"github.com/cwbudde/algo-tissue/tissue"
)

// Defaults applied by New.
const (
	DefaultTTL        = 5 * time.Minute
	DefaultMaxEntries = 64
)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long an entry stays valid. Non-positive durations
// are ignored.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithMaxEntries bounds the number of live entries. Non-positive counts
// are ignored.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

type entry struct {
	res       *tissue.Result
	expiresAt time.Time
}

// Cache is a TTL-bounded memo of transmission results. Entries are
// immutable once stored; hits hand out copies. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time

	hits   uint64
	misses uint64
}

// New returns an empty cache holding entries for DefaultTTL with room
// for DefaultMaxEntries, unless options override them.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// GetOrCompute returns a copy of the entry under key, or runs compute,
// stores a private copy of its result and returns the computed value.
// Expired entries count as absent and are dropped on access; no
// background sweeper runs. A compute error is returned unchanged and
// nothing is stored. Concurrent misses on one key may compute more than
// once; each caller still receives a correct result.
func (c *Cache) GetOrCompute(key string, compute func() (*tissue.Result, error)) (*tissue.Result, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expiresAt) {
			c.hits++
			res := e.res.Clone()
			c.mu.Unlock()

			return res, nil
		}

		delete(c.entries, key)
	}
	c.misses++
	c.mu.Unlock()

	res, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.store(key, res.Clone())
	c.mu.Unlock()

	return res, nil
}

// Transmission memoizes Model.Transmission for the given inputs. The
// key covers the table contents, the grid samples, all tissue
// parameters and the normalization wavelength, so one cache can serve
// models over different tables.
func (c *Cache) Transmission(table *absorption.Table, wavelengths []float64, params tissue.Params, normWavelength float64) (*tissue.Result, error) {
	if table == nil {
		return nil, tissue.ErrNilTable
	}

	key := fmt.Sprintf("%016x:%s", table.Fingerprint(), Key(wavelengths, params, normWavelength))

	return c.GetOrCompute(key, func() (*tissue.Result, error) {
		m := tissue.Model{Table: table, Params: params}
		return m.Transmission(wavelengths, normWavelength)
	})
}

// store inserts res under key, evicting when full. Caller holds mu.
func (c *Cache) store(key string, res *tissue.Result) {
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evict()
	}

	c.entries[key] = entry{res: res, expiresAt: c.now().Add(c.ttl)}
}

// evict drops all expired entries, or the live entry closest to expiry
// when none have expired yet. Caller holds mu.
func (c *Cache) evict() {
	now := c.now()

	dropped := false
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			dropped = true
		}
	}

	if dropped {
		return
	}

	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)

	for k, e := range c.entries {
		if !found || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
			found = true
		}
	}

	if found {
		delete(c.entries, oldestKey)
	}
}

// Stats are cumulative cache counters.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// Len returns the number of stored entries, counting expired ones that
// have not been touched since expiry.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
