// File: pool/cache.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-worker allocation cache. A cache is private to its owning worker
// and must not be shared: it trades the shared ring's atomics for plain
// slice ops, refilling and flushing in half-cache batches. Purely an
// optimization — correctness lives in the shared ring.

package pool

import (
	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/pkt"
)

// Cache is a worker-private stash of pre-allocated buffers.
type Cache struct {
	pool *Pool
	objs []*pkt.Buffer
	size int
}

// NewCache builds a cache sized by the pool's Config.CacheSize.
// Returns nil when caching is disabled for the pool.
func (p *Pool) NewCache() *Cache {
	if p.cfg.CacheSize == 0 {
		return nil
	}
	return &Cache{
		pool: p,
		objs: make([]*pkt.Buffer, 0, p.cfg.CacheSize),
		size: p.cfg.CacheSize,
	}
}

// Alloc returns one buffer, refilling half the cache from the shared
// ring when empty. Falls back to a single shared alloc if the bulk
// refill cannot be satisfied. Returns nil when the pool is empty.
func (c *Cache) Alloc() *pkt.Buffer {
	if n := len(c.objs); n > 0 {
		b := c.objs[n-1]
		c.objs[n-1] = nil
		c.objs = c.objs[:n-1]
		b.ClearPooled()
		return b
	}
	fill := c.size / 2
	if fill > 0 {
		batch := c.objs[:fill]
		if c.pool.AllocBulkInto(batch) {
			for _, b := range batch {
				b.MarkPooled() // cached objects carry the pooled mark
			}
			c.objs = batch
			return c.Alloc()
		}
	}
	return c.pool.AllocOne()
}

// Free stashes the buffer, flushing half the cache to the shared ring
// when full. The same ownership tripwires as Pool.Free apply: foreign,
// shared, and in-flight buffers take the shared path, and a cached
// object is marked pooled so a double free trips immediately.
func (c *Cache) Free(b *pkt.Buffer) error {
	if b == nil || b.Tag() != c.pool.tag || b.InFlight() || b.Refcount() > 1 {
		return c.pool.Free(b) // let the pool produce the right error
	}
	if !b.MarkPooled() {
		return api.ErrForeignObject // double free
	}
	if len(c.objs) == c.size {
		half := c.size / 2
		if err := c.flushRange(half, c.size); err != nil {
			return err
		}
	}
	b.Reset(c.pool.headroom)
	c.objs = append(c.objs, b)
	return nil
}

// Flush returns every cached buffer to the shared ring. Call before the
// worker exits or before handing buffers to another worker.
func (c *Cache) Flush() error {
	return c.flushRange(0, len(c.objs))
}

func (c *Cache) flushRange(from, to int) error {
	var firstErr error
	for i := from; i < to; i++ {
		b := c.objs[i]
		c.objs[i] = nil
		b.ClearPooled() // the pool's own free path re-marks it
		if err := c.pool.Free(b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.objs = c.objs[:from]
	return firstErr
}

// Len returns the number of cached buffers.
func (c *Cache) Len() int { return len(c.objs) }
