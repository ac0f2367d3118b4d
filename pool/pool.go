// File: pool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Memory pool implementation. Allocation never blocks and signals
// exhaustion by value (nil); only creation and destruction return full
// errors. Free runs the ownership checks in every build: a foreign or
// already-pooled object here means corruption, not a tuning problem.

package pool

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/eal"
	"github.com/momentics/hioload-pkt/internal/concurrency"
	"github.com/momentics/hioload-pkt/internal/mem"
	"github.com/momentics/hioload-pkt/pkt"
)

// DefaultHeaderRoom is applied when Config.HeaderRoom is zero, sized for
// typical tunnel/encap header growth.
const DefaultHeaderRoom = 128

// tagSeq hands out process-unique pool identity tags.
var tagSeq atomic.Uint64

// Config sizes a pool at creation. All fields are fixed for the pool's
// lifetime.
type Config struct {
	// Name uniquely identifies the pool in the process registry.
	Name string
	// ObjectSize is the fixed capacity of every buffer, headroom included.
	ObjectSize int
	// Capacity is the total object count, constant after creation.
	Capacity int
	// CacheSize bounds each per-worker cache; 0 disables caching.
	// Capped at Capacity/2 so caches can never starve the shared ring.
	CacheSize int
	// HeaderRoom is the default data offset restored on free.
	HeaderRoom int
	// NUMANode is a placement hint; -1 follows the runtime config.
	NUMANode int
}

// Pool is a fixed-capacity allocator over one exclusively owned arena.
type Pool struct {
	cfg      Config
	headroom int
	tag      uint64
	arena    *mem.Arena
	objs     []*pkt.Buffer
	free     *concurrency.MPMCRing[uint32]
	log      *zap.Logger
	dead     atomic.Bool
}

// Stats is a point-in-time pool accounting snapshot.
type Stats struct {
	Capacity int
	Free     int
	InUse    int
}

// Create reserves the arena, carves it into objects, and registers the
// pool under cfg.Name.
//
// Objects held by per-worker caches count as in-use: the cache path is
// bulk alloc/free against this shared pool, nothing more.
func Create(cfg Config) (*Pool, error) {
	if !eal.Initialized() {
		return nil, api.ErrRuntimeNotInitialized
	}
	if cfg.Name == "" || cfg.ObjectSize <= 0 || cfg.Capacity <= 0 {
		return nil, api.ErrInvalidArgument
	}
	headroom := cfg.HeaderRoom
	if headroom == 0 {
		headroom = DefaultHeaderRoom
	}
	if headroom < 0 || headroom >= cfg.ObjectSize {
		return nil, api.ErrInvalidArgument
	}
	if cfg.CacheSize < 0 || cfg.CacheSize > cfg.Capacity/2 {
		return nil, api.ErrInvalidArgument
	}

	rt := eal.RuntimeConfig()
	arena, err := mem.Reserve(cfg.Capacity*cfg.ObjectSize, rt.Hugepages)
	if err != nil {
		return nil, api.NewError(api.ErrCodeResourceExhausted, "arena reservation failed").
			WithContext("pool", cfg.Name).
			WithContext("bytes", cfg.Capacity*cfg.ObjectSize)
	}

	p := &Pool{
		cfg:      cfg,
		headroom: headroom,
		tag:      tagSeq.Add(1),
		arena:    arena,
		objs:     make([]*pkt.Buffer, cfg.Capacity),
		free:     concurrency.NewMPMCRing[uint32](cfg.Capacity),
		log:      eal.Logger().Named("pool").With(zap.String("name", cfg.Name)),
	}
	raw := arena.Bytes()
	for i := 0; i < cfg.Capacity; i++ {
		b := pkt.NewRaw(p, p.tag, uint32(i), raw[i*cfg.ObjectSize:(i+1)*cfg.ObjectSize], headroom)
		b.MarkPooled()
		p.objs[i] = b
		p.free.Enqueue(uint32(i))
	}

	if err := register(p); err != nil {
		arena.Release() //nolint:errcheck
		return nil, err
	}
	p.log.Info("pool created",
		zap.Int("object_size", cfg.ObjectSize),
		zap.Int("capacity", cfg.Capacity),
		zap.Int("headroom", headroom),
		zap.Int("cache_size", cfg.CacheSize))
	return p, nil
}

// Name returns the pool's registry name.
func (p *Pool) Name() string { return p.cfg.Name }

// ObjectSize returns the fixed per-object capacity.
func (p *Pool) ObjectSize() int { return p.cfg.ObjectSize }

// Capacity returns the constant total object count.
func (p *Pool) Capacity() int { return p.cfg.Capacity }

// HeaderRoom returns the default data offset applied on free.
func (p *Pool) HeaderRoom() int { return p.headroom }

// Tag returns the pool identity tag embedded in its buffers.
func (p *Pool) Tag() uint64 { return p.tag }

// AllocOne returns one buffer, or nil when the pool is empty. Never
// blocks, never errors: exhaustion is an expected hot-path outcome.
func (p *Pool) AllocOne() *pkt.Buffer {
	if p.dead.Load() {
		return nil
	}
	idx, ok := p.free.Dequeue()
	if !ok {
		return nil
	}
	b := p.objs[idx]
	b.ClearPooled()
	return b
}

// AllocBulk returns exactly n buffers or nil, leaving the free ring
// untouched on failure. All-or-nothing keeps burst callers from having
// to unwind partial allocations.
func (p *Pool) AllocBulk(n int) []*pkt.Buffer {
	if n <= 0 {
		return nil
	}
	out := make([]*pkt.Buffer, n)
	if !p.AllocBulkInto(out) {
		return nil
	}
	return out
}

// AllocBulkInto fills out completely or not at all, reusing the caller's
// slice to stay allocation-free on the poll path.
func (p *Pool) AllocBulkInto(out []*pkt.Buffer) bool {
	n := len(out)
	if n == 0 {
		return true
	}
	if p.dead.Load() {
		return false
	}
	idxs := make([]uint32, n)
	if !p.free.DequeueBulk(idxs) {
		return false
	}
	for i, idx := range idxs {
		b := p.objs[idx]
		b.ClearPooled()
		out[i] = b
	}
	return true
}

// Free returns a buffer to the pool.
//
// A shared buffer only drops one reference; the object is reclaimed and
// reset to the default headroom when the count reaches zero. Foreign,
// in-flight, and already-pooled objects are rejected — those checks are
// the corruption tripwires and run in every build.
func (p *Pool) Free(b *pkt.Buffer) error {
	if b == nil {
		return api.ErrInvalidArgument
	}
	if b.Tag() != p.tag || b.Owner() != pkt.Mempool(p) {
		return api.ErrForeignObject
	}
	if b.InFlight() {
		return api.ErrForeignObject
	}
	if b.Pooled() {
		return api.ErrForeignObject
	}
	if !b.DropRef() {
		return nil // other holders remain
	}
	b.Reset(p.headroom)
	b.MarkPooled()
	p.free.Enqueue(b.Index())
	return nil
}

// FreeBulk frees every buffer in bufs, reporting the first error while
// still attempting the rest.
func (p *Pool) FreeBulk(bufs []*pkt.Buffer) error {
	var firstErr error
	for _, b := range bufs {
		if err := p.Free(b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Reclaim returns an engine-completed transmit buffer. The in-flight tag
// is cleared inside the pool so no window exists where the application
// could free the object first. Called by queue endpoints on completion
// harvest, not by applications.
func (p *Pool) Reclaim(b *pkt.Buffer) error {
	if b == nil {
		return api.ErrInvalidArgument
	}
	b.ClearInFlight()
	return p.Free(b)
}

// FreeCount returns objects currently in the shared free ring.
func (p *Pool) FreeCount() int { return p.free.Len() }

// InUse returns objects outside the free ring (application, caches,
// queues in flight).
func (p *Pool) InUse() int { return p.cfg.Capacity - p.free.Len() }

// Stats returns a snapshot satisfying Free+InUse == Capacity.
func (p *Pool) Stats() Stats {
	free := p.free.Len()
	return Stats{
		Capacity: p.cfg.Capacity,
		Free:     free,
		InUse:    p.cfg.Capacity - free,
	}
}

// Destroy tears the pool down and releases the arena. Fails with
// ErrBuffersOutstanding while any object is still in circulation.
func (p *Pool) Destroy() error {
	if p.dead.Load() {
		return api.ErrReleased
	}
	if p.free.Len() != p.cfg.Capacity {
		return api.ErrBuffersOutstanding
	}
	p.dead.Store(true)
	// Empty the free ring before the arena goes away: a racing alloc then
	// fails by value instead of handing out a window over released memory.
	for {
		if _, ok := p.free.Dequeue(); !ok {
			break
		}
	}
	unregister(p.cfg.Name)
	p.log.Info("pool destroyed")
	return p.arena.Release()
}

var _ pkt.Mempool = (*Pool)(nil)
var _ pkt.Allocator = (*Pool)(nil)
