// File: pkt/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-segment packet buffer over one pool object.
//
// Layout invariant, preserved by every operation:
//
//	Headroom() + DataLen() + Tailroom() == Capacity()
//
// The data window starts at the pool's configured header room after
// every reset, so prepends have space for protocol headers without
// moving payload bytes.

package pkt

import (
	"sync/atomic"

	"github.com/momentics/hioload-pkt/api"
)

// Mempool is the slice of the pool surface a buffer needs to return
// home. Implemented by pool.Pool; defined here to keep the dependency
// direction pool -> pkt.
type Mempool interface {
	// Name returns the pool's unique name.
	Name() string
	// ObjectSize returns the fixed capacity of each object.
	ObjectSize() int
	// HeaderRoom returns the default data offset applied on reset.
	HeaderRoom() int
	// Tag returns the pool identity tag embedded in its buffers.
	Tag() uint64
	// Free returns a buffer to the pool. See pool.Pool.Free.
	Free(*Buffer) error
	// Reclaim returns an engine-completed transmit buffer, clearing its
	// in-flight tag inside the pool so no use-after-free window exists.
	Reclaim(*Buffer) error
}

// Allocator is the allocation surface Linearize draws from.
type Allocator interface {
	AllocOne() *Buffer
}

// Buffer is a safe handle over one pool object.
//
// Not safe for concurrent use: a buffer belongs to one worker at a time,
// and cross-worker transfer must go through an explicit hand-off.
type Buffer struct {
	mem   []byte // full object, capacity bytes
	owner Mempool
	tag   uint64 // owner identity, checked on Free
	index uint32 // object index within the pool arena

	off    int // data window start
	length int // data window length

	refcnt   atomic.Int32
	inFlight atomic.Bool // engine owns the object (submitted for tx)
	pooled   atomic.Bool // object sits in its pool's free set

	next *Buffer // chain link, managed by Chain
}

// NewRaw wires a buffer handle onto a pool object. Called by pool during
// arena carving; applications obtain buffers from a pool, never from here.
func NewRaw(owner Mempool, tag uint64, index uint32, mem []byte, headroom int) *Buffer {
	b := &Buffer{
		mem:   mem,
		owner: owner,
		tag:   tag,
		index: index,
		off:   headroom,
	}
	b.refcnt.Store(1)
	return b
}

// Capacity returns the fixed size of the underlying object.
func (b *Buffer) Capacity() int { return len(b.mem) }

// Headroom returns bytes available before the data window.
func (b *Buffer) Headroom() int { return b.off }

// Tailroom returns bytes available after the data window.
func (b *Buffer) Tailroom() int { return len(b.mem) - b.off - b.length }

// DataLen returns the current data window length.
func (b *Buffer) DataLen() int { return b.length }

// Index returns the object's index within its pool arena.
func (b *Buffer) Index() uint32 { return b.index }

// Owner returns the pool the buffer belongs to.
func (b *Buffer) Owner() Mempool { return b.owner }

// Tag returns the embedded pool identity tag.
func (b *Buffer) Tag() uint64 { return b.tag }

// Data returns exactly the current data window, read-only by convention.
func (b *Buffer) Data() []byte {
	return b.mem[b.off : b.off+b.length]
}

// DataMut returns the data window for mutation, or nil when the buffer
// is shared or in flight on a transmit ring. Unique ownership is the
// aliasing guard: two live handles must never both see a mutable view.
func (b *Buffer) DataMut() []byte {
	if b.refcnt.Load() > 1 || b.inFlight.Load() {
		return nil
	}
	return b.mem[b.off : b.off+b.length]
}

// windowGuard gates every window mutation the way DataMut gates access:
// an engine-owned object is off limits entirely, a shared one may not be
// resized under its other holders.
func (b *Buffer) windowGuard() error {
	if b.inFlight.Load() {
		return api.ErrForeignObject
	}
	if b.refcnt.Load() > 1 {
		return api.ErrBufferShared
	}
	return nil
}

// Prepend grows the data window backward by n bytes and returns the
// newly exposed region.
func (b *Buffer) Prepend(n int) ([]byte, error) {
	if n < 0 {
		return nil, api.ErrInvalidArgument
	}
	if err := b.windowGuard(); err != nil {
		return nil, err
	}
	if n > b.off {
		return nil, api.ErrInsufficientHeadroom
	}
	b.off -= n
	b.length += n
	return b.mem[b.off : b.off+n], nil
}

// Append grows the data window forward by n bytes and returns the newly
// exposed region.
func (b *Buffer) Append(n int) ([]byte, error) {
	if n < 0 {
		return nil, api.ErrInvalidArgument
	}
	if err := b.windowGuard(); err != nil {
		return nil, err
	}
	if n > b.Tailroom() {
		return nil, api.ErrInsufficientTailroom
	}
	start := b.off + b.length
	b.length += n
	return b.mem[start : start+n], nil
}

// TrimFront shrinks the data window from the front.
func (b *Buffer) TrimFront(n int) error {
	if n < 0 || n > b.length {
		return api.ErrInvalidArgument
	}
	if err := b.windowGuard(); err != nil {
		return err
	}
	b.off += n
	b.length -= n
	return nil
}

// TrimBack shrinks the data window from the back.
func (b *Buffer) TrimBack(n int) error {
	if n < 0 || n > b.length {
		return api.ErrInvalidArgument
	}
	if err := b.windowGuard(); err != nil {
		return err
	}
	b.length -= n
	return nil
}

// SetDataLen sets the window length directly, used by receive paths
// after the engine reports a frame length.
func (b *Buffer) SetDataLen(n int) error {
	if n < 0 || n > len(b.mem)-b.off {
		return api.ErrInvalidArgument
	}
	if err := b.windowGuard(); err != nil {
		return err
	}
	b.length = n
	return nil
}

// Share increments the reference count and returns the same handle.
// Mutable access is denied until the count drops back to one.
func (b *Buffer) Share() *Buffer {
	b.refcnt.Add(1)
	return b
}

// Refcount returns the current reference count.
func (b *Buffer) Refcount() int32 { return b.refcnt.Load() }

// Free returns the buffer to its owning pool. When the buffer is shared
// this only drops one reference; the object is reclaimed at zero.
func (b *Buffer) Free() error {
	return b.owner.Free(b)
}

// Reset restores the window to the given headroom with zero length.
// Called by the pool on reclamation (reset-on-free) and on allocation.
func (b *Buffer) Reset(headroom int) {
	b.off = headroom
	b.length = 0
	b.next = nil
	b.refcnt.Store(1)
	b.inFlight.Store(false)
}

// DropRef decrements the reference count and reports whether it reached
// zero. Used by the pool's free path.
func (b *Buffer) DropRef() bool {
	return b.refcnt.Add(-1) == 0
}

// MarkInFlight transfers the object to engine ownership for transmit.
// Returns false if it was already in flight.
func (b *Buffer) MarkInFlight() bool {
	return b.inFlight.CompareAndSwap(false, true)
}

// ClearInFlight returns engine-owned state after transmit completion.
func (b *Buffer) ClearInFlight() {
	b.inFlight.Store(false)
}

// InFlight reports whether the engine currently owns the object.
func (b *Buffer) InFlight() bool { return b.inFlight.Load() }

// MarkPooled records that the object entered its pool's free set.
// Returns false if it was already pooled — the double-free signal.
// Present in all builds: a failed check here implies memory corruption.
func (b *Buffer) MarkPooled() bool {
	return b.pooled.CompareAndSwap(false, true)
}

// ClearPooled records the object leaving the free set on allocation.
func (b *Buffer) ClearPooled() {
	b.pooled.Store(false)
}

// Pooled reports whether the object currently sits in the free set.
func (b *Buffer) Pooled() bool { return b.pooled.Load() }

// Writable returns the whole region from the current data offset to the
// end of the object. Receive paths hand this to the engine as the DMA
// target, then call SetDataLen with the frame length.
func (b *Buffer) Writable() []byte {
	return b.mem[b.off:]
}
