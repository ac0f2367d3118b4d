// File: internal/concurrency/mpmc_ring.go
// Package concurrency provides the shared-pool free-list ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// MPMCRing is a bounded MPMC queue using per-cell sequence numbers,
// based on the pattern by Dmitry Vyukov, extended with rte_ring-style
// all-or-nothing bulk transfers: a producer or consumer claims a whole
// range of slots with one CAS, then spins per cell until the slot's
// counterpart has finished. Bulk failure leaves the ring untouched.

package concurrency

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/hioload-pkt/api"
)

var _ api.BulkRing[uint32] = (*MPMCRing[uint32])(nil)

const cacheLinePad = 64

type cell[T any] struct {
	sequence atomic.Uint64
	data     T
}

// MPMCRing is a bounded multi-producer/multi-consumer ring.
type MPMCRing[T any] struct {
	head  atomic.Uint64
	_     [cacheLinePad]byte
	tail  atomic.Uint64
	_     [cacheLinePad]byte
	mask  uint64
	cells []cell[T]
}

// NewMPMCRing creates a ring with capacity rounded up to a power of two.
func NewMPMCRing[T any](capacity int) *MPMCRing[T] {
	if capacity < 2 {
		capacity = 2
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	r := &MPMCRing[T]{
		mask:  uint64(size - 1),
		cells: make([]cell[T], size),
	}
	for i := range r.cells {
		r.cells[i].sequence.Store(uint64(i))
	}
	return r
}

// Enqueue adds val; returns false if full.
func (r *MPMCRing[T]) Enqueue(val T) bool {
	for {
		tail := r.tail.Load()
		c := &r.cells[tail&r.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(tail)
		switch {
		case dif == 0:
			if r.tail.CompareAndSwap(tail, tail+1) {
				c.data = val
				c.sequence.Store(tail + 1)
				return true
			}
		case dif < 0:
			return false // full
		}
		// tail moved, retry
	}
}

// Dequeue removes the oldest item; ok false if empty.
func (r *MPMCRing[T]) Dequeue() (T, bool) {
	var zero T
	for {
		head := r.head.Load()
		c := &r.cells[head&r.mask]
		seq := c.sequence.Load()
		dif := int64(seq) - int64(head+1)
		switch {
		case dif == 0:
			if r.head.CompareAndSwap(head, head+1) {
				val := c.data
				c.data = zero
				c.sequence.Store(head + r.mask + 1)
				return val, true
			}
		case dif < 0:
			return zero, false // empty
		}
	}
}

// EnqueueBulk adds all items or none.
//
// The claim CAS reserves the whole range; per-cell sequence spins wait
// out any consumer still draining a reused slot.
func (r *MPMCRing[T]) EnqueueBulk(items []T) bool {
	n := uint64(len(items))
	if n == 0 {
		return true
	}
	if n > uint64(len(r.cells)) {
		return false
	}
	for {
		tail := r.tail.Load()
		head := r.head.Load()
		if uint64(len(r.cells))-(tail-head) < n {
			return false
		}
		if !r.tail.CompareAndSwap(tail, tail+n) {
			continue
		}
		for i := uint64(0); i < n; i++ {
			pos := tail + i
			c := &r.cells[pos&r.mask]
			for c.sequence.Load() != pos {
				runtime.Gosched()
			}
			c.data = items[i]
			c.sequence.Store(pos + 1)
		}
		return true
	}
}

// DequeueBulk fills out completely or not at all.
func (r *MPMCRing[T]) DequeueBulk(out []T) bool {
	n := uint64(len(out))
	if n == 0 {
		return true
	}
	var zero T
	for {
		head := r.head.Load()
		tail := r.tail.Load()
		if tail-head < n {
			return false
		}
		if !r.head.CompareAndSwap(head, head+n) {
			continue
		}
		for i := uint64(0); i < n; i++ {
			pos := head + i
			c := &r.cells[pos&r.mask]
			for c.sequence.Load() != pos+1 {
				runtime.Gosched()
			}
			out[i] = c.data
			c.data = zero
			c.sequence.Store(pos + r.mask + 1)
		}
		return true
	}
}

// Len returns the current number of items.
func (r *MPMCRing[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the ring capacity.
func (r *MPMCRing[T]) Cap() int {
	return len(r.cells)
}
