// Package api
// Author: momentics@gmail.com
//
// Lock-free ring contract backing pool free-lists and descriptor rings.

package api

// Ring is a lock-free bounded FIFO contract.
type Ring[T any] interface {
	// Enqueue adds an item, returns false if full.
	Enqueue(item T) bool
	// Dequeue removes oldest item, returns false if empty.
	Dequeue() (T, bool)
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
}

// BulkRing extends Ring with all-or-nothing batch transfers, the
// rte_ring-style bulk contract burst allocators depend on.
type BulkRing[T any] interface {
	Ring[T]

	// EnqueueBulk adds all items or none; returns false if space for
	// fewer than len(items) remained.
	EnqueueBulk(items []T) bool

	// DequeueBulk fills out completely or not at all; returns false if
	// fewer than len(out) items were available.
	DequeueBulk(out []T) bool
}
