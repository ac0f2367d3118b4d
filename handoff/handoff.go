// File: handoff/handoff.go
// Package handoff is the explicit cross-worker buffer transfer path.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Buffers and chains are single-worker objects: the per-worker cache
// fast path assumes one owner. Moving a buffer to another worker must go
// through a Queue — ownership transfers on Put, and the receiving worker
// must free through the pool's shared path (or its own cache), never the
// sender's.

package handoff

import (
	esqueue "github.com/yireyun/go-queue"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/pkt"
)

// Queue is a bounded lock-free MPMC hand-off queue for buffers.
type Queue struct {
	q *esqueue.EsQueue
}

// New creates a hand-off queue holding up to capacity buffers.
func New(capacity int) (*Queue, error) {
	if capacity <= 0 {
		return nil, api.ErrInvalidArgument
	}
	return &Queue{q: esqueue.NewQueue(uint32(capacity))}, nil
}

// Put transfers ownership of b to whichever worker dequeues it.
// Returns false when the queue is full; the sender keeps ownership.
func (h *Queue) Put(b *pkt.Buffer) bool {
	if b == nil {
		return false
	}
	ok, _ := h.q.Put(b)
	return ok
}

// Get takes ownership of the oldest queued buffer; false when empty.
func (h *Queue) Get() (*pkt.Buffer, bool) {
	v, ok, _ := h.q.Get()
	if !ok {
		return nil, false
	}
	return v.(*pkt.Buffer), true
}

// Len returns the number of queued buffers.
func (h *Queue) Len() int {
	return int(h.q.Quantity())
}
