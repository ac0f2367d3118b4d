// File: port/txqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Transmit queue endpoint. Accepted buffers become engine-owned — the
// in-flight tag makes a premature application free fail — and return to
// their pools when the engine reports completion, harvested lazily at
// the start of each burst. Rejected buffers stay caller-owned: the
// partial-acceptance count is the backpressure signal, not an error.

package port

import (
	"runtime"
	"sync/atomic"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/pkt"
)

// TxQueue is a safe handle over one transmit queue.
type TxQueue struct {
	id    api.QueueID
	eng   api.Engine
	state atomic.Int32

	// In-flight table indexed by token & mask; the engine never holds
	// more than ringSize descriptors, so slots cannot collide.
	inflight  []*pkt.Buffer
	mask      uint64
	nextToken uint64
	pending   int

	// Scratch reused across bursts, single-worker owned.
	frames [][]byte
	tokens []uint64
	comp   []uint64
}

func newTxQueue(eng api.Engine, id api.QueueID, ringSize int) *TxQueue {
	size := 1
	for size < ringSize {
		size <<= 1
	}
	q := &TxQueue{
		id:       id,
		eng:      eng,
		inflight: make([]*pkt.Buffer, size),
		mask:     uint64(size - 1),
		frames:   make([][]byte, ringSize),
		tokens:   make([]uint64, ringSize),
		comp:     make([]uint64, ringSize),
	}
	q.state.Store(int32(stateConfigured))
	return q
}

// ID returns the queue identity.
func (q *TxQueue) ID() api.QueueID { return q.id }

// Start enables transmit bursts. Idempotent.
func (q *TxQueue) Start() error {
	if q.state.Load() == int32(stateStarted) {
		return nil
	}
	if err := q.eng.StartQueue(q.id); err != nil {
		return err
	}
	q.state.Store(int32(stateStarted))
	return nil
}

// Stop lets pending transmits complete, reclaims them to their pools,
// then tears the ring down. Idempotent.
func (q *TxQueue) Stop() error {
	if q.state.Load() != int32(stateStarted) {
		return nil
	}
	if err := q.eng.StopQueue(q.id); err != nil {
		return err
	}
	// Engine contract: after StopQueue every pending descriptor becomes
	// harvestable. Drain until the in-flight table is empty.
	for q.pending > 0 {
		if q.harvest() == 0 {
			runtime.Gosched()
		}
	}
	q.state.Store(int32(stateStopped))
	return nil
}

// Started reports whether bursts are currently valid.
func (q *TxQueue) Started() bool {
	return q.state.Load() == int32(stateStarted)
}

// Pending returns buffers currently owned by the engine.
func (q *TxQueue) Pending() int { return q.pending }

// harvest reclaims completed transmissions; returns count reclaimed.
func (q *TxQueue) harvest() int {
	n := q.eng.Completions(q.id, q.comp)
	for i := 0; i < n; i++ {
		slot := q.comp[i] & q.mask
		b := q.inflight[slot]
		q.inflight[slot] = nil
		if b != nil {
			b.Owner().Reclaim(b) //nolint:errcheck
		}
	}
	q.pending -= n
	return n
}

// TransmitBurst submits up to len(bufs) buffers and returns the count
// accepted, never more than submitted. Accepted buffers transfer to the
// engine and must not be touched again by the caller; the remainder
// stays caller-owned for retry or free. An empty burst still harvests
// completions, so idle workers can poll with TransmitBurst(nil).
func (q *TxQueue) TransmitBurst(bufs []*pkt.Buffer) int {
	if q.state.Load() != int32(stateStarted) {
		return 0
	}
	q.harvest()
	if len(bufs) == 0 {
		return 0
	}

	max := len(bufs)
	if max > len(q.frames) {
		max = len(q.frames)
	}
	// Tokens wrap at len(inflight): a slot must be harvested before its
	// token can be reused, so outstanding descriptors never exceed the
	// table. The engine may accept more than it has reported complete;
	// the clamp is ours to enforce.
	if free := len(q.inflight) - q.pending; max > free {
		max = free
	}
	if max <= 0 {
		return 0
	}
	k := 0
	for _, b := range bufs[:max] {
		if b == nil || !b.MarkInFlight() {
			break // already engine-owned: structural misuse, stop here
		}
		q.frames[k] = b.Data()
		q.tokens[k] = q.nextToken
		q.nextToken++
		k++
	}
	if k == 0 {
		return 0
	}

	accepted := q.eng.TxBurst(q.id, q.frames[:k], q.tokens[:k])
	for i := 0; i < accepted; i++ {
		q.inflight[q.tokens[i]&q.mask] = bufs[i]
	}
	q.pending += accepted
	// Rejected buffers return to caller ownership.
	for i := accepted; i < k; i++ {
		bufs[i].ClearInFlight()
	}
	q.nextToken -= uint64(k - accepted)
	return accepted
}

// TransmitChain submits a whole chain as one frame and consumes the
// chain on success: a single-segment chain hands its head to the engine
// and the handle is invalidated; a deeper chain is linearized into one
// buffer from alloc, transmitted, and the original segments released to
// their pools. On backpressure (false, nil) the chain stays caller-owned
// for retry or release.
func (q *TxQueue) TransmitChain(c *pkt.Chain, alloc pkt.Allocator) (bool, error) {
	if c == nil || c.Released() {
		return false, api.ErrInvalidArgument
	}
	if c.NumSegments() == 1 {
		one := [1]*pkt.Buffer{c.Head()}
		if q.TransmitBurst(one[:]) == 1 {
			c.Invalidate() // head ownership moved to the engine
			return true, nil
		}
		return false, nil
	}
	flat, err := c.Linearize(alloc)
	if err != nil {
		return false, err
	}
	one := [1]*pkt.Buffer{flat}
	if q.TransmitBurst(one[:]) == 1 {
		return true, c.Release()
	}
	flat.Free() //nolint:errcheck
	return false, nil
}
