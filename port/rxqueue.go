// File: port/rxqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Receive queue endpoint. Each burst allocates fresh buffers from the
// queue's pool, hands their writable regions to the engine as DMA
// targets, and transfers filled buffers to the caller. Unfilled buffers
// go straight back to the pool, so stopping the queue never strands
// receive buffers — nothing is pre-posted.

package port

import (
	"sync/atomic"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/pkt"
	"github.com/momentics/hioload-pkt/pool"
)

// RxQueue is a safe handle over one receive queue.
type RxQueue struct {
	id    api.QueueID
	eng   api.Engine
	pool  *pool.Pool
	state atomic.Int32

	// Scratch reused across bursts; sized by the descriptor ring, owned
	// by the queue's single worker.
	stage  []*pkt.Buffer
	blocks [][]byte
	lens   []int
}

func newRxQueue(eng api.Engine, id api.QueueID, pl *pool.Pool, ringSize int) *RxQueue {
	q := &RxQueue{
		id:     id,
		eng:    eng,
		pool:   pl,
		stage:  make([]*pkt.Buffer, ringSize),
		blocks: make([][]byte, ringSize),
		lens:   make([]int, ringSize),
	}
	q.state.Store(int32(stateConfigured))
	return q
}

// ID returns the queue identity.
func (q *RxQueue) ID() api.QueueID { return q.id }

// Pool returns the pool backing this queue's buffers.
func (q *RxQueue) Pool() *pool.Pool { return q.pool }

// Start enables receive bursts. Idempotent.
func (q *RxQueue) Start() error {
	if q.state.Load() == int32(stateStarted) {
		return nil
	}
	if err := q.eng.StartQueue(q.id); err != nil {
		return err
	}
	q.state.Store(int32(stateStarted))
	return nil
}

// Stop quiesces the queue. Pending engine-side descriptors are
// discarded by the engine; this endpoint holds no buffers between
// bursts, so there is nothing to drain here. Idempotent.
func (q *RxQueue) Stop() error {
	if q.state.Load() != int32(stateStarted) {
		return nil
	}
	if err := q.eng.StopQueue(q.id); err != nil {
		return err
	}
	q.state.Store(int32(stateStopped))
	return nil
}

// Started reports whether bursts are currently valid.
func (q *RxQueue) Started() bool {
	return q.state.Load() == int32(stateStarted)
}

// ReceiveBurst fills out with up to len(out) received buffers and
// returns the count. Zero is a normal outcome: empty queue, exhausted
// pool, or stopped endpoint. Ownership of returned buffers transfers to
// the caller, who frees or retransmits them.
func (q *RxQueue) ReceiveBurst(out []*pkt.Buffer) int {
	if q.state.Load() != int32(stateStarted) {
		return 0
	}
	max := len(out)
	if max > len(q.stage) {
		max = len(q.stage)
	}

	// Stage as many pool buffers as available: a bulk grab first, then
	// singles, so a draining pool still receives what it can.
	staged := 0
	if q.pool.AllocBulkInto(q.stage[:max]) {
		staged = max
	} else {
		for staged < max {
			b := q.pool.AllocOne()
			if b == nil {
				break
			}
			q.stage[staged] = b
			staged++
		}
	}
	if staged == 0 {
		return 0
	}

	for i := 0; i < staged; i++ {
		q.blocks[i] = q.stage[i].Writable()
	}
	n := q.eng.RxBurst(q.id, q.blocks[:staged], q.lens[:staged])

	for i := 0; i < n; i++ {
		b := q.stage[i]
		b.SetDataLen(q.lens[i]) //nolint:errcheck // engine length fits the block it filled
		out[i] = b
		q.stage[i] = nil
	}
	// Unfilled stage goes home immediately.
	for i := n; i < staged; i++ {
		q.stage[i].Free() //nolint:errcheck
		q.stage[i] = nil
	}
	return n
}
