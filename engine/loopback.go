// File: engine/loopback.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// In-process software engine: transmit queue i of one port feeds receive
// queue i of its peer. The wire is a bounded SPSC ring per transmit
// queue — the descriptor ring whose fullness is the backpressure signal.
// "DMA" is a copy into the receiver's block, after which the frame's
// token lands on the transmitter's completion backlog, harvested lazily
// on the next burst exactly like a hardware tx ring.

package engine

import (
	"sync"
	"sync/atomic"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/internal/concurrency"
)

type qkey struct {
	port  int
	queue int
}

type lbFrame struct {
	data  []byte
	token uint64
}

// lbTx is one transmit queue: wire ring out, completion backlog in.
type lbTx struct {
	started atomic.Bool
	wire    *concurrency.RingBuffer[lbFrame]

	// Completions cross back from the receiving worker; the backlog is
	// locked because harvest batches amortize it off the per-frame path.
	compMu sync.Mutex
	comp   *queue.Queue
}

func (t *lbTx) complete(token uint64) {
	t.compMu.Lock()
	t.comp.Add(token)
	t.compMu.Unlock()
}

type lbRx struct {
	started atomic.Bool
	peer    *lbTx // the transmit queue feeding this receive queue
}

// Loopback implements api.Engine over two cross-wired ports.
type Loopback struct {
	mu     sync.Mutex
	peers  map[int]int // port -> peer port
	txs    map[qkey]*lbTx
	rxs    map[qkey]*lbRx
	closed bool
}

// NewLoopback cross-wires ports a and b. a == b loops a port onto itself.
func NewLoopback(a, b int) *Loopback {
	return &Loopback{
		peers: map[int]int{a: b, b: a},
		txs:   make(map[qkey]*lbTx),
		rxs:   make(map[qkey]*lbRx),
	}
}

func roundPow2(n int) uint64 {
	size := uint64(1)
	for size < uint64(n) {
		size <<= 1
	}
	return size
}

// getTx lazily creates the transmit side so configuration order between
// the two ports does not matter. The first configurator sizes the ring.
func (l *Loopback) getTx(k qkey, ringSize int) *lbTx {
	t, ok := l.txs[k]
	if !ok {
		t = &lbTx{
			wire: concurrency.NewRingBuffer[lbFrame](roundPow2(ringSize)),
			comp: queue.New(),
		}
		l.txs[k] = t
	}
	return t
}

// ConfigureQueue implements api.Engine.
func (l *Loopback) ConfigureQueue(id api.QueueID, ringSize int) error {
	if ringSize <= 0 {
		return api.ErrInvalidArgument
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return api.ErrReleased
	}
	peer, ok := l.peers[id.Port]
	if !ok {
		return api.ErrNotFound
	}
	k := qkey{id.Port, id.Queue}
	if id.Dir == api.Tx {
		l.getTx(k, ringSize)
		return nil
	}
	l.rxs[k] = &lbRx{peer: l.getTx(qkey{peer, id.Queue}, ringSize)}
	return nil
}

// StartQueue implements api.Engine. Idempotent.
func (l *Loopback) StartQueue(id api.QueueID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := qkey{id.Port, id.Queue}
	if id.Dir == api.Tx {
		t, ok := l.txs[k]
		if !ok {
			return api.ErrNotFound
		}
		t.started.Store(true)
		return nil
	}
	r, ok := l.rxs[k]
	if !ok {
		return api.ErrNotFound
	}
	r.started.Store(true)
	return nil
}

// StopQueue implements api.Engine. Stopping a transmit queue force-
// completes everything still on the wire so pending descriptors never
// strand; stopping a receive queue discards undelivered frames, which
// likewise completes them on the transmit side.
func (l *Loopback) StopQueue(id api.QueueID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := qkey{id.Port, id.Queue}
	if id.Dir == api.Tx {
		t, ok := l.txs[k]
		if !ok {
			return api.ErrNotFound
		}
		t.started.Store(false)
		for {
			f, ok := t.wire.Dequeue()
			if !ok {
				break
			}
			t.complete(f.token)
		}
		return nil
	}
	r, ok := l.rxs[k]
	if !ok {
		return api.ErrNotFound
	}
	r.started.Store(false)
	for {
		f, ok := r.peer.wire.Dequeue()
		if !ok {
			break
		}
		r.peer.complete(f.token)
	}
	return nil
}

// RxBurst implements api.Engine: copies up to len(blocks) wire frames
// into the provided blocks, completing each on the transmit side.
func (l *Loopback) RxBurst(id api.QueueID, blocks [][]byte, lens []int) int {
	l.mu.Lock()
	r, ok := l.rxs[qkey{id.Port, id.Queue}]
	l.mu.Unlock()
	if !ok || !r.started.Load() {
		return 0
	}
	n := 0
	for n < len(blocks) {
		f, ok := r.peer.wire.Dequeue()
		if !ok {
			break
		}
		ln := copy(blocks[n], f.data)
		lens[n] = ln
		r.peer.complete(f.token)
		n++
	}
	return n
}

// TxBurst implements api.Engine: enqueues frames onto the wire until the
// descriptor ring fills, returning the accepted count.
func (l *Loopback) TxBurst(id api.QueueID, frames [][]byte, tokens []uint64) int {
	l.mu.Lock()
	t, ok := l.txs[qkey{id.Port, id.Queue}]
	l.mu.Unlock()
	if !ok || !t.started.Load() {
		return 0
	}
	n := 0
	for n < len(frames) {
		if !t.wire.Enqueue(lbFrame{data: frames[n], token: tokens[n]}) {
			break
		}
		n++
	}
	return n
}

// Completions implements api.Engine.
func (l *Loopback) Completions(id api.QueueID, out []uint64) int {
	if id.Dir != api.Tx {
		return 0
	}
	l.mu.Lock()
	t, ok := l.txs[qkey{id.Port, id.Queue}]
	l.mu.Unlock()
	if !ok {
		return 0
	}
	t.compMu.Lock()
	n := 0
	for n < len(out) && t.comp.Length() > 0 {
		out[n] = t.comp.Remove().(uint64)
		n++
	}
	t.compMu.Unlock()
	return n
}

// Close implements api.Engine. Every queue must be stopped.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range l.txs {
		if t.started.Load() {
			return api.ErrInvalidArgument
		}
	}
	for _, r := range l.rxs {
		if r.started.Load() {
			return api.ErrInvalidArgument
		}
	}
	l.closed = true
	l.txs = make(map[qkey]*lbTx)
	l.rxs = make(map[qkey]*lbRx)
	return nil
}

// Features implements api.FeatureReporter.
func (l *Loopback) Features() api.EngineFeatures {
	return api.EngineFeatures{ZeroCopy: false, Multiseg: false, NUMAAware: false}
}

var _ api.Engine = (*Loopback)(nil)
var _ api.FeatureReporter = (*Loopback)(nil)
