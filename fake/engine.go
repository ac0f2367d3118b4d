// File: fake/engine.go
// Package fake provides scripted test doubles.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Engine is a scripted api.Engine: tests push receive frames in and
// decide when transmissions complete, so endpoint ownership transfer is
// observable step by step.

package fake

import (
	"sync"

	"github.com/momentics/hioload-pkt/api"
)

type fq struct {
	ringSize  int
	started   bool
	rxPending [][]byte // frames waiting for RxBurst
	txTokens  []uint64 // accepted, not yet completed
	txFrames  [][]byte // copies of accepted frames, same order
	completed []uint64 // harvestable by Completions
}

// Engine is a scripted native engine.
type Engine struct {
	mu     sync.Mutex
	queues map[api.QueueID]*fq
}

// NewEngine creates an empty scripted engine.
func NewEngine() *Engine {
	return &Engine{queues: make(map[api.QueueID]*fq)}
}

func (e *Engine) get(id api.QueueID) *fq {
	q, ok := e.queues[id]
	if !ok {
		q = &fq{ringSize: 1}
		e.queues[id] = q
	}
	return q
}

// ConfigureQueue implements api.Engine.
func (e *Engine) ConfigureQueue(id api.QueueID, ringSize int) error {
	if ringSize <= 0 {
		return api.ErrInvalidArgument
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queues[id] = &fq{ringSize: ringSize}
	return nil
}

// StartQueue implements api.Engine.
func (e *Engine) StartQueue(id api.QueueID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.get(id).started = true
	return nil
}

// StopQueue implements api.Engine: pending transmits complete.
func (e *Engine) StopQueue(id api.QueueID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.get(id)
	q.started = false
	q.completed = append(q.completed, q.txTokens...)
	q.txTokens = nil
	q.txFrames = nil
	q.rxPending = nil
	return nil
}

// PushFrame scripts one frame for delivery on a receive queue.
func (e *Engine) PushFrame(id api.QueueID, data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := make([]byte, len(data))
	copy(d, data)
	q := e.get(id)
	q.rxPending = append(q.rxPending, d)
}

// RxBurst implements api.Engine.
func (e *Engine) RxBurst(id api.QueueID, blocks [][]byte, lens []int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.get(id)
	if !q.started {
		return 0
	}
	n := 0
	for n < len(blocks) && len(q.rxPending) > 0 {
		lens[n] = copy(blocks[n], q.rxPending[0])
		q.rxPending = q.rxPending[1:]
		n++
	}
	return n
}

// TxBurst implements api.Engine: accepts until the ring is full.
func (e *Engine) TxBurst(id api.QueueID, frames [][]byte, tokens []uint64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.get(id)
	if !q.started {
		return 0
	}
	n := 0
	for n < len(frames) && len(q.txTokens) < q.ringSize {
		d := make([]byte, len(frames[n]))
		copy(d, frames[n])
		q.txFrames = append(q.txFrames, d)
		q.txTokens = append(q.txTokens, tokens[n])
		n++
	}
	return n
}

// CompleteAll marks every accepted transmission finished.
func (e *Engine) CompleteAll(id api.QueueID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.get(id)
	q.completed = append(q.completed, q.txTokens...)
	q.txTokens = nil
}

// Transmitted returns copies of all frames accepted so far.
func (e *Engine) Transmitted(id api.QueueID) [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.get(id)
	out := make([][]byte, len(q.txFrames))
	copy(out, q.txFrames)
	return out
}

// Completions implements api.Engine.
func (e *Engine) Completions(id api.QueueID, out []uint64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.get(id)
	n := copy(out, q.completed)
	q.completed = q.completed[n:]
	return n
}

// Close implements api.Engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queues = make(map[api.QueueID]*fq)
	return nil
}

var _ api.Engine = (*Engine)(nil)
