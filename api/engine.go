// File: api/engine.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Native engine boundary. The engine is a black box that moves raw
// memory blocks through per-queue descriptor rings: receive fills
// caller-provided blocks, transmit takes blocks and reports completion
// by token. Buffer ownership bookkeeping stays above this boundary, in
// the port package.

package api

// Direction distinguishes receive and transmit queues.
type Direction int

const (
	// Rx marks a receive queue.
	Rx Direction = iota
	// Tx marks a transmit queue.
	Tx
)

// String returns the conventional short name.
func (d Direction) String() string {
	if d == Rx {
		return "rx"
	}
	return "tx"
}

// QueueID identifies one queue of one port in one direction.
type QueueID struct {
	Port  int
	Queue int
	Dir   Direction
}

// Engine abstracts the native poll-mode packet engine.
//
// All burst methods are non-blocking and must be called only by the
// queue's owning worker. Setup methods may be called from any goroutine
// before the queue is started.
type Engine interface {
	// ConfigureQueue installs a descriptor ring of ringSize entries for id.
	ConfigureQueue(id QueueID, ringSize int) error

	// StartQueue enables burst I/O on id. Idempotent.
	StartQueue(id QueueID) error

	// StopQueue quiesces id: pending receive descriptors are discarded,
	// pending transmit descriptors complete and become harvestable via
	// Completions. Idempotent.
	StopQueue(id QueueID) error

	// RxBurst writes up to len(blocks) received frames into the provided
	// writable blocks and records each frame's length in lens. Returns
	// the number of frames written; 0 means the queue is empty.
	RxBurst(id QueueID, blocks [][]byte, lens []int) int

	// TxBurst submits up to len(frames) read-only frames, each tagged by
	// the caller's token. Returns the count accepted; a short count means
	// the descriptor ring is full. Accepted frames must stay untouched
	// until their token is reported by Completions.
	TxBurst(id QueueID, frames [][]byte, tokens []uint64) int

	// Completions harvests tokens of transmitted frames into out,
	// returning the count harvested.
	Completions(id QueueID, out []uint64) int

	// Close releases all engine resources. No queue may be started.
	Close() error
}

// EngineFeatures reports engine capabilities callers may branch on.
type EngineFeatures struct {
	ZeroCopy  bool
	Multiseg  bool
	NUMAAware bool
}

// FeatureReporter is implemented by engines that can describe themselves.
type FeatureReporter interface {
	Features() EngineFeatures
}
