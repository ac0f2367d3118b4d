// File: port/port.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Port configuration and queue endpoint lifecycle:
//
//	Unconfigured -> Configured -> Started -> Stopped -> (Started | destroyed)
//
// The device-configuration collaborator supplies queue counts, ring
// sizes, and per-queue pool assignment; this package does not parse
// device capabilities itself.

package port

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/eal"
	"github.com/momentics/hioload-pkt/pool"
)

type queueState int32

const (
	stateUnconfigured queueState = iota
	stateConfigured
	stateStarted
	stateStopped
)

// Config describes one port's queue layout.
type Config struct {
	// RxQueues and TxQueues are per-direction queue counts.
	RxQueues int
	TxQueues int
	// RingSize bounds each queue's descriptor ring.
	RingSize int
	// RxPool backs receive buffer allocation for every rx queue unless
	// RxPoolByQueue overrides a specific queue index.
	RxPool *pool.Pool
	// RxPoolByQueue optionally assigns pools per rx queue index.
	RxPoolByQueue map[int]*pool.Pool
}

// Port is a safe handle over one engine port.
type Port struct {
	id         int
	eng        api.Engine
	rx         []*RxQueue
	tx         []*TxQueue
	configured atomic.Bool
	log        *zap.Logger
}

// New wraps engine port id. The port starts Unconfigured.
func New(eng api.Engine, id int) (*Port, error) {
	if !eal.Initialized() {
		return nil, api.ErrRuntimeNotInitialized
	}
	if eng == nil {
		return nil, api.ErrInvalidArgument
	}
	return &Port{
		id:  id,
		eng: eng,
		log: eal.Logger().Named("port").With(zap.Int("port", id)),
	}, nil
}

// Configure installs descriptor rings and builds the queue endpoints.
// Valid only once, from Unconfigured.
func (p *Port) Configure(cfg Config) error {
	if p.configured.Load() {
		return api.ErrAlreadyExists
	}
	if cfg.RxQueues < 0 || cfg.TxQueues < 0 || cfg.RxQueues+cfg.TxQueues == 0 {
		return api.ErrInvalidArgument
	}
	if cfg.RingSize <= 0 {
		return api.ErrInvalidArgument
	}
	if cfg.RxQueues > 0 && cfg.RxPool == nil && len(cfg.RxPoolByQueue) == 0 {
		return api.ErrInvalidArgument
	}

	rx := make([]*RxQueue, cfg.RxQueues)
	for i := 0; i < cfg.RxQueues; i++ {
		pl := cfg.RxPool
		if byq, ok := cfg.RxPoolByQueue[i]; ok {
			pl = byq
		}
		if pl == nil {
			return api.ErrInvalidArgument
		}
		id := api.QueueID{Port: p.id, Queue: i, Dir: api.Rx}
		if err := p.eng.ConfigureQueue(id, cfg.RingSize); err != nil {
			return err
		}
		rx[i] = newRxQueue(p.eng, id, pl, cfg.RingSize)
	}
	tx := make([]*TxQueue, cfg.TxQueues)
	for i := 0; i < cfg.TxQueues; i++ {
		id := api.QueueID{Port: p.id, Queue: i, Dir: api.Tx}
		if err := p.eng.ConfigureQueue(id, cfg.RingSize); err != nil {
			return err
		}
		tx[i] = newTxQueue(p.eng, id, cfg.RingSize)
	}

	p.rx, p.tx = rx, tx
	p.configured.Store(true)
	p.log.Info("port configured",
		zap.Int("rx_queues", cfg.RxQueues),
		zap.Int("tx_queues", cfg.TxQueues),
		zap.Int("ring_size", cfg.RingSize))
	return nil
}

// RxQueue returns receive queue i.
func (p *Port) RxQueue(i int) *RxQueue {
	if i < 0 || i >= len(p.rx) {
		return nil
	}
	return p.rx[i]
}

// TxQueue returns transmit queue i.
func (p *Port) TxQueue(i int) *TxQueue {
	if i < 0 || i >= len(p.tx) {
		return nil
	}
	return p.tx[i]
}

// Start starts every queue on the port.
func (p *Port) Start() error {
	if !p.configured.Load() {
		return api.ErrInvalidArgument
	}
	for _, q := range p.rx {
		if err := q.Start(); err != nil {
			return err
		}
	}
	for _, q := range p.tx {
		if err := q.Start(); err != nil {
			return err
		}
	}
	p.log.Info("port started")
	return nil
}

// Stop stops every queue, draining in-flight buffers back to their
// pools. Idempotent.
func (p *Port) Stop() error {
	var firstErr error
	for _, q := range p.tx {
		if err := q.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, q := range p.rx {
		if err := q.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.log.Info("port stopped")
	return firstErr
}
