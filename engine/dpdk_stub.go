//go:build !dpdk
// +build !dpdk

// File: engine/dpdk_stub.go
// Package engine provides a stub fallback when DPDK is unavailable.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package engine

import (
	"errors"

	"github.com/momentics/hioload-pkt/api"
)

// NewDPDK always fails without the dpdk build tag.
func NewDPDK() (api.Engine, error) {
	return nil, errors.New("DPDK engine not available (build tag 'dpdk' not enabled)")
}
