//go:build nomultiseg
// +build nomultiseg

// File: pkt/multiseg_off.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Built with -tags nomultiseg, all buffers are single-segment and chain
// construction fails with ErrNotSupported.

package pkt

const multisegEnabled = false

// MultisegSupported reports whether chain support is compiled in.
func MultisegSupported() bool { return false }
