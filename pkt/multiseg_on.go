//go:build !nomultiseg
// +build !nomultiseg

// File: pkt/multiseg_on.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pkt

const multisegEnabled = true

// MultisegSupported reports whether chain support is compiled in.
// Callers must check this before depending on jumbo-frame handling.
func MultisegSupported() bool { return true }
