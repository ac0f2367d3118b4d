//go:build !linux
// +build !linux

// File: internal/mem/mem_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Heap-backed arena fallback for platforms without mmap support.

package mem

import "fmt"

func platformReserve(size int, _ bool) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mem: non-positive arena size %d", size)
	}
	return &Arena{buf: make([]byte, size)}, nil
}

func platformRelease(a *Arena) error {
	a.buf = nil
	return nil
}
