//go:build linux
// +build linux

// File: internal/mem/mem_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux arena reservation via anonymous mmap, optionally MAP_HUGETLB.
// A failed hugepage map falls back to regular pages: hugepages are a
// locality hint, not a correctness requirement.

package mem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func platformReserve(size int, hugepages bool) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mem: non-positive arena size %d", size)
	}
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS
	if hugepages {
		buf, err := unix.Mmap(-1, 0, size, prot, flags|unix.MAP_HUGETLB)
		if err == nil {
			return &Arena{buf: buf, mapped: true}, nil
		}
		// No hugepages configured on this host; retry with normal pages.
	}
	buf, err := unix.Mmap(-1, 0, size, prot, flags)
	if err != nil {
		return nil, fmt.Errorf("mem: mmap %d bytes: %w", size, err)
	}
	return &Arena{buf: buf, mapped: true}, nil
}

func platformRelease(a *Arena) error {
	if a.buf == nil {
		return nil
	}
	buf := a.buf
	a.buf = nil
	if !a.mapped {
		return nil
	}
	return unix.Munmap(buf)
}
