// File: internal/mem/mem.go
// Package mem reserves the contiguous arenas that back memory pools.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// An Arena is one region reserved up front and owned exclusively by its
// pool for the pool's lifetime. On Linux the region is mmap-backed and
// may use hugepages; elsewhere it falls back to heap memory.

package mem

// Arena is a pool-owned contiguous memory region.
type Arena struct {
	buf    []byte
	mapped bool
}

// Reserve allocates an arena of size bytes. hugepages is a hint honored
// only on platforms that support it.
func Reserve(size int, hugepages bool) (*Arena, error) {
	return platformReserve(size, hugepages)
}

// Bytes returns the full region. The slice stays valid until Release.
func (a *Arena) Bytes() []byte { return a.buf }

// Size returns the region length in bytes.
func (a *Arena) Size() int { return len(a.buf) }

// Release returns the region to the OS. The arena must not be used after.
func (a *Arena) Release() error {
	return platformRelease(a)
}
