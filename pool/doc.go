// Package pool
// Author: momentics <momentics@gmail.com>
//
// Fixed-capacity, fixed-object-size memory pools over pre-reserved
// arenas. A pool carves its arena into Capacity objects of ObjectSize
// bytes once at creation; after that the total in circulation never
// changes — allocation and free only move object indices through the
// shared lock-free free ring. Per-worker caches batch against that ring
// to keep the hot path contention-free; the shared ring stays the
// source of truth.
package pool
