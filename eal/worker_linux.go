//go:build linux
// +build linux

// File: eal/worker_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux thread pinning via sched_setaffinity on the calling thread.

package eal

import "golang.org/x/sys/unix"

func pinThread(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
