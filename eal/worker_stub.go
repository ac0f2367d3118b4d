//go:build !linux
// +build !linux

// File: eal/worker_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// No-op pinning for platforms without sched_setaffinity.

package eal

func pinThread(int) error { return nil }
