// File: eal/worker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker launch with OS-thread binding. One worker per queue is the
// run-to-completion convention: the worker goroutine locks its OS thread,
// pins it to the requested CPU, and runs the poll loop to completion.

package eal

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/momentics/hioload-pkt/api"
)

// WorkerConfig selects where a worker runs.
type WorkerConfig struct {
	// CPU pins the worker's OS thread; -1 leaves scheduling to the OS.
	CPU int
	// NUMANode records the worker's locality hint for pool placement.
	NUMANode int
}

// Worker is a handle over one launched poll worker.
type Worker struct {
	cfg  WorkerConfig
	done chan struct{}
}

// LaunchWorker starts fn on a dedicated, optionally pinned OS thread.
func LaunchWorker(cfg WorkerConfig, fn func()) (*Worker, error) {
	if !Initialized() {
		return nil, api.ErrRuntimeNotInitialized
	}
	if fn == nil {
		return nil, api.ErrInvalidArgument
	}
	w := &Worker{cfg: cfg, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if cfg.CPU >= 0 {
			if err := pinThread(cfg.CPU); err != nil {
				Logger().Warn("worker pin failed",
					zap.Int("cpu", cfg.CPU), zap.Error(err))
			}
		}
		fn()
	}()
	return w, nil
}

// Wait blocks until the worker's function returns.
func (w *Worker) Wait() {
	<-w.done
}

// Config returns the worker's placement.
func (w *Worker) Config() WorkerConfig { return w.cfg }
