// File: control/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-safe configuration store with dynamic update and reload
// propagation. Listener callbacks run on a bounded worker pool so a slow
// listener cannot fan out into unbounded goroutines.

package control

import (
	"sync"

	"github.com/panjf2000/ants/v2"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
	workers   *ants.Pool
}

// NewConfigStore initializes a config store dispatching reload callbacks
// on at most reloadWorkers concurrent workers.
func NewConfigStore(reloadWorkers int) (*ConfigStore, error) {
	if reloadWorkers <= 0 {
		reloadWorkers = 1
	}
	p, err := ants.NewPool(reloadWorkers)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{
		config:  make(map[string]any),
		workers: p,
	}, nil
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// SetConfig merges new values and dispatches reload listeners.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	listeners := make([]func(), len(cs.listeners))
	copy(listeners, cs.listeners)
	cs.mu.Unlock()
	for _, fn := range listeners {
		fn := fn
		if err := cs.workers.Submit(fn); err != nil {
			fn() // pool released or overloaded: run inline
		}
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	cs.listeners = append(cs.listeners, fn)
	cs.mu.Unlock()
}

// Close releases the listener worker pool.
func (cs *ConfigStore) Close() {
	cs.workers.Release()
}
