// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime metrics collector. Exposes counters in a thread-safe map with
// dynamic registration; pool and port stats register probes here.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds mutable metrics and pull-style probes.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	probes  map[string]func() any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
		probes:  make(map[string]func() any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// RegisterProbe installs a pull-style probe evaluated on snapshot,
// e.g. a pool's Stats.
func (mr *MetricsRegistry) RegisterProbe(name string, fn func() any) {
	mr.mu.Lock()
	mr.probes[name] = fn
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics, probes included.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics)+len(mr.probes))
	for k, v := range mr.metrics {
		out[k] = v
	}
	for k, fn := range mr.probes {
		out[k] = fn()
	}
	return out
}

// Updated returns the time of the last Set.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
