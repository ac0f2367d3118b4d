// File: control/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// api.Control implementation joining the dynamic store and the metrics
// registry behind one surface.

package control

import "github.com/momentics/hioload-pkt/api"

// Controller implements api.Control.
type Controller struct {
	store   *ConfigStore
	metrics *MetricsRegistry
}

// NewController builds a controller over fresh store and registry.
func NewController(reloadWorkers int) (*Controller, error) {
	store, err := NewConfigStore(reloadWorkers)
	if err != nil {
		return nil, err
	}
	return &Controller{
		store:   store,
		metrics: NewMetricsRegistry(),
	}, nil
}

// GetConfig implements api.Control.
func (c *Controller) GetConfig() map[string]any { return c.store.GetSnapshot() }

// SetConfig implements api.Control.
func (c *Controller) SetConfig(cfg map[string]any) error {
	c.store.SetConfig(cfg)
	return nil
}

// Stats implements api.Control.
func (c *Controller) Stats() map[string]any { return c.metrics.GetSnapshot() }

// OnReload implements api.Control.
func (c *Controller) OnReload(fn func()) { c.store.OnReload(fn) }

// RegisterDebugProbe implements api.Control.
func (c *Controller) RegisterDebugProbe(name string, fn func() any) {
	c.metrics.RegisterProbe(name, fn)
}

// Metrics exposes the registry for direct probe registration.
func (c *Controller) Metrics() *MetricsRegistry { return c.metrics }

// Close releases controller resources.
func (c *Controller) Close() { c.store.Close() }

var _ api.Control = (*Controller)(nil)
