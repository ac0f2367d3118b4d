// File: pool/registry.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Process-wide pool registry. Names are unique; the registry vetoes
// runtime teardown while any pool is still alive.

package pool

import (
	"sync"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/eal"
)

var (
	regMu      sync.Mutex
	pools      = make(map[string]*Pool)
	hookActive bool
)

func register(p *Pool) error {
	regMu.Lock()
	if _, exists := pools[p.cfg.Name]; exists {
		regMu.Unlock()
		return api.ErrAlreadyExists
	}
	pools[p.cfg.Name] = p
	// A successful teardown clears all runtime hooks, so the veto is
	// re-armed per runtime generation: first Create after Init registers
	// it, the hook disarms itself when it lets teardown proceed. The hook
	// is installed outside regMu — Teardown runs hooks under the runtime
	// lock, and the hook itself takes regMu.
	arm := !hookActive
	if arm {
		hookActive = true
	}
	regMu.Unlock()
	if arm {
		eal.OnTeardown(func() error {
			regMu.Lock()
			defer regMu.Unlock()
			if len(pools) != 0 {
				return api.NewError(api.ErrCodeInternal, "pools still registered").
					WithContext("count", len(pools))
			}
			hookActive = false
			return nil
		})
	}
	return nil
}

func unregister(name string) {
	regMu.Lock()
	delete(pools, name)
	regMu.Unlock()
}

// Lookup finds a pool by name, nil if absent.
func Lookup(name string) *Pool {
	regMu.Lock()
	defer regMu.Unlock()
	return pools[name]
}
