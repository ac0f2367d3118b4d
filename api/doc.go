// Package api
// Author: momentics <momentics@gmail.com>
//
// Contracts for the hioload-pkt poll-mode packet I/O core.
// Defines the error taxonomy, the lock-free ring contracts, the native
// engine boundary, and the runtime control surface.
// Implementation packages (pool, pkt, port, eal, engine) depend on api;
// api depends on nothing.
package api
