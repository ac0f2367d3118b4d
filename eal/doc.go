// Package eal
// Author: momentics <momentics@gmail.com>
//
// Process-wide runtime lifecycle for hioload-pkt: one-time engine
// initialization, logging, configuration loading, teardown ordering, and
// per-worker CPU binding. Pools, ports, and engines all require Init to
// have completed and fail fast with ErrRuntimeNotInitialized otherwise.
package eal
