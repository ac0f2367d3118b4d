// Package engine
// Author: momentics <momentics@gmail.com>
//
// Native engine implementations behind the api.Engine boundary. The
// in-process Loopback engine wires two ports back to back for tests,
// benchmarks, and development; the real poll-mode driver engine builds
// behind the dpdk tag.
package engine
