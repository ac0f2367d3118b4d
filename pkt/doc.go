// Package pkt
// Author: momentics <momentics@gmail.com>
//
// Packet buffers for the hioload-pkt core.
//
// A Buffer is a safe handle over one pool-allocated object, viewed as
// header room + data window + tail room. A Chain links buffers into one
// logical packet when payload exceeds a single object's capacity.
// All operations are zero-copy except Chain.Linearize.
//
// Ownership rules: a buffer has exactly one owner at a time (application,
// queue endpoint, or pool free set). Shared read access goes through the
// reference count; the underlying object returns to its pool only when
// the count reaches zero. See pool for allocation and reclamation.
package pkt
