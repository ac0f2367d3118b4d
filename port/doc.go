// Package port
// Author: momentics <momentics@gmail.com>
//
// Queue endpoints over the native engine. A Port groups receive and
// transmit queues; each queue moves buffer ownership between application
// and engine in bursts, never blocking and never allocating beyond its
// pool's pre-reserved memory. One worker per queue is the concurrency
// contract — burst calls are not synchronized.
package port
