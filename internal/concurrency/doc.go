// Package concurrency implements the lock-free rings behind pool
// free-lists and engine descriptor rings.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package concurrency
