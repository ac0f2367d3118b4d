// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime control plane: dynamic configuration with reload listeners and
// a metrics registry fed by pool and port statistics. Everything here is
// off the packet hot path.
package control
