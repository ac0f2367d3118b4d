// File: inspect/inspect.go
// Package inspect decodes frames in a buffer's data window for
// diagnostics and examples.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Read-only: decoding borrows the window without copying and never takes
// ownership. Do not hold a Layers result past freeing the buffer.

package inspect

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/momentics/hioload-pkt/pkt"
)

// Frame decodes the buffer's data window as an Ethernet frame.
func Frame(b *pkt.Buffer) gopacket.Packet {
	return gopacket.NewPacket(b.Data(), layers.LayerTypeEthernet, gopacket.DecodeOptions{
		NoCopy: true,
		Lazy:   true,
	})
}

// Summary returns a one-line dump of the frame's layers.
func Summary(b *pkt.Buffer) string {
	return Frame(b).Dump()
}

// IsIPv4 reports whether the window carries an IPv4 packet.
func IsIPv4(b *pkt.Buffer) bool {
	return Frame(b).Layer(layers.LayerTypeIPv4) != nil
}
