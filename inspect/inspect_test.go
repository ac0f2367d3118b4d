package inspect_test

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-pkt/inspect"
	"github.com/momentics/hioload-pkt/pkt"
)

type onePool struct{ objSize, headroom int }

func (p *onePool) Name() string    { return "one" }
func (p *onePool) ObjectSize() int { return p.objSize }
func (p *onePool) HeaderRoom() int { return p.headroom }
func (p *onePool) Tag() uint64     { return 1 }
func (p *onePool) Free(b *pkt.Buffer) error {
	if !b.DropRef() {
		return nil
	}
	b.Reset(p.headroom)
	return nil
}
func (p *onePool) Reclaim(b *pkt.Buffer) error {
	b.ClearInFlight()
	return p.Free(b)
}

var _ pkt.Mempool = (*onePool)(nil)

func frameBuf(t *testing.T, v4 bool) *pkt.Buffer {
	t.Helper()
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{2, 0, 0, 0, 0, 1},
		DstMAC:       net.HardwareAddr{2, 0, 0, 0, 0, 2},
		EthernetType: layers.EthernetTypeIPv4,
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if v4 {
		ip := &layers.IPv4{
			Version: 4, TTL: 64, Protocol: layers.IPProtocolUDP,
			SrcIP: net.IP{10, 0, 0, 1}, DstIP: net.IP{10, 0, 0, 2},
		}
		udp := &layers.UDP{SrcPort: 1000, DstPort: 2000}
		require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
		require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, ip, udp,
			gopacket.Payload([]byte("ping"))))
	} else {
		eth.EthernetType = layers.EthernetTypeARP
		require.NoError(t, gopacket.SerializeLayers(buf, opts, eth,
			gopacket.Payload(make([]byte, 28))))
	}

	p := &onePool{objSize: 2048, headroom: 128}
	b := pkt.NewRaw(p, p.Tag(), 0, make([]byte, p.objSize), p.headroom)
	out, err := b.Append(len(buf.Bytes()))
	require.NoError(t, err)
	copy(out, buf.Bytes())
	return b
}

func TestFrameDecodesLayers(t *testing.T) {
	b := frameBuf(t, true)
	f := inspect.Frame(b)
	require.NotNil(t, f.Layer(layers.LayerTypeEthernet))
	require.NotNil(t, f.Layer(layers.LayerTypeIPv4))
	require.NotNil(t, f.Layer(layers.LayerTypeUDP))
	require.Equal(t, []byte("ping"), f.ApplicationLayer().Payload())
	require.NoError(t, b.Free())
}

func TestIsIPv4(t *testing.T) {
	v4 := frameBuf(t, true)
	other := frameBuf(t, false)
	require.True(t, inspect.IsIPv4(v4))
	require.False(t, inspect.IsIPv4(other))
	require.NotEmpty(t, inspect.Summary(v4))
	require.NoError(t, v4.Free())
	require.NoError(t, other.Free())
}

// Decoding borrows the window: the decoded view tracks in-place edits.
func TestFrameNoCopy(t *testing.T) {
	b := frameBuf(t, true)
	require.True(t, inspect.IsIPv4(b))
	w := b.DataMut()
	require.NotNil(t, w)
	w[12], w[13] = 0x08, 0x06 // flip EtherType to ARP
	require.False(t, inspect.IsIPv4(b))
	require.NoError(t, b.Free())
}
