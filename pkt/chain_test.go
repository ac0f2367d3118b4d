package pkt_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/pkt"
)

func fillBuf(t *testing.T, s *stubPool, data []byte) *pkt.Buffer {
	t.Helper()
	b := s.AllocOne()
	out, err := b.Append(len(data))
	require.NoError(t, err)
	copy(out, data)
	return b
}

func TestChainNeverEmpty(t *testing.T) {
	_, err := pkt.NewChain(nil, pkt.ChainConfig{})
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestChainTotalLengthMaintained(t *testing.T) {
	s := newStub(1024, 64)
	c, err := pkt.NewChain(fillBuf(t, s, make([]byte, 100)), pkt.ChainConfig{})
	require.NoError(t, err)
	require.Equal(t, 100, c.TotalLength())
	require.Equal(t, 1, c.NumSegments())

	require.NoError(t, c.AppendSegment(fillBuf(t, s, make([]byte, 200))))
	require.NoError(t, c.AppendSegment(fillBuf(t, s, make([]byte, 300))))
	require.Equal(t, 600, c.TotalLength())
	require.Equal(t, 3, c.NumSegments())

	// TotalLength must equal the walked sum after every mutation.
	sum := 0
	it := c.Segments()
	for seg, ok := it.Next(); ok; seg, ok = it.Next() {
		sum += seg.DataLen()
	}
	require.Equal(t, c.TotalLength(), sum)

	require.NoError(t, c.TrimTail(50))
	require.Equal(t, 550, c.TotalLength())

	head, err := c.PopHead()
	require.NoError(t, err)
	require.Equal(t, 100, head.DataLen())
	require.Equal(t, 450, c.TotalLength())
	require.Equal(t, 2, c.NumSegments())
	require.NoError(t, head.Free())
	require.NoError(t, c.Release())
}

func TestChainSegmentLimit(t *testing.T) {
	s := newStub(256, 32)
	c, err := pkt.NewChain(s.AllocOne(), pkt.ChainConfig{MaxSegments: 3})
	require.NoError(t, err)
	require.NoError(t, c.AppendSegment(s.AllocOne()))
	require.NoError(t, c.AppendSegment(s.AllocOne()))
	extra := s.AllocOne()
	require.ErrorIs(t, c.AppendSegment(extra), api.ErrSegmentLimitExceeded)
	require.Equal(t, 3, c.NumSegments())
	require.NoError(t, extra.Free())
	require.NoError(t, c.Release())
}

func TestChainIteratorRestartable(t *testing.T) {
	s := newStub(256, 32)
	c, _ := pkt.NewChain(fillBuf(t, s, []byte{1}), pkt.ChainConfig{})
	require.NoError(t, c.AppendSegment(fillBuf(t, s, []byte{2})))

	for pass := 0; pass < 2; pass++ {
		var seen []byte
		it := c.Segments()
		for seg, ok := it.Next(); ok; seg, ok = it.Next() {
			seen = append(seen, seg.Data()...)
		}
		require.Equal(t, []byte{1, 2}, seen, "pass %d", pass)
	}
	require.NoError(t, c.Release())
}

func TestChainSingleSegmentReadsLikeBuffer(t *testing.T) {
	s := newStub(256, 32)
	b := fillBuf(t, s, []byte{9, 8, 7})
	c, _ := pkt.NewChain(b, pkt.ChainConfig{})
	require.Equal(t, b.Data(), c.Data())
	require.NoError(t, c.AppendSegment(fillBuf(t, s, []byte{6})))
	require.Nil(t, c.Data(), "multi-segment chain has no contiguous window")
	require.NoError(t, c.Release())
}

func TestChainPopHeadRefusesLastSegment(t *testing.T) {
	s := newStub(256, 32)
	c, _ := pkt.NewChain(s.AllocOne(), pkt.ChainConfig{})
	_, err := c.PopHead()
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	require.NoError(t, c.Release())
}

func TestChainTrimTailBounds(t *testing.T) {
	s := newStub(256, 32)
	c, _ := pkt.NewChain(fillBuf(t, s, make([]byte, 10)), pkt.ChainConfig{})
	require.NoError(t, c.AppendSegment(fillBuf(t, s, make([]byte, 5))))
	require.ErrorIs(t, c.TrimTail(6), api.ErrInvalidArgument)
	require.NoError(t, c.TrimTail(5))
	require.Equal(t, 10, c.TotalLength())
	require.NoError(t, c.Release())
}

func TestChainReleaseMultiPool(t *testing.T) {
	// Segments from different pools each return to their own pool.
	s1 := newStub(256, 32)
	s2 := &stubPool{name: "stub2", tag: 11, objSize: 256, headroom: 32}
	c, _ := pkt.NewChain(s1.AllocOne(), pkt.ChainConfig{})
	require.NoError(t, c.AppendSegment(s2.AllocOne()))
	require.NoError(t, c.AppendSegment(s1.AllocOne()))
	require.NoError(t, c.Release())
	require.Equal(t, 2, s1.frees)
	require.Equal(t, 1, s2.frees)

	// Second release is a safe no-op.
	require.NoError(t, c.Release())
	require.Equal(t, 2, s1.frees)
	require.True(t, c.Released())
	require.ErrorIs(t, c.AppendSegment(s1.AllocOne()), api.ErrReleased)
}

func TestChainLinearize(t *testing.T) {
	// A 9000-byte logical packet split across three 3000-byte segments
	// linearizes into one contiguous buffer, byte for byte.
	src := &stubPool{name: "seg", tag: 3, objSize: 3200, headroom: 128}
	dst := &stubPool{name: "flat", tag: 4, objSize: 9500, headroom: 128}

	var want bytes.Buffer
	mk := func(fill byte) *pkt.Buffer {
		data := bytes.Repeat([]byte{fill}, 3000)
		want.Write(data)
		return fillBuf(t, src, data)
	}
	c, err := pkt.NewChain(mk(0xAA), pkt.ChainConfig{})
	require.NoError(t, err)
	require.NoError(t, c.AppendSegment(mk(0xBB)))
	require.NoError(t, c.AppendSegment(mk(0xCC)))
	require.Equal(t, 9000, c.TotalLength())

	flat, err := c.Linearize(dst)
	require.NoError(t, err)
	require.Equal(t, 9000, flat.DataLen())
	require.True(t, bytes.Equal(want.Bytes(), flat.Data()))

	require.NoError(t, c.Release())
	require.NoError(t, flat.Free())
}

func TestChainLinearizeTooSmall(t *testing.T) {
	src := newStub(1024, 64)
	small := &stubPool{name: "small", tag: 5, objSize: 128, headroom: 32}
	c, _ := pkt.NewChain(fillBuf(t, src, make([]byte, 500)), pkt.ChainConfig{})
	require.NoError(t, c.AppendSegment(fillBuf(t, src, make([]byte, 500))))
	_, err := c.Linearize(small)
	require.ErrorIs(t, err, api.ErrInsufficientTailroom)
	require.NoError(t, c.Release())
}

func TestMultisegCapabilityFlag(t *testing.T) {
	if !pkt.MultisegSupported() {
		t.Skip("built with nomultiseg")
	}
	s := newStub(256, 32)
	c, err := pkt.NewChain(s.AllocOne(), pkt.ChainConfig{})
	require.NoError(t, err)
	require.NoError(t, c.Release())
}
