package pkt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-pkt/api"
	"github.com/momentics/hioload-pkt/pkt"
)

// stubPool implements pkt.Mempool for buffer-level tests; real pool
// behavior is covered in the pool package.
type stubPool struct {
	name     string
	tag      uint64
	objSize  int
	headroom int
	frees    int
}

func (s *stubPool) Name() string    { return s.name }
func (s *stubPool) ObjectSize() int { return s.objSize }
func (s *stubPool) HeaderRoom() int { return s.headroom }
func (s *stubPool) Tag() uint64     { return s.tag }

func (s *stubPool) Free(b *pkt.Buffer) error {
	if b.Tag() != s.tag {
		return api.ErrForeignObject
	}
	if !b.DropRef() {
		return nil
	}
	b.Reset(s.headroom)
	b.MarkPooled()
	s.frees++
	return nil
}

func (s *stubPool) Reclaim(b *pkt.Buffer) error {
	b.ClearInFlight()
	return s.Free(b)
}

func (s *stubPool) AllocOne() *pkt.Buffer {
	b := pkt.NewRaw(s, s.tag, 0, make([]byte, s.objSize), s.headroom)
	return b
}

func newStub(objSize, headroom int) *stubPool {
	return &stubPool{name: "stub", tag: 7, objSize: objSize, headroom: headroom}
}

func newBuf(t *testing.T, objSize, headroom int) *pkt.Buffer {
	t.Helper()
	return newStub(objSize, headroom).AllocOne()
}

func checkLayout(t *testing.T, b *pkt.Buffer) {
	t.Helper()
	if b.Headroom()+b.DataLen()+b.Tailroom() != b.Capacity() {
		t.Fatalf("layout invariant broken: head=%d data=%d tail=%d cap=%d",
			b.Headroom(), b.DataLen(), b.Tailroom(), b.Capacity())
	}
}

func TestBufferLayoutInvariant(t *testing.T) {
	b := newBuf(t, 2048, 128)
	checkLayout(t, b)
	require.Equal(t, 128, b.Headroom())
	require.Equal(t, 0, b.DataLen())
	require.Equal(t, 2048-128, b.Tailroom())

	_, err := b.Append(1000)
	require.NoError(t, err)
	checkLayout(t, b)

	_, err = b.Prepend(64)
	require.NoError(t, err)
	checkLayout(t, b)
	require.Equal(t, 64, b.Headroom())
	require.Equal(t, 1064, b.DataLen())

	require.NoError(t, b.TrimFront(100))
	checkLayout(t, b)
	require.NoError(t, b.TrimBack(200))
	checkLayout(t, b)
	require.Equal(t, 764, b.DataLen())
}

func TestBufferPrependBounds(t *testing.T) {
	b := newBuf(t, 512, 64)
	_, err := b.Prepend(65)
	require.ErrorIs(t, err, api.ErrInsufficientHeadroom)
	checkLayout(t, b)

	got, err := b.Prepend(64)
	require.NoError(t, err)
	require.Len(t, got, 64)
	require.Equal(t, 0, b.Headroom())

	_, err = b.Prepend(1)
	require.ErrorIs(t, err, api.ErrInsufficientHeadroom)
}

func TestBufferAppendBounds(t *testing.T) {
	b := newBuf(t, 512, 64)
	_, err := b.Append(512 - 64 + 1)
	require.ErrorIs(t, err, api.ErrInsufficientTailroom)
	checkLayout(t, b)

	got, err := b.Append(448)
	require.NoError(t, err)
	require.Len(t, got, 448)
	require.Equal(t, 0, b.Tailroom())
}

func TestBufferTrimBounds(t *testing.T) {
	b := newBuf(t, 512, 64)
	b.Append(100) //nolint:errcheck
	require.ErrorIs(t, b.TrimFront(101), api.ErrInvalidArgument)
	require.ErrorIs(t, b.TrimBack(101), api.ErrInvalidArgument)
	require.ErrorIs(t, b.TrimFront(-1), api.ErrInvalidArgument)
	require.NoError(t, b.TrimFront(100))
	require.Equal(t, 0, b.DataLen())
}

func TestBufferDataWindow(t *testing.T) {
	b := newBuf(t, 256, 32)
	out, err := b.Append(4)
	require.NoError(t, err)
	copy(out, []byte{1, 2, 3, 4})
	require.Equal(t, []byte{1, 2, 3, 4}, b.Data())
	require.NoError(t, b.TrimFront(1))
	require.Equal(t, []byte{2, 3, 4}, b.Data())
}

func TestBufferSharedDeniesMutation(t *testing.T) {
	b := newBuf(t, 256, 32)
	b.Append(8) //nolint:errcheck
	require.NotNil(t, b.DataMut())

	b.Share()
	require.Nil(t, b.DataMut(), "shared buffer must deny mutable access")
	_, err := b.Append(1)
	require.ErrorIs(t, err, api.ErrBufferShared)
	_, err = b.Prepend(1)
	require.ErrorIs(t, err, api.ErrBufferShared)
	require.ErrorIs(t, b.TrimFront(1), api.ErrBufferShared)
	require.ErrorIs(t, b.TrimBack(1), api.ErrBufferShared)
	require.ErrorIs(t, b.SetDataLen(4), api.ErrBufferShared)

	// Dropping the extra reference restores unique ownership.
	require.NoError(t, b.Free())
	require.EqualValues(t, 1, b.Refcount())
	require.NotNil(t, b.DataMut())
}

func TestBufferRefcountReclaim(t *testing.T) {
	s := newStub(256, 32)
	b := s.AllocOne()
	b.Share()
	require.NoError(t, b.Free())
	require.Equal(t, 0, s.frees, "object must not be reclaimed while referenced")
	require.NoError(t, b.Free())
	require.Equal(t, 1, s.frees)
	require.True(t, b.Pooled())
}

func TestBufferResetOnFree(t *testing.T) {
	s := newStub(512, 64)
	b := s.AllocOne()
	b.Append(100) //nolint:errcheck
	b.Prepend(20) //nolint:errcheck
	b.Free()      //nolint:errcheck
	require.Equal(t, 64, b.Headroom(), "reset must restore pool headroom")
	require.Equal(t, 0, b.DataLen())
}

func TestBufferInFlightDeniesMutation(t *testing.T) {
	b := newBuf(t, 256, 32)
	b.Append(8) //nolint:errcheck
	require.True(t, b.MarkInFlight())
	require.False(t, b.MarkInFlight(), "double mark must fail")
	require.Nil(t, b.DataMut())

	// Every window mutation is off limits while the engine owns the bytes.
	_, err := b.Append(1)
	require.ErrorIs(t, err, api.ErrForeignObject)
	_, err = b.Prepend(1)
	require.ErrorIs(t, err, api.ErrForeignObject)
	require.ErrorIs(t, b.TrimFront(1), api.ErrForeignObject)
	require.ErrorIs(t, b.TrimBack(1), api.ErrForeignObject)
	require.ErrorIs(t, b.SetDataLen(4), api.ErrForeignObject)

	b.ClearInFlight()
	require.NotNil(t, b.DataMut())
	require.NoError(t, b.TrimFront(1))
}
