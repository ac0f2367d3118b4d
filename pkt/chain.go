// File: pkt/chain.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Multi-segment packet chain. Segments stay pool-owned objects linked by
// handle; the chain head carries the aggregate metadata (total logical
// length, segment count) so TotalLength is O(1) and never walks.

package pkt

import "github.com/momentics/hioload-pkt/api"

// DefaultMaxSegments bounds chain depth when ChainConfig does not
// override it, protecting against unbounded chains from malformed input.
const DefaultMaxSegments = 64

// ChainConfig tunes a chain at construction.
type ChainConfig struct {
	// MaxSegments caps chain depth; 0 selects DefaultMaxSegments.
	MaxSegments int
}

// Chain is an ordered, never-empty sequence of buffers forming one
// logical packet. Owning the chain owns every linked segment.
type Chain struct {
	head     *Buffer
	tail     *Buffer
	totalLen int
	segs     int
	maxSegs  int
	released bool
}

// NewChain builds a chain around its first segment. Fails with
// ErrNotSupported when multiseg support is compiled out and with
// ErrInvalidArgument on a nil head: an empty chain is not a valid state.
func NewChain(head *Buffer, cfg ChainConfig) (*Chain, error) {
	if !multisegEnabled {
		return nil, api.ErrNotSupported
	}
	if head == nil {
		return nil, api.ErrInvalidArgument
	}
	maxSegs := cfg.MaxSegments
	if maxSegs <= 0 {
		maxSegs = DefaultMaxSegments
	}
	return &Chain{
		head:     head,
		tail:     head,
		totalLen: head.DataLen(),
		segs:     1,
		maxSegs:  maxSegs,
	}, nil
}

// AppendSegment links buf as the new tail segment.
func (c *Chain) AppendSegment(buf *Buffer) error {
	if c.released {
		return api.ErrReleased
	}
	if buf == nil {
		return api.ErrInvalidArgument
	}
	if c.segs >= c.maxSegs {
		return api.ErrSegmentLimitExceeded
	}
	c.tail.next = buf
	c.tail = buf
	c.segs++
	c.totalLen += buf.DataLen()
	return nil
}

// TotalLength returns the logical packet length across all segments.
func (c *Chain) TotalLength() int { return c.totalLen }

// NumSegments returns the current segment count.
func (c *Chain) NumSegments() int { return c.segs }

// Head returns the first segment.
func (c *Chain) Head() *Buffer { return c.head }

// Data returns the data window when the chain is a single segment, so a
// one-segment chain reads like a bare buffer. Returns nil for deeper
// chains; use Segments or Linearize there.
func (c *Chain) Data() []byte {
	if c.released || c.segs != 1 {
		return nil
	}
	return c.head.Data()
}

// Segments returns a restartable iterator over segments in append order.
func (c *Chain) Segments() SegmentIter {
	if c.released {
		return SegmentIter{}
	}
	return SegmentIter{cur: c.head}
}

// SegmentIter walks chain segments without mutating topology.
type SegmentIter struct {
	cur *Buffer
}

// Next returns the next segment, false when exhausted.
func (it *SegmentIter) Next() (*Buffer, bool) {
	if it.cur == nil {
		return nil, false
	}
	b := it.cur
	it.cur = b.next
	return b, true
}

// TrimTail shrinks the logical packet by n bytes from the end. Like the
// single-buffer trim, n must fit within the tail segment's window.
func (c *Chain) TrimTail(n int) error {
	if c.released {
		return api.ErrReleased
	}
	if n < 0 || n > c.tail.DataLen() {
		return api.ErrInvalidArgument
	}
	if err := c.tail.TrimBack(n); err != nil {
		return err
	}
	c.totalLen -= n
	return nil
}

// PopHead detaches and returns the first segment; ownership of it
// transfers to the caller. Fails on a single-segment chain because a
// chain must never become empty.
func (c *Chain) PopHead() (*Buffer, error) {
	if c.released {
		return nil, api.ErrReleased
	}
	if c.segs == 1 {
		return nil, api.ErrInvalidArgument
	}
	h := c.head
	c.head = h.next
	h.next = nil
	c.segs--
	c.totalLen -= h.DataLen()
	return h, nil
}

// Linearize copies every segment's data into one buffer freshly
// allocated from alloc. The one operation in this package that copies.
// The chain itself is left untouched; release it separately.
func (c *Chain) Linearize(alloc Allocator) (*Buffer, error) {
	if c.released {
		return nil, api.ErrReleased
	}
	dst := alloc.AllocOne()
	if dst == nil {
		return nil, api.ErrResourceExhausted
	}
	if dst.Tailroom() < c.totalLen {
		dst.Free()
		return nil, api.ErrInsufficientTailroom
	}
	it := c.Segments()
	for seg, ok := it.Next(); ok; seg, ok = it.Next() {
		out, err := dst.Append(seg.DataLen())
		if err != nil {
			dst.Free()
			return nil, err
		}
		copy(out, seg.Data())
	}
	return dst, nil
}

// Release returns every segment to its originating pool and invalidates
// the handle. Safe to call twice: the second call is a no-op.
func (c *Chain) Release() error {
	if c.released {
		return nil
	}
	c.released = true
	var firstErr error
	for seg := c.head; seg != nil; {
		next := seg.next
		seg.next = nil
		if err := seg.Free(); err != nil && firstErr == nil {
			firstErr = err
		}
		seg = next
	}
	c.head, c.tail = nil, nil
	c.segs, c.totalLen = 0, 0
	return firstErr
}

// Invalidate marks the handle released without freeing segments, for
// callers that moved segment ownership elsewhere (e.g. to a transmit
// ring). Subsequent Release calls are no-ops.
func (c *Chain) Invalidate() {
	c.released = true
	c.head, c.tail = nil, nil
	c.segs, c.totalLen = 0, 0
}

// Released reports whether the handle has been invalidated.
func (c *Chain) Released() bool { return c.released }
