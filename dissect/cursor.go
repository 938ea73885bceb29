// Package dissect drives a captured packet through a chain of protocol
// stages selected by link type: each stage parses its own header, prints
// its representation, and hands off to whichever stage comes next.
package dissect

import (
	"encoding/binary"
	"errors"
	"io"
)

// ErrShortPacket is returned by a cursor read that runs past the end of
// the borrowed buffer.
var ErrShortPacket = errors.New("dissect: short packet")

// LinkAddr is the kernel sockaddr_ll-equivalent describing the capture
// interface a packet arrived on. Only the fields a dissector stage
// plausibly needs are kept.
type LinkAddr struct {
	Protocol uint16
	PktType  uint8
	Hatype   uint16
	Halen    uint8
	Addr     [8]byte
	Ifindex  int32
}

// Cursor is a view over a borrowed, contiguous packet buffer: base, offset,
// remaining length, the packet's link type, its source sockaddr, and the
// mutable "next stage to run" field the chain driver consumes each
// iteration. Cursor never owns Buf.
type Cursor struct {
	Buf      []byte
	Off      int
	LinkType uint32
	Sll      *LinkAddr

	// Next is the dynamic "stage to run next" slot. A Stage's Process
	// callback must set it before returning; the driver clears it before
	// each invocation.
	Next *Stage

	out io.Writer
}

// NewCursor builds a cursor over buf starting at offset 0.
func NewCursor(buf []byte, linkType uint32, sll *LinkAddr, out io.Writer) *Cursor {
	return &Cursor{Buf: buf, LinkType: linkType, Sll: sll, out: out}
}

// Clone returns a cursor over the same buffer at offset 0, used by the
// pipeline to preserve the original view for a later hex/ASCII dump while
// the chain advances its own cursor.
func (c *Cursor) Clone() *Cursor {
	clone := *c
	clone.Off = 0
	clone.Next = nil
	return &clone
}

// Remaining is the number of unread bytes left in the buffer.
func (c *Cursor) Remaining() int {
	return len(c.Buf) - c.Off
}

// Out is the destination for a stage's printed representation.
func (c *Cursor) Out() io.Writer {
	return c.out
}

// Take returns the next n bytes without advancing the cursor. It errors if
// fewer than n bytes remain.
func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, ErrShortPacket
	}
	return c.Buf[c.Off : c.Off+n], nil
}

// Advance moves the cursor forward by n bytes, which must already have been
// validated available (e.g. via Take).
func (c *Cursor) Advance(n int) {
	c.Off += n
}

// ReadBytes takes and advances past n bytes in one step.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.Take(n)
	if err != nil {
		return nil, err
	}
	c.Advance(n)
	return b, nil
}

// ReadUint8 reads and advances past one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads and advances past a big-endian (network order) 16-bit
// value, the order of the Ethernet/SLL/IP/transport header fields read
// through it. The netlink and radiotap stages decode their own byte order
// from raw bytes instead.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads and advances past a big-endian 32-bit value.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Rest returns the unread remainder of the buffer without advancing.
func (c *Cursor) Rest() []byte {
	return c.Buf[c.Off:]
}
