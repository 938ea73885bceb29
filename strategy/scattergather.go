package strategy

import (
	"bytes"
	"encoding/binary"
	"io"

	"golang.org/x/sys/unix"

	"github.com/pktrace/pcapkit/header"
)

// ScatterGather writes a record header and its payload in a single
// vectored syscall; on read it takes the fixed-size header first and then
// the payload with readv. This is also the backend the codec downgrades to when
// the memory-mapped backend can't be used (stdin/stdout, which aren't
// mmap-able).
type ScatterGather struct{}

// NewScatterGather constructs the vectored-I/O backend.
func NewScatterGather() *ScatterGather { return &ScatterGather{} }

func (s *ScatterGather) InitOnce(enforcePrio bool) {}

func (s *ScatterGather) PullFileHeader(fd int) (header.FileHeader, error) {
	return decodeFileHeaderFd(fd)
}

func (s *ScatterGather) PushFileHeader(fd int, fh header.FileHeader) error {
	return encodeFileHeaderFd(fd, fh)
}

func (s *ScatterGather) PrepareAccess(fd int, mode Mode, jumbo bool) error {
	return nil
}

func (s *ScatterGather) ReadPacket(fd int, variant header.Variant, order binary.ByteOrder, buf []byte) (header.PacketHeader, int, error) {
	// The payload length isn't known until the header is decoded, so the
	// header has to be read separately before it can be vectored with the
	// payload. We read the fixed-size header first, then issue a single
	// readv across two iovecs: the caller's buffer and, if the on-disk
	// caplen exceeds it, a scratch tail that gets discarded.
	hdrLen := header.PacketHeader{Variant: variant}.HeaderLen()
	hdrBuf := make([]byte, hdrLen)

	// First vector reads the header; we don't yet know the payload
	// length so we can't size the second iovec until after decoding.
	if _, err := readFull(fd, hdrBuf); err != nil {
		return header.PacketHeader{}, 0, err
	}
	hdr, err := decodePacketHeaderBytes(hdrBuf, order, variant)
	if err != nil {
		return header.PacketHeader{}, 0, err
	}

	want := int(hdr.PayloadLen())
	n := want
	if n > len(buf) {
		n = len(buf)
	}
	rest := want - n

	iov := make([][]byte, 0, 2)
	if n > 0 {
		iov = append(iov, buf[:n])
	}
	var scratch []byte
	if rest > 0 {
		scratch = make([]byte, rest)
		iov = append(iov, scratch)
	}
	if len(iov) > 0 {
		if _, err := readvFull(fd, iov); err != nil {
			return header.PacketHeader{}, 0, err
		}
	}
	return hdr, n, nil
}

func (s *ScatterGather) WritePacket(fd int, hdr header.PacketHeader, order binary.ByteOrder, payload []byte) error {
	raw, err := encodePacketHeader(hdr, order)
	if err != nil {
		return err
	}
	n, err := unix.Writev(fd, [][]byte{raw, payload})
	if err != nil {
		return err
	}
	if n != len(raw)+len(payload) {
		return errShortWrite
	}
	return nil
}

func (s *ScatterGather) PrepareClose(fd int, mode Mode) error { return nil }

func (s *ScatterGather) Fsync(fd int) error {
	return unix.Fsync(fd)
}

func decodePacketHeaderBytes(raw []byte, order binary.ByteOrder, variant header.Variant) (header.PacketHeader, error) {
	return header.DecodePacketHeader(bytes.NewReader(raw), order, variant)
}

// readvFull issues unix.Readv repeatedly until every iovec is full; a
// single readv call can return fewer bytes than requested even without
// error, same as read().
func readvFull(fd int, iov [][]byte) (int, error) {
	total := 0
	want := 0
	for _, b := range iov {
		want += len(b)
	}
	for total < want {
		n, err := unix.Readv(fd, iov)
		if n > 0 {
			total += n
			iov = trimIovec(iov, n)
		}
		if err != nil {
			return total, err
		}
		if n == 0 {
			break
		}
	}
	if total < want {
		return total, io.ErrUnexpectedEOF
	}
	return total, nil
}

// trimIovec drops the first n bytes across a vector of byte slices,
// returning the remaining, still-to-be-filled portion.
func trimIovec(iov [][]byte, n int) [][]byte {
	for len(iov) > 0 && n > 0 {
		if n >= len(iov[0]) {
			n -= len(iov[0])
			iov = iov[1:]
			continue
		}
		iov[0] = iov[0][n:]
		n = 0
	}
	return iov
}
