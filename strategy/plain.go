package strategy

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/pktrace/pcapkit/header"
)

// Plain is the default backend: every operation is a direct read()/write()
// syscall on the session's fd, with no scatter-gather and no mmap.
type Plain struct{}

// NewPlain constructs the plain read/write backend.
func NewPlain() *Plain { return &Plain{} }

func (p *Plain) InitOnce(enforcePrio bool) {}

func (p *Plain) PullFileHeader(fd int) (header.FileHeader, error) {
	return decodeFileHeaderFd(fd)
}

func (p *Plain) PushFileHeader(fd int, fh header.FileHeader) error {
	return encodeFileHeaderFd(fd, fh)
}

func (p *Plain) PrepareAccess(fd int, mode Mode, jumbo bool) error {
	return nil
}

func (p *Plain) ReadPacket(fd int, variant header.Variant, order binary.ByteOrder, buf []byte) (header.PacketHeader, int, error) {
	hdr, err := readPacketHeaderFd(fd, variant, order)
	if err != nil {
		return header.PacketHeader{}, 0, err
	}

	want := int(hdr.PayloadLen())
	n := want
	if n > len(buf) {
		n = len(buf)
	}
	if n > 0 {
		if _, err := readFull(fd, buf[:n]); err != nil {
			return header.PacketHeader{}, 0, err
		}
	}
	if want > n {
		if err := discardFd(fd, want-n); err != nil {
			return header.PacketHeader{}, 0, err
		}
	}
	return hdr, n, nil
}

func (p *Plain) WritePacket(fd int, hdr header.PacketHeader, order binary.ByteOrder, payload []byte) error {
	raw, err := encodePacketHeader(hdr, order)
	if err != nil {
		return err
	}
	if err := writeFull(fd, raw); err != nil {
		return err
	}
	return writeFull(fd, payload)
}

func (p *Plain) PrepareClose(fd int, mode Mode) error { return nil }

func (p *Plain) Fsync(fd int) error {
	return unix.Fsync(fd)
}

// discardFd reads and throws away n bytes, used when a record's caplen on
// disk exceeds the caller's buffer (the codec already counted this as
// truncated before calling down into the strategy; the strategy just has
// to keep the fd's read offset in sync with the record boundary).
func discardFd(fd int, n int) error {
	scratch := make([]byte, 4096)
	for n > 0 {
		k := len(scratch)
		if k > n {
			k = n
		}
		if _, err := readFull(fd, scratch[:k]); err != nil {
			return err
		}
		n -= k
	}
	return nil
}
