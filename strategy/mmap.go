package strategy

import (
	"bytes"
	"encoding/binary"
	"errors"

	"golang.org/x/sys/unix"

	"github.com/pktrace/pcapkit/header"
)

// mmapWindow is the chunk size PrepareAccess maps at a time. The spec
// treats mmap as fixed-size-window I/O rather than mapping an entire,
// potentially huge capture file at once.
const mmapWindow = 32 * 1024 * 1024

// errNotMappable is returned by PrepareAccess when fd cannot be mmap'd
// (e.g. it is a pipe); the codec is expected to catch this at Open time
// and downgrade to ScatterGather instead of calling into this backend.
var errNotMappable = errors.New("strategy: fd is not mappable")

// Mmap maps the file into memory and serves reads/writes from the mapping.
type Mmap struct {
	mode Mode

	data   []byte
	off    int
	fileSz int64
}

// NewMmap constructs the memory-mapped backend.
func NewMmap() *Mmap { return &Mmap{} }

func (m *Mmap) InitOnce(enforcePrio bool) {}

func (m *Mmap) PullFileHeader(fd int) (header.FileHeader, error) {
	return decodeFileHeaderFd(fd)
}

func (m *Mmap) PushFileHeader(fd int, fh header.FileHeader) error {
	return encodeFileHeaderFd(fd, fh)
}

// PrepareAccess maps a window of fd starting at its current file offset.
// A write-mode mapping first grows the file to fit the window via
// ftruncate, the same way the kernel side of an mmap'd pcap writer has to
// pre-size the backing file before faulting pages into it.
func (m *Mmap) PrepareAccess(fd int, mode Mode, jumbo bool) error {
	m.mode = mode

	cur, err := unix.Seek(fd, 0, unix.SEEK_CUR)
	if err != nil {
		return err
	}

	size := int64(mmapWindow)
	prot := unix.PROT_READ
	if mode == ModeWrite {
		prot |= unix.PROT_WRITE
		if err := unix.Ftruncate(fd, cur+size); err != nil {
			return err
		}
	}

	data, err := unix.Mmap(fd, cur, int(size), prot, unix.MAP_SHARED)
	if err != nil {
		if errors.Is(err, unix.ESPIPE) || errors.Is(err, unix.ENODEV) {
			return errNotMappable
		}
		return err
	}

	m.data = data
	m.off = 0
	m.fileSz = cur + size
	return nil
}

func (m *Mmap) ReadPacket(fd int, variant header.Variant, order binary.ByteOrder, buf []byte) (header.PacketHeader, int, error) {
	hdrLen := header.PacketHeader{Variant: variant}.HeaderLen()
	if m.off+hdrLen > len(m.data) {
		return header.PacketHeader{}, 0, errShortWrite
	}
	hdr, err := header.DecodePacketHeader(bytes.NewReader(m.data[m.off:m.off+hdrLen]), order, variant)
	if err != nil {
		return header.PacketHeader{}, 0, err
	}
	m.off += hdrLen

	want := int(hdr.PayloadLen())
	n := want
	if n > len(buf) {
		n = len(buf)
	}
	if m.off+want > len(m.data) {
		return header.PacketHeader{}, 0, errShortWrite
	}
	copy(buf[:n], m.data[m.off:m.off+n])
	m.off += want
	return hdr, n, nil
}

func (m *Mmap) WritePacket(fd int, hdr header.PacketHeader, order binary.ByteOrder, payload []byte) error {
	raw, err := encodePacketHeader(hdr, order)
	if err != nil {
		return err
	}
	need := m.off + len(raw) + len(payload)
	if need > len(m.data) {
		return errShortWrite
	}
	copy(m.data[m.off:], raw)
	m.off += len(raw)
	copy(m.data[m.off:], payload)
	m.off += len(payload)
	return nil
}

// PrepareClose unmaps the window and, in write mode, truncates the file
// down to the bytes actually written rather than the whole pre-sized
// window.
func (m *Mmap) PrepareClose(fd int, mode Mode) error {
	if m.data == nil {
		return nil
	}
	written := m.off
	if err := unix.Munmap(m.data); err != nil {
		return err
	}
	m.data = nil
	if mode == ModeWrite {
		cur, err := unix.Seek(fd, 0, unix.SEEK_CUR)
		if err != nil {
			return err
		}
		return unix.Ftruncate(fd, cur+int64(written))
	}
	return nil
}

func (m *Mmap) Fsync(fd int) error {
	return unix.Fsync(fd)
}

// Mappable reports whether fd can plausibly be memory-mapped (a regular
// file, not a pipe/socket), the check the codec performs at Open time to
// decide whether to request this backend or downgrade to ScatterGather.
func Mappable(fd int) bool {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFREG
}
