// Package strategy implements the three interchangeable file-access
// backends a capture session can use to move packet bytes between a pcap
// file and memory: plain read/write, scatter-gather vectored I/O, and
// memory-mapped I/O.
package strategy

import (
	"encoding/binary"

	"github.com/pktrace/pcapkit/header"
)

// Mode is the direction a session was opened in.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Strategy is the per-backend operation vtable. A Strategy is stateless
// across packets except for whatever internal buffering/mapping
// PrepareAccess sets up; Fsync and PrepareClose are only ever called in
// write/close order by the codec.
type Strategy interface {
	// InitOnce is called by codec.Open once per session, after the
	// session's descriptor has been acquired. enforcePrio requests
	// SO_PRIORITY-equivalent scheduling priority where the backend
	// supports it; none of the three backends in this package acts on it.
	InitOnce(enforcePrio bool)

	// PullFileHeader reads and decodes the 24-byte file header from fd.
	PullFileHeader(fd int) (header.FileHeader, error)

	// PushFileHeader encodes and writes the file header to fd.
	PushFileHeader(fd int, fh header.FileHeader) error

	// PrepareAccess is called once after the file header has been
	// transferred, to let a backend set up buffering (e.g. the mmap
	// backend maps the file here; the others are no-ops).
	PrepareAccess(fd int, mode Mode, jumbo bool) error

	// ReadPacket reads one record header plus up to len(buf) bytes of
	// its payload into buf, returning the decoded header and the number
	// of payload bytes actually placed in buf.
	ReadPacket(fd int, variant header.Variant, order binary.ByteOrder, buf []byte) (header.PacketHeader, int, error)

	// WritePacket writes a record header followed by payload to fd.
	WritePacket(fd int, hdr header.PacketHeader, order binary.ByteOrder, payload []byte) error

	// PrepareClose runs once before the fd is closed, the inverse of
	// PrepareAccess (e.g. the mmap backend unmaps here).
	PrepareClose(fd int, mode Mode) error

	// Fsync flushes fd to stable storage; the codec calls this only in
	// write mode before close.
	Fsync(fd int) error
}
