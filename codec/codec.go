// Package codec implements the capture session: opening a pcap file
// against a chosen strategy, reading and writing the file header and
// packet records, and closing the session.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"

	"github.com/pktrace/pcapkit/header"
	"github.com/pktrace/pcapkit/internal/metrics"
	"github.com/pktrace/pcapkit/linktype"
	"github.com/pktrace/pcapkit/strategy"
)

// Mode is the direction a session was opened in.
type Mode int

const (
	ModeRead Mode = iota
	ModeWrite
)

// Sentinel errors for the file-format and programmer-error failure classes.
var (
	ErrUnsupportedLinktype = errors.New("codec: linktype not in the supported allow-list")
	ErrShortWrite          = errors.New("codec: short write")
)

// maxZeroCaplenRetries bounds how many consecutive zero-caplen records
// ReadPacket will skip before giving up and returning as if at
// end-of-stream: a file containing nothing but zero-length records would
// otherwise spin the caller forever.
const maxZeroCaplenRetries = 4096

// Session is one open capture file: its chosen strategy, file descriptor,
// variant/order derived from the magic, optional BPF filter, and running
// counters.
type Session struct {
	strat strategy.Strategy
	mode  Mode
	path  string
	fd    int

	Variant  header.Variant
	Order    binary.ByteOrder
	Linktype linktype.Type

	Jumbo      bool
	Truncated  uint64
	bpfFilter  []bpf.RawInstruction
	enforcePri bool
}

// New constructs a Session bound to strat. No I/O happens until Open.
func New(strat strategy.Strategy, enforcePriority bool) *Session {
	return &Session{strat: strat, enforcePri: enforcePriority}
}

// SetBPFFilter attaches a compiled BPF program; records that don't match
// are discarded by ReadPacket without being returned to the caller, and
// the read loop retries.
func (s *Session) SetBPFFilter(prog []bpf.RawInstruction) {
	s.bpfFilter = prog
}

// Open acquires the session's file descriptor. path "-" means: in read
// mode, duplicate stdin and close the original fd number so later output
// doesn't collide with it; in write mode, the same against stdout. A "-"
// path combined with a memory-mapped strategy silently downgrades to
// scatter-gather, since neither stdin nor stdout is mmap-able.
func Open(strat strategy.Strategy, path string, mode Mode, enforcePriority bool) (*Session, error) {
	s := New(strat, enforcePriority)
	s.path = path
	s.mode = mode

	var fd int
	var err error

	if path == "-" {
		if mode == ModeRead {
			fd, err = unix.Dup(int(os.Stdin.Fd()))
			if err == nil {
				unix.Close(int(os.Stdin.Fd()))
			}
		} else {
			fd, err = unix.Dup(int(os.Stdout.Fd()))
			if err == nil {
				unix.Close(int(os.Stdout.Fd()))
			}
		}
		if err != nil {
			return nil, fmt.Errorf("codec: dup of standard stream failed: %w", err)
		}
		if _, ok := strat.(*strategy.Mmap); ok {
			s.strat = strategy.NewScatterGather()
		}
	} else {
		fd, err = openPath(path, mode)
		if err != nil {
			return nil, fmt.Errorf("codec: open %q: %w", path, err)
		}
		if mmapStrat, ok := strat.(*strategy.Mmap); ok {
			_ = mmapStrat
			if mode == ModeRead && !strategy.Mappable(fd) {
				s.strat = strategy.NewScatterGather()
			}
		}
	}

	s.fd = fd
	s.strat.InitOnce(enforcePriority)
	return s, nil
}

// openPath opens a real (non "-") path: read mode opens read-only with
// the large-file flag, retrying without the no-access-time flag on EPERM;
// write mode opens read/write, created, truncated.
func openPath(path string, mode Mode) (int, error) {
	if mode == ModeRead {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_LARGEFILE|unix.O_NOATIME, 0)
		if err != nil {
			if errors.Is(err, unix.EPERM) {
				return unix.Open(path, unix.O_RDONLY|unix.O_LARGEFILE, 0)
			}
			return -1, err
		}
		return fd, nil
	}
	return unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_TRUNC|unix.O_LARGEFILE, 0644)
}

// ReadFileHeader pulls and validates the 24-byte file header, promotes it
// to the in-memory *_LL variant when the linktype needs the sidecar, and
// invokes the strategy's prepare-access hook.
func (s *Session) ReadFileHeader() (header.FileHeader, error) {
	fh, err := s.strat.PullFileHeader(s.fd)
	if err != nil {
		return header.FileHeader{}, err
	}

	lt := linktype.Type(fh.Linktype)
	canonical, ok := lt.Canonical()
	if !ok {
		return header.FileHeader{}, fmt.Errorf("%w: 0x%x", ErrUnsupportedLinktype, fh.Linktype)
	}

	s.Linktype = canonical
	s.Order = fh.Order

	variant := fh.Variant
	if linktype.HasSidecar(canonical) {
		variant = variant.PromoteLL()
	}
	s.Variant = variant
	fh.Variant = variant

	if err := s.strat.PrepareAccess(s.fd, toStrategyMode(s.mode), s.Jumbo); err != nil {
		return header.FileHeader{}, err
	}
	return fh, nil
}

// WriteFileHeader promotes fh.Variant to its *_LL counterpart when the
// linktype needs the sidecar (mirroring the promotion ReadFileHeader
// performs, so a session's in-memory Variant is always the sidecar-aware
// one regardless of direction), writes the 24-byte header — which demotes
// back to the plain on-disk magic via header.FileHeader.Encode's
// baseForLL — then invokes prepare-access.
func (s *Session) WriteFileHeader(fh header.FileHeader) error {
	lt := linktype.Type(fh.Linktype)
	canonical, ok := lt.Canonical()
	if !ok {
		return fmt.Errorf("%w: 0x%x", ErrUnsupportedLinktype, fh.Linktype)
	}

	variant := fh.Variant
	if linktype.HasSidecar(canonical) {
		variant = variant.PromoteLL()
	}
	fh.Variant = variant

	s.Variant = variant
	s.Order = fh.Order
	s.Linktype = canonical

	if err := s.strat.PushFileHeader(s.fd, fh); err != nil {
		return err
	}
	return s.strat.PrepareAccess(s.fd, toStrategyMode(s.mode), s.Jumbo)
}

// ReadPacket reads one packet into buf, applying the BPF filter (if any)
// and the truncation/clip rules: a record whose declared length is zero or
// exceeds len(buf) increments Truncated; zero-length records are retried
// (bounded by maxZeroCaplenRetries), oversize records are clipped and
// returned. Returns the on-wire payload byte count, or 0 at end-of-stream.
func (s *Session) ReadPacket(buf []byte) (header.PacketHeader, int, error) {
	for attempt := 0; attempt < maxZeroCaplenRetries; attempt++ {
		hdr, n, err := s.strat.ReadPacket(s.fd, s.Variant, s.Order, buf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return header.PacketHeader{}, 0, nil
			}
			return header.PacketHeader{}, 0, err
		}

		declared := int(hdr.PayloadLen())
		if declared == 0 {
			s.Truncated++
			metrics.TruncatedRecords.Inc()
			continue
		}
		if declared > len(buf) {
			s.Truncated++
			metrics.TruncatedRecords.Inc()
		}

		if s.bpfFilter != nil && !bpfMatches(s.bpfFilter, buf[:n]) {
			continue
		}

		metrics.BytesRead.Add(float64(n))
		return hdr, n, nil
	}
	return header.PacketHeader{}, 0, nil
}

// WritePacket pushes a record header and payload, failing unless exactly
// hdr.TotalLen() bytes (the header plus PayloadLen payload bytes) are
// written.
func (s *Session) WritePacket(hdr header.PacketHeader, payload []byte) error {
	if len(payload) != int(hdr.PayloadLen()) {
		return fmt.Errorf("%w: payload is %d bytes, header declares %d", ErrShortWrite, len(payload), hdr.PayloadLen())
	}
	if err := s.strat.WritePacket(s.fd, hdr, s.Order, payload); err != nil {
		return err
	}
	metrics.BytesWritten.Add(float64(hdr.TotalLen()))
	return nil
}

// Close fsyncs (write mode only), invokes the strategy's close hook, and —
// if the path was "-" — restores the original standard stream by
// duplicating the session fd back over it: stdin in read mode, stdout in
// write mode.
func (s *Session) Close() error {
	if s.fd < 0 {
		return nil
	}

	if s.mode == ModeWrite {
		if err := s.strat.Fsync(s.fd); err != nil {
			return err
		}
	}

	if err := s.strat.PrepareClose(s.fd, toStrategyMode(s.mode)); err != nil {
		return err
	}

	if s.path == "-" {
		target := int(os.Stdin.Fd())
		if s.mode == ModeWrite {
			target = int(os.Stdout.Fd())
		}
		if err := unix.Dup2(s.fd, target); err != nil {
			return err
		}
		return nil
	}

	return unix.Close(s.fd)
}

func toStrategyMode(m Mode) strategy.Mode {
	if m == ModeWrite {
		return strategy.ModeWrite
	}
	return strategy.ModeRead
}

// bpfMatches runs a compiled classic-BPF program against pkt via
// golang.org/x/net/bpf's pure-Go VM, a non-competing lower-level
// alternative to importing a full pcap library just for filtering.
func bpfMatches(prog []bpf.RawInstruction, pkt []byte) bool {
	vm, err := bpf.NewVM(rawToInstructions(prog))
	if err != nil {
		return true
	}
	n, err := vm.Run(pkt)
	if err != nil {
		return true
	}
	return n > 0
}

func rawToInstructions(raw []bpf.RawInstruction) []bpf.Instruction {
	out := make([]bpf.Instruction, len(raw))
	for i, r := range raw {
		out[i] = r
	}
	return out
}
