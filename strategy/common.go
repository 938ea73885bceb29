package strategy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/sys/unix"

	"github.com/pktrace/pcapkit/header"
)

// errShortWrite indicates a write syscall returned fewer bytes than
// requested; unlike io.ErrShortWrite's stdlib use, every backend here
// ends up returning it through the same ReadPacket/WritePacket surface.
var errShortWrite = errors.New("strategy: short write")

// readFull repeats unix.Read on fd until buf is full, EOF, or an error;
// it returns the number of bytes actually read.
func readFull(fd int, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := unix.Read(fd, buf[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return total, err
		}
		if n == 0 {
			break
		}
	}
	if total < len(buf) {
		return total, io.ErrUnexpectedEOF
	}
	return total, nil
}

// writeFull repeats unix.Write on fd until buf is fully written or an
// error occurs.
func writeFull(fd int, buf []byte) error {
	total := 0
	for total < len(buf) {
		n, err := unix.Write(fd, buf[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		if n == 0 {
			return errShortWrite
		}
	}
	return nil
}

// decodeFileHeaderFd reads the fixed-size file header directly off fd and
// decodes it, shared by every backend's PullFileHeader.
func decodeFileHeaderFd(fd int) (header.FileHeader, error) {
	raw := make([]byte, header.FileHeaderLen)
	if _, err := readFull(fd, raw); err != nil {
		return header.FileHeader{}, err
	}
	return header.DecodeFileHeader(bytes.NewReader(raw))
}

// encodeFileHeaderFd encodes the file header and writes it directly to
// fd, shared by every backend's PushFileHeader.
func encodeFileHeaderFd(fd int, fh header.FileHeader) error {
	var buf bytes.Buffer
	if err := fh.Encode(&buf); err != nil {
		return err
	}
	return writeFull(fd, buf.Bytes())
}

// readPacketHeaderFd reads and decodes one record header of the given
// variant/order via plain read() calls; the payload is left for the
// caller. Used by the plain backend; scatter-gather reads its header with
// readFull and decodePacketHeaderBytes (see scattergather.go).
func readPacketHeaderFd(fd int, variant header.Variant, order binary.ByteOrder) (header.PacketHeader, error) {
	raw := make([]byte, header.PacketHeader{Variant: variant}.HeaderLen())
	if _, err := readFull(fd, raw); err != nil {
		return header.PacketHeader{}, err
	}
	return header.DecodePacketHeader(bytes.NewReader(raw), order, variant)
}

func encodePacketHeader(hdr header.PacketHeader, order binary.ByteOrder) ([]byte, error) {
	var buf bytes.Buffer
	if err := hdr.Encode(&buf, order); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
