package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// VersionMajor and VersionMinor are the only accepted pcap version; a file
// declaring any other version is rejected.
const (
	VersionMajor = 2
	VersionMinor = 4
)

// DefaultSnapshotLen is used by callers that don't pick an explicit
// snaplen.
const DefaultSnapshotLen = 65535

// FileHeaderLen is the fixed on-disk size of the file header.
const FileHeaderLen = 24

// ErrBadVersion and ErrShortHeader are file-format errors: the session
// that produced them is unusable.
var (
	ErrBadVersion  = errors.New("header: version is not 2.4")
	ErrShortHeader = errors.New("header: short read of file header")
)

// FileHeader is the fixed 24-byte record at the start of every capture
// file. Every multi-byte field obeys Order, which is derived once from the
// magic at open time.
type FileHeader struct {
	Variant      Variant
	Order        binary.ByteOrder
	VersionMajor uint16
	VersionMinor uint16
	ThisZone     int32
	SigFigs      uint32
	Snaplen      uint32
	Linktype     uint32
}

// DecodeFileHeader reads and validates a 24-byte file header. It does not
// perform the *_LL promotion — that requires the linktype registry and is
// the caller's (codec's) job.
func DecodeFileHeader(r io.Reader) (FileHeader, error) {
	var raw [4]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return FileHeader{}, ErrShortHeader
		}
		return FileHeader{}, err
	}

	variant, order, ok := DetectMagic(raw)
	if !ok {
		return FileHeader{}, fmt.Errorf("header: unrecognized magic % x", raw)
	}

	fh := FileHeader{Variant: variant, Order: order}
	fields := []interface{}{
		&fh.VersionMajor, &fh.VersionMinor, &fh.ThisZone,
		&fh.SigFigs, &fh.Snaplen, &fh.Linktype,
	}
	for _, f := range fields {
		if err := binary.Read(r, order, f); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return FileHeader{}, ErrShortHeader
			}
			return FileHeader{}, err
		}
	}

	if fh.VersionMajor != VersionMajor || fh.VersionMinor != VersionMinor {
		return FileHeader{}, ErrBadVersion
	}

	return fh, nil
}

// Encode writes the 24-byte file header. *_LL variants are demoted back to
// their plain on-disk magic first.
func (fh FileHeader) Encode(w io.Writer) error {
	magic := MagicBytes(fh.Variant, fh.Order)
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}

	fields := []interface{}{
		fh.VersionMajor, fh.VersionMinor, fh.ThisZone,
		fh.SigFigs, fh.Snaplen, fh.Linktype,
	}
	for _, f := range fields {
		if err := binary.Write(w, fh.Order, f); err != nil {
			return err
		}
	}
	return nil
}
