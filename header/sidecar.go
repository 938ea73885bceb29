package header

import (
	"encoding/binary"
	"io"
)

// SidecarLen is the fixed size in bytes of the link-layer sidecar appended
// by the *_LL header variants.
const SidecarLen = 16

// Sidecar carries the SLL/netlink per-packet metadata inlined by the *_LL
// variants. pkttype, hatype and protocol travel in network (big-endian)
// byte order regardless of the file's own endianness; Addr is opaque
// bytes.
type Sidecar struct {
	PktType  uint16
	Hatype   uint16
	Halen    uint16
	Addr     [8]byte
	Protocol uint16
}

// Encode writes the sidecar in its fixed network-order layout.
func (s Sidecar) Encode(w io.Writer) error {
	fields := []interface{}{s.PktType, s.Hatype, s.Halen, s.Addr, s.Protocol}
	for _, f := range fields {
		if err := binary.Write(w, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a sidecar in its fixed network-order layout.
func (s *Sidecar) Decode(r io.Reader) error {
	fields := []interface{}{&s.PktType, &s.Hatype, &s.Halen, &s.Addr, &s.Protocol}
	for _, f := range fields {
		if err := binary.Read(r, binary.BigEndian, f); err != nil {
			return err
		}
	}
	return nil
}
