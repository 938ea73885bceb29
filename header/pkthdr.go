package header

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PacketHeader is a tagged sum over the six per-record header layouts.
// Only the fields relevant to Variant are populated/consulted; unused
// fields are simply zero. Keeping every scalar read/write routed through
// a single endian-aware codec avoids six bespoke ones.
type PacketHeader struct {
	Variant Variant

	Sec  int32
	Frac int32 // microseconds, or nanoseconds when Variant.IsNanosecond()

	// Caplen/Len are the ON-DISK values. For *_LL variants these include
	// the 16-byte sidecar.
	Caplen uint32
	Len    uint32

	Sidecar Sidecar // *_LL only

	Ifindex  uint32 // Kuznetzov (4 bytes on disk), Borkmann (2 bytes on disk)
	Protocol uint16 // Kuznetzov, Borkmann
	PktType  uint8  // Kuznetzov, Borkmann
	TSource  uint16 // Borkmann only
	Hatype   uint16 // Borkmann only (1 byte on disk)
}

// HeaderLen returns the fixed on-disk size of the header for its variant.
func (h PacketHeader) HeaderLen() int {
	switch h.Variant {
	case VariantDefault, VariantNsec:
		return 16
	case VariantDefaultLL, VariantNsecLL:
		return 16 + SidecarLen
	case VariantKuznetzov:
		return 24 // 23 logical bytes + 1 alignment pad, per pcap_pkthdr_kuz
	case VariantBorkmann:
		return 24
	default:
		panic(fmt.Sprintf("header: unhandled variant %d in HeaderLen", h.Variant))
	}
}

// PayloadLen returns the payload length reported to the dissector: the
// on-disk Caplen minus the sidecar size for *_LL variants, unchanged
// otherwise.
func (h PacketHeader) PayloadLen() uint32 {
	if h.Variant.HasSidecar() {
		return h.Caplen - SidecarLen
	}
	return h.Caplen
}

// TotalLen is the number of bytes the record occupies on disk: header plus
// the payload bytes that follow it.
func (h PacketHeader) TotalLen() int {
	return h.HeaderLen() + int(h.PayloadLen())
}

// Encode writes the header in its on-disk layout and byte order.
func (h PacketHeader) Encode(w io.Writer, order binary.ByteOrder) error {
	if err := binary.Write(w, order, h.Sec); err != nil {
		return err
	}
	if err := binary.Write(w, order, h.Frac); err != nil {
		return err
	}
	if err := binary.Write(w, order, h.Caplen); err != nil {
		return err
	}
	if err := binary.Write(w, order, h.Len); err != nil {
		return err
	}

	switch h.Variant {
	case VariantDefault, VariantNsec:
		return nil
	case VariantDefaultLL, VariantNsecLL:
		return h.Sidecar.Encode(w)
	case VariantKuznetzov:
		if err := binary.Write(w, order, h.Ifindex); err != nil {
			return err
		}
		if err := binary.Write(w, order, h.Protocol); err != nil {
			return err
		}
		if err := binary.Write(w, order, h.PktType); err != nil {
			return err
		}
		return binary.Write(w, order, uint8(0)) // alignment pad
	case VariantBorkmann:
		if err := binary.Write(w, order, h.TSource); err != nil {
			return err
		}
		if err := binary.Write(w, order, uint16(h.Ifindex)); err != nil {
			return err
		}
		if err := binary.Write(w, order, h.Protocol); err != nil {
			return err
		}
		if err := binary.Write(w, order, uint8(h.Hatype)); err != nil {
			return err
		}
		return binary.Write(w, order, h.PktType)
	default:
		panic(fmt.Sprintf("header: unhandled variant %d in Encode", h.Variant))
	}
}

// DecodePacketHeader reads a header of the given variant in the given byte
// order.
func DecodePacketHeader(r io.Reader, order binary.ByteOrder, variant Variant) (PacketHeader, error) {
	h := PacketHeader{Variant: variant}

	for _, f := range []interface{}{&h.Sec, &h.Frac, &h.Caplen, &h.Len} {
		if err := binary.Read(r, order, f); err != nil {
			return PacketHeader{}, err
		}
	}

	switch variant {
	case VariantDefault, VariantNsec:
		// no extra fields
	case VariantDefaultLL, VariantNsecLL:
		if err := h.Sidecar.Decode(r); err != nil {
			return PacketHeader{}, err
		}
	case VariantKuznetzov:
		var pad uint8
		if err := binary.Read(r, order, &h.Ifindex); err != nil {
			return PacketHeader{}, err
		}
		if err := binary.Read(r, order, &h.Protocol); err != nil {
			return PacketHeader{}, err
		}
		if err := binary.Read(r, order, &h.PktType); err != nil {
			return PacketHeader{}, err
		}
		if err := binary.Read(r, order, &pad); err != nil {
			return PacketHeader{}, err
		}
	case VariantBorkmann:
		var hatype8 uint8
		var ifindex uint16
		if err := binary.Read(r, order, &h.TSource); err != nil {
			return PacketHeader{}, err
		}
		if err := binary.Read(r, order, &ifindex); err != nil {
			return PacketHeader{}, err
		}
		h.Ifindex = uint32(ifindex)
		if err := binary.Read(r, order, &h.Protocol); err != nil {
			return PacketHeader{}, err
		}
		if err := binary.Read(r, order, &hatype8); err != nil {
			return PacketHeader{}, err
		}
		h.Hatype = uint16(hatype8)
		if err := binary.Read(r, order, &h.PktType); err != nil {
			return PacketHeader{}, err
		}
	default:
		panic(fmt.Sprintf("header: unhandled variant %d in Decode", variant))
	}

	return h, nil
}
