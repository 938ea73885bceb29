// Package header implements the on-disk pcap file header and the six
// per-packet record header dialects: magic number, byte order, timestamp
// precision, and the optional link-layer sidecar.
package header

import "encoding/binary"

// Variant names the header dialect in effect for a file or record. It is a
// tagged sum over the six on-disk layouts rather than a union.
type Variant int

const (
	// VariantDefault carries a second+microsecond timestamp. Trigger magic
	// 0xa1b2c3d4.
	VariantDefault Variant = iota
	// VariantNsec carries a second+nanosecond timestamp. Trigger magic
	// 0xa1b23c4d.
	VariantNsec
	// VariantDefaultLL is VariantDefault promoted in memory (never on disk)
	// when the file's linktype needs the 16-byte link-layer sidecar.
	VariantDefaultLL
	// VariantNsecLL is VariantNsec promoted the same way.
	VariantNsecLL
	// VariantKuznetzov carries ifindex/protocol/pkttype. Trigger magic
	// 0xa1b2cd34.
	VariantKuznetzov
	// VariantBorkmann carries tsource/ifindex/protocol/hatype/pkttype with
	// nanosecond timestamps. Trigger magic 0xa1e2cb12.
	VariantBorkmann
)

func (v Variant) String() string {
	switch v {
	case VariantDefault:
		return "default"
	case VariantNsec:
		return "nsec"
	case VariantDefaultLL:
		return "default-ll"
	case VariantNsecLL:
		return "nsec-ll"
	case VariantKuznetzov:
		return "kuznetzov"
	case VariantBorkmann:
		return "borkmann"
	default:
		return "unknown"
	}
}

// HasSidecar reports whether the variant appends the 16-byte link-layer
// sidecar to its record.
func (v Variant) HasSidecar() bool {
	return v == VariantDefaultLL || v == VariantNsecLL
}

// IsNanosecond reports whether the variant's fractional timestamp field is
// nanoseconds (true) or microseconds (false).
func (v Variant) IsNanosecond() bool {
	switch v {
	case VariantNsec, VariantNsecLL, VariantBorkmann:
		return true
	default:
		return false
	}
}

// baseForLL maps an *_LL variant back to the plain variant it is written as
// on disk. Non-LL variants map to themselves.
func (v Variant) baseForLL() Variant {
	switch v {
	case VariantDefaultLL:
		return VariantDefault
	case VariantNsecLL:
		return VariantNsec
	default:
		return v
	}
}

// PromoteLL returns the *_LL counterpart of a Default/Nsec variant. Any
// other variant has no *_LL counterpart and is returned unchanged.
func (v Variant) PromoteLL() Variant {
	switch v {
	case VariantDefault:
		return VariantDefaultLL
	case VariantNsec:
		return VariantNsecLL
	default:
		return v
	}
}

// Well-known magic byte patterns. Only DEFAULT/NSEC/KUZNETZOV/BORKMANN have
// an on-disk magic; the *_LL variants are synthesized in memory once the
// linktype registry says the record needs a sidecar.
var magicBytes = map[Variant][4]byte{
	VariantDefault:   {0xa1, 0xb2, 0xc3, 0xd4},
	VariantNsec:      {0xa1, 0xb2, 0x3c, 0x4d},
	VariantKuznetzov: {0xa1, 0xb2, 0xcd, 0x34},
	VariantBorkmann:  {0xa1, 0xe2, 0xcb, 0x12},
}

func reversed(b [4]byte) [4]byte {
	return [4]byte{b[3], b[2], b[1], b[0]}
}

// DetectMagic inspects the raw four magic bytes as read directly off the
// wire (no byte order has been applied yet) and identifies the base variant
// (never an *_LL variant — that promotion happens once the linktype is
// known) plus the byte order implied by the magic. ok is false if the bytes
// don't match any known dialect in either byte order.
func DetectMagic(raw [4]byte) (variant Variant, order binary.ByteOrder, ok bool) {
	for v, pattern := range magicBytes {
		if raw == pattern {
			return v, binary.BigEndian, true
		}
		if raw == reversed(pattern) {
			return v, binary.LittleEndian, true
		}
	}
	return 0, nil, false
}

// MagicBytes returns the four-byte on-disk magic for variant in the given
// byte order. *_LL variants are demoted to their plain counterpart first,
// matching the codec's write-side rule that *_LL never appears on disk.
func MagicBytes(variant Variant, order binary.ByteOrder) [4]byte {
	pattern := magicBytes[variant.baseForLL()]
	if order == binary.BigEndian {
		return pattern
	}
	return reversed(pattern)
}
