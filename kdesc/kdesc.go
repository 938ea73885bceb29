// Package kdesc converts between a kernel TPACKET v2/v3 per-packet
// descriptor and a pcap dialect's on-disk record header.
package kdesc

import "github.com/pktrace/pcapkit/header"

// Timestamp source values a BORKMANN record's TSource field can carry.
const (
	TSourceNone        uint16 = 0
	TSourceSoftware    uint16 = 1
	TSourceSysHardware uint16 = 2
	TSourceRawHardware uint16 = 3
)

// Status bits a TPACKET v2 tp_status word carries that identify which
// clock produced the packet's timestamp, reproduced from
// linux/if_packet.h's TP_STATUS_TS_* (TPACKET v3's block descriptor
// carries no such bits, so callers converting from v3 pass status 0).
const (
	StatusTSRawHardware uint32 = 1 << 31
	StatusTSSysHardware uint32 = 1 << 30
	StatusTSSoftware    uint32 = 1 << 29
)

// tsourceFromStatus picks a BORKMANN TSource value from a TPACKET v2
// tp_status word, preferring the most precise clock available:
// RAW_HARDWARE, then SYS_HARDWARE, then SOFTWARE, then none.
func tsourceFromStatus(status uint32) uint16 {
	switch {
	case status&StatusTSRawHardware != 0:
		return TSourceRawHardware
	case status&StatusTSSysHardware != 0:
		return TSourceSysHardware
	case status&StatusTSSoftware != 0:
		return TSourceSoftware
	default:
		return TSourceNone
	}
}

// Descriptor is a kernel TPACKET v2/v3 per-packet descriptor plus the
// sockaddr_ll the kernel delivers alongside it, reduced to the fields the
// pcap header conversion needs. Sec/Nsec are the kernel's timestamp
// (tp_sec, tp_nsec — always nanosecond resolution internally). Status is
// the TPACKET v2 tp_status word; pass 0 for TPACKET v3, which has none.
type Descriptor struct {
	Sec     uint32
	Nsec    uint32
	Snaplen uint32
	Len     uint32
	Status  uint32

	Sll LinkAddr
}

// LinkAddr is the subset of a Linux sockaddr_ll the adapter consumes,
// mirroring struct sockaddr_ll's sll_pkttype/sll_hatype/sll_halen/
// sll_protocol/sll_addr/sll_ifindex fields.
type LinkAddr struct {
	PktType  uint8
	Hatype   uint16
	Halen    uint16
	Protocol uint16
	Addr     [8]byte
	Ifindex  int32
}

func (l LinkAddr) toSidecar() header.Sidecar {
	return header.Sidecar{
		PktType:  uint16(l.PktType),
		Hatype:   l.Hatype,
		Halen:    l.Halen,
		Addr:     l.Addr,
		Protocol: l.Protocol,
	}
}

func sidecarToLinkAddr(s header.Sidecar) LinkAddr {
	return LinkAddr{
		PktType:  uint8(s.PktType),
		Hatype:   s.Hatype,
		Halen:    s.Halen,
		Addr:     s.Addr,
		Protocol: s.Protocol,
	}
}

// ToHeader builds a pcap record header of the given variant from a kernel
// descriptor. For *_LL variants the sidecar is populated from d.Sll and
// the reported caplen/len are widened by the sidecar size.
func ToHeader(d Descriptor, variant header.Variant) header.PacketHeader {
	h := header.PacketHeader{Variant: variant}

	h.Sec = int32(d.Sec)
	if variant.IsNanosecond() {
		h.Frac = int32(d.Nsec)
	} else {
		h.Frac = int32(d.Nsec / 1000)
	}

	h.Caplen = d.Snaplen
	h.Len = d.Len

	if variant.HasSidecar() {
		h.Caplen += header.SidecarLen
		h.Len += header.SidecarLen
		h.Sidecar = d.Sll.toSidecar()
	}

	switch variant {
	case header.VariantKuznetzov:
		h.Ifindex = uint32(d.Sll.Ifindex)
		h.Protocol = d.Sll.Protocol
		h.PktType = d.Sll.PktType
	case header.VariantBorkmann:
		h.TSource = tsourceFromStatus(d.Status)
		h.Ifindex = uint32(uint16(d.Sll.Ifindex))
		h.Protocol = d.Sll.Protocol
		h.Hatype = d.Sll.Hatype
		h.PktType = d.Sll.PktType
	}

	return h
}

// FromHeader recovers a kernel descriptor and sockaddr_ll from a decoded
// pcap record header, the inverse of ToHeader. The caplen/len returned are
// sidecar-exclusive (header.PacketHeader.PayloadLen's convention); Status
// is always 0 since no pcap variant records which clock produced a
// timestamp except via TSource, which FromHeader folds back into the
// nearest status bit so a round trip through ToHeader reproduces the same
// TSource.
func FromHeader(h header.PacketHeader) Descriptor {
	d := Descriptor{
		Sec:     uint32(h.Sec),
		Snaplen: h.PayloadLen(),
		Len:     h.Len,
	}
	if h.Variant.HasSidecar() {
		d.Len -= header.SidecarLen
	}

	if h.Variant.IsNanosecond() {
		d.Nsec = uint32(h.Frac)
	} else {
		d.Nsec = uint32(h.Frac) * 1000
	}

	if h.Variant.HasSidecar() {
		d.Sll = sidecarToLinkAddr(h.Sidecar)
	}

	switch h.Variant {
	case header.VariantKuznetzov:
		d.Sll.Ifindex = int32(h.Ifindex)
		d.Sll.Protocol = h.Protocol
		d.Sll.PktType = h.PktType
	case header.VariantBorkmann:
		d.Sll.Ifindex = int32(h.Ifindex)
		d.Sll.Protocol = h.Protocol
		d.Sll.Hatype = h.Hatype
		d.Sll.PktType = h.PktType
		switch h.TSource {
		case TSourceRawHardware:
			d.Status = StatusTSRawHardware
		case TSourceSysHardware:
			d.Status = StatusTSSysHardware
		case TSourceSoftware:
			d.Status = StatusTSSoftware
		}
	}

	return d
}
