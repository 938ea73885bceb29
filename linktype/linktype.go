// Package linktype maps OS network-interface hardware types to pcap
// linktype identifiers, and names the fixed allow-list of linktypes this
// module accepts in a capture file.
package linktype

import "golang.org/x/sys/unix"

// Type is a pcap linktype identifier, as it appears in a file header or is
// passed to the dissector entry point.
type Type uint32

// The fixed allow-list this module accepts. Numeric values match the
// well-known tcpdump link-layer header type registry.
const (
	NULL                Type = 0
	EN10MB              Type = 1
	EN3MB               Type = 2
	AX25                Type = 3
	PRONET              Type = 4
	CHAOS               Type = 5
	IEEE802             Type = 6
	SLIP                Type = 8
	PPP                 Type = 9
	FDDI                Type = 10
	ATM_CLIP            Type = 19
	C_HDLC              Type = 104
	IEEE802_11          Type = 105
	FRELAY              Type = 107
	IEEE802_11_RADIOTAP Type = 127
	ARCNET_LINUX        Type = 129
	ECONET              Type = 115
	LINUX_IRDA          Type = 144
	IEEE802_15_4_LINUX  Type = 191
	CAN20B              Type = 190
	INFINIBAND          Type = 247
	LINUX_SLL           Type = 113
	NETLINK             Type = 253

	// Wireshark tunnel pseudo-linktypes.
	RAW        Type = 101
	SLIP_BSDOS Type = 102
	PPP_BSDOS  Type = 103
)

var allowed = map[Type]bool{
	NULL: true, EN10MB: true, EN3MB: true, AX25: true, PRONET: true,
	CHAOS: true, IEEE802: true, SLIP: true, PPP: true, FDDI: true,
	ATM_CLIP: true, C_HDLC: true, IEEE802_11: true, IEEE802_11_RADIOTAP: true,
	FRELAY: true, ECONET: true, ARCNET_LINUX: true, LINUX_IRDA: true,
	CAN20B: true, IEEE802_15_4_LINUX: true, INFINIBAND: true, NETLINK: true,
	LINUX_SLL: true, RAW: true, SLIP_BSDOS: true, PPP_BSDOS: true,
}

func swap32(v uint32) uint32 {
	return v<<24 | (v&0xff00)<<8 | (v&0xff0000)>>8 | v>>24
}

// Swapped returns the byte-swapped form of t, the form a session opened
// against a swapped-endian file would carry in its FileHeader.Linktype
// before the codec applies Order.
func (t Type) Swapped() Type {
	return Type(swap32(uint32(t)))
}

// Canonical strips a possible byte-swap, returning t itself if it is
// already a recognized plain value, or its swapped form if that's what's
// recognized. Every entry point in this module must accept both encodings.
func (t Type) Canonical() (Type, bool) {
	if allowed[t] {
		return t, true
	}
	if s := t.Swapped(); allowed[s] {
		return s, true
	}
	return t, false
}

// Supported reports whether t (in either byte order) is in the fixed
// allow-list. A file whose linktype fails this check must be rejected at
// open.
func Supported(t Type) bool {
	_, ok := t.Canonical()
	return ok
}

// HasSidecar reports whether t identifies a linktype that carries the
// 16-byte link-layer sidecar: true for SLL and netlink, in either byte
// order.
func HasSidecar(t Type) bool {
	c, ok := t.Canonical()
	if !ok {
		return false
	}
	return c == LINUX_SLL || c == NETLINK
}

// FromDeviceType maps an OS network-interface hardware type (ARPHRD_*) to
// a pcap linktype, defaulting to NULL. Several aliases (tunnels, loopback,
// SIT, GRE) fold into Ethernet.
func FromDeviceType(devType int) Type {
	switch devType {
	case unix.ARPHRD_TUNNEL, unix.ARPHRD_TUNNEL6, unix.ARPHRD_LOOPBACK,
		unix.ARPHRD_SIT, unix.ARPHRD_IPDDP, unix.ARPHRD_IPGRE,
		unix.ARPHRD_IP6GRE, unix.ARPHRD_ETHER:
		return EN10MB
	case unix.ARPHRD_IEEE80211_RADIOTAP:
		return IEEE802_11_RADIOTAP
	case unix.ARPHRD_IEEE80211_PRISM, unix.ARPHRD_IEEE80211:
		return IEEE802_11
	case unix.ARPHRD_NETLINK:
		return NETLINK
	case unix.ARPHRD_EETHER:
		return EN3MB
	case unix.ARPHRD_AX25:
		return AX25
	case unix.ARPHRD_CHAOS:
		return CHAOS
	case unix.ARPHRD_PRONET:
		return PRONET
	case unix.ARPHRD_IEEE802_TR, unix.ARPHRD_IEEE802:
		return IEEE802
	case unix.ARPHRD_INFINIBAND:
		return INFINIBAND
	case unix.ARPHRD_ATM:
		return ATM_CLIP
	case unix.ARPHRD_DLCI:
		return FRELAY
	case unix.ARPHRD_ARCNET:
		return ARCNET_LINUX
	case unix.ARPHRD_CSLIP, unix.ARPHRD_CSLIP6, unix.ARPHRD_SLIP6, unix.ARPHRD_SLIP:
		return SLIP
	case unix.ARPHRD_PPP:
		return PPP
	case unix.ARPHRD_CAN:
		return CAN20B
	case unix.ARPHRD_ECONET:
		return ECONET
	case unix.ARPHRD_RAWHDLC, unix.ARPHRD_CISCO:
		return C_HDLC
	case unix.ARPHRD_FDDI:
		return FDDI
	case unix.ARPHRD_IEEE802154_MONITOR, unix.ARPHRD_IEEE802154:
		return IEEE802_15_4_LINUX
	case unix.ARPHRD_IRDA:
		return LINUX_IRDA
	default:
		return NULL
	}
}
