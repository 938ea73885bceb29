package dissect

import (
	"fmt"
	"net"
)

// IPProtocol identifies the payload of an IP packet.
type IPProtocol uint8

const (
	ProtoICMP   IPProtocol = 0x01
	ProtoTCP    IPProtocol = 0x06
	ProtoUDP    IPProtocol = 0x11
	ProtoICMPv6 IPProtocol = 0x3A
	ProtoSCTP   IPProtocol = 0x84
)

func routeByProtocol(proto IPProtocol, tcp, udp, sctp, unknown *Stage) *Stage {
	switch proto {
	case ProtoTCP:
		return tcp
	case ProtoUDP:
		return udp
	case ProtoSCTP:
		return sctp
	default:
		return unknown
	}
}

// NewIPv4Stage parses the bit-packed version/IHL/DSCP/ECN/flags/
// fragment-offset header and routes by protocol to tcp/udp/sctp/unknown.
func NewIPv4Stage(tcp, udp, sctp, unknown *Stage) *Stage {
	parse := func(c *Cursor, full bool) {
		versionIHL, err := c.ReadUint8()
		if err != nil {
			return
		}
		dscpECN, err := c.ReadUint8()
		if err != nil {
			return
		}
		totalLen, err := c.ReadUint16()
		if err != nil {
			return
		}
		id, err := c.ReadUint16()
		if err != nil {
			return
		}
		flagsFrag, err := c.ReadUint16()
		if err != nil {
			return
		}
		ttl, err := c.ReadUint8()
		if err != nil {
			return
		}
		protoByte, err := c.ReadUint8()
		if err != nil {
			return
		}
		checksum, err := c.ReadUint16()
		if err != nil {
			return
		}
		srcBytes, err := c.ReadBytes(4)
		if err != nil {
			return
		}
		dstBytes, err := c.ReadBytes(4)
		if err != nil {
			return
		}

		ihl := versionIHL & 0x0F
		if ihl > 5 {
			optLen := int(ihl-5) * 4
			if _, err := c.ReadBytes(optLen); err != nil {
				return
			}
		}

		proto := IPProtocol(protoByte)
		src := net.IP(srcBytes)
		dst := net.IP(dstBytes)

		if full {
			fmt.Fprintf(c.Out(), "ip: %s > %s proto %d len %d ttl %d id %d dscp %d ecn %d checksum 0x%04x\n",
				src, dst, proto, totalLen, ttl, id, (dscpECN&0xFC)>>2, dscpECN&0x03, checksum)
		} else {
			fmt.Fprintf(c.Out(), "ip %s > %s proto %d\n", src, dst, proto)
		}
		_ = flagsFrag

		c.Next = routeByProtocol(proto, tcp, udp, sctp, unknown)
	}

	return NewStage("ipv4",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}

// NewIPv6Stage parses the fixed 40-byte IPv6 header (no extension-header
// walk) and routes on NextHeader.
func NewIPv6Stage(tcp, udp, sctp, unknown *Stage) *Stage {
	parse := func(c *Cursor, full bool) {
		verClassFlow, err := c.ReadUint32()
		if err != nil {
			return
		}
		payloadLen, err := c.ReadUint16()
		if err != nil {
			return
		}
		nextHeader, err := c.ReadUint8()
		if err != nil {
			return
		}
		hopLimit, err := c.ReadUint8()
		if err != nil {
			return
		}
		srcBytes, err := c.ReadBytes(16)
		if err != nil {
			return
		}
		dstBytes, err := c.ReadBytes(16)
		if err != nil {
			return
		}

		proto := IPProtocol(nextHeader)
		src := net.IP(srcBytes)
		dst := net.IP(dstBytes)
		trafficClass := uint8(verClassFlow >> 20)

		if full {
			fmt.Fprintf(c.Out(), "ip6: %s > %s next-header %d payload-len %d hop-limit %d tclass %d\n",
				src, dst, proto, payloadLen, hopLimit, trafficClass)
		} else {
			fmt.Fprintf(c.Out(), "ip6 %s > %s next-header %d\n", src, dst, proto)
		}

		c.Next = routeByProtocol(proto, tcp, udp, sctp, unknown)
	}

	return NewStage("ipv6",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
