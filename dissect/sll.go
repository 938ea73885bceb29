package dissect

import "fmt"

// NewSLLStage builds the Linux "cooked" capture (LINKTYPE_LINUX_SLL) entry
// stage. Its fixed 16-byte cooked header carries the same protocol field an
// Ethernet frame's ethertype does, so this stage routes into the same
// IPv4/IPv6 chain Ethernet does, reusing the shared ip/tcp/udp/sctp stages
// from a second entry point.
func NewSLLStage(ipv4, ipv6, unknown *Stage) *Stage {
	parse := func(c *Cursor, full bool) {
		pktType, err := c.ReadUint16()
		if err != nil {
			return
		}
		hatype, err := c.ReadUint16()
		if err != nil {
			return
		}
		halen, err := c.ReadUint16()
		if err != nil {
			return
		}
		addr, err := c.ReadBytes(8)
		if err != nil {
			return
		}
		protocol, err := c.ReadUint16()
		if err != nil {
			return
		}

		if full {
			fmt.Fprintf(c.Out(), "sll: pkttype %d hatype %d halen %d addr %x protocol 0x%04x\n",
				pktType, hatype, halen, addr[:minInt(int(halen), 8)], protocol)
		} else {
			fmt.Fprintf(c.Out(), "sll pkttype %d protocol 0x%04x\n", pktType, protocol)
		}

		switch EtherType(protocol) {
		case EtherTypeIPv4:
			c.Next = ipv4
		case EtherTypeIPv6:
			c.Next = ipv6
		default:
			c.Next = unknown
		}
	}

	return NewStage("sll",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
