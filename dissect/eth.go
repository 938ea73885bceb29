package dissect

import "fmt"

// EtherType identifies the payload of an Ethernet frame, pruned to the
// values the chain below routes on.
type EtherType uint16

const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
	EtherTypeIPv6 EtherType = 0x86DD
	EtherTypeVLAN EtherType = 0x8100
)

const minEtherType = 1536

// NewEthernetStage builds the Ethernet entry stage: it reads the two MAC
// addresses, an optional VLAN tag, the length/ethertype field, and routes
// to ipv4, ipv6 or unknown by ethertype.
func NewEthernetStage(ipv4, ipv6, unknown *Stage) *Stage {
	parse := func(c *Cursor, full bool) {
		dst, err := c.ReadBytes(6)
		if err != nil {
			return
		}
		src, err := c.ReadBytes(6)
		if err != nil {
			return
		}

		next, err := c.ReadUint16()
		if err != nil {
			return
		}

		var vlan uint16
		hasVLAN := false
		if EtherType(next) == EtherTypeVLAN {
			vlan, err = c.ReadUint16()
			if err != nil {
				return
			}
			hasVLAN = true
			next, err = c.ReadUint16()
			if err != nil {
				return
			}
		}

		if full {
			if hasVLAN {
				fmt.Fprintf(c.Out(), "eth: %x > %x vlan %d ethertype 0x%04x\n", src, dst, vlan&0x0fff, next)
			} else {
				fmt.Fprintf(c.Out(), "eth: %x > %x ethertype 0x%04x\n", src, dst, next)
			}
		} else {
			fmt.Fprintf(c.Out(), "eth %x > %x\n", src, dst)
		}

		if next < minEtherType {
			// The field was a length, not an ethertype: no known upper
			// layer to select.
			c.Next = unknown
			return
		}

		switch EtherType(next) {
		case EtherTypeIPv4:
			c.Next = ipv4
		case EtherTypeIPv6:
			c.Next = ipv6
		default:
			c.Next = unknown
		}
	}

	return NewStage("ethernet",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
