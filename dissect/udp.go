package dissect

import "fmt"

// NewUDPStage builds the terminal UDP stage: source/dest port, length and
// checksum, no further stage to hand off to.
func NewUDPStage() *Stage {
	parse := func(c *Cursor, full bool) {
		srcPort, err := c.ReadUint16()
		if err != nil {
			return
		}
		dstPort, err := c.ReadUint16()
		if err != nil {
			return
		}
		length, err := c.ReadUint16()
		if err != nil {
			return
		}
		checksum, err := c.ReadUint16()
		if err != nil {
			return
		}

		if full {
			fmt.Fprintf(c.Out(), "udp: %d > %d len %d checksum 0x%04x\n", srcPort, dstPort, length, checksum)
		} else {
			fmt.Fprintf(c.Out(), "udp %d > %d\n", srcPort, dstPort)
		}
	}

	return NewStage("udp",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
