package dissect

import "fmt"

var tcpFlagNames = []struct {
	mask byte
	name string
}{
	{0x80, "CWR"}, {0x40, "ECE"}, {0x20, "URG"}, {0x10, "ACK"},
	{0x08, "PSH"}, {0x04, "RST"}, {0x02, "SYN"}, {0x01, "FIN"},
}

func tcpFlagString(flags byte) string {
	s := ""
	for _, f := range tcpFlagNames {
		if flags&f.mask != 0 {
			s += f.name + " "
		}
	}
	return s
}

// NewTCPStage parses ports, sequence/ack numbers, the bit-packed
// data-offset/flags byte pair, window, checksum and urgent pointer. It is
// a terminal stage: TCP payload isn't dissected further, so it leaves
// c.Next nil.
func NewTCPStage() *Stage {
	parse := func(c *Cursor, full bool) {
		srcPort, err := c.ReadUint16()
		if err != nil {
			return
		}
		dstPort, err := c.ReadUint16()
		if err != nil {
			return
		}
		seq, err := c.ReadUint32()
		if err != nil {
			return
		}
		ack, err := c.ReadUint32()
		if err != nil {
			return
		}
		offsetReserved, err := c.ReadUint8()
		if err != nil {
			return
		}
		flags, err := c.ReadUint8()
		if err != nil {
			return
		}
		window, err := c.ReadUint16()
		if err != nil {
			return
		}
		checksum, err := c.ReadUint16()
		if err != nil {
			return
		}
		urgent, err := c.ReadUint16()
		if err != nil {
			return
		}

		headerWords := offsetReserved >> 4
		if headerWords > 5 {
			if _, err := c.ReadBytes(int(headerWords-5) * 4); err != nil {
				return
			}
		}

		if full {
			fmt.Fprintf(c.Out(), "tcp: %d > %d [%s] seq %d ack %d win %d checksum 0x%04x urg %d\n",
				srcPort, dstPort, tcpFlagString(flags), seq, ack, window, checksum, urgent)
		} else {
			fmt.Fprintf(c.Out(), "tcp %d > %d [%s]\n", srcPort, dstPort, tcpFlagString(flags))
		}
	}

	return NewStage("tcp",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
