package dissect

import (
	"fmt"

	"github.com/vishvananda/netlink/nl"
)

// NewNetlinkStage builds the LINKTYPE_NETLINK entry stage. Per-family
// netlink message bodies aren't parsed; this stage surfaces only the
// nlmsghdr fields (length, type, flags, sequence, pid), decoded in the
// host's native netlink byte order via nl.NativeEndian(). Terminal stage.
func NewNetlinkStage() *Stage {
	order := nl.NativeEndian()

	parse := func(c *Cursor, full bool) {
		raw, err := c.ReadBytes(16)
		if err != nil {
			return
		}
		length := order.Uint32(raw[0:4])
		msgType := order.Uint16(raw[4:6])
		flags := order.Uint16(raw[6:8])
		seq := order.Uint32(raw[8:12])
		pid := order.Uint32(raw[12:16])

		if full {
			fmt.Fprintf(c.Out(), "nlmsg: len %d type %d flags 0x%04x seq %d pid %d\n",
				length, msgType, flags, seq, pid)
		} else {
			fmt.Fprintf(c.Out(), "nlmsg type %d\n", msgType)
		}
	}

	return NewStage("netlink",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
