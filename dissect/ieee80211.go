package dissect

import "fmt"

// radiotapPresent reports whether c's linktype is the radiotap-prefixed
// 802.11 linktype rather than bare 802.11.
func radiotapPresent(linkType uint32, radiotapType uint32) bool {
	return linkType == radiotapType
}

// NewIEEE80211Stage builds the 802.11 entry stage (with or without a
// radiotap prefix). Full 802.11 frame parsing isn't implemented; this
// stage reports frame length and, when present, skips the radiotap header
// by its declared length field (the second little-endian uint16 in the
// radiotap header) before stopping. Terminal stage.
func NewIEEE80211Stage(radiotapLinktype uint32) *Stage {
	parse := func(c *Cursor, full bool) {
		if radiotapPresent(c.LinkType, radiotapLinktype) {
			if c.Remaining() < 4 {
				return
			}
			hdr, err := c.Take(4)
			if err != nil {
				return
			}
			radiotapLen := int(hdr[2]) | int(hdr[3])<<8
			if radiotapLen < 4 {
				return
			}
			if _, err := c.ReadBytes(radiotapLen); err != nil {
				return
			}
			if full {
				fmt.Fprintf(c.Out(), "radiotap: len %d\n", radiotapLen)
			}
		}

		if full {
			fmt.Fprintf(c.Out(), "ieee802.11: %d bytes\n", c.Remaining())
		} else {
			fmt.Fprintf(c.Out(), "ieee802.11 %d bytes\n", c.Remaining())
		}
	}

	return NewStage("ieee802.11",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
