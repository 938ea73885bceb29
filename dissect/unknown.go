package dissect

import "fmt"

// NewUnknownStage builds the terminal stage used whenever a layer's
// selector field (ethertype, IP protocol, SCTP chunk type, ...) doesn't map
// to a recognized upper layer. It reports the remaining byte count and
// stops the chain.
func NewUnknownStage() *Stage {
	parse := func(c *Cursor, full bool) {
		if full {
			fmt.Fprintf(c.Out(), "unknown: %d bytes\n", c.Remaining())
		}
	}
	return NewStage("unknown",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}

// NewLineFlushStage builds the tail stage every chain shares: it emits a
// blank line once dissection of a packet's chain completes.
func NewLineFlushStage() *Stage {
	flush := func(c *Cursor) {
		fmt.Fprintln(c.Out())
	}
	return NewStage("flush", flush, flush)
}
