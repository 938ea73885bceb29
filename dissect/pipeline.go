package dissect

import (
	"fmt"
	"io"
	"time"

	"github.com/pktrace/pcapkit/internal/metrics"
)

// Dissect is the pipeline entry point. Given the raw packet bytes, its
// linktype, the print mode and the interface sockaddr it arrived on, it
// selects a chain from reg, drives it, and appends the hex/ASCII dumps the
// mode asks for.
func Dissect(reg *Registry, packet []byte, linkType uint32, mode Mode, sll *LinkAddr, out io.Writer) {
	if mode == ModeNone {
		return
	}

	start := time.Now()
	defer func() { metrics.DissectDuration.Observe(time.Since(start).Seconds()) }()

	chain := reg.Lookup(linkType)

	cur := NewCursor(packet, linkType, sll, out)

	var preserved *Cursor
	if mode&ModeHeaders != 0 {
		preserved = cur.Clone()
	} else {
		preserved = cur
	}

	driveChain(cur, chain)

	if mode&ModeHex != 0 {
		hexDump(out, preserved.Clone())
	}
	if mode&ModeASCII != 0 {
		asciiDump(out, preserved.Clone())
	}
}

// hexDump renders the preserved cursor's untouched buffer as a classic
// 16-bytes-per-line hex dump.
func hexDump(out io.Writer, c *Cursor) {
	buf := c.Buf
	for i := 0; i < len(buf); i += 16 {
		end := i + 16
		if end > len(buf) {
			end = len(buf)
		}
		fmt.Fprintf(out, "%04x  ", i)
		for j := i; j < end; j++ {
			fmt.Fprintf(out, "%02x ", buf[j])
		}
		fmt.Fprintln(out)
	}
}

// asciiDump renders the preserved cursor's untouched buffer as printable
// ASCII, substituting '.' for non-printable bytes.
func asciiDump(out io.Writer, c *Cursor) {
	buf := c.Buf
	line := make([]byte, 0, 64)
	for i, b := range buf {
		if b >= 0x20 && b < 0x7f {
			line = append(line, b)
		} else {
			line = append(line, '.')
		}
		if (i+1)%64 == 0 {
			fmt.Fprintln(out, string(line))
			line = line[:0]
		}
	}
	if len(line) > 0 {
		fmt.Fprintln(out, string(line))
	}
}
