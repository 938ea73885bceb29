package dissect

import "fmt"

// SCTPChunkType names the chunk types walked by NewSCTPStage.
type SCTPChunkType uint8

const (
	SCTPChunkData              SCTPChunkType = 0
	SCTPChunkInit              SCTPChunkType = 1
	SCTPChunkInitAck           SCTPChunkType = 2
	SCTPChunkSack              SCTPChunkType = 3
	SCTPChunkHeartbeat         SCTPChunkType = 4
	SCTPChunkHeartbeatAck      SCTPChunkType = 5
	SCTPChunkAbort             SCTPChunkType = 6
	SCTPChunkShutdown          SCTPChunkType = 7
	SCTPChunkShutdownAck       SCTPChunkType = 8
	SCTPChunkError             SCTPChunkType = 9
	SCTPChunkCookieEcho        SCTPChunkType = 10
	SCTPChunkCookieAck         SCTPChunkType = 11
	SCTPChunkShutdownComplete  SCTPChunkType = 14
)

func (t SCTPChunkType) String() string {
	switch t {
	case SCTPChunkData:
		return "DATA"
	case SCTPChunkInit:
		return "INIT"
	case SCTPChunkInitAck:
		return "INIT_ACK"
	case SCTPChunkSack:
		return "SACK"
	case SCTPChunkHeartbeat:
		return "HEARTBEAT"
	case SCTPChunkHeartbeatAck:
		return "HEARTBEAT_ACK"
	case SCTPChunkAbort:
		return "ABORT"
	case SCTPChunkShutdown:
		return "SHUTDOWN"
	case SCTPChunkShutdownAck:
		return "SHUTDOWN_ACK"
	case SCTPChunkError:
		return "ERROR"
	case SCTPChunkCookieEcho:
		return "COOKIE_ECHO"
	case SCTPChunkCookieAck:
		return "COOKIE_ACK"
	case SCTPChunkShutdownComplete:
		return "SHUTDOWN_COMPLETE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// align4 rounds n up to the next multiple of 4, matching SCTP's chunk
// padding rule.
func align4(n int) int {
	return (n + 3) &^ 3
}

// NewSCTPStage parses the fixed 12-byte common header, then walks chunk
// (type, flags, length) triples; per-chunk-type parameter bodies aren't
// decoded, only the chunk type and length are surfaced. Terminal stage.
func NewSCTPStage() *Stage {
	parse := func(c *Cursor, full bool) {
		srcPort, err := c.ReadUint16()
		if err != nil {
			return
		}
		dstPort, err := c.ReadUint16()
		if err != nil {
			return
		}
		vtag, err := c.ReadUint32()
		if err != nil {
			return
		}
		checksum, err := c.ReadUint32()
		if err != nil {
			return
		}

		if full {
			fmt.Fprintf(c.Out(), "sctp: %d > %d vtag 0x%08x checksum 0x%08x\n", srcPort, dstPort, vtag, checksum)
		} else {
			fmt.Fprintf(c.Out(), "sctp %d > %d\n", srcPort, dstPort)
		}

		for c.Remaining() >= 4 {
			chunkType, err := c.ReadUint8()
			if err != nil {
				return
			}
			flags, err := c.ReadUint8()
			if err != nil {
				return
			}
			length, err := c.ReadUint16()
			if err != nil {
				return
			}
			if full {
				fmt.Fprintf(c.Out(), "  chunk %s flags 0x%02x len %d\n", SCTPChunkType(chunkType), flags, length)
			}

			body := align4(int(length)) - 4
			if body < 0 {
				return
			}
			if _, err := c.ReadBytes(body); err != nil {
				return
			}
		}
	}

	return NewStage("sctp",
		func(c *Cursor) { parse(c, true) },
		func(c *Cursor) { parse(c, false) },
	)
}
