package dissect

// Mode is the dissector print-mode bitmask. Combinations are legal — e.g.
// ModeLess|ModeHex selects the compact printer with a hex dump appended.
type Mode uint8

const (
	ModeNone    Mode = 0
	ModeNormal  Mode = 1 << 0
	ModeLess    Mode = 1 << 1
	ModeHeaders Mode = 1 << 2
	ModeHex     Mode = 1 << 3
	ModeASCII   Mode = 1 << 4
)

// ProcessFunc is a stage's active callback: it parses the protocol header
// at the cursor's current offset, writes its representation to c.Out(),
// and sets c.Next to the stage that should run next (or leaves it nil to
// terminate the chain).
type ProcessFunc func(c *Cursor)

// Stage is a node in a protocol chain: a name, the two print routines, the
// currently selected one, and the static forward link used only by
// SetPrintType's bulk walk. A stage has one static link, so it is walked
// from one chain head only; stages reachable from several chains (the
// ip/transport stages shared by the Ethernet and SLL chains) are reached
// by SetPrintType through the Ethernet chain's walk. Chains are built once
// at startup and never mutated during dissection — only
// SetPrintType touches this struct's fields, and only at startup or a mode
// change.
type Stage struct {
	Name string

	PrintFull    ProcessFunc
	PrintCompact ProcessFunc
	Active       ProcessFunc

	// next is the static registration-order link used by the bulk
	// SetPrintType walk; it is unrelated to Cursor.Next, which is the
	// dynamic per-packet successor a stage chooses at parse time.
	next *Stage
}

// NewStage builds a stage with both print routines set and no active
// routine; call SetPrintType on its chain to activate one.
func NewStage(name string, full, compact ProcessFunc) *Stage {
	return &Stage{Name: name, PrintFull: full, PrintCompact: compact}
}

// link appends next onto the static chain used by SetPrintType. Chain
// builders call this once per stage at startup.
func (s *Stage) link(next *Stage) *Stage {
	s.next = next
	return next
}

// SetPrintType performs the bulk, startup-or-mode-change walk: every stage
// in the chain starting at head gets its Active routine set according to
// mode. This is the one place protocol chain state is mutated outside of
// dissection.
func SetPrintType(head *Stage, mode Mode) {
	for s := head; s != nil; s = s.next {
		switch {
		case mode&ModeNormal != 0:
			s.Active = s.PrintFull
		case mode&ModeLess != 0:
			s.Active = s.PrintCompact
		default:
			s.Active = nil
		}
	}
}

// Chain is a pre-built, immutable (outside SetPrintType) protocol chain for
// one linktype: a distinguished head (where dissection starts) and an
// optional tail (always invoked last if it has an active routine — e.g. a
// newline/line-flush stage).
type Chain struct {
	Head *Stage
	Tail *Stage
}

// driveChain runs the chain driver: load cur.Next into a local, clear
// cur.Next, invoke the local's Active callback; stop when a stage yields
// nil or has no Active callback; then unconditionally invoke Tail if
// present and active.
func driveChain(c *Cursor, chain Chain) {
	if chain.Head == nil {
		return
	}

	c.Next = chain.Head
	for c.Next != nil {
		if c.Next.Active == nil {
			break
		}
		stage := c.Next
		c.Next = nil
		stage.Active(c)
	}

	if chain.Tail != nil && chain.Tail.Active != nil {
		chain.Tail.Active(c)
	}
}
