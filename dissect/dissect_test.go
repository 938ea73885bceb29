package dissect

import (
	"bytes"
	"testing"

	"github.com/pktrace/pcapkit/linktype"
)

func TestSetPrintTypeBulkSet(t *testing.T) {
	full := func(*Cursor) {}
	compact := func(*Cursor) {}
	a := NewStage("a", full, compact)
	b := NewStage("b", full, compact)
	c := NewStage("c", full, compact)
	a.link(b).link(c)

	SetPrintType(a, ModeNormal)
	for _, s := range []*Stage{a, b, c} {
		if s.Active == nil {
			t.Fatalf("%s: expected full printer active", s.Name)
		}
	}

	SetPrintType(a, ModeLess)
	for _, s := range []*Stage{a, b, c} {
		if s.Active == nil {
			t.Fatalf("%s: expected compact printer active", s.Name)
		}
	}

	SetPrintType(a, ModeNone)
	for _, s := range []*Stage{a, b, c} {
		if s.Active != nil {
			t.Fatalf("%s: expected no active printer", s.Name)
		}
	}
}

func TestChainTerminatesOnNilNext(t *testing.T) {
	var ran []string

	terminal := NewStage("terminal",
		func(c *Cursor) { ran = append(ran, "terminal") },
		func(c *Cursor) { ran = append(ran, "terminal") },
	)
	head := NewStage("head",
		func(c *Cursor) { ran = append(ran, "head"); c.Next = nil },
		func(c *Cursor) { ran = append(ran, "head"); c.Next = nil },
	)
	head.link(terminal)
	SetPrintType(head, ModeNormal)
	SetPrintType(terminal, ModeNormal)

	tail := NewStage("tail", func(c *Cursor) { ran = append(ran, "tail") }, nil)
	SetPrintType(tail, ModeNormal)

	cur := NewCursor(nil, 0, nil, &bytes.Buffer{})
	driveChain(cur, Chain{Head: head, Tail: tail})

	if len(ran) != 2 || ran[0] != "head" || ran[1] != "tail" {
		t.Fatalf("expected [head tail], got %v", ran)
	}
}

func TestChainRunsUntilNilAdvance(t *testing.T) {
	var count int
	make3 := func(name string, next **Stage) *Stage {
		return NewStage(name, func(c *Cursor) {
			count++
			c.Next = *next
		}, nil)
	}

	var third, second, first *Stage
	third = make3("third", new(*Stage)) // leaves c.Next nil (zero value)
	second = make3("second", &third)
	first = make3("first", &second)

	first.link(second).link(third)
	SetPrintType(first, ModeNormal)

	cur := NewCursor(nil, 0, nil, &bytes.Buffer{})
	driveChain(cur, Chain{Head: first})

	if count != 3 {
		t.Fatalf("expected 3 stages to run, got %d", count)
	}
}

func TestDissectorSelectionByLinktype(t *testing.T) {
	reg := NewRegistry()

	var buf bytes.Buffer
	nlPacket := make([]byte, 16)
	Dissect(reg, nlPacket, uint32(linktype.NETLINK), ModeNormal, nil, &buf)
	if buf.Len() == 0 {
		t.Fatal("expected netlink chain to produce output for LINKTYPE_NETLINK")
	}

	var swapped bytes.Buffer
	Dissect(reg, nlPacket, uint32(linktype.NETLINK.Swapped()), ModeNormal, nil, &swapped)
	if swapped.Len() == 0 {
		t.Fatal("expected byte-swapped LINKTYPE_NETLINK to also select the netlink chain")
	}
}

func TestDissectorNoopForUnknownLinktype(t *testing.T) {
	reg := NewRegistry()
	var buf bytes.Buffer
	Dissect(reg, []byte{1, 2, 3, 4}, 0x9999, ModeNormal, nil, &buf)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for unrecognized linktype, got %q", buf.String())
	}
}

func TestDissectModeNoneIsNoAllocationNoOutput(t *testing.T) {
	reg := NewRegistry()
	var buf bytes.Buffer
	Dissect(reg, []byte{1, 2, 3}, uint32(1), ModeNone, nil, &buf)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for ModeNone, got %q", buf.String())
	}

	pkt := []byte{1, 2, 3}
	allocs := testing.AllocsPerRun(100, func() {
		Dissect(reg, pkt, uint32(1), ModeNone, nil, &buf)
	})
	if allocs != 0 {
		t.Fatalf("expected no allocation for ModeNone, got %v per run", allocs)
	}
}
