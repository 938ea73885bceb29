package dissect

import "github.com/pktrace/pcapkit/linktype"

// Registry holds the chains built once at startup and looked up by
// linktype for each captured packet. Chains are pre-built and never
// mutated during dissection.
type Registry struct {
	chains map[linktype.Type]Chain
	noop   Chain
}

// NewRegistry builds the fixed chain set this module recognizes: Ethernet,
// 802.11 (± radiotap), SLL and netlink, plus the no-op pair used for any
// other linktype. One chain per family is built once at process startup.
func NewRegistry() *Registry {
	unknown := NewUnknownStage()
	tcp := NewTCPStage()
	udp := NewUDPStage()
	sctp := NewSCTPStage()
	ipv4 := NewIPv4Stage(tcp, udp, sctp, unknown)
	ipv6 := NewIPv6Stage(tcp, udp, sctp, unknown)

	ethernet := NewEthernetStage(ipv4, ipv6, unknown)
	sll := NewSLLStage(ipv4, ipv6, unknown)
	netlinkStage := NewNetlinkStage()
	ieee80211 := NewIEEE80211Stage(uint32(linktype.IEEE802_11_RADIOTAP))

	// Static registration-order links for SetPrintType's bulk walk: each
	// chain links its own stages head-to-tail once.
	ethernet.link(ipv4).link(ipv6).link(tcp).link(udp).link(sctp).link(unknown)
	sll.link(unknown)
	ieee80211.link(unknown)
	netlinkStage.link(unknown)

	flushEth := NewLineFlushStage()
	flushSLL := NewLineFlushStage()
	flushNL := NewLineFlushStage()
	flush80211 := NewLineFlushStage()

	r := &Registry{
		chains: map[linktype.Type]Chain{
			linktype.EN10MB:              {Head: ethernet, Tail: flushEth},
			linktype.LINUX_SLL:           {Head: sll, Tail: flushSLL},
			linktype.NETLINK:             {Head: netlinkStage, Tail: flushNL},
			linktype.IEEE802_11:          {Head: ieee80211, Tail: flush80211},
			linktype.IEEE802_11_RADIOTAP: {Head: ieee80211, Tail: flush80211},
		},
		noop: Chain{},
	}

	// New chains start in full-print mode; a caller wanting compact
	// output or silence calls SetPrintType again.
	for _, chain := range r.chains {
		SetPrintType(chain.Head, ModeNormal)
		if chain.Tail != nil {
			SetPrintType(chain.Tail, ModeNormal)
		}
	}
	return r
}

// Lookup resolves linkType (in either byte order) to its chain, falling
// back to the no-op pair for anything not in the recognized family set.
func (r *Registry) Lookup(linkType uint32) Chain {
	canonical, ok := linktype.Type(linkType).Canonical()
	if !ok {
		return r.noop
	}
	if c, found := r.chains[canonical]; found {
		return c
	}
	return r.noop
}
