package kdesc

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/pktrace/pcapkit/header"
)

func sampleSll() LinkAddr {
	return LinkAddr{
		PktType:  4,
		Hatype:   1,
		Halen:    6,
		Protocol: 0x0800,
		Addr:     [8]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0, 0},
		Ifindex:  3,
	}
}

func TestToHeaderMicrosecondDerivation(t *testing.T) {
	d := Descriptor{Sec: 100, Nsec: 123456789, Snaplen: 64, Len: 64}
	h := ToHeader(d, header.VariantDefault)
	if h.Frac != 123456 {
		t.Fatalf("expected microsecond truncation 123456, got %d", h.Frac)
	}
}

func TestToHeaderNanosecondCopiedDirectly(t *testing.T) {
	d := Descriptor{Sec: 100, Nsec: 123456789, Snaplen: 64, Len: 64}
	h := ToHeader(d, header.VariantNsec)
	if h.Frac != 123456789 {
		t.Fatalf("expected nanoseconds copied directly, got %d", h.Frac)
	}
}

func TestToHeaderLLIncludesSidecarInLengths(t *testing.T) {
	d := Descriptor{Sec: 1, Nsec: 0, Snaplen: 64, Len: 100, Sll: sampleSll()}
	h := ToHeader(d, header.VariantDefaultLL)
	if h.Caplen != 64+header.SidecarLen {
		t.Fatalf("expected caplen to include sidecar, got %d", h.Caplen)
	}
	if h.Len != 100+header.SidecarLen {
		t.Fatalf("expected len to include sidecar, got %d", h.Len)
	}
	if h.Sidecar.Protocol != 0x0800 {
		t.Fatalf("expected sidecar populated from sockaddr, got %+v", h.Sidecar)
	}
}

func TestFromHeaderLLLengthsAreSidecarExclusive(t *testing.T) {
	d := Descriptor{Sec: 1, Nsec: 0, Snaplen: 64, Len: 100, Sll: sampleSll()}
	h := ToHeader(d, header.VariantNsecLL)

	back := FromHeader(h)
	if back.Snaplen != 64 {
		t.Fatalf("expected round-tripped snaplen 64, got %d", back.Snaplen)
	}
	if back.Len != 100 {
		t.Fatalf("expected round-tripped len 100, got %d", back.Len)
	}
	// The sidecar carries no interface index, so FromHeader cannot
	// recover it for *_LL variants.
	want := d.Sll
	want.Ifindex = 0
	if diff := deep.Equal(back.Sll, want); diff != nil {
		t.Fatalf("sockaddr round trip mismatch: %v", diff)
	}
}

func TestKuznetzovRoundTrip(t *testing.T) {
	d := Descriptor{Sec: 5, Nsec: 9000, Snaplen: 40, Len: 40, Sll: sampleSll()}
	h := ToHeader(d, header.VariantKuznetzov)
	if h.Ifindex != 3 || h.Protocol != 0x0800 || h.PktType != 4 {
		t.Fatalf("unexpected kuznetzov fields: %+v", h)
	}

	back := FromHeader(h)
	if back.Sll.Ifindex != 3 || back.Sll.Protocol != 0x0800 || back.Sll.PktType != 4 {
		t.Fatalf("unexpected round-tripped sll: %+v", back.Sll)
	}
}

func TestBorkmannTSourcePriority(t *testing.T) {
	cases := []struct {
		name   string
		status uint32
		want   uint16
	}{
		{"none", 0, TSourceNone},
		{"software", StatusTSSoftware, TSourceSoftware},
		{"sys hardware wins over software", StatusTSSoftware | StatusTSSysHardware, TSourceSysHardware},
		{"raw hardware wins over all", StatusTSSoftware | StatusTSSysHardware | StatusTSRawHardware, TSourceRawHardware},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Descriptor{Sec: 1, Nsec: 1000, Snaplen: 10, Len: 10, Status: tc.status, Sll: sampleSll()}
			h := ToHeader(d, header.VariantBorkmann)
			if h.TSource != tc.want {
				t.Fatalf("expected tsource %d, got %d", tc.want, h.TSource)
			}
		})
	}
}

func TestBorkmannRoundTripPreservesTSource(t *testing.T) {
	d := Descriptor{Sec: 1, Nsec: 1000, Snaplen: 10, Len: 10, Status: StatusTSRawHardware, Sll: sampleSll()}
	h := ToHeader(d, header.VariantBorkmann)
	back := FromHeader(h)
	if back.Status != StatusTSRawHardware {
		t.Fatalf("expected status to fold back to raw hardware bit, got 0x%x", back.Status)
	}
}

func TestMicrosecondRoundTripMultipliesBy1000(t *testing.T) {
	d := Descriptor{Sec: 1, Nsec: 7000, Snaplen: 10, Len: 10}
	h := ToHeader(d, header.VariantDefault)
	back := FromHeader(h)
	if back.Nsec != 7000 {
		t.Fatalf("expected 7us to round-trip as 7000ns, got %d", back.Nsec)
	}
}
