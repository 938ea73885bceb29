package header

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-test/deep"
)

func TestDetectMagicBothOrders(t *testing.T) {
	cases := []struct {
		raw     [4]byte
		variant Variant
		order   binary.ByteOrder
	}{
		{[4]byte{0xa1, 0xb2, 0xc3, 0xd4}, VariantDefault, binary.BigEndian},
		{[4]byte{0xd4, 0xc3, 0xb2, 0xa1}, VariantDefault, binary.LittleEndian},
		{[4]byte{0xa1, 0xb2, 0x3c, 0x4d}, VariantNsec, binary.BigEndian},
		{[4]byte{0x4d, 0x3c, 0xb2, 0xa1}, VariantNsec, binary.LittleEndian},
		{[4]byte{0xa1, 0xb2, 0xcd, 0x34}, VariantKuznetzov, binary.BigEndian},
		{[4]byte{0xa1, 0xe2, 0xcb, 0x12}, VariantBorkmann, binary.BigEndian},
	}
	for _, c := range cases {
		v, order, ok := DetectMagic(c.raw)
		if !ok {
			t.Fatalf("% x: expected a recognized magic", c.raw)
		}
		if v != c.variant || order != c.order {
			t.Errorf("% x: got (%v, %v), want (%v, %v)", c.raw, v, order, c.variant, c.order)
		}
	}
}

func TestDetectMagicUnknown(t *testing.T) {
	if _, _, ok := DetectMagic([4]byte{0, 1, 2, 3}); ok {
		t.Fatal("expected unknown magic to be rejected")
	}
}

func TestFileHeaderRoundTrip(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		in := FileHeader{
			Variant:      VariantNsec,
			Order:        order,
			VersionMajor: VersionMajor,
			VersionMinor: VersionMinor,
			ThisZone:     -18000,
			SigFigs:      0,
			Snaplen:      DefaultSnapshotLen,
			Linktype:     1,
		}

		var buf bytes.Buffer
		if err := in.Encode(&buf); err != nil {
			t.Fatalf("encode: %v", err)
		}
		if buf.Len() != FileHeaderLen {
			t.Fatalf("got %d bytes, want %d", buf.Len(), FileHeaderLen)
		}

		out, err := DecodeFileHeader(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if diff := deep.Equal(in, out); diff != nil {
			t.Errorf("round trip mismatch: %v", diff)
		}
	}
}

func TestFileHeaderBadVersionRejected(t *testing.T) {
	fh := FileHeader{
		Variant: VariantDefault, Order: binary.BigEndian,
		VersionMajor: 2, VersionMinor: 2,
	}
	var buf bytes.Buffer
	if err := fh.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeFileHeader(&buf); err != ErrBadVersion {
		t.Fatalf("got %v, want ErrBadVersion", err)
	}
}

func TestPacketHeaderRoundTripAllVariants(t *testing.T) {
	variants := []Variant{
		VariantDefault, VariantNsec, VariantDefaultLL, VariantNsecLL,
		VariantKuznetzov, VariantBorkmann,
	}
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		for _, v := range variants {
			in := PacketHeader{
				Variant: v,
				Sec:     1700000000,
				Frac:    123456,
				Caplen:  96,
				Len:     96,
			}
			if v.HasSidecar() {
				in.Sidecar = Sidecar{
					PktType: 4, Hatype: 1, Halen: 6,
					Addr:     [8]byte{1, 2, 3, 4, 5, 6},
					Protocol: 0x0800,
				}
			}
			if v == VariantKuznetzov || v == VariantBorkmann {
				in.Ifindex = 3
				in.Protocol = 0x0800
				in.PktType = 0
			}
			if v == VariantBorkmann {
				in.TSource = 1
				in.Hatype = 1
			}

			var buf bytes.Buffer
			if err := in.Encode(&buf, order); err != nil {
				t.Fatalf("%v/%v encode: %v", v, order, err)
			}
			if buf.Len() != in.HeaderLen() {
				t.Fatalf("%v: got %d bytes, want %d", v, buf.Len(), in.HeaderLen())
			}

			out, err := DecodePacketHeader(&buf, order, v)
			if err != nil {
				t.Fatalf("%v/%v decode: %v", v, order, err)
			}
			if diff := deep.Equal(in, out); diff != nil {
				t.Errorf("%v/%v round trip mismatch: %v", v, order, diff)
			}
		}
	}
}

func TestLengthAccounting(t *testing.T) {
	h := PacketHeader{Variant: VariantDefaultLL, Caplen: 48, Len: 48}
	if got, want := h.PayloadLen(), uint32(32); got != want {
		t.Errorf("payload len = %d, want %d", got, want)
	}
	if got, want := h.TotalLen(), h.HeaderLen()+32; got != want {
		t.Errorf("total len = %d, want %d", got, want)
	}
}
