package strategy

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pktrace/pcapkit/header"
)

func sampleFileHeader() header.FileHeader {
	return header.FileHeader{
		Variant:      header.VariantDefault,
		Order:        binary.BigEndian,
		VersionMajor: header.VersionMajor,
		VersionMinor: header.VersionMinor,
		Snaplen:      header.DefaultSnapshotLen,
		Linktype:     1,
	}
}

func withTempFile(t *testing.T) (*os.File, func()) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "strategy-*.pcap")
	require.NoError(t, err)
	return f, func() { f.Close() }
}

func testBackendFileHeaderRoundTrip(t *testing.T, s Strategy) {
	f, cleanup := withTempFile(t)
	defer cleanup()

	fh := sampleFileHeader()
	require.NoError(t, s.PushFileHeader(int(f.Fd()), fh))

	_, err := f.Seek(0, 0)
	require.NoError(t, err)

	got, err := s.PullFileHeader(int(f.Fd()))
	require.NoError(t, err)
	require.Equal(t, fh.VersionMajor, got.VersionMajor)
	require.Equal(t, fh.Snaplen, got.Snaplen)
	require.Equal(t, fh.Linktype, got.Linktype)
}

func TestPlainFileHeaderRoundTrip(t *testing.T) {
	testBackendFileHeaderRoundTrip(t, NewPlain())
}

func TestScatterGatherFileHeaderRoundTrip(t *testing.T) {
	testBackendFileHeaderRoundTrip(t, NewScatterGather())
}

func testBackendPacketRoundTrip(t *testing.T, s Strategy) {
	f, cleanup := withTempFile(t)
	defer cleanup()

	hdr := header.PacketHeader{
		Variant: header.VariantDefault,
		Sec:     100,
		Frac:    200,
		Caplen:  5,
		Len:     5,
	}
	payload := []byte{1, 2, 3, 4, 5}

	require.NoError(t, s.WritePacket(int(f.Fd()), hdr, binary.BigEndian, payload))
	_, err := f.Seek(0, 0)
	require.NoError(t, err)

	buf := make([]byte, 16)
	got, n, err := s.ReadPacket(int(f.Fd()), header.VariantDefault, binary.BigEndian, buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, payload, buf[:n])
	require.Equal(t, hdr.Sec, got.Sec)
	require.Equal(t, hdr.Caplen, got.Caplen)
}

func TestPlainPacketRoundTrip(t *testing.T) {
	testBackendPacketRoundTrip(t, NewPlain())
}

func TestScatterGatherPacketRoundTrip(t *testing.T) {
	testBackendPacketRoundTrip(t, NewScatterGather())
}

func TestPlainReadPacketClipsToBufferAndAdvancesPastRecord(t *testing.T) {
	f, cleanup := withTempFile(t)
	defer cleanup()

	s := NewPlain()
	hdr := header.PacketHeader{Variant: header.VariantDefault, Caplen: 10, Len: 10}
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.NoError(t, s.WritePacket(int(f.Fd()), hdr, binary.BigEndian, payload))

	second := header.PacketHeader{Variant: header.VariantDefault, Caplen: 3, Len: 3}
	require.NoError(t, s.WritePacket(int(f.Fd()), second, binary.BigEndian, []byte{9, 9, 9}))

	_, err := f.Seek(0, 0)
	require.NoError(t, err)

	small := make([]byte, 4)
	_, n, err := s.ReadPacket(int(f.Fd()), header.VariantDefault, binary.BigEndian, small)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, n2, err := s.ReadPacket(int(f.Fd()), header.VariantDefault, binary.BigEndian, small)
	require.NoError(t, err)
	require.Equal(t, 3, n2)
	require.Equal(t, []byte{9, 9, 9}, small[:n2])
}

func TestMmapMappableRejectsPipes(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	require.False(t, Mappable(int(r.Fd())))
}

func TestMmapMappableAcceptsRegularFile(t *testing.T) {
	f, cleanup := withTempFile(t)
	defer cleanup()
	require.True(t, Mappable(int(f.Fd())))
}
