package linktype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestSwappedRoundTrips(t *testing.T) {
	assert.Equal(t, NETLINK, NETLINK.Swapped().Swapped())
}

func TestCanonicalAcceptsPlainEncoding(t *testing.T) {
	got, ok := EN10MB.Canonical()
	assert.True(t, ok)
	assert.Equal(t, EN10MB, got)
}

func TestCanonicalAcceptsSwappedEncoding(t *testing.T) {
	got, ok := EN10MB.Swapped().Canonical()
	assert.True(t, ok)
	assert.Equal(t, EN10MB, got)
}

func TestCanonicalRejectsUnknownLinktype(t *testing.T) {
	_, ok := Type(0x9999).Canonical()
	assert.False(t, ok)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(LINUX_SLL))
	assert.True(t, Supported(LINUX_SLL.Swapped()))
	assert.False(t, Supported(Type(0xdeadbeef)))
}

func TestHasSidecarOnlyForSLLAndNetlink(t *testing.T) {
	assert.True(t, HasSidecar(LINUX_SLL))
	assert.True(t, HasSidecar(NETLINK.Swapped()))
	assert.False(t, HasSidecar(EN10MB))
	assert.False(t, HasSidecar(Type(0xdeadbeef)))
}

func TestFromDeviceTypeMapsKnownHardwareTypes(t *testing.T) {
	cases := []struct {
		devType int
		want    Type
	}{
		{unix.ARPHRD_ETHER, EN10MB},
		{unix.ARPHRD_LOOPBACK, EN10MB},
		{unix.ARPHRD_NETLINK, NETLINK},
		{unix.ARPHRD_IEEE80211_RADIOTAP, IEEE802_11_RADIOTAP},
		{unix.ARPHRD_IEEE80211, IEEE802_11},
		{unix.ARPHRD_PPP, PPP},
		{unix.ARPHRD_SLIP, SLIP},
		{unix.ARPHRD_CAN, CAN20B},
		{unix.ARPHRD_FDDI, FDDI},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FromDeviceType(c.devType))
	}
}

func TestFromDeviceTypeDefaultsToNull(t *testing.T) {
	assert.Equal(t, NULL, FromDeviceType(-1))
}
