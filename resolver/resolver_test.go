package resolver

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(lookup func(net.IP) ([]string, error)) *Resolver {
	r := New()
	r.lookup = lookup
	return r
}

func TestSubmitBeforeInitPanics(t *testing.T) {
	r := New()
	assert.Panics(t, func() {
		r.Submit(net.ParseIP("127.0.0.1"), func([]string, interface{}) {}, nil)
	})
}

func TestInitTwicePanics(t *testing.T) {
	r := newTestResolver(func(net.IP) ([]string, error) { return nil, nil })
	r.Init()
	defer r.Uninit()

	assert.Panics(t, func() { r.Init() })
}

func TestSubmitAfterUninitPanics(t *testing.T) {
	r := newTestResolver(func(net.IP) ([]string, error) { return nil, nil })
	r.Init()
	r.Uninit()

	assert.Panics(t, func() {
		r.Submit(net.ParseIP("127.0.0.1"), func([]string, interface{}) {}, nil)
	})
}

func TestSuccessfulLookupInvokesCallback(t *testing.T) {
	r := newTestResolver(func(addr net.IP) ([]string, error) {
		return []string{"host." + addr.String()}, nil
	})
	r.Init()
	defer r.Uninit()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	r.Submit(net.ParseIP("10.0.0.1"), func(names []string, ctx interface{}) {
		mu.Lock()
		got = names
		mu.Unlock()
		close(done)
	}, nil)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback never ran")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"host.10.0.0.1"}, got)
}

func TestFailedLookupIsSilentlyDropped(t *testing.T) {
	r := newTestResolver(func(net.IP) ([]string, error) {
		return nil, errNoSuchHost
	})
	r.Init()
	defer r.Uninit()

	called := false
	r.Submit(net.ParseIP("10.0.0.2"), func([]string, interface{}) { called = true }, nil)

	// Run a second, successful request through the same FIFO worker and
	// wait on it: since the worker processes requests in order, by the
	// time this one's callback fires the first must already have been
	// skipped.
	done := make(chan struct{})
	r.Submit(net.ParseIP("10.0.0.3"), func([]string, interface{}) { close(done) }, nil)
	<-done

	assert.False(t, called, "callback must not run for a failed lookup")
}

func TestFIFOOrdering(t *testing.T) {
	r := newTestResolver(func(addr net.IP) ([]string, error) {
		return []string{addr.String()}, nil
	})
	r.Init()
	defer r.Uninit()

	var mu sync.Mutex
	var order []string
	const n = 20
	done := make(chan struct{})

	for i := 0; i < n; i++ {
		ip := net.IPv4(127, 0, 0, byte(i))
		r.Submit(ip, func(names []string, ctx interface{}) {
			mu.Lock()
			order = append(order, names[0])
			if len(order) == n {
				close(done)
			}
			mu.Unlock()
		}, nil)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all callbacks ran")
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		require.Equal(t, net.IPv4(127, 0, 0, byte(i)).String(), order[i])
	}
}

func TestUninitDrainsPendingWork(t *testing.T) {
	var processed int32
	var mu sync.Mutex
	r := newTestResolver(func(addr net.IP) ([]string, error) {
		mu.Lock()
		processed++
		mu.Unlock()
		return []string{"x"}, nil
	})
	r.Init()

	for i := 0; i < 10; i++ {
		r.Submit(net.IPv4(127, 0, 0, byte(i)), func([]string, interface{}) {}, nil)
	}
	r.Uninit()

	mu.Lock()
	defer mu.Unlock()
	require.EqualValues(t, 10, processed, "all queued requests must be processed before Uninit returns")
}

var errNoSuchHost = &net.DNSError{Err: "no such host", IsNotFound: true}
