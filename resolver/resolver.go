// Package resolver implements async reverse-hostname lookup: callers submit
// an address and a callback, a single background worker resolves it, and
// the callback runs only if the lookup succeeded.
//
// The queue is a buffered channel drained by one goroutine rather than a
// polled, lock-guarded list — blocking receive replaces the poll interval
// entirely, so there's no latency/CPU tradeoff to tune.
package resolver

import (
	"errors"
	"net"
	"sync"

	"github.com/m-lab/go/rtx"

	"github.com/pktrace/pcapkit/internal/metrics"
)

// Callback receives the resolved hostname(s) for a submitted address. It
// runs on the resolver's single worker goroutine, never concurrently with
// another callback, and never for a failed lookup — those are silently
// dropped.
type Callback func(hostnames []string, ctx interface{})

// request is one queued lookup.
type request struct {
	addr net.IP
	cb   Callback
	ctx  interface{}
}

// Resolver is a FIFO, single-worker async reverse resolver. The zero value
// is not usable; construct one with New.
type Resolver struct {
	queue chan request
	done  chan struct{}

	mu          sync.Mutex
	initialized bool
	uniniting   bool

	lookup func(net.IP) ([]string, error)
}

// queueCapacity bounds how many requests may be outstanding before Submit
// blocks the caller. Backpressure past that point is the caller's problem;
// a large buffered channel gives callers headroom without an actually
// unbounded allocation.
const queueCapacity = 4096

// New constructs a Resolver. It does not start the worker; call Init for
// that.
func New() *Resolver {
	return &Resolver{lookup: reverseLookup}
}

func reverseLookup(addr net.IP) ([]string, error) {
	return net.LookupAddr(addr.String())
}

// Init creates the queue and starts the single background worker. Calling
// Init twice is a programmer error.
func (r *Resolver) Init() {
	r.mu.Lock()
	defer r.mu.Unlock()

	rtx.PanicOnError(alreadyInitializedErr(r.initialized), "resolver: Init called twice")

	r.queue = make(chan request, queueCapacity)
	r.done = make(chan struct{})
	r.initialized = true

	go r.run()
}

func alreadyInitializedErr(initialized bool) error {
	if initialized {
		return errors.New("resolver already initialized")
	}
	return nil
}

// Submit enqueues an address for reverse lookup. Submission never blocks
// on the lookup itself — it returns as soon as the request is queued —
// and preserves FIFO order. Calling Submit before Init or after Uninit has
// begun is a programmer error.
func (r *Resolver) Submit(addr net.IP, cb Callback, ctx interface{}) {
	r.mu.Lock()
	ready := r.initialized && !r.uniniting
	r.mu.Unlock()

	rtx.PanicOnError(notReadyErr(ready), "resolver: Submit called before Init or after Uninit")

	r.queue <- request{addr: addr, cb: cb, ctx: ctx}
	metrics.ResolverQueueDepth.Inc()
}

func notReadyErr(ready bool) error {
	if !ready {
		return errors.New("resolver not ready for submissions")
	}
	return nil
}

// Uninit stops accepting new work, lets the worker drain naturally, and
// waits for it to exit. Requests already queued are processed in FIFO
// order before shutdown completes; any request the worker is mid-lookup on
// when Uninit is called still runs to completion, since the worker only
// checks for shutdown between requests, never mid-lookup.
func (r *Resolver) Uninit() {
	r.mu.Lock()
	if !r.initialized {
		r.mu.Unlock()
		return
	}
	r.uniniting = true
	r.mu.Unlock()

	close(r.queue)
	<-r.done

	r.mu.Lock()
	r.initialized = false
	r.uniniting = false
	r.mu.Unlock()
}

// run is the worker goroutine: it drains the queue, performing one
// synchronous reverse lookup per request, and exits once the queue is
// closed and empty.
func (r *Resolver) run() {
	defer close(r.done)

	for req := range r.queue {
		metrics.ResolverQueueDepth.Dec()
		names, err := r.lookup(req.addr)
		if err != nil || len(names) == 0 {
			continue
		}
		if req.cb != nil {
			req.cb(names, req.ctx)
		}
	}
}
