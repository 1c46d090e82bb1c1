package probe

import (
	"context"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

// scriptedDoer answers requests from a fixed script, one step per call.
// Calls past the end of the script repeat the last step.
type scriptedDoer struct {
	mu    sync.Mutex
	steps []func(*http.Request) (*http.Response, error)
	calls int

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		cur := d.maxInFlight.Load()
		if n <= cur || d.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	d.mu.Lock()
	i := d.calls
	d.calls++
	if i >= len(d.steps) {
		i = len(d.steps) - 1
	}
	step := d.steps[i]
	d.mu.Unlock()
	return step(req)
}

func (d *scriptedDoer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader(body)),
			Request:    req,
		}, nil
	}
}

func fail(err error) func(*http.Request) (*http.Response, error) {
	return func(req *http.Request) (*http.Response, error) {
		return nil, &neturl.Error{Op: "Get", URL: req.URL.String(), Err: err}
	}
}

func repeat(n int, step func(*http.Request) (*http.Response, error)) []func(*http.Request) (*http.Response, error) {
	out := make([]func(*http.Request) (*http.Response, error), n)
	for i := range out {
		out[i] = step
	}
	return out
}

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

// fakeSleeper records requested pauses without sleeping.
type fakeSleeper struct {
	slept []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	return ctx.Err()
}
