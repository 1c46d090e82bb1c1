package probe

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// ErrFatal marks transport failures the harness cannot reason about, such as
// a malformed target or a failed TLS handshake during readiness polling.
var ErrFatal = errors.New("fatal transport error")

// notReady reports whether err means the server is still starting: the
// connection was refused, timed out, or never got past the dial phase.
func notReady(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	// compose starts the harness before the proxy's DNS name exists
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
