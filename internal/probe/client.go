package probe

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/hamed0406/edgecheck/internal/domain"
)

// HTTPDoer is the subset of *http.Client the probes need.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewClient builds a client whose connect, handshake and header phases are
// each bounded by timeout, as is the request overall. Keep-alives are off so
// every request opens a fresh connection to the server under test.
func NewClient(timeout time.Duration, verifyCertificate bool) *http.Client {
	tr := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		DisableKeepAlives:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			// self-signed certificates under test; the handshake itself still has to succeed
			InsecureSkipVerify: !verifyCertificate, //nolint:gosec
		},
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// ClientSet picks the verifying or non-verifying client for a target.
type ClientSet struct {
	Verified HTTPDoer
	Insecure HTTPDoer
}

func NewClientSet(timeout time.Duration) ClientSet {
	return ClientSet{
		Verified: NewClient(timeout, true),
		Insecure: NewClient(timeout, false),
	}
}

func (c ClientSet) For(t domain.ProbeTarget) HTTPDoer {
	if t.Scheme == domain.SchemeHTTPS && !t.VerifyCertificate {
		return c.Insecure
	}
	return c.Verified
}
