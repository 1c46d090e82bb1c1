package fixture

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Ports are the listen ports for the three virtual hosts.
type Ports struct {
	Content   int
	Forbidden int
	TLS       int
}

// Serve listens on host for all three virtual hosts until ctx is done, then
// shuts them down. The TLS host uses a fresh self-signed certificate.
func (f *Fixture) Serve(ctx context.Context, host string, ports Ports) error {
	cert, err := SelfSignedCert(host)
	if err != nil {
		return err
	}

	servers := []*http.Server{
		{Addr: net.JoinHostPort(host, strconv.Itoa(ports.Content)), Handler: f.ContentHandler()},
		{Addr: net.JoinHostPort(host, strconv.Itoa(ports.Forbidden)), Handler: f.ForbiddenHandler()},
		{
			Addr:      net.JoinHostPort(host, strconv.Itoa(ports.TLS)),
			Handler:   f.TLSHandler(),
			TLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12},
		},
	}
	for _, s := range servers {
		s.ReadHeaderTimeout = 5 * time.Second
	}

	errc := make(chan error, len(servers))
	for _, s := range servers {
		s := s
		go func() {
			f.Logger.Info("fixture_listening", zap.String("addr", s.Addr), zap.Bool("tls", s.TLSConfig != nil))
			var err error
			if s.TLSConfig != nil {
				err = s.ListenAndServeTLS("", "")
			} else {
				err = s.ListenAndServe()
			}
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			errc <- err
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errc:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, s := range servers {
		serveErr = multierr.Append(serveErr, s.Shutdown(shutdownCtx))
	}
	f.Logger.Info("fixture_stopped")
	return serveErr
}

// SelfSignedCert makes a short-lived ECDSA certificate for host.
func SelfSignedCert(host string) (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("generate key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("serial: %w", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: host},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	if ip := net.ParseIP(host); ip != nil {
		tmpl.IPAddresses = []net.IP{ip}
	} else if host != "" {
		tmpl.DNSNames = []string{host}
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("create certificate: %w", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}
