package probe

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	ips    []net.IP
	ipErr  error
	ns     []*net.NS
	nsErr  error
	lookup int
}

func (f *fakeResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	f.lookup++
	return f.ips, f.ipErr
}

func (f *fakeResolver) LookupNS(ctx context.Context, name string) ([]*net.NS, error) {
	return f.ns, f.nsErr
}

func TestClassifyHost(t *testing.T) {
	notFound := &net.DNSError{Err: "no such host", Name: "nginx", IsNotFound: true}
	cases := []struct {
		name string
		host string
		r    *fakeResolver
		want string
	}{
		{"resolves", "nginx", &fakeResolver{ips: []net.IP{net.ParseIP("172.18.0.2")}}, DNSResolves},
		{"nxdomain", "nginx", &fakeResolver{ipErr: notFound, nsErr: notFound}, DNSNXDomain},
		{"zone without A", "example.org", &fakeResolver{ipErr: notFound, ns: []*net.NS{{Host: "ns1.example.org."}}}, DNSNoARecord},
		{"servfail", "nginx", &fakeResolver{ipErr: &net.DNSError{Err: "server misbehaving", IsTemporary: true}}, DNSServfail},
		{"empty", "  ", &fakeResolver{}, DNSInvalidName},
		{"url not host", "http://nginx", &fakeResolver{}, DNSInvalidName},
		{"ip literal", "127.0.0.1", &fakeResolver{}, DNSLiteralIPAddr},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyHost(context.Background(), c.r, c.host)
			assert.Equal(t, c.want, got.Class)
		})
	}
}

func TestClassifyHost_NameserversTrimmed(t *testing.T) {
	r := &fakeResolver{
		ipErr: &net.DNSError{Err: "no such host", IsNotFound: true},
		ns:    []*net.NS{{Host: "ns1.example.org."}, {Host: "ns2.example.org."}},
	}
	got := ClassifyHost(context.Background(), r, "example.org")
	assert.Equal(t, []string{"ns1.example.org", "ns2.example.org"}, got.Nameservers)
	assert.NotEmpty(t, got.ResolverError)
}
