package domain

import (
	"fmt"
	"net"
	"strconv"
)

type Scheme string

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

// ProbeTarget is one virtual host of the server under test, addressed by port and scheme.
type ProbeTarget struct {
	Host              string `json:"host"`
	Port              int    `json:"port"`
	Scheme            Scheme `json:"scheme"`
	VerifyCertificate bool   `json:"verify_certificate"`
}

func (t ProbeTarget) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// URL is the base path every probe requests.
func (t ProbeTarget) URL() string {
	return fmt.Sprintf("%s://%s/", t.Scheme, t.Addr())
}

// ContentExpectation is what an endpoint must answer. An empty BodySubstring
// means only the status code is checked.
type ContentExpectation struct {
	StatusCode    int    `json:"status_code"`
	BodySubstring string `json:"body_substring,omitempty"`
}

type ProbeResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
	URL    string `json:"url"`

	// Burst is set by rate-limit probes only.
	Burst *BurstOutcome `json:"burst,omitempty"`
}

func Pass(name string, t ProbeTarget) ProbeResult {
	return ProbeResult{Name: name, Passed: true, URL: t.URL()}
}

func Fail(name string, t ProbeTarget, detail string) ProbeResult {
	return ProbeResult{Name: name, Passed: false, Detail: detail, URL: t.URL()}
}

// BurstOutcome classifies the responses of one rate-limit burst.
// Success+Limited+Other always equals the number of requests sent.
type BurstOutcome struct {
	Success int      `json:"success"`
	Limited int      `json:"limited"`
	Other   int      `json:"other"`
	Errors  []string `json:"errors,omitempty"`

	LimitedStatus int `json:"limited_status"`
}

func (b BurstOutcome) Total() int {
	return b.Success + b.Limited + b.Other
}
