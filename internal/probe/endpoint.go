package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hamed0406/edgecheck/internal/domain"
)

const (
	// maxBodyBytes bounds how much of a response body is read for matching.
	maxBodyBytes = 1 << 20
	snippetBytes = 200
)

// EndpointProbe issues one GET and checks status and, optionally, body content.
type EndpointProbe struct {
	Clients ClientSet
	Logger  *zap.Logger
}

// Check never retries. Transport failures are recorded as a failed result
// with the error as detail instead of aborting the run.
func (p *EndpointProbe) Check(ctx context.Context, name string, target domain.ProbeTarget, want domain.ContentExpectation) domain.ProbeResult {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	res := p.check(ctx, name, target, want)
	log.Info("probe_result",
		zap.String("probe", name),
		zap.String("url", res.URL),
		zap.Bool("passed", res.Passed),
		zap.String("detail", res.Detail),
	)
	return res
}

func (p *EndpointProbe) check(ctx context.Context, name string, target domain.ProbeTarget, want domain.ContentExpectation) domain.ProbeResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL(), nil)
	if err != nil {
		return domain.Fail(name, target, fmt.Sprintf("build request: %v", err))
	}
	resp, err := p.Clients.For(target).Do(req)
	if err != nil {
		return domain.Fail(name, target, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != want.StatusCode {
		return domain.Fail(name, target, fmt.Sprintf("unexpected status: expected %d, got %d", want.StatusCode, resp.StatusCode))
	}
	if want.BodySubstring == "" {
		return domain.Pass(name, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Fail(name, target, fmt.Sprintf("read body: %v", err))
	}
	if !strings.Contains(string(body), want.BodySubstring) {
		return domain.Fail(name, target, fmt.Sprintf("expected content %q not found; got: %s", want.BodySubstring, snippet(body, snippetBytes)))
	}
	return domain.Pass(name, target)
}

// snippet cuts b to at most n bytes without splitting a UTF-8 sequence.
func snippet(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
