package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/edgecheck/internal/domain"
)

// RateLimitProbe fires a burst of sequential requests and classifies the mix
// of responses. Requests are never concurrent so ordering and back-pressure
// on the target stay reproducible between runs.
type RateLimitProbe struct {
	Clients ClientSet
	Logger  *zap.Logger
}

// Probe passes when the burst saw at least one 200 and at least one
// limitedStatus. Exact counts are not asserted; they depend on latency and
// where the limiter window edges fall.
func (p *RateLimitProbe) Probe(ctx context.Context, name string, target domain.ProbeTarget, burstSize, limitedStatus int) (domain.ProbeResult, domain.BurstOutcome) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	client := p.Clients.For(target)
	url := target.URL()

	log.Info("burst_start", zap.String("probe", name), zap.String("url", url), zap.Int("burst_size", burstSize))

	out := domain.BurstOutcome{LimitedStatus: limitedStatus}
	for i := 1; i <= burstSize; i++ {
		if ctx.Err() != nil {
			break
		}
		status, err := fetchStatus(ctx, client, url)
		switch {
		case err != nil:
			out.Other++
			out.Errors = append(out.Errors, fmt.Sprintf("request %d: %v", i, err))
			log.Warn("burst_request_failed", zap.String("probe", name), zap.Int("request", i), zap.Error(err))
		case status == http.StatusOK:
			out.Success++
		case status == limitedStatus:
			out.Limited++
		default:
			out.Other++
			log.Debug("burst_unexpected_status", zap.String("probe", name), zap.Int("request", i), zap.Int("status", status))
		}
	}

	res := classifyBurst(name, target, out, limitedStatus)
	log.Info("burst_outcome",
		zap.String("probe", name),
		zap.Int("success", out.Success),
		zap.Int("limited", out.Limited),
		zap.Int("other", out.Other),
		zap.Bool("passed", res.Passed),
	)
	return res, out
}

func classifyBurst(name string, target domain.ProbeTarget, out domain.BurstOutcome, limitedStatus int) domain.ProbeResult {
	var problems []string
	if out.Success == 0 {
		problems = append(problems, "no 200 responses (endpoint might be down)")
	}
	if out.Limited == 0 {
		problems = append(problems, fmt.Sprintf("no %d responses (rate limiting might not be working)", limitedStatus))
	}
	passed := len(problems) == 0
	if out.Other > 0 {
		problems = append(problems, fmt.Sprintf("warning: %d requests returned unexpected status codes", out.Other))
	}
	burst := out
	return domain.ProbeResult{
		Name:   name,
		Passed: passed,
		Detail: strings.Join(problems, "\n"),
		URL:    target.URL(),
		Burst:  &burst,
	}
}

func fetchStatus(ctx context.Context, client HTTPDoer, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
