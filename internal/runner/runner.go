// Package runner sequences one acceptance run: wait for the proxy to come up,
// run every endpoint and rate-limit probe in a fixed order, then render the
// summary and derive the process exit code.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hamed0406/edgecheck/internal/config"
	"github.com/hamed0406/edgecheck/internal/domain"
	"github.com/hamed0406/edgecheck/internal/notify"
	"github.com/hamed0406/edgecheck/internal/probe"
	"github.com/hamed0406/edgecheck/internal/report"
)

// ErrNotReady means the content host never answered within the readiness budget.
var ErrNotReady = errors.New("server not ready")

type State string

const (
	NotStarted    State = "not_started"
	WaitingReady  State = "waiting_ready"
	Fatal         State = "fatal"
	RunningProbes State = "running_probes"
	Summarizing   State = "summarizing"
	Done          State = "done"
)

// Probe names as they appear in the report.
const (
	ProbeCustomHTML      = "Custom HTML"
	ProbeErrorResponse   = "Error Response"
	ProbeHTTPSCustomHTML = "HTTPS Custom HTML"
	ProbeRateLimitHTTP   = "Rate Limiting HTTP"
	ProbeRateLimitHTTPS  = "Rate Limiting HTTPS"
)

type Runner struct {
	Config    config.Config
	Logger    *zap.Logger
	Clients   probe.ClientSet
	Sleeper   probe.Sleeper
	Resolver  probe.Resolver // nil uses the OS resolver
	Presenter report.Presenter
	Out       io.Writer
	Notifier  notify.Notifier // optional
	NewRunID  func() string

	state State
}

// New wires a Runner with real clients, sleeper and stdout text output.
func New(cfg config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		Config:    cfg,
		Logger:    logger,
		Clients:   probe.NewClientSet(cfg.RequestTimeout),
		Sleeper:   probe.RealSleeper{},
		Presenter: report.TextPresenter{},
		Out:       os.Stdout,
		NewRunID:  func() string { return ulid.Make().String() },
		state:     NotStarted,
	}
	var sinks notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhookURL); s != nil {
		sinks = append(sinks, s)
	}
	if len(sinks) > 0 {
		r.Notifier = sinks
	}
	return r
}

func (r *Runner) State() State {
	if r.state == "" {
		return NotStarted
	}
	return r.state
}

// Run executes one acceptance run. A nil error with a failed report means
// the proxy answered but some assertion did not hold; a non-nil error means
// the run aborted (ErrNotReady, probe.ErrFatal or ctx cancellation).
func (r *Runner) Run(ctx context.Context) (*domain.TestReport, error) {
	runID := r.NewRunID()
	log := r.Logger.With(zap.String("run_id", runID))
	rep := domain.NewTestReport(runID, time.Now().UTC())
	cfg := r.Config

	r.transition(log, WaitingReady)
	if err := r.waitReady(ctx, log); err != nil {
		r.transition(log, Fatal)
		r.diagnose(ctx, log)
		rep.FinishedAt = time.Now().UTC()
		if rerr := r.Presenter.RenderFatal(r.Out, rep, err); rerr != nil {
			log.Warn("render_failed", zap.Error(rerr))
		}
		r.notify(ctx, log, rep, err)
		r.transition(log, Done)
		return rep, err
	}

	r.transition(log, RunningProbes)
	endpoints := &probe.EndpointProbe{Clients: r.Clients, Logger: log}
	rep.Add(endpoints.Check(ctx, ProbeCustomHTML, cfg.ContentTarget(), cfg.ContentExpectation()))
	rep.Add(endpoints.Check(ctx, ProbeErrorResponse, cfg.ForbiddenTarget(), cfg.ForbiddenExpectation()))
	rep.Add(endpoints.Check(ctx, ProbeHTTPSCustomHTML, cfg.TLSTarget(), cfg.ContentExpectation()))

	bursts := &probe.RateLimitProbe{Clients: r.Clients, Logger: log}
	for _, b := range []struct {
		name   string
		target domain.ProbeTarget
	}{
		{ProbeRateLimitHTTP, cfg.ContentTarget()},
		{ProbeRateLimitHTTPS, cfg.TLSTarget()},
	} {
		// content and TLS hosts share one limiter zone
		log.Info("cooldown", zap.Duration("duration", cfg.Cooldown), zap.String("next", b.name))
		if err := r.Sleeper.Sleep(ctx, cfg.Cooldown); err != nil {
			log.Warn("cooldown_interrupted", zap.Error(err))
			break
		}
		res, _ := bursts.Probe(ctx, b.name, b.target, cfg.BurstSize, cfg.RateLimitStatus)
		rep.Add(res)
	}

	r.transition(log, Summarizing)
	rep.FinishedAt = time.Now().UTC()
	runErr := ctx.Err()
	if runErr != nil {
		if rerr := r.Presenter.RenderFatal(r.Out, rep, runErr); rerr != nil {
			log.Warn("render_failed", zap.Error(rerr))
		}
	} else if rerr := r.Presenter.Render(r.Out, rep); rerr != nil {
		log.Warn("render_failed", zap.Error(rerr))
	}
	log.Info("run_finished",
		zap.Bool("passed", runErr == nil && rep.Passed()),
		zap.Int("failed", len(rep.Failed())),
		zap.Duration("elapsed", rep.FinishedAt.Sub(rep.StartedAt)),
	)
	r.notify(ctx, log, rep, runErr)
	r.transition(log, Done)
	return rep, runErr
}

func (r *Runner) waitReady(ctx context.Context, log *zap.Logger) error {
	cfg := r.Config
	target := cfg.ContentTarget()
	w := &probe.ReadinessWaiter{
		Client: r.Clients.For(target),
		Policy: probe.WaitPolicy{
			MaxAttempts: cfg.ReadinessAttempts,
			Interval:    cfg.ReadinessDelay,
			Jitter:      cfg.ReadinessJitter,
		},
		Timeout: cfg.ReadinessTimeout,
		Sleeper: r.Sleeper,
		Logger:  log,
	}
	ready, err := w.WaitReady(ctx, target)
	if err != nil {
		return err
	}
	if !ready {
		return fmt.Errorf("%w: %s after %d attempts", ErrNotReady, target.URL(), cfg.ReadinessAttempts)
	}
	return nil
}

// diagnose logs how the target host resolves so a wrong host name can be
// told apart from a server that never started.
func (r *Runner) diagnose(ctx context.Context, log *zap.Logger) {
	s := probe.ClassifyHost(context.WithoutCancel(ctx), r.Resolver, r.Config.Host)
	ips := make([]string, 0, len(s.IPs))
	for _, ip := range s.IPs {
		ips = append(ips, ip.String())
	}
	log.Warn("dns_check",
		zap.String("host", s.Host),
		zap.String("class", s.Class),
		zap.Strings("ips", ips),
		zap.Strings("nameservers", s.Nameservers),
		zap.String("resolver_error", s.ResolverError),
	)
}

func (r *Runner) notify(ctx context.Context, log *zap.Logger, rep *domain.TestReport, cause error) {
	if r.Notifier == nil {
		return
	}
	title, text := notify.Summary(rep, cause)
	if err := r.Notifier.Send(context.WithoutCancel(ctx), title, text); err != nil {
		log.Warn("notify_failed", zap.Error(err))
	}
}

func (r *Runner) transition(log *zap.Logger, next State) {
	log.Info("runner_state", zap.String("from", string(r.State())), zap.String("state", string(next)))
	r.state = next
}

// ExitCode is 0 only for a completed run in which every probe passed.
func ExitCode(rep *domain.TestReport, err error) int {
	if err != nil || rep == nil || !rep.Passed() || len(rep.Results) == 0 {
		return 1
	}
	return 0
}
