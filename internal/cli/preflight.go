package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/hamed0406/edgecheck/internal/config"
	"github.com/hamed0406/edgecheck/internal/probe"
)

func newPreflightCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Validate configuration without contacting the proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if !Preflight(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg) {
				return &exitError{code: 1}
			}
			return nil
		},
	}
}

// Preflight prints ✔/⚠/✖ lines for cfg and reports whether it is usable.
// Only validation errors fail; warnings point at settings that make the run
// weaker or noisier.
func Preflight(ctx context.Context, stdout, stderr io.Writer, cfg config.Config) bool {
	fail := func(msg string) { fmt.Fprintln(stderr, "✖", msg) }
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	errs := multierr.Errors(cfg.Validate())
	for _, err := range errs {
		fail(err.Error())
	}

	if s := probe.ClassifyHost(ctx, nil, cfg.Host); s.Class == probe.DNSResolves || s.Class == probe.DNSLiteralIPAddr {
		ok("host " + cfg.Host + " (" + s.Class + ")")
	} else {
		warn("host " + cfg.Host + " does not resolve yet (" + s.Class + "); fine if the proxy container is still starting.")
	}

	ok("targets " + cfg.ContentTarget().URL() + " " + cfg.ForbiddenTarget().URL() + " " + cfg.TLSTarget().URL())

	if cfg.VerifyTLS {
		ok("VERIFY_TLS=true")
	} else {
		warn("VERIFY_TLS=false; the TLS probe accepts self-signed certificates.")
	}
	if cfg.Cooldown < time.Second {
		warn("COOLDOWN_SECONDS under 1s; the shared rate-limit zone may not refill between bursts.")
	}
	if cfg.BurstSize > 0 && cfg.BurstSize < 10 {
		warn("BURST_SIZE=" + strconv.Itoa(cfg.BurstSize) + " is small; the limiter may never trip.")
	}
	if cfg.SlackWebhookURL == "" {
		warn("SLACK_WEBHOOK_URL empty; results go to the console and log only.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	if len(errs) > 0 {
		fail(fmt.Sprintf("preflight failed with %d error(s)", len(errs)))
		return false
	}
	ok("preflight passed")
	return true
}
