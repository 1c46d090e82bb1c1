// Package cli is the edgecheck command tree: run (default), fixture and
// preflight.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hamed0406/edgecheck/internal/config"
)

// exitError carries a non-zero exit code for an outcome that has already
// been reported, so Main does not print it again.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type globalFlags struct {
	configPath string
	host       string
	logDir     string
}

// loadConfig resolves defaults, the optional YAML file, env and then flags.
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return cfg, err
	}
	if g.host != "" {
		cfg.Host = g.host
	}
	if g.logDir != "" {
		cfg.LogDir = g.logDir
	}
	return cfg, nil
}

// NewRootCmd builds the command tree. With no subcommand it runs the
// acceptance checks.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}
	run := newRunCmd(flags)

	cmd := &cobra.Command{
		Use:           "edgecheck",
		Short:         "Acceptance checks for a reverse proxy deployment",
		Long:          "edgecheck waits for a proxy to come up, then verifies content, forbidden responses, TLS and rate limiting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          run.RunE,
	}
	cmd.Flags().AddFlagSet(run.Flags())

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file (env overrides it)")
	cmd.PersistentFlags().StringVar(&flags.host, "host", "", "Proxy host name (overrides EDGECHECK_HOST)")
	cmd.PersistentFlags().StringVar(&flags.logDir, "log-dir", "", "Directory for edgecheck.log (overrides LOG_DIR)")

	cmd.AddCommand(run)
	cmd.AddCommand(newFixtureCmd(flags))
	cmd.AddCommand(newPreflightCmd(flags))
	return cmd
}

// Main executes the command tree with args and returns the process exit code.
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "edgecheck:", err)
	return 1
}

// Execute runs edgecheck with the process arguments and exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
