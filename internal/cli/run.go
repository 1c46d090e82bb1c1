package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/edgecheck/internal/logging"
	"github.com/hamed0406/edgecheck/internal/report"
	"github.com/hamed0406/edgecheck/internal/runner"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the acceptance checks once and exit 0 when all pass",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			presenter, err := report.New(format)
			if err != nil {
				return err
			}

			logger, err := logging.NewLogger(cfg.LogDir)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			logger.Info("config_loaded",
				zap.String("host", cfg.Host),
				zap.Int("content_port", cfg.ContentPort),
				zap.Int("forbidden_port", cfg.ForbiddenPort),
				zap.Int("tls_port", cfg.TLSPort),
				zap.Bool("verify_tls", cfg.VerifyTLS),
			)

			r := runner.New(cfg, logger)
			r.Presenter = presenter
			r.Out = cmd.OutOrStdout()

			rep, err := r.Run(cmd.Context())
			if code := runner.ExitCode(rep, err); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Report format: text or json")
	return cmd
}
