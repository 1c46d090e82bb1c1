package cli

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/edgecheck/internal/fixture"
	"github.com/hamed0406/edgecheck/internal/logging"
)

func newFixtureCmd(flags *globalFlags) *cobra.Command {
	var (
		listen string
		opts   = fixture.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Serve a local stand-in for the proxy on the configured ports",
		Long: "fixture serves the content, forbidden and TLS hosts with a shared rate-limit zone " +
			"so edgecheck can be exercised without the real deployment. Stops on interrupt.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewLogger(cfg.LogDir)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts.Body = "<html><body><h1>" + cfg.ExpectedContent + "</h1></body></html>\n"
			opts.ForbiddenStatus = cfg.ForbiddenStatus
			opts.LimitedStatus = cfg.RateLimitStatus

			f := fixture.New(logger, opts)
			return f.Serve(cmd.Context(), listen, fixture.Ports{
				Content:   cfg.ContentPort,
				Forbidden: cfg.ForbiddenPort,
				TLS:       cfg.TLSPort,
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (empty = all interfaces)")
	cmd.Flags().Float64Var(&opts.RatePerSecond, "rate", opts.RatePerSecond, "Shared zone refill rate in requests/second (0 disables)")
	cmd.Flags().IntVar(&opts.Burst, "burst", opts.Burst, "Shared zone burst size")
	return cmd
}
