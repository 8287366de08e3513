package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/cmsbench/internal/cmsbench"
)

// Run the ramped query load and print a summary.
func loadTestCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Run the filtered article query under ramped concurrent load.",
		Long: `Run the filtered article query under ramped concurrent load.

Stages and thresholds are read from the loadtest section of the config file. The command fails if a
threshold is crossed.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initParams(cmd, app); err != nil {
				return err
			}
			return applyLoadTestFlags(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return app.LoadTest(ctx)
		},
	}
	defaults := app.Params.LoadTest
	cmd.Flags().Float64("maxRequestsPerSecond", defaults.MaxRequestsPerSecond, "Cap on the combined request rate; 0 for no cap.")
	cmd.Flags().Duration("thinkTime", defaults.MaxThinkTime, "Upper bound on the random pause after each iteration.")
	cmd.Flags().Uint16("metricsPort", defaults.MetricsPort, "Serve Prometheus metrics on this port while the test runs; 0 to disable.")
	return cmd
}

func applyLoadTestFlags(cmd *cobra.Command, app *cmsbench.App) error {
	flags := cmd.Flags()
	cfg := &app.Params.LoadTest
	var err error
	if flags.Changed("maxRequestsPerSecond") {
		if cfg.MaxRequestsPerSecond, err = flags.GetFloat64("maxRequestsPerSecond"); err != nil {
			return err
		}
	}
	if flags.Changed("thinkTime") {
		if cfg.MaxThinkTime, err = flags.GetDuration("thinkTime"); err != nil {
			return err
		}
	}
	if flags.Changed("metricsPort") {
		if cfg.MetricsPort, err = flags.GetUint16("metricsPort"); err != nil {
			return err
		}
	}
	return nil
}
