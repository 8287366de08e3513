package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armadaproject/cmsbench/internal/cmsbench"
	"github.com/armadaproject/cmsbench/internal/common/logging"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// RootCmd is the root Cobra command that gets called from the main func.
// All other sub-commands should be registered here.
func RootCmd() *cobra.Command {
	return rootCmd(cmsbench.New())
}

func rootCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cmsbench",
		Short: "cmsbench provisions and load-tests a headless content backend.",
		Long: `cmsbench provisions and load-tests a headless content backend.

Persistent config can be saved in a config file so it doesn't have to be specified every command.

Example structure:
baseUrl: http://localhost:1337
email: admin@mail.com
password: Admin123
loadtest:
  stages:
    - duration: 1m
      target: 10
  thresholds:
    p95Duration: 500ms
    maxFailureRate: 1%

The location of this file can be passed in using the --config argument.
If not provided, $HOME/.cmsbench.yaml is used.

Connection settings may also be given with the STRAPI_URL, ADMIN_EMAIL, ADMIN_PASSWORD and
GRAPHQL_ENDPOINT environment variables.`,
		SilenceUsage: true,
	}

	client.AddCmsConnectionCommandlineArgs(cmd)
	cmd.PersistentFlags().String("config", "", "config file (default is $HOME/.cmsbench.yaml)")
	cmd.PersistentFlags().Int64("seed", 0, "seed for all random choices; 0 picks one from the clock")
	viper.BindPFlag("seed", cmd.PersistentFlags().Lookup("seed"))
	cmd.PersistentFlags().Bool("verbose", false, "log with timestamps at debug level")

	cmd.AddCommand(
		versionCmd(app),
		seedCmd(app),
		schemaCmd(app),
		queryCmd(app),
		loadTestCmd(app),
	)

	return cmd
}

// Print version info and exit.
func versionCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Version()
		},
	}
	return cmd
}

// signalContext returns a context that is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	stopSignal := make(chan os.Signal, 1)
	signal.Notify(stopSignal, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(stopSignal)
		select {
		case <-ctx.Done():
			return
		case <-stopSignal:
			log.Warn("Interrupted, stopping...")
			cancel()
		}
	}()
	return ctx, cancel
}

func configureLogging(cmd *cobra.Command) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	if verbose {
		logging.ConfigureLogging(log.DebugLevel)
	}
	return nil
}
