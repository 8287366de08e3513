package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armadaproject/cmsbench/internal/cmsbench"
)

const (
	createTestsArg = "create-tests"
	replayArg      = "replay"
)

// Run one random query, generate a corpus of them, or replay a corpus against a second endpoint.
func queryCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [create-tests|replay]",
		Short: "Run a single random article query, or write (create-tests) or replay (replay) a corpus of queries.",
		Long: `Run a single random article query, or write (create-tests) or replay (replay) a corpus of queries.

replay sends every query of the corpus to the configured GraphQL endpoint and to --compareEndpoint and
fails if any pair of answers differ. Ids, timestamps and list order are not compared.`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] != createTestsArg && args[0] != replayArg {
				return fmt.Errorf("unknown argument %q, expected %q or %q", args[0], createTestsArg, replayArg)
			}
			if err := initParams(cmd, app); err != nil {
				return err
			}
			if len(args) == 1 && args[0] == replayArg {
				return applyReplayFlags(cmd, app)
			}
			var err error
			if app.Params.CorpusFile, err = cmd.Flags().GetString("output"); err != nil {
				return err
			}
			app.Params.CorpusCount, err = cmd.Flags().GetInt("count")
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == createTestsArg {
				return app.CreateTests()
			}
			ctx, cancel := signalContext()
			defer cancel()
			if len(args) == 1 {
				return app.ReplayCorpus(ctx)
			}
			return app.RunQueryCase(ctx)
		},
	}
	cmd.Flags().String("output", app.Params.CorpusFile, "File the corpus is written to.")
	cmd.Flags().Int("count", app.Params.CorpusCount, "Number of queries in the corpus.")
	cmd.Flags().String("input", app.Params.CorpusFile, "Corpus file to replay.")
	cmd.Flags().String("compareEndpoint", "", "GraphQL endpoint whose answers are compared when replaying.")
	cmd.Flags().String("compareBaseUrl", "", "Log in to this root for the compared endpoint instead of reusing the first login.")
	return cmd
}

func applyReplayFlags(cmd *cobra.Command, app *cmsbench.App) error {
	flags := cmd.Flags()
	cfg := &app.Params.Replay
	var err error
	if app.Params.CorpusFile, err = flags.GetString("input"); err != nil {
		return err
	}
	if flags.Changed("compareEndpoint") {
		if cfg.CompareEndpoint, err = flags.GetString("compareEndpoint"); err != nil {
			return err
		}
	}
	if flags.Changed("compareBaseUrl") {
		if cfg.CompareBaseUrl, err = flags.GetString("compareBaseUrl"); err != nil {
			return err
		}
	}
	return nil
}
