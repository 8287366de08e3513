package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armadaproject/cmsbench/internal/cmsbench"
	"github.com/armadaproject/cmsbench/internal/common/config"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// initParams loads the config file and fills in the parameters shared by every command.
// Command specific flags are applied by each command afterwards.
func initParams(cmd *cobra.Command, app *cmsbench.App) error {
	if err := configureLogging(cmd); err != nil {
		return err
	}
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if err := client.LoadCommandlineArgsFromConfigFile(cfgFile); err != nil {
		return err
	}

	details, err := client.ExtractCommandlineCmsConnectionDetails()
	if err != nil {
		return err
	}
	app.Params.ApiConnectionDetails = details
	app.Params.Seed = viper.GetInt64("seed")

	// Lists from the config file replace the defaults rather than being merged into them.
	for key, reset := range map[string]func(){
		"query.dateRanges":     func() { app.Params.QuerySpace.DateRanges = nil },
		"query.tags":           func() { app.Params.QuerySpace.Tags = nil },
		"query.authorPrefixes": func() { app.Params.QuerySpace.AuthorPrefixes = nil },
		"loadtest.stages":      func() { app.Params.LoadTest.Stages = nil },
		"seeding.tagNames":     func() { app.Params.Seeding.TagNames = nil },
		"replay.ignoredKeys":   func() { app.Params.Replay.IgnoredKeys = nil },
	} {
		if viper.IsSet(key) {
			reset()
		}
	}
	if err := config.UnmarshalKey("query", &app.Params.QuerySpace); err != nil {
		return err
	}
	if err := config.UnmarshalKey("loadtest", &app.Params.LoadTest); err != nil {
		return err
	}
	if err := config.UnmarshalKey("replay", &app.Params.Replay); err != nil {
		return err
	}
	return config.UnmarshalKey("seeding", &app.Params.Seeding)
}
