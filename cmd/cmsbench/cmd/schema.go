package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/cmsbench/internal/cmsbench"
)

func schemaCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Install the blog content types.",
	}
	cmd.AddCommand(
		schemaInstallCmd(app),
		schemaBootstrapCmd(app),
	)
	return cmd
}

// Write schema files into a backend source tree.
func schemaInstallCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Write content type schema files under api/<entity>/content-types/<entity>/.",
		Long: `Write content type schema files under api/<entity>/content-types/<entity>/.

Nothing is sent to the backend; restart it to pick up the new files.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initParams(cmd, app); err != nil {
				return err
			}
			var err error
			if app.Params.SchemaDir, err = cmd.Flags().GetString("dir"); err != nil {
				return err
			}
			app.Params.DefinitionsFile, err = cmd.Flags().GetString("definitions")
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.InstallSchemas()
		},
	}
	cmd.Flags().String("dir", ".", "Root of the backend source tree.")
	cmd.Flags().String("definitions", "", "YAML or JSON file with content type definitions to install instead of the built-in ones.")
	return cmd
}

// Create content types through the content-type builder API.
func schemaBootstrapCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the article content type and its relations on a running backend.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initParams(cmd, app); err != nil {
				return err
			}
			var err error
			app.Params.IncludeBaseTypes, err = cmd.Flags().GetBool("includeBaseTypes")
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return app.BootstrapSchemas(ctx)
		},
	}
	cmd.Flags().Bool("includeBaseTypes", false, "Also create the author and tag content types.")
	return cmd
}
