package cmd

import (
	"github.com/spf13/cobra"

	"github.com/armadaproject/cmsbench/internal/cmsbench"
)

// Create fake authors, tags and articles.
func seedCmd(app *cmsbench.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the backend with fake authors, tags and articles.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initParams(cmd, app); err != nil {
				return err
			}
			return applySeedFlags(cmd, app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return app.Seed(ctx)
		},
	}

	defaults := app.Params.Seeding
	cmd.Flags().Int("authors", defaults.Authors, "Number of authors to create.")
	cmd.Flags().StringSlice("tags", defaults.TagNames, "Names of the tags to create.")
	cmd.Flags().Int("articles", defaults.Articles, "Number of articles to create.")
	cmd.Flags().Int("maxTagsPerArticle", defaults.MaxTagsPerArticle, "Upper bound on the number of tags per article.")
	cmd.Flags().StringSlice("authorIds", nil, "Existing author ids for articles; skips author creation.")
	cmd.Flags().StringSlice("tagIds", nil, "Existing tag ids for articles; skips tag creation.")

	return cmd
}

func applySeedFlags(cmd *cobra.Command, app *cmsbench.App) error {
	flags := cmd.Flags()
	seeding := &app.Params.Seeding
	var err error
	if flags.Changed("authors") {
		if seeding.Authors, err = flags.GetInt("authors"); err != nil {
			return err
		}
	}
	if flags.Changed("tags") {
		if seeding.TagNames, err = flags.GetStringSlice("tags"); err != nil {
			return err
		}
	}
	if flags.Changed("articles") {
		if seeding.Articles, err = flags.GetInt("articles"); err != nil {
			return err
		}
	}
	if flags.Changed("maxTagsPerArticle") {
		if seeding.MaxTagsPerArticle, err = flags.GetInt("maxTagsPerArticle"); err != nil {
			return err
		}
	}
	if flags.Changed("authorIds") {
		if seeding.AuthorIds, err = flags.GetStringSlice("authorIds"); err != nil {
			return err
		}
		seeding.SkipAuthors = true
	}
	if flags.Changed("tagIds") {
		if seeding.TagIds, err = flags.GetStringSlice("tagIds"); err != nil {
			return err
		}
		seeding.SkipTags = true
	}
	return nil
}
