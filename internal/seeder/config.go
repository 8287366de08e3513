package seeder

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
)

var DefaultTagNames = []string{
	"Technology", "Programming", "Design", "AI", "Web Development",
	"DevOps", "Cloud", "Security", "Mobile", "Data Science",
}

// SeedConfig controls a seeding run.
type SeedConfig struct {
	// Number of authors to create.
	Authors int
	// Names of the tags to create, one record each.
	TagNames []string
	// Number of articles to create.
	Articles int
	// Upper bound on tags per article.
	MaxTagsPerArticle int
	// When set, no authors are created and articles refer to AuthorIds instead.
	SkipAuthors bool
	AuthorIds   []string
	// When set, no tags are created and articles refer to TagIds instead.
	SkipTags bool
	TagIds   []string
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		Authors:           50,
		TagNames:          append([]string{}, DefaultTagNames...),
		Articles:          500,
		MaxTagsPerArticle: 3,
	}
}

func (c SeedConfig) Validate() error {
	var result *multierror.Error
	if c.Authors < 0 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name: "Authors", Value: c.Authors, Message: "must be non-negative",
		}))
	}
	if c.Articles < 0 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name: "Articles", Value: c.Articles, Message: "must be non-negative",
		}))
	}
	if c.MaxTagsPerArticle < 1 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name: "MaxTagsPerArticle", Value: c.MaxTagsPerArticle, Message: "must be at least 1",
		}))
	}
	if c.SkipAuthors && len(c.AuthorIds) == 0 && c.Articles > 0 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name: "AuthorIds", Value: c.AuthorIds, Message: "author ids are required when author creation is skipped",
		}))
	}
	return result.ErrorOrNil()
}
