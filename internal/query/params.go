package query

import (
	"math/rand"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
)

// ParameterSpace enumerates the values a Case is drawn from.
type ParameterSpace struct {
	DateRanges     []DateRange
	Tags           []string
	AuthorPrefixes []string
	// Upper bound on the number of distinct tags in a case. Values below 1 are treated as 1.
	MaxTags int
}

func DefaultParameterSpace() ParameterSpace {
	prefixes := make([]string, 0, 26)
	for c := 'A'; c <= 'Z'; c++ {
		prefixes = append(prefixes, string(c))
	}
	return ParameterSpace{
		DateRanges: []DateRange{
			{Start: "2024-01-01", End: "2024-06-30"},
			{Start: "2024-07-01", End: "2024-12-31"},
		},
		Tags:           []string{"Tech", "AI", "Health", "Fitness"},
		AuthorPrefixes: prefixes,
		MaxTags:        2,
	}
}

func (s ParameterSpace) Validate() error {
	var result *multierror.Error
	if len(s.DateRanges) == 0 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name:    "DateRanges",
			Value:   s.DateRanges,
			Message: "at least one date range is required",
		}))
	}
	for _, r := range s.DateRanges {
		if r.Start == "" || r.End == "" {
			result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
				Name:    "DateRanges",
				Value:   r,
				Message: "start and end are required",
			}))
		}
	}
	if len(s.Tags) == 0 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name:    "Tags",
			Value:   s.Tags,
			Message: "at least one tag is required",
		}))
	}
	if len(s.AuthorPrefixes) == 0 {
		result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name:    "AuthorPrefixes",
			Value:   s.AuthorPrefixes,
			Message: "at least one prefix is required",
		}))
	}
	for _, p := range s.AuthorPrefixes {
		if len(p) != 1 || p[0] < '!' || p[0] > '~' {
			result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
				Name:    "AuthorPrefixes",
				Value:   p,
				Message: "prefixes must be a single printable ASCII character",
			}))
		}
	}
	return result.ErrorOrNil()
}

// Pick draws a case: one date range, between 1 and MaxTags distinct tags and one author prefix,
// each uniformly at random.
func (s ParameterSpace) Pick(r *rand.Rand) Case {
	dateRange := s.DateRanges[r.Intn(len(s.DateRanges))]

	maxTags := s.MaxTags
	if maxTags < 1 {
		maxTags = 1
	}
	if maxTags > len(s.Tags) {
		maxTags = len(s.Tags)
	}
	tagCount := r.Intn(maxTags) + 1
	tags := make([]string, 0, tagCount)
	for _, i := range r.Perm(len(s.Tags))[:tagCount] {
		tags = append(tags, s.Tags[i])
	}

	prefix := s.AuthorPrefixes[r.Intn(len(s.AuthorPrefixes))]

	return Case{
		DateRange:    dateRange,
		Tags:         tags,
		AuthorPrefix: prefix,
	}
}
