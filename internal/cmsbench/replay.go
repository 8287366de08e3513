package cmsbench

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
	"github.com/armadaproject/cmsbench/internal/corpus"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// ErrResponsesDiffer is returned by ReplayCorpus when any query was answered differently, or not at all.
var ErrResponsesDiffer = errors.New("endpoints answered differently")

// ReplayCorpus sends every query of Params.CorpusFile to the configured GraphQL endpoint and to
// Params.Replay.CompareEndpoint, and prints the queries whose data differ.
func (a *App) ReplayCorpus(ctx context.Context) error {
	cfg := a.Params.Replay
	if cfg.CompareEndpoint == "" {
		return errors.WithStack(&cmserrors.ErrInvalidArgument{
			Name:    "compareEndpoint",
			Value:   cfg.CompareEndpoint,
			Message: "an endpoint to compare with is required",
		})
	}
	queries, err := corpus.Read(a.Params.CorpusFile)
	if err != nil {
		return err
	}

	primary := a.client()
	token, err := primary.Login(ctx)
	if err != nil {
		return err
	}

	details := *a.Params.ApiConnectionDetails
	details.GraphqlEndpoint = cfg.CompareEndpoint
	if cfg.CompareBaseUrl != "" {
		details.BaseUrl = cfg.CompareBaseUrl
	}
	secondary := client.NewClient(&details).WithClock(a.Clock)
	secondaryToken := token
	if cfg.CompareBaseUrl != "" {
		if secondaryToken, err = secondary.Login(ctx); err != nil {
			return errors.WithMessagef(err, "logging in to %s", cfg.CompareBaseUrl)
		}
	}

	log.Infof("Replaying %d queries from %s against %s", len(queries), a.Params.CorpusFile, cfg.CompareEndpoint)
	replayer := corpus.NewReplayer(primary.WithToken(token), secondary.WithToken(secondaryToken), cfg.IgnoredKeys)
	report, err := replayer.Run(ctx, queries)
	if err != nil {
		return err
	}

	for _, c := range report.Failed() {
		fmt.Fprintf(a.Out, "Query %d failed: %s\n%s\n\n", c.Index, c.Err, c.Query)
	}
	for _, c := range report.Differed() {
		fmt.Fprintf(a.Out, "Query %d differs (-%s +%s):\n%s\n%s\n", c.Index,
			primary.Details().GraphqlUrl(), cfg.CompareEndpoint, c.Query, c.Diff)
	}
	fmt.Fprintf(a.Out, "Replayed %d queries: %d matched, %d differed, %d failed\n",
		len(report.Comparisons), report.Matched(), len(report.Differed()), len(report.Failed()))
	if report.Matched() != len(report.Comparisons) {
		return errors.WithStack(ErrResponsesDiffer)
	}
	return nil
}
