// Package workload issues the filtered-article GraphQL query the way a single virtual user would.
package workload

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/requestid"
	"github.com/armadaproject/cmsbench/internal/common/util"
	"github.com/armadaproject/cmsbench/internal/query"
	"github.com/armadaproject/cmsbench/pkg/client"
)

const DefaultMaxThinkTime = time.Second

type Poster interface {
	PostGraphQL(ctx context.Context, payload []byte) (*client.Response, error)
}

type IterationResult struct {
	RequestId  string
	Case       query.Case
	Query      string
	StatusCode int
	Body       []byte
	Duration   time.Duration
	// Err is set if the request could not be made at all.
	Err    error
	Checks []CheckResult
}

// Failed reports whether the request errored or did not come back with a 200.
func (r IterationResult) Failed() bool {
	return r.Err != nil || r.StatusCode != 200
}

func (r IterationResult) ChecksPassed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Iteration is one virtual user's unit of work. Poster must already carry the shared token.
type Iteration struct {
	Poster       Poster
	Space        query.ParameterSpace
	Rand         *rand.Rand
	Clock        util.Clock
	MaxThinkTime time.Duration
}

func NewIteration(poster Poster, space query.ParameterSpace, r *rand.Rand, clock util.Clock) *Iteration {
	return &Iteration{
		Poster:       poster,
		Space:        space,
		Rand:         r,
		Clock:        clock,
		MaxThinkTime: DefaultMaxThinkTime,
	}
}

// Run picks a case, posts it and evaluates the checks. It does not pause afterwards; callers that
// simulate a user call Think between iterations.
func (it *Iteration) Run(ctx context.Context) IterationResult {
	c := it.Space.Pick(it.Rand)
	payload := query.Build(c)
	result := IterationResult{RequestId: requestid.New(), Case: c, Query: payload.Query}
	body, err := payload.Marshal()
	if err != nil {
		result.Err = err
		result.Checks = Evaluate(nil)
		return result
	}
	resp, err := it.Poster.PostGraphQL(requestid.AddToContext(ctx, result.RequestId), body)
	if err != nil {
		result.Err = err
		result.Checks = Evaluate(nil)
		log.WithField("requestId", result.RequestId).WithError(err).Debug("Query failed")
		return result
	}
	result.StatusCode = resp.StatusCode
	result.Body = resp.Body
	result.Duration = resp.Duration
	result.Checks = Evaluate(resp)
	if !result.ChecksPassed() {
		log.WithField("requestId", result.RequestId).Debugf("Checks failed with http %d", resp.StatusCode)
	}
	return result
}

// Think sleeps for a random duration in [0, MaxThinkTime). It returns early with ctx's error if ctx
// is cancelled.
func (it *Iteration) Think(ctx context.Context) error {
	if it.MaxThinkTime <= 0 {
		return ctx.Err()
	}
	return it.Clock.Sleep(ctx, time.Duration(it.Rand.Int63n(int64(it.MaxThinkTime))))
}

// RunOnce logs in, runs a single case and writes the query and raw response to out.
func RunOnce(ctx context.Context, c *client.Client, space query.ParameterSpace, r *rand.Rand, out io.Writer) (IterationResult, error) {
	token, err := Setup(ctx, c)
	if err != nil {
		return IterationResult{}, err
	}
	it := NewIteration(c.WithToken(token), space, r, &util.DefaultClock{})
	it.MaxThinkTime = 0

	result := it.Run(ctx)
	fmt.Fprintf(out, "Query:\n%s\n\n", result.Query)
	if result.Err != nil {
		return result, errors.WithMessage(result.Err, "query failed")
	}
	fmt.Fprintf(out, "Response (http %d, %s):\n%s\n", result.StatusCode, result.Duration, result.Body)
	for _, check := range result.Checks {
		if !check.Passed {
			log.Warnf("Check %q failed", check.Name)
		}
	}
	return result, nil
}
