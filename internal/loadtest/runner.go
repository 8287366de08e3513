// Package loadtest runs workload iterations on a ramping pool of virtual users and summarises the
// outcome against pass/fail thresholds.
package loadtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/armadaproject/cmsbench/internal/common/serve"
	"github.com/armadaproject/cmsbench/internal/workload"
)

// Iterator is one virtual user's workload. Run sends a single request; Think is the pause between
// two requests.
type Iterator interface {
	Run(ctx context.Context) workload.IterationResult
	Think(ctx context.Context) error
}

// Runner drives the stages of a TestConfig. NewIterator is called once per virtual user, with the
// user's zero based index.
type Runner struct {
	config      TestConfig
	metrics     *Metrics
	newIterator func(vu int) Iterator
	limiter     *rate.Limiter
}

func NewRunner(config TestConfig, metrics *Metrics, newIterator func(vu int) Iterator) *Runner {
	r := &Runner{
		config:      config,
		metrics:     metrics,
		newIterator: newIterator,
	}
	if config.MaxRequestsPerSecond > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(config.MaxRequestsPerSecond), 1)
	}
	return r
}

// Run executes every stage and returns the summary. Cancelling ctx ends the test early; the summary
// then covers the iterations completed so far and ctx's error is returned alongside it.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if err := r.config.Validate(); err != nil {
		return Summary{}, err
	}
	total := r.config.TotalDuration()
	runId := uuid.NewString()
	log.WithField("runId", runId).Infof("Starting load test: %d stages over %s", len(r.config.Stages), total)

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServing := context.WithCancel(gctx)
	defer stopServing()
	if r.config.MetricsPort != 0 {
		g.Go(func() error {
			gatherer := prometheus.Gatherers{r.metrics.Registry(), prometheus.DefaultGatherer}
			return serve.ListenAndServe(serveCtx, r.config.MetricsPort, serve.MetricsHandler(gatherer))
		})
	}

	var stops []context.CancelFunc
	stopAll := func() {
		for _, stop := range stops {
			stop()
		}
		stops = nil
		r.metrics.SetVus(0)
	}

	start := time.Now()
	ticker := time.NewTicker(r.config.RampInterval)
	defer ticker.Stop()
	lastLogged := -1
ramp:
	for {
		elapsed := time.Since(start)
		if elapsed >= total {
			break
		}
		target := r.config.TargetAt(elapsed)
		for len(stops) < target {
			vuCtx, stop := context.WithCancel(gctx)
			it := r.newIterator(len(stops))
			stops = append(stops, stop)
			g.Go(func() error {
				r.runVu(vuCtx, it)
				return nil
			})
		}
		for len(stops) > target {
			stops[len(stops)-1]()
			stops = stops[:len(stops)-1]
		}
		r.metrics.SetVus(len(stops))
		if target != lastLogged {
			log.Debugf("Running %d virtual users at %s", target, elapsed.Round(time.Second))
			lastLogged = target
		}

		select {
		case <-gctx.Done():
			break ramp
		case <-ticker.C:
		}
	}
	elapsed := time.Since(start)
	stopAll()
	stopServing()
	waitErr := g.Wait()

	summary := r.metrics.Summary(elapsed, r.config.Thresholds)
	summary.RunId = runId
	log.Infof("Load test finished after %s: %d iterations", elapsed.Round(time.Millisecond), summary.Iterations)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, waitErr
}

// runVu runs iterations until ctx is cancelled. A request that completed is always recorded, even if
// ctx was cancelled while it was in flight; one that was cut short by the cancellation is not.
func (r *Runner) runVu(ctx context.Context, it Iterator) {
	for ctx.Err() == nil {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return
			}
		}
		result := it.Run(ctx)
		if result.Err != nil && ctx.Err() != nil {
			return
		}
		r.metrics.Record(result)
		if err := it.Think(ctx); err != nil {
			return
		}
	}
}
