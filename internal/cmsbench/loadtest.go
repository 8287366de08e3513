package cmsbench

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/logging"
	"github.com/armadaproject/cmsbench/internal/common/util"
	"github.com/armadaproject/cmsbench/internal/loadtest"
	"github.com/armadaproject/cmsbench/internal/workload"
)

// ErrThresholdsCrossed is returned by LoadTest when the run completed but missed at least one threshold.
var ErrThresholdsCrossed = errors.New("one or more thresholds were crossed")

// LoadTest logs in once and runs the ramped query load, printing the summary when done.
func (a *App) LoadTest(ctx context.Context) error {
	cfg := a.Params.LoadTest
	if cfg.Seed == 0 {
		cfg.Seed = a.Params.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := a.Params.QuerySpace.Validate(); err != nil {
		return err
	}

	if cfg.MetricsPort != 0 {
		if err := logging.AddPrometheusHook(); err != nil {
			log.WithError(err).Warn("Log messages will not be counted")
		}
	}

	c := a.client()
	token, err := workload.Setup(ctx, c)
	if err != nil {
		return err
	}
	poster := c.WithToken(token)
	seed := util.ResolveSeed(cfg.Seed)
	log.Infof("Using seed %d", seed)
	r := util.NewThreadsafeRand(seed)

	metrics := loadtest.NewMetrics(loadtest.MetricsPrefix)
	runner := loadtest.NewRunner(cfg, metrics, func(vu int) loadtest.Iterator {
		it := workload.NewIteration(poster, a.Params.QuerySpace, r, a.Clock)
		it.MaxThinkTime = cfg.MaxThinkTime
		return it
	})

	summary, runErr := runner.Run(ctx)
	if err := loadtest.WriteSummary(a.Out, summary); err != nil {
		return errors.WithStack(err)
	}
	if runErr != nil {
		return runErr
	}
	if !summary.Passed() {
		return errors.WithStack(ErrThresholdsCrossed)
	}
	return nil
}
