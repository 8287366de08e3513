package loadtest

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
	"github.com/armadaproject/cmsbench/internal/common/config"
)

// Stage ramps the number of virtual users linearly to Target over Duration.
type Stage struct {
	Duration time.Duration
	Target   int
}

type Thresholds struct {
	// The 95th percentile request duration must stay below this.
	P95Duration time.Duration
	// The share of failed requests must stay below this.
	MaxFailureRate config.Percentage
}

type TestConfig struct {
	Stages     []Stage
	Thresholds Thresholds
	// Each iteration ends with a random pause in [0, MaxThinkTime).
	MaxThinkTime time.Duration
	// Caps the combined request rate of all virtual users. Zero means no cap.
	MaxRequestsPerSecond float64
	// How often the virtual user count is adjusted while ramping.
	RampInterval time.Duration
	// Seed for query parameter selection. Zero picks a time based seed.
	Seed int64
	// Serve Prometheus metrics on this port for the duration of the test. Zero disables the endpoint.
	MetricsPort uint16
}

func DefaultTestConfig() TestConfig {
	return TestConfig{
		Stages: []Stage{
			{Duration: time.Minute, Target: 10},
			{Duration: 3 * time.Minute, Target: 1000},
			{Duration: time.Minute, Target: 10},
		},
		Thresholds: Thresholds{
			P95Duration:    500 * time.Millisecond,
			MaxFailureRate: 0.01,
		},
		MaxThinkTime: time.Second,
		RampInterval: time.Second,
	}
}

func invalid(name string, value interface{}, message string) error {
	return errors.WithStack(&cmserrors.ErrInvalidArgument{Name: name, Value: value, Message: message})
}

// Validate reports every problem with c at once.
func (c TestConfig) Validate() error {
	var result *multierror.Error
	if len(c.Stages) == 0 {
		result = multierror.Append(result, invalid("stages", c.Stages, "at least one stage is required"))
	}
	for i, s := range c.Stages {
		if s.Duration <= 0 {
			result = multierror.Append(result, invalid(fmt.Sprintf("stages[%d].duration", i), s.Duration, "must be positive"))
		}
		if s.Target < 0 {
			result = multierror.Append(result, invalid(fmt.Sprintf("stages[%d].target", i), s.Target, "must be non-negative"))
		}
	}
	if c.Thresholds.P95Duration <= 0 {
		result = multierror.Append(result, invalid("thresholds.p95Duration", c.Thresholds.P95Duration, "must be positive"))
	}
	if c.Thresholds.MaxFailureRate < 0 || c.Thresholds.MaxFailureRate > 1 {
		result = multierror.Append(result, invalid("thresholds.maxFailureRate", c.Thresholds.MaxFailureRate, "must be between 0 and 1"))
	}
	if c.MaxThinkTime < 0 {
		result = multierror.Append(result, invalid("maxThinkTime", c.MaxThinkTime, "must be non-negative"))
	}
	if c.MaxRequestsPerSecond < 0 {
		result = multierror.Append(result, invalid("maxRequestsPerSecond", c.MaxRequestsPerSecond, "must be non-negative"))
	}
	if c.RampInterval <= 0 {
		result = multierror.Append(result, invalid("rampInterval", c.RampInterval, "must be positive"))
	}
	return result.ErrorOrNil()
}

func (c TestConfig) TotalDuration() time.Duration {
	var total time.Duration
	for _, s := range c.Stages {
		total += s.Duration
	}
	return total
}

// TargetAt returns the number of virtual users that should be running at elapsed. The first stage
// ramps up from zero; each later stage ramps from the previous stage's target.
func (c TestConfig) TargetAt(elapsed time.Duration) int {
	from := 0
	for _, s := range c.Stages {
		if elapsed < s.Duration {
			progress := float64(elapsed) / float64(s.Duration)
			return from + int(float64(s.Target-from)*progress)
		}
		elapsed -= s.Duration
		from = s.Target
	}
	return 0
}
