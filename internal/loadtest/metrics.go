package loadtest

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/cmsbench/internal/workload"
)

const MetricsPrefix = "cmsbench_loadtest_"

// Metrics records every iteration twice: into Prometheus collectors for scraping while the test runs,
// and into in-memory tallies from which the end of test Summary is computed.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration prometheus.Histogram
	requests        prometheus.Counter
	failedRequests  prometheus.Counter
	iterations      prometheus.Counter
	checks          *prometheus.CounterVec
	vus             prometheus.Gauge

	mu             sync.Mutex
	durations      []time.Duration
	iterationCount int
	requestCount   int
	failedCount    int
	checkCounts    map[string]*CheckSummary
}

func NewMetrics(prefix string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    prefix + "http_req_duration_seconds",
			Help:    "Duration of GraphQL requests that received a response.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "http_reqs_total",
			Help: "Number of GraphQL requests attempted.",
		}),
		failedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "http_req_failed_total",
			Help: "Number of GraphQL requests that errored or did not return 200.",
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: prefix + "iterations_total",
			Help: "Number of completed iterations.",
		}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "checks_total",
			Help: "Check outcomes by check name and result.",
		}, []string{"check", "result"}),
		vus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "vus",
			Help: "Number of running virtual users.",
		}),
		checkCounts: map[string]*CheckSummary{},
	}
	m.registry.MustRegister(m.requestDuration, m.requests, m.failedRequests, m.iterations, m.checks, m.vus)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SetVus(n int) {
	m.vus.Set(float64(n))
}

func (m *Metrics) Record(r workload.IterationResult) {
	m.iterations.Inc()
	m.requests.Inc()
	if r.Failed() {
		m.failedRequests.Inc()
	}
	if r.Err == nil {
		m.requestDuration.Observe(r.Duration.Seconds())
	}
	for _, c := range r.Checks {
		m.checks.WithLabelValues(c.Name, checkLabel(c.Passed)).Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.iterationCount++
	m.requestCount++
	if r.Failed() {
		m.failedCount++
	}
	if r.Err == nil {
		m.durations = append(m.durations, r.Duration)
	}
	for _, c := range r.Checks {
		counts, ok := m.checkCounts[c.Name]
		if !ok {
			counts = &CheckSummary{Name: c.Name}
			m.checkCounts[c.Name] = counts
		}
		if c.Passed {
			counts.Passes++
		} else {
			counts.Fails++
		}
	}
}

func checkLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}

// Summary computes the end of test summary and evaluates thresholds against it.
func (m *Metrics) Summary(elapsed time.Duration, thresholds Thresholds) Summary {
	m.mu.Lock()
	durations := append([]time.Duration{}, m.durations...)
	s := Summary{
		Elapsed:        elapsed,
		Iterations:     m.iterationCount,
		Requests:       m.requestCount,
		FailedRequests: m.failedCount,
	}
	names := maps.Keys(m.checkCounts)
	slices.SortFunc(names, func(a, b string) int {
		if d := checkOrder(a) - checkOrder(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	for _, name := range names {
		s.Checks = append(s.Checks, *m.checkCounts[name])
	}
	m.mu.Unlock()

	if s.Requests > 0 {
		s.FailureRate = float64(s.FailedRequests) / float64(s.Requests)
	}
	if elapsed > 0 {
		s.RequestsPerSecond = float64(s.Requests) / elapsed.Seconds()
	}
	s.Latency = latencyStats(durations)
	s.Thresholds = evaluateThresholds(s, thresholds)
	return s
}

// checkOrder sorts the known checks first, in their declared order.
func checkOrder(name string) int {
	if i := slices.Index(workload.CheckNames, name); i >= 0 {
		return i
	}
	return len(workload.CheckNames)
}

func latencyStats(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	slices.Sort(durations)
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	return LatencyStats{
		Avg: total / time.Duration(len(durations)),
		Min: durations[0],
		Med: percentile(durations, 50),
		P90: percentile(durations, 90),
		P95: percentile(durations, 95),
		Max: durations[len(durations)-1],
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p * float64(len(sorted)-1) / 100
	lower := int(rank)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lower)
	return sorted[lower] + time.Duration(frac*float64(sorted[lower+1]-sorted[lower]))
}
