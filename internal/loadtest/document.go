package loadtest

// summaryDocument is the machine readable form of a Summary. Durations are in milliseconds.
type summaryDocument struct {
	RunId     string                    `json:"runId,omitempty"`
	State     stateDocument             `json:"state"`
	Metrics   map[string]metricDocument `json:"metrics"`
	RootGroup groupDocument             `json:"root_group"`
}

type stateDocument struct {
	TestRunDurationMs float64 `json:"testRunDurationMs"`
}

type metricDocument struct {
	Type       string                       `json:"type"`
	Contains   string                       `json:"contains"`
	Values     map[string]float64           `json:"values"`
	Thresholds map[string]thresholdDocument `json:"thresholds,omitempty"`
}

type thresholdDocument struct {
	Ok bool `json:"ok"`
}

type groupDocument struct {
	Checks []checkDocument `json:"checks"`
}

type checkDocument struct {
	Name   string `json:"name"`
	Passes int    `json:"passes"`
	Fails  int    `json:"fails"`
}

func newSummaryDocument(s Summary) summaryDocument {
	perSecond := func(n int) float64 {
		if s.Elapsed <= 0 {
			return 0
		}
		return float64(n) / s.Elapsed.Seconds()
	}
	rate := func(passes, total int) float64 {
		if total == 0 {
			return 0
		}
		return float64(passes) / float64(total)
	}

	var checkPasses, checkFails int
	checks := make([]checkDocument, 0, len(s.Checks))
	for _, c := range s.Checks {
		checkPasses += c.Passes
		checkFails += c.Fails
		checks = append(checks, checkDocument{Name: c.Name, Passes: c.Passes, Fails: c.Fails})
	}

	metrics := map[string]metricDocument{
		httpReqs: {
			Type:     "counter",
			Contains: "default",
			Values:   map[string]float64{"count": float64(s.Requests), "rate": s.RequestsPerSecond},
		},
		iterationsName: {
			Type:     "counter",
			Contains: "default",
			Values:   map[string]float64{"count": float64(s.Iterations), "rate": perSecond(s.Iterations)},
		},
		// As in k6, a failed request is a "pass" of the http_req_failed rate.
		httpReqFailed: {
			Type:     "rate",
			Contains: "default",
			Values: map[string]float64{
				"rate":   s.FailureRate,
				"passes": float64(s.FailedRequests),
				"fails":  float64(s.Requests - s.FailedRequests),
			},
		},
		httpReqDuration: {
			Type:     "trend",
			Contains: "time",
			Values: map[string]float64{
				"avg":   millis(s.Latency.Avg),
				"min":   millis(s.Latency.Min),
				"med":   millis(s.Latency.Med),
				"max":   millis(s.Latency.Max),
				"p(90)": millis(s.Latency.P90),
				"p(95)": millis(s.Latency.P95),
			},
		},
		checksName: {
			Type:     "rate",
			Contains: "default",
			Values: map[string]float64{
				"rate":   rate(checkPasses, checkPasses+checkFails),
				"passes": float64(checkPasses),
				"fails":  float64(checkFails),
			},
		},
	}
	for _, t := range s.Thresholds {
		m, ok := metrics[t.Metric]
		if !ok {
			continue
		}
		if m.Thresholds == nil {
			m.Thresholds = map[string]thresholdDocument{}
		}
		m.Thresholds[t.Expression] = thresholdDocument{Ok: t.Passed}
		metrics[t.Metric] = m
	}

	return summaryDocument{
		RunId:     s.RunId,
		State:     stateDocument{TestRunDurationMs: millis(s.Elapsed)},
		Metrics:   metrics,
		RootGroup: groupDocument{Checks: checks},
	}
}
