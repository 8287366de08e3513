package loadtest

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
)

const (
	StartResultsMarker = "==startresults=="
	EndResultsMarker   = "==endresults=="

	httpReqs        = "http_reqs"
	httpReqFailed   = "http_req_failed"
	httpReqDuration = "http_req_duration"
	iterationsName  = "iterations"
	checksName      = "checks"
)

type LatencyStats struct {
	Avg time.Duration
	Min time.Duration
	Med time.Duration
	P90 time.Duration
	P95 time.Duration
	Max time.Duration
}

type CheckSummary struct {
	Name   string
	Passes int
	Fails  int
}

// ThresholdResult is the verdict on one threshold. Expression uses the k6 threshold syntax with
// durations in milliseconds, e.g. "p(95)<500".
type ThresholdResult struct {
	Name       string
	Metric     string
	Expression string
	Passed     bool
	Observed   string
}

// Passed reports whether every threshold held.
func (s Summary) Passed() bool {
	for _, t := range s.Thresholds {
		if !t.Passed {
			return false
		}
	}
	return true
}

// evaluateThresholds checks s against thresholds. A run that recorded no requests fails every
// threshold, since there is nothing to judge it by.
func evaluateThresholds(s Summary, thresholds Thresholds) []ThresholdResult {
	p95 := ThresholdResult{
		Metric:     httpReqDuration,
		Expression: fmt.Sprintf("p(95)<%g", millis(thresholds.P95Duration)),
		Passed:     s.Latency.P95 < thresholds.P95Duration,
		Observed:   s.Latency.P95.String(),
	}
	failed := ThresholdResult{
		Metric:     httpReqFailed,
		Expression: fmt.Sprintf("rate<%g", float64(thresholds.MaxFailureRate)),
		Passed:     s.FailureRate < float64(thresholds.MaxFailureRate),
		Observed:   fmt.Sprintf("%.2f%%", s.FailureRate*100),
	}
	results := []ThresholdResult{p95, failed}
	for i := range results {
		results[i].Name = results[i].Metric + " " + results[i].Expression
		if s.Requests == 0 {
			results[i].Passed = false
			results[i].Observed = "no requests"
		}
	}
	return results
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WriteSummary prints a table of s for people, followed by s as a JSON document between the start and
// end result markers. The document follows the layout of a k6 end of test summary, so tooling that cuts
// the framed block out of the log and reads its metrics works unchanged.
func WriteSummary(out io.Writer, s Summary) error {
	if err := writeTable(out, s); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, StartResultsMarker); err != nil {
		return errors.WithStack(err)
	}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(newSummaryDocument(s)); err != nil {
		return errors.WithStack(err)
	}
	_, err := fmt.Fprintln(out, EndResultsMarker)
	return errors.WithStack(err)
}

func writeTable(out io.Writer, s Summary) error {
	w := tabwriter.NewWriter(out, 1, 1, 1, ' ', 0)
	if s.RunId != "" {
		fmt.Fprintf(w, "run:\t%s\n", s.RunId)
	}
	fmt.Fprintf(w, "duration:\t%s\n", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "iterations:\t%d\n", s.Iterations)
	fmt.Fprintf(w, "http_reqs:\t%d\t%.2f/s\n", s.Requests, s.RequestsPerSecond)
	fmt.Fprintf(w, "http_req_failed:\t%.2f%%\t%d out of %d\n", s.FailureRate*100, s.FailedRequests, s.Requests)
	fmt.Fprintf(w, "http_req_duration:\tavg=%s\tmin=%s\tmed=%s\tp(90)=%s\tp(95)=%s\tmax=%s\n",
		s.Latency.Avg, s.Latency.Min, s.Latency.Med, s.Latency.P90, s.Latency.P95, s.Latency.Max)
	for _, c := range s.Checks {
		fmt.Fprintf(w, "check %q:\t%d passed\t%d failed\n", c.Name, c.Passes, c.Fails)
	}
	for _, t := range s.Thresholds {
		verdict := "ok"
		if !t.Passed {
			verdict = "FAILED"
		}
		fmt.Fprintf(w, "threshold %s:\t%s\tobserved %s\n", t.Name, verdict, t.Observed)
	}
	return errors.WithStack(w.Flush())
}
