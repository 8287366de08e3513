package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/cmsbench/internal/query"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// DefaultIgnoredKeys are object keys whose values legitimately differ between two deployments of the
// same content.
var DefaultIgnoredKeys = []string{"__typename", "id", "createdAt", "updatedAt", "timestamp"}

// ReplayConfig selects the endpoint a corpus is replayed against.
type ReplayConfig struct {
	// GraphQL endpoint whose answers are compared with those of the configured endpoint.
	CompareEndpoint string
	// Root of the deployment behind CompareEndpoint, logged in to separately. Empty reuses the first login.
	CompareBaseUrl string
	IgnoredKeys    []string
}

func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{IgnoredKeys: slices.Clone(DefaultIgnoredKeys)}
}

type Poster interface {
	PostGraphQL(ctx context.Context, payload []byte) (*client.Response, error)
}

// Comparison is the outcome of sending one corpus query to both endpoints.
type Comparison struct {
	Index int
	Query string
	// Diff is empty when the two responses are equivalent.
	Diff string
	// Err is set when either endpoint could not answer the query successfully.
	Err error
}

func (c Comparison) Equal() bool {
	return c.Err == nil && c.Diff == ""
}

type ReplayReport struct {
	Comparisons []Comparison
}

func (r *ReplayReport) Matched() int {
	n := 0
	for _, c := range r.Comparisons {
		if c.Equal() {
			n++
		}
	}
	return n
}

func (r *ReplayReport) Differed() []Comparison {
	var differed []Comparison
	for _, c := range r.Comparisons {
		if c.Err == nil && c.Diff != "" {
			differed = append(differed, c)
		}
	}
	return differed
}

func (r *ReplayReport) Failed() []Comparison {
	var failed []Comparison
	for _, c := range r.Comparisons {
		if c.Err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}

// Replayer sends every query of a corpus to two GraphQL endpoints, typically the backend itself and a
// proxy in front of it, and checks that they answer with the same data.
type Replayer struct {
	primary     Poster
	secondary   Poster
	ignoredKeys []string
}

func NewReplayer(primary, secondary Poster, ignoredKeys []string) *Replayer {
	return &Replayer{
		primary:     primary,
		secondary:   secondary,
		ignoredKeys: ignoredKeys,
	}
}

// Run replays queries in order. Differences and failed queries are reported per query and never stop
// the replay; the only error returned is ctx's.
func (r *Replayer) Run(ctx context.Context, queries []string) (*ReplayReport, error) {
	report := &ReplayReport{}
	for i, q := range queries {
		if ctx.Err() != nil {
			return report, errors.WithStack(ctx.Err())
		}
		c := r.compare(ctx, i, q)
		switch {
		case c.Err != nil:
			log.WithError(c.Err).Warnf("Query %d failed", i)
		case c.Diff != "":
			log.Warnf("Query %d: responses differ", i)
		default:
			log.Debugf("Query %d: responses match", i)
		}
		report.Comparisons = append(report.Comparisons, c)
	}
	return report, nil
}

func (r *Replayer) compare(ctx context.Context, i int, q string) Comparison {
	c := Comparison{Index: i, Query: q}
	payload, err := query.Payload{Query: q}.Marshal()
	if err != nil {
		c.Err = errors.WithStack(err)
		return c
	}
	var errs *multierror.Error
	primary, err := fetchData(ctx, r.primary, payload)
	if err != nil {
		errs = multierror.Append(errs, errors.WithMessage(err, "primary endpoint"))
	}
	secondary, err := fetchData(ctx, r.secondary, payload)
	if err != nil {
		errs = multierror.Append(errs, errors.WithMessage(err, "compared endpoint"))
	}
	if c.Err = errs.ErrorOrNil(); c.Err != nil {
		return c
	}
	c.Diff = CompareData(primary, secondary, r.ignoredKeys)
	return c
}

// fetchData posts payload and returns the decoded data member of a successful response.
func fetchData(ctx context.Context, p Poster, payload []byte) (interface{}, error) {
	resp, err := p.PostGraphQL(ctx, payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("http %d", resp.StatusCode)
	}
	if errs := gjson.GetBytes(resp.Body, "errors"); errs.Exists() && errs.Type != gjson.Null && len(errs.Array()) > 0 {
		return nil, errors.Errorf("graphql errors: %s", errs.Raw)
	}
	var body struct {
		Data interface{} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, errors.Wrap(err, "decoding response")
	}
	return body.Data, nil
}

// CompareData returns a human readable diff of two decoded GraphQL data values, or "" if they are
// equivalent. Entries under ignoredKeys are dropped at every depth and list order is not significant.
func CompareData(a, b interface{}, ignoredKeys []string) string {
	ignored := make(map[string]bool, len(ignoredKeys))
	for _, k := range ignoredKeys {
		ignored[k] = true
	}
	return cmp.Diff(
		a, b,
		cmpopts.IgnoreMapEntries(func(k string, _ interface{}) bool { return ignored[k] }),
		cmpopts.SortSlices(func(x, y interface{}) bool {
			return canonical(x, ignored) < canonical(y, ignored)
		}),
	)
}

// canonical encodes v without its ignored entries and with every list sorted, so that list elements
// sort the same way on both sides no matter how ids were assigned or nested lists were ordered.
func canonical(v interface{}, ignored map[string]bool) string {
	data, err := json.Marshal(normalize(v, ignored))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func normalize(v interface{}, ignored map[string]bool) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			if !ignored[k] {
				out[k] = normalize(val, ignored)
			}
		}
		return out
	case []interface{}:
		out := make([]interface{}, 0, len(t))
		for _, val := range t {
			out = append(out, normalize(val, ignored))
		}
		slices.SortFunc(out, func(x, y interface{}) int {
			return strings.Compare(canonical(x, ignored), canonical(y, ignored))
		})
		return out
	default:
		return v
	}
}
