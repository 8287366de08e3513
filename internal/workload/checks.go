package workload

import (
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/armadaproject/cmsbench/pkg/client"
)

const (
	CheckStatus   = "is status 200"
	CheckNoErrors = "no GraphQL errors"
	CheckHasData  = "has data"
)

var CheckNames = []string{CheckStatus, CheckNoErrors, CheckHasData}

type CheckResult struct {
	Name   string
	Passed bool
}

// Evaluate runs every named check against resp. A nil response fails them all.
func Evaluate(resp *client.Response) []CheckResult {
	if resp == nil {
		results := make([]CheckResult, 0, len(CheckNames))
		for _, name := range CheckNames {
			results = append(results, CheckResult{Name: name})
		}
		return results
	}
	validJson := gjson.ValidBytes(resp.Body)
	errs := gjson.GetBytes(resp.Body, "errors")
	articles := gjson.GetBytes(resp.Body, "data.articles")
	return []CheckResult{
		{Name: CheckStatus, Passed: resp.StatusCode == http.StatusOK},
		{Name: CheckNoErrors, Passed: validJson && (!errs.Exists() || errs.Type == gjson.Null)},
		{Name: CheckHasData, Passed: validJson && articles.IsArray() && len(articles.Array()) > 0},
	}
}
