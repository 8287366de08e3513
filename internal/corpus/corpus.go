// Package corpus generates a fixed set of article queries for replay as a regression suite.
package corpus

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/armadaproject/cmsbench/internal/query"
)

const (
	DefaultCount    = 10000
	DefaultFileName = "test-cases.json"
)

// Generate draws n cases from space and returns their query texts in generation order.
// The same space and seed for r always produce the same corpus.
func Generate(space query.ParameterSpace, r *rand.Rand, n int) []string {
	cases := make([]string, 0, n)
	for i := 0; i < n; i++ {
		cases = append(cases, query.Build(space.Pick(r)).Query)
	}
	return cases
}

// Write stores cases at path as a single tab-indented JSON array, replacing any existing file.
func Write(path string, cases []string) error {
	if cases == nil {
		cases = []string{}
	}
	data, err := json.MarshalIndent(cases, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(os.WriteFile(path, data, 0o644))
}

// Read loads a corpus previously stored with Write.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var cases []string
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, errors.Wrapf(err, "corpus %s is not a JSON array of strings", path)
	}
	return cases, nil
}
