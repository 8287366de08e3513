package cmsbench

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/armadaproject/cmsbench/internal/corpus"
	"github.com/armadaproject/cmsbench/internal/workload"
)

// CreateTests writes Params.CorpusCount query texts to Params.CorpusFile.
func (a *App) CreateTests() error {
	if err := a.Params.QuerySpace.Validate(); err != nil {
		return err
	}
	r := rand.New(rand.NewSource(a.seed()))
	cases := corpus.Generate(a.Params.QuerySpace, r, a.Params.CorpusCount)
	if err := corpus.Write(a.Params.CorpusFile, cases); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "Generated %d test cases in %s\n", len(cases), a.Params.CorpusFile)
	return nil
}

// RunQueryCase logs in, sends a single random query and prints it along with the response.
func (a *App) RunQueryCase(ctx context.Context) error {
	if err := a.Params.QuerySpace.Validate(); err != nil {
		return err
	}
	r := rand.New(rand.NewSource(a.seed()))
	_, err := workload.RunOnce(ctx, a.client(), a.Params.QuerySpace, r, a.Out)
	return err
}
