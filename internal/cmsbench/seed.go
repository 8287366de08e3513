package cmsbench

import (
	"context"
	"fmt"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/seeder"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// Seed waits for the backend, logs in and creates fake authors, tags and articles. Records the backend
// rejects are reported but do not fail the command.
func (a *App) Seed(ctx context.Context) error {
	if err := a.Params.Seeding.Validate(); err != nil {
		return err
	}
	c := a.client()
	if err := c.WaitUntilReady(ctx, client.HealthPath); err != nil {
		return err
	}
	token, err := c.Login(ctx)
	if err != nil {
		return err
	}

	s := seeder.NewSeeder(c.WithToken(token), seeder.NewFaker(a.seed(), a.Clock))
	report, err := s.Run(ctx, a.Params.Seeding)
	if report != nil {
		a.printReport(report)
	}
	if err != nil {
		return err
	}
	log.Info("Seeding complete!")
	return nil
}

func (a *App) printReport(report *seeder.Report) {
	w := tabwriter.NewWriter(a.Out, 1, 1, 1, ' ', 0)
	defer w.Flush()
	for _, batch := range report.Batches() {
		fmt.Fprintf(w, "%s:\t%d created\t%d failed\t(%d requested)\n",
			batch.Collection, len(batch.Created()), len(batch.Failures()), batch.Requested)
	}
}
