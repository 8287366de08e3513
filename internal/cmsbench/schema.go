package cmsbench

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/schema"
	"github.com/armadaproject/cmsbench/pkg/client"
)

// InstallSchemas writes the content type definitions under Params.SchemaDir.
func (a *App) InstallSchemas() error {
	defs := schema.Definitions()
	if a.Params.DefinitionsFile != "" {
		loaded, err := schema.LoadDefinitions(a.Params.DefinitionsFile)
		if err != nil {
			return err
		}
		defs = loaded
	}
	paths, err := schema.NewInstaller(a.Params.SchemaDir).Install(defs)
	for _, p := range paths {
		fmt.Fprintln(a.Out, p)
	}
	return err
}

// BootstrapSchemas creates the content types through the running backend's content-type builder.
// Rejected steps are logged and reported; only readiness, login and cancellation fail the command.
func (a *App) BootstrapSchemas(ctx context.Context) error {
	c := a.client()
	if err := c.WaitUntilReady(ctx, client.AdminInitPath); err != nil {
		return err
	}
	token, err := c.Login(ctx)
	if err != nil {
		return err
	}

	result, err := schema.NewBootstrapper(c.WithToken(token)).Run(ctx, schema.BootstrapSteps(a.Params.IncludeBaseTypes))
	for _, step := range result.Steps {
		status := "ok"
		if step.Err != nil {
			status = "failed: " + step.Err.Error()
		}
		fmt.Fprintf(a.Out, "%s: %s\n", step.Step, status)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		log.Warnf("%d of %d content type steps failed", len(result.Failed()), len(result.Steps))
	}
	return nil
}
