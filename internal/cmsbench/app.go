package cmsbench

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/cmsbench/build"
	"github.com/armadaproject/cmsbench/internal/common/util"
	"github.com/armadaproject/cmsbench/internal/corpus"
	"github.com/armadaproject/cmsbench/internal/loadtest"
	"github.com/armadaproject/cmsbench/internal/query"
	"github.com/armadaproject/cmsbench/internal/seeder"
	"github.com/armadaproject/cmsbench/pkg/client"
)

type App struct {
	// Parameters passed to the CLI by the user.
	Params *Params
	// Out is used to write the output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the applications's output.
	Out io.Writer
	// Clock used for readiness polling and think time. Tests can substitute a clock that does not sleep.
	Clock util.Clock
}

// Params struct holds all user-customizable parameters.
// Using a single struct for all CLI commands ensures that all flags are distinct
// and that they can be provided either dynamically on a command line, or
// statically in a config file that's reused between command runs.
type Params struct {
	ApiConnectionDetails *client.ApiConnectionDetails
	// Seed for every random choice. Zero picks a time based seed, which is logged.
	Seed    int64
	Seeding seeder.SeedConfig
	// Root of the backend's source tree, under which schema files are installed.
	SchemaDir string
	// Optional YAML or JSON file replacing the built-in content type definitions.
	DefinitionsFile string
	// Also create the author and tag content types when bootstrapping.
	IncludeBaseTypes bool
	QuerySpace       query.ParameterSpace
	CorpusFile       string
	CorpusCount      int
	LoadTest         loadtest.TestConfig
	Replay           corpus.ReplayConfig
}

// New instantiates an App with default parameters, writing to standard out.
func New() *App {
	return &App{
		Params: &Params{
			ApiConnectionDetails: &client.ApiConnectionDetails{},
			Seeding:              seeder.DefaultSeedConfig(),
			SchemaDir:            ".",
			QuerySpace:           query.DefaultParameterSpace(),
			CorpusFile:           corpus.DefaultFileName,
			CorpusCount:          corpus.DefaultCount,
			LoadTest:             loadtest.DefaultTestConfig(),
			Replay:               corpus.DefaultReplayConfig(),
		},
		Out:   os.Stdout,
		Clock: &util.DefaultClock{},
	}
}

// Version prints build information (e.g., current git commit) to the app output.
func (a *App) Version() error {
	w := tabwriter.NewWriter(a.Out, 1, 1, 1, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "Version:\t%s\n", build.ReleaseVersion)
	fmt.Fprintf(w, "Commit:\t%s\n", build.GitCommit)
	fmt.Fprintf(w, "Go version:\t%s\n", build.GoVersion)
	fmt.Fprintf(w, "Built:\t%s\n", build.BuildTime)
	return nil
}

func (a *App) client() *client.Client {
	return client.NewClient(a.Params.ApiConnectionDetails).WithClock(a.Clock)
}

// seed resolves the configured seed and logs it so that the run can be repeated.
func (a *App) seed() int64 {
	seed := util.ResolveSeed(a.Params.Seed)
	log.Infof("Using seed %d", seed)
	return seed
}
