package build

import "runtime"

// Populated at build time with -ldflags "-X github.com/armadaproject/cmsbench/internal/cmsbench/build.ReleaseVersion=..."
var (
	ReleaseVersion = "UNKNOWN"
	GitCommit      = "UNKNOWN"
	BuildTime      = "UNKNOWN"
	GoVersion      = runtime.Version()
)
