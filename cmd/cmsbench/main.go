package main

import (
	"os"

	"github.com/armadaproject/cmsbench/cmd/cmsbench/cmd"
	"github.com/armadaproject/cmsbench/internal/common/logging"
)

// Config is handled by cmd/params.go
func main() {
	logging.ConfigureCommandLineLogging()
	err := cmd.RootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
