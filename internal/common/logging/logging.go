package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureCommandLineLogging sets up logrus for the cmsbench command line: bare messages on stdout.
func ConfigureCommandLineLogging() {
	log.SetFormatter(&CommandLineFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

// ConfigureLogging switches to the full text formatter with timestamps and fields. Used for
// --verbose runs and long-running load tests, where the timing of each line matters.
func ConfigureLogging(level log.Level) {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
	log.SetLevel(level)
}
