package util

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// CloseResource is for defers whose close error has nowhere to go: the error is logged under name
// instead.
func CloseResource(name string, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.WithError(err).WithField("resource", name).Warn("Close failed")
	}
}
