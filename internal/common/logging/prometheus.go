package logging

import (
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/weaveworks/promrus"
)

var (
	promHookOnce sync.Once
	promHookErr  error
)

// AddPrometheusHook counts log messages by level in the default Prometheus registry.
// Only the first call installs the hook; later calls return its result.
func AddPrometheusHook() error {
	promHookOnce.Do(func() {
		hook, err := promrus.NewPrometheusHook()
		if err != nil {
			promHookErr = errors.WithStack(err)
			return
		}
		log.AddHook(hook)
	})
	return promHookErr
}
