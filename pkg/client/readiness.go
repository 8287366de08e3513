package client

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
	"github.com/armadaproject/cmsbench/internal/common/util"
)

const (
	// HealthPath is probed before seeding content.
	HealthPath = "/_health"
	// AdminInitPath is probed before touching content types; it only answers once the admin panel is up.
	AdminInitPath = "/admin/init"

	DefaultReadinessInterval = 5 * time.Second
)

// Probe issues a single GET against path and reports whether the backend answered with a 2xx.
func (c *Client) Probe(ctx context.Context, path string) error {
	url := c.details.Url(path)
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.WithStack(&cmserrors.ErrUnavailable{Url: url, Message: err.Error()})
	}
	if !resp.OK() {
		return errors.WithStack(&cmserrors.ErrUnavailable{Url: url, Status: resp.StatusCode})
	}
	return nil
}

// WaitUntilReady probes path every DefaultReadinessInterval until it succeeds.
func (c *Client) WaitUntilReady(ctx context.Context, path string) error {
	return WaitUntilReady(ctx, func(ctx context.Context) error { return c.Probe(ctx, path) }, c.clock, DefaultReadinessInterval)
}

// WaitUntilReady calls probe until it returns nil, sleeping interval on clock after every failure.
// There is no attempt limit: the only way out other than success is cancelling ctx.
func WaitUntilReady(ctx context.Context, probe func(context.Context) error, clock util.Clock, interval time.Duration) error {
	log.Info("Waiting for backend to be ready...")
	ready := false
	util.RetryUntilSuccess(
		ctx,
		func() error {
			if err := probe(ctx); err != nil {
				return err
			}
			ready = true
			return nil
		},
		func(err error) {
			log.Infof("Backend not ready yet (%s), retrying in %s", err, interval)
			_ = clock.Sleep(ctx, interval)
		},
	)
	if !ready {
		return errors.WithStack(ctx.Err())
	}
	log.Info("Backend is ready!")
	return nil
}
