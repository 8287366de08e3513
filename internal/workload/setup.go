package workload

import (
	"context"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	SetupAttempts = 10
	SetupDelay    = time.Second
)

type Authenticator interface {
	Login(ctx context.Context) (string, error)
}

// Setup logs in once for the whole run. Login is attempted up to SetupAttempts times, SetupDelay apart;
// opts are applied after the defaults and so may override them.
func Setup(ctx context.Context, auth Authenticator, opts ...retry.Option) (string, error) {
	var token string
	options := append([]retry.Option{
		retry.Attempts(SetupAttempts),
		retry.Delay(SetupDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).Warnf("Login attempt %d failed", n+1)
		}),
	}, opts...)
	err := retry.Do(func() error {
		t, err := auth.Login(ctx)
		if err != nil {
			return err
		}
		token = t
		return nil
	}, options...)
	if err != nil {
		return "", errors.WithMessage(err, "setup failed")
	}
	return token, nil
}
