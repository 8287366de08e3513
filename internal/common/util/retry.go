package util

import (
	"context"
)

// RetryUntilSuccess calls attempt until it returns nil or ctx is done. Failures go to onError, which is
// where callers pause before the next attempt.
func RetryUntilSuccess(ctx context.Context, attempt func() error, onError func(error)) {
	for ctx.Err() == nil {
		err := attempt()
		if err == nil {
			return
		}
		onError(err)
	}
}
