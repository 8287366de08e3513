package util

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryUntilSuccess(t *testing.T) {
	tests := map[string]struct {
		failures         int
		expectedAttempts int
	}{
		"first attempt succeeds": {failures: 0, expectedAttempts: 1},
		"succeeds after failures": {failures: 5, expectedAttempts: 6},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			attempts := 0
			var reported []error
			RetryUntilSuccess(
				ctx,
				func() error {
					attempts++
					if attempts <= tc.failures {
						return fmt.Errorf("attempt %d: connection refused", attempts)
					}
					return nil
				},
				func(err error) { reported = append(reported, err) },
			)

			assert.NoError(t, ctx.Err())
			assert.Equal(t, tc.expectedAttempts, attempts)
			assert.Len(t, reported, tc.failures)
		})
	}
}

func TestRetryUntilSuccess_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	attempts := 0
	RetryUntilSuccess(
		ctx,
		func() error {
			attempts++
			return fmt.Errorf("http 503")
		},
		func(err error) {
			if attempts == 3 {
				cancel()
			}
		},
	)

	assert.Equal(t, 3, attempts)
}

func TestRetryUntilSuccess_CancelledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	RetryUntilSuccess(ctx, func() error { called = true; return nil }, func(error) {})

	assert.False(t, called)
}
