package logging

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithStacktrace(t *testing.T) {
	created := errors.New("http 500")
	tests := map[string]struct {
		err           error
		expectedStack errors.StackTrace
	}{
		"plain error": {
			err: fmt.Errorf("boom"),
		},
		"pkg/errors": {
			err:           created,
			expectedStack: created.(stackTracer).StackTrace(),
		},
		"wrapped twice keeps the innermost stack": {
			err:           errors.WithStack(errors.WithMessage(created, "creating article")),
			expectedStack: created.(stackTracer).StackTrace(),
		},
		"behind fmt.Errorf": {
			err:           fmt.Errorf("seeding: %w", created),
			expectedStack: created.(stackTracer).StackTrace(),
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			entry := WithStacktrace(logrus.NewEntry(logrus.New()), tc.err)

			assert.Equal(t, tc.err, entry.Data[logrus.ErrorKey])
			stack, ok := entry.Data[StacktraceKey]
			if tc.expectedStack == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tc.expectedStack, stack)
		})
	}
}

func TestCommandLineFormatter(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithField("ignored", 1)
	entry.Message = "Created author: Jane Doe"

	out, err := (&CommandLineFormatter{}).Format(entry)

	assert.NoError(t, err)
	assert.Equal(t, "Created author: Jane Doe\n", string(out))
}

func TestCommandLineFormatter_AppendsError(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithError(fmt.Errorf("http 400"))
	entry.Message = "Error creating record 3"

	out, err := (&CommandLineFormatter{}).Format(entry)

	assert.NoError(t, err)
	assert.Equal(t, "Error creating record 3: http 400\n", string(out))
}
