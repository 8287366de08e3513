package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// StacktraceKey is the log field holding the stack of the failed call.
const StacktraceKey = "stacktrace"

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// WithStacktrace adds err to entry, together with the stack recorded where err was created when it came
// from pkg/errors.
func WithStacktrace(entry *logrus.Entry, err error) *logrus.Entry {
	entry = entry.WithError(err)
	if stack := innermostStack(err); stack != nil {
		entry = entry.WithField(StacktraceKey, stack)
	}
	return entry
}

// innermostStack follows Unwrap, so stacks behind fmt.Errorf("%w") or a multierror are found as well.
// The deepest stack is the one closest to the failure.
func innermostStack(err error) errors.StackTrace {
	var stack errors.StackTrace
	for ; err != nil; err = errors.Unwrap(err) {
		if st, ok := err.(stackTracer); ok {
			stack = st.StackTrace()
		}
	}
	return stack
}
