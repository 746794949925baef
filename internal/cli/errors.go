package cli

import "errors"

// ErrUsage matches every error caused by bad input rather than by a failure
// of the tool itself.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg   string
	cause error
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

// wrapUsageError keeps cause reachable through errors.As.
func wrapUsageError(cause error, msg string) error {
	return usageError{msg: msg, cause: cause}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Unwrap() error { return e.cause }

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
