package cli

import "errors"

// ErrUsage marks errors caused by a bad invocation (missing flags,
// unknown formats, absent catalog files) as opposed to a bad catalog
// or assembly failure; main exits with a distinct code for them.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string { return e.msg }

func (e usageError) Is(target error) bool { return target == ErrUsage }
