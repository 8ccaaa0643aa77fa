package toolchain

import (
	"errors"
	"fmt"
)

// Error definitions for the toolchain package.
var (
	ErrToolUnavailable   = errors.New("media tool is not installed")
	ErrInvalidInvocation = errors.New("invalid tool invocation")
	ErrTimeout           = errors.New("media tool timed out")
	ErrMissingOutput     = errors.New("media tool did not produce its output")
	ErrBadProbe          = errors.New("unparseable probe output")
)

// ExitError is returned when a tool ran but exited unsuccessfully.
type ExitError struct {
	Tool   Tool
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, tail(e.Stderr, 200))
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// tail returns the last n bytes of s.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
