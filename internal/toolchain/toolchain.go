// Package toolchain runs the external media tools (ffmpeg, ffprobe) behind a
// typed invocation descriptor.
//
// Every call is described by an [Invocation] which is validated before any
// process is started: the tool must be known, a timeout must bound it, and
// every declared output must be an absolute path that appears in the argument
// list. Arguments are passed to the process directly, never through a shell.
package toolchain

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Tool identifies an external binary.
type Tool string

const (
	ToolFFmpeg  Tool = "ffmpeg"
	ToolFFprobe Tool = "ffprobe"
)

// IsValid reports whether t is a recognised tool.
func (t Tool) IsValid() bool {
	return t == ToolFFmpeg || t == ToolFFprobe
}

// Invocation describes one bounded external tool call.
type Invocation struct {
	// Tool selects the binary.
	Tool Tool

	// Args are passed verbatim as argv[1:].
	Args []string

	// Timeout bounds the call. A timeout is reported as ErrTimeout.
	Timeout time.Duration

	// Outputs lists files that must exist after a successful run.
	Outputs []string
}

// Validate checks the descriptor before it is executed.
func (inv Invocation) Validate() error {
	if !inv.Tool.IsValid() {
		return fmt.Errorf("%w: unknown tool %q", ErrInvalidInvocation, inv.Tool)
	}
	if inv.Timeout <= 0 {
		return fmt.Errorf("%w: %s requires a positive timeout", ErrInvalidInvocation, inv.Tool)
	}
	if len(inv.Args) == 0 {
		return fmt.Errorf("%w: %s called without arguments", ErrInvalidInvocation, inv.Tool)
	}
	for i, arg := range inv.Args {
		if arg == "" {
			return fmt.Errorf("%w: argument %d is empty", ErrInvalidInvocation, i)
		}
		if strings.ContainsRune(arg, 0) {
			return fmt.Errorf("%w: argument %d contains a NUL byte", ErrInvalidInvocation, i)
		}
	}
	for _, out := range inv.Outputs {
		if !filepath.IsAbs(out) {
			return fmt.Errorf("%w: output %q is not absolute", ErrInvalidInvocation, out)
		}
		if !slices.Contains(inv.Args, out) {
			return fmt.Errorf("%w: output %q is not referenced by the arguments", ErrInvalidInvocation, out)
		}
	}
	return nil
}

// String renders the invocation for logs.
func (inv Invocation) String() string {
	return string(inv.Tool) + " " + strings.Join(inv.Args, " ")
}

// Result holds the captured output of a finished invocation.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}
