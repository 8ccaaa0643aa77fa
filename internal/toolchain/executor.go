package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// CommandRunner is the interface for running commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

// ExecCommandRunner uses os/exec.
type ExecCommandRunner struct{}

// Run runs a command.
func (ExecCommandRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) (stdout, stderr []byte, err error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err = cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// Observer is notified after every invocation, successful or not.
type Observer func(ctx context.Context, tool Tool, elapsed time.Duration, err error)

// Executor validates invocations and runs them with a bounded timeout.
type Executor struct {
	runner   CommandRunner
	registry *Registry
	observer Observer
}

// NewExecutor creates an executor backed by os/exec.
func NewExecutor(registry *Registry) *Executor {
	return NewExecutorWithRunner(registry, ExecCommandRunner{})
}

// NewExecutorWithRunner creates an executor with a custom runner.
func NewExecutorWithRunner(registry *Registry, runner CommandRunner) *Executor {
	return &Executor{
		runner:   runner,
		registry: registry,
	}
}

// SetObserver installs a completion hook. It must be called before the executor is shared.
func (e *Executor) SetObserver(o Observer) {
	e.observer = o
}

// Registry returns the tool registry used to resolve binaries.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute validates inv, runs it and checks that its outputs exist.
func (e *Executor) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	bin, err := e.registry.Path(inv.Tool)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := e.runner.Run(ctx, bin, inv.Args, nil)
	res := &Result{Stdout: stdout, Stderr: stderr, Duration: time.Since(start)}

	err = e.classify(ctx, inv, stderr, err)
	if e.observer != nil {
		e.observer(ctx, inv.Tool, res.Duration, err)
	}
	if err != nil {
		slog.Debug("Tool invocation failed", "tool", inv.Tool, "duration", res.Duration, "error", err)
		return res, err
	}

	return res, nil
}

func (e *Executor) classify(ctx context.Context, inv Invocation, stderr []byte, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s after %s", ErrTimeout, inv.Tool, inv.Timeout)
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return fmt.Errorf("%w: %s: %v", ErrToolUnavailable, inv.Tool, execErr)
		}
		return &ExitError{Tool: inv.Tool, Err: err, Stderr: string(stderr)}
	}
	for _, out := range inv.Outputs {
		if _, statErr := os.Stat(out); statErr != nil {
			return fmt.Errorf("%w: %s", ErrMissingOutput, out)
		}
	}
	return nil
}
