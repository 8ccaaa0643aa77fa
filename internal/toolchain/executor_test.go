package toolchain

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock types ---

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	called := m.Called(ctx, name, args, stdin)
	stdout, _ := called.Get(0).([]byte)
	stderr, _ := called.Get(1).([]byte)
	return stdout, stderr, called.Error(2)
}

type runnerFunc func(ctx context.Context, name string, args []string) ([]byte, []byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args []string, _ io.Reader) ([]byte, []byte, error) {
	return f(ctx, name, args)
}

func fakeRegistry() *Registry {
	reg := NewRegistry(nil)
	reg.SetLookPath(func(name string) (string, error) {
		return "/usr/bin/" + name, nil
	})
	return reg
}

// --- Tests ---

func TestExecutor_Success(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "/usr/bin/ffprobe", []string{"-v", "error", "in.mp4"}, nil).
		Return([]byte("2.5\n"), []byte(nil), nil)

	ex := NewExecutorWithRunner(fakeRegistry(), runner)
	res, err := ex.Execute(context.Background(), Invocation{
		Tool:    ToolFFprobe,
		Args:    []string{"-v", "error", "in.mp4"},
		Timeout: time.Second,
	})

	require.NoError(t, err)
	assert.Equal(t, "2.5\n", string(res.Stdout))
	runner.AssertExpectations(t)
}

func TestExecutor_InvalidInvocationNeverRuns(t *testing.T) {
	runner := new(MockRunner)
	ex := NewExecutorWithRunner(fakeRegistry(), runner)

	_, err := ex.Execute(context.Background(), Invocation{Tool: ToolFFmpeg, Args: []string{"-y"}})

	assert.ErrorIs(t, err, ErrInvalidInvocation)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutor_ToolUnavailable(t *testing.T) {
	reg := NewRegistry(nil)
	reg.SetLookPath(func(string) (string, error) { return "", exec.ErrNotFound })
	runner := new(MockRunner)

	_, err := NewExecutorWithRunner(reg, runner).Execute(context.Background(), Invocation{
		Tool:    ToolFFmpeg,
		Args:    []string{"-version"},
		Timeout: time.Second,
	})

	assert.ErrorIs(t, err, ErrToolUnavailable)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutor_StartFailureIsUnavailable(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(nil), []byte(nil), &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound})

	_, err := NewExecutorWithRunner(fakeRegistry(), runner).Execute(context.Background(), Invocation{
		Tool:    ToolFFmpeg,
		Args:    []string{"-version"},
		Timeout: time.Second,
	})

	assert.ErrorIs(t, err, ErrToolUnavailable)
}

func TestExecutor_ExitError(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(nil), []byte("moov atom not found"), errors.New("exit status 1"))

	_, err := NewExecutorWithRunner(fakeRegistry(), runner).Execute(context.Background(), Invocation{
		Tool:    ToolFFmpeg,
		Args:    []string{"-i", "broken.mp4"},
		Timeout: time.Second,
	})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, ToolFFmpeg, exitErr.Tool)
	assert.Contains(t, err.Error(), "moov atom not found")
}

func TestExecutor_Timeout(t *testing.T) {
	runner := runnerFunc(func(ctx context.Context, _ string, _ []string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	})

	_, err := NewExecutorWithRunner(fakeRegistry(), runner).Execute(context.Background(), Invocation{
		Tool:    ToolFFmpeg,
		Args:    []string{"-i", "slow.mp4"},
		Timeout: 20 * time.Millisecond,
	})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestExecutor_MissingOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.mp4")
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(nil), []byte(nil), nil)

	_, err := NewExecutorWithRunner(fakeRegistry(), runner).Execute(context.Background(), Invocation{
		Tool:    ToolFFmpeg,
		Args:    []string{"-i", "in.mp4", out},
		Timeout: time.Second,
		Outputs: []string{out},
	})

	assert.ErrorIs(t, err, ErrMissingOutput)
}

func TestExecutor_ObserverSeesEveryCall(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte(nil), []byte(nil), errors.New("exit status 1")).Once()
	runner.On("Run", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]byte("1.0"), []byte(nil), nil).Once()

	ex := NewExecutorWithRunner(fakeRegistry(), runner)
	var seen []error
	ex.SetObserver(func(_ context.Context, tool Tool, _ time.Duration, err error) {
		assert.Equal(t, ToolFFprobe, tool)
		seen = append(seen, err)
	})

	inv := Invocation{Tool: ToolFFprobe, Args: []string{"a.mp4"}, Timeout: time.Second}
	_, _ = ex.Execute(context.Background(), inv)
	_, _ = ex.Execute(context.Background(), inv)

	require.Len(t, seen, 2)
	assert.Error(t, seen[0])
	assert.NoError(t, seen[1])
}

func TestExecCommandRunner_MissingBinary(t *testing.T) {
	_, _, err := ExecCommandRunner{}.Run(context.Background(), filepath.Join(os.TempDir(), "no-such-binary-xyz"), nil, nil)
	assert.Error(t, err)
}
