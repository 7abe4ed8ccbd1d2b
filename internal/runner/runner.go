package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Status classifies how a command ended.
type Status int

const (
	// StatusSucceeded means the process exited with status 0.
	StatusSucceeded Status = iota
	// StatusFailed means the process ran and exited with a non-zero status.
	StatusFailed
	// StatusNotStarted means the process could not be launched.
	StatusNotStarted
)

// String returns a short name for logs.
func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusNotStarted:
		return "not started"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Command describes one external invocation.
type Command struct {
	// Name labels the command in logs.
	Name string
	// Program is the executable to run, looked up in PATH.
	Program string
	// Args are passed to Program verbatim.
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env is appended to the current environment.
	Env map[string]string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// Result holds the outcome of a finished command.
type Result struct {
	// Status classifies the outcome.
	Status Status
	// ExitCode is the process exit status, -1 when it never started.
	ExitCode int
	// Output is the combined stdout and stderr when capture is enabled.
	Output string
	// Err is the underlying error for StatusFailed and StatusNotStarted.
	Err error
}

// Succeeded reports whether the command exited with status 0.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == StatusSucceeded
}

// Runner runs commands to completion.
type Runner interface {
	Run(ctx context.Context, cmd Command) *Result
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// stdout receives process stdout in addition to any capture buffer.
	stdout io.Writer
	// stderr receives process stderr in addition to any capture buffer.
	stderr io.Writer
	// capture keeps combined output in Result.Output.
	capture bool
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithConsole streams process output to the operator's terminal.
func WithConsole() Option {
	return func(r *ExecRunner) {
		r.stdout = os.Stdout
		r.stderr = os.Stderr
	}
}

// WithOutput streams process output to the provided writers.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *ExecRunner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithCapture stores the combined output in Result.Output.
func WithCapture() Option {
	return func(r *ExecRunner) {
		r.capture = true
	}
}

// New creates an ExecRunner. Without options output is discarded.
func New(opts ...Option) *ExecRunner {
	r := new(ExecRunner)

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run starts the command and waits for it. It never returns nil.
func (r *ExecRunner) Run(ctx context.Context, command Command) *Result {
	//nolint:gosec // Commands come from the operator's own build configuration.
	cmd := exec.CommandContext(ctx, command.Program, command.Args...)
	cmd.Dir = command.Dir

	if len(command.Env) > 0 {
		cmd.Env = os.Environ()
		for key, value := range command.Env {
			cmd.Env = append(cmd.Env, key+"="+value)
		}
	}

	// exec copies stdout and stderr from separate goroutines.
	combined := new(lockedBuffer)

	cmd.Stdout = r.writer(r.stdout, combined)
	cmd.Stderr = r.writer(r.stderr, combined)

	err := cmd.Run()

	result := &Result{
		Status:   StatusSucceeded,
		ExitCode: 0,
		Output:   combined.String(),
		Err:      err,
	}

	if err == nil {
		return result
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.Status = StatusFailed
		result.ExitCode = exitErr.ExitCode()

		return result
	}

	result.Status = StatusNotStarted
	result.ExitCode = -1

	return result
}

// writer combines the optional stream target with the capture buffer.
func (r *ExecRunner) writer(stream io.Writer, combined *lockedBuffer) io.Writer {
	writers := make([]io.Writer, 0, 2)

	if stream != nil {
		writers = append(writers, stream)
	}

	if r.capture {
		writers = append(writers, combined)
	}

	if len(writers) == 0 {
		return nil
	}

	return io.MultiWriter(writers...)
}

// lockedBuffer is a bytes.Buffer safe for concurrent writers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
