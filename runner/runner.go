// Package runner executes the ccusage CLI with an environment that lets it
// find its Node.js runtime, capturing stdout, stderr and the exit status.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/penwyp/ClawMeter/logging"
	"github.com/penwyp/ClawMeter/models"
)

// ErrTimeout is returned when the external program exceeds its time budget
var ErrTimeout = errors.New("command timed out")

// Result is the captured outcome of a program that was started
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Success reports whether the program exited with status zero
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// StartError reports that the program could not be started at all
type StartError struct {
	Path string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// Runner runs ccusage subcommands
type Runner interface {
	Run(ctx context.Context, paths models.ResolvedPaths, args ...string) (*Result, error)
}

// Options configures an ExecRunner
type Options struct {
	// Timeout bounds every invocation; the process is killed when it expires
	Timeout time.Duration
	// ExtraPathDirs are added to PATH after the runtime directory
	ExtraPathDirs []string
	// RuntimeEnv is set to the resolved runtime path in the child environment
	RuntimeEnv string
	// Environ supplies the inherited environment
	Environ func() []string
	GOOS    string
}

// ExecRunner runs programs with os/exec
type ExecRunner struct {
	opts Options
}

// New creates an ExecRunner
func New(opts Options) *ExecRunner {
	if opts.Timeout <= 0 {
		opts.Timeout = models.DefaultCommandTimeout
	}
	if opts.RuntimeEnv == "" {
		opts.RuntimeEnv = models.DefaultRuntimeEnv
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	return &ExecRunner{opts: opts}
}

// Run executes paths.ToolPath with args. A non-zero exit status is not an
// error; the caller inspects Result. Errors are returned only when the
// program cannot be started, times out or ctx is cancelled.
func (r *ExecRunner) Run(ctx context.Context, paths models.ResolvedPaths, args ...string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	env := r.Env(paths)
	cmd := exec.CommandContext(ctx, lookPathIn(paths.ToolPath, envValue(env, "PATH", r.opts.GOOS)), args...)
	cmd.Env = env
	// give the killed process a moment to release its pipes
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	commandLine := strings.TrimSpace(paths.ToolPath + " " + strings.Join(args, " "))
	logging.LogDebugf("[runner] executing: %s (node: %s)", commandLine, paths.RuntimePath)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			logging.LogWarnf("[runner] %s killed after %v", commandLine, r.opts.Timeout)
			return nil, fmt.Errorf("%s: %w after %v", commandLine, ErrTimeout, r.opts.Timeout)
		}
		return nil, fmt.Errorf("%s: %w", commandLine, ctxErr)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			logging.LogErrorf("[runner] failed to start %s: %v", paths.ToolPath, err)
			return nil, &StartError{Path: paths.ToolPath, Err: err}
		}
	}

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: duration,
	}
	logging.LogDebugf("[runner] %s exited with %d in %v (%d bytes stdout, %d bytes stderr)",
		commandLine, result.ExitCode, duration, len(result.Stdout), len(result.Stderr))

	return result, nil
}

// Env returns the child environment used for paths
func (r *ExecRunner) Env(paths models.ResolvedPaths) []string {
	return BuildEnv(r.opts.Environ(), paths.RuntimePath, r.opts.RuntimeEnv, r.opts.ExtraPathDirs, r.opts.GOOS)
}
