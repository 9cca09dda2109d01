package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"cth/internal/domain"
)

// waitDelay bounds how long Run waits for the output pipes once the encoder
// has been killed
const waitDelay = 2 * time.Second

// Runner launches the encoder as a subprocess
type Runner struct {
	command []string
	timeout time.Duration
}

// NewRunner creates a Runner for the given encoder command line, split on
// whitespace. A zero timeout waits forever.
func NewRunner(encoder string, timeout time.Duration) (*Runner, error) {
	command := strings.Fields(encoder)
	if len(command) == 0 {
		return nil, errors.New("empty encoder command")
	}
	if timeout < 0 {
		return nil, fmt.Errorf("negative timeout: %s", timeout)
	}
	return &Runner{command: command, timeout: timeout}, nil
}

// Command returns the base command line
func (r *Runner) Command() []string {
	return append([]string(nil), r.command...)
}

// Timeout returns the per-invocation timeout
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Run executes the encoder with args appended to the base command and input
// on stdin. Stdout and stderr are captured separately. The result always
// describes the invocation: a process that could not be started has Err set
// and an exit code of -1.
func (r *Runner) Run(ctx context.Context, args []string, input string) domain.ExecutionResult {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	argv := append(r.Command()[1:], args...)
	cmd := exec.CommandContext(runCtx, r.command[0], argv...)
	cmd.Stdin = strings.NewReader(input)
	cmd.WaitDelay = waitDelay

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	start := time.Now()
	err := cmd.Run()
	result := domain.ExecutionResult{
		Stdout:   outBuf.String(),
		Stderr:   errBuf.String(),
		Duration: time.Since(start),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
	case ctx.Err() != nil:
		// The whole run was interrupted, not this invocation.
		result.ExitCode = -1
		result.Err = ctx.Err()
	case runCtx.Err() != nil:
		result.ExitCode = -1
		result.TimedOut = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Err = err
		}
	}
	return result
}
