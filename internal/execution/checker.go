package execution

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cth/internal/domain"
	"cth/internal/literal"
)

// Failure reasons reported by the checker
const (
	ReasonErrorNotSeen     = "An error was expected but none seen"
	ReasonUnevaluable      = "Unable to evaluate the execution output"
	ReasonMismatch         = "Parsing result differs from the expected one"
	ReasonUnexpectedFail   = "Unexpected failure of parsing"
	ReasonOtherError       = "Expected parsing failure but with another error"
	ReasonLoopDumpFailed   = "Unexpected failure of the looped dump"
	ReasonIdemDumpFailed   = "Unexpected failure of the idempotence step"
	ReasonResultsDiffer    = "Results differ"
	ReasonInterrupted      = "Interrupted"
	reasonTimeoutFormat    = "Encoder timed out after %s"
	reasonLaunchFailFormat = "Unable to launch the encoder: %v"
)

// CheckerOptions configures the equivalence protocol
type CheckerOptions struct {
	DumpFlag  string        // Argument asking the encoder to re-serialize
	RoundTrip bool          // Run the loop and idempotence phases
	Timeout   time.Duration // Only used in timeout messages
}

// Checker runs the forward, loop and idempotence phases of a case
type Checker struct {
	invoker Invoker
	opts    CheckerOptions
}

// NewChecker creates a new Checker
func NewChecker(invoker Invoker, opts CheckerOptions) *Checker {
	return &Checker{invoker: invoker, opts: opts}
}

// Check runs the protocol on tc and returns the first failure, if any.
//
// The forward phase parses the input. Unless it failed, the case expects an
// error, or round-trip is off, the loop phase dumps the input and parses the
// dump again. The idempotence phase then dumps the dump and requires the
// same bytes.
func (c *Checker) Check(ctx context.Context, tc domain.TestCase) domain.Verdict {
	v := domain.Verdict{Phase: domain.PhaseForward}

	parse := c.invoker.Run(ctx, nil, tc.Input)
	v.Parse = &parse
	reason, output := c.evaluate(tc, parse)
	v.Output = output
	if reason != "" {
		return fail(v, reason)
	}
	if !c.opts.RoundTrip || tc.HasExpectedError {
		return pass(v)
	}

	v.Phase = domain.PhaseLoop
	dump := c.invoker.Run(ctx, c.dumpArgs(), tc.Input)
	v.Dump = &dump
	if reason := c.invocationFailure(dump); reason != "" {
		return fail(v, tagged(domain.PhaseLoop, reason))
	}
	if dump.ExitCode != 0 {
		return fail(v, ReasonLoopDumpFailed)
	}

	reparse := c.invoker.Run(ctx, nil, dump.Stdout)
	v.Reparse = &reparse
	reason, output = c.evaluate(tc, reparse)
	v.Output = output
	if reason != "" {
		return fail(v, tagged(domain.PhaseLoop, reason))
	}

	v.Phase = domain.PhaseIdempotence
	redump := c.invoker.Run(ctx, c.dumpArgs(), dump.Stdout)
	v.Redump = &redump
	if reason := c.invocationFailure(redump); reason != "" {
		return fail(v, tagged(domain.PhaseIdempotence, reason))
	}
	if redump.ExitCode != 0 {
		return fail(v, ReasonIdemDumpFailed)
	}
	if redump.Stdout != dump.Stdout {
		return fail(v, tagged(domain.PhaseIdempotence, ReasonResultsDiffer))
	}
	return pass(v)
}

// evaluate compares a parse invocation with the case expectations. The
// deserialized output is returned whenever stdout is a valid literal.
func (c *Checker) evaluate(tc domain.TestCase, res domain.ExecutionResult) (string, *literal.Value) {
	if reason := c.invocationFailure(res); reason != "" {
		return reason, nil
	}

	if res.ExitCode != 0 {
		if !tc.HasExpectedError {
			return ReasonUnexpectedFail, nil
		}
		if !strings.Contains(res.Stdout, tc.ExpectedError) {
			return ReasonOtherError, nil
		}
		return "", nil
	}

	if tc.HasExpectedError {
		return ReasonErrorNotSeen, nil
	}
	out, err := literal.Parse(res.Stdout)
	if err != nil {
		return ReasonUnevaluable, nil
	}
	if !literal.Equal(tc.ExpectedValue(), out) {
		return ReasonMismatch, &out
	}
	return "", &out
}

// invocationFailure reports invocations that produced no exit status
func (c *Checker) invocationFailure(res domain.ExecutionResult) string {
	switch {
	case res.TimedOut:
		return fmt.Sprintf(reasonTimeoutFormat, c.opts.Timeout)
	case res.Err != nil && (errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded)):
		return ReasonInterrupted
	case res.Err != nil:
		return fmt.Sprintf(reasonLaunchFailFormat, res.Err)
	}
	return ""
}

func (c *Checker) dumpArgs() []string {
	if c.opts.DumpFlag == "" {
		return nil
	}
	return []string{c.opts.DumpFlag}
}

func tagged(p domain.Phase, reason string) string {
	if tag := p.Tag(); tag != "" {
		return tag + " " + reason
	}
	return reason
}

func pass(v domain.Verdict) domain.Verdict {
	v.Passed = true
	v.Reason = ""
	return v
}

func fail(v domain.Verdict, reason string) domain.Verdict {
	v.Passed = false
	v.Reason = reason
	return v
}
