package execution

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cth/internal/domain"
	"cth/internal/literal"
)

// scriptedEncoder answers invocations from a table keyed by mode and input.
// Mode is "parse" or "dump".
type scriptedEncoder struct {
	responses map[string]domain.ExecutionResult
	calls     []string
}

func (s *scriptedEncoder) Run(_ context.Context, args []string, input string) domain.ExecutionResult {
	mode := "parse"
	if len(args) > 0 {
		mode = "dump"
	}
	key := mode + ":" + input
	s.calls = append(s.calls, key)
	if res, ok := s.responses[key]; ok {
		return res
	}
	return domain.ExecutionResult{ExitCode: 99, Stderr: "unscripted " + key}
}

func ok(stdout string) domain.ExecutionResult {
	return domain.ExecutionResult{ExitCode: 0, Stdout: stdout}
}

func failed(code int, stdout, stderr string) domain.ExecutionResult {
	return domain.ExecutionResult{ExitCode: code, Stdout: stdout, Stderr: stderr}
}

func expectValue(t *testing.T, text string) *literal.Value {
	t.Helper()
	v, err := literal.Parse(text)
	require.NoError(t, err)
	return &v
}

func TestChecker_Check(t *testing.T) {
	dictCase := domain.TestCase{
		Name:     "dict",
		Input:    "a: 1\nb: 2\n",
		Expected: expectValue(t, "{'a': '1', 'b': '2'}"),
	}
	errorCase := domain.TestCase{
		Name:             "broken",
		Input:            "a: [",
		ExpectedError:    "Parse error",
		HasExpectedError: true,
	}
	noneCase := domain.TestCase{Name: "empty", Input: ""}

	tests := []struct {
		name      string
		tc        domain.TestCase
		roundTrip bool
		responses map[string]domain.ExecutionResult
		passed    bool
		reason    string
		phase     domain.Phase
		calls     int
	}{
		{
			name:      "forward only pass",
			tc:        dictCase,
			responses: map[string]domain.ExecutionResult{"parse:a: 1\nb: 2\n": ok("{'b': \"2\", 'a': \"1\"}")},
			passed:    true,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "forward mismatch",
			tc:        dictCase,
			responses: map[string]domain.ExecutionResult{"parse:a: 1\nb: 2\n": ok("{'a': '1'}")},
			reason:    ReasonMismatch,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "unevaluable output",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{"parse:a: 1\nb: 2\n": ok("{'a': ")},
			reason:    ReasonUnevaluable,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "unexpected parse failure",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{"parse:a: 1\nb: 2\n": failed(1, "", "boom")},
			reason:    ReasonUnexpectedFail,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "expected error seen skips round trip",
			tc:        errorCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{"parse:a: [": failed(1, "Parse error at line 1\n", "")},
			passed:    true,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "expected error with another message",
			tc:        errorCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{"parse:a: [": failed(1, "Syntax problem", "Parse error")},
			reason:    ReasonOtherError,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "expected error not seen",
			tc:        errorCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{"parse:a: [": ok("None")},
			reason:    ReasonErrorNotSeen,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "missing expectation compares to None",
			tc:        noneCase,
			responses: map[string]domain.ExecutionResult{"parse:": ok("None\n")},
			passed:    true,
			phase:     domain.PhaseForward,
			calls:     1,
		},
		{
			name:      "full round trip",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{
				"parse:a: 1\nb: 2\n": ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2\n":  ok("a: 1\nb: 2\n"),
			},
			passed: true,
			phase:  domain.PhaseIdempotence,
			calls:  4,
		},
		{
			name:      "looped dump fails",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{
				"parse:a: 1\nb: 2\n": ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2\n":  failed(2, "", "cannot dump"),
			},
			reason: ReasonLoopDumpFailed,
			phase:  domain.PhaseLoop,
			calls:  2,
		},
		{
			name:      "looped parse differs",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{
				"parse:a: 1\nb: 2\n": ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2\n":  ok("a: 1\n"),
				"parse:a: 1\n":       ok("{'a': '1'}"),
			},
			reason: "[LOOP] " + ReasonMismatch,
			phase:  domain.PhaseLoop,
			calls:  3,
		},
		{
			name:      "idempotence dump fails",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{
				"parse:a: 1\nb: 2\n": ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2\n":  ok("a: 1\nb: 2"),
				"parse:a: 1\nb: 2":   ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2":    failed(1, "", "second dump broke"),
			},
			reason: ReasonIdemDumpFailed,
			phase:  domain.PhaseIdempotence,
			calls:  4,
		},
		{
			name:      "idempotence differs",
			tc:        dictCase,
			roundTrip: true,
			responses: map[string]domain.ExecutionResult{
				"parse:a: 1\nb: 2\n": ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2\n":  ok("a: 1\nb: 2"),
				"parse:a: 1\nb: 2":   ok("{'a': '1', 'b': '2'}"),
				"dump:a: 1\nb: 2":    ok("a: 1\nb: 2\n"),
			},
			reason: "[IDEMPOTENCE] " + ReasonResultsDiffer,
			phase:  domain.PhaseIdempotence,
			calls:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &scriptedEncoder{responses: tt.responses}
			checker := NewChecker(enc, CheckerOptions{DumpFlag: "-d", RoundTrip: tt.roundTrip})

			v := checker.Check(context.Background(), tt.tc)
			assert.Equal(t, tt.passed, v.Passed, "reason: %s", v.Reason)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, tt.phase, v.Phase)
			assert.Len(t, enc.calls, tt.calls, "calls: %v", enc.calls)
		})
	}
}

func TestChecker_Diagnostics(t *testing.T) {
	tc := domain.TestCase{Name: "dict", Input: "a: 1\n", Expected: expectValue(t, "{'a': '1'}")}
	enc := &scriptedEncoder{responses: map[string]domain.ExecutionResult{
		"parse:a: 1\n":   ok("{'a': '1'}"),
		"dump:a: 1\n":    ok("a: '1'\n"),
		"parse:a: '1'\n": failed(1, "", "quoted scalars are not allowed"),
	}}
	checker := NewChecker(enc, CheckerOptions{DumpFlag: "-d", RoundTrip: true})

	v := checker.Check(context.Background(), tc)
	require.False(t, v.Passed)
	assert.Equal(t, "[LOOP] "+ReasonUnexpectedFail, v.Reason)

	looped, ok := v.LoopedInput()
	assert.True(t, ok)
	assert.Equal(t, "a: '1'\n", looped)
	assert.Nil(t, v.Output)
	assert.Same(t, v.Reparse, v.LastParse())

	label, text := v.Stderr()
	assert.Equal(t, "stderr", label)
	assert.Equal(t, "quoted scalars are not allowed", text)
}

func TestChecker_InvocationFailures(t *testing.T) {
	tc := domain.TestCase{Name: "dict", Input: "a: 1\n", Expected: expectValue(t, "{'a': '1'}")}

	t.Run("timeout in forward phase", func(t *testing.T) {
		enc := &scriptedEncoder{responses: map[string]domain.ExecutionResult{
			"parse:a: 1\n": {ExitCode: -1, TimedOut: true},
		}}
		v := NewChecker(enc, CheckerOptions{RoundTrip: true, Timeout: 5 * time.Second}).Check(context.Background(), tc)
		assert.Equal(t, "Encoder timed out after 5s", v.Reason)
	})

	t.Run("timeout in loop phase is tagged", func(t *testing.T) {
		enc := &scriptedEncoder{responses: map[string]domain.ExecutionResult{
			"parse:a: 1\n": ok("{'a': '1'}"),
			"dump:a: 1\n":  {ExitCode: -1, TimedOut: true},
		}}
		v := NewChecker(enc, CheckerOptions{DumpFlag: "-d", RoundTrip: true, Timeout: time.Second}).Check(context.Background(), tc)
		assert.Equal(t, "[LOOP] Encoder timed out after 1s", v.Reason)
	})

	t.Run("launch failure", func(t *testing.T) {
		enc := &scriptedEncoder{responses: map[string]domain.ExecutionResult{
			"parse:a: 1\n": {ExitCode: -1, Err: errors.New("exec: \"enc\": executable file not found in $PATH")},
		}}
		v := NewChecker(enc, CheckerOptions{}).Check(context.Background(), tc)
		assert.True(t, strings.HasPrefix(v.Reason, "Unable to launch the encoder: "), v.Reason)
	})
}
