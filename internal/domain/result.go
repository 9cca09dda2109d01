package domain

import (
	"strings"
	"time"

	"cth/internal/literal"
)

// ExecutionResult is the outcome of one encoder invocation.
type ExecutionResult struct {
	ExitCode int           // -1 when the process did not exit normally
	Stdout   string        // Captured standard output
	Stderr   string        // Captured standard error
	TimedOut bool          // Killed after the configured timeout
	Err      error         // Launch failure, the process never ran
	Duration time.Duration // Wall time of the invocation
}

// Success reports whether the encoder ran and exited with status 0.
func (r ExecutionResult) Success() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Phase identifies a step of the equivalence protocol.
type Phase string

const (
	// PhaseForward parses the input and compares with the expectation.
	PhaseForward Phase = "forward"
	// PhaseLoop dumps the input back to the source format and parses it again.
	PhaseLoop Phase = "loop"
	// PhaseIdempotence dumps the looped document once more.
	PhaseIdempotence Phase = "idempotence"
)

// Tag returns the prefix failure reasons of this phase carry.
func (p Phase) Tag() string {
	switch p {
	case PhaseLoop:
		return "[LOOP]"
	case PhaseIdempotence:
		return "[IDEMPOTENCE]"
	}
	return ""
}

// Verdict is the outcome of checking one case.
type Verdict struct {
	Passed bool
	Reason string // First failure encountered, empty on success
	Phase  Phase  // Phase the failure belongs to

	// Diagnostics, nil when the corresponding invocation did not happen.
	Parse   *ExecutionResult // Forward parse of the input
	Dump    *ExecutionResult // Dump of the input (looped input)
	Reparse *ExecutionResult // Parse of the looped input
	Redump  *ExecutionResult // Dump of the looped input

	// Output is the deserialized stdout of the last parse, if it was valid.
	Output *literal.Value
}

// LastParse returns the most recent parse invocation.
func (v Verdict) LastParse() *ExecutionResult {
	if v.Reparse != nil {
		return v.Reparse
	}
	return v.Parse
}

// LoopedInput returns the document produced by the looped dump, if any.
func (v Verdict) LoopedInput() (string, bool) {
	if v.Dump == nil {
		return "", false
	}
	return v.Dump.Stdout, true
}

// CaseResult pairs a case with its verdict.
type CaseResult struct {
	Case     TestCase
	Verdict  Verdict
	Duration time.Duration
}

// RunSummary aggregates the results of a run.
type RunSummary struct {
	Run      int
	Passed   int
	Stopped  bool // Fail-fast ended the run early
	Duration time.Duration
	Results  []CaseResult
}

// Failed returns the number of failing cases.
func (s RunSummary) Failed() int {
	return s.Run - s.Passed
}

// OK reports whether every executed case passed.
func (s RunSummary) OK() bool {
	return s.Passed == s.Run
}

// Stderr returns the first non-empty standard error among the forward,
// looped and doubly looped invocations, with a label naming its source.
func (v Verdict) Stderr() (label, text string) {
	candidates := []struct {
		label  string
		result *ExecutionResult
	}{
		{"stderr", v.LastParse()},
		{"looped stderr", v.Dump},
		{"double looped stderr", v.Redump},
	}
	for _, c := range candidates {
		if c.result == nil {
			continue
		}
		if s := strings.TrimSpace(c.result.Stderr); s != "" {
			return c.label, s
		}
	}
	return "", ""
}
