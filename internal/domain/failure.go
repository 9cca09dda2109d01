package domain

import (
	"time"

	"cth/internal/literal"
)

// CaseFailure is the persisted record of a failing case
type CaseFailure struct {
	TestName    string `json:"test_name" msgpack:"test_name"`
	InputPath   string `json:"input_path" msgpack:"input_path"`
	Reason      string `json:"reason" msgpack:"reason"`
	Phase       Phase  `json:"phase" msgpack:"phase"`
	Input       string `json:"input" msgpack:"input"`
	LoopedInput string `json:"looped_input,omitempty" msgpack:"looped_input,omitempty"`
	Stderr      string `json:"stderr,omitempty" msgpack:"stderr,omitempty"`
	Expected    string `json:"expected,omitempty" msgpack:"expected,omitempty"`
	Output      string `json:"output,omitempty" msgpack:"output,omitempty"`
	Resolved    bool   `json:"resolved,omitempty" msgpack:"resolved,omitempty"` // Track if the failure is marked as resolved
}

// RunMeta contains metadata about a run
type RunMeta struct {
	TotalCases      int     `json:"total_cases" msgpack:"total_cases"`
	PassedCases     int     `json:"passed_cases" msgpack:"passed_cases"`
	FailedCases     int     `json:"failed_cases" msgpack:"failed_cases"`
	Stopped         bool    `json:"stopped,omitempty" msgpack:"stopped,omitempty"`
	RoundTrip       bool    `json:"round_trip" msgpack:"round_trip"`
	Encoder         string  `json:"encoder" msgpack:"encoder"`
	TestDir         string  `json:"test_dir" msgpack:"test_dir"`
	Pattern         string  `json:"pattern,omitempty" msgpack:"pattern,omitempty"`
	Duration        string  `json:"duration" msgpack:"duration"`
	DurationSeconds float64 `json:"duration_seconds" msgpack:"duration_seconds"`
	Timestamp       string  `json:"timestamp" msgpack:"timestamp"`
}

// RunReport is the complete stored output of a run
type RunReport struct {
	Meta    RunMeta       `json:"meta" msgpack:"meta"`
	Details []CaseFailure `json:"details" msgpack:"details"`
}

// NewCaseFailure builds the stored record of a failing case.
func NewCaseFailure(res CaseResult) CaseFailure {
	v := res.Verdict
	f := CaseFailure{
		TestName:  res.Case.Name,
		InputPath: res.Case.InputPath,
		Reason:    v.Reason,
		Phase:     v.Phase,
		Input:     res.Case.Input,
	}
	if looped, ok := v.LoopedInput(); ok {
		f.LoopedInput = looped
	}
	_, f.Stderr = v.Stderr()
	if !res.Case.HasExpectedError {
		f.Expected = literal.Format(res.Case.ExpectedValue(), literal.DefaultWidth)
	}
	if v.Output != nil {
		f.Output = literal.Format(*v.Output, literal.DefaultWidth)
	} else if last := v.LastParse(); last != nil {
		f.Output = last.Stdout
	}
	return f
}

// RunInfo describes how a run was started
type RunInfo struct {
	Encoder   string
	TestDir   string
	Pattern   string
	RoundTrip bool
}

// NewRunReport builds the stored report of a run from its summary
func NewRunReport(summary RunSummary, info RunInfo, at time.Time) RunReport {
	details := make([]CaseFailure, 0, summary.Failed())
	for _, res := range summary.Results {
		if !res.Verdict.Passed {
			details = append(details, NewCaseFailure(res))
		}
	}
	return RunReport{
		Meta: RunMeta{
			TotalCases:      summary.Run,
			PassedCases:     summary.Passed,
			FailedCases:     summary.Failed(),
			Stopped:         summary.Stopped,
			RoundTrip:       info.RoundTrip,
			Encoder:         info.Encoder,
			TestDir:         info.TestDir,
			Pattern:         info.Pattern,
			Duration:        summary.Duration.String(),
			DurationSeconds: summary.Duration.Seconds(),
			Timestamp:       at.Format(time.RFC3339),
		},
		Details: details,
	}
}

// FailedNames returns the set of case names that failed in the report
func (r RunReport) FailedNames() map[string]struct{} {
	names := make(map[string]struct{}, len(r.Details))
	for _, d := range r.Details {
		names[d.TestName] = struct{}{}
	}
	return names
}

// Unresolved returns the number of failures not marked as resolved
func (r RunReport) Unresolved() int {
	n := 0
	for _, d := range r.Details {
		if !d.Resolved {
			n++
		}
	}
	return n
}
