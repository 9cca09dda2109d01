package execution

import (
	"context"
	"time"

	"cth/internal/domain"
)

// ResultReporter receives each case result as soon as it is known
type ResultReporter interface {
	CaseFinished(res domain.CaseResult)
}

// SuiteRunner executes the cases of a suite one at a time, in order
type SuiteRunner struct {
	checker  CaseChecker
	failFast bool
	reporter ResultReporter
}

// NewSuiteRunner creates a new SuiteRunner
func NewSuiteRunner(checker CaseChecker, failFast bool) *SuiteRunner {
	return &SuiteRunner{checker: checker, failFast: failFast}
}

// SetReporter sets the reporter notified after every case
func (sr *SuiteRunner) SetReporter(reporter ResultReporter) {
	sr.reporter = reporter
}

// Execute runs the whole suite. With fail-fast, the run stops after the
// first failing case and the summary is marked as stopped. Cancelling ctx
// stops the run after the current case and returns ctx's error along with
// the partial summary.
func (sr *SuiteRunner) Execute(ctx context.Context, suite domain.TestSuite) (domain.RunSummary, error) {
	summary := domain.RunSummary{Results: make([]domain.CaseResult, 0, len(suite))}
	startTime := time.Now()

	for _, tc := range suite {
		if err := ctx.Err(); err != nil {
			summary.Stopped = true
			summary.Duration = time.Since(startTime)
			return summary, err
		}

		caseStart := time.Now()
		verdict := sr.checker.Check(ctx, tc)
		res := domain.CaseResult{Case: tc, Verdict: verdict, Duration: time.Since(caseStart)}

		if ctx.Err() != nil && !verdict.Passed {
			// Interrupted mid-case, the verdict says nothing about the encoder.
			summary.Stopped = true
			summary.Duration = time.Since(startTime)
			return summary, ctx.Err()
		}

		summary.Run++
		if verdict.Passed {
			summary.Passed++
		}
		summary.Results = append(summary.Results, res)
		if sr.reporter != nil {
			sr.reporter.CaseFinished(res)
		}

		if !verdict.Passed && sr.failFast {
			summary.Stopped = true
			break
		}
	}
	summary.Duration = time.Since(startTime)
	return summary, nil
}
