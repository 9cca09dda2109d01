package execution

import (
	"context"

	"cth/internal/domain"
)

// Invoker runs the encoder once with extra arguments and a stdin document
type Invoker interface {
	Run(ctx context.Context, args []string, input string) domain.ExecutionResult
}

// CaseChecker produces the verdict of one test case
type CaseChecker interface {
	Check(ctx context.Context, tc domain.TestCase) domain.Verdict
}

// Executor executes a suite and returns the summary of the run
type Executor interface {
	Execute(ctx context.Context, suite domain.TestSuite) (domain.RunSummary, error)
}
