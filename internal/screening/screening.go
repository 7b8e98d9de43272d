// Package screening runs the pre-interview admission checks over a candidate
// as a sequence of named steps.
package screening

import (
	"context"
	"fmt"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"

	"go.uber.org/zap"
)

// Candidate carries the screening state. Steps enrich it as they run.
type Candidate struct {
	ResumeText string
	Fit        *ai.FitResult
}

// Result of a single screening step.
type Result struct {
	Passed bool
	Reason string
}

// Check is a single screening step applied to the candidate.
type Check interface {
	Name() string
	Run(ctx context.Context, candidate *Candidate) (*Result, error)
}

// Decision is the outcome of the full screening pipeline.
type Decision struct {
	Admitted    bool
	FailedCheck string
	Reason      string
}

// Screener executes checks sequentially, stopping at the first failure.
type Screener struct {
	checks []Check
	logger *zap.Logger
}

// New creates a screener over the given checks.
func New(checks []Check, logger *zap.Logger) *Screener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Screener{checks: checks, logger: logger}
}

// Run executes the screening steps in order. The first failing check rejects
// the candidate; errors abort the pipeline.
func (s *Screener) Run(ctx context.Context, candidate *Candidate) (*Decision, error) {
	for _, check := range s.checks {
		result, err := check.Run(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", check.Name(), err)
		}

		s.logger.Info("screening step",
			zap.String("name", check.Name()),
			zap.Bool("passed", result.Passed),
			zap.String("reason", result.Reason),
		)

		if !result.Passed {
			return &Decision{
				Admitted:    false,
				FailedCheck: check.Name(),
				Reason:      result.Reason,
			}, nil
		}
	}

	return &Decision{Admitted: true}, nil
}
