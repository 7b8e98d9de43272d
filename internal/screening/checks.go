package screening

import (
	"context"
	"fmt"
	"strings"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
)

// ResumeParser screens resume text into a fit result.
type ResumeParser interface {
	Parse(ctx context.Context, text string, required []string) *ai.FitResult
}

type contentCheck struct{}

// NewContentCheck creates a check that rejects candidates with no extractable
// resume text.
func NewContentCheck() Check {
	return &contentCheck{}
}

func (c *contentCheck) Name() string { return "resume_content" }

func (c *contentCheck) Run(_ context.Context, candidate *Candidate) (*Result, error) {
	if strings.TrimSpace(candidate.ResumeText) == "" {
		return &Result{Passed: false, Reason: "no resume content"}, nil
	}
	return &Result{Passed: true}, nil
}

type fitCheck struct {
	parser   ResumeParser
	required []string
	minScore float64
}

// NewFitCheck creates a check that scores the resume against the required
// skills and rejects candidates below the minimum score.
func NewFitCheck(parser ResumeParser, required []string, minScore float64) Check {
	return &fitCheck{parser: parser, required: required, minScore: minScore}
}

func (c *fitCheck) Name() string { return "fit_score" }

func (c *fitCheck) Run(ctx context.Context, candidate *Candidate) (*Result, error) {
	candidate.Fit = c.parser.Parse(ctx, candidate.ResumeText, c.required)

	if candidate.Fit.MatchScore < c.minScore {
		return &Result{
			Passed: false,
			Reason: fmt.Sprintf("match score %.2f below minimum %.2f", candidate.Fit.MatchScore, c.minScore),
		}, nil
	}

	return &Result{Passed: true}, nil
}
