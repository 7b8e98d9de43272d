package resume

import (
	"context"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"
	"github.com/Irkutsk-Karas/HR-Avatar/internal/match"

	"go.uber.org/zap"
)

// Screening recommendation labels.
const (
	RecommendInterview = "interview"
	RecommendReview    = "review"
)

// interviewThreshold is the score above which a candidate is recommended for
// an interview outright rather than a manual review.
const interviewThreshold = 50

// SkillExtractor pulls skill labels out of resume text.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) []string
}

// Parser screens resume text against a required-skill list.
type Parser struct {
	skills SkillExtractor
	scorer *match.Scorer
	logger *zap.Logger
}

// NewParser creates a parser.
func NewParser(skills SkillExtractor, scorer *match.Scorer, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{skills: skills, scorer: scorer, logger: logger}
}

// Parse extracts the candidate's skills from text, scores them against the
// required skills and labels the result.
func (p *Parser) Parse(ctx context.Context, text string, required []string) *ai.FitResult {
	skills := p.skills.ExtractSkills(ctx, text)
	score := p.scorer.Score(ctx, skills, required)

	recommendation := RecommendReview
	if score > interviewThreshold {
		recommendation = RecommendInterview
	}

	p.logger.Info("resume screened",
		zap.Int("skills", len(skills)),
		zap.Float64("match_score", score),
		zap.String("recommendation", recommendation),
	)

	return &ai.FitResult{
		Skills:         skills,
		MatchScore:     score,
		Recommendation: recommendation,
	}
}
