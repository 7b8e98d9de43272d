// Package match computes a 0-100 fit score between candidate skills and the
// skills required by a role.
package match

import (
	"context"
	"fmt"
	"math"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"

	"go.uber.org/zap"
)

// Scorer scores candidate skills against required skills. The embedding model
// is injected so providers can be swapped without touching scoring logic; a
// nil embedder makes the scorer use the verbatim-overlap heuristic only.
type Scorer struct {
	embedder ai.Embedder
	logger   *zap.Logger
}

// NewScorer creates a scorer. Both arguments may be nil.
func NewScorer(embedder ai.Embedder, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{embedder: embedder, logger: logger}
}

// Score returns a fit score in [0, 100] rounded to two decimals. The primary
// path embeds both skill lists and averages, over the required skills, the
// best cosine similarity to any candidate skill. This rewards near-synonyms
// ("Postgres" vs "PostgreSQL") that exact matching would miss. When the
// embedder is unavailable or fails, the score degrades to the share of
// required skills present verbatim among the candidate skills.
func (s *Scorer) Score(ctx context.Context, candidate, required []string) float64 {
	if len(candidate) == 0 || len(required) == 0 {
		return 0.0
	}

	if s.embedder != nil {
		score, err := s.embeddingScore(ctx, candidate, required)
		if err == nil {
			return score
		}
		s.logger.Warn("embedding score failed, using overlap fallback", zap.Error(err))
	}

	return overlapScore(candidate, required)
}

func (s *Scorer) embeddingScore(ctx context.Context, candidate, required []string) (float64, error) {
	candidateVectors, err := s.embedder.Embed(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("embed candidate skills: %w", err)
	}

	requiredVectors, err := s.embedder.Embed(ctx, required)
	if err != nil {
		return 0, fmt.Errorf("embed required skills: %w", err)
	}

	var sum float64
	for _, rv := range requiredVectors {
		best := 0.0
		for _, cv := range candidateVectors {
			if sim := cosine(rv, cv); sim > best {
				best = sim
			}
		}
		sum += best
	}

	return round2(sum / float64(len(requiredVectors)) * 100), nil
}

func overlapScore(candidate, required []string) float64 {
	present := make(map[string]struct{}, len(candidate))
	for _, skill := range candidate {
		present[skill] = struct{}{}
	}

	matched := 0
	for _, skill := range required {
		if _, ok := present[skill]; ok {
			matched++
		}
	}

	return round2(float64(matched) / float64(len(required)) * 100)
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
