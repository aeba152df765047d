package scoring

import (
	"context"
	"fmt"

	"github.com/jonathan/jd-matcher/internal/embedding"
)

// Result is a match score plus the JD vector it was computed against.
type Result struct {
	Score    int
	JDVector []float32
}

// Scorer embeds texts and converts their similarity into a match score.
type Scorer struct {
	embedder embedding.Embedder
}

// NewScorer creates a Scorer. The embedder is usually an *embedding.Service.
func NewScorer(e embedding.Embedder) *Scorer {
	return &Scorer{embedder: e}
}

// Score embeds jd and resume and returns their match score.
// Embedding failures are returned unchanged so callers can surface them.
func (s *Scorer) Score(ctx context.Context, jd, resume string) (Result, error) {
	jdVec, err := s.embedder.Embed(ctx, jd)
	if err != nil {
		return Result{}, fmt.Errorf("embed job description: %w", err)
	}
	score, err := s.ScoreAgainst(ctx, jdVec, resume)
	if err != nil {
		return Result{}, err
	}
	return Result{Score: score, JDVector: jdVec}, nil
}

// ScoreAgainst scores text against an already embedded JD.
func (s *Scorer) ScoreAgainst(ctx context.Context, jdVec []float32, text string) (int, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed resume: %w", err)
	}
	return ToMatchScore(Cosine(jdVec, vec)), nil
}
