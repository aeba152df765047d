package scoring

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/embedding"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
		{"shared prefix", []float32{1, 0, 5}, []float32{1, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosine_Symmetric(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9}
	b := []float32{0.1, 0.4, 0.5}
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-12)
}

func TestToMatchScore(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{1, 100},
		{0.823, 82},
		{0.826, 83},
		{0, 0},
		{-0.4, 0},
		{1.2, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToMatchScore(tt.in), "in=%v", tt.in)
	}
}

type mapEmbedder map[string][]float32

func (m mapEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v, ok := m[text]
	if !ok {
		return nil, &embedding.ModelUnavailableError{Op: "embed", Err: errors.New("unknown text")}
	}
	return v, nil
}

func TestScorer_Score(t *testing.T) {
	s := NewScorer(mapEmbedder{
		"jd":     {1, 0},
		"resume": {1, 1},
	})

	res, err := s.Score(context.Background(), "jd", "resume")
	require.NoError(t, err)
	assert.Equal(t, 71, res.Score)
	assert.Equal(t, []float32{1, 0}, res.JDVector)
}

func TestScorer_ScoreAgainst(t *testing.T) {
	s := NewScorer(mapEmbedder{"resume plus": {1, 0}})
	score, err := s.ScoreAgainst(context.Background(), []float32{1, 0}, "resume plus")
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestScorer_ModelUnavailable(t *testing.T) {
	s := NewScorer(mapEmbedder{"jd": {1}})

	_, err := s.Score(context.Background(), "jd", "missing")
	assert.ErrorIs(t, err, embedding.ErrModelUnavailable)

	_, err = s.Score(context.Background(), "missing", "jd")
	assert.ErrorIs(t, err, embedding.ErrModelUnavailable)
}

func TestScorer_HashingEndToEnd(t *testing.T) {
	s := NewScorer(embedding.NewHashingEmbedder(256))
	res, err := s.Score(context.Background(), "google ads seo", "google ads seo")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Score)
}
