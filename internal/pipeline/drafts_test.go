package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/rewriting"
)

func TestKeywordAnalysis(t *testing.T) {
	a := newTestAnalyzer(failingEmbedder{})

	an := a.KeywordAnalysis(testJD, testResume, Options{})
	assert.Zero(t, an.Score)
	assert.Contains(t, an.Missing, "hubspot")
	assert.NotEmpty(t, an.Prioritized)
	assert.LessOrEqual(t, len(an.SuggestedBullets), LockedSuggestionLimit)
	assert.NotEmpty(t, an.Summary)
}

func TestDrafts(t *testing.T) {
	a := newTestAnalyzer(nil)
	an := a.KeywordAnalysis(testJD, testResume, Options{SuggestionLimit: UnlockedSuggestionLimit})

	t.Run("all variants", func(t *testing.T) {
		d := a.Drafts(testJD, an, nil, DraftOptions{Target: 80})
		assert.Equal(t, an.Summary, d.Summary)
		assert.NotEmpty(t, d.ConciseSummary)
		assert.NotEmpty(t, d.CoverLetter)
		assert.Len(t, d.CoverVariants, len(drafting.Tones))
		assert.Len(t, d.LinkedIn.Headlines, 3)
		assert.Empty(t, d.STARBullet)
		assert.Nil(t, d.Interview)
		assert.Empty(t, d.LearnRoadmap)
	})

	t.Run("single tone with STAR and coaching", func(t *testing.T) {
		d := a.Drafts(testJD, an, rewriting.NewSeededRewriter(7, rewriting.DefaultMaxWords), DraftOptions{
			Target:     80,
			Tone:       drafting.ToneScrappy,
			STARAction: "rebuilt the paid search account",
			Coaching:   true,
		})
		require.Len(t, d.CoverVariants, 1)
		assert.Contains(t, d.CoverVariants, "scrappy")
		assert.Contains(t, d.STARBullet, "rebuilt the paid search account")
		assert.NotEmpty(t, d.LearnRoadmap)
		require.NotNil(t, d.Interview)
		assert.NotEmpty(t, d.Outreach)
	})
}
