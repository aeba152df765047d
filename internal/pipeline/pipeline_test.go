package pipeline

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/embedding"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	testJD = "Growth marketer wanted. Run google ads and seo programs, own ga4 reporting, " +
		"manage hubspot workflows and landing page optimization. Google ads budgets are large."
	testResume = "- Led content marketing for a SaaS brand across blog and social channels\n" +
		"- Managed weekly email newsletters for forty thousand subscribers with strong open rates\n" +
		"Education: BA Communications"
)

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, &embedding.ModelUnavailableError{Op: "embed", Err: errors.New("boom")}
}

// gateEmbedder blocks on one specific text until released.
type gateEmbedder struct {
	inner   embedding.Embedder
	slow    string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == g.slow {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	return g.inner.Embed(ctx, text)
}

func newTestAnalyzer(e embedding.Embedder) *Analyzer {
	if e == nil {
		e = embedding.NewHashingEmbedder(embedding.DefaultHashingDimensions)
	}
	return NewAnalyzer(e, nil, nil)
}

func TestAnalyze(t *testing.T) {
	a := newTestAnalyzer(nil)

	res, err := a.Analyze(context.Background(), testJD, testResume, Options{})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.False(t, res.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, res.Score, 0)
	assert.LessOrEqual(t, res.Score, 100)
	assert.NotEmpty(t, res.JDVector)

	assert.LessOrEqual(t, len(res.JDTop), JDTopKeywords)
	assert.Equal(t, "google", res.JDTop[0])
	assert.Contains(t, res.Missing, "seo")
	assert.Contains(t, res.Missing, "hubspot")
	assert.NotContains(t, res.Missing, "marketing")

	assert.LessOrEqual(t, len(res.Prioritized), FocusKeywords)
	for _, kw := range res.Prioritized {
		assert.Contains(t, res.Missing, kw)
	}

	require.Len(t, res.BucketStats, len(types.NamedBuckets))
	for i, stat := range res.BucketStats {
		assert.Equal(t, types.NamedBuckets[i], stat.Name)
		assert.LessOrEqual(t, stat.Covered, stat.Total)
	}

	assert.Len(t, res.SuggestedBullets, LockedSuggestionLimit)
	assert.Contains(t, res.ExtractedBullets, "Led content marketing for a SaaS brand across blog and social channels")
	assert.NotEmpty(t, res.Summary)
}

func TestAnalyze_SuggestionLimit(t *testing.T) {
	a := newTestAnalyzer(nil)

	res, err := a.Analyze(context.Background(), testJD, testResume, Options{SuggestionLimit: UnlockedSuggestionLimit})
	require.NoError(t, err)
	assert.Len(t, res.SuggestedBullets, min(UnlockedSuggestionLimit, len(res.Prioritized)))
	assert.Greater(t, len(res.SuggestedBullets), LockedSuggestionLimit)
}

func TestAnalyze_ModelUnavailable(t *testing.T) {
	a := newTestAnalyzer(failingEmbedder{})

	res, err := a.Analyze(context.Background(), testJD, testResume, Options{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, embedding.ErrModelUnavailable))
}

func TestAnalyze_Progress(t *testing.T) {
	a := newTestAnalyzer(nil)

	var mu sync.Mutex
	var steps []string
	opts := Options{OnProgress: func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		steps = append(steps, ev.Step)
	}}

	_, err := a.Analyze(context.Background(), testJD, testResume, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{StepScore, StepKeywords, StepBullets, StepSummary}, steps)
}

func TestSession_RequiresAnalysis(t *testing.T) {
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)

	assert.ErrorIs(t, s.ApplyToSummary(context.Background(), ""), ErrNoAnalysis)
	assert.ErrorIs(t, s.ApplyAsBullets(context.Background(), ""), ErrNoAnalysis)
	_, err := s.Grade()
	assert.ErrorIs(t, err, ErrNoAnalysis)
	_, err = s.RewriteLow()
	assert.ErrorIs(t, err, ErrNoAnalysis)

	plan := s.Plan()
	assert.Equal(t, 0, plan.Current)
	assert.Equal(t, 80, plan.Target)
}

func TestSession_Toggle(t *testing.T) {
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)

	assert.True(t, s.Toggle("seo"))
	assert.True(t, s.Toggle("ga4"))
	assert.False(t, s.Toggle("seo"))
	assert.Equal(t, []string{"ga4"}, s.State().Selected)
}

func TestSession_ApplyToSummary(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	before := s.State()
	_, ok := s.Predicted()
	assert.False(t, ok)

	s.Toggle("seo")
	s.Toggle("hubspot")
	require.NoError(t, s.ApplyToSummary(ctx, types.BucketSkills))

	after := s.State()
	assert.Equal(t, []string{"seo"}, after.Applied)
	assert.Equal(t, []string{"hubspot"}, after.Selected)
	assert.Contains(t, after.Summary, "seo")
	assert.Greater(t, len(after.Bullets), len(before.Bullets))

	predicted, ok := s.Predicted()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, predicted, 0)

	skillsBefore := before.Coverage[slices.Index(types.NamedBuckets, types.BucketSkills)]
	skillsAfter := after.Coverage[slices.Index(types.NamedBuckets, types.BucketSkills)]
	assert.Equal(t, skillsBefore.Covered+1, skillsAfter.Covered)
}

func TestSession_ApplyAsBullets(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)
	summary := s.State().Summary

	s.Toggle("seo")
	s.Toggle("hubspot")
	require.NoError(t, s.ApplyAsBullets(ctx, ""))

	st := s.State()
	assert.ElementsMatch(t, []string{"seo", "hubspot"}, st.Applied)
	assert.Empty(t, st.Selected)
	assert.Equal(t, summary, st.Summary)
	assert.NotNil(t, st.Predicted)

	// already applied keywords are not applied twice
	s.Toggle("seo")
	bullets := len(st.Bullets)
	require.NoError(t, s.ApplyAsBullets(ctx, ""))
	assert.Len(t, s.State().Bullets, bullets)
	assert.Equal(t, []string{"seo"}, s.State().Selected)
}

func TestSession_ApplyNothingSelected(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	s.Toggle("hubspot")
	require.NoError(t, s.ApplyToSummary(ctx, types.BucketAnalytics))

	_, ok := s.Predicted()
	assert.False(t, ok)
	assert.Empty(t, s.State().Applied)
}

func TestSession_StaleAnalysis(t *testing.T) {
	ctx := context.Background()
	gate := &gateEmbedder{
		inner:   embedding.NewHashingEmbedder(64),
		slow:    "slow jd",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(newTestAnalyzer(gate), nil, nil, 80)

	errc := make(chan error, 1)
	go func() {
		_, err := s.Analyze(ctx, "slow jd", testResume, Options{})
		errc <- err
	}()
	<-gate.started

	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	close(gate.release)
	assert.ErrorIs(t, <-errc, ErrStaleAnalysis)
	assert.Equal(t, testJD, s.State().JD)
}

func TestSession_GradeAndRewrite(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, rewriting.NewSeededRewriter(7, 0), 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	input := []string{"Helped with stuff", "  ", "Led google ads campaigns that cut CPA 18% in two quarters"}
	require.NoError(t, s.ApplyEdits(ctx, types.Edits{Bullets: input}))

	grades, err := s.Grade()
	require.NoError(t, err)
	require.Len(t, grades, 2)
	assert.Less(t, grades[0].Score, grades[1].Score)

	pairs, err := s.RewriteLow()
	require.NoError(t, err)
	require.NotEmpty(t, pairs)
	assert.Equal(t, "Helped with stuff", pairs[0].Old)
	assert.Contains(t, pairs[0].New, rewriting.MetricPlaceholder)
}

func TestSession_RewriteUngraded(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	pairs, err := s.RewriteLow()
	require.NoError(t, err)
	assert.Len(t, pairs, min(8, len(s.State().BulletInput)))
}

func TestSession_PlanAndDrafts(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, nil, 95)
	a, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	plan := s.Plan()
	assert.Equal(t, a.Score, plan.Current)
	assert.Equal(t, 95, plan.Target)

	concise, err := s.GenerateConcise()
	require.NoError(t, err)
	assert.NotEmpty(t, concise)

	cover, err := s.GenerateCover()
	require.NoError(t, err)
	assert.NotEmpty(t, cover)

	checklist := s.Checklist()
	assert.Contains(t, checklist[types.BucketTools], "hubspot")
}

func TestSession_ApplyEdits(t *testing.T) {
	ctx := context.Background()
	s := NewSession(newTestAnalyzer(nil), nil, nil, 80)
	assert.ErrorIs(t, s.ApplyEdits(ctx, types.Edits{Select: []string{"seo"}}), ErrNoAnalysis)

	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	require.NoError(t, s.ApplyEdits(ctx, types.Edits{Select: []string{" SEO ", "seo", "", "marketing"}}))
	st := s.State()
	assert.Equal(t, []string{"seo"}, st.Selected)
	assert.Empty(t, st.Applied)
	assert.Nil(t, st.Predicted)

	require.NoError(t, s.ApplyEdits(ctx, types.Edits{
		Summary: "Marketer with a paid search focus.",
		Select:  []string{"hubspot"},
		Apply:   types.ApplySummary,
	}))
	st = s.State()
	assert.ElementsMatch(t, []string{"seo", "hubspot"}, st.Applied)
	assert.True(t, strings.HasPrefix(st.Summary, "Marketer with a paid search focus."))
	assert.Contains(t, st.Summary, "hubspot")
	assert.NotNil(t, st.Predicted)
}

func TestSession_PredictionDoesNotHoldLock(t *testing.T) {
	ctx := context.Background()
	gate := &gateEmbedder{
		inner:   embedding.NewHashingEmbedder(64),
		slow:    testResume + " seo",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(newTestAnalyzer(gate), nil, nil, 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	s.Toggle("seo")
	errc := make(chan error, 1)
	go func() { errc <- s.ApplyAsBullets(ctx, "") }()
	<-gate.started

	done := make(chan State, 1)
	go func() { done <- s.State() }()
	select {
	case st := <-done:
		assert.Equal(t, []string{"seo"}, st.Applied)
		assert.Nil(t, st.Predicted)
	case <-time.After(time.Second):
		t.Fatal("session locked while the prediction was embedding")
	}

	close(gate.release)
	require.NoError(t, <-errc)
	_, ok := s.Predicted()
	assert.True(t, ok)
}

func TestSession_PredictionDroppedAfterNewAnalysis(t *testing.T) {
	ctx := context.Background()
	gate := &gateEmbedder{
		inner:   embedding.NewHashingEmbedder(64),
		slow:    testResume + " seo",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := NewSession(newTestAnalyzer(gate), nil, nil, 80)
	_, err := s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	s.Toggle("seo")
	errc := make(chan error, 1)
	go func() { errc <- s.ApplyToSummary(ctx, "") }()
	<-gate.started

	_, err = s.Analyze(ctx, testJD, testResume, Options{})
	require.NoError(t, err)

	close(gate.release)
	assert.ErrorIs(t, <-errc, ErrStaleAnalysis)
	_, ok := s.Predicted()
	assert.False(t, ok)
}
