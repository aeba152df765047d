// Package pipeline orchestrates a resume-vs-JD analysis and holds the
// interactive state built on top of it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/embedding"
	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/scoring"
	"github.com/jonathan/jd-matcher/internal/selection"
	"github.com/jonathan/jd-matcher/internal/skills"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	// JDTopKeywords is how many JD keywords are compared against the resume.
	JDTopKeywords = 30
	// ResumeTopKeywords is how many resume keywords count as covered.
	ResumeTopKeywords = 70
	// FocusKeywords is how many prioritized keywords drive suggestions and the summary.
	FocusKeywords = 8
	// LockedSuggestionLimit caps suggested bullets for locked users.
	LockedSuggestionLimit = 2
	// UnlockedSuggestionLimit caps suggested bullets for unlocked users.
	UnlockedSuggestionLimit = 7
)

// Step names reported through ProgressCallback.
const (
	StepScore    = "score"
	StepKeywords = "keywords"
	StepBullets  = "bullets"
	StepSummary  = "summary"
)

// ProgressEvent represents a progress update during an analysis
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when analysis progress occurs. Scoring and
// keyword steps report from separate goroutines.
type ProgressCallback func(event ProgressEvent)

// Options configures a single analysis
type Options struct {
	SuggestionLimit int
	OnProgress      ProgressCallback
}

// Result is an analysis plus the JD vector later predictions are scored against.
type Result struct {
	types.Analysis
	JDVector []float32 `json:"-"`
}

// Analyzer runs the end-to-end match analysis
type Analyzer struct {
	scorer     *scoring.Scorer
	planner    *selection.Planner
	classifier *skills.Classifier
	drafter    *drafting.Generator
	logger     *zap.Logger
	now        func() time.Time
}

// NewAnalyzer wires an embedder and planner into an Analyzer. A nil planner
// uses the default planner config and bucket rules.
func NewAnalyzer(e embedding.Embedder, planner *selection.Planner, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if planner == nil {
		planner, _ = selection.NewPlanner(selection.DefaultConfig(), nil)
	}
	classifier := planner.Classifier()
	return &Analyzer{
		scorer:     scoring.NewScorer(e),
		planner:    planner,
		classifier: classifier,
		drafter:    drafting.NewGenerator(classifier),
		logger:     logger,
		now:        time.Now,
	}
}

// Planner returns the planner the analyzer prioritizes with.
func (a *Analyzer) Planner() *selection.Planner {
	return a.planner
}

// Scorer returns the scorer used for match and predicted scores.
func (a *Analyzer) Scorer() *scoring.Scorer {
	return a.scorer
}

// Drafter returns the derived-text generator bound to the analyzer's buckets.
func (a *Analyzer) Drafter() *drafting.Generator {
	return a.drafter
}

// Analyze scores resume against jd and derives keyword gaps, coverage,
// suggested bullets and a base summary. Scoring and the keyword work run
// concurrently; an embedding failure aborts the whole analysis.
func (a *Analyzer) Analyze(ctx context.Context, jd, resume string, opts Options) (*Result, error) {
	start := time.Now()
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = LockedSuggestionLimit
	}

	g, gCtx := errgroup.WithContext(ctx)

	var scored scoring.Result
	g.Go(func() error {
		res, err := a.scorer.Score(gCtx, jd, resume)
		if err != nil {
			return fmt.Errorf("scoring failed: %w", err)
		}
		scored = res
		emit(opts, StepScore, fmt.Sprintf("Match score %d", res.Score), res.Score)
		return nil
	})

	analysis := types.Analysis{
		ID:        uuid.New(),
		CreatedAt: a.now().UTC(),
	}
	g.Go(func() error {
		a.keywords(&analysis, jd, resume, opts)
		return nil
	})

	if err := g.Wait(); err != nil {
		a.logger.Warn("Analysis failed", zap.Error(err))
		return nil, err
	}
	analysis.Score = scored.Score

	a.logger.Debug("Analysis complete",
		zap.String("id", analysis.ID.String()),
		zap.Int("score", analysis.Score),
		zap.Int("missing", len(analysis.Missing)),
		zap.Duration("duration", time.Since(start)),
	)
	return &Result{Analysis: analysis, JDVector: scored.JDVector}, nil
}

func (a *Analyzer) keywords(out *types.Analysis, jd, resume string, opts Options) {
	out.JDTop = parsing.TopKeywords(jd, JDTopKeywords)
	out.ResumeTop = parsing.TopKeywords(resume, ResumeTopKeywords)
	out.Missing = parsing.Missing(out.JDTop, out.ResumeTop)
	out.BucketStats = a.classifier.Coverage(out.JDTop, skills.KeywordSet(out.ResumeTop))
	emit(opts, StepKeywords, fmt.Sprintf("%d of %d JD keywords missing", len(out.Missing), len(out.JDTop)), out.Missing)

	prioritized := a.planner.Prioritize(out.Missing)
	out.Prioritized = prioritized[:min(FocusKeywords, len(prioritized))]

	out.SuggestedBullets = rewriting.SuggestBullets(out.Prioritized, resume, opts.SuggestionLimit)
	out.ExtractedBullets = rewriting.ExtractBullets(resume)
	emit(opts, StepBullets, fmt.Sprintf("Suggested %d bullets", len(out.SuggestedBullets)), out.SuggestedBullets)

	out.Summary = a.drafter.Summary(out.Prioritized)
	emit(opts, StepSummary, "Drafted summary", nil)
}

func emit(opts Options, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}
