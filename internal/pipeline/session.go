package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/skills"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	// summaryApplyBullets caps bullets drafted when keywords go into the summary.
	summaryApplyBullets = 4
	// bulletApplyBullets caps bullets drafted when keywords are applied as bullets.
	bulletApplyBullets = 6
)

// State is a copy of everything a Session currently holds
type State struct {
	JD             string              `json:"jd"`
	Resume         string              `json:"resume"`
	Target         int                 `json:"target"`
	Analysis       *types.Analysis     `json:"analysis,omitempty"`
	Plan           types.Plan          `json:"plan"`
	Coverage       []types.BucketStat  `json:"coverage"`
	Predicted      *int                `json:"predicted,omitempty"`
	Selected       []string            `json:"selected"`
	Applied        []string            `json:"applied"`
	Summary        string              `json:"summary"`
	Bullets        []string            `json:"bullets"`
	BulletInput    []string            `json:"bullet_input"`
	Grades         []types.BulletGrade `json:"grades"`
	Rewrites       []types.RewritePair `json:"rewrites"`
	ConciseSummary string              `json:"concise_summary,omitempty"`
	CoverLetter    string              `json:"cover_letter,omitempty"`
}

// Session holds one user's analysis together with the keywords they selected
// and applied. Selected and applied keywords change only through Toggle,
// ApplyEdits and the Apply methods.
type Session struct {
	analyzer *Analyzer
	grader   *rewriting.Grader
	rewriter *rewriting.Rewriter

	mu         sync.Mutex
	generation uint64
	// predictions counts score predictions started, newest wins
	predictions uint64
	jd          string
	resume      string
	target      int
	result      *Result
	coverage    []types.BucketStat
	predicted   *int
	selected    []string
	applied     []string
	summary     string
	bullets     []string
	input       []string
	grades      []types.BulletGrade
	rewrites    []types.RewritePair
	concise     string
	cover       string
}

// NewSession creates a Session. Nil grader or rewriter fall back to the defaults.
func NewSession(analyzer *Analyzer, grader *rewriting.Grader, rewriter *rewriting.Rewriter, target int) *Session {
	if grader == nil {
		grader = rewriting.DefaultGrader()
	}
	if rewriter == nil {
		rewriter = rewriting.NewRewriter(nil, rewriting.DefaultMaxWords)
	}
	return &Session{
		analyzer: analyzer,
		grader:   grader,
		rewriter: rewriter,
		target:   target,
	}
}

// Analyzer returns the analyzer the session runs on.
func (s *Session) Analyzer() *Analyzer {
	return s.analyzer
}

// Analyze runs a fresh analysis. When another Analyze starts before this one
// finishes, this result is dropped and ErrStaleAnalysis returned.
func (s *Session) Analyze(ctx context.Context, jd, resume string, opts Options) (types.Analysis, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.predicted = nil
	s.mu.Unlock()

	res, err := s.analyzer.Analyze(ctx, jd, resume, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return types.Analysis{}, ErrStaleAnalysis
	}
	if err != nil {
		return types.Analysis{}, err
	}

	s.jd, s.resume = jd, resume
	s.result = res
	s.coverage = res.BucketStats
	s.bullets = slices.Clone(res.SuggestedBullets)
	s.input = slices.Clone(res.ExtractedBullets)
	s.summary = res.Summary
	s.grades, s.rewrites = nil, nil
	s.concise, s.cover = "", ""
	return res.Analysis, nil
}

// Toggle adds kw to the selected keywords, or removes it when already
// selected. It reports whether kw is selected afterwards.
func (s *Session) Toggle(kw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.selected, kw); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		return false
	}
	s.selected = append(s.selected, kw)
	return true
}

func (s *Session) isSelected(kw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.selected, kw)
}

// ApplyToSummary appends the selected, not yet applied keywords of bucket to
// the summary and drafts up to four bullets for them. An empty bucket applies
// every selected keyword.
func (s *Session) ApplyToSummary(ctx context.Context, bucket types.Bucket) error {
	return s.apply(ctx, bucket, summaryApplyBullets, true)
}

// ApplyAsBullets drafts up to six bullets for the selected, not yet applied
// keywords of bucket. An empty bucket applies every selected keyword.
func (s *Session) ApplyAsBullets(ctx context.Context, bucket types.Bucket) error {
	return s.apply(ctx, bucket, bulletApplyBullets, false)
}

func (s *Session) apply(ctx context.Context, bucket types.Bucket, maxBullets int, toSummary bool) error {
	s.mu.Lock()
	if s.result == nil {
		s.mu.Unlock()
		return ErrNoAnalysis
	}

	classifier := s.analyzer.classifier
	var list []string
	for _, kw := range s.selected {
		if bucket != "" && classifier.BucketOf(kw) != bucket {
			continue
		}
		if !slices.Contains(s.applied, kw) {
			list = append(list, kw)
		}
	}
	list = parsing.Unique(list)
	if len(list) == 0 {
		s.mu.Unlock()
		return nil
	}

	if toSummary {
		s.summary = drafting.AddToSummary(s.summary, list)
	}
	adds := rewriting.SuggestBullets(list, s.resume, min(maxBullets, len(list)))
	s.bullets = parsing.Unique(append(s.bullets, adds...))
	s.applied = parsing.Unique(append(s.applied, list...))
	s.selected = slices.DeleteFunc(s.selected, func(k string) bool {
		return slices.Contains(list, k)
	})

	covered := skills.KeywordSet(parsing.TopKeywords(s.resume, ResumeTopKeywords), s.applied)
	s.coverage = classifier.Coverage(s.result.JDTop, covered)

	s.predictions++
	gen, seq := s.generation, s.predictions
	jdVector := s.result.JDVector
	text := s.resume + " " + strings.Join(s.applied, " ")
	s.mu.Unlock()

	score, err := s.analyzer.scorer.ScoreAgainst(ctx, jdVector, text)
	if err != nil {
		return fmt.Errorf("predicting score: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return ErrStaleAnalysis
	}
	// A later apply owns the prediction.
	if seq == s.predictions {
		s.predicted = &score
	}
	return nil
}

// ApplyEdits applies user edits on top of the current analysis: a replacement
// summary and bullet input first, then the selected keywords, applied to the
// summary or as bullets when e.Apply asks for it. Only missing keywords can be
// selected; others are ignored.
func (s *Session) ApplyEdits(ctx context.Context, e types.Edits) error {
	s.mu.Lock()
	if s.result == nil {
		s.mu.Unlock()
		return ErrNoAnalysis
	}
	if strings.TrimSpace(e.Summary) != "" {
		s.summary = strings.TrimSpace(e.Summary)
	}
	if len(e.Bullets) > 0 {
		s.input = nonBlank(e.Bullets)
		s.grades, s.rewrites = nil, nil
	}
	missing := s.result.Missing
	s.mu.Unlock()

	for _, kw := range e.Select {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if slices.Contains(missing, kw) && !s.isSelected(kw) {
			s.Toggle(kw)
		}
	}

	switch e.Apply {
	case types.ApplySummary:
		return s.ApplyToSummary(ctx, e.Bucket)
	case types.ApplyBullets:
		return s.ApplyAsBullets(ctx, e.Bucket)
	}
	return nil
}

// Grade grades the current bullet input against the JD's top keywords.
func (s *Session) Grade() ([]types.BulletGrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, ErrNoAnalysis
	}
	s.grades = s.grader.GradeAll(s.input, s.result.JDTop)
	s.rewrites = nil
	return slices.Clone(s.grades), nil
}

// RewriteLow rewrites the weakest bullets using the plan's prioritized
// keywords. Ungraded input is treated as scoring zero.
func (s *Session) RewriteLow() ([]types.RewritePair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, ErrNoAnalysis
	}
	grades := s.grades
	if len(grades) == 0 {
		grades = make([]types.BulletGrade, 0, len(s.input))
		for _, b := range s.input {
			grades = append(grades, types.BulletGrade{Bullet: b})
		}
	}
	s.rewrites = s.rewriter.RewriteLow(grades, s.planLocked().Prioritized)
	return slices.Clone(s.rewrites), nil
}

// Plan returns the gap-closing plan for the current score and target.
func (s *Session) Plan() types.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planLocked()
}

func (s *Session) planLocked() types.Plan {
	if s.result == nil {
		return s.analyzer.planner.PlanToTarget(0, s.target, nil)
	}
	return s.analyzer.planner.PlanToTarget(s.result.Score, s.target, s.result.Missing)
}

// GenerateConcise drafts the concise summary from the current plan.
func (s *Session) GenerateConcise() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return "", ErrNoAnalysis
	}
	s.concise = s.analyzer.drafter.ConciseSummary(s.planLocked().Prioritized, s.target)
	return s.concise, nil
}

// GenerateCover drafts the neutral cover letter from the current plan.
func (s *Session) GenerateCover() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return "", ErrNoAnalysis
	}
	s.cover = s.analyzer.drafter.CoverLetter(s.jd, s.planLocked().Prioritized, "")
	return s.cover, nil
}

// Predicted returns the score predicted after the applied keywords, if any
// have been applied since the last analysis.
func (s *Session) Predicted() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.predicted == nil {
		return 0, false
	}
	return *s.predicted, true
}

// Checklist groups the plan's prioritized keywords by bucket.
func (s *Session) Checklist() map[types.Bucket][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzer.classifier.GroupByBucket(s.planLocked().Prioritized)
}

// State returns a copy of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		JD:             s.jd,
		Resume:         s.resume,
		Target:         s.target,
		Plan:           s.planLocked(),
		Coverage:       slices.Clone(s.coverage),
		Selected:       slices.Clone(s.selected),
		Applied:        slices.Clone(s.applied),
		Summary:        s.summary,
		Bullets:        slices.Clone(s.bullets),
		BulletInput:    slices.Clone(s.input),
		Grades:         slices.Clone(s.grades),
		Rewrites:       slices.Clone(s.rewrites),
		ConciseSummary: s.concise,
		CoverLetter:    s.cover,
	}
	if s.result != nil {
		a := s.result.Analysis
		st.Analysis = &a
	}
	if s.predicted != nil {
		p := *s.predicted
		st.Predicted = &p
	}
	return st
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
