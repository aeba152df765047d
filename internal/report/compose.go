package report

import (
	"context"
	"fmt"

	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/types"
	"github.com/jonathan/jd-matcher/internal/validation"
)

// Compose runs every report step on s for jd and resume, replaying edits
// after the analysis, and returns the report input. Unlocked reports also get
// lint findings and a LinkedIn pack.
func Compose(ctx context.Context, s *pipeline.Session, jd, resume string, opts pipeline.Options, edits types.Edits, unlocked bool) (Input, error) {
	analysis, err := s.Analyze(ctx, jd, resume, opts)
	if err != nil {
		return Input{}, fmt.Errorf("analysis failed: %w", err)
	}
	if !edits.Empty() {
		if err := s.ApplyEdits(ctx, edits); err != nil {
			return Input{}, fmt.Errorf("applying edits failed: %w", err)
		}
	}
	if _, err := s.Grade(); err != nil {
		return Input{}, fmt.Errorf("grading failed: %w", err)
	}
	if _, err := s.RewriteLow(); err != nil {
		return Input{}, fmt.Errorf("rewriting failed: %w", err)
	}
	if unlocked {
		if _, err := s.GenerateConcise(); err != nil {
			return Input{}, err
		}
		if _, err := s.GenerateCover(); err != nil {
			return Input{}, err
		}
	}

	in := FromState(s.State())
	if unlocked {
		in.Lint = validation.LintResume(resume)
		in.LinkedIn = s.Analyzer().Drafter().LinkedInPack(jd, in.Plan.Prioritized, analysis.Summary, analysis.ExtractedBullets)
	}
	return in, nil
}
