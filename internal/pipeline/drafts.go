package pipeline

import (
	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/types"
)

// DraftOptions selects the optional parts of Drafts.
type DraftOptions struct {
	Target     int
	Tone       drafting.Tone // empty returns every cover variant
	STARAction string
	STARResult string
	Coaching   bool // learning roadmap, interview pack and outreach messages
}

// KeywordAnalysis runs only the keyword half of Analyze: no embedding call is
// made and Score is left at zero.
func (a *Analyzer) KeywordAnalysis(jd, resume string, opts Options) types.Analysis {
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = LockedSuggestionLimit
	}
	var out types.Analysis
	a.keywords(&out, jd, resume, opts)
	return out
}

// Drafts builds the derived texts for an analysis of jd.
func (a *Analyzer) Drafts(jd string, an types.Analysis, rewriter *rewriting.Rewriter, opts DraftOptions) types.Drafts {
	g := a.drafter
	prioritized := an.Prioritized

	d := types.Drafts{
		Summary:        an.Summary,
		ConciseSummary: g.ConciseSummary(prioritized, opts.Target),
		Company:        drafting.GuessCompany(jd),
		Role:           drafting.GuessRole(jd),
		CoverLetter:    g.CoverLetter(jd, prioritized, ""),
		LinkedIn:       g.LinkedInPack(jd, prioritized, an.Summary, an.ExtractedBullets),
	}
	if d.Summary == "" {
		d.Summary = g.Summary(prioritized)
	}

	if opts.Tone != "" {
		d.CoverVariants = map[string]string{string(opts.Tone): g.CoverVariant(jd, prioritized, opts.Tone)}
	} else {
		d.CoverVariants = g.CoverVariants(jd, prioritized)
	}

	if rewriter != nil && (opts.STARAction != "" || opts.STARResult != "") {
		d.STARBullet = rewriter.ComposeSTAR(prioritized, opts.STARAction, opts.STARResult)
	}

	if opts.Coaching {
		d.LearnRoadmap = g.LearnRoadmap(prioritized)
		pack := g.InterviewPack(prioritized)
		d.Interview = &pack
		d.Outreach = drafting.Outreach(jd, prioritized)
	}
	return d
}
