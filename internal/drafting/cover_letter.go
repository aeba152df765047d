package drafting

import (
	"strings"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/prompts"
)

// Tone selects a cover-letter variant.
type Tone string

// Cover-letter tones.
const (
	ToneNeutral Tone = "neutral"
	ToneCompany Tone = "company"
	ToneMetrics Tone = "metrics"
	ToneScrappy Tone = "scrappy"
)

// Tones lists every cover-letter tone in display order.
var Tones = []Tone{ToneNeutral, ToneCompany, ToneMetrics, ToneScrappy}

const (
	defaultSalutation = "Hiring Manager"
	defaultRole       = "the role"
	highlightsLead    = "Highlights include"
)

// CoverLetter drafts a four-paragraph cover letter. company overrides the
// name guessed from the JD when non-empty.
func (g *Generator) CoverLetter(jd string, prioritized []string, company string) string {
	if company == "" {
		company = GuessCompany(jd)
	}
	if company == "" {
		company = defaultSalutation
	}
	role := GuessRole(jd)
	if role == "" {
		role = defaultRole
	}

	b := g.split(head(prioritized, summaryFocus), -1, -1, -1, -1)
	data := map[string]string{
		"Company":   company,
		"Role":      role,
		"Channels":  parsing.JoinList(b.channels),
		"Skills":    parsing.JoinList(b.skills),
		"Analytics": parsing.JoinList(b.analytics),
		"Tools":     orDefault(b.tools, parsing.JoinList, "modern growth tooling"),
	}

	paragraphs := []string{
		prompts.MustRender(draftingFile, "cover-opening", data),
		prompts.MustRender(draftingFile, "cover-experience", data),
		prompts.MustGet(draftingFile, "cover-highlights"),
		prompts.MustRender(draftingFile, "cover-closing", data),
	}
	return strings.Join(paragraphs, "\n\n")
}

// CoverVariant rewrites the neutral letter for the given tone. Unknown tones
// return the neutral letter.
func (g *Generator) CoverVariant(jd string, prioritized []string, tone Tone) string {
	base := g.CoverLetter(jd, prioritized, "")
	switch tone {
	case ToneMetrics:
		return strings.Replace(base, highlightsLead, prompts.MustGet(draftingFile, "cover-metrics-lead"), 1)
	case ToneCompany:
		name := GuessCompany(jd)
		if name == "" {
			name = "Hiring Team"
		}
		return strings.ReplaceAll(base, defaultSalutation, name)
	case ToneScrappy:
		return base + "\n\n" + prompts.MustGet(draftingFile, "cover-scrappy-ps")
	default:
		return base
	}
}

// CoverVariants returns the letter in every tone, keyed by tone name.
func (g *Generator) CoverVariants(jd string, prioritized []string) map[string]string {
	out := make(map[string]string, len(Tones))
	for _, t := range Tones {
		out[string(t)] = g.CoverVariant(jd, prioritized, t)
	}
	return out
}
