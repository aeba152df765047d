package drafting

import (
	"regexp"
	"strings"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/prompts"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	linkedinFile = "linkedin.json"

	// HeadlineMaxChars is the LinkedIn headline limit.
	HeadlineMaxChars = 220
	// AboutMaxChars keeps the About section under LinkedIn's 2600 limit.
	AboutMaxChars = 2500
	// FeaturedMaxWords caps each featured bullet.
	FeaturedMaxWords = 24

	defaultHeadlineRole = "Digital Marketing"
	aboutHighlights     = 5
	aboutKeywords       = 18
	featuredCount       = 3
)

var trailingClause = regexp.MustCompile(`;.*$`)

// Headlines returns three headline options, each at most 220 characters.
func (g *Generator) Headlines(prioritized []string, role string) []string {
	b := g.split(prioritized, 4, 3, 2, 2)
	if role == "" {
		role = defaultHeadlineRole
	} else {
		role = parsing.Capitalize(role)
	}

	focus := head(append(append([]string{}, b.channels...), b.skills...), 5)
	measurement := head(append(append([]string{}, b.analytics...), b.tools...), 2)
	channels := strings.Join(capitalizeAll(head(b.channels, 2)), " & ")

	analytics := strings.Join(capitalizeAll(head(b.analytics, 1)), "")
	if analytics == "" {
		analytics = "Analytics"
	}

	v1 := prompts.MustRender(linkedinFile, "headline-role", map[string]string{
		"Role":        role,
		"Focus":       strings.Join(capitalizeAll(focus), " | "),
		"Measurement": strings.Join(capitalizeAll(measurement), " & "),
	})
	v2 := prompts.MustRender(linkedinFile, "headline-performance", map[string]string{
		"Analytics": analytics,
		"Channels":  channels,
	})
	v3 := prompts.MustRender(linkedinFile, "headline-metrics", map[string]string{
		"Channels": channels,
		"Skills":   strings.Join(capitalizeAll(head(b.skills, 2)), " & "),
	})

	return []string{
		parsing.LimitChars(v1, HeadlineMaxChars),
		parsing.LimitChars(v2, HeadlineMaxChars),
		parsing.LimitChars(v3, HeadlineMaxChars),
	}
}

// About assembles the About section from the summary, the first five bullets
// and up to eighteen keywords.
func About(summary string, bullets, prioritized []string) string {
	intro := summary
	if intro == "" {
		intro = prompts.MustGet(linkedinFile, "about-default-intro")
	}

	lines := make([]string, 0, aboutHighlights)
	for _, b := range head(bullets, aboutHighlights) {
		lines = append(lines, "• "+strings.TrimSpace(whitespacePattern.ReplaceAllString(b, " ")))
	}

	raw := prompts.MustRender(linkedinFile, "about", map[string]string{
		"Intro":      intro,
		"Highlights": strings.Join(lines, "\n"),
		"Keywords":   strings.Join(capitalizeAll(head(prioritized, aboutKeywords)), ", "),
	})
	return parsing.LimitChars(raw, AboutMaxChars)
}

// Featured trims the first three bullets to their main clause, at most 24 words each.
func Featured(bullets []string) []string {
	out := make([]string, 0, featuredCount)
	for _, b := range head(bullets, featuredCount) {
		out = append(out, parsing.CapWords(trailingClause.ReplaceAllString(b, ""), FeaturedMaxWords))
	}
	return out
}

// LinkedInPack bundles headlines, About and featured bullets for a JD.
func (g *Generator) LinkedInPack(jd string, prioritized []string, summary string, bullets []string) types.LinkedInPack {
	return types.LinkedInPack{
		Headlines: g.Headlines(prioritized, GuessRole(jd)),
		About:     About(summary, bullets, prioritized),
		Featured:  Featured(bullets),
	}
}
