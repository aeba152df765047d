// Package drafting generates the derived texts of an analysis: summaries, cover
// letters, LinkedIn copy, coaching material and outreach messages.
// Every generator is a pure function of its inputs.
package drafting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/prompts"
	"github.com/jonathan/jd-matcher/internal/skills"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	draftingFile = "drafting.json"

	// ConciseSummaryMaxWords caps the JD-specific summary.
	ConciseSummaryMaxWords = 75

	summaryFocus = 8
)

var (
	companyAtPattern  = regexp.MustCompile(`\bat\s+([A-Z][A-Za-z0-9&.\-]+)\b`)
	companyWePattern  = regexp.MustCompile(`(?i)\bwe(?:’|')?re\s+([A-Z][A-Za-z0-9&.\-]+)\b`)
	rolePattern       = regexp.MustCompile(`(?i)hiring\s+a?n?\s*([A-Za-z ]{3,60})`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Generator produces drafts using a bucket classifier to group keywords.
type Generator struct {
	classifier *skills.Classifier
}

// NewGenerator creates a Generator. A nil classifier selects the default rules.
func NewGenerator(classifier *skills.Classifier) *Generator {
	if classifier == nil {
		classifier = skills.Default()
	}
	return &Generator{classifier: classifier}
}

// bucketed holds prioritized keywords split by bucket, each list capped.
type bucketed struct {
	channels, skills, analytics, tools []string
}

func (g *Generator) split(words []string, ch, sk, an, tl int) bucketed {
	return bucketed{
		channels:  head(g.classifier.Filter(words, types.BucketChannels), ch),
		skills:    head(g.classifier.Filter(words, types.BucketSkills), sk),
		analytics: head(g.classifier.Filter(words, types.BucketAnalytics), an),
		tools:     head(g.classifier.Filter(words, types.BucketTools), tl),
	}
}

// Summary builds the one-paragraph professional summary from the first eight
// prioritized keywords.
func (g *Generator) Summary(prioritized []string) string {
	b := g.split(head(prioritized, summaryFocus), -1, -1, -1, -1)

	var parts []string
	if len(b.channels) > 0 {
		parts = append(parts, parsing.JoinList(b.channels)+" campaigns")
	}
	if len(b.skills) > 0 {
		parts = append(parts, parsing.JoinList(b.skills))
	}
	if len(b.analytics) > 0 {
		parts = append(parts, parsing.JoinList(b.analytics))
	}
	if len(b.tools) > 0 {
		parts = append(parts, "tools incl. "+parsing.JoinList(b.tools))
	}

	return prompts.MustRender(draftingFile, "summary", map[string]string{
		"Core": strings.Join(parts, " • "),
	})
}

// ConciseSummary builds the JD-specific summary, capped at 75 words.
func (g *Generator) ConciseSummary(prioritized []string, target int) string {
	b := g.split(prioritized, 3, 3, 2, 2)

	text := prompts.MustRender(draftingFile, "concise-summary", map[string]string{
		"Channels":  orDefault(b.channels, func(s []string) string { return parsing.JoinList(s) + " campaigns" }, "multi-channel campaigns"),
		"Skills":    orDefault(b.skills, parsing.JoinList, "CRO, testing"),
		"Analytics": orDefault(b.analytics, parsing.JoinList, "analytics"),
		"Tools":     orDefault(b.tools, parsing.JoinList, "modern tools"),
		"Target":    fmt.Sprint(target),
	})
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	return parsing.LimitWords(text, ConciseSummaryMaxWords)
}

// AddToSummary appends the keywords not already present in base (whole word,
// case-insensitive), at most eight of them, as " • a, b and c".
func AddToSummary(base string, keywords []string) string {
	var add []string
	for _, kw := range keywords {
		if !containsWord(base, kw) {
			add = append(add, kw)
		}
	}
	if len(add) == 0 {
		return base
	}
	return strings.TrimRight(base, " \t\r\n") + " • " + parsing.JoinList(head(add, summaryFocus))
}

// GuessCompany looks for "at Acme" or "we're Acme" in the JD.
func GuessCompany(jd string) string {
	if m := companyAtPattern.FindStringSubmatch(jd); m != nil {
		return m[1]
	}
	if m := companyWePattern.FindStringSubmatch(jd); m != nil {
		return m[1]
	}
	return ""
}

// GuessRole extracts the phrase following "hiring a/an".
func GuessRole(jd string) string {
	if m := rolePattern.FindStringSubmatch(jd); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func containsWord(text, word string) bool {
	if word == "" {
		return true
	}
	rx, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	if err != nil {
		return false
	}
	return rx.MatchString(text)
}

// head returns the first n items; a negative n keeps everything.
func head(items []string, n int) []string {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

func orDefault(items []string, render func([]string) string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return render(items)
}

func capitalizeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = parsing.Capitalize(s)
	}
	return out
}
