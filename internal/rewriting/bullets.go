package rewriting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/jd-matcher/internal/parsing"
)

const (
	minExtractWords = 7
	maxExtractWords = 35
	maxExtracted    = 20
)

// suggestionVerbs cycle across suggested bullets
var suggestionVerbs = []string{
	"Delivered", "Increased", "Reduced", "Built", "Led",
	"Launched", "Optimized", "Automated", "Migrated", "Improved",
}

var (
	bulletSplit   = regexp.MustCompile(`\n|•|-\s+`)
	sentenceSplit = regexp.MustCompile(`[.?!]\s+`)
	blankLines    = regexp.MustCompile(`\n+`)
)

// ExtractBullets pulls bullet-sized candidates out of resume text. Lines,
// bullet fragments and sentences are all considered; unique candidates of
// 7–35 words are kept, at most 20.
func ExtractBullets(text string) []string {
	raw := append(bulletSplit.Split(text, -1), sentenceSplit.Split(text, -1)...)
	for i := range raw {
		raw[i] = strings.TrimSpace(raw[i])
	}

	out := make([]string, 0, maxExtracted)
	for _, s := range parsing.Unique(raw) {
		wc := parsing.WordCount(s)
		if wc < minExtractWords || wc > maxExtractWords {
			continue
		}
		out = append(out, s)
		if len(out) == maxExtracted {
			break
		}
	}
	return out
}

// SplitLines returns the trimmed non-empty lines of text.
func SplitLines(text string) []string {
	lines := blankLines.Split(text, -1)
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// SuggestBullets drafts up to limit bullets, one per keyword. When a resume
// line already mentions the keyword it is quoted as the starting point.
func SuggestBullets(keywords []string, resume string, limit int) []string {
	lines := blankLines.Split(resume, -1)
	suggestions := make([]string, 0, min(limit, len(keywords)))

	for i, kw := range keywords {
		if len(suggestions) >= limit {
			break
		}
		verb := suggestionVerbs[i%len(suggestionVerbs)]
		if hit, ok := findLine(lines, kw); ok {
			suggestions = append(suggestions, fmt.Sprintf(
				"%s %s outcomes — %s (add metric: %s).",
				verb, kw, leadingMarkers.ReplaceAllString(hit, ""), MetricPlaceholder))
			continue
		}
		suggestions = append(suggestions, fmt.Sprintf(
			"%s %s initiatives using A/B tests and GA4; achieved +X%% CTR and -Y%% CPA across N campaigns in Qx.",
			verb, kw))
	}
	return suggestions
}

func findLine(lines []string, kw string) (string, bool) {
	needle := strings.ToLower(kw)
	for _, l := range lines {
		if l != "" && strings.Contains(strings.ToLower(l), needle) {
			return l, true
		}
	}
	return "", false
}
