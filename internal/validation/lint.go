// Package validation checks resume text for formatting that applicant
// tracking systems parse poorly.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/jd-matcher/internal/types"
)

// Word-count bounds for a one to two page resume.
const (
	MinResumeWords = 180
	MaxResumeWords = 1100
	MaxLineWords   = 35
)

// RequiredHeadings are the sections every resume should name.
var RequiredHeadings = []string{"experience", "education", "skills"}

var (
	nonASCIIPattern    = regexp.MustCompile(`[^\x00-\x7F]`)
	boxDrawingPattern  = regexp.MustCompile(`[│┼┤┐┘┴┬═╬║]`)
	pipeColumnPattern  = regexp.MustCompile(`\|.*\|`)
	imagePattern       = regexp.MustCompile(`(?i)!\[.*?\]\(.*?\)|<img[\s\S]*?>|https?://\S+\.(png|jpg|jpeg|gif|svg)`)
	monthDatePattern   = regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}`)
	numericDatePattern = regexp.MustCompile(`\b\d{2}/\d{4}\b`)
	fancyBulletPattern = regexp.MustCompile(`[●◦▪◆➤►]`)
	emailPattern       = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phonePattern       = regexp.MustCompile(`\+?[0-9][0-9\s\-()]{7,}`)
	headingPatterns    = compileHeadings(RequiredHeadings)
	headingTitleCaser  = cases.Title(language.English)
)

type check func(text string, words int) []types.LintItem

// checks run in this order; the order is reflected in the output.
var checks = []check{
	checkLength,
	checkNonASCII,
	checkTables,
	checkImages,
	checkHeadings,
	checkLongLines,
	checkDateFormats,
	checkTabs,
	checkFancyBullets,
	checkContactInfo,
}

// LintResume returns every ATS formatting issue found in text, in a fixed
// check order. A clean resume yields an empty, non-nil slice.
func LintResume(text string) []types.LintItem {
	words := len(strings.Fields(text))
	items := []types.LintItem{}
	for _, c := range checks {
		items = append(items, c(text, words)...)
	}
	return items
}

func warn(message, hint string) []types.LintItem {
	return []types.LintItem{{Level: types.LintWarn, Message: message, Hint: hint}}
}

func info(message, hint string) []types.LintItem {
	return []types.LintItem{{Level: types.LintInfo, Message: message, Hint: hint}}
}

func checkLength(_ string, words int) []types.LintItem {
	var items []types.LintItem
	if words < MinResumeWords {
		items = append(items, warn("Resume looks very short.", "Aim ~300–700 words (1–2 pages).")...)
	}
	if words > MaxResumeWords {
		items = append(items, warn("Resume may be too long.", "Trim to <900 words; keep bullets crisp.")...)
	}
	return items
}

func checkNonASCII(text string, _ int) []types.LintItem {
	if nonASCIIPattern.MatchString(text) {
		return warn("Non-ASCII characters / emoji present.", "Replace fancy symbols with standard ASCII.")
	}
	return nil
}

func checkTables(text string, _ int) []types.LintItem {
	if boxDrawingPattern.MatchString(text) || pipeColumnPattern.MatchString(text) {
		return warn("Table/column characters detected.", "Avoid multi-column tables; use simple sections.")
	}
	return nil
}

func checkImages(text string, _ int) []types.LintItem {
	if imagePattern.MatchString(text) {
		return warn("Images detected.", "Remove logos/headshots; ATS ignores them.")
	}
	return nil
}

func checkHeadings(text string, _ int) []types.LintItem {
	var items []types.LintItem
	for i, h := range RequiredHeadings {
		if !headingPatterns[i].MatchString(text) {
			items = append(items, info(
				fmt.Sprintf("No '%s' heading found.", h),
				fmt.Sprintf("Add a clear '%s' section.", headingTitleCaser.String(h)),
			)...)
		}
	}
	return items
}

func checkLongLines(text string, _ int) []types.LintItem {
	for _, line := range strings.Split(text, "\n") {
		if len(strings.Fields(line)) > MaxLineWords {
			return info("Some bullets exceed ~35 words.", "Keep bullets ~12–24 words.")
		}
	}
	return nil
}

func checkDateFormats(text string, _ int) []types.LintItem {
	if monthDatePattern.MatchString(text) && numericDatePattern.MatchString(text) {
		return info("Mixed date formats detected.", "Use one style consistently (e.g., Jan 2023 – Mar 2024).")
	}
	return nil
}

func checkTabs(text string, _ int) []types.LintItem {
	if strings.Contains(text, "\t") {
		return info("Tab characters found.", "Use spaces; avoid tabs for alignment.")
	}
	return nil
}

func checkFancyBullets(text string, _ int) []types.LintItem {
	if fancyBulletPattern.MatchString(text) {
		return info("Fancy bullet symbols present.", "Prefer '-' or '•' consistently.")
	}
	return nil
}

func checkContactInfo(text string, _ int) []types.LintItem {
	if !emailPattern.MatchString(text) || !phonePattern.MatchString(text) {
		return warn("Missing contact info (email/phone).", "Ensure top section has both.")
	}
	return nil
}

func compileHeadings(headings []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(headings))
	for i, h := range headings {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(h) + `\b`)
	}
	return out
}
