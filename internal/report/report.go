// Package report renders an analysis session as a plain-text or Markdown
// report and packs scorecards into share links.
package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/types"
)

// Title is the report's document title.
const Title = "JD Matcher Report"

// Input is everything a report can show
type Input struct {
	Score          int
	Predicted      *int
	Target         int
	Plan           types.Plan
	Applied        []string
	Summary        string
	Bullets        []string
	Coverage       []types.BucketStat
	Grades         []types.BulletGrade
	Rewrites       []types.RewritePair
	ConciseSummary string
	CoverLetter    string
	Lint           []types.LintItem
	LinkedIn       types.LinkedInPack
	GeneratedAt    time.Time
}

// FromState builds report input from a session snapshot.
func FromState(st pipeline.State) Input {
	in := Input{
		Predicted:      st.Predicted,
		Target:         st.Target,
		Plan:           st.Plan,
		Applied:        st.Applied,
		Summary:        st.Summary,
		Bullets:        st.Bullets,
		Coverage:       st.Coverage,
		Grades:         st.Grades,
		Rewrites:       st.Rewrites,
		ConciseSummary: st.ConciseSummary,
		CoverLetter:    st.CoverLetter,
	}
	if st.Analysis != nil {
		in.Score = st.Analysis.Score
		in.GeneratedAt = st.Analysis.CreatedAt
	}
	return in
}

// Section is a titled group of report lines. The leading section has no title.
type Section struct {
	Title string
	Lines []string
}

// BuildSections lays out the report. Locked reports carry only the scores,
// prioritized keywords and suggested bullets.
func BuildSections(in Input, unlocked bool) []Section {
	header := []string{"Match Score: " + strconv.Itoa(in.Score)}
	if unlocked && in.Predicted != nil {
		header = append(header, "Predicted After Fixes: "+strconv.Itoa(*in.Predicted))
	}
	header = append(header, "Target: "+strconv.Itoa(in.Target))

	prioritized := make([]string, 0, len(in.Plan.Prioritized))
	for _, k := range in.Plan.Prioritized {
		if slices.Contains(in.Applied, k) {
			k += " (✓ applied)"
		}
		prioritized = append(prioritized, "- "+k)
	}

	sections := []Section{
		{Lines: header},
		{Title: "Prioritized Keywords", Lines: prioritized},
	}
	if unlocked {
		sections = append(sections,
			Section{Title: fmt.Sprintf("Plan to reach %d+", in.Target), Lines: dashed(in.Plan.Actions)},
			Section{Title: "Improved Summary", Lines: []string{in.Summary}},
		)
	}
	sections = append(sections, Section{Title: "Suggested Bullets", Lines: dashed(in.Bullets)})
	if !unlocked {
		return compact(sections)
	}

	coverage := make([]string, 0, len(in.Coverage))
	for _, b := range in.Coverage {
		coverage = append(coverage, fmt.Sprintf("- %s: %d/%d", b.Name, b.Covered, b.Total))
	}
	grades := make([]string, 0, len(in.Grades))
	for _, g := range in.Grades {
		grades = append(grades, fmt.Sprintf("- [%d] %s | Tips: %s", g.Score, g.Bullet, strings.Join(g.Tips, "; ")))
	}
	sections = append(sections,
		Section{Title: "Bucket Coverage", Lines: coverage},
		Section{Title: "ATS Bullet Grades", Lines: grades},
	)

	if len(in.Rewrites) > 0 {
		rewrites := make([]string, 0, len(in.Rewrites))
		for _, r := range in.Rewrites {
			rewrites = append(rewrites, fmt.Sprintf("- OLD: %s\n  NEW: %s", r.Old, r.New))
		}
		sections = append(sections, Section{Title: "Auto-Rewrites", Lines: rewrites})
	}
	sections = append(sections,
		Section{Title: "JD-specific 75-word Summary", Lines: []string{in.ConciseSummary}},
		Section{Title: "Cover Letter", Lines: []string{in.CoverLetter}},
	)

	if len(in.Lint) > 0 {
		lint := make([]string, 0, len(in.Lint))
		for _, it := range in.Lint {
			line := fmt.Sprintf("- [%s] %s", it.Level, it.Message)
			if it.Hint != "" {
				line += " — " + it.Hint
			}
			lint = append(lint, line)
		}
		sections = append(sections, Section{Title: "ATS Format Lint", Lines: lint})
	}
	if len(in.LinkedIn.Headlines) > 0 {
		headlines := make([]string, 0, len(in.LinkedIn.Headlines))
		for i, h := range in.LinkedIn.Headlines {
			headlines = append(headlines, fmt.Sprintf("%d) %s", i+1, h))
		}
		sections = append(sections, Section{Title: "LinkedIn Headline Options", Lines: headlines})
	}
	if in.LinkedIn.About != "" {
		sections = append(sections, Section{Title: "LinkedIn About", Lines: []string{in.LinkedIn.About}})
	}
	if len(in.LinkedIn.Featured) > 0 {
		featured := make([]string, 0, len(in.LinkedIn.Featured))
		for _, b := range in.LinkedIn.Featured {
			featured = append(featured, "• "+b)
		}
		sections = append(sections, Section{Title: "LinkedIn Featured bullets", Lines: featured})
	}
	return compact(sections)
}

// BuildLines flattens the report into lines, each section title followed by a colon.
func BuildLines(in Input, unlocked bool) []string {
	var lines []string
	for _, s := range BuildSections(in, unlocked) {
		if s.Title != "" {
			lines = append(lines, s.Title+":")
		}
		lines = append(lines, s.Lines...)
	}
	return lines
}

// WriteTXT writes lines separated by newlines.
func WriteTXT(w io.Writer, lines []string) error {
	if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteMarkdown writes sections as a Markdown document, titles as ## headings.
func WriteMarkdown(w io.Writer, sections []Section, generatedAt time.Time) error {
	var sb strings.Builder
	sb.WriteString("# " + Title + "\n\n")
	if !generatedAt.IsZero() {
		sb.WriteString("_Generated: " + generatedAt.Format(time.RFC1123) + "_\n\n")
	}
	for _, s := range sections {
		if s.Title != "" {
			sb.WriteString("## " + s.Title + "\n\n")
		}
		for _, l := range s.Lines {
			sb.WriteString(l + "\n")
		}
		sb.WriteString("\n")
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func dashed(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, "- "+it)
	}
	return out
}

// compact drops empty lines while keeping every titled section.
func compact(sections []Section) []Section {
	for i := range sections {
		sections[i].Lines = slices.DeleteFunc(sections[i].Lines, func(l string) bool {
			return l == ""
		})
	}
	return sections
}
