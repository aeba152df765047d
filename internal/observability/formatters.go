// Package observability provides logger construction and formatted output
// for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of coverage bars
	barWidth = 20
)

// Printer handles formatted output for verbose mode
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		// Truncate long lines
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintAnalysis outputs the score, keyword gaps and coverage of an analysis.
func (p *Printer) PrintAnalysis(a *types.Analysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match Score: %d\n", a.Score))
	sb.WriteString(fmt.Sprintf("JD keywords: %d   Missing: %d\n", len(a.JDTop), len(a.Missing)))
	sb.WriteString("\n")

	if len(a.Prioritized) > 0 {
		sb.WriteString("Prioritized:\n")
		writeList(&sb, a.Prioritized)
		sb.WriteString("\n")
	}

	sb.WriteString("Coverage:\n")
	for _, stat := range a.BucketStats {
		sb.WriteString(fmt.Sprintf("  %-10s %s %d/%d\n", stat.Name, bar(stat.Percent()), stat.Covered, stat.Total))
	}

	p.printBox("Analysis", sb.String())
}

// PrintPlan outputs a gap-closing plan.
func (p *Printer) PrintPlan(plan types.Plan) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Current: %d   Target: %d   Gap: %d\n", plan.Current, plan.Target, plan.Gap))
	sb.WriteString(fmt.Sprintf("Keywords needed: %d\n", plan.Needed))
	if len(plan.MustAdd) > 0 {
		sb.WriteString("\nMust add:\n")
		writeList(&sb, plan.MustAdd)
	}
	if len(plan.AlsoAdd) > 0 {
		sb.WriteString("\nAlso add:\n")
		writeList(&sb, plan.AlsoAdd)
	}
	p.printBox("Plan", sb.String())
}

// PrintGrades outputs bullet grades, weakest first as given.
func (p *Printer) PrintGrades(grades []types.BulletGrade) {
	if len(grades) == 0 {
		p.printBox("Bullet Grades", "No bullets to grade")
		return
	}

	var sb strings.Builder
	for i, g := range grades {
		sb.WriteString(fmt.Sprintf("%d. [%d] %s\n", i+1, g.Score, g.Bullet))
		for _, tip := range g.Tips {
			sb.WriteString(fmt.Sprintf("     ↳ %s\n", tip))
		}
	}
	p.printBox(fmt.Sprintf("Bullet Grades (%d)", len(grades)), sb.String())
}

// PrintRewrites outputs old and new bullet pairs.
func (p *Printer) PrintRewrites(pairs []types.RewritePair) {
	if len(pairs) == 0 {
		return
	}

	var sb strings.Builder
	for i, r := range pairs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("OLD: %s\n", r.Old))
		sb.WriteString(fmt.Sprintf("NEW: %s\n", r.New))
	}
	p.printBox(fmt.Sprintf("Rewrites (%d)", len(pairs)), sb.String())
}

// PrintLint outputs ATS lint findings.
func (p *Printer) PrintLint(items []types.LintItem) {
	if len(items) == 0 {
		p.printBox("ATS Lint", "✓ No formatting issues found")
		return
	}

	var errors, warnings int
	var sb strings.Builder
	for _, it := range items {
		switch it.Level {
		case types.LintError:
			errors++
		case types.LintWarn:
			warnings++
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", strings.ToUpper(string(it.Level)), it.Message))
		if it.Hint != "" {
			sb.WriteString(fmt.Sprintf("  ↳ %s\n", it.Hint))
		}
	}
	sb.WriteString(fmt.Sprintf("\nErrors: %d, Warnings: %d\n", errors, warnings))
	p.printBox(fmt.Sprintf("ATS Lint (%d)", len(items)), sb.String())
}

// PrintDrafts outputs the generated summaries and cover letter.
func (p *Printer) PrintDrafts(d *types.Drafts) {
	if d == nil {
		return
	}
	p.printBox("Summary", d.Summary)
	if d.ConciseSummary != "" {
		p.printBox("Concise Summary", d.ConciseSummary)
	}
	if d.CoverLetter != "" {
		p.printBox("Cover Letter", d.CoverLetter)
	}
	if len(d.LinkedIn.Headlines) > 0 {
		var sb strings.Builder
		writeList(&sb, d.LinkedIn.Headlines)
		p.printBox("LinkedIn Headlines", sb.String())
	}
}

// PrintProgress outputs one analysis step. Safe for concurrent use.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(step, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "→ [%s] %s\n", step, message)
}

// PrintChecklist outputs prioritized keywords grouped by bucket, named
// buckets first.
func (p *Printer) PrintChecklist(checklist map[types.Bucket][]string) {
	if len(checklist) == 0 {
		return
	}
	order := slices.Clone(types.NamedBuckets)
	var rest []types.Bucket
	for b := range checklist {
		if !slices.Contains(order, b) {
			rest = append(rest, b)
		}
	}
	slices.Sort(rest)

	var sb strings.Builder
	for _, b := range append(order, rest...) {
		if kws := checklist[b]; len(kws) > 0 {
			sb.WriteString(fmt.Sprintf("%s: %s\n", b, strings.Join(kws, ", ")))
		}
	}
	p.printBox("Checklist", sb.String())
}

// PrintEdits outputs applied and still selected keywords with the predicted score.
func (p *Printer) PrintEdits(applied, selected []string, predicted *int) {
	if len(applied) == 0 && len(selected) == 0 {
		return
	}
	var sb strings.Builder
	if predicted != nil {
		sb.WriteString(fmt.Sprintf("Predicted After Fixes: %d\n", *predicted))
	}
	if len(applied) > 0 {
		sb.WriteString("Applied:\n")
		writeList(&sb, applied)
	}
	if len(selected) > 0 {
		sb.WriteString("Selected:\n")
		writeList(&sb, selected)
	}
	p.printBox("Keyword Edits", sb.String())
}

func writeList(sb *strings.Builder, items []string) {
	count := min(len(items), maxItemsToShow)
	for _, it := range items[:count] {
		sb.WriteString(fmt.Sprintf("  • %s\n", it))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// bar renders pct as a fixed-width bar.
func bar(pct int) string {
	filled := min(max(pct, 0), 100) * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}
