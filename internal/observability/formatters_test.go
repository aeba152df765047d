package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jd-matcher/internal/types"
)

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.Analysis{
		Score:       72,
		JDTop:       []string{"seo", "sem", "ga4"},
		Missing:     []string{"sem"},
		Prioritized: []string{"sem", "ga4", "seo", "looker", "hubspot", "sql", "tableau"},
		BucketStats: []types.BucketStat{
			{Name: types.BucketChannels, Covered: 1, Total: 2},
			{Name: types.BucketTools, Covered: 0, Total: 0},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "Analysis")
	assert.Contains(t, output, "Match Score: 72")
	assert.Contains(t, output, "Missing: 1")
	assert.Contains(t, output, "• sem")
	assert.Contains(t, output, "... and 2 more")
	assert.NotContains(t, output, "• tableau")
	assert.Contains(t, output, "Channels")
	assert.Contains(t, output, "1/2")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPlan(types.Plan{
		Current: 60, Target: 80, Gap: 20, Needed: 7,
		MustAdd: []string{"sem", "ga4"},
		AlsoAdd: []string{"looker"},
	})
	output := buf.String()

	assert.Contains(t, output, "Gap: 20")
	assert.Contains(t, output, "Keywords needed: 7")
	assert.Contains(t, output, "Must add:")
	assert.Contains(t, output, "• looker")
}

func TestPrintGrades(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintGrades(nil)
		assert.Contains(t, buf.String(), "No bullets to grade")
	})

	t.Run("with tips", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintGrades([]types.BulletGrade{
			{Bullet: "Ran campaigns", Score: 35, Tips: []string{"Add a number"}},
			{Bullet: "Grew MQLs 40%", Score: 90},
		})
		output := buf.String()
		assert.Contains(t, output, "Bullet Grades (2)")
		assert.Contains(t, output, "1. [35] Ran campaigns")
		assert.Contains(t, output, "↳ Add a number")
		assert.Contains(t, output, "2. [90] Grew MQLs 40%")
	})
}

func TestPrintRewrites(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRewrites(nil)
	assert.Empty(t, buf.String())

	p.PrintRewrites([]types.RewritePair{{Old: "Did SEO", New: "Improved SEO rankings"}})
	output := buf.String()
	assert.Contains(t, output, "Rewrites (1)")
	assert.Contains(t, output, "OLD: Did SEO")
	assert.Contains(t, output, "NEW: Improved SEO rankings")
}

func TestPrintLint(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintLint(nil)
		assert.Contains(t, buf.String(), "No formatting issues found")
	})

	t.Run("findings", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintLint([]types.LintItem{
			{Level: types.LintError, Message: "Missing email", Hint: "Add a contact line"},
			{Level: types.LintWarn, Message: "Long bullets"},
			{Level: types.LintInfo, Message: "Tables detected"},
		})
		output := buf.String()
		assert.Contains(t, output, "[ERROR] Missing email")
		assert.Contains(t, output, "↳ Add a contact line")
		assert.Contains(t, output, "[WARN] Long bullets")
		assert.Contains(t, output, "Errors: 1, Warnings: 1")
	})
}

func TestPrintDrafts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDrafts(&types.Drafts{
		Summary:     "Growth marketer.",
		CoverLetter: "Dear Hiring Team,",
		LinkedIn:    types.LinkedInPack{Headlines: []string{"Growth | SEO"}},
	})
	output := buf.String()

	assert.Contains(t, output, "Growth marketer.")
	assert.Contains(t, output, "Cover Letter")
	assert.NotContains(t, output, "Concise Summary")
	assert.Contains(t, output, "• Growth | SEO")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("Title", strings.Repeat("é", 120))
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	assert.NotContains(t, output, strings.Repeat("é", 60))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "["+strings.Repeat("░", barWidth)+"]", bar(0))
	assert.Equal(t, "["+strings.Repeat("█", barWidth)+"]", bar(100))
	assert.Equal(t, "["+strings.Repeat("█", barWidth)+"]", bar(150))
	assert.Equal(t, "["+strings.Repeat("█", 10)+strings.Repeat("░", 10)+"]", bar(50))
}
