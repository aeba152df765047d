package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/types"
)

func sampleInput() Input {
	predicted := 71
	return Input{
		Score:     58,
		Predicted: &predicted,
		Target:    80,
		Plan: types.Plan{
			Prioritized: []string{"optimization", "hubspot", "seo"},
			Actions:     []string{"Add 3 keywords", "Rewrite weak bullets"},
		},
		Applied: []string{"seo"},
		Summary: "Performance marketer focused on SEO.",
		Bullets: []string{"Built seo initiatives", ""},
		Coverage: []types.BucketStat{
			{Name: types.BucketChannels, Covered: 1, Total: 2},
		},
		Grades: []types.BulletGrade{
			{Bullet: "Helped with stuff", Score: 20, Tips: []string{"Add a metric", "Use a verb"}},
		},
		Rewrites:       []types.RewritePair{{Old: "Helped with stuff", New: "Led seo initiatives"}},
		ConciseSummary: "Concise.",
		CoverLetter:    "Dear team,",
		Lint:           []types.LintItem{{Level: types.LintWarn, Message: "Tables detected", Hint: "Use plain text"}},
		LinkedIn: types.LinkedInPack{
			Headlines: []string{"SEO Lead", "Growth Marketer"},
			About:     "About me",
			Featured:  []string{"Launched a site"},
		},
	}
}

func TestBuildLines_Locked(t *testing.T) {
	lines := BuildLines(sampleInput(), false)

	assert.Equal(t, []string{
		"Match Score: 58",
		"Target: 80",
		"Prioritized Keywords:",
		"- optimization",
		"- hubspot",
		"- seo (✓ applied)",
		"Suggested Bullets:",
		"- Built seo initiatives",
	}, lines)
}

func TestBuildLines_Unlocked(t *testing.T) {
	lines := BuildLines(sampleInput(), true)
	text := strings.Join(lines, "\n")

	assert.Equal(t, "Predicted After Fixes: 71", lines[1])
	for _, want := range []string{
		"Plan to reach 80+:",
		"- Rewrite weak bullets",
		"Improved Summary:\nPerformance marketer focused on SEO.",
		"- Channels: 1/2",
		"- [20] Helped with stuff | Tips: Add a metric; Use a verb",
		"- OLD: Helped with stuff\n  NEW: Led seo initiatives",
		"JD-specific 75-word Summary:\nConcise.",
		"Cover Letter:\nDear team,",
		"- [warn] Tables detected — Use plain text",
		"1) SEO Lead",
		"2) Growth Marketer",
		"LinkedIn About:\nAbout me",
		"• Launched a site",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, lines, "")
}

func TestBuildLines_UnlockedOmitsEmptyOptionalSections(t *testing.T) {
	in := sampleInput()
	in.Predicted = nil
	in.Rewrites = nil
	in.Lint = nil
	in.LinkedIn = types.LinkedInPack{}
	in.CoverLetter = ""

	lines := BuildLines(in, true)
	assert.NotContains(t, lines, "Auto-Rewrites:")
	assert.NotContains(t, lines, "ATS Format Lint:")
	assert.NotContains(t, lines, "LinkedIn About:")
	assert.Contains(t, lines, "Cover Letter:")
	assert.Equal(t, "Target: 80", lines[1])
}

func TestWriteTXT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTXT(&buf, []string{"a", "b"}))
	assert.Equal(t, "a\nb\n", buf.String())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, WriteMarkdown(&buf, BuildSections(sampleInput(), false), at))

	md := buf.String()
	assert.True(t, strings.HasPrefix(md, "# JD Matcher Report\n\n_Generated: "))
	assert.Contains(t, md, "Match Score: 58\nTarget: 80\n")
	assert.Contains(t, md, "## Prioritized Keywords\n\n- optimization\n")
	assert.Contains(t, md, "## Suggested Bullets\n\n- Built seo initiatives\n")
	assert.NotContains(t, md, "## Cover Letter")
}

func TestFromState(t *testing.T) {
	predicted := 66
	created := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	st := pipeline.State{
		Target:    75,
		Analysis:  &types.Analysis{Score: 60, CreatedAt: created},
		Predicted: &predicted,
		Summary:   "sum",
		Applied:   []string{"seo"},
	}

	in := FromState(st)
	assert.Equal(t, 60, in.Score)
	assert.Equal(t, 75, in.Target)
	assert.Equal(t, &predicted, in.Predicted)
	assert.Equal(t, created, in.GeneratedAt)
	assert.Equal(t, "sum", in.Summary)

	assert.Zero(t, FromState(pipeline.State{}).Score)
}
