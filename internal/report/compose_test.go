package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/embedding"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	composeJD = "Growth marketer wanted. Run google ads and seo programs, own ga4 reporting, " +
		"manage hubspot workflows and landing page optimization."
	composeResume = "- Led content marketing for a SaaS brand across blog and social channels\n" +
		"- Managed weekly email newsletters for forty thousand subscribers with strong open rates\n" +
		"Experience\nEducation: BA Communications"
)

func newComposeSession() *pipeline.Session {
	a := pipeline.NewAnalyzer(embedding.NewHashingEmbedder(embedding.DefaultHashingDimensions), nil, nil)
	return pipeline.NewSession(a, nil, nil, 80)
}

func TestCompose_Locked(t *testing.T) {
	in, err := Compose(context.Background(), newComposeSession(), composeJD, composeResume, pipeline.Options{}, types.Edits{}, false)
	require.NoError(t, err)

	assert.Equal(t, 80, in.Target)
	assert.NotEmpty(t, in.Plan.Prioritized)
	assert.NotEmpty(t, in.Grades)
	assert.Empty(t, in.ConciseSummary)
	assert.Empty(t, in.CoverLetter)
	assert.Empty(t, in.Lint)
	assert.Empty(t, in.LinkedIn.Headlines)
	assert.False(t, in.GeneratedAt.IsZero())
}

func TestCompose_Unlocked(t *testing.T) {
	in, err := Compose(context.Background(), newComposeSession(), composeJD, composeResume, pipeline.Options{}, types.Edits{}, true)
	require.NoError(t, err)

	assert.NotEmpty(t, in.ConciseSummary)
	assert.NotEmpty(t, in.CoverLetter)
	assert.NotEmpty(t, in.LinkedIn.Headlines)
	assert.NotNil(t, in.Lint)
	assert.NotEmpty(t, BuildLines(in, true))
}

func TestCompose_AppliedEdits(t *testing.T) {
	ctx := context.Background()
	plain, err := Compose(ctx, newComposeSession(), composeJD, composeResume, pipeline.Options{}, types.Edits{}, true)
	require.NoError(t, err)
	require.NotEmpty(t, plain.Plan.Prioritized)
	assert.Nil(t, plain.Predicted)
	kw := plain.Plan.Prioritized[0]

	in, err := Compose(ctx, newComposeSession(), composeJD, composeResume, pipeline.Options{},
		types.Edits{Select: []string{kw}, Apply: types.ApplySummary}, true)
	require.NoError(t, err)
	require.NotNil(t, in.Predicted)
	assert.Equal(t, []string{kw}, in.Applied)
	assert.Contains(t, in.Summary, kw)

	text := strings.Join(BuildLines(in, true), "\n")
	assert.Contains(t, text, "Predicted After Fixes: ")
	assert.Contains(t, text, kw+" (✓ applied)")

	locked := strings.Join(BuildLines(in, false), "\n")
	assert.NotContains(t, locked, "Predicted After Fixes")
}

func TestCompose_EditedInput(t *testing.T) {
	in, err := Compose(context.Background(), newComposeSession(), composeJD, composeResume, pipeline.Options{},
		types.Edits{Summary: "Custom summary line.", Bullets: []string{"Grew paid search revenue 30% in a year"}}, true)
	require.NoError(t, err)

	assert.Equal(t, "Custom summary line.", in.Summary)
	require.Len(t, in.Grades, 1)
	assert.Equal(t, "Grew paid search revenue 30% in a year", in.Grades[0].Bullet)
}

type downEmbedder struct{}

func (downEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, &embedding.ModelUnavailableError{Op: "load"}
}

func TestCompose_ModelUnavailable(t *testing.T) {
	s := pipeline.NewSession(pipeline.NewAnalyzer(downEmbedder{}, nil, nil), nil, nil, 80)
	_, err := Compose(context.Background(), s, composeJD, composeResume, pipeline.Options{}, types.Edits{}, false)
	assert.ErrorIs(t, err, embedding.ErrModelUnavailable)
}
