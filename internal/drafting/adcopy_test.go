package drafting

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-matcher/internal/types"
)

func TestAdVariants(t *testing.T) {
	got := AdVariants(AdInput{
		Product:  "Acme CRO",
		Audience: "SaaS teams",
		Benefit:  "More demos",
		Keywords: "GA4 | SEO",
		Proof:    "+38% CVR",
		Tone:     "Bold",
		Platform: PlatformLinkedIn,
	})

	want := []types.AdVariant{
		{Headline: "Acme CRO: More demos", Primary: "Crush your CPA for SaaS teams. +38% CVR.", Description: "GA4, SEO, More demos. Book a quick audit."},
		{Headline: "More demos for SaaS teams", Primary: "Acme CRO using GA4 & SEO. +38% CVR.", Description: "See how peers improved CVR. Free 20-min consult."},
		{Headline: "Acme CRO — Dominate conversions", Primary: "Designed for SaaS teams. More demos.", Description: "+38% CVR. Start with a no-pressure audit call."},
		{Headline: "Outconvert competitors with Acme CRO", Primary: "More demos. GA4 + SEO playbook.", Description: "Actionable insights in 7 days. Book a slot."},
	}
	assert.Equal(t, want, got)
}

func TestAdVariants_Defaults(t *testing.T) {
	got := AdVariants(AdInput{Product: "P", Audience: "A", Benefit: "B", Tone: "Sarcastic"})
	require.Len(t, got, 4)
	assert.Equal(t, "CRO, A/B test, B. Book a quick audit.", got[0].Description)
	assert.Equal(t, "Get results for A. .", got[0].Primary)
}

func TestAdVariants_GoogleLimits(t *testing.T) {
	got := AdVariants(AdInput{
		Product:  "Landing page CRO service",
		Audience: "D2C founders in India",
		Benefit:  "Increase conversion rate and lower CPA",
		Keywords: "CRO, GA4, A/B testing, landing pages",
		Proof:    "Case study: +38% CVR in 6 weeks",
		Tone:     "Professional",
		Platform: PlatformGoogle,
	})

	assert.Equal(t, "Landing page CRO service: Inc…", got[0].Headline)
	for _, v := range got {
		assert.LessOrEqual(t, utf8.RuneCountInString(v.Headline), 30)
		assert.LessOrEqual(t, utf8.RuneCountInString(v.Description), 90)
		assert.LessOrEqual(t, utf8.RuneCountInString(v.Primary), 180)
	}
}

func TestPlatformLimits(t *testing.T) {
	assert.Equal(t, Limits{Headline: 30, Primary: 180, Description: 90}, PlatformLimits(PlatformGoogle))
	assert.Equal(t, Limits{Headline: 60, Primary: 125, Description: 100}, PlatformLimits(PlatformFacebook))
	assert.Equal(t, Limits{Headline: 60, Primary: 180, Description: 100}, PlatformLimits(PlatformX))
}
