package drafting

import (
	"regexp"
	"strings"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/prompts"
	"github.com/jonathan/jd-matcher/internal/types"
)

const adcopyFile = "adcopy.json"

// Ad platforms with their own length limits.
const (
	PlatformGoogle   = "Google"
	PlatformFacebook = "Facebook"
	PlatformLinkedIn = "LinkedIn"
	PlatformX        = "X/Twitter"
)

// openers holds three opening phrases per ad tone.
var openers = map[string][3]string{
	"Neutral":      {"Get results", "Improve performance", "Unlock growth"},
	"Professional": {"Drive measurable impact", "Operationalize experiments", "Scale results"},
	"Friendly":     {"Make your ads work harder", "Turn clicks into customers", "Boost signups fast"},
	"Bold":         {"Crush your CPA", "Dominate conversions", "Outconvert competitors"},
	"Playful":      {"Give your funnel superpowers", "Make landing pages sing", "Turn ‘meh’ into ‘wow’"},
	"Urgent":       {"Stop leaking conversions", "Fix poor CVR now", "Slash CPA this quarter"},
}

var keywordSeparators = regexp.MustCompile(`[,|]`)

// AdInput describes the product an ad is written for.
type AdInput struct {
	Product  string
	Audience string
	Benefit  string
	Keywords string
	Proof    string
	Tone     string
	Platform string
}

// Limits are the per-field character caps of a platform.
type Limits struct {
	Headline    int `json:"headline"`
	Primary     int `json:"primary"`
	Description int `json:"description"`
}

// Platforms lists the supported ad platforms.
var Platforms = []string{PlatformGoogle, PlatformFacebook, PlatformLinkedIn, PlatformX}

// PlatformLimits returns the character caps for platform.
func PlatformLimits(platform string) Limits {
	l := Limits{Headline: 60, Primary: 180, Description: 100}
	switch platform {
	case PlatformGoogle:
		l.Headline, l.Description = 30, 90
	case PlatformFacebook:
		l.Primary = 125
	}
	return l
}

// AdVariants returns four headline/primary/description sets clamped to the
// platform limits. Unknown tones fall back to Neutral openers.
func AdVariants(in AdInput) []types.AdVariant {
	var kws []string
	for _, k := range keywordSeparators.Split(in.Keywords, -1) {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}
	k1, k2 := "CRO", "A/B test"
	if len(kws) > 0 {
		k1 = kws[0]
	}
	if len(kws) > 1 {
		k2 = kws[1]
	}

	ops, ok := openers[in.Tone]
	if !ok {
		ops = openers["Neutral"]
	}
	limits := PlatformLimits(in.Platform)

	variants := make([]types.AdVariant, 0, 4)
	for i, opener := range []string{ops[0], "", ops[1], ops[2]} {
		data := map[string]string{
			"Product":  in.Product,
			"Audience": in.Audience,
			"Benefit":  in.Benefit,
			"Proof":    in.Proof,
			"Keyword1": k1,
			"Keyword2": k2,
			"Opener":   opener,
		}
		prefix := "variant" + string(rune('1'+i)) + "-"
		variants = append(variants, types.AdVariant{
			Headline:    parsing.LimitChars(prompts.MustRender(adcopyFile, prefix+"headline", data), limits.Headline),
			Primary:     parsing.LimitChars(prompts.MustRender(adcopyFile, prefix+"primary", data), limits.Primary),
			Description: parsing.LimitChars(prompts.MustRender(adcopyFile, prefix+"description", data), limits.Description),
		})
	}
	return variants
}
