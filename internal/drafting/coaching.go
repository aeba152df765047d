package drafting

import (
	"strings"

	"github.com/jonathan/jd-matcher/internal/prompts"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	coachingFile = "coaching.json"
	outreachFile = "outreach.json"

	roadmapSize = 10
)

// LearnRoadmap suggests one practice task per prioritized keyword, at most ten.
func (g *Generator) LearnRoadmap(prioritized []string) []types.LearnItem {
	items := make([]types.LearnItem, 0, roadmapSize)
	for _, kw := range head(prioritized, roadmapSize) {
		bucket := g.classifier.BucketOf(kw)
		var key string
		switch bucket {
		case types.BucketChannels:
			key = "learn-channels"
		case types.BucketAnalytics:
			key = "learn-analytics"
		case types.BucketTools:
			key = "learn-tools"
		default:
			key = "learn-other"
		}
		items = append(items, types.LearnItem{
			Keyword: kw,
			Bucket:  bucket,
			Todo:    prompts.MustRender(coachingFile, key, map[string]string{"Keyword": kw}),
		})
	}
	return items
}

// InterviewPack lists likely interview questions tailored to the prioritized keywords.
func (g *Generator) InterviewPack(prioritized []string) types.InterviewPack {
	b := g.split(prioritized, 3, 0, 2, 2)

	channel := "paid"
	if len(b.channels) > 0 {
		channel = b.channels[0]
	}
	analytics := "GA4"
	if len(b.analytics) > 0 {
		analytics = b.analytics[0]
	}
	channels := strings.Join(b.channels, " & ")
	if channels == "" {
		channels = "paid"
	}
	tools := strings.Join(b.tools, ", ")
	if tools == "" {
		tools = "Sheets"
	}

	return types.InterviewPack{
		Technical: []string{
			prompts.MustRender(coachingFile, "interview-campaign", map[string]string{"Channel": channel}),
			prompts.MustRender(coachingFile, "interview-ga4", map[string]string{"Analytics": analytics}),
			prompts.MustRender(coachingFile, "interview-cpa", map[string]string{"Channels": channels}),
		},
		Experiments: []string{
			prompts.MustGet(coachingFile, "interview-ab-tests"),
			prompts.MustGet(coachingFile, "interview-test-selection"),
		},
		Analytics: []string{
			prompts.MustRender(coachingFile, "interview-funnel", map[string]string{"Tools": tools}),
			prompts.MustGet(coachingFile, "interview-dashboards"),
		},
		Culture: []string{
			prompts.MustGet(coachingFile, "interview-pushback"),
			prompts.MustGet(coachingFile, "interview-partnering"),
		},
	}
}

// Outreach drafts a short DM, a referral ask and a concise email for the JD.
func Outreach(jd string, prioritized []string) []types.Message {
	company := GuessCompany(jd)
	role := GuessRole(jd)
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}

	return []types.Message{
		{
			Title: prompts.MustGet(outreachFile, "dm-title"),
			Body: prompts.MustRender(outreachFile, "dm", map[string]string{
				"Role":  pick(role, "this role"),
				"Focus": strings.Join(head(prioritized, 2), " & "),
			}),
		},
		{
			Title: prompts.MustGet(outreachFile, "referral-title"),
			Body: prompts.MustRender(outreachFile, "referral", map[string]string{
				"Company": pick(company, "your company"),
				"Role":    pick(role, "a role"),
				"Focus":   strings.Join(head(prioritized, 3), ", "),
			}),
		},
		{
			Title: prompts.MustGet(outreachFile, "email-title"),
			Body: prompts.MustRender(outreachFile, "email", map[string]string{
				"Company": pick(company, "team"),
				"Role":    pick(role, "Marketing role"),
				"Focus":   strings.Join(head(prioritized, 2), " & "),
			}),
		},
	}
}
