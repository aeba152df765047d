//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Analysis is the full result of matching one resume against one job description
type Analysis struct {
	ID               uuid.UUID    `json:"id"`
	CreatedAt        time.Time    `json:"created_at"`
	Score            int          `json:"score"`
	JDTop            []string     `json:"jd_top"`
	ResumeTop        []string     `json:"resume_top"`
	Missing          []string     `json:"missing"`
	Prioritized      []string     `json:"prioritized"`
	BucketStats      []BucketStat `json:"bucket_stats"`
	SuggestedBullets []string     `json:"suggested_bullets"`
	ExtractedBullets []string     `json:"extracted_bullets"`
	Summary          string       `json:"summary"`
}

// LinkedInPack bundles the LinkedIn profile texts
type LinkedInPack struct {
	Headlines []string `json:"headlines"`
	About     string   `json:"about"`
	Featured  []string `json:"featured"`
}

// Drafts bundles every derived text generated from an analysis
type Drafts struct {
	Summary        string            `json:"summary"`
	ConciseSummary string            `json:"concise_summary"`
	Company        string            `json:"company,omitempty"`
	Role           string            `json:"role,omitempty"`
	CoverLetter    string            `json:"cover_letter"`
	CoverVariants  map[string]string `json:"cover_variants,omitempty"`
	LinkedIn       LinkedInPack      `json:"linkedin"`
	STARBullet     string            `json:"star_bullet,omitempty"`
	LearnRoadmap   []LearnItem       `json:"learn_roadmap,omitempty"`
	Interview      *InterviewPack    `json:"interview,omitempty"`
	Outreach       []Message         `json:"outreach,omitempty"`
}

// LearnItem is one entry of the what-to-learn-next roadmap
type LearnItem struct {
	Keyword string `json:"keyword"`
	Bucket  Bucket `json:"bucket"`
	Todo    string `json:"todo"`
}

// InterviewPack groups likely interview questions by theme
type InterviewPack struct {
	Technical   []string `json:"technical"`
	Experiments []string `json:"experiments"`
	Analytics   []string `json:"analytics"`
	Culture     []string `json:"culture"`
}

// Message is a titled outreach template such as a referral ask
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Scorecard is the snapshot embedded in a share link
type Scorecard struct {
	Score       int          `json:"score"`
	Target      int          `json:"target"`
	Buckets     []BucketStat `json:"buckets"`
	Prioritized []string     `json:"prioritized"`
	JD          string       `json:"jd"`
}

// AdVariant is one generated ad copy set
type AdVariant struct {
	Headline    string `json:"headline"`
	Primary     string `json:"primary"`
	Description string `json:"description"`
}
