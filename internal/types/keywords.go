// Package types provides type definitions for structured data used throughout the jd-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Bucket is a coarse keyword category used for summaries and coverage bars.
type Bucket string

// Bucket values. Other is assigned to anything no rule matches.
const (
	BucketChannels  Bucket = "Channels"
	BucketSkills    Bucket = "Skills"
	BucketAnalytics Bucket = "Analytics"
	BucketTools     Bucket = "Tools"
	BucketOther     Bucket = "Other"
)

// NamedBuckets lists the buckets that take part in coverage stats, in display order.
var NamedBuckets = []Bucket{BucketChannels, BucketSkills, BucketAnalytics, BucketTools}

// Valid reports whether b is one of the known buckets.
func (b Bucket) Valid() bool {
	switch b {
	case BucketChannels, BucketSkills, BucketAnalytics, BucketTools, BucketOther:
		return true
	}
	return false
}

// KeywordCount is a single entry of a keyword frequency list
type KeywordCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// BucketStat reports how many of a bucket's JD keywords the resume already covers
type BucketStat struct {
	Name    Bucket `json:"name"`
	Covered int    `json:"covered"`
	Total   int    `json:"total"`
}

// Percent returns covered/total as a whole percentage, 0 when the bucket is empty.
func (s BucketStat) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Covered * 100 / s.Total
}

// Plan is the gap-closing plan produced for a current and target score
type Plan struct {
	Current     int      `json:"current"`
	Target      int      `json:"target"`
	Prioritized []string `json:"prioritized"`
	Gap         int      `json:"gap"`
	Needed      int      `json:"needed"`
	MustAdd     []string `json:"must_add"`
	AlsoAdd     []string `json:"also_add"`
	Actions     []string `json:"actions"`
}
