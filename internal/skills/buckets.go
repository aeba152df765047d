// Package skills classifies keywords into coarse buckets and measures how well a
// resume covers each bucket of a job description.
package skills

import (
	"fmt"
	"strings"

	"github.com/jonathan/jd-matcher/internal/types"
)

// Rule maps a substring to a bucket. Rules are evaluated top to bottom and the
// first rule whose substring occurs in the word wins.
type Rule struct {
	Substring string       `json:"substring" yaml:"substring"`
	Bucket    types.Bucket `json:"bucket" yaml:"bucket"`
}

// DefaultRules is the built-in rule list. "googleads" resolves to Channels via
// "google" before "ads" is considered; "leads" is matched by "ads" first.
var DefaultRules = []Rule{
	// channels / platforms
	{"google", types.BucketChannels},
	{"ads", types.BucketChannels},
	{"facebook", types.BucketChannels},
	{"meta", types.BucketChannels},
	{"campaign", types.BucketChannels},
	{"leads", types.BucketChannels},
	// skills / methods
	{"seo", types.BucketSkills},
	{"content", types.BucketSkills},
	{"copy", types.BucketSkills},
	{"email", types.BucketSkills},
	{"landing", types.BucketSkills},
	{"optimization", types.BucketSkills},
	{"testing", types.BucketSkills},
	{"ab", types.BucketSkills},
	{"a/b", types.BucketSkills},
	// analytics / metrics
	{"ga4", types.BucketAnalytics},
	{"analytics", types.BucketAnalytics},
	{"reporting", types.BucketAnalytics},
	// tools / tech
	{"hubspot", types.BucketTools},
	{"crm", types.BucketTools},
	{"excel", types.BucketTools},
	{"python", types.BucketTools},
}

// Classifier assigns buckets using an ordered rule list
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, validating each entry.
// An empty rules slice selects DefaultRules.
func NewClassifier(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	for i, r := range rules {
		if r.Substring == "" {
			return nil, fmt.Errorf("rule %d: substring is empty", i)
		}
		if !r.Bucket.Valid() {
			return nil, fmt.Errorf("rule %d (%q): unknown bucket %q", i, r.Substring, r.Bucket)
		}
	}
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return &Classifier{rules: copied}, nil
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return &Classifier{rules: DefaultRules}
}

// Rules returns a copy of the classifier's rule list.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// BucketOf returns the bucket of the first rule contained in word, or Other.
// Matching is case-sensitive; callers pass lowercase tokens.
func (c *Classifier) BucketOf(word string) types.Bucket {
	for _, r := range c.rules {
		if strings.Contains(word, r.Substring) {
			return r.Bucket
		}
	}
	return types.BucketOther
}

// Filter returns the words that fall into bucket b, in input order.
func (c *Classifier) Filter(words []string, b types.Bucket) []string {
	out := make([]string, 0)
	for _, w := range words {
		if c.BucketOf(w) == b {
			out = append(out, w)
		}
	}
	return out
}

// GroupByBucket groups words by bucket. Every bucket key is present.
func (c *Classifier) GroupByBucket(words []string) map[types.Bucket][]string {
	groups := map[types.Bucket][]string{
		types.BucketChannels:  {},
		types.BucketSkills:    {},
		types.BucketAnalytics: {},
		types.BucketTools:     {},
		types.BucketOther:     {},
	}
	for _, w := range words {
		b := c.BucketOf(w)
		groups[b] = append(groups[b], w)
	}
	return groups
}

// Coverage reports, for each named bucket, how many JD keywords of that bucket
// are present in the resume keyword set.
func (c *Classifier) Coverage(jdTop []string, resume map[string]bool) []types.BucketStat {
	stats := make([]types.BucketStat, 0, len(types.NamedBuckets))
	for _, b := range types.NamedBuckets {
		stat := types.BucketStat{Name: b}
		for _, w := range jdTop {
			if c.BucketOf(w) != b {
				continue
			}
			stat.Total++
			if resume[w] {
				stat.Covered++
			}
		}
		stats = append(stats, stat)
	}
	return stats
}

// KeywordSet builds a lookup set from keyword lists.
func KeywordSet(lists ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, list := range lists {
		for _, w := range list {
			set[strings.ToLower(w)] = true
		}
	}
	return set
}
