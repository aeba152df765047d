// Package selection decides which missing keywords to add, and in what order, to
// lift a match score to a target.
package selection

import (
	"fmt"
	"slices"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/skills"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	// DefaultPointsPerKeyword is the heuristic score lift credited to each added
	// keyword. It is a tunable, not a measured model.
	DefaultPointsPerKeyword = 3
	// DefaultAlsoAddCount is how many keywords past the must-add cut are suggested.
	DefaultAlsoAddCount = 6
	// MinKeywordLength drops keywords shorter than this from prioritization.
	MinKeywordLength = 3
)

// Config holds the planner's tunables
type Config struct {
	PointsPerKeyword int `yaml:"points_per_keyword" json:"points_per_keyword"`
	AlsoAddCount     int `yaml:"also_add_count" json:"also_add_count"`
}

// DefaultConfig returns the planner defaults.
func DefaultConfig() Config {
	return Config{
		PointsPerKeyword: DefaultPointsPerKeyword,
		AlsoAddCount:     DefaultAlsoAddCount,
	}
}

// Validate checks the tunables are usable.
func (c Config) Validate() error {
	if c.PointsPerKeyword < 1 {
		return fmt.Errorf("points_per_keyword must be at least 1, got %d", c.PointsPerKeyword)
	}
	if c.AlsoAddCount < 0 {
		return fmt.Errorf("also_add_count must be non-negative, got %d", c.AlsoAddCount)
	}
	return nil
}

// Planner prioritizes missing keywords and builds gap-closing plans
type Planner struct {
	cfg        Config
	classifier *skills.Classifier
}

// NewPlanner creates a planner. A nil classifier uses the default rules.
func NewPlanner(cfg Config, classifier *skills.Classifier) (*Planner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Message: "invalid planner config", Cause: err}
	}
	if classifier == nil {
		classifier = skills.Default()
	}
	return &Planner{cfg: cfg, classifier: classifier}, nil
}

// Prioritize keeps keywords of at least MinKeywordLength characters and orders
// them so that bucketed keywords precede Other, longer keywords first within
// each class. The sort is stable, so re-prioritizing is a no-op.
func (p *Planner) Prioritize(missing []string) []string {
	out := make([]string, 0, len(missing))
	for _, w := range missing {
		if len(w) >= MinKeywordLength {
			out = append(out, w)
		}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		oa, ob := p.otherRank(a), p.otherRank(b)
		if oa != ob {
			return oa - ob
		}
		return len(b) - len(a)
	})
	return out
}

func (p *Planner) otherRank(w string) int {
	if p.classifier.BucketOf(w) == types.BucketOther {
		return 1
	}
	return 0
}

// PlanToTarget computes how many prioritized keywords must be added to move
// from current to target, and the fixed sequence of actions to get there.
func (p *Planner) PlanToTarget(current, target int, missing []string) types.Plan {
	prioritized := p.Prioritize(missing)

	gap := max(0, target-current)
	needed := min(len(prioritized), ceilDiv(gap, p.cfg.PointsPerKeyword))

	mustAdd := prioritized[:needed]
	alsoEnd := min(len(prioritized), needed+p.cfg.AlsoAddCount)
	alsoAdd := prioritized[needed:alsoEnd]

	actions := []string{
		fmt.Sprintf("Add %d high-priority keywords to SUMMARY: %s.", len(mustAdd), parsing.JoinList(mustAdd)),
		fmt.Sprintf("Create %d STAR bullets highlighting 1–2 of: %s with concrete metrics.",
			min(3, max(1, len(mustAdd))), parsing.JoinList(mustAdd)),
	}
	if len(alsoAdd) > 0 {
		actions = append(actions, fmt.Sprintf("Sprinkle also: %s.", parsing.JoinList(alsoAdd)))
	}
	actions = append(actions, "Ensure each added keyword appears naturally (summary + 1 bullet).")

	return types.Plan{
		Current:     current,
		Target:      target,
		Prioritized: prioritized,
		Gap:         gap,
		Needed:      needed,
		MustAdd:     slices.Clone(mustAdd),
		AlsoAdd:     slices.Clone(alsoAdd),
		Actions:     actions,
	}
}

// Classifier exposes the planner's bucket classifier.
func (p *Planner) Classifier() *skills.Classifier {
	return p.classifier
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
