// Package rewriting grades resume bullets against a job description and
// rewrites the weak ones.
package rewriting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/types"
)

// actionVerbs are the leading verbs a strong bullet is expected to use
var actionVerbs = map[string]bool{
	"delivered": true, "increased": true, "reduced": true, "built": true,
	"led": true, "launched": true, "optimized": true, "automated": true,
	"migrated": true, "improved": true, "grew": true, "drove": true,
	"achieved": true, "saved": true, "designed": true, "developed": true,
	"implemented": true, "owned": true, "created": true, "deployed": true,
	"scaled": true,
}

var (
	nonLetters    = regexp.MustCompile(`[^a-z]`)
	metricPattern = regexp.MustCompile(`(?i)\b(\d+%?|\+\d+%|-\d+%|[0-9]+x|roi|ctr|cpa|conversion|leads)\b`)
	outcomeWords  = regexp.MustCompile(`(?i)(result|impact|increase|decrease|grew|reduced|optimized|achieved|drove|delivered|improved|saved|roi|ctr|cpa|revenue|leads|conversion)`)
)

// Grading tips, one per failed check.
const (
	TipVerb    = "Start with a strong action verb (e.g., Led, Optimized, Launched)."
	TipMetric  = "Add a number/metric (e.g., +32% CTR, -18% CPA, +1.3x leads)."
	TipKeyword = "Reference at least one JD keyword directly."
	TipLength  = "Aim for ~12–24 words (concise and scannable)."
	TipOutcome = "End with outcome/impact (what changed)."
)

// Rubric holds the weight of each grading check and the accepted length range.
// The default weights sum to 100.
type Rubric struct {
	Verb     int `yaml:"verb" json:"verb"`
	Metric   int `yaml:"metric" json:"metric"`
	Keyword  int `yaml:"keyword" json:"keyword"`
	Length   int `yaml:"length" json:"length"`
	Outcome  int `yaml:"outcome" json:"outcome"`
	MinWords int `yaml:"min_words" json:"min_words"`
	MaxWords int `yaml:"max_words" json:"max_words"`
}

// DefaultRubric returns the 25/25/25/15/10 rubric with a 12–24 word range.
func DefaultRubric() Rubric {
	return Rubric{Verb: 25, Metric: 25, Keyword: 25, Length: 15, Outcome: 10, MinWords: 12, MaxWords: 24}
}

// Validate checks the rubric is usable.
func (r Rubric) Validate() error {
	for name, w := range map[string]int{"verb": r.Verb, "metric": r.Metric, "keyword": r.Keyword, "length": r.Length, "outcome": r.Outcome} {
		if w < 0 {
			return fmt.Errorf("rubric weight %s must be non-negative, got %d", name, w)
		}
	}
	if total := r.Verb + r.Metric + r.Keyword + r.Length + r.Outcome; total > 100 {
		return fmt.Errorf("rubric weights sum to %d, must not exceed 100", total)
	}
	if r.MinWords < 1 || r.MaxWords < r.MinWords {
		return fmt.Errorf("rubric word range [%d,%d] is invalid", r.MinWords, r.MaxWords)
	}
	return nil
}

// Grader scores bullets with a Rubric
type Grader struct {
	rubric Rubric
}

// NewGrader returns a grader for rubric.
func NewGrader(rubric Rubric) (*Grader, error) {
	if err := rubric.Validate(); err != nil {
		return nil, err
	}
	return &Grader{rubric: rubric}, nil
}

// DefaultGrader returns a grader using DefaultRubric.
func DefaultGrader() *Grader {
	return &Grader{rubric: DefaultRubric()}
}

// Grade runs every check on bullet. Each passing check adds its weight and each
// failing check appends a tip; no check depends on another.
func (g *Grader) Grade(bullet string, jdTop []string) types.BulletGrade {
	grade := types.BulletGrade{Bullet: bullet, Tips: []string{}}
	lower := strings.ToLower(bullet)

	if checkActionVerb(lower) {
		grade.Score += g.rubric.Verb
	} else {
		grade.Tips = append(grade.Tips, TipVerb)
	}

	if metricPattern.MatchString(bullet) {
		grade.Score += g.rubric.Metric
	} else {
		grade.Tips = append(grade.Tips, TipMetric)
	}

	if sharesKeyword(lower, jdTop) {
		grade.Score += g.rubric.Keyword
	} else {
		grade.Tips = append(grade.Tips, TipKeyword)
	}

	if wc := parsing.WordCount(bullet); wc >= g.rubric.MinWords && wc <= g.rubric.MaxWords {
		grade.Score += g.rubric.Length
	} else {
		grade.Tips = append(grade.Tips, TipLength)
	}

	if outcomeWords.MatchString(bullet) {
		grade.Score += g.rubric.Outcome
	} else {
		grade.Tips = append(grade.Tips, TipOutcome)
	}

	return grade
}

// GradeAll grades each non-blank bullet in order.
func (g *Grader) GradeAll(bullets []string, jdTop []string) []types.BulletGrade {
	grades := make([]types.BulletGrade, 0, len(bullets))
	for _, b := range bullets {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		grades = append(grades, g.Grade(b, jdTop))
	}
	return grades
}

// checkActionVerb reports whether the first word, stripped of non-letters, is an action verb
func checkActionVerb(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}
	return isActionVerb(nonLetters.ReplaceAllString(words[0], ""))
}

func sharesKeyword(lower string, jdTop []string) bool {
	if len(jdTop) == 0 {
		return false
	}
	tokens := make(map[string]bool)
	for _, tok := range parsing.Tokenize(lower) {
		tokens[tok] = true
	}
	for _, k := range jdTop {
		if tokens[k] {
			return true
		}
	}
	return false
}

// isActionVerb reports whether word (any case) is a recognized action verb.
func isActionVerb(word string) bool {
	return actionVerbs[strings.ToLower(word)]
}
