package rewriting

import (
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/types"
)

const (
	// DefaultMaxWords caps rewritten and composed bullets.
	DefaultMaxWords = 26
	// MetricPlaceholder is appended to rewrites for the user to fill in.
	MetricPlaceholder = "+X% CTR / -Y% CPA / +Z leads"

	lowScoreThreshold = 70
	maxLowRewrites    = 8
	fallbackRewrites  = 4
)

// fallbackVerbs are drawn from when a bullet does not already lead with a verb
var fallbackVerbs = []string{
	"delivered", "led", "optimized", "built", "launched",
	"improved", "increased", "reduced", "implemented", "scaled",
}

var (
	leadingMarkers = regexp.MustCompile(`^[•\-\s]+`)
	leadingLabel   = regexp.MustCompile(`^[A-Za-z]+:\s*`)
	leadingWord    = regexp.MustCompile(`^[A-Za-z]+(\s+)`)
)

// Rewriter produces heuristic rewrites of weak bullets. Verb choice is random
// for variety; inject a seeded source for reproducible output.
type Rewriter struct {
	mu       sync.Mutex
	rng      *rand.Rand
	maxWords int
}

// NewRewriter creates a rewriter. A nil rng is seeded from the clock and
// maxWords <= 0 selects DefaultMaxWords.
func NewRewriter(rng *rand.Rand, maxWords int) *Rewriter {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Rewriter{rng: rng, maxWords: maxWords}
}

// NewSeededRewriter creates a rewriter with a deterministic verb sequence.
func NewSeededRewriter(seed uint64, maxWords int) *Rewriter {
	return NewRewriter(rand.New(rand.NewPCG(seed, seed)), maxWords)
}

// MaxWords returns the configured word cap.
func (r *Rewriter) MaxWords() int {
	return r.maxWords
}

// PickVerb reuses the text's first word when it is already an action verb and
// otherwise draws one from the fallback list. The result is capitalized.
func (r *Rewriter) PickVerb(text string) string {
	fields := strings.Fields(text)
	if len(fields) > 0 {
		if first := strings.ToLower(fields[0]); isActionVerb(first) {
			return parsing.Capitalize(first)
		}
	}

	r.mu.Lock()
	verb := fallbackVerbs[r.rng.IntN(len(fallbackVerbs))]
	r.mu.Unlock()
	return parsing.Capitalize(verb)
}

// Rewrite leads bullet with an action verb, weaves in the top two prioritized
// keywords and appends a metric placeholder, capped at MaxWords.
func (r *Rewriter) Rewrite(bullet string, prioritized []string) string {
	verb := r.PickVerb(bullet)
	insert := parsing.JoinList(prioritized[:min(2, len(prioritized))])

	core := leadingMarkers.ReplaceAllString(bullet, "")
	core = leadingLabel.ReplaceAllString(core, "")
	core = leadingWord.ReplaceAllString(core, "")
	core = strings.TrimSuffix(core, ".")

	var sb strings.Builder
	sb.WriteString(verb)
	sb.WriteString(" ")
	if insert != "" {
		sb.WriteString(insert)
		sb.WriteString(" initiatives — ")
	}
	sb.WriteString(core)
	sb.WriteString("; achieved ")
	sb.WriteString(MetricPlaceholder)
	sb.WriteString(".")

	return parsing.CapWords(sb.String(), r.maxWords)
}

// RewriteLow rewrites the weakest graded bullets: up to eight scoring under 70,
// lowest first. When none are that weak, the first four non-blank graded
// bullets are used.
func (r *Rewriter) RewriteLow(grades []types.BulletGrade, prioritized []string) []types.RewritePair {
	graded := make([]types.BulletGrade, 0, len(grades))
	for _, g := range grades {
		if strings.TrimSpace(g.Bullet) != "" {
			graded = append(graded, g)
		}
	}
	candidates := slices.Clone(graded)
	slices.SortStableFunc(candidates, func(a, b types.BulletGrade) int {
		return a.Score - b.Score
	})

	lows := make([]types.BulletGrade, 0, maxLowRewrites)
	for _, g := range candidates {
		if g.Score < lowScoreThreshold && len(lows) < maxLowRewrites {
			lows = append(lows, g)
		}
	}
	if len(lows) == 0 {
		lows = graded[:min(fallbackRewrites, len(graded))]
	}

	pairs := make([]types.RewritePair, 0, len(lows))
	for _, g := range lows {
		pairs = append(pairs, types.RewritePair{Old: g.Bullet, New: r.Rewrite(g.Bullet, prioritized)})
	}
	return pairs
}

// ComposeSTAR builds a one-line STAR bullet from the top two prioritized
// keywords plus the user's action and result.
func (r *Rewriter) ComposeSTAR(prioritized []string, action, result string) string {
	if strings.TrimSpace(action) == "" {
		action = "drove experiments"
	}
	if strings.TrimSpace(result) == "" {
		result = "+X% CTR / -Y% CPA"
	}
	kws := strings.Join(prioritized[:min(2, len(prioritized))], " & ")
	sentence := r.PickVerb("") + " " + kws + " — " + action + "; achieved " + result + "."
	return parsing.CapWords(sentence, r.maxWords)
}
