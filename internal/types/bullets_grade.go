//nolint:revive // types is a standard Go package name pattern
package types

// BulletGrade is the heuristic grade of one resume bullet
type BulletGrade struct {
	Bullet string   `json:"bullet"`
	Score  int      `json:"score"`
	Tips   []string `json:"tips"`
}

// RewritePair holds a weak bullet and its suggested replacement
type RewritePair struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// LintLevel is the severity of an ATS lint finding
type LintLevel string

// Lint severities.
const (
	LintError LintLevel = "error"
	LintWarn  LintLevel = "warn"
	LintInfo  LintLevel = "info"
)

// LintItem is a single ATS formatting finding
type LintItem struct {
	Level   LintLevel `json:"level"`
	Message string    `json:"message"`
	Hint    string    `json:"hint,omitempty"`
}
