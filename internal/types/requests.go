//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Apply targets for selected keywords
const (
	ApplySummary = "summary"
	ApplyBullets = "bullets"
)

// Edits are user changes replayed on top of a fresh analysis. Select lists
// missing keywords to pick; Apply moves them into the summary or into new
// bullets, limited to Bucket when set.
type Edits struct {
	Summary string   `json:"summary,omitempty"`
	Bullets []string `json:"bullets,omitempty" validate:"dive,required"`
	Select  []string `json:"select,omitempty" validate:"dive,required"`
	Apply   string   `json:"apply,omitempty" validate:"omitempty,oneof=summary bullets"`
	Bucket  Bucket   `json:"bucket,omitempty"`
}

// Empty reports whether e changes nothing.
func (e Edits) Empty() bool {
	return e.Summary == "" && len(e.Bullets) == 0 && len(e.Select) == 0 && e.Apply == ""
}

// AnalyzeRequest is the input for a full match analysis.
type AnalyzeRequest struct {
	JD     string `json:"jd" validate:"required,min=1"`
	Resume string `json:"resume" validate:"required,min=1"`
	Target int    `json:"target,omitempty" validate:"omitempty,min=0,max=100"`
	Edits  Edits  `json:"edits"`
}

// PlanRequest asks for a gap-closing plan.
type PlanRequest struct {
	Current int      `json:"current" validate:"min=0,max=100"`
	Target  int      `json:"target" validate:"min=0,max=100"`
	Missing []string `json:"missing" validate:"dive,required"`
}

// GradeRequest grades bullets against JD keywords. When Bullets is empty they are
// extracted from Resume.
type GradeRequest struct {
	Bullets []string `json:"bullets,omitempty" validate:"required_without=Resume,dive,required"`
	Resume  string   `json:"resume,omitempty" validate:"required_without=Bullets"`
	JD      string   `json:"jd" validate:"required"`
}

// RewriteRequest rewrites bullets using prioritized keywords.
type RewriteRequest struct {
	Bullets     []string `json:"bullets" validate:"required,min=1,dive,required"`
	Prioritized []string `json:"prioritized"`
	Seed        *int64   `json:"seed,omitempty"`
}

// DraftRequest asks for the derived texts of an analysis.
type DraftRequest struct {
	JD         string `json:"jd" validate:"required"`
	Resume     string `json:"resume" validate:"required"`
	Target     int    `json:"target,omitempty" validate:"omitempty,min=0,max=100"`
	Tone       string `json:"tone,omitempty" validate:"omitempty,oneof=neutral company metrics scrappy"`
	STARAction string `json:"star_action,omitempty"`
	STARResult string `json:"star_result,omitempty"`
}

// LintRequest asks for an ATS lint of the resume.
type LintRequest struct {
	Resume string `json:"resume" validate:"required"`
}

// ShareRequest asks for an encoded scorecard.
type ShareRequest struct {
	Scorecard Scorecard `json:"scorecard"`
}

// ReportRequest asks for an exported report.
type ReportRequest struct {
	JD     string `json:"jd" validate:"required"`
	Resume string `json:"resume" validate:"required"`
	Target int    `json:"target,omitempty" validate:"omitempty,min=0,max=100"`
	Format string `json:"format,omitempty" validate:"omitempty,oneof=txt markdown"`
	Edits  Edits  `json:"edits"`
}

// VerifyPaymentRequest carries a payment provider's checkout callback fields.
type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required,hexadecimal"`
}

// AdCopyRequest asks for ad copy variants.
type AdCopyRequest struct {
	Product  string `json:"product" validate:"required"`
	Audience string `json:"audience" validate:"required"`
	Benefit  string `json:"benefit" validate:"required"`
	Keywords string `json:"keywords,omitempty"`
	Proof    string `json:"proof,omitempty"`
	Tone     string `json:"tone,omitempty" validate:"omitempty,oneof=Neutral Professional Friendly Bold Playful Urgent"`
	Platform string `json:"platform" validate:"required,oneof=Google Facebook LinkedIn X/Twitter"`
}

// Validate validates the Edits using the validator.
func (e *Edits) Validate() error { return validate.Struct(e) }

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error { return validate.Struct(r) }

// Validate validates the PlanRequest using the validator.
func (r *PlanRequest) Validate() error { return validate.Struct(r) }

// Validate validates the GradeRequest using the validator.
func (r *GradeRequest) Validate() error { return validate.Struct(r) }

// Validate validates the RewriteRequest using the validator.
func (r *RewriteRequest) Validate() error { return validate.Struct(r) }

// Validate validates the DraftRequest using the validator.
func (r *DraftRequest) Validate() error { return validate.Struct(r) }

// Validate validates the LintRequest using the validator.
func (r *LintRequest) Validate() error { return validate.Struct(r) }

// Validate validates the ReportRequest using the validator.
func (r *ReportRequest) Validate() error { return validate.Struct(r) }

// Validate validates the VerifyPaymentRequest using the validator.
func (r *VerifyPaymentRequest) Validate() error { return validate.Struct(r) }

// Validate validates the AdCopyRequest using the validator.
func (r *AdCopyRequest) Validate() error { return validate.Struct(r) }
