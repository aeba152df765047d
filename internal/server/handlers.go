package server

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/entitlement"
	"github.com/jonathan/jd-matcher/internal/fetch"
	"github.com/jonathan/jd-matcher/internal/ingestion"
	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/report"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/types"
	"github.com/jonathan/jd-matcher/internal/validation"
)

// AnalyzeResponse is the body of POST /api/analyze
type AnalyzeResponse struct {
	types.Analysis
	Target    int                       `json:"target"`
	Plan      types.Plan                `json:"plan"`
	Checklist map[types.Bucket][]string `json:"checklist"`
	Selected  []string                  `json:"selected,omitempty"`
	Applied   []string                  `json:"applied,omitempty"`
	Predicted *int                      `json:"predicted,omitempty"`
	Unlocked  bool                      `json:"unlocked"`
}

// GradeResponse is the body of POST /api/grade
type GradeResponse struct {
	Grades   []types.BulletGrade `json:"grades"`
	Unlocked bool                `json:"unlocked"`
}

// RewriteResponse is the body of POST /api/rewrite
type RewriteResponse struct {
	Rewrites []types.RewritePair `json:"rewrites"`
	Unlocked bool                `json:"unlocked"`
}

// DraftResponse is the body of POST /api/draft
type DraftResponse struct {
	types.Drafts
	Prioritized []string `json:"prioritized"`
	Unlocked    bool     `json:"unlocked"`
}

// ExtractResponse is the body of POST /api/extract
type ExtractResponse struct {
	Text     string              `json:"text"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

// ShareResponse is the body of POST /api/share
type ShareResponse struct {
	Payload string `json:"payload"`
	URL     string `json:"url"`
}

// handleIndex describes the API to human visitors; crawlers get the bot shell.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"name": "jd-matcher",
		"endpoints": []string{
			"POST /api/analyze", "POST /api/plan", "POST /api/grade", "POST /api/rewrite",
			"POST /api/draft", "POST /api/lint", "POST /api/extract", "POST /api/report",
			"POST /api/share", "GET /api/share/{payload}", "POST /api/unlock/verify", "POST /api/adcopy",
		},
	})
}

// handleHealth returns server health status. A lazily loaded model reports
// whether it is ready yet.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]string{"status": "ok"}
	if m, ok := s.embedder.(interface{ Loaded() bool }); ok {
		resp["model"] = "not_loaded"
		if m.Loaded() {
			resp["model"] = "ready"
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) suggestionLimit(unlocked bool) int {
	if unlocked {
		return pipeline.UnlockedSuggestionLimit
	}
	return pipeline.LockedSuggestionLimit
}

func (s *Server) target(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.cfg.Planner.TargetScore
}

func (s *Server) rewriter(seed *int64) *rewriting.Rewriter {
	if seed != nil {
		return rewriting.NewSeededRewriter(uint64(*seed), s.cfg.Rewriter.MaxWords)
	}
	return rewriting.NewRewriter(nil, s.cfg.Rewriter.MaxWords)
}

// handleAnalyze scores a resume against a JD and plans the gap to the target.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	unlocked := entitlement.Unlocked(r.Context())
	limit := s.suggestionLimit(unlocked)
	session := pipeline.NewSession(s.analyzer, s.grader, s.rewriter(nil), s.target(req.Target))
	analysis, err := session.Analyze(r.Context(), req.JD, req.Resume, pipeline.Options{SuggestionLimit: limit})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := session.ApplyEdits(r.Context(), req.Edits); err != nil {
		s.handleError(w, r, err)
		return
	}

	st := session.State()
	analysis.Summary = st.Summary
	analysis.BucketStats = st.Coverage
	analysis.SuggestedBullets = st.Bullets
	resp := AnalyzeResponse{
		Analysis:  analysis,
		Target:    st.Target,
		Plan:      st.Plan,
		Checklist: session.Checklist(),
		Selected:  st.Selected,
		Applied:   st.Applied,
		Unlocked:  unlocked,
	}
	if unlocked {
		resp.Predicted = st.Predicted
	} else if len(resp.SuggestedBullets) > limit {
		resp.SuggestedBullets = resp.SuggestedBullets[:limit]
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handlePlan returns the keywords needed to move from current to target.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req types.PlanRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.analyzer.Planner().PlanToTarget(req.Current, req.Target, req.Missing))
}

// handleGrade grades bullets against the JD. Locked responses omit the tips.
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req types.GradeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	bullets := req.Bullets
	if len(bullets) == 0 {
		bullets = rewriting.ExtractBullets(req.Resume)
	}
	grades := s.grader.GradeAll(bullets, parsing.TopKeywords(req.JD, pipeline.JDTopKeywords))

	unlocked := entitlement.Unlocked(r.Context())
	if !unlocked {
		for i := range grades {
			grades[i].Tips = nil
		}
	}
	s.jsonResponse(w, http.StatusOK, GradeResponse{Grades: grades, Unlocked: unlocked})
}

// handleRewrite rewrites bullets with the prioritized keywords. Locked
// responses carry only the first few rewrites.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req types.RewriteRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	unlocked := entitlement.Unlocked(r.Context())
	bullets := req.Bullets
	if !unlocked {
		bullets = bullets[:min(len(bullets), pipeline.LockedSuggestionLimit)]
	}

	rw := s.rewriter(req.Seed)
	pairs := make([]types.RewritePair, 0, len(bullets))
	for _, b := range bullets {
		pairs = append(pairs, types.RewritePair{Old: b, New: rw.Rewrite(b, req.Prioritized)})
	}
	s.jsonResponse(w, http.StatusOK, RewriteResponse{Rewrites: pairs, Unlocked: unlocked})
}

// handleDraft generates the derived texts. It needs no embedding call.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	var req types.DraftRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	unlocked := entitlement.Unlocked(r.Context())
	tone := drafting.Tone(req.Tone)
	if !unlocked && tone == "" {
		tone = drafting.ToneNeutral
	}

	an := s.analyzer.KeywordAnalysis(req.JD, req.Resume, pipeline.Options{SuggestionLimit: s.suggestionLimit(unlocked)})
	drafts := s.analyzer.Drafts(req.JD, an, s.rewriter(nil), pipeline.DraftOptions{
		Target:     s.target(req.Target),
		Tone:       tone,
		STARAction: req.STARAction,
		STARResult: req.STARResult,
		Coaching:   unlocked,
	})
	s.jsonResponse(w, http.StatusOK, DraftResponse{Drafts: drafts, Prioritized: an.Prioritized, Unlocked: unlocked})
}

// handleLint checks the resume for ATS-hostile formatting.
func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	var req types.LintRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"items": validation.LintResume(req.Resume)})
}

// handleExtract returns the text of an uploaded document (multipart field
// "file") or of a job posting (form field "url").
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	if url := strings.TrimSpace(r.FormValue("url")); url != "" {
		logger := observability.FromContext(r.Context())
		text, meta, err := ingestion.FetchJobText(r.Context(), url, fetch.DefaultOptions(), logger)
		if err != nil {
			logger.Info("Job posting fetch failed", zap.String("url", url), zap.Error(err))
			s.errorResponse(w, http.StatusBadGateway, err.Error())
			return
		}
		s.jsonResponse(w, http.StatusOK, ExtractResponse{Text: text, Metadata: meta})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.handleError(w, r, &ErrValidation{Field: "file", Message: "is required"})
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}

	text, err := ingestion.ExtractText(header.Filename, buf.Bytes())
	if err != nil {
		var extractErr *ingestion.ExtractionError
		if errors.As(err, &extractErr) {
			s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.handleError(w, r, err)
		return
	}
	text = ingestion.CleanText(text)
	meta := ingestion.NewMetadata(text)
	meta.Filename = header.Filename
	s.jsonResponse(w, http.StatusOK, ExtractResponse{Text: text, Metadata: meta})
}

// handleReport exports the full report as plain text or Markdown.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req types.ReportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}

	unlocked := entitlement.Unlocked(r.Context())
	session := pipeline.NewSession(s.analyzer, s.grader, s.rewriter(nil), s.target(req.Target))
	in, err := report.Compose(r.Context(), session, req.JD, req.Resume,
		pipeline.Options{SuggestionLimit: s.suggestionLimit(unlocked)}, req.Edits, unlocked)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	filename := "jd-matcher-report.txt"
	contentType := "text/plain; charset=utf-8"
	if req.Format == "markdown" {
		filename = "jd-matcher-report.md"
		contentType = "text/markdown; charset=utf-8"
		err = report.WriteMarkdown(&buf, report.BuildSections(in, unlocked), in.GeneratedAt)
	} else {
		err = report.WriteTXT(&buf, report.BuildLines(in, unlocked))
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// handleShare encodes a scorecard into a share payload and link.
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req types.ShareRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	payload, err := report.EncodeScorecard(req.Scorecard)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	// Round-trip through the decoder so only schema-valid cards are shared.
	if _, err := report.DecodeScorecard(payload); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ShareResponse{Payload: payload, URL: report.ShareURL(baseURL(r), payload)})
}

// handleGetShare decodes a share payload back into its scorecard.
func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	card, err := report.DecodeScorecard(chi.URLParam(r, "payload"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, card)
}

// handleVerifyUnlock checks a payment callback signature and sets the unlock cookie.
func (s *Server) handleVerifyUnlock(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyPaymentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}
	if s.tokens == nil {
		s.handleError(w, r, entitlement.ErrNotConfigured)
		return
	}

	if err := entitlement.VerifyPaymentSignature(s.cfg.Unlock.PaymentSecret, req.OrderID, req.PaymentID, req.Signature); err != nil {
		observability.FromContext(r.Context()).Info("Payment signature rejected", zap.String("order_id", req.OrderID))
		s.handleError(w, r, err)
		return
	}

	token, err := s.tokens.Issue(req.OrderID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	ttl := s.tokens.TTL()
	http.SetCookie(w, entitlement.Cookie(token, int(ttl.Seconds()), s.cfg.IsProduction()))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"ok":         true,
		"expires_at": time.Now().Add(ttl).UTC().Format(time.RFC3339),
	})
}

// handleAdCopy returns ad copy variants for a product.
func (s *Server) handleAdCopy(w http.ResponseWriter, r *http.Request) {
	var req types.AdCopyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"variants": drafting.AdVariants(drafting.AdInput{
			Product:  req.Product,
			Audience: req.Audience,
			Benefit:  req.Benefit,
			Keywords: req.Keywords,
			Proof:    req.Proof,
			Tone:     req.Tone,
			Platform: req.Platform,
		}),
		"limits": drafting.PlatformLimits(req.Platform),
	})
}

// baseURL is the scheme and host the request arrived on.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
