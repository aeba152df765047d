package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/pipeline"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long:  "Embeds the job description and resume, reports the match score, bucket coverage and missing keywords, and plans the keywords that reach the target score.",
	RunE:  runAnalyze,
}

var (
	analyzeJD     string
	analyzeJDURL  string
	analyzeResume string
	analyzeTarget int
	analyzeLocked bool
	analyzeEdits  editFlags
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeJD, "jd", "", "Job description file (.txt, .pdf, .docx)")
	analyzeCmd.Flags().StringVar(&analyzeJDURL, "jd-url", "", "Job posting URL to fetch instead of --jd")
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Resume file (.txt, .pdf, .docx) (required)")
	analyzeCmd.Flags().IntVar(&analyzeTarget, "target", 0, "Target score (defaults to planner.target_score)")
	analyzeCmd.Flags().BoolVar(&analyzeLocked, "locked", false, "Limit suggestions to the locked preview")
	analyzeEdits.register(analyzeCmd)

	if err := analyzeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	analyzeCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	edits, err := analyzeEdits.edits()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	jd, err := a.readJD(ctx, analyzeJD, analyzeJDURL)
	if err != nil {
		return err
	}
	resume, err := readDocument(analyzeResume)
	if err != nil {
		return err
	}

	analyzer, err := a.analyzer()
	if err != nil {
		return err
	}
	limit := pipeline.UnlockedSuggestionLimit
	if analyzeLocked {
		limit = pipeline.LockedSuggestionLimit
	}

	session := pipeline.NewSession(analyzer, nil, nil, a.target(analyzeTarget))
	analysis, err := session.Analyze(ctx, jd, resume, pipeline.Options{
		SuggestionLimit: limit,
		OnProgress:      progress(cmd.ErrOrStderr()),
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if err := session.ApplyEdits(ctx, edits); err != nil {
		return fmt.Errorf("applying edits failed: %w", err)
	}

	st := session.State()
	analysis.Summary = st.Summary
	analysis.BucketStats = st.Coverage
	analysis.SuggestedBullets = st.Bullets
	checklist := session.Checklist()

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"analysis":  analysis,
			"plan":      st.Plan,
			"checklist": checklist,
			"selected":  st.Selected,
			"applied":   st.Applied,
			"predicted": st.Predicted,
		})
	}
	p := observability.NewPrinter(out)
	p.PrintAnalysis(&analysis)
	p.PrintPlan(st.Plan)
	p.PrintChecklist(checklist)
	p.PrintEdits(st.Applied, st.Selected, st.Predicted)
	return nil
}
