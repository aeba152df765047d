package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/rewriting"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a summary, cover letters, LinkedIn copy and coaching notes",
	Long:  "Generates every derived text from the JD's prioritized keywords. Drafting needs no embedding model.",
	RunE:  runDraft,
}

var (
	draftJD         string
	draftJDURL      string
	draftResume     string
	draftTarget     int
	draftTone       string
	draftSTARAction string
	draftSTARResult string
)

func init() {
	draftCmd.Flags().StringVar(&draftJD, "jd", "", "Job description file")
	draftCmd.Flags().StringVar(&draftJDURL, "jd-url", "", "Job posting URL to fetch instead of --jd")
	draftCmd.Flags().StringVarP(&draftResume, "resume", "r", "", "Resume file")
	draftCmd.Flags().IntVar(&draftTarget, "target", 0, "Target score (defaults to planner.target_score)")
	draftCmd.Flags().StringVar(&draftTone, "tone", "", "Cover letter tone: neutral, company, metrics or scrappy (default all)")
	draftCmd.Flags().StringVar(&draftSTARAction, "star-action", "", "Action for a STAR bullet")
	draftCmd.Flags().StringVar(&draftSTARResult, "star-result", "", "Result for a STAR bullet")
	draftCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	jd, err := a.readJD(cmd.Context(), draftJD, draftJDURL)
	if err != nil {
		return err
	}
	var resume string
	if draftResume != "" {
		if resume, err = readDocument(draftResume); err != nil {
			return err
		}
	}
	tone := drafting.Tone(draftTone)
	if tone != "" && !slices.Contains(drafting.Tones, tone) {
		return fmt.Errorf("unknown tone %q: use neutral, company, metrics or scrappy", draftTone)
	}

	analyzer, err := a.analyzer()
	if err != nil {
		return err
	}
	an := analyzer.KeywordAnalysis(jd, resume, pipeline.Options{SuggestionLimit: pipeline.UnlockedSuggestionLimit})
	drafts := analyzer.Drafts(jd, an, rewriting.NewRewriter(nil, a.cfg.Rewriter.MaxWords), pipeline.DraftOptions{
		Target:     a.target(draftTarget),
		Tone:       tone,
		STARAction: draftSTARAction,
		STARResult: draftSTARResult,
		Coaching:   true,
	})

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), drafts)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintDrafts(&drafts)
	return nil
}
