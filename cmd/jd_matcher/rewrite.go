package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/rewriting"
	"github.com/jonathan/jd-matcher/internal/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite bullets with the prioritized keywords",
	Long: "Rewrites bullets to lead with an action verb, carry a metric placeholder and work in prioritized keywords. " +
		"With --jd only the weakest bullets are rewritten and keywords come from the JD.",
	RunE: runRewrite,
}

var (
	rewriteBullets  string
	rewriteKeywords string
	rewriteJD       string
	rewriteSeed     int64
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteBullets, "bullets", "b", "", "File with one bullet per line (required)")
	rewriteCmd.Flags().StringVarP(&rewriteKeywords, "keywords", "k", "", "Comma-separated prioritized keywords")
	rewriteCmd.Flags().StringVar(&rewriteJD, "jd", "", "Job description file; rewrites only the weakest bullets")
	rewriteCmd.Flags().Int64Var(&rewriteSeed, "seed", 0, "Seed for reproducible verb choice (0 picks randomly)")

	if err := rewriteCmd.MarkFlagRequired("bullets"); err != nil {
		panic(fmt.Sprintf("failed to mark bullets flag as required: %v", err))
	}

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	bullets, err := readBullets(rewriteBullets)
	if err != nil {
		return err
	}
	req := types.RewriteRequest{Bullets: bullets, Prioritized: splitCSV(rewriteKeywords)}
	if rewriteSeed != 0 {
		req.Seed = &rewriteSeed
	}
	if err := req.Validate(); err != nil {
		return err
	}

	rw := rewriting.NewRewriter(nil, a.cfg.Rewriter.MaxWords)
	if req.Seed != nil {
		rw = rewriting.NewSeededRewriter(uint64(*req.Seed), a.cfg.Rewriter.MaxWords)
	}

	var pairs []types.RewritePair
	if rewriteJD != "" {
		pairs, err = rewriteLow(a, rw, req)
		if err != nil {
			return err
		}
	} else {
		for _, b := range req.Bullets {
			pairs = append(pairs, types.RewritePair{Old: b, New: rw.Rewrite(b, req.Prioritized)})
		}
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), pairs)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintRewrites(pairs)
	return nil
}

// rewriteLow grades the bullets against the JD and rewrites the weak ones.
// Explicit keywords win over the ones prioritized from the JD.
func rewriteLow(a *app, rw *rewriting.Rewriter, req types.RewriteRequest) ([]types.RewritePair, error) {
	jd, err := readDocument(rewriteJD)
	if err != nil {
		return nil, err
	}
	grader, err := a.grader()
	if err != nil {
		return nil, err
	}
	analyzer, err := a.analyzer()
	if err != nil {
		return nil, err
	}

	prioritized := req.Prioritized
	if len(prioritized) == 0 {
		resume := strings.Join(req.Bullets, "\n")
		prioritized = analyzer.KeywordAnalysis(jd, resume, pipeline.Options{}).Prioritized
	}
	grades := grader.GradeAll(req.Bullets, parsing.TopKeywords(jd, pipeline.JDTopKeywords))
	return rw.RewriteLow(grades, prioritized), nil
}
