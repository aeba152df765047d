package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan the keywords that close the gap to a target score",
	Long:  "Estimates how many missing keywords are needed to move from the current score to the target and prioritizes them by bucket.",
	RunE:  runPlan,
}

var (
	planCurrent int
	planTarget  int
	planMissing string
)

func init() {
	planCmd.Flags().IntVar(&planCurrent, "current", 0, "Current match score (required)")
	planCmd.Flags().IntVar(&planTarget, "target", 0, "Target score (defaults to planner.target_score)")
	planCmd.Flags().StringVar(&planMissing, "missing", "", "Comma-separated missing keywords (required)")

	if err := planCmd.MarkFlagRequired("current"); err != nil {
		panic(fmt.Sprintf("failed to mark current flag as required: %v", err))
	}
	if err := planCmd.MarkFlagRequired("missing"); err != nil {
		panic(fmt.Sprintf("failed to mark missing flag as required: %v", err))
	}

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := types.PlanRequest{Current: planCurrent, Target: a.target(planTarget), Missing: splitCSV(planMissing)}
	if err := req.Validate(); err != nil {
		return err
	}
	analyzer, err := a.analyzer()
	if err != nil {
		return err
	}
	plan := analyzer.Planner().PlanToTarget(req.Current, req.Target, req.Missing)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), plan)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintPlan(plan)
	return nil
}
