package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/validation"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check a resume for ATS-hostile formatting",
	RunE:  runLint,
}

var lintResume string

func init() {
	lintCmd.Flags().StringVarP(&lintResume, "resume", "r", "", "Resume file (required)")
	if err := lintCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, _ []string) error {
	resume, err := readDocument(lintResume)
	if err != nil {
		return err
	}
	items := validation.LintResume(resume)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), items)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintLint(items)
	return nil
}
