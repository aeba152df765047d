package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the full match report as text or Markdown",
	Long:  "Runs the analysis, grades and rewrites the weakest bullets, drafts the summary and cover letter, and writes everything as one report.",
	RunE:  runReport,
}

var (
	reportJD     string
	reportJDURL  string
	reportResume string
	reportTarget int
	reportFormat string
	reportOut    string
	reportEdits  editFlags
)

func init() {
	reportCmd.Flags().StringVar(&reportJD, "jd", "", "Job description file")
	reportCmd.Flags().StringVar(&reportJDURL, "jd-url", "", "Job posting URL to fetch instead of --jd")
	reportCmd.Flags().StringVarP(&reportResume, "resume", "r", "", "Resume file (required)")
	reportCmd.Flags().IntVar(&reportTarget, "target", 0, "Target score (defaults to planner.target_score)")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "txt", "Report format: txt or markdown")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output file (defaults to stdout)")
	reportEdits.register(reportCmd)

	if err := reportCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	reportCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reportFormat != "txt" && reportFormat != "markdown" {
		return fmt.Errorf("format must be txt or markdown, got %q", reportFormat)
	}
	edits, err := reportEdits.edits()
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	jd, err := a.readJD(ctx, reportJD, reportJDURL)
	if err != nil {
		return err
	}
	resume, err := readDocument(reportResume)
	if err != nil {
		return err
	}
	analyzer, err := a.analyzer()
	if err != nil {
		return err
	}
	grader, err := a.grader()
	if err != nil {
		return err
	}

	session := pipeline.NewSession(analyzer, grader, nil, a.target(reportTarget))
	in, err := report.Compose(ctx, session, jd, resume, pipeline.Options{
		SuggestionLimit: pipeline.UnlockedSuggestionLimit,
		OnProgress:      progress(cmd.ErrOrStderr()),
	}, edits, true)
	if err != nil {
		return err
	}

	render := func(w io.Writer) error {
		if reportFormat == "markdown" {
			return report.WriteMarkdown(w, report.BuildSections(in, true), in.GeneratedAt)
		}
		return report.WriteTXT(w, report.BuildLines(in, true))
	}
	if reportOut == "" {
		return render(cmd.OutOrStdout())
	}
	if err := createFile(reportOut, render); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", reportOut)
	return nil
}

// createFile writes path through write. A close error is returned when the
// write itself succeeded.
func createFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(f)
}
