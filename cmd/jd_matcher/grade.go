package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/observability"
	"github.com/jonathan/jd-matcher/internal/parsing"
	"github.com/jonathan/jd-matcher/internal/pipeline"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Grade resume bullets against a job description",
	Long:  "Scores each bullet for an action verb, a metric, JD keywords and length, and lists a tip for every missed check.",
	RunE:  runGrade,
}

var (
	gradeBullets string
	gradeJD      string
	gradeJDURL   string
)

func init() {
	gradeCmd.Flags().StringVarP(&gradeBullets, "bullets", "b", "", "File with one bullet per line (required)")
	gradeCmd.Flags().StringVar(&gradeJD, "jd", "", "Job description file")
	gradeCmd.Flags().StringVar(&gradeJDURL, "jd-url", "", "Job posting URL to fetch instead of --jd")

	if err := gradeCmd.MarkFlagRequired("bullets"); err != nil {
		panic(fmt.Sprintf("failed to mark bullets flag as required: %v", err))
	}
	gradeCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")

	rootCmd.AddCommand(gradeCmd)
}

func runGrade(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	bullets, err := readBullets(gradeBullets)
	if err != nil {
		return err
	}
	var jdTop []string
	if gradeJD != "" || gradeJDURL != "" {
		jd, err := a.readJD(cmd.Context(), gradeJD, gradeJDURL)
		if err != nil {
			return err
		}
		jdTop = parsing.TopKeywords(jd, pipeline.JDTopKeywords)
	}

	grader, err := a.grader()
	if err != nil {
		return err
	}
	grades := grader.GradeAll(bullets, jdTop)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), grades)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintGrades(grades)
	return nil
}
