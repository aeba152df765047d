package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/pipeline"
	"github.com/jonathan/jd-matcher/internal/report"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Encode or decode shareable scorecards",
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Analyze a match and print its share payload and link",
	RunE:  runShareEncode,
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <payload>",
	Short: "Decode a share payload back into its scorecard",
	Args:  cobra.ExactArgs(1),
	RunE:  runShareDecode,
}

var (
	shareJD     string
	shareJDURL  string
	shareResume string
	shareTarget int
	shareBase   string
)

func init() {
	shareEncodeCmd.Flags().StringVar(&shareJD, "jd", "", "Job description file")
	shareEncodeCmd.Flags().StringVar(&shareJDURL, "jd-url", "", "Job posting URL to fetch instead of --jd")
	shareEncodeCmd.Flags().StringVarP(&shareResume, "resume", "r", "", "Resume file (required)")
	shareEncodeCmd.Flags().IntVar(&shareTarget, "target", 0, "Target score (defaults to planner.target_score)")
	shareEncodeCmd.Flags().StringVar(&shareBase, "base-url", "http://localhost:8080", "Base URL of the share link")

	if err := shareEncodeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	shareEncodeCmd.MarkFlagsMutuallyExclusive("jd", "jd-url")

	shareCmd.AddCommand(shareEncodeCmd, shareDecodeCmd)
	rootCmd.AddCommand(shareCmd)
}

func runShareEncode(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	jd, err := a.readJD(ctx, shareJD, shareJDURL)
	if err != nil {
		return err
	}
	resume, err := readDocument(shareResume)
	if err != nil {
		return err
	}
	analyzer, err := a.analyzer()
	if err != nil {
		return err
	}

	session := pipeline.NewSession(analyzer, nil, nil, a.target(shareTarget))
	if _, err := session.Analyze(ctx, jd, resume, pipeline.Options{}); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	payload, err := report.EncodeScorecard(report.NewScorecard(report.FromState(session.State()), jd))
	if err != nil {
		return err
	}
	link := report.ShareURL(shareBase, payload)

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{"payload": payload, "url": link})
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}

func runShareDecode(cmd *cobra.Command, args []string) error {
	card, err := report.DecodeScorecard(args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), card)
}
