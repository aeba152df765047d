package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/fetch"
	"github.com/jonathan/jd-matcher/internal/ingestion"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the cleaned text of a document or job posting",
	Long:  "Extracts text from a .txt, .pdf or .docx file, or fetches a job posting URL, and prints the cleaned text. With --meta the source metadata is printed instead.",
	RunE:  runExtract,
}

var (
	extractFile string
	extractURL  string
	extractMeta bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Document to extract ("+strings.Join(ingestion.SupportedExtensions, ", ")+")")
	extractCmd.Flags().StringVar(&extractURL, "url", "", "Job posting URL to fetch")
	extractCmd.Flags().BoolVar(&extractMeta, "meta", false, "Print source metadata as JSON")
	extractCmd.MarkFlagsOneRequired("file", "url")
	extractCmd.MarkFlagsMutuallyExclusive("file", "url")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	var (
		text string
		meta *ingestion.Metadata
		err  error
	)
	if extractURL != "" {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		text, meta, err = ingestion.FetchJobText(cmd.Context(), extractURL, fetch.DefaultOptions(), a.logger)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
	} else {
		if text, meta, err = ingestion.ReadFile(extractFile); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if extractMeta {
		data, err := meta.ToJSON()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}
	_, _ = fmt.Fprintln(out, text)
	return nil
}
