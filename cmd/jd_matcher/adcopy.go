package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-matcher/internal/drafting"
	"github.com/jonathan/jd-matcher/internal/types"
)

var adcopyCmd = &cobra.Command{
	Use:   "adcopy",
	Short: "Generate ad copy variants for a product",
	RunE:  runAdCopy,
}

var adcopyReq types.AdCopyRequest

func init() {
	f := adcopyCmd.Flags()
	f.StringVar(&adcopyReq.Product, "product", "", "Product name (required)")
	f.StringVar(&adcopyReq.Audience, "audience", "", "Target audience (required)")
	f.StringVar(&adcopyReq.Benefit, "benefit", "", "Main benefit (required)")
	f.StringVar(&adcopyReq.Keywords, "keywords", "", "Comma-separated keywords")
	f.StringVar(&adcopyReq.Proof, "proof", "", "Social proof line")
	f.StringVar(&adcopyReq.Tone, "tone", "Neutral", "Neutral, Professional, Friendly, Bold, Playful or Urgent")
	f.StringVar(&adcopyReq.Platform, "platform", "Google", "Ad platform: "+strings.Join(drafting.Platforms, ", "))

	for _, name := range []string{"product", "audience", "benefit"} {
		if err := adcopyCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
	rootCmd.AddCommand(adcopyCmd)
}

func runAdCopy(cmd *cobra.Command, _ []string) error {
	if err := adcopyReq.Validate(); err != nil {
		return err
	}
	variants := drafting.AdVariants(drafting.AdInput{
		Product:  adcopyReq.Product,
		Audience: adcopyReq.Audience,
		Benefit:  adcopyReq.Benefit,
		Keywords: adcopyReq.Keywords,
		Proof:    adcopyReq.Proof,
		Tone:     adcopyReq.Tone,
		Platform: adcopyReq.Platform,
	})

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, variants)
	}
	limits := drafting.PlatformLimits(adcopyReq.Platform)
	for i, v := range variants {
		_, _ = fmt.Fprintf(out, "Variant %d\n", i+1)
		_, _ = fmt.Fprintf(out, "  Headline (%d/%d): %s\n", len([]rune(v.Headline)), limits.Headline, v.Headline)
		_, _ = fmt.Fprintf(out, "  Primary (%d/%d): %s\n", len([]rune(v.Primary)), limits.Primary, v.Primary)
		_, _ = fmt.Fprintf(out, "  Description (%d/%d): %s\n\n", len([]rune(v.Description)), limits.Description, v.Description)
	}
	return nil
}
