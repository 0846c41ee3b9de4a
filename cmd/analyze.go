package cmd

import (
	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd runs the full screening pipeline for one target.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <target>",
	Short: "Screen a target market and score its attractiveness",
	Long: `Run the screening pipeline for one target.

The pipeline plans search queries, then fetches news, World Bank indicators,
macro data and tender notices concurrently. Every result becomes evidence with
a source quality and a relevance classification, and the evidence is scored on
five dimensions with an overall confidence.

A failed fetch never aborts the run. It is reported as a degraded fetch and
lowers the confidence instead.

Examples:
  # Screen Turkey for crumb rubber
  marketscope analyze Turkey --products "crumb rubber,rubber tiles" --hs-codes 4004

  # Focus on regulatory risk and write JSON
  marketscope analyze Peru --products tyres --risk-focus "import ban" --output json

  # Bypass the fetch cache
  marketscope analyze Kenya --products "solar panels" --refresh`,
	Args:    cobra.ExactArgs(1),
	PreRunE: subjectSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := rootCtx
		if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
			ctx = core.WithRefreshCache(ctx)
		}
		if err := core.ExecuteAnalyze(ctx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
