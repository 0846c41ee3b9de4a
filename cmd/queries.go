package cmd

import (
	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/spf13/cobra"
)

// queriesCmd prints the search plan without fetching anything.
var queriesCmd = &cobra.Command{
	Use:   "queries <target>",
	Short: "Show the search queries planned for a target",
	Long: `Print the search queries, tender keywords and suggested HS codes for a
target without calling any external service.

Examples:
  marketscope queries Turkey --products "crumb rubber" --risk-focus sanctions
  marketscope queries Vietnam --target-type sector --products coffee --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: subjectSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteQueries(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot plan queries", err)
		}
	},
}
