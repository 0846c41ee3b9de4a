package cmd

import (
	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/spf13/cobra"
)

// rescoreCmd applies the configured weights to a saved JSON result.
var rescoreCmd = &cobra.Command{
	Use:   "rescore <result.json>",
	Short: "Re-score a saved analysis with the configured weights",
	Long: `Read a JSON result written by 'marketscope analyze --output json' and
score its evidence again with the weights from the config file. No fetch is made.

Examples:
  marketscope analyze Turkey --products tyres --output json --output-file turkey.json
  marketscope rescore turkey.json --config risk-heavy.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteRescore(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot rescore result", err)
		}
	},
}
