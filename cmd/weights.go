package cmd

import (
	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/spf13/cobra"
)

// weightsCmd shows the effective scoring weights.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Display the effective scoring weights",
	Long: `Print the dimension weights after merging the config file over the defaults.
Weights that differ from the defaults are marked with an asterisk.

Custom weights live under the 'weights' key of .marketscope.yaml:

  weights:
    market_demand: 0.5
    political_risk: 0.3`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeights(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show weights", err)
		}
	},
}
