package cmd

import (
	"strings"

	"github.com/huangsam/marketscope/core"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/spf13/cobra"
)

// hscodesCmd suggests HS codes for a product description.
var hscodesCmd = &cobra.Command{
	Use:   "hscodes <text...>",
	Short: "Suggest HS codes for a product description",
	Long: `Match a product description against the built-in HS category table.

Examples:
  marketscope hscodes used tyres
  marketscope hscodes "frozen shrimp" --output json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteHSCodes(rootCtx, cfg, cacheManager, strings.Join(args, " ")); err != nil {
			contract.LogFatal("Cannot suggest HS codes", err)
		}
	},
}
