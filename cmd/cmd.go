// Package cmd defines the command-line interface for marketscope.
package cmd

import (
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(queriesCmd)
	rootCmd.AddCommand(rescoreCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(hscodesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Maximum number of concurrent fetches")
	rootCmd.PersistentFlags().String("fetch-timeout", contract.DefaultFetchTimeout.String(), "Deadline for each external fetch (e.g. 10s)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print every evidence item with its classification")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultEvidenceLimit, "Number of evidence items to display")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Optional file that receives a copy of the logs")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Fetch cache backend: sqlite or mysql or postgresql or redis or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Connection string for mysql/postgresql/redis (e.g., redis://localhost:6379/0)")
	rootCmd.PersistentFlags().String("run-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("news-provider", string(schema.BraveProvider), "News search provider: brave or tavily or searxng")
	rootCmd.PersistentFlags().Int("news-max-results", contract.DefaultNewsMaxResults, "Maximum news results kept per analysis")
	rootCmd.PersistentFlags().Bool("news-enrich", false, "Fetch article pages to enrich news summaries")
	rootCmd.PersistentFlags().String("brave-url", "", "Brave Search API endpoint override")
	rootCmd.PersistentFlags().String("brave-api-key", "", "Brave Search API key (defaults to $BRAVE_API_KEY)")
	rootCmd.PersistentFlags().String("tavily-url", "", "Tavily API endpoint override")
	rootCmd.PersistentFlags().String("tavily-api-key", "", "Tavily API key")
	rootCmd.PersistentFlags().String("searxng-url", "", "Base URL of a SearXNG instance")
	rootCmd.PersistentFlags().String("worldbank-url", "", "World Bank API endpoint override")
	rootCmd.PersistentFlags().Int("rate-limit-rpm", contract.DefaultRateLimitRPM, "Outbound request budget per minute")
	rootCmd.PersistentFlags().String("tender-sources", "", "YAML file with extra tender feed locators")
	rootCmd.PersistentFlags().String("llm-base-url", "", "OpenAI-compatible endpoint used for the narrative summary")
	rootCmd.PersistentFlags().String("llm-model", "", "Model name for the narrative summary")
	rootCmd.PersistentFlags().String("llm-api-key", "", "API key for the narrative model")
	rootCmd.PersistentFlags().String("emoji", "yes", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Subject flags are bound by sharedSetup for the command that runs
	addSubjectFlags(analyzeCmd)
	addSubjectFlags(queriesCmd)
	analyzeCmd.Flags().Bool("refresh", false, "Ignore cached fetch results and fetch everything again")

	serveCmd.Flags().String("addr", contract.DefaultServeAddr, "Listen address of the HTTP API")

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}

// addSubjectFlags registers the flags that describe a screening subject.
func addSubjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("target-type", string(schema.CountryTarget), "Target type: country or sector or product or company or supply_chain")
	cmd.Flags().String("region", "", "Optional region that narrows the target")
	cmd.Flags().String("products", "", "Comma-separated product phrases")
	cmd.Flags().String("signals", "", "Comma-separated signals of interest")
	cmd.Flags().String("risk-focus", "", "Comma-separated risk topics")
	cmd.Flags().String("hs-codes", "", "Comma-separated HS codes")
	cmd.Flags().String("tender-feeds", "", "Comma-separated tender feed URLs")
	cmd.Flags().String("languages", "", "Comma-separated language codes (default en)")
	cmd.Flags().Int("horizon", schema.DefaultTimeHorizonMonths, "Time horizon in months")
}
