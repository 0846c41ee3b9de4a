package contract

import (
	"fmt"
	"maps"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/marketscope/schema"
)

// Default values for configuration.
const (
	DefaultFetchTimeout   = 10 * time.Second
	DefaultEvidenceLimit  = 25
	MaxEvidenceLimit      = 500
	MaxWorkers            = 64
	DefaultNewsMaxResults = 15
	DefaultRateLimitRPM   = 120
	DefaultWorldBankURL   = "https://api.worldbank.org/v2"
	DefaultBraveURL       = "https://api.search.brave.com/res/v1/web/search"
	DefaultTavilyURL      = "https://api.tavily.com/search"
	DefaultServeAddr      = ":8080"
)

// DefaultWorkers is the default number of concurrent fetch workers.
var DefaultWorkers = min(runtime.GOMAXPROCS(0)*2, 16)

// WeightsRawInput holds custom dimension weights from the YAML config file.
// Pointer fields distinguish "not set" from an explicit zero.
type WeightsRawInput struct {
	MarketDemand       *float64 `mapstructure:"market_demand"`
	TradeEase          *float64 `mapstructure:"trade_ease"`
	PoliticalRisk      *float64 `mapstructure:"political_risk"`
	FinancialViability *float64 `mapstructure:"financial_viability"`
	StrategicFit       *float64 `mapstructure:"strategic_fit"`
}

// Config holds the runtime configuration for an analysis.
// This struct is the "final, validated" config.
type Config struct {
	Subject schema.Subject

	Workers       int
	FetchTimeout  time.Duration
	Output        schema.OutputMode
	OutputFile    string
	Detail        bool
	EvidenceLimit int
	Width         int // Terminal width override (0 = auto-detect)

	LogLevel string
	LogFile  string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunBackend   schema.DatabaseBackend
	RunDBConnect string // Please use env var as this is plaintext

	NewsProvider   schema.NewsProvider
	NewsMaxResults int
	NewsEnrich     bool
	BraveURL       string
	BraveAPIKey    string
	TavilyURL      string
	TavilyAPIKey   string
	SearXNGURL     string

	WorldBankURL string
	RateLimitRPM int

	TenderSourcesFile string

	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	ServeAddr string

	// CustomWeights holds only the weights set in the config file.
	CustomWeights map[schema.Dimension]float64

	// Scoring is the final config, computed from defaults + custom overrides.
	Scoring schema.ScoringConfig

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TargetName string

	// --- Fields from rootCmd.PersistentFlags() ---
	Workers        int    `mapstructure:"workers"`
	FetchTimeout   string `mapstructure:"fetch-timeout"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	LogLevel       string `mapstructure:"log-level"`
	LogFile        string `mapstructure:"log-file"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunBackend     string `mapstructure:"run-backend"`
	RunDBConnect   string `mapstructure:"run-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`

	// --- Collaborator settings ---
	NewsProvider      string `mapstructure:"news-provider"`
	NewsMaxResults    int    `mapstructure:"news-max-results"`
	NewsEnrich        bool   `mapstructure:"news-enrich"`
	BraveURL          string `mapstructure:"brave-url"`
	BraveAPIKey       string `mapstructure:"brave-api-key"`
	TavilyURL         string `mapstructure:"tavily-url"`
	TavilyAPIKey      string `mapstructure:"tavily-api-key"`
	SearXNGURL        string `mapstructure:"searxng-url"`
	WorldBankURL      string `mapstructure:"worldbank-url"`
	RateLimitRPM      int    `mapstructure:"rate-limit-rpm"`
	TenderSourcesFile string `mapstructure:"tender-sources"`
	LLMBaseURL        string `mapstructure:"llm-base-url"`
	LLMModel          string `mapstructure:"llm-model"`
	LLMAPIKey         string `mapstructure:"llm-api-key"`

	// --- Fields from analyzeCmd.Flags() and queriesCmd.Flags() ---
	TargetType  string `mapstructure:"target-type"`
	Region      string `mapstructure:"region"`
	Products    string `mapstructure:"products"`
	Signals     string `mapstructure:"signals"`
	RiskFocus   string `mapstructure:"risk-focus"`
	HSCodes     string `mapstructure:"hs-codes"`
	TenderFeeds string `mapstructure:"tender-feeds"`
	Languages   string `mapstructure:"languages"`
	Horizon     int    `mapstructure:"horizon"`
	Detail      bool   `mapstructure:"detail"`
	Limit       int    `mapstructure:"limit"`

	// --- Fields from serveCmd.Flags() ---
	ServeAddr string `mapstructure:"addr"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Subject = c.Subject.Clone()
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[schema.Dimension]float64, len(c.CustomWeights))
		maps.Copy(clone.CustomWeights, c.CustomWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCollaborators(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return processSubject(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL, PostgreSQL and Redis backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must be a redis:// or rediss:// URL")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and runtime fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel
	cfg.LogFile = input.LogFile
	cfg.ServeAddr = input.ServeAddr
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 || input.Workers > MaxWorkers {
		return fmt.Errorf("workers must be greater than 0 and cannot exceed %d (received %d)", MaxWorkers, input.Workers)
	}
	cfg.Workers = input.Workers

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		d, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch timeout %q: %w", input.FetchTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("fetch timeout must be positive (received %s)", d)
		}
		cfg.FetchTimeout = d
	}

	cfg.EvidenceLimit = DefaultEvidenceLimit
	if input.Limit != 0 {
		if input.Limit < 0 || input.Limit > MaxEvidenceLimit {
			return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxEvidenceLimit, input.Limit)
		}
		cfg.EvidenceLimit = input.Limit
	}

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return nil
}

// validateBackendConfigs validates cache and run history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, redis, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Run Backend Validation ---
	cfg.RunBackend = schema.DatabaseBackend(strings.ToLower(input.RunBackend))
	if cfg.RunBackend == "" {
		return nil
	}
	if _, ok := schema.ValidRunBackends[cfg.RunBackend]; !ok {
		return fmt.Errorf("invalid run backend '%s'. must be sqlite, mysql, postgresql, none", input.RunBackend)
	}
	cfg.RunDBConnect = input.RunDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return err
	}

	// Validate that cache and run history use different SQLite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		runPath := cfg.RunDBConnect
		if runPath == "" {
			runPath = GetRunDBFilePath()
		}
		if cachePath == runPath {
			return fmt.Errorf("cache and run history must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// processCollaborators validates the settings of the external data collaborators.
func processCollaborators(cfg *Config, input *ConfigRawInput) error {
	cfg.NewsProvider = schema.NewsProvider(strings.ToLower(input.NewsProvider))
	if _, ok := schema.ValidNewsProviders[cfg.NewsProvider]; !ok {
		return fmt.Errorf("invalid news provider '%s'. must be brave, tavily, searxng", input.NewsProvider)
	}
	if cfg.NewsProvider == schema.SearXNGProvider && input.SearXNGURL == "" {
		return fmt.Errorf("searxng-url is required when using the searxng news provider")
	}

	cfg.NewsMaxResults = input.NewsMaxResults
	if cfg.NewsMaxResults <= 0 {
		cfg.NewsMaxResults = DefaultNewsMaxResults
	}
	cfg.NewsEnrich = input.NewsEnrich

	cfg.BraveURL = firstNonEmpty(input.BraveURL, DefaultBraveURL)
	cfg.BraveAPIKey = firstNonEmpty(input.BraveAPIKey, os.Getenv("BRAVE_API_KEY"))
	cfg.TavilyURL = firstNonEmpty(input.TavilyURL, DefaultTavilyURL)
	cfg.TavilyAPIKey = input.TavilyAPIKey
	cfg.SearXNGURL = strings.TrimRight(input.SearXNGURL, "/")
	cfg.WorldBankURL = strings.TrimRight(firstNonEmpty(input.WorldBankURL, DefaultWorldBankURL), "/")

	cfg.RateLimitRPM = input.RateLimitRPM
	if cfg.RateLimitRPM <= 0 {
		cfg.RateLimitRPM = DefaultRateLimitRPM
	}

	cfg.TenderSourcesFile = input.TenderSourcesFile
	if cfg.TenderSourcesFile != "" {
		if _, err := os.Stat(cfg.TenderSourcesFile); err != nil {
			return fmt.Errorf("tender sources file %q is not readable: %w", cfg.TenderSourcesFile, err)
		}
	}

	cfg.LLMBaseURL = input.LLMBaseURL
	cfg.LLMModel = input.LLMModel
	cfg.LLMAPIKey = input.LLMAPIKey
	if cfg.LLMBaseURL != "" && cfg.LLMModel == "" {
		return fmt.Errorf("llm-model is required when llm-base-url is set")
	}

	return nil
}

// processCustomWeights merges custom weights over the defaults and builds the scoring config.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	cfg.CustomWeights = make(map[schema.Dimension]float64)

	set := func(dim schema.Dimension, value *float64) {
		if value != nil {
			cfg.CustomWeights[dim] = *value
		}
	}
	set(schema.MarketDemand, input.Weights.MarketDemand)
	set(schema.TradeEase, input.Weights.TradeEase)
	set(schema.PoliticalRisk, input.Weights.PoliticalRisk)
	set(schema.FinancialViability, input.Weights.FinancialViability)
	set(schema.StrategicFit, input.Weights.StrategicFit)

	merged := schema.GetDefaultWeights()
	maps.Copy(merged, cfg.CustomWeights)

	scoring, err := schema.ScoringConfigFromWeights(merged)
	if err != nil {
		return fmt.Errorf("invalid weights in config file: %w", err)
	}
	cfg.Scoring = scoring
	return nil
}

// processSubject builds the subject when a target was given on the command line.
func processSubject(cfg *Config, input *ConfigRawInput) error {
	if input.TargetName == "" {
		return nil
	}

	subject, err := schema.NewSubject(schema.Subject{
		TargetType:        schema.TargetType(input.TargetType),
		TargetName:        input.TargetName,
		Region:            input.Region,
		Products:          schema.SplitList(input.Products),
		SignalsOfInterest: schema.SplitList(input.Signals),
		RiskFocus:         schema.SplitList(input.RiskFocus),
		TimeHorizonMonths: input.Horizon,
		Languages:         schema.SplitList(input.Languages),
		HSCodes:           schema.SplitList(input.HSCodes),
		TenderFeeds:       schema.SplitList(input.TenderFeeds),
	})
	if err != nil {
		return err
	}
	cfg.Subject = subject
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
