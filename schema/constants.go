package schema

// Custom string types for type safety.
type (
	// TargetType represents the kind of entity being screened.
	TargetType string

	// Dimension represents a named scoring dimension.
	Dimension string

	// QualityTier represents the trustworthiness tier of an evidence source.
	QualityTier string

	// Severity represents the keyword relevance tier of a classified item.
	Severity string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// NewsProvider represents the web search provider used for news discovery.
	NewsProvider string
)

// All target types supported.
const (
	CountryTarget     TargetType = "country" // default
	SectorTarget      TargetType = "sector"
	ProductTarget     TargetType = "product"
	CompanyTarget     TargetType = "company"
	SupplyChainTarget TargetType = "supply_chain"
)

// Scoring dimensions. SignalStrength is reported but never weighted.
const (
	MarketDemand       Dimension = "market_demand"
	TradeEase          Dimension = "trade_ease"
	PoliticalRisk      Dimension = "political_risk"
	FinancialViability Dimension = "financial_viability"
	StrategicFit       Dimension = "strategic_fit"
	SignalStrength     Dimension = "signal_strength"
)

// All quality tiers supported.
const (
	OfficialQuality QualityTier = "official"
	MediaQuality    QualityTier = "media"
	UnknownQuality  QualityTier = "unknown"
)

// All severity tiers supported.
const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Evidence signal types. Trade and policy items carry the indicator code after the prefix.
const (
	NewsSignal   = "news"
	TenderSignal = "tender"
	TradePrefix  = "trade:"
	PolicyPrefix = "policy:"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	RedisBackend      DatabaseBackend = "redis" // cache only
	NoneBackend       DatabaseBackend = "none"
)

// All news providers supported.
const (
	BraveProvider   NewsProvider = "brave" // default
	TavilyProvider  NewsProvider = "tavily"
	SearXNGProvider NewsProvider = "searxng"
)

// Source names stamped on evidence items.
const (
	WorldBankSource  = "World Bank"
	WorldBankDomain  = "api.worldbank.org"
	BraveSource      = "Brave Search"
	TenderFeedSource = "Tender Feed"
	LatestAge        = "latest"
)

// Manifest entries reported in every analysis result.
const (
	MacroDataSource  = "World Bank API (macro data)"
	TradeDataSource  = "World Bank API (trade indicators)"
	PolicyDataSource = "World Bank API (policy indicators)"
	NewsDataSource   = "Brave Search API (news discovery)"
	TenderDataSource = "Configured tender RSS/JSON feeds"
)

// UnsupportedTargetWarning is attached to results for non-country targets.
const UnsupportedTargetWarning = "Only country targets are fully supported in this version. " +
	"Other target types return limited evidence and neutral scores."

// ScoreRationale is the fixed explanation attached to every score result.
const ScoreRationale = "Score is based on macro demand signals (GDP/population) and the volume of " +
	"recent open-source evidence. Trade ease incorporates import volume. Political risk and strategic " +
	"fit are neutral defaults until more data sources are integrated."

// ScoringDimensions lists the weighted dimensions in reporting order.
var ScoringDimensions = []Dimension{MarketDemand, TradeEase, PoliticalRisk, FinancialViability, StrategicFit}

// ValidTargetTypes lists all valid target types.
var ValidTargetTypes = map[TargetType]struct{}{
	CountryTarget:     {},
	SectorTarget:      {},
	ProductTarget:     {},
	CompanyTarget:     {},
	SupplyChainTarget: {},
}

// ValidDimensions lists all weighted dimensions.
var ValidDimensions = map[Dimension]struct{}{
	MarketDemand:       {},
	TradeEase:          {},
	PoliticalRisk:      {},
	FinancialViability: {},
	StrategicFit:       {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidCacheBackends lists all valid cache backends.
var ValidCacheBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	RedisBackend:      {},
	NoneBackend:       {},
}

// ValidRunBackends lists all valid run history backends.
var ValidRunBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidNewsProviders lists all valid news providers.
var ValidNewsProviders = map[NewsProvider]struct{}{
	BraveProvider:   {},
	TavilyProvider:  {},
	SearXNGProvider: {},
}
