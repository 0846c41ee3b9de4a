package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/marketscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

// validInput returns the raw input that the CLI defaults produce.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:      4,
		Output:       "text",
		CacheBackend: string(schema.NoneBackend),
		Emoji:        "yes",
		Color:        "no",
		NewsProvider: string(schema.BraveProvider),
		TargetType:   string(schema.CountryTarget),
	}
}

func TestProcessAndValidate(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "")
	tenderFile := filepath.Join(t.TempDir(), "tenders.yaml")
	require.NoError(t, os.WriteFile(tenderFile, []byte("feeds: []\n"), 0o644))

	tests := []struct {
		name        string
		modify      func(in *ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }, true},
		{"too many workers", func(in *ConfigRawInput) { in.Workers = MaxWorkers + 1 }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"parquet with file", func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }, false},
		{"invalid emoji", func(in *ConfigRawInput) { in.Emoji = "maybe" }, true},
		{"negative limit", func(in *ConfigRawInput) { in.Limit = -1 }, true},
		{"limit too large", func(in *ConfigRawInput) { in.Limit = MaxEvidenceLimit + 1 }, true},
		{"bad fetch timeout", func(in *ConfigRawInput) { in.FetchTimeout = "soon" }, true},
		{"negative fetch timeout", func(in *ConfigRawInput) { in.FetchTimeout = "-1s" }, true},
		{"invalid cache backend", func(in *ConfigRawInput) { in.CacheBackend = "oracle" }, true},
		{"mysql without connection", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, true},
		{"redis cache", func(in *ConfigRawInput) {
			in.CacheBackend = "redis"
			in.CacheDBConnect = "redis://localhost:6379/0"
		}, false},
		{"redis run backend", func(in *ConfigRawInput) { in.RunBackend = "redis" }, true},
		{"same sqlite files", func(in *ConfigRawInput) {
			in.CacheBackend = "sqlite"
			in.CacheDBConnect = "/tmp/same.db"
			in.RunBackend = "sqlite"
			in.RunDBConnect = "/tmp/same.db"
		}, true},
		{"invalid news provider", func(in *ConfigRawInput) { in.NewsProvider = "bing" }, true},
		{"searxng without url", func(in *ConfigRawInput) { in.NewsProvider = "searxng" }, true},
		{"searxng with url", func(in *ConfigRawInput) {
			in.NewsProvider = "searxng"
			in.SearXNGURL = "http://localhost:8888/"
		}, false},
		{"missing tender sources", func(in *ConfigRawInput) { in.TenderSourcesFile = "/does/not/exist.yaml" }, true},
		{"tender sources", func(in *ConfigRawInput) { in.TenderSourcesFile = tenderFile }, false},
		{"llm without model", func(in *ConfigRawInput) { in.LLMBaseURL = "http://localhost:11434/v1" }, true},
		{"negative weight", func(in *ConfigRawInput) { in.Weights.MarketDemand = ptr(-0.1) }, true},
		{"invalid subject", func(in *ConfigRawInput) { in.TargetName = "X" }, true},
		{"invalid horizon", func(in *ConfigRawInput) { in.TargetName = "Turkey"; in.Horizon = 61 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.modify(in)

			err := ProcessAndValidate(&Config{}, in)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "env-key")

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, DefaultEvidenceLimit, cfg.EvidenceLimit)
	assert.Equal(t, DefaultNewsMaxResults, cfg.NewsMaxResults)
	assert.Equal(t, DefaultRateLimitRPM, cfg.RateLimitRPM)
	assert.Equal(t, DefaultBraveURL, cfg.BraveURL)
	assert.Equal(t, "env-key", cfg.BraveAPIKey)
	assert.Equal(t, DefaultWorldBankURL, cfg.WorldBankURL)
	assert.Equal(t, DefaultServeAddr, cfg.ServeAddr)
	assert.True(t, cfg.UseEmojis)
	assert.False(t, cfg.UseColors)
	assert.Empty(t, cfg.CustomWeights)
	assert.Equal(t, schema.DefaultScoringConfig(), cfg.Scoring)
	assert.Empty(t, cfg.Subject.TargetName, "No target leaves the subject empty")
	assert.Equal(t, schema.DatabaseBackend(""), cfg.RunBackend)
}

func TestProcessAndValidateSubject(t *testing.T) {
	in := validInput()
	in.TargetName = "Turkey"
	in.Products = "crumb rubber, rubber tiles"
	in.RiskFocus = "sanctions"
	in.HSCodes = "4004"
	in.FetchTimeout = "3s"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))

	assert.Equal(t, "Turkey", cfg.Subject.TargetName)
	assert.Equal(t, schema.CountryTarget, cfg.Subject.TargetType)
	assert.Equal(t, []string{"crumb rubber", "rubber tiles"}, cfg.Subject.Products)
	assert.Equal(t, []string{"sanctions"}, cfg.Subject.RiskFocus)
	assert.Equal(t, []string{"4004"}, cfg.Subject.HSCodes)
	assert.Equal(t, schema.DefaultTimeHorizonMonths, cfg.Subject.TimeHorizonMonths)
	assert.Equal(t, []string{schema.DefaultLanguage}, cfg.Subject.Languages)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
}

func TestProcessCustomWeights(t *testing.T) {
	in := validInput()
	in.Weights.PoliticalRisk = ptr(0.4)
	in.Weights.StrategicFit = ptr(0)

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, in))

	assert.Equal(t, map[schema.Dimension]float64{
		schema.PoliticalRisk: 0.4,
		schema.StrategicFit:  0,
	}, cfg.CustomWeights)
	assert.Equal(t, 0.4, cfg.Scoring.Weight(schema.PoliticalRisk))
	assert.Equal(t, 0.0, cfg.Scoring.Weight(schema.StrategicFit))
	assert.Equal(t, schema.GetDefaultWeights()[schema.MarketDemand], cfg.Scoring.Weight(schema.MarketDemand))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{"sqlite ignores connection", schema.SQLiteBackend, "", false},
		{"none ignores connection", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/marketscope", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/marketscope", true},
		{"mysql missing database", schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=marketscope", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=marketscope", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"redis valid", schema.RedisBackend, "redis://localhost:6379/0", false},
		{"rediss valid", schema.RedisBackend, "rediss://cache.internal:6380", false},
		{"redis wrong scheme", schema.RedisBackend, "localhost:6379", true},
		{"redis empty", schema.RedisBackend, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	original := &Config{
		Workers:       4,
		Subject:       schema.Subject{TargetName: "Turkey", Products: []string{"tyres"}},
		CustomWeights: map[schema.Dimension]float64{schema.MarketDemand: 0.5},
		Scoring:       schema.DefaultScoringConfig(),
	}

	clone := original.Clone()
	clone.Workers = 8
	clone.Subject.Products[0] = "coffee"
	clone.CustomWeights[schema.MarketDemand] = 0.9

	assert.Equal(t, 4, original.Workers)
	assert.Equal(t, []string{"tyres"}, original.Subject.Products)
	assert.Equal(t, 0.5, original.CustomWeights[schema.MarketDemand])
	assert.Equal(t, original.Scoring, clone.Scoring)
}
