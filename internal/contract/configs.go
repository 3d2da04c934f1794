package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/marquee/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 10
	MaxResultLimit        = 100
	DefaultYears          = 10
	DefaultSearchCount    = 10
	MaxSearchCount        = 100
	DefaultDataDir        = "data"
	DefaultReportsDir     = "reports"
	DefaultDatasetBaseURL = "https://datasets.imdbws.com"
	DefaultSearchBaseURL  = "https://api.twitter.com"
)

// Config holds the runtime configuration for a report run.
// This struct remains the "final, validated" config.
type Config struct {
	DataDir    string `validate:"required"`
	ReportsDir string `validate:"required"`

	ResultLimit int `validate:"min=1,max=100"`
	Years       int `validate:"min=0,max=200"`
	TieBreak    schema.TieBreak

	DatasetBaseURL    string `validate:"required,url"`
	SearchBaseURL     string `validate:"required,url"`
	SearchCount       int    `validate:"min=1,max=100"`
	HTTPTimeout       time.Duration
	VerifyCredentials bool

	// Search API credentials. Please use env vars as these are plaintext.
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DataDir           string `mapstructure:"data-dir"`
	ReportsDir        string `mapstructure:"reports-dir"`
	Limit             int    `mapstructure:"limit"`
	Years             int    `mapstructure:"years"`
	TieBreak          string `mapstructure:"tie-break"`
	DatasetBaseURL    string `mapstructure:"dataset-base-url"`
	SearchBaseURL     string `mapstructure:"search-base-url"`
	SearchCount       int    `mapstructure:"search-count"`
	HTTPTimeout       string `mapstructure:"http-timeout"`
	VerifyCredentials string `mapstructure:"verify-credentials"`
	Output            string `mapstructure:"output"`
	OutputFile        string `mapstructure:"output-file"`
	Width             int    `mapstructure:"width"`
	Color             string `mapstructure:"color"`
	HistoryBackend    string `mapstructure:"history-backend"`
	HistoryDBConnect  string `mapstructure:"history-db-connect"`
	LogLevel          string `mapstructure:"log-level"`
	LogFormat         string `mapstructure:"log-format"`

	// --- Credentials, normally from the environment ---
	ConsumerKey    string `mapstructure:"consumer-key"`
	ConsumerSecret string `mapstructure:"consumer-secret"`
	AccessKey      string `mapstructure:"access-key"`
	AccessSecret   string `mapstructure:"access-secret"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate transfers raw input into cfg, applying defaults and
// rejecting values that cannot produce a meaningful run.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateEndpoints(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.HistoryBackend))
	if backend == "" {
		backend = string(schema.NoneBackend)
	}
	cfg.HistoryBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-endpoint fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.DataDir = orDefault(input.DataDir, DefaultDataDir)
	cfg.ReportsDir = orDefault(input.ReportsDir, DefaultReportsDir)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat
	cfg.ConsumerKey = input.ConsumerKey
	cfg.ConsumerSecret = input.ConsumerSecret
	cfg.AccessKey = input.AccessKey
	cfg.AccessSecret = input.AccessSecret

	// --- 1. Booleans ---
	cfg.UseColors = true
	if input.Color != "" {
		useColors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = useColors
	}
	cfg.VerifyCredentials = true
	if input.VerifyCredentials != "" {
		verify, err := ParseBoolString(input.VerifyCredentials)
		if err != nil {
			return fmt.Errorf("invalid --verify-credentials value: %w", err)
		}
		cfg.VerifyCredentials = verify
	}

	// --- 2. Ranking shape ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Years < 0 {
		return fmt.Errorf("years cannot be negative (received %d)", input.Years)
	}
	cfg.Years = input.Years

	tieBreak := strings.ToLower(strings.TrimSpace(input.TieBreak))
	if tieBreak == "" {
		tieBreak = string(schema.InputOrderTieBreak)
	}
	cfg.TieBreak = schema.TieBreak(tieBreak)
	if _, ok := schema.ValidTieBreaks[cfg.TieBreak]; !ok {
		return fmt.Errorf("invalid tie-break '%s'. must be input, id", input.TieBreak)
	}

	// --- 3. Output ---
	output := strings.ToLower(strings.TrimSpace(input.Output))
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(output)
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// validateEndpoints checks the remote base URLs and HTTP client settings.
func validateEndpoints(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.DatasetBaseURL, err = normalizeBaseURL(orDefault(input.DatasetBaseURL, DefaultDatasetBaseURL)); err != nil {
		return fmt.Errorf("invalid dataset-base-url: %w", err)
	}
	if cfg.SearchBaseURL, err = normalizeBaseURL(orDefault(input.SearchBaseURL, DefaultSearchBaseURL)); err != nil {
		return fmt.Errorf("invalid search-base-url: %w", err)
	}

	cfg.SearchCount = input.SearchCount
	if cfg.SearchCount == 0 {
		cfg.SearchCount = DefaultSearchCount
	}
	if cfg.SearchCount < 0 || cfg.SearchCount > MaxSearchCount {
		return fmt.Errorf("search-count must be between 1 and %d (received %d)", MaxSearchCount, input.SearchCount)
	}

	if input.HTTPTimeout != "" {
		timeout, err := time.ParseDuration(input.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("invalid http-timeout: %w", err)
		}
		if timeout < 0 {
			return fmt.Errorf("http-timeout cannot be negative (received %s)", input.HTTPTimeout)
		}
		cfg.HTTPTimeout = timeout
	}
	return nil
}

// normalizeBaseURL requires an absolute http(s) URL and strips trailing slashes.
func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q must be an absolute http(s) URL", raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
