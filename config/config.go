// Package config loads the toolkit configuration: terminal gateway
// endpoint, per-currency curve and policy-rate tickers, meeting-date
// sources and analysis defaults. Nothing else in the module reads the
// environment; collaborators receive their settings by constructor.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete toolkit configuration.
type Config struct {
	Terminal    TerminalConfig          `yaml:"terminal"`
	Analysis    AnalysisConfig          `yaml:"analysis"`
	Meetings    MeetingsConfig          `yaml:"meetings"`
	Log         LogConfig               `yaml:"log"`
	Curves      map[string][]string     `yaml:"curves"`
	PolicyRates map[string]PolicyTicker `yaml:"policy_rates"`
}

// TerminalConfig locates the market-data terminal gateway.
type TerminalConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AnalysisConfig carries the numeric pipeline defaults.
type AnalysisConfig struct {
	MinSettlement float64 `yaml:"min_settlement"` // option quote floor
	GridPoints    int     `yaml:"grid_points"`    // RND strike grid resolution
	Beta          float64 `yaml:"beta"`           // fixed SABR beta
	DecadeBase    int     `yaml:"decade_base"`    // contract year-digit epoch
}

// MeetingsConfig selects where policy meeting dates come from.
type MeetingsConfig struct {
	// Source is "csv" or "sqlite".
	Source string `yaml:"source"`
	// DSN is the sqlite file path when Source is "sqlite".
	DSN string `yaml:"dsn"`
	// Files maps currency to a CSV path when Source is "csv".
	Files map[string]string `yaml:"files"`
}

// PolicyTicker describes one central bank's policy rate instrument.
type PolicyTicker struct {
	Ticker      string `yaml:"ticker"`
	Name        string `yaml:"name"`
	CentralBank string `yaml:"central_bank"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config plus an optional .env file. Environment
// variables override file values for the terminal endpoint and logging.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg, nil
}

// Default returns a config with every default applied and no file read.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

// Timeout returns the terminal request timeout as a Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Terminal.TimeoutSeconds) * time.Second
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TERMINAL_HOST"); v != "" {
		cfg.Terminal.Host = v
	}
	if v := os.Getenv("TERMINAL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Terminal.Port = p
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Terminal.Host == "" {
		cfg.Terminal.Host = "localhost"
	}
	if cfg.Terminal.Port <= 0 {
		cfg.Terminal.Port = 8194
	}
	if cfg.Terminal.TimeoutSeconds <= 0 {
		cfg.Terminal.TimeoutSeconds = 30
	}
	if cfg.Analysis.MinSettlement <= 0 {
		cfg.Analysis.MinSettlement = 0.02
	}
	if cfg.Analysis.GridPoints <= 0 {
		cfg.Analysis.GridPoints = 500
	}
	if cfg.Analysis.Beta <= 0 || cfg.Analysis.Beta > 1 {
		cfg.Analysis.Beta = 0.5
	}
	if cfg.Analysis.DecadeBase <= 0 {
		cfg.Analysis.DecadeBase = 2020
	}
	if cfg.Meetings.Source == "" {
		cfg.Meetings.Source = "csv"
	}
	if len(cfg.Meetings.Files) == 0 {
		cfg.Meetings.Files = map[string]string{
			"USD": "data/fomc_meetings.csv",
			"EUR": "data/ecb_meetings.csv",
			"GBP": "data/boe_meetings.csv",
		}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if len(cfg.Curves) == 0 {
		cfg.Curves = defaultCurves()
	}
	if len(cfg.PolicyRates) == 0 {
		cfg.PolicyRates = defaultPolicyRates()
	}
}

// defaultCurves lists the OIS curve tickers per currency, short tenors
// first: 1-3 weeks, 1-11 months, then 1y, 18m, 2y, 3y.
func defaultCurves() map[string][]string {
	build := func(root string) []string {
		codes := []string{"1Z", "2Z", "3Z", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "1", "1F", "2", "3"}
		out := make([]string, len(codes))
		for i, c := range codes {
			out[i] = root + c + " BGN CURNCY"
		}
		return out
	}
	return map[string][]string{
		"USD": build("USOSFR"),
		"EUR": build("EESWE"),
		"GBP": build("BPSWS"),
	}
}

func defaultPolicyRates() map[string]PolicyTicker {
	return map[string]PolicyTicker{
		"USD": {Ticker: "FDTR Index", Name: "Federal Funds Target Rate", CentralBank: "Federal Reserve"},
		"EUR": {Ticker: "EURR002W Index", Name: "ECB Deposit Facility Rate", CentralBank: "European Central Bank"},
		"GBP": {Ticker: "UKBRBASE Index", Name: "Bank of England Base Rate", CentralBank: "Bank of England"},
	}
}
