// Package config provides centralized configuration loaded from environment
// variables. Shared by every cmd/ingest subcommand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Source registry: one entry per upstream we scrape
// --------------------------------------------------------------------------

// Source names double as the provenance tag stored on every row.
const (
	SourceNHLAPI    = "nhl_api"
	SourceNHLRoster = "nhl_roster"
	SourceMoneyPuck = "moneypuck"
	SourcePuckPedia = "puckpedia"
)

type SourceConfig struct {
	Name              string
	BaseURL           string
	RequestsPerSecond float64
}

// --------------------------------------------------------------------------
// Table names, matching schema.sql
// --------------------------------------------------------------------------

const (
	PlayersTable       = "players"
	PlayerStatsTable   = "player_stats"
	TeamsTable         = "teams"
	GamesTable         = "games"
	ContractsTable     = "contracts"
	AdvancedStatsTable = "advanced_stats"
	RostersTable       = "rosters"
)

// Tables lists every table reported by the stats command, in display order.
var Tables = []string{
	PlayersTable,
	TeamsTable,
	GamesTable,
	PlayerStatsTable,
	ContractsTable,
	AdvancedStatsTable,
	RostersTable,
}

const defaultUserAgent = "nhl-ingest/1.0 (+https://github.com/albapepper/nhl-ingest)"

// --------------------------------------------------------------------------
// Config (populated from environment variables)
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Outbound HTTP
	HTTPTimeout time.Duration
	UserAgent   string

	// Sources
	NHLWeb    SourceConfig
	NHLStats  SourceConfig
	MoneyPuck SourceConfig
	PuckPedia SourceConfig

	// Response memo shared within one scrape session
	ResponseCacheEnabled bool
	ResponseCacheTTL     time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// The database URL is optional here; commands that open the store call
// RequireDatabase.
func Load() (*Config, error) {
	nhlRPS := envFloat("NHL_RPS", 2.0)

	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		HTTPTimeout: time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		UserAgent:   envOr("SCRAPER_USER_AGENT", defaultUserAgent),

		NHLWeb: SourceConfig{
			Name:              SourceNHLAPI,
			BaseURL:           envOr("NHL_WEB_BASE_URL", "https://api-web.nhle.com/v1"),
			RequestsPerSecond: nhlRPS,
		},
		NHLStats: SourceConfig{
			Name:              SourceNHLAPI,
			BaseURL:           envOr("NHL_STATS_BASE_URL", "https://api.nhle.com/stats/rest/en"),
			RequestsPerSecond: nhlRPS,
		},
		MoneyPuck: SourceConfig{
			Name:              SourceMoneyPuck,
			BaseURL:           envOr("MONEYPUCK_BASE_URL", "https://moneypuck.com"),
			RequestsPerSecond: envFloat("MONEYPUCK_RPS", 0.5),
		},
		PuckPedia: SourceConfig{
			Name:              SourcePuckPedia,
			BaseURL:           envOr("PUCKPEDIA_BASE_URL", "https://puckpedia.com"),
			RequestsPerSecond: envFloat("PUCKPEDIA_RPS", 0.3),
		},

		ResponseCacheEnabled: envBool("RESPONSE_CACHE_ENABLED", true),
		ResponseCacheTTL:     time.Duration(envInt("RESPONSE_CACHE_TTL_MINUTES", 10)) * time.Minute,
	}

	for _, src := range []SourceConfig{cfg.NHLWeb, cfg.NHLStats, cfg.MoneyPuck, cfg.PuckPedia} {
		if src.RequestsPerSecond <= 0 {
			return nil, fmt.Errorf("%s: requests per second must be positive, got %v", src.BaseURL, src.RequestsPerSecond)
		}
	}
	return cfg, nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	return nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}
