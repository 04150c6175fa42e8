// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	// Embedded zone database so TIMEZONE resolves on hosts without one
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIKey            string
	RegionCode        string
	MaxResults        int
	RefreshInterval   time.Duration
	HTTPTimeout       time.Duration
	DatabasePath      string
	LegacyHistoryPath string
	StopwordsURL      string
	StopwordsPath     string
	Timezone          string
	HookPolicy        string
	WordCloudPath     string
	LogPath           string
	LogLevel          string
	HistoryRetention  time.Duration
	AlertsEnabled     bool
}

// Default values
const (
	defaultRegionCode       = "IN"
	defaultMaxResults       = 50
	defaultRefreshInterval  = 3600 * time.Second
	defaultHTTPTimeout      = 30 * time.Second
	defaultTimezone         = "Asia/Kolkata"
	defaultHookPolicy       = "v2"
	defaultHistoryRetention = 30 * 24 * time.Hour
	defaultLegacyHistory    = "upload_history.json"
	defaultStopwordsURL     = "https://raw.githubusercontent.com/stopwords-iso/stopwords-en/master/stopwords-en.txt"

	// MinResults and MaxResultsCap bound the trending result cap.
	MinResults    = 25
	MaxResultsCap = 50
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	cfg, err := LoadWithoutKey()
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YOUTUBE_API_KEY is required (set via env or a .env file)")
	}

	return cfg, nil
}

// LoadWithoutKey reads configuration but does not require an API key.
// Used by commands that only touch the local history store.
func LoadWithoutKey() (*Config, error) {
	// The first .env found wins; real environment variables still override it.
	for _, path := range envFiles() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIKey:            envOr("YOUTUBE_API_KEY", "", asString),
		RegionCode:        strings.ToUpper(envOr("REGION_CODE", defaultRegionCode, asString)),
		MaxResults:        ClampMaxResults(envOr("MAX_RESULTS", defaultMaxResults, asInt)),
		RefreshInterval:   envOr("REFRESH_INTERVAL", defaultRefreshInterval, asPositiveDuration),
		HTTPTimeout:       envOr("HTTP_TIMEOUT", defaultHTTPTimeout, asPositiveDuration),
		DatabasePath:      envOr("DATABASE_PATH", defaultPath("history.db"), asString),
		LegacyHistoryPath: envOr("LEGACY_HISTORY_PATH", defaultLegacyHistory, asString),
		StopwordsURL:      envOr("STOPWORDS_URL", defaultStopwordsURL, asString),
		StopwordsPath:     envOr("STOPWORDS_PATH", "", asString),
		Timezone:          envOr("TIMEZONE", defaultTimezone, asString),
		HookPolicy:        envOr("HOOK_POLICY", defaultHookPolicy, asString),
		WordCloudPath:     envOr("WORDCLOUD_PATH", defaultPath("wordcloud.png"), asString),
		LogPath:           envOr("LOG_PATH", defaultPath("tdt.log"), asString),
		LogLevel:          envOr("LOG_LEVEL", "info", asString),
		HistoryRetention:  envOr("HISTORY_RETENTION", defaultHistoryRetention, asPositiveDuration),
		AlertsEnabled:     envOr("ALERTS_ENABLED", true, strconv.ParseBool),
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the configured target time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ClampMaxResults keeps the result cap inside the range the trending endpoint is used with.
func ClampMaxResults(n int) int {
	switch {
	case n < MinResults:
		return MinResults
	case n > MaxResultsCap:
		return MaxResultsCap
	default:
		return n
	}
}
