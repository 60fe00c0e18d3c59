// Package config contains everything related to configuration
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/sview/internal/chart"
)

// Config holds the application configuration.
type Config struct {
	// SourcePath is a JSON query result ({"rows": [...], ...}).
	SourcePath string
	// SQLitePath and SQLiteQuery select rows from a database instead.
	SQLitePath  string
	SQLiteQuery string

	Fill       string
	GroupBy    []string
	ShowHits   bool
	Columns    []string
	BucketSize float64

	Width          int
	WatchDebounce  time.Duration
	AlertThreshold float64
	AlertEnabled   bool

	LogLevel string
	LogPath  string
}

// Default values
const (
	defaultFill          = "connect"
	defaultWidth         = 800
	defaultWatchDebounce = 100 * time.Millisecond
)

// ErrNoSource is returned by Validate when no row source is configured.
var ErrNoSource = errors.New("no data source: pass a JSON file or set SVIEW_SOURCE / SVIEW_SQLITE_PATH")

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		SourcePath:    getEnvString("SVIEW_SOURCE", ""),
		SQLitePath:    getEnvString("SVIEW_SQLITE_PATH", ""),
		SQLiteQuery:   getEnvString("SVIEW_SQLITE_QUERY", ""),
		Fill:          getEnvString("SVIEW_FILL", defaultFill),
		GroupBy:       getEnvList("SVIEW_GROUP_BY"),
		ShowHits:      getEnvBool("SVIEW_SHOW_HITS", false),
		Columns:       getEnvList("SVIEW_COLUMNS"),
		BucketSize:    getEnvFloat("SVIEW_BUCKET_SIZE", 0),
		Width:         getEnvInt("SVIEW_WIDTH", defaultWidth),
		WatchDebounce: getEnvDuration("SVIEW_WATCH_DEBOUNCE", defaultWatchDebounce),
		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogPath:       getEnvString("LOG_PATH", getDefaultLogPath()),
	}
	if v := os.Getenv("SVIEW_ALERT_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AlertThreshold = f
			cfg.AlertEnabled = true
		}
	}

	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that a row source is configured.
func (c *Config) Validate() error {
	if c.SourcePath == "" && c.SQLitePath == "" {
		return ErrNoSource
	}
	if c.SQLitePath != "" && c.SQLiteQuery == "" {
		return errors.New("SVIEW_SQLITE_QUERY is required with SVIEW_SQLITE_PATH")
	}
	return nil
}

// ChartOptions returns the chart configuration.
func (c *Config) ChartOptions() chart.Options {
	return chart.Options{
		GroupBy:  c.GroupBy,
		ShowHits: c.ShowHits,
		Fill:     chart.ParseFillMode(c.Fill),
		Columns:  c.Columns,
	}
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sview", ".env"))
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultLogPath returns the default path for the log file.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sview.log"
	}
	return filepath.Join(home, ".config", "sview", "sview.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blank items.
func getEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

// SplitList splits a comma separated list, trimming items and dropping
// blank ones.
func SplitList(s string) []string {
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
