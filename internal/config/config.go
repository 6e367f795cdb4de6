package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"foliotrack/pkg/foliotrack"
)

const (
	envDataDir         = "FOLIOTRACK_DATA_DIR"
	envDBPath          = "FOLIOTRACK_DB_PATH"
	envPriceBaseURL    = "FOLIOTRACK_PRICE_BASE_URL"
	envNewsBaseURL     = "FOLIOTRACK_NEWS_BASE_URL"
	envNewsAPIKey      = "FOLIOTRACK_NEWS_API_KEY"
	envAIAPIKey        = "FOLIOTRACK_AI_API_KEY"
	envAIModel         = "FOLIOTRACK_AI_MODEL"
	envAIEndpoint      = "FOLIOTRACK_AI_ENDPOINT"
	envHTTPTimeout     = "FOLIOTRACK_HTTP_TIMEOUT"
	envUnmatchedPolicy = "FOLIOTRACK_UNMATCHED_POLICY"

	defaultDBName = "foliotrack.db"
)

var runtimeDataDir string

// SetRuntimeDataDir overrides the data directory, typically from a CLI flag.
// It takes priority over the environment.
func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

// GetDataDir resolves the directory for the database and log files: the
// runtime override first, then the environment, then a per-user default.
func GetDataDir() (string, error) {
	if runtimeDataDir != "" {
		if err := os.MkdirAll(runtimeDataDir, 0o755); err != nil {
			return "", err
		}
		return runtimeDataDir, nil
	}
	if envDir := strings.TrimSpace(os.Getenv(envDataDir)); envDir != "" {
		if err := os.MkdirAll(envDir, 0o755); err != nil {
			return "", err
		}
		return envDir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", homeErr
		}
		configDir = filepath.Join(home, ".config")
	}
	dir := filepath.Join(configDir, "foliotrack")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDBPath resolves the SQLite database path.
func GetDBPath() (string, error) {
	if envPath := strings.TrimSpace(os.Getenv(envDBPath)); envPath != "" {
		return envPath, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, defaultDBName), nil
}

// CoreOptions assembles foliotrack.Options from the environment. The DBPath
// field is left for the caller to fill in.
func CoreOptions() foliotrack.Options {
	opts := foliotrack.Options{
		PriceBaseURL: strings.TrimSpace(os.Getenv(envPriceBaseURL)),
		NewsBaseURL:  strings.TrimSpace(os.Getenv(envNewsBaseURL)),
		NewsAPIKey:   strings.TrimSpace(os.Getenv(envNewsAPIKey)),
		AIAPIKey:     strings.TrimSpace(os.Getenv(envAIAPIKey)),
		AIModel:      strings.TrimSpace(os.Getenv(envAIModel)),
		AIEndpoint:   strings.TrimSpace(os.Getenv(envAIEndpoint)),
	}
	if raw := strings.TrimSpace(os.Getenv(envHTTPTimeout)); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			opts.HTTPTimeout = d
		}
	}
	if policy := strings.ToLower(strings.TrimSpace(os.Getenv(envUnmatchedPolicy))); policy == "carry-forward" {
		opts.UnmatchedPolicy = foliotrack.UnmatchedCarryForward
	}
	return opts
}
