package foliotrack

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HTTPDoer is an interface for making HTTP requests. It enables dependency
// injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Options controls Core initialization.
type Options struct {
	DBPath          string
	Logger          *slog.Logger
	PriceBaseURL    string
	NewsBaseURL     string
	NewsAPIKey      string
	HTTPTimeout     time.Duration
	HTTPClient      HTTPDoer // Optional: inject custom client for testing
	UnmatchedPolicy UnmatchedPolicy
	AIAPIKey        string
	AIModel         string
	AIEndpoint      string
}

// Core provides access to the ledger store, the performance engine, and the
// external price/news clients.
type Core struct {
	db        *sql.DB
	logger    *slog.Logger
	prices    *priceClient
	news      *newsClient
	ai        aiConfig
	unmatched UnmatchedPolicy
	dbPath    string
}

// Open initializes a Core using the provided database path.
func Open(dbPath string) (*Core, error) {
	return OpenWithOptions(Options{DBPath: dbPath})
}

// OpenWithOptions initializes a Core using the provided options.
func OpenWithOptions(opts Options) (*Core, error) {
	if opts.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	cleanPath := filepath.Clean(opts.DBPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.Warn("pragma foreign_keys failed", "err", err)
	}

	if err := initDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	httpTimeout := defaultDuration(opts.HTTPTimeout, 10*time.Second)
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}

	return &Core{
		db:     db,
		logger: logger,
		prices: newPriceClient(priceClientOptions{
			BaseURL:    opts.PriceBaseURL,
			Logger:     logger,
			HTTPClient: client,
		}),
		news: newNewsClient(newsClientOptions{
			BaseURL:    opts.NewsBaseURL,
			APIKey:     opts.NewsAPIKey,
			Logger:     logger,
			HTTPClient: client,
		}),
		ai: aiConfig{
			APIKey:   opts.AIAPIKey,
			Model:    opts.AIModel,
			Endpoint: opts.AIEndpoint,
		},
		unmatched: opts.UnmatchedPolicy,
		dbPath:    cleanPath,
	}, nil
}

// Close releases database resources.
func (c *Core) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DBPath returns the underlying database path.
func (c *Core) DBPath() string {
	return c.dbPath
}

// Logger returns the configured logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

func defaultDuration(v time.Duration, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
