package app

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`
	RateLimit         int           `envconfig:"APP_RATE_LIMIT" default:"120"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	PGDSN      string `envconfig:"PG_DSN"`
	PGMaxConns int32  `envconfig:"PG_MAX_CONNS" default:"4"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	BackendURL     string        `envconfig:"BACKEND_URL" required:"true"`
	BackendToken   string        `envconfig:"BACKEND_TOKEN"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`

	PDFEngine    string        `envconfig:"PDF_ENGINE" default:"gotenberg"`
	GotenbergURL string        `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`
	ChromePath   string        `envconfig:"CHROME_PATH"`
	PDFTimeout   time.Duration `envconfig:"PDF_TIMEOUT" default:"30s"`

	CatalogTTL    time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
	DraftTTL      time.Duration `envconfig:"DRAFT_TTL" default:"24h"`
	SubmitLockTTL time.Duration `envconfig:"SUBMIT_LOCK_TTL" default:"30s"`
	ExportTTL     time.Duration `envconfig:"EXPORT_TTL" default:"1h"`

	CurrencyLocale string `envconfig:"CURRENCY_LOCALE" default:"en-IN"`
	CurrencySymbol string `envconfig:"CURRENCY_SYMBOL" default:"₹"`
	ReportTimezone string `envconfig:"REPORT_TIMEZONE" default:"UTC"`
	BrandingFile   string `envconfig:"BRANDING_FILE"`

	WorkerConcurrency int `envconfig:"WORKER_CONCURRENCY" default:"2"`
}

// LoadConfig reads configuration from environment variables. Outside
// production a local .env file is read first; real environment wins.
func LoadConfig() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.BackendURL == "" {
		return nil, errors.New("backend url must be provided")
	}
	if cfg.SubmitLockTTL <= 0 {
		return nil, errors.New("submit lock ttl must be positive")
	}
	if _, err := time.LoadLocation(cfg.ReportTimezone); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// AuditEnabled reports whether a Postgres audit store is configured.
func (c *Config) AuditEnabled() bool {
	return c != nil && c.PGDSN != ""
}

// Location returns the timezone used for document timestamps.
func (c *Config) Location() *time.Location {
	if c == nil {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
