package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ModeBrowser  = "browser"
	ModeEmbedded = "embedded"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	URLFile string `envconfig:"URL_FILE" default:"list_of_urls.txt"`
	Mode    string `envconfig:"SCRAPE_MODE" default:"browser"`

	JSONPath          string `envconfig:"JSON_OUTPUT_PATH" default:"./output/properties.json"`
	CSVPath           string `envconfig:"CSV_OUTPUT_PATH" default:"./output/properties.csv"`
	CompactPath       string `envconfig:"COMPACT_OUTPUT_PATH" default:"./output/properties_compact.json"`
	NormalizedCSVPath string `envconfig:"NORMALIZED_CSV_PATH" default:"./output/properties_normalized.csv"`
	PayloadDir        string `envconfig:"PAYLOAD_DIR" default:"./output/payloads"`

	ChromeBin          string        `envconfig:"CHROME_BIN"`
	Headless           bool          `envconfig:"HEADLESS" default:"true"`
	UserAgent          string        `envconfig:"USER_AGENT" default:"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	PageLoadTimeout    time.Duration `envconfig:"PAGE_LOAD_TIMEOUT" default:"60s"`
	ConsentTimeout     time.Duration `envconfig:"CONSENT_TIMEOUT" default:"2s"`
	ListingWaitTimeout time.Duration `envconfig:"LISTING_WAIT_TIMEOUT" default:"5s"`
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	RespectRobots      bool          `envconfig:"RESPECT_ROBOTS" default:"false"`
	SelectorsFile      string        `envconfig:"SELECTORS_FILE"`

	PostgresEnabled  bool   `envconfig:"POSTGRES_ENABLED" default:"false"`
	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"scraper"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"scraper123"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"listings_db"`
	PostgresSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	Debug bool `envconfig:"DEBUG" default:"false"`

	Selectors Selectors `ignored:"true"`
}

// Load reads the .env file (if any), processes environment variables and
// resolves the selector catalogue. It does not validate; callers apply any
// command-line overrides first and then call Validate.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("[config] .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	sel, err := LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}
	cfg.Selectors = sel
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeBrowser, ModeEmbedded:
	default:
		return fmt.Errorf("config: unknown SCRAPE_MODE %q (want %q or %q)", c.Mode, ModeBrowser, ModeEmbedded)
	}
	if c.JSONPath == "" || c.CSVPath == "" || c.CompactPath == "" {
		return fmt.Errorf("config: output paths must not be empty")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}
