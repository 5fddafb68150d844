package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalidMaxPages  = errors.New("invalid crawler.max_pages: must be positive")
	ErrInvalidDelay     = errors.New("invalid crawler.delay: must be a non-negative duration")
	ErrInvalidTimeout   = errors.New("invalid crawler.fetch_timeout: must be a positive duration")
	ErrInvalidLogFormat = errors.New("invalid logging.format: must be text or json")
)

type Config struct {
	DSN     string        `toml:"dsn"`
	Crawler CrawlerConfig `toml:"crawler"`
	Logging LoggingConfig `toml:"logging"`
}

type CrawlerConfig struct {
	UserAgent    string `toml:"user_agent"`
	MaxPages     int    `toml:"max_pages"`
	Delay        string `toml:"delay"`
	FetchTimeout string `toml:"fetch_timeout"`
	OutputDir    string `toml:"output_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Crawler.UserAgent = "politecrawl/1.0"
	cfg.Crawler.MaxPages = 50
	cfg.Crawler.Delay = "1s"
	cfg.Crawler.FetchTimeout = "10s"
	cfg.Crawler.OutputDir = "data"
	cfg.Logging.Format = "text"
	cfg.Logging.Level = "info"
	return &cfg
}

// Load reads a TOML file on top of the defaults. A missing file is not an
// error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Crawler.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if d, err := time.ParseDuration(c.Crawler.Delay); err != nil || d < 0 {
		return ErrInvalidDelay
	}
	if d, err := time.ParseDuration(c.Crawler.FetchTimeout); err != nil || d <= 0 {
		return ErrInvalidTimeout
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}
	return nil
}

func (c *CrawlerConfig) GetDelay() time.Duration {
	d, err := time.ParseDuration(c.Delay)
	if err != nil {
		return 1 * time.Second // Fallback
	}
	return d
}

func (c *CrawlerConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
