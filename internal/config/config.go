package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Config is the full bot configuration.
//
// Files may be JSON or YAML (by extension); YAML is coerced to JSON so the
// same strict decoder (DisallowUnknownFields) applies to both formats.
type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Source   SourceConfig   `json:"source"`
	Poll     PollConfig     `json:"poll"`
	Storage  StorageConfig  `json:"storage"`
}

type TelegramConfig struct {
	Token string `json:"token"`

	// ChannelID is the fixed broadcast channel. New postings are always
	// announced there in addition to individual subscribers.
	ChannelID int64 `json:"channel_id"`

	// PollTimeout is a Go duration string for Telegram long polling (e.g. "10s").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SourceConfig describes the single listing site being watched.
type SourceConfig struct {
	IndexURL string `json:"index_url"`

	// LinkSelector locates posting links on the index page, newest first.
	LinkSelector string `json:"link_selector,omitempty"`

	UserAgent string `json:"user_agent,omitempty"`

	// FetchTimeout is a Go duration string applied to every HTTP fetch.
	FetchTimeout string `json:"fetch_timeout,omitempty"`

	// RecentLimit caps the /recent command (and is the "last N" window).
	RecentLimit int `json:"recent_limit,omitempty"`
}

type PollConfig struct {
	Enabled bool `json:"enabled"`

	// Every is a Go duration string between poll cycles (e.g. "30m").
	Every string `json:"every,omitempty"`
}

// StorageConfig controls the persisted seen-set.
//
// Driver values:
//   - "file" (default): a JSON array of canonical URLs, rewritten in full
//   - "sqlite": SQLite database file
//   - "" / "none": no persistence (seen-set lives in memory only)
type StorageConfig struct {
	Driver      string `json:"driver,omitempty"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

const (
	DefaultLinkSelector = ".entry-title > a"
	DefaultPollEvery    = 30 * time.Minute
	DefaultFetchTimeout = 20 * time.Second
	DefaultRecentLimit  = 10
)

// Load reads, decodes and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes and validates config bytes. The path is only used to pick the
// format by extension and to label errors.
func Parse(path string, data []byte) (*Config, error) {
	jsonBytes, format, err := toJSON(path, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s config: %w", format, err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.DisallowUnknownFields()
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if strings.TrimSpace(c.Source.IndexURL) == "" {
		return errors.New("source.index_url is required")
	}
	if !strings.HasPrefix(c.Source.IndexURL, "http://") && !strings.HasPrefix(c.Source.IndexURL, "https://") {
		return fmt.Errorf("source.index_url: unsupported scheme in %q", c.Source.IndexURL)
	}
	if c.Source.RecentLimit < 0 {
		return errors.New("source.recent_limit must be >= 0")
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("source.fetch_timeout", c.Source.FetchTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("poll.every", c.Poll.Every); err != nil {
		return err
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	switch d := strings.ToLower(strings.TrimSpace(c.Storage.Driver)); d {
	case "", "none", "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver)
	}
	return nil
}

// PollEvery returns the validated poll period with its default applied.
func (c *Config) PollEvery() time.Duration {
	d, _ := ParseDurationOrDefault("poll.every", c.Poll.Every, DefaultPollEvery)
	return d
}

// FetchTimeout returns the validated fetch timeout with its default applied.
func (c *Config) FetchTimeout() time.Duration {
	d, _ := ParseDurationOrDefault("source.fetch_timeout", c.Source.FetchTimeout, DefaultFetchTimeout)
	return d
}

// RecentLimit returns the "last N" window with its default applied.
func (c *Config) RecentLimit() int {
	if c.Source.RecentLimit > 0 {
		return c.Source.RecentLimit
	}
	return DefaultRecentLimit
}

// LinkSelector returns the index link selector with its default applied.
func (c *Config) LinkSelector() string {
	if s := strings.TrimSpace(c.Source.LinkSelector); s != "" {
		return s
	}
	return DefaultLinkSelector
}
