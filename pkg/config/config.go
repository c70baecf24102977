package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "IGFETCH_"

// Config holds all configuration options for igfetch
type Config struct {
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`
	Session   SessionConfig   `yaml:"session" json:"session"`
	Fetch     FetchConfig     `yaml:"fetch" json:"fetch"`
	Download  DownloadConfig  `yaml:"download" json:"download"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// InstagramConfig holds provider client settings
type InstagramConfig struct {
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	GraphQLDocID   string        `yaml:"graphql_doc_id" json:"graphql_doc_id"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
	EmbedFallback  bool          `yaml:"embed_fallback" json:"embed_fallback"`
}

// SessionConfig locates persisted sessions
type SessionConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	Username  string `yaml:"username" json:"username"`
}

// FetchConfig controls the preview batch
type FetchConfig struct {
	Delay      time.Duration `yaml:"delay" json:"delay"`
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
}

// DownloadConfig controls the download batch
type DownloadConfig struct {
	BaseDirectory string        `yaml:"base_directory" json:"base_directory"`
	Delay         time.Duration `yaml:"delay" json:"delay"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			GraphQLDocID:   "8845758582119845",
			RequestTimeout: 30 * time.Second,
			EmbedFallback:  true,
		},
		Session: SessionConfig{
			Directory: ".sessions",
		},
		Fetch: FetchConfig{
			Delay:      2 * time.Second,
			MaxRetries: 3,
		},
		Download: DownloadConfig{
			BaseDirectory: "downloads",
			Delay:         500 * time.Millisecond,
			Timeout:       30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from IGFETCH_* environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.Instagram.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "SESSION_DIR"); v != "" {
		c.Session.Directory = v
	}
	if v := os.Getenv(envPrefix + "SESSION_USER"); v != "" {
		c.Session.Username = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		c.Download.BaseDirectory = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(envPrefix + "FETCH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sFETCH_DELAY: %w", envPrefix, err))
		} else {
			c.Fetch.Delay = d
		}
	}
	if v := os.Getenv(envPrefix + "DOWNLOAD_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sDOWNLOAD_DELAY: %w", envPrefix, err))
		} else {
			c.Download.Delay = d
		}
	}
	if v := os.Getenv(envPrefix + "MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMAX_RETRIES: %w", envPrefix, err))
		} else {
			c.Fetch.MaxRetries = n
		}
	}
	if v := os.Getenv(envPrefix + "EMBED_FALLBACK"); v != "" {
		c.Instagram.EmbedFallback = strings.EqualFold(v, "true") || v == "1"
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file.
// An empty path searches the default locations; finding nothing is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igfetch.yaml",
		".igfetch.yml",
		filepath.Join(home, ".config", "igfetch", "config.yaml"),
		filepath.Join(home, ".config", "igfetch", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Instagram.GraphQLDocID == "" {
		errs = append(errs, errors.New("instagram graphql doc id is required"))
	}
	if c.Instagram.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Session.Directory == "" {
		errs = append(errs, errors.New("session directory is required"))
	}
	if c.Fetch.Delay < 0 {
		errs = append(errs, errors.New("fetch delay cannot be negative"))
	}
	if c.Fetch.MaxRetries < 1 {
		errs = append(errs, errors.New("max retries must be at least 1"))
	}
	if c.Download.BaseDirectory == "" {
		errs = append(errs, errors.New("download base directory is required"))
	}
	if c.Download.Delay < 0 {
		errs = append(errs, errors.New("download delay cannot be negative"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys follow the CLI flag names; zero values are ignored.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Download.BaseDirectory = v
	}
	if v, ok := flags["session-user"].(string); ok && v != "" {
		c.Session.Username = v
	}
	if v, ok := flags["session-dir"].(string); ok && v != "" {
		c.Session.Directory = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := flags["fetch-delay"].(time.Duration); ok && v > 0 {
		c.Fetch.Delay = v
	}
	if v, ok := flags["download-delay"].(time.Duration); ok && v > 0 {
		c.Download.Delay = v
	}
	if v, ok := flags["no-embed-fallback"].(bool); ok && v {
		c.Instagram.EmbedFallback = false
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: flags > environment (.env included) > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igfetch.env"))

	cfg := DefaultConfig()

	if err := cfg.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.MergeCommandLineFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
