package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for igfetch.
type Config struct {
	Instagram InstagramConfig `yaml:"instagram" json:"instagram"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Download  DownloadConfig  `yaml:"download" json:"download"`
	Extract   ExtractConfig   `yaml:"extract" json:"extract"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// InstagramConfig holds the credential-bearing request context.
type InstagramConfig struct {
	SessionID string `yaml:"session_id" json:"session_id"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
	DSUserID  string `yaml:"ds_user_id" json:"ds_user_id"`
	UserAgent string `yaml:"user_agent" json:"user_agent"`
}

// RateLimitConfig controls API pacing. The delay windows are the randomized
// sleep between page fetches; profile browsing paces slower than saved-item
// paging to better approximate a human reading a feed.
type RateLimitConfig struct {
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
	ProfileDelayMin   time.Duration `yaml:"profile_delay_min" json:"profile_delay_min"`
	ProfileDelayMax   time.Duration `yaml:"profile_delay_max" json:"profile_delay_max"`
	SavedDelayMin     time.Duration `yaml:"saved_delay_min" json:"saved_delay_min"`
	SavedDelayMax     time.Duration `yaml:"saved_delay_max" json:"saved_delay_max"`
}

// OutputConfig holds output directory and naming settings.
type OutputConfig struct {
	Directory         string `yaml:"directory" json:"directory"`
	FilenameTemplate  string `yaml:"filename_template" json:"filename_template"`
	OverwriteExisting bool   `yaml:"overwrite_existing" json:"overwrite_existing"`
	HistoryFile       string `yaml:"history_file" json:"history_file"`
}

// DownloadConfig holds download-specific settings.
type DownloadConfig struct {
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`
	MinItemDelay  time.Duration `yaml:"min_item_delay" json:"min_item_delay"`
	IncludeVideos bool          `yaml:"include_videos" json:"include_videos"`
	IncludeImages bool          `yaml:"include_images" json:"include_images"`
}

// ExtractConfig holds extraction settings.
type ExtractConfig struct {
	MaxItems int `yaml:"max_items" json:"max_items"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Instagram: InstagramConfig{
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
			ProfileDelayMin:   1500 * time.Millisecond,
			ProfileDelayMax:   4 * time.Second,
			SavedDelayMin:     800 * time.Millisecond,
			SavedDelayMax:     2 * time.Second,
		},
		Output: OutputConfig{
			Directory:        "./downloads",
			FilenameTemplate: "{username}_{shortcode}_{num}.{extension}",
			HistoryFile:      "",
		},
		Download: DownloadConfig{
			Timeout:       30 * time.Second,
			MinItemDelay:  500 * time.Millisecond,
			IncludeVideos: true,
			IncludeImages: true,
		},
		Extract: ExtractConfig{
			MaxItems: 0, // 0 means no cap
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, and environment
// overrides, in that order of precedence.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		return nil, err
	}
	cfg.LoadFromEnv()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file. An empty path falls
// back to the standard locations; a missing file is not an error.
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

func findConfigFile() string {
	locations := []string{
		".igfetch.yaml",
		".igfetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igfetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igfetch.yaml"),
	}
	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// LoadFromEnv applies IGFETCH_* environment overrides.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("IGFETCH_SESSION_ID"); v != "" {
		c.Instagram.SessionID = v
	}
	if v := os.Getenv("IGFETCH_CSRF_TOKEN"); v != "" {
		c.Instagram.CSRFToken = v
	}
	if v := os.Getenv("IGFETCH_DS_USER_ID"); v != "" {
		c.Instagram.DSUserID = v
	}
	if v := os.Getenv("IGFETCH_USER_AGENT"); v != "" {
		c.Instagram.UserAgent = v
	}
	if v := os.Getenv("IGFETCH_OUTPUT_DIR"); v != "" {
		c.Output.Directory = v
	}
	if v := os.Getenv("IGFETCH_FILENAME_TEMPLATE"); v != "" {
		c.Output.FilenameTemplate = v
	}
	if v := os.Getenv("IGFETCH_MAX_ITEMS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n >= 0 {
			c.Extract.MaxItems = n
		}
	}
	if v := os.Getenv("IGFETCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for internal consistency. Session
// credentials are not required here; extraction without them simply falls
// back to anonymous access and the DOM parser.
func (c *Config) Validate() error {
	var errs []error

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}
	if c.RateLimit.ProfileDelayMin < 0 || c.RateLimit.SavedDelayMin < 0 {
		errs = append(errs, errors.New("delay windows cannot be negative"))
	}
	if c.RateLimit.ProfileDelayMax < c.RateLimit.ProfileDelayMin {
		errs = append(errs, errors.New("profile delay max must be >= min"))
	}
	if c.RateLimit.SavedDelayMax < c.RateLimit.SavedDelayMin {
		errs = append(errs, errors.New("saved delay max must be >= min"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.FilenameTemplate == "" {
		errs = append(errs, errors.New("filename template is required"))
	}
	if c.Download.Timeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}
	if c.Download.MinItemDelay < 0 {
		errs = append(errs, errors.New("min item delay cannot be negative"))
	}
	if c.Extract.MaxItems < 0 {
		errs = append(errs, errors.New("max items cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	return errors.Join(errs...)
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// HasSession reports whether a credential-bearing session is configured.
func (c *Config) HasSession() bool {
	return c.Instagram.SessionID != "" && c.Instagram.CSRFToken != ""
}
