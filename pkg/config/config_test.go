package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 1500*time.Millisecond, cfg.RateLimit.ProfileDelayMin)
	assert.Equal(t, 4*time.Second, cfg.RateLimit.ProfileDelayMax)
	assert.True(t, cfg.Download.IncludeVideos)
	assert.True(t, cfg.Download.IncludeImages)
	assert.Equal(t, 0, cfg.Extract.MaxItems)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
instagram:
  session_id: "abc123"
  csrf_token: "tok"
output:
  directory: "/tmp/media"
  filename_template: "{shortcode}.{extension}"
extract:
  max_items: 25
rate_limit:
  requests_per_minute: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "abc123", cfg.Instagram.SessionID)
	assert.Equal(t, "/tmp/media", cfg.Output.Directory)
	assert.Equal(t, 25, cfg.Extract.MaxItems)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	// Untouched fields keep defaults.
	assert.Equal(t, 30*time.Second, cfg.Download.Timeout)
	assert.True(t, cfg.HasSession())
}

func TestLoadFromFileMissingIsNotAnError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.LoadFromFile(""))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGFETCH_SESSION_ID", "env-session")
	t.Setenv("IGFETCH_OUTPUT_DIR", "/data/ig")
	t.Setenv("IGFETCH_MAX_ITEMS", "7")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "env-session", cfg.Instagram.SessionID)
	assert.Equal(t, "/data/ig", cfg.Output.Directory)
	assert.Equal(t, 7, cfg.Extract.MaxItems)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "negative max items",
			mutate:  func(c *Config) { c.Extract.MaxItems = -1 },
			wantErr: "max items",
		},
		{
			name:    "inverted profile delay window",
			mutate:  func(c *Config) { c.RateLimit.ProfileDelayMax = time.Millisecond },
			wantErr: "profile delay",
		},
		{
			name:    "empty output directory",
			mutate:  func(c *Config) { c.Output.Directory = "" },
			wantErr: "output directory",
		},
		{
			name:    "empty filename template",
			mutate:  func(c *Config) { c.Output.FilenameTemplate = "" },
			wantErr: "filename template",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDoesNotRequireSession(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Instagram.SessionID = ""
	cfg.Instagram.CSRFToken = ""
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.HasSession())
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Directory = "/somewhere"
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "/somewhere", loaded.Output.Directory)
}
