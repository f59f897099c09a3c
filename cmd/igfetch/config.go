package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igfetch/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage igfetch configuration.

Configuration is loaded from (in order of precedence):
  1. Environment variables (IGFETCH_*)
  2. Config file (--config, .igfetch.yaml, ~/.config/igfetch/config.yaml)
  3. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example config file",
	Run:   runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Run:   runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Run:   runConfigValidate,
}

var configInitPath string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVar(&configInitPath, "path", ".igfetch.yaml", "Where to write the config file")
}

const exampleConfig = `# igfetch configuration
#
# Credentials can also come from 'igfetch auth login' or the
# IGFETCH_SESSION_ID / IGFETCH_CSRF_TOKEN environment variables.
# Without any session, extraction falls back to anonymous access.

instagram:
  session_id: ""
  csrf_token: ""
  ds_user_id: ""
  user_agent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

rate_limit:
  requests_per_minute: 60
  profile_delay_min: 1.5s
  profile_delay_max: 4s
  saved_delay_min: 800ms
  saved_delay_max: 2s

output:
  directory: "./downloads"
  filename_template: "{username}_{shortcode}_{num}.{extension}"
  overwrite_existing: false
  # history_file: "~/.igfetch-history.jsonl"

download:
  timeout: 30s
  min_item_delay: 500ms
  include_videos: true
  include_images: true

extract:
  max_items: 0 # 0 = no cap

logging:
  level: info
  # file: "igfetch.log"
`

func runConfigInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(configInitPath); err == nil {
		fatal(fmt.Sprintf("config file already exists: %s", configInitPath), nil)
	}

	if err := os.WriteFile(configInitPath, []byte(exampleConfig), 0600); err != nil {
		fatal("failed to write config file", err)
	}

	fmt.Println("Config file created:", configInitPath)
	fmt.Println("\nEdit it, then check with 'igfetch config validate'.")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile)
	if err != nil {
		fatal("failed to load config", err)
	}

	// never print credentials
	display := *cfg
	display.Instagram.SessionID = maskValue(cfg.Instagram.SessionID)
	display.Instagram.CSRFToken = maskValue(cfg.Instagram.CSRFToken)
	display.Instagram.DSUserID = maskValue(cfg.Instagram.DSUserID)

	data, err := yaml.Marshal(&display)
	if err != nil {
		fatal("failed to render config", err)
	}
	fmt.Print(string(data))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile)
	if err != nil {
		fatal("failed to load config", err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Configuration is invalid:")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid.")
	if cfg.HasSession() {
		fmt.Println("Session credentials are configured.")
	} else {
		fmt.Println("No session configured; extraction will use anonymous access.")
	}
}

func maskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 8 {
		return "********"
	}
	return v[:4] + "..." + v[len(v)-4:]
}
