package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igfetch/pkg/dom"
	"igfetch/pkg/logger"
)

var parseDOMJSON bool

var parseDOMCmd = &cobra.Command{
	Use:   "parse-dom <file>",
	Short: "Extract media from a saved Instagram HTML page",
	Long: `Extract media from a saved Instagram page without touching the API.

This is the fallback path for when API access is unavailable: save the
rendered page from your browser (Ctrl+S, or copy the DOM from devtools)
and run it through the parser. Embedded JSON payloads are tried first;
if none decode, the raw img/video elements are scanned.`,
	Example: `  # List media found in a saved page
  igfetch parse-dom post.html

  # Machine-readable output
  igfetch parse-dom post.html --json`,
	Args: cobra.ExactArgs(1),
	Run:  runParseDOM,
}

func init() {
	rootCmd.AddCommand(parseDOMCmd)

	parseDOMCmd.Flags().StringVarP(&template, "template", "t", "", "filename template")
	parseDOMCmd.Flags().BoolVar(&noVideos, "no-videos", false, "skip video assets")
	parseDOMCmd.Flags().BoolVar(&noImages, "no-images", false, "skip image assets")
	parseDOMCmd.Flags().BoolVar(&parseDOMJSON, "json", false, "emit descriptors as JSON")
}

func runParseDOM(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("failed to load configuration", err)
	}

	html, err := os.ReadFile(args[0])
	if err != nil {
		fatal("failed to read page", err)
	}

	opts := dom.Options{
		IncludeVideos:    cfg.Download.IncludeVideos && !noVideos,
		IncludeImages:    cfg.Download.IncludeImages && !noImages,
		FilenameTemplate: cfg.Output.FilenameTemplate,
	}
	if template != "" {
		opts.FilenameTemplate = template
	}

	descriptors, err := dom.ExtractWithLogger(string(html), opts, logger.GetLogger())
	if err != nil {
		fatal("failed to parse page", err)
	}
	if len(descriptors) == 0 {
		fmt.Println("No media found.")
		return
	}

	if parseDOMJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(descriptors); err != nil {
			fatal("failed to encode output", err)
		}
		return
	}
	printDescriptors(descriptors)
}
