package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igfetch/internal/downloader"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past downloads",
	Long: `Show the download history recorded in the configured history file.

History is only recorded when output.history_file is set in the config.`,
	Run: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "show at most this many entries (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if cfg.Output.HistoryFile == "" {
		fmt.Println("No history file configured. Set output.history_file in your config.")
		return
	}

	records, err := downloader.NewHistory(cfg.Output.HistoryFile).Load()
	if err != nil {
		fatal("failed to read history", err)
	}
	if len(records) == 0 {
		fmt.Println("No downloads recorded.")
		return
	}

	if historyLimit > 0 && len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	for _, rec := range records {
		status := string(rec.Status)
		if rec.Skipped {
			status = "skipped"
		}
		fmt.Printf("%s  %-9s  %-8s  %s", rec.FinishedAt.Format("2006-01-02 15:04"), status, formatBytes(rec.Bytes), rec.Filename)
		if rec.Error != "" {
			fmt.Printf("  (%s)", rec.Error)
		}
		fmt.Println()
	}
	fmt.Fprintf(os.Stdout, "%d entr%s\n", len(records), pluralY(len(records)))
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
