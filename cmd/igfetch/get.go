package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"igfetch/internal/downloader"
	"igfetch/pkg/auth"
	"igfetch/pkg/config"
	"igfetch/pkg/errors"
	"igfetch/pkg/extractor"
	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/media"
	"igfetch/pkg/ratelimit"
	"igfetch/pkg/retry"
)

var (
	outputDir   string
	template    string
	maxItems    int
	noVideos    bool
	noImages    bool
	dryRun      bool
	overwrite   bool
	delayMin    time.Duration
	delayMax    time.Duration
	accountName string
	maxRetries  int
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Extract and download media from an Instagram URL",
	Long: `Extract media from an Instagram URL and download it.

Supported URL shapes:
  https://www.instagram.com/p/<shortcode>/          single post
  https://www.instagram.com/reel/<shortcode>/       reel
  https://www.instagram.com/<username>/             full profile feed
  https://www.instagram.com/<username>/reels/       user reels
  https://www.instagram.com/<username>/tagged/      tagged posts
  https://www.instagram.com/stories/<username>/     active stories
  https://www.instagram.com/stories/highlights/<id>/ one highlight
  https://www.instagram.com/<username>/highlights/  all highlights
  https://www.instagram.com/<username>/saved/       saved posts
  https://www.instagram.com/<u>/saved/<name>/<id>/  saved collection

Most shapes require a stored session ('igfetch auth login').`,
	Example: `  # Download one post
  igfetch get https://www.instagram.com/p/CxyzAbc1234/

  # First 50 items of a profile, images only
  igfetch get https://www.instagram.com/natgeo/ --max-items 50 --no-videos

  # See what would be downloaded
  igfetch get https://www.instagram.com/natgeo/ --dry-run`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from config)")
	getCmd.Flags().StringVarP(&template, "template", "t", "", "filename template")
	getCmd.Flags().IntVarP(&maxItems, "max-items", "n", 0, "stop after this many items (0 = no limit)")
	getCmd.Flags().BoolVar(&noVideos, "no-videos", false, "skip video assets")
	getCmd.Flags().BoolVar(&noImages, "no-images", false, "skip image assets")
	getCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list media without downloading")
	getCmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing files")
	getCmd.Flags().DurationVar(&delayMin, "delay-min", 0, "minimum delay between page fetches")
	getCmd.Flags().DurationVar(&delayMax, "delay-max", 0, "maximum delay between page fetches")
	getCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	getCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "retry attempts for rate limited or failed requests")
}

func runGet(cmd *cobra.Command, args []string) {
	rawURL := strings.TrimSpace(args[0])

	cfg, err := loadConfig()
	if err != nil {
		fatal("failed to load configuration", err)
	}
	applyGetFlags(cfg)

	log := logger.GetLogger()

	client := buildClient(cfg, log)
	registry := extractor.NewRegistry(client, extractorOptions(cfg), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	descriptors, err := extractWithRetry(ctx, registry, rawURL, log)
	if err != nil {
		fatal(errors.UserMessage(err), nil)
	}
	if len(descriptors) == 0 {
		fmt.Println("No media found.")
		return
	}

	if dryRun {
		printDescriptors(descriptors)
		return
	}

	manager, err := downloader.NewManager(client, downloader.Config{
		Directory:         cfg.Output.Directory,
		OverwriteExisting: cfg.Output.OverwriteExisting,
		Timeout:           cfg.Download.Timeout,
		HistoryFile:       cfg.Output.HistoryFile,
	}, log)
	if err != nil {
		fatal("failed to prepare output directory", err)
	}
	go func() {
		<-ctx.Done()
		manager.CancelAll()
	}()

	report := manager.DownloadBatch(ctx, descriptors, downloader.BatchOptions{
		MinDelay: cfg.Download.MinItemDelay,
		OnProgress: func(p downloader.Progress) {
			if !quiet {
				fmt.Printf("\r[%d/%d] %s", p.Completed, p.Total, p.CurrentFilename)
			}
		},
	})
	if !quiet {
		fmt.Println()
	}

	fmt.Printf("Downloaded %d/%d", report.Completed, report.Total)
	if report.Skipped > 0 {
		fmt.Printf(" (%d already present)", report.Skipped)
	}
	fmt.Println()

	if len(report.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "%d failed:\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.Filename, errors.UserMessage(f.Err))
		}
		os.Exit(1)
	}
}

// applyGetFlags folds command-line overrides into the loaded config.
func applyGetFlags(cfg *config.Config) {
	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}
	if template != "" {
		cfg.Output.FilenameTemplate = template
	}
	if maxItems > 0 {
		cfg.Extract.MaxItems = maxItems
	}
	if noVideos {
		cfg.Download.IncludeVideos = false
	}
	if noImages {
		cfg.Download.IncludeImages = false
	}
	if overwrite {
		cfg.Output.OverwriteExisting = true
	}
	if delayMin > 0 {
		cfg.RateLimit.ProfileDelayMin = delayMin
		cfg.RateLimit.SavedDelayMin = delayMin
	}
	if delayMax > 0 {
		cfg.RateLimit.ProfileDelayMax = delayMax
		cfg.RateLimit.SavedDelayMax = delayMax
	}
}

// buildClient builds the API client with a session from the credential
// store, the config, or nothing. Anonymous clients still handle public
// posts.
func buildClient(cfg *config.Config, log logger.Logger) *instagram.Client {
	limiter := ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	client := instagram.NewClient(cfg.Download.Timeout, limiter, log)

	if session := resolveSession(cfg, log); session != nil {
		client.SetSession(session)
	}
	return client
}

func resolveSession(cfg *config.Config, log logger.Logger) *instagram.Session {
	if manager, err := auth.NewManager(); err == nil {
		var account *auth.Account
		var err error
		if accountName != "" {
			account, err = manager.Retrieve(accountName)
			if err != nil {
				fatal("stored account not found: "+accountName, nil)
			}
		} else {
			account, err = manager.RetrieveDefault()
		}
		if err == nil && account.Usable() {
			log.WithField("account", account.Username).Debug("using stored session")
			session := account.Session()
			if session.UserAgent == "" {
				session.UserAgent = cfg.Instagram.UserAgent
			}
			return session
		}
	}

	if cfg.HasSession() {
		log.Debug("using session from configuration")
		return &instagram.Session{
			SessionID: cfg.Instagram.SessionID,
			CSRFToken: cfg.Instagram.CSRFToken,
			DSUserID:  cfg.Instagram.DSUserID,
			UserAgent: cfg.Instagram.UserAgent,
		}
	}

	log.Debug("no session configured, proceeding anonymously")
	return nil
}

func extractorOptions(cfg *config.Config) extractor.Options {
	return extractor.Options{
		IncludeVideos:    cfg.Download.IncludeVideos,
		IncludeImages:    cfg.Download.IncludeImages,
		FilenameTemplate: cfg.Output.FilenameTemplate,
		MaxItems:         cfg.Extract.MaxItems,
		ProfileDelay:     ratelimit.NewDelayWindow(cfg.RateLimit.ProfileDelayMin, cfg.RateLimit.ProfileDelayMax),
		SavedDelay:       ratelimit.NewDelayWindow(cfg.RateLimit.SavedDelayMin, cfg.RateLimit.SavedDelayMax),
	}
}

// extractWithRetry runs a full extraction, retrying from scratch on rate
// limiting or transport failures. Streams are single-use, so a retry
// means a fresh Extract.
func extractWithRetry(ctx context.Context, registry *extractor.Registry, rawURL string, log logger.Logger) ([]media.Descriptor, error) {
	retrier := retry.NewFetchRetrier(maxRetries, log)
	retrier.Retrier = retrier.WithContext(ctx)

	var descriptors []media.Descriptor
	err := retrier.Do(func() error {
		stream, err := registry.Extract(ctx, rawURL)
		if err != nil {
			return err
		}
		descriptors, err = stream.Collect()
		return err
	})
	return descriptors, err
}

func printDescriptors(descriptors []media.Descriptor) {
	for _, d := range descriptors {
		fmt.Printf("%-5s  %s\n", d.Kind, d.Filename)
		fmt.Printf("       %s\n", d.URL)
	}
	fmt.Printf("%d item(s)\n", len(descriptors))
}
