package extractor

import (
	"context"
	"net/url"
	"strings"

	"igfetch/pkg/instagram"
	"igfetch/pkg/ratelimit"
)

// Client is the subset of the Instagram API client strategies depend on.
// Kept as an interface so strategies are trivially testable with fakes.
type Client interface {
	ResolveUser(ctx context.Context, username string) (*instagram.UserInfo, error)
	FetchPost(ctx context.Context, shortcode string) (*instagram.RawPost, error)
	FetchFeedPage(ctx context.Context, userID, cursor string) (*instagram.MediaPage, error)
	FetchReelsPage(ctx context.Context, userID, cursor string) (*instagram.MediaPage, error)
	FetchTaggedPage(ctx context.Context, userID, cursor string) (*instagram.MediaPage, error)
	FetchReelsMedia(ctx context.Context, reelIDs []string) (map[string]*instagram.Reel, error)
	FetchHighlightTray(ctx context.Context, userID string) ([]instagram.HighlightEntry, error)
	FetchSavedPage(ctx context.Context, cursor string) (*instagram.MediaPage, error)
	FetchCollectionPage(ctx context.Context, collectionID, cursor string) (*instagram.MediaPage, error)
}

// Strategy extracts media descriptors for one URL shape.
type Strategy interface {
	// Name identifies the strategy in logs and errors.
	Name() string
	// Match reports whether this strategy handles the URL.
	Match(u *url.URL) bool
	// Extract produces a lazy descriptor sequence for the URL. The
	// sequence is finite per call and not resumable across invocations.
	Extract(ctx context.Context, u *url.URL) (*Stream, error)
}

// Options holds the per-extraction settings shared by all strategies.
type Options struct {
	IncludeVideos    bool
	IncludeImages    bool
	FilenameTemplate string
	// MaxItems caps the number of descriptors per extraction; 0 = no cap.
	MaxItems int
	// ProfileDelay paces profile/feed page fetches.
	ProfileDelay ratelimit.DelayWindow
	// SavedDelay paces saved-item page fetches; saved browsing tolerates a
	// shorter window than profile browsing.
	SavedDelay ratelimit.DelayWindow
}

// DefaultOptions mirror the config defaults.
func DefaultOptions() Options {
	return Options{
		IncludeVideos: true,
		IncludeImages: true,
	}
}

// pathSegments splits a URL path into its non-empty segments.
func pathSegments(u *url.URL) []string {
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// instagramHost reports whether the URL points at Instagram.
func instagramHost(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == "instagram.com" || strings.HasSuffix(host, ".instagram.com")
}

// reservedSegments are top-level path segments that are never usernames.
var reservedSegments = map[string]bool{
	"p": true, "reel": true, "reels": true, "tv": true, "stories": true,
	"explore": true, "accounts": true, "direct": true, "about": true,
	"developer": true, "legal": true, "web": true, "graphql": true,
	"api": true,
}

func usernameSegment(seg string) bool {
	return !reservedSegments[seg] && instagram.IsValidUsername(seg)
}
