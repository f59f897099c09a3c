package extractor

import (
	"context"
	"net/url"
	"strings"

	"igfetch/pkg/errors"
	"igfetch/pkg/instagram"
	"igfetch/pkg/media"
)

// highlightReelPrefix is the provider's reel-ID namespace for highlights.
const highlightReelPrefix = "highlight:"

// HighlightStrategy handles the two highlight entry points: a direct
// highlight id (/stories/highlights/<id>/) and all highlights of a user
// (/<username>/highlights/), which discovers ids via the tray endpoint and
// fans out to the by-id path sequentially.
type HighlightStrategy struct {
	client Client
	opts   Options
}

func (s *HighlightStrategy) Name() string { return "highlights" }

func (s *HighlightStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	if len(segs) >= 3 && segs[0] == "stories" && segs[1] == "highlights" {
		return true
	}
	return len(segs) == 2 && usernameSegment(segs[0]) && segs[1] == "highlights"
}

func (s *HighlightStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	if segs[0] == "stories" {
		return s.extractByID(ctx, segs[2])
	}
	return s.extractAllForUser(ctx, segs[0])
}

// extractByID fetches one highlight reel.
func (s *HighlightStrategy) extractByID(ctx context.Context, highlightID string) (*Stream, error) {
	reelID := highlightID
	if !strings.HasPrefix(reelID, highlightReelPrefix) {
		reelID = highlightReelPrefix + highlightID
	}

	reels, err := s.client.FetchReelsMedia(ctx, []string{reelID})
	if err != nil {
		return nil, err
	}
	reel, ok := reels[reelID]
	if !ok {
		return nil, errors.Newf(errors.KindNotFound, "highlight %q not found", highlightID)
	}
	return newSliceStream(s.normalizeReel(reel), s.opts.MaxItems), nil
}

// extractAllForUser reads the tray and chains each entry's by-id stream
// lazily, one reel fetch at a time.
func (s *HighlightStrategy) extractAllForUser(ctx context.Context, username string) (*Stream, error) {
	info, err := resolveAccessibleUser(ctx, s.client, username)
	if err != nil {
		return nil, err
	}

	tray, err := s.client.FetchHighlightTray(ctx, info.ID)
	if err != nil {
		return nil, err
	}

	factories := make([]func(ctx context.Context) (*Stream, error), 0, len(tray))
	for _, entry := range tray {
		id := entry.ID
		factories = append(factories, func(ctx context.Context) (*Stream, error) {
			return s.extractByID(ctx, id)
		})
	}
	return newChainStream(ctx, factories, s.opts.MaxItems), nil
}

func (s *HighlightStrategy) normalizeReel(reel *instagram.Reel) []media.Descriptor {
	var out []media.Descriptor
	for _, item := range reel.Items {
		item.User = reel.User
		out = append(out, media.Normalize(item, media.Options{
			IncludeVideos:    s.opts.IncludeVideos,
			IncludeImages:    s.opts.IncludeImages,
			FilenameTemplate: s.opts.FilenameTemplate,
			ContentKind:      media.ContentHighlight,
		})...)
	}
	return out
}
