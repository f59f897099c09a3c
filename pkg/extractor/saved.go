package extractor

import (
	"context"
	"net/url"

	"igfetch/pkg/instagram"
	"igfetch/pkg/media"
	"igfetch/pkg/pagination"
)

// SavedStrategy handles the viewer's saved posts at /<username>/saved/.
// Saved items belong to the viewer, so no private-account check applies.
type SavedStrategy struct {
	client Client
	opts   Options
}

func (s *SavedStrategy) Name() string { return "saved" }

func (s *SavedStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	if len(segs) == 2 && usernameSegment(segs[0]) && segs[1] == "saved" {
		return true
	}
	// /saved/all-posts/ is the provider's own "all saved" pseudo-collection.
	return len(segs) == 3 && usernameSegment(segs[0]) && segs[1] == "saved" && segs[2] == "all-posts"
}

func (s *SavedStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	fetch := func(ctx context.Context, cursor string) (*instagram.MediaPage, error) {
		return s.client.FetchSavedPage(ctx, cursor)
	}
	return pagedExtract(ctx, fetch, s.opts, media.ContentPost, pagination.WithDelay(s.opts.SavedDelay)), nil
}

// CollectionStrategy handles one saved collection at
// /<username>/saved/<name>/<collectionID>/.
type CollectionStrategy struct {
	client Client
	opts   Options
}

func (s *CollectionStrategy) Name() string { return "saved_collection" }

func (s *CollectionStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	return len(segs) == 4 && usernameSegment(segs[0]) && segs[1] == "saved" && isDigits(segs[3])
}

func (s *CollectionStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	collectionID := segs[3]

	fetch := func(ctx context.Context, cursor string) (*instagram.MediaPage, error) {
		return s.client.FetchCollectionPage(ctx, collectionID, cursor)
	}
	return pagedExtract(ctx, fetch, s.opts, media.ContentPost, pagination.WithDelay(s.opts.SavedDelay)), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
