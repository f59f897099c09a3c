package extractor

import (
	"context"
	"net/url"

	"igfetch/pkg/errors"
	"igfetch/pkg/media"
)

// PostStrategy handles single-post URLs: /p/<shortcode>/, /reel/<shortcode>/
// and /tv/<shortcode>/.
type PostStrategy struct {
	client Client
	opts   Options
}

func (s *PostStrategy) Name() string { return "post" }

func (s *PostStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	if len(segs) < 2 {
		return false
	}
	switch segs[0] {
	case "p", "reel", "tv":
		return true
	}
	return false
}

func (s *PostStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	if len(segs) < 2 {
		return nil, errors.Newf(errors.KindInvalidURL, "post URL %q carries no shortcode", u.Path)
	}
	shortcode := segs[1]

	post, err := s.client.FetchPost(ctx, shortcode)
	if err != nil {
		return nil, err
	}

	kind := media.ContentPost
	if segs[0] == "reel" {
		kind = media.ContentReel
	}

	descriptors := media.Normalize(post, media.Options{
		IncludeVideos:    s.opts.IncludeVideos,
		IncludeImages:    s.opts.IncludeImages,
		FilenameTemplate: s.opts.FilenameTemplate,
		ContentKind:      kind,
	})
	return newSliceStream(descriptors, s.opts.MaxItems), nil
}
