package extractor

import (
	"context"
	"net/url"

	"igfetch/pkg/errors"
	"igfetch/pkg/instagram"
	"igfetch/pkg/media"
	"igfetch/pkg/pagination"
)

// resolveAccessibleUser resolves a username and fails fast with a
// PrivateAccount error before any further calls when the resolved user is
// private and not followed by the viewer.
func resolveAccessibleUser(ctx context.Context, client Client, username string) (*instagram.UserInfo, error) {
	info, err := client.ResolveUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if info.IsPrivate && !info.FollowedByViewer {
		return nil, errors.Newf(errors.KindPrivateAccount, "account %q is private", username)
	}
	return info, nil
}

// pageFetcher adapts one of the client's cursor endpoints to the pager.
type pageFetcher func(ctx context.Context, cursor string) (*instagram.MediaPage, error)

func (s pageFetcher) fetch(ctx context.Context, cursor string) (pagination.Page[*instagram.RawPost], error) {
	page, err := s(ctx, cursor)
	if err != nil {
		return pagination.Page[*instagram.RawPost]{}, err
	}
	return pagination.Page[*instagram.RawPost]{
		Items:         page.Items,
		MoreAvailable: page.MoreAvailable,
		NextCursor:    page.NextMaxID,
	}, nil
}

// pagedExtract wires a cursor endpoint through the pager and normalizer
// into a capped descriptor stream. All paginated strategies share it.
func pagedExtract(ctx context.Context, fetch pageFetcher, opts Options, kind media.ContentKind, delay pagination.Option) *Stream {
	pager := pagination.New(ctx, fetch.fetch, delay)
	normalize := func(post *instagram.RawPost) []media.Descriptor {
		return media.Normalize(post, media.Options{
			IncludeVideos:    opts.IncludeVideos,
			IncludeImages:    opts.IncludeImages,
			FilenameTemplate: opts.FilenameTemplate,
			ContentKind:      kind,
		})
	}
	return newPagedStream(pager, normalize, opts.MaxItems)
}

// ProfileStrategy handles the generic profile URL /<username>/ and yields
// the user's feed. It is the least specific strategy and must come last in
// the registry.
type ProfileStrategy struct {
	client Client
	opts   Options
}

func (s *ProfileStrategy) Name() string { return "profile" }

func (s *ProfileStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	return len(segs) == 1 && usernameSegment(segs[0])
}

func (s *ProfileStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	info, err := resolveAccessibleUser(ctx, s.client, segs[0])
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) (*instagram.MediaPage, error) {
		return s.client.FetchFeedPage(ctx, info.ID, cursor)
	}
	return pagedExtract(ctx, fetch, s.opts, media.ContentPost, pagination.WithDelay(s.opts.ProfileDelay)), nil
}

// UserReelsStrategy handles /<username>/reels/.
type UserReelsStrategy struct {
	client Client
	opts   Options
}

func (s *UserReelsStrategy) Name() string { return "user_reels" }

func (s *UserReelsStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	return len(segs) == 2 && usernameSegment(segs[0]) && segs[1] == "reels"
}

func (s *UserReelsStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	info, err := resolveAccessibleUser(ctx, s.client, segs[0])
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) (*instagram.MediaPage, error) {
		return s.client.FetchReelsPage(ctx, info.ID, cursor)
	}
	return pagedExtract(ctx, fetch, s.opts, media.ContentReel, pagination.WithDelay(s.opts.ProfileDelay)), nil
}

// UserTaggedStrategy handles /<username>/tagged/.
type UserTaggedStrategy struct {
	client Client
	opts   Options
}

func (s *UserTaggedStrategy) Name() string { return "user_tagged" }

func (s *UserTaggedStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	return len(segs) == 2 && usernameSegment(segs[0]) && segs[1] == "tagged"
}

func (s *UserTaggedStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	info, err := resolveAccessibleUser(ctx, s.client, segs[0])
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context, cursor string) (*instagram.MediaPage, error) {
		return s.client.FetchTaggedPage(ctx, info.ID, cursor)
	}
	return pagedExtract(ctx, fetch, s.opts, media.ContentPost, pagination.WithDelay(s.opts.ProfileDelay)), nil
}
