package extractor

import (
	"context"
	"net/url"

	"igfetch/pkg/media"
)

// StoriesStrategy handles /stories/<username>/ and
// /stories/<username>/<storyID>/. The provider serves the whole active
// reel in one call, so the result is not paginated.
type StoriesStrategy struct {
	client Client
	opts   Options
}

func (s *StoriesStrategy) Name() string { return "stories" }

func (s *StoriesStrategy) Match(u *url.URL) bool {
	segs := pathSegments(u)
	return len(segs) >= 2 && segs[0] == "stories" && segs[1] != "highlights" && usernameSegment(segs[1])
}

func (s *StoriesStrategy) Extract(ctx context.Context, u *url.URL) (*Stream, error) {
	segs := pathSegments(u)
	info, err := resolveAccessibleUser(ctx, s.client, segs[1])
	if err != nil {
		return nil, err
	}

	reels, err := s.client.FetchReelsMedia(ctx, []string{info.ID})
	if err != nil {
		return nil, err
	}

	var storyID string
	if len(segs) >= 3 {
		storyID = segs[2]
	}

	var descriptors []media.Descriptor
	if reel, ok := reels[info.ID]; ok {
		for _, item := range reel.Items {
			// A story item carries no owning user of its own.
			item.User = reel.User
			if storyID != "" && item.PK.String() != storyID {
				continue
			}
			descriptors = append(descriptors, media.Normalize(item, media.Options{
				IncludeVideos:    s.opts.IncludeVideos,
				IncludeImages:    s.opts.IncludeImages,
				FilenameTemplate: s.opts.FilenameTemplate,
				ContentKind:      media.ContentStory,
			})...)
		}
	}
	return newSliceStream(descriptors, s.opts.MaxItems), nil
}
