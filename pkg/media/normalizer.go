package media

import (
	"net/url"
	"path"
	"strings"

	"igfetch/pkg/instagram"
)

// Options controls which assets Normalize emits and how files are named.
type Options struct {
	IncludeVideos    bool
	IncludeImages    bool
	FilenameTemplate string
	ContentKind      ContentKind
}

// DefaultTemplate is used when Options carries no filename template.
const DefaultTemplate = "{username}_{shortcode}_{num}.{extension}"

// Normalize converts one raw post record (possibly a carousel) into zero or
// more descriptors, selecting best-resolution assets per sub-item.
//
// Emission rules: a video is emitted when enabled and present. An image is
// emitted when enabled and present, except for story and highlight items,
// where the image is suppressed whenever the same item carries a video
// (stories are either/or; for regular posts the image is the poster frame
// and a distinct asset).
func Normalize(post *instagram.RawPost, opts Options) []Descriptor {
	if post == nil {
		return nil
	}
	if opts.ContentKind == "" {
		opts.ContentKind = ContentPost
	}

	subItems := post.CarouselMedia
	if len(subItems) == 0 {
		subItems = []instagram.RawPost{*post}
	}
	isCarousel := len(subItems) > 1
	storyLike := opts.ContentKind == ContentStory || opts.ContentKind == ContentHighlight

	var out []Descriptor
	for i, item := range subItems {
		meta := Metadata{
			PostID:      postID(post),
			Shortcode:   post.Code,
			Username:    post.User.Username,
			Timestamp:   itemTimestamp(post, &item),
			Caption:     captionText(post),
			IsCarousel:  isCarousel,
			ContentKind: opts.ContentKind,
			Likes:       post.LikeCount,
			Comments:    post.CommentCount,
		}
		if isCarousel {
			meta.CarouselIndex = i + 1
		}

		video := bestVideo(item.VideoVersions)
		image := bestImage(item.ImageVersions)

		if opts.IncludeVideos && video != nil {
			m := meta
			m.Width, m.Height = video.Width, video.Height
			out = append(out, newDescriptor(video.URL, KindVideo, m, opts.FilenameTemplate))
		}
		if opts.IncludeImages && image != nil && !(storyLike && video != nil) {
			m := meta
			m.Width, m.Height = image.Width, image.Height
			out = append(out, newDescriptor(image.URL, KindImage, m, opts.FilenameTemplate))
		}
	}
	return out
}

// bestVideo returns the maximal width*height version; ties go to the first
// encountered maximum.
func bestVideo(versions []instagram.VideoVersion) *instagram.VideoVersion {
	var best *instagram.VideoVersion
	bestArea := -1
	for i := range versions {
		if versions[i].URL == "" {
			continue
		}
		area := versions[i].Width * versions[i].Height
		if area > bestArea {
			best = &versions[i]
			bestArea = area
		}
	}
	return best
}

// bestImage returns the maximal width*height candidate; ties go to the
// first encountered maximum.
func bestImage(iv *instagram.ImageVersions) *instagram.ImageCandidate {
	if iv == nil {
		return nil
	}
	var best *instagram.ImageCandidate
	bestArea := -1
	for i := range iv.Candidates {
		if iv.Candidates[i].URL == "" {
			continue
		}
		area := iv.Candidates[i].Width * iv.Candidates[i].Height
		if area > bestArea {
			best = &iv.Candidates[i]
			bestArea = area
		}
	}
	return best
}

func newDescriptor(assetURL string, kind Kind, meta Metadata, template string) Descriptor {
	ext := extensionFor(kind, assetURL)
	return Descriptor{
		URL:       assetURL,
		Kind:      kind,
		Extension: ext,
		Filename:  RenderFilename(template, meta, kind, ext),
		Meta:      meta,
	}
}

// extensionFor fixes the container extension by kind: videos are always
// mp4; image extensions derive from the source URL path, defaulting to jpg.
func extensionFor(kind Kind, assetURL string) string {
	if kind == KindVideo {
		return "mp4"
	}
	if u, err := url.Parse(assetURL); err == nil {
		if ext := strings.TrimPrefix(path.Ext(u.Path), "."); ext != "" {
			return strings.ToLower(ext)
		}
	}
	return "jpg"
}

func postID(post *instagram.RawPost) string {
	if post.PK.String() != "" {
		return post.PK.String()
	}
	return post.ID
}

func captionText(post *instagram.RawPost) string {
	if post.Caption == nil {
		return ""
	}
	return post.Caption.Text
}

// itemTimestamp prefers the sub-item's own timestamp; carousel children
// sometimes omit it, in which case the parent's applies.
func itemTimestamp(post *instagram.RawPost, item *instagram.RawPost) int64 {
	if item.TakenAt != 0 {
		return item.TakenAt
	}
	return post.TakenAt
}
