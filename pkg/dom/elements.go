package dom

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"igfetch/pkg/media"
)

// extractFromElements is the last-resort path: scan rendered img and
// video elements directly. Post metadata is unavailable at this level, so
// descriptors carry empty metadata and filenames render with the literal
// unknown placeholders.
func extractFromElements(doc *goquery.Document, opts Options) []media.Descriptor {
	var out []media.Descriptor

	if opts.IncludeImages {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			src := bestSrcsetCandidate(s.AttrOr("srcset", ""))
			if src == "" {
				src = s.AttrOr("src", "")
			}
			if !downloadableURL(src) {
				return
			}
			out = append(out, elementDescriptor(src, media.KindImage, opts))
		})
	}

	if opts.IncludeVideos {
		doc.Find("video").Each(func(_ int, s *goquery.Selection) {
			src := s.AttrOr("src", "")
			if src == "" {
				src = s.Find("source").First().AttrOr("src", "")
			}
			if !downloadableURL(src) {
				return
			}
			out = append(out, elementDescriptor(src, media.KindVideo, opts))
		})
	}

	return out
}

// bestSrcsetCandidate picks the widest entry of a srcset attribute. An
// entry is "url 1080w"; entries without a width descriptor lose to any
// entry that has one.
func bestSrcsetCandidate(srcset string) string {
	var best string
	bestWidth := -1
	for _, entry := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(entry))
		if len(fields) == 0 {
			continue
		}
		width := 0
		if len(fields) > 1 && strings.HasSuffix(fields[1], "w") {
			if n, err := strconv.Atoi(strings.TrimSuffix(fields[1], "w")); err == nil {
				width = n
			}
		}
		if width > bestWidth {
			best = fields[0]
			bestWidth = width
		}
	}
	return best
}

// downloadableURL rejects blob and data URLs, which cannot be fetched
// outside the rendering browser.
func downloadableURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func elementDescriptor(src string, kind media.Kind, opts Options) media.Descriptor {
	meta := media.Metadata{ContentKind: media.ContentPost}
	ext := "mp4"
	if kind == media.KindImage {
		ext = "jpg"
		if u, err := url.Parse(src); err == nil {
			if e := strings.TrimPrefix(path.Ext(u.Path), "."); e != "" {
				ext = strings.ToLower(e)
			}
		}
	}
	return media.Descriptor{
		URL:       src,
		Kind:      kind,
		Extension: ext,
		Filename:  media.RenderFilename(opts.FilenameTemplate, meta, kind, ext),
		Meta:      meta,
	}
}
