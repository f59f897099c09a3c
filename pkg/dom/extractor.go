package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"igfetch/pkg/errors"
	"igfetch/pkg/logger"
	"igfetch/pkg/media"
)

// Options controls what the fallback emits and how files are named.
type Options struct {
	IncludeVideos    bool
	IncludeImages    bool
	FilenameTemplate string
}

// DefaultOptions enables both kinds.
func DefaultOptions() Options {
	return Options{IncludeVideos: true, IncludeImages: true}
}

// Extract scrapes a rendered Instagram page when API access is
// unavailable. It tries the embedded server-rendered JSON payloads first
// and falls back to scanning raw img/video elements only when that yields
// nothing. The result is deduplicated by source URL, order preserved; it
// is a snapshot of the page, never paginated.
func Extract(html string, opts Options) ([]media.Descriptor, error) {
	return ExtractWithLogger(html, opts, logger.GetLogger())
}

// ExtractWithLogger is Extract with an explicit logger.
func ExtractWithLogger(html string, opts Options, log logger.Logger) ([]media.Descriptor, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneric, err, "failed to parse page")
	}

	descriptors := extractFromEmbeddedJSON(doc, opts, log)
	if len(descriptors) == 0 {
		log.Debug("embedded JSON yielded nothing, scanning rendered elements")
		descriptors = extractFromElements(doc, opts)
	}

	return dedupeByURL(descriptors), nil
}

// dedupeByURL drops descriptors whose source URL was already seen,
// keeping first occurrences in order.
func dedupeByURL(in []media.Descriptor) []media.Descriptor {
	seen := make(map[string]bool, len(in))
	out := make([]media.Descriptor, 0, len(in))
	for _, d := range in {
		if d.URL == "" || seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		out = append(out, d)
	}
	return out
}
