package dom

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"igfetch/pkg/instagram"
	"igfetch/pkg/logger"
	"igfetch/pkg/media"
)

// Keys that signal a decodable media payload inside server-rendered JSON.
// shortcode_media and edge_owner_to_timeline_media carry the GraphQL
// shape; items carries the private-API shape.
const (
	keyShortcodeMedia = "shortcode_media"
	keyTimelineMedia  = "edge_owner_to_timeline_media"
	keyItems          = "items"
)

// extractFromEmbeddedJSON pulls every JSON payload out of the page's
// script tags and recursively searches each for known media keys.
func extractFromEmbeddedJSON(doc *goquery.Document, opts Options, log logger.Logger) []media.Descriptor {
	var out []media.Descriptor

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		payload := scriptJSON(s)
		if payload == "" {
			return
		}
		var root interface{}
		if err := json.Unmarshal([]byte(payload), &root); err != nil {
			return
		}
		walkJSON(root, func(key string, val interface{}) {
			switch key {
			case keyShortcodeMedia:
				out = append(out, decodeGraphNode(val, opts)...)
			case keyTimelineMedia:
				out = append(out, decodeGraphConnection(val, opts)...)
			case keyItems:
				out = append(out, decodeItemList(val, opts)...)
			}
		})
	})

	if len(out) > 0 {
		log.DebugWithFields("extracted media from embedded JSON", map[string]interface{}{
			"count": len(out),
		})
	}
	return out
}

// scriptJSON returns the JSON text carried by a script element, or "".
// JSON script tags are taken verbatim; classic bootstrap assignments
// (window._sharedData = {...};) are sliced to their object literal.
func scriptJSON(s *goquery.Selection) string {
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return ""
	}
	if typ, _ := s.Attr("type"); typ == "application/json" {
		return text
	}
	if !strings.Contains(text, "window._sharedData") &&
		!strings.Contains(text, "window.__additionalDataLoaded") {
		return ""
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// walkJSON visits every key/value pair in a decoded JSON tree. Map keys
// are visited in sorted order so output order is stable across runs.
func walkJSON(v interface{}, visit func(key string, val interface{})) {
	switch t := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			visit(k, t[k])
			walkJSON(t[k], visit)
		}
	case []interface{}:
		for _, child := range t {
			walkJSON(child, visit)
		}
	}
}

// decodeItemList handles private-API item arrays. Entries that do not
// carry any downloadable asset are skipped rather than failing the page,
// which also filters out unrelated arrays that happen to be named items.
func decodeItemList(val interface{}, opts Options) []media.Descriptor {
	raw, err := json.Marshal(val)
	if err != nil {
		return nil
	}
	var items []*instagram.RawPost
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []media.Descriptor
	for _, item := range items {
		if item == nil || !hasAssets(item) {
			continue
		}
		out = append(out, media.Normalize(item, normalizeOptions(opts))...)
	}
	return out
}

func hasAssets(p *instagram.RawPost) bool {
	if p.ImageVersions != nil && len(p.ImageVersions.Candidates) > 0 {
		return true
	}
	if len(p.VideoVersions) > 0 {
		return true
	}
	return len(p.CarouselMedia) > 0
}

func normalizeOptions(opts Options) media.Options {
	return media.Options{
		IncludeVideos:    opts.IncludeVideos,
		IncludeImages:    opts.IncludeImages,
		FilenameTemplate: opts.FilenameTemplate,
		ContentKind:      media.ContentPost,
	}
}

// graphMedia is the GraphQL node shape server-rendered pages embed.
type graphMedia struct {
	ID         string `json:"id"`
	Shortcode  string `json:"shortcode"`
	IsVideo    bool   `json:"is_video"`
	VideoURL   string `json:"video_url"`
	DisplayURL string `json:"display_url"`
	Dimensions struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"dimensions"`
	DisplayResources []struct {
		Src    string `json:"src"`
		Width  int    `json:"config_width"`
		Height int    `json:"config_height"`
	} `json:"display_resources"`
	Owner struct {
		Username string `json:"username"`
	} `json:"owner"`
	TakenAt     int64 `json:"taken_at_timestamp"`
	EdgeCaption struct {
		Edges []struct {
			Node struct {
				Text string `json:"text"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"edge_media_to_caption"`
	EdgeLikes struct {
		Count int `json:"count"`
	} `json:"edge_media_preview_like"`
	EdgeComments struct {
		Count int `json:"count"`
	} `json:"edge_media_to_comment"`
	EdgeSidecar struct {
		Edges []struct {
			Node graphMedia `json:"node"`
		} `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

// decodeGraphNode handles a single shortcode_media node.
func decodeGraphNode(val interface{}, opts Options) []media.Descriptor {
	raw, err := json.Marshal(val)
	if err != nil {
		return nil
	}
	var node graphMedia
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil
	}
	post := node.toRawPost()
	if post == nil || !hasAssets(post) {
		return nil
	}
	return media.Normalize(post, normalizeOptions(opts))
}

// decodeGraphConnection handles edge_owner_to_timeline_media edge lists.
func decodeGraphConnection(val interface{}, opts Options) []media.Descriptor {
	raw, err := json.Marshal(val)
	if err != nil {
		return nil
	}
	var conn struct {
		Edges []struct {
			Node graphMedia `json:"node"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(raw, &conn); err != nil {
		return nil
	}
	var out []media.Descriptor
	for _, edge := range conn.Edges {
		post := edge.Node.toRawPost()
		if post == nil || !hasAssets(post) {
			continue
		}
		out = append(out, media.Normalize(post, normalizeOptions(opts))...)
	}
	return out
}

// toRawPost maps a GraphQL node onto the private-API record shape so the
// normal selection and naming rules apply to embedded payloads too.
func (g *graphMedia) toRawPost() *instagram.RawPost {
	if g == nil {
		return nil
	}
	post := &instagram.RawPost{
		PK:        json.Number(g.ID),
		ID:        g.ID,
		Code:      g.Shortcode,
		TakenAt:   g.TakenAt,
		LikeCount: g.EdgeLikes.Count,
	}
	post.CommentCount = g.EdgeComments.Count
	post.User.Username = g.Owner.Username
	if len(g.EdgeCaption.Edges) > 0 {
		post.Caption = &instagram.Caption{Text: g.EdgeCaption.Edges[0].Node.Text}
	}

	if len(g.EdgeSidecar.Edges) > 0 {
		post.MediaType = instagram.MediaTypeCarousel
		for _, edge := range g.EdgeSidecar.Edges {
			if child := edge.Node.toRawPost(); child != nil {
				post.CarouselMedia = append(post.CarouselMedia, *child)
			}
		}
		return post
	}

	if g.IsVideo && g.VideoURL != "" {
		post.MediaType = instagram.MediaTypeVideo
		post.VideoVersions = []instagram.VideoVersion{{
			URL:    g.VideoURL,
			Width:  g.Dimensions.Width,
			Height: g.Dimensions.Height,
		}}
	} else {
		post.MediaType = instagram.MediaTypeImage
	}

	candidates := make([]instagram.ImageCandidate, 0, len(g.DisplayResources)+1)
	for _, res := range g.DisplayResources {
		candidates = append(candidates, instagram.ImageCandidate{
			URL:    res.Src,
			Width:  res.Width,
			Height: res.Height,
		})
	}
	if len(candidates) == 0 && g.DisplayURL != "" {
		candidates = append(candidates, instagram.ImageCandidate{
			URL:    g.DisplayURL,
			Width:  g.Dimensions.Width,
			Height: g.Dimensions.Height,
		})
	}
	if len(candidates) > 0 {
		post.ImageVersions = &instagram.ImageVersions{Candidates: candidates}
	}
	return post
}
