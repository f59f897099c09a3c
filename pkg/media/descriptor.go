package media

// Kind distinguishes the two downloadable asset kinds.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ContentKind names the content shape a descriptor came from.
type ContentKind string

const (
	ContentPost      ContentKind = "post"
	ContentStory     ContentKind = "story"
	ContentReel      ContentKind = "reel"
	ContentHighlight ContentKind = "highlight"
)

// Metadata describes the post a media asset belongs to. CarouselIndex is
// set (1-based, source order) exactly when IsCarousel is true.
type Metadata struct {
	PostID        string
	Shortcode     string
	Username      string
	Timestamp     int64
	Caption       string
	Width         int
	Height        int
	IsCarousel    bool
	CarouselIndex int
	ContentKind   ContentKind
	Likes         int
	Comments      int
}

// Descriptor is the canonical output shape of extraction: one downloadable
// asset, decoupled from any provider response structure. Immutable once
// produced.
type Descriptor struct {
	URL       string
	Kind      Kind
	Filename  string
	Extension string
	Meta      Metadata
}
