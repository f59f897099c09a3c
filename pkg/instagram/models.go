package instagram

import "encoding/json"

// RawPost is one provider-native media record. A carousel post nests its
// sub-items under CarouselMedia; single posts carry their assets directly.
type RawPost struct {
	PK            json.Number    `json:"pk"`
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	MediaType     int            `json:"media_type"`
	TakenAt       int64          `json:"taken_at"`
	CarouselMedia []RawPost      `json:"carousel_media,omitempty"`
	ImageVersions *ImageVersions `json:"image_versions2,omitempty"`
	VideoVersions []VideoVersion `json:"video_versions,omitempty"`
	User          RawUser        `json:"user"`
	Caption       *Caption       `json:"caption,omitempty"`
	LikeCount     int            `json:"like_count"`
	CommentCount  int            `json:"comment_count"`
}

// Provider media_type values.
const (
	MediaTypeImage    = 1
	MediaTypeVideo    = 2
	MediaTypeCarousel = 8
)

// ImageVersions holds the image candidate list for one media item.
type ImageVersions struct {
	Candidates []ImageCandidate `json:"candidates"`
}

// ImageCandidate is one resolution variant of an image asset.
type ImageCandidate struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// VideoVersion is one resolution variant of a video asset.
type VideoVersion struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Caption wraps a post caption.
type Caption struct {
	Text string `json:"text"`
}

// RawUser is the owning user embedded in media records.
type RawUser struct {
	PK        json.Number `json:"pk"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	IsPrivate bool        `json:"is_private"`
}

// UserInfo is the resolved profile for a username.
type UserInfo struct {
	ID               string
	Username         string
	FullName         string
	IsPrivate        bool
	FollowedByViewer bool
	MediaCount       int
}

// MediaPage is one page of a cursor-paginated media listing. NextMaxID is
// the opaque provider cursor, passed back verbatim.
type MediaPage struct {
	Items         []*RawPost
	MoreAvailable bool
	NextMaxID     string
}

// Reel is one story or highlight reel: an ordered list of story items.
type Reel struct {
	ID    string     `json:"id"`
	Items []*RawPost `json:"items"`
	User  RawUser    `json:"user"`
	Title string     `json:"title,omitempty"`
}

// HighlightEntry is one entry of a user's highlight tray.
type HighlightEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Wire envelopes. These mirror the provider's response shapes and never
// leak past the client.

type webProfileResponse struct {
	Data struct {
		User struct {
			ID               string `json:"id"`
			Username         string `json:"username"`
			FullName         string `json:"full_name"`
			IsPrivate        bool   `json:"is_private"`
			FollowedByViewer bool   `json:"followed_by_viewer"`
			EdgeTimeline     struct {
				Count int `json:"count"`
			} `json:"edge_owner_to_timeline_media"`
		} `json:"user"`
	} `json:"data"`
	Status string `json:"status"`
}

type mediaInfoResponse struct {
	Items  []*RawPost `json:"items"`
	Status string     `json:"status"`
}

type feedResponse struct {
	Items         []*RawPost `json:"items"`
	MoreAvailable bool       `json:"more_available"`
	NextMaxID     string     `json:"next_max_id"`
	Status        string     `json:"status"`
}

type wrappedItem struct {
	Media *RawPost `json:"media"`
}

type clipsResponse struct {
	Items      []wrappedItem `json:"items"`
	PagingInfo struct {
		MaxID         string `json:"max_id"`
		MoreAvailable bool   `json:"more_available"`
	} `json:"paging_info"`
	Status string `json:"status"`
}

type reelsMediaResponse struct {
	Reels  map[string]*Reel `json:"reels"`
	Status string           `json:"status"`
}

type highlightTrayResponse struct {
	Tray   []HighlightEntry `json:"tray"`
	Status string           `json:"status"`
}

type savedResponse struct {
	Items         []wrappedItem `json:"items"`
	MoreAvailable bool          `json:"more_available"`
	NextMaxID     string        `json:"next_max_id"`
	Status        string        `json:"status"`
}
