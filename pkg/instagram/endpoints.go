package instagram

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for Instagram.
	BaseURL = "https://www.instagram.com"

	// AppID identifies the client as the browser web app.
	AppID = "936619743392459"

	// Request header names.
	HeaderAppID     = "X-IG-App-ID"
	HeaderCSRFToken = "X-CSRFToken"
	HeaderClaim     = "X-IG-WWW-Claim"

	// HeaderSetClaim is the response header carrying a refreshed anti-abuse
	// claim token; its value must be echoed on subsequent requests.
	HeaderSetClaim = "x-ig-set-www-claim"

	// CursorParam is the fixed query/form parameter pagination cursors
	// travel under, passed back verbatim.
	CursorParam = "max_id"

	// DefaultPageSize is the item count requested per page.
	DefaultPageSize = 12
)

func profileInfoURL(username string) string {
	params := url.Values{}
	params.Set("username", username)
	return fmt.Sprintf("/api/v1/users/web_profile_info/?%s", params.Encode())
}

func mediaInfoURL(mediaID string) string {
	return fmt.Sprintf("/api/v1/media/%s/info/", url.PathEscape(mediaID))
}

func userFeedURL(userID, cursor string) string {
	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", DefaultPageSize))
	if cursor != "" {
		params.Set(CursorParam, cursor)
	}
	return fmt.Sprintf("/api/v1/feed/user/%s/?%s", url.PathEscape(userID), params.Encode())
}

func userTaggedURL(userID, cursor string) string {
	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", DefaultPageSize))
	if cursor != "" {
		params.Set(CursorParam, cursor)
	}
	return fmt.Sprintf("/api/v1/usertags/%s/feed/?%s", url.PathEscape(userID), params.Encode())
}

const clipsUserURL = "/api/v1/clips/user/"

func reelsMediaURL(reelIDs []string) string {
	params := url.Values{}
	for _, id := range reelIDs {
		params.Add("reel_ids", id)
	}
	return fmt.Sprintf("/api/v1/feed/reels_media/?%s", params.Encode())
}

func highlightTrayURL(userID string) string {
	return fmt.Sprintf("/api/v1/highlights/%s/highlights_tray/", url.PathEscape(userID))
}

func savedPostsURL(cursor string) string {
	params := url.Values{}
	if cursor != "" {
		params.Set(CursorParam, cursor)
	}
	if enc := params.Encode(); enc != "" {
		return "/api/v1/feed/saved/posts/?" + enc
	}
	return "/api/v1/feed/saved/posts/"
}

func collectionPostsURL(collectionID, cursor string) string {
	params := url.Values{}
	if cursor != "" {
		params.Set(CursorParam, cursor)
	}
	base := fmt.Sprintf("/api/v1/feed/collection/%s/posts/", url.PathEscape(collectionID))
	if enc := params.Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

// IsValidUsername checks a username against Instagram's rules: at most 30
// characters drawn from letters, digits, periods and underscores.
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}
	return true
}
