package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"igfetch/pkg/errors"
	"igfetch/pkg/logger"
	"igfetch/pkg/ratelimit"
)

// challengeMarkers are the response-body signals that a 401/403 is a manual
// challenge rather than a plain authentication failure.
var challengeMarkers = []string{
	"challenge_required",
	"checkpoint_required",
	"checkpoint_challenge_required",
}

// Client performs authenticated calls against Instagram's private web API.
// The session is process-wide shared state replaced atomically; auth
// failures drop it so callers re-authenticate rather than hammering the
// provider with a dead cookie.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    atomic.Pointer[Session]
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates a client. A nil limiter disables the call budget; a nil
// logger falls back to the global one.
func NewClient(timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    BaseURL,
		limiter:    limiter,
		logger:     log,
	}
}

// SetBaseURL overrides the provider base URL, for tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

// SetSession installs a new session context, replacing any previous one.
func (c *Client) SetSession(s *Session) {
	c.session.Store(s)
}

// Session returns the current session context, which may be nil.
func (c *Client) Session() *Session {
	return c.session.Load()
}

// InvalidateSession drops the cached session. Called on authentication
// failures and credential changes.
func (c *Client) InvalidateSession() {
	c.session.Store(nil)
}

// Authenticated reports whether the client currently holds a session with
// login credentials.
func (c *Client) Authenticated() bool {
	return c.Session().Authenticated()
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set(HeaderAppID, AppID)

	s := c.Session()
	if s == nil {
		req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36")
		return
	}

	ua := s.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	}
	req.Header.Set("User-Agent", ua)
	if cookie := s.CookieHeader(); cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if s.CSRFToken != "" {
		req.Header.Set(HeaderCSRFToken, s.CSRFToken)
	}
	if s.ClaimToken != "" {
		req.Header.Set(HeaderClaim, s.ClaimToken)
	}
}

// updateClaim persists a refreshed claim token from a response. Replacement
// is last-write-wins over the whole session value.
func (c *Client) updateClaim(resp *http.Response) {
	claim := resp.Header.Get(HeaderSetClaim)
	if claim == "" {
		return
	}
	s := c.Session()
	if s == nil || s.ClaimToken == claim {
		return
	}
	c.session.Store(s.WithClaimToken(claim))
	c.logger.DebugWithFields("claim token updated", map[string]interface{}{
		"claim": claim,
	})
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	if c.limiter != nil {
		c.limiter.Wait()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneric, err, "failed to create request")
	}
	c.applyHeaders(req)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.ErrorWithFields("provider request failed", map[string]interface{}{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return nil, errors.Wrap(errors.KindNetwork, err, "request failed")
	}
	defer resp.Body.Close()

	logger.LogRequest(method, path, resp.StatusCode, float64(duration.Milliseconds()))

	c.updateClaim(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, err, "failed to read response body").WithCode(resp.StatusCode)
	}

	if err := c.classify(resp.StatusCode, data); err != nil {
		return nil, err
	}
	return data, nil
}

// classify maps an HTTP status (and, for the ambiguous 401/403 pair, body
// markers) onto the error taxonomy. Deterministic and side-effect free
// except for dropping the session on authentication failures.
func (c *Client) classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusTooManyRequests:
		return errors.New(errors.KindRateLimited, "rate limited by provider").WithCode(status)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		text := string(body)
		for _, marker := range challengeMarkers {
			if strings.Contains(text, marker) {
				return errors.New(errors.KindChallengeRequired, "provider requires a manual challenge").WithCode(status)
			}
		}
		c.InvalidateSession()
		return errors.New(errors.KindAuthenticationFailed, "authentication failed").WithCode(status)
	case status == http.StatusNotFound:
		return errors.New(errors.KindNotFound, "resource not found").WithCode(status)
	default:
		return errors.Newf(errors.KindGeneric, "unexpected status code %d", status).WithCode(status)
	}
}

func (c *Client) getJSON(ctx context.Context, path string, target interface{}) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.decode(path, data, target)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, target interface{}) error {
	data, err := c.do(ctx, http.MethodPost, path, form)
	if err != nil {
		return err
	}
	return c.decode(path, data, target)
}

func (c *Client) decode(path string, data []byte, target interface{}) error {
	if err := json.Unmarshal(data, target); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse response", map[string]interface{}{
			"path":         path,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errors.Wrap(errors.KindGeneric, err, "failed to parse provider response")
	}
	return nil
}

// ResolveUser resolves a username to its profile info, including the
// numeric ID strategies need for paginated endpoints.
func (c *Client) ResolveUser(ctx context.Context, username string) (*UserInfo, error) {
	if !IsValidUsername(username) {
		return nil, errors.Newf(errors.KindInvalidURL, "invalid username %q", username)
	}

	var resp webProfileResponse
	if err := c.getJSON(ctx, profileInfoURL(username), &resp); err != nil {
		return nil, err
	}
	u := resp.Data.User
	if u.ID == "" {
		return nil, errors.Newf(errors.KindNotFound, "user %q not found", username)
	}

	return &UserInfo{
		ID:               u.ID,
		Username:         u.Username,
		FullName:         u.FullName,
		IsPrivate:        u.IsPrivate,
		FollowedByViewer: u.FollowedByViewer,
		MediaCount:       u.EdgeTimeline.Count,
	}, nil
}

// FetchPost fetches one post by shortcode.
func (c *Client) FetchPost(ctx context.Context, shortcode string) (*RawPost, error) {
	mediaID, ok := ShortcodeToMediaID(shortcode)
	if !ok {
		return nil, errors.Newf(errors.KindInvalidURL, "invalid shortcode %q", shortcode)
	}

	var resp mediaInfoResponse
	if err := c.getJSON(ctx, mediaInfoURL(mediaID), &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, errors.Newf(errors.KindNotFound, "post %q not found", shortcode)
	}
	return resp.Items[0], nil
}

// FetchFeedPage fetches one page of a user's feed.
func (c *Client) FetchFeedPage(ctx context.Context, userID, cursor string) (*MediaPage, error) {
	var resp feedResponse
	if err := c.getJSON(ctx, userFeedURL(userID, cursor), &resp); err != nil {
		return nil, err
	}
	return &MediaPage{
		Items:         resp.Items,
		MoreAvailable: resp.MoreAvailable,
		NextMaxID:     resp.NextMaxID,
	}, nil
}

// FetchReelsPage fetches one page of a user's reels. The clips endpoint is
// the one paginated call that takes a form-url-encoded POST.
func (c *Client) FetchReelsPage(ctx context.Context, userID, cursor string) (*MediaPage, error) {
	form := url.Values{}
	form.Set("target_user_id", userID)
	form.Set("page_size", fmt.Sprintf("%d", DefaultPageSize))
	if cursor != "" {
		form.Set(CursorParam, cursor)
	}

	var resp clipsResponse
	if err := c.postForm(ctx, clipsUserURL, form, &resp); err != nil {
		return nil, err
	}
	return &MediaPage{
		Items:         unwrapItems(resp.Items),
		MoreAvailable: resp.PagingInfo.MoreAvailable,
		NextMaxID:     resp.PagingInfo.MaxID,
	}, nil
}

// FetchTaggedPage fetches one page of posts the user is tagged in.
func (c *Client) FetchTaggedPage(ctx context.Context, userID, cursor string) (*MediaPage, error) {
	var resp feedResponse
	if err := c.getJSON(ctx, userTaggedURL(userID, cursor), &resp); err != nil {
		return nil, err
	}
	return &MediaPage{
		Items:         resp.Items,
		MoreAvailable: resp.MoreAvailable,
		NextMaxID:     resp.NextMaxID,
	}, nil
}

// FetchReelsMedia fetches story/highlight reel data for a set of reel IDs.
// Highlight reel IDs use the provider's "highlight:<id>" form.
func (c *Client) FetchReelsMedia(ctx context.Context, reelIDs []string) (map[string]*Reel, error) {
	if len(reelIDs) == 0 {
		return map[string]*Reel{}, nil
	}
	var resp reelsMediaResponse
	if err := c.getJSON(ctx, reelsMediaURL(reelIDs), &resp); err != nil {
		return nil, err
	}
	if resp.Reels == nil {
		return map[string]*Reel{}, nil
	}
	return resp.Reels, nil
}

// FetchHighlightTray fetches the highlight entries for a user.
func (c *Client) FetchHighlightTray(ctx context.Context, userID string) ([]HighlightEntry, error) {
	var resp highlightTrayResponse
	if err := c.getJSON(ctx, highlightTrayURL(userID), &resp); err != nil {
		return nil, err
	}
	return resp.Tray, nil
}

// FetchSavedPage fetches one page of the viewer's saved posts.
func (c *Client) FetchSavedPage(ctx context.Context, cursor string) (*MediaPage, error) {
	var resp savedResponse
	if err := c.getJSON(ctx, savedPostsURL(cursor), &resp); err != nil {
		return nil, err
	}
	return &MediaPage{
		Items:         unwrapItems(resp.Items),
		MoreAvailable: resp.MoreAvailable,
		NextMaxID:     resp.NextMaxID,
	}, nil
}

// FetchCollectionPage fetches one page of a saved collection.
func (c *Client) FetchCollectionPage(ctx context.Context, collectionID, cursor string) (*MediaPage, error) {
	var resp savedResponse
	if err := c.getJSON(ctx, collectionPostsURL(collectionID, cursor), &resp); err != nil {
		return nil, err
	}
	return &MediaPage{
		Items:         unwrapItems(resp.Items),
		MoreAvailable: resp.MoreAvailable,
		NextMaxID:     resp.NextMaxID,
	}, nil
}

// Download fetches a media asset by URL, streaming the body to the caller.
func (c *Client) Download(ctx context.Context, assetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindGeneric, err, "failed to create request")
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindNetwork, err, "download request failed")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Newf(errors.KindDownloadFailed, "asset fetch returned status %d", resp.StatusCode).WithCode(resp.StatusCode)
	}
	return resp.Body, nil
}

func unwrapItems(items []wrappedItem) []*RawPost {
	posts := make([]*RawPost, 0, len(items))
	for _, it := range items {
		if it.Media != nil {
			posts = append(posts, it.Media)
		}
	}
	return posts
}
