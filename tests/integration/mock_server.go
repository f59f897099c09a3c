package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// mockProvider simulates the provider's private web API plus the CDN the
// asset URLs point at. Fixtures are registered per test; the handler routes
// by path shape the same way the real endpoints do.
type mockProvider struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []string

	// forced API response, 0 means normal routing
	apiStatus int
	apiBody   string

	users  map[string]mockUser              // username -> profile
	feeds  map[string][]mockPage            // user ID -> ordered feed pages
	posts  map[string]map[string]interface{} // media ID -> item
	assets map[string][]byte                // /assets/<name> -> payload
}

type mockUser struct {
	ID         string
	Username   string
	Private    bool
	MediaCount int
}

type mockPage struct {
	Items []map[string]interface{}
	More  bool
}

func newMockProvider() *mockProvider {
	p := &mockProvider{
		users:  make(map[string]mockUser),
		feeds:  make(map[string][]mockPage),
		posts:  make(map[string]map[string]interface{}),
		assets: make(map[string][]byte),
	}
	p.server = httptest.NewServer(http.HandlerFunc(p.handle))
	return p
}

func (p *mockProvider) Close()      { p.server.Close() }
func (p *mockProvider) URL() string { return p.server.URL }

// AddAsset registers a CDN payload and returns its absolute URL.
func (p *mockProvider) AddAsset(name string, payload []byte) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.assets["/assets/"+name] = payload
	return p.server.URL + "/assets/" + name
}

func (p *mockProvider) AddUser(u mockUser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.Username] = u
}

func (p *mockProvider) AddFeedPage(userID string, page mockPage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feeds[userID] = append(p.feeds[userID], page)
}

func (p *mockProvider) AddPost(mediaID string, item map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posts[mediaID] = item
}

// ForceAPIStatus makes every API call answer with the given status and body
// until reset with code 0.
func (p *mockProvider) ForceAPIStatus(code int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.apiStatus = code
	p.apiBody = body
}

// Requests returns the request paths seen so far, in order.
func (p *mockProvider) Requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.requests))
	copy(out, p.requests)
	return out
}

// CountRequests returns how many recorded requests contain the substring.
func (p *mockProvider) CountRequests(substr string) int {
	n := 0
	for _, r := range p.Requests() {
		if strings.Contains(r, substr) {
			n++
		}
	}
	return n
}

func (p *mockProvider) handle(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests = append(p.requests, r.URL.Path)
	forced, forcedBody := p.apiStatus, p.apiBody
	p.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/assets/") {
		p.mu.Lock()
		payload, ok := p.assets[r.URL.Path]
		p.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
		return
	}

	if forced != 0 {
		w.WriteHeader(forced)
		fmt.Fprint(w, forcedBody)
		return
	}

	switch {
	case r.URL.Path == "/api/v1/users/web_profile_info/":
		p.handleProfile(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/feed/user/"):
		p.handleFeed(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/media/"):
		p.handleMediaInfo(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status":"fail","message":"unknown endpoint"}`)
	}
}

func (p *mockProvider) handleProfile(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	user, ok := p.users[r.URL.Query().Get("username")]
	p.mu.Unlock()

	body := map[string]interface{}{"status": "ok", "data": map[string]interface{}{"user": map[string]interface{}{}}}
	if ok {
		body["data"] = map[string]interface{}{"user": map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"is_private": user.Private,
			"edge_owner_to_timeline_media": map[string]interface{}{
				"count": user.MediaCount,
			},
		}}
	}
	writeJSON(w, body)
}

func (p *mockProvider) handleFeed(w http.ResponseWriter, r *http.Request) {
	// /api/v1/feed/user/<id>/
	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	userID := segs[len(segs)-1]

	p.mu.Lock()
	pages := p.feeds[userID]
	p.mu.Unlock()

	idx := 0
	if cursor := r.URL.Query().Get("max_id"); cursor != "" {
		idx, _ = strconv.Atoi(cursor)
	}
	if idx >= len(pages) {
		writeJSON(w, map[string]interface{}{"status": "ok", "items": []interface{}{}, "more_available": false})
		return
	}

	page := pages[idx]
	body := map[string]interface{}{
		"status":         "ok",
		"items":          page.Items,
		"more_available": page.More,
	}
	if page.More {
		body["next_max_id"] = strconv.Itoa(idx + 1)
	}
	writeJSON(w, body)
}

func (p *mockProvider) handleMediaInfo(w http.ResponseWriter, r *http.Request) {
	// /api/v1/media/<id>/info/
	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	mediaID := segs[len(segs)-2]

	p.mu.Lock()
	item, ok := p.posts[mediaID]
	p.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status":"fail"}`)
		return
	}
	writeJSON(w, map[string]interface{}{"status": "ok", "items": []interface{}{item}})
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// imageItem builds a provider-native image post record.
func imageItem(pk, code, username, assetURL string, width, height int, takenAt int64) map[string]interface{} {
	return map[string]interface{}{
		"pk":         pk,
		"id":         pk + "_42",
		"code":       code,
		"media_type": 1,
		"taken_at":   takenAt,
		"image_versions2": map[string]interface{}{
			"candidates": []interface{}{
				map[string]interface{}{"url": assetURL, "width": width, "height": height},
				map[string]interface{}{"url": assetURL + "?size=low", "width": width / 2, "height": height / 2},
			},
		},
		"user": map[string]interface{}{"pk": "42", "username": username},
	}
}

// videoItem builds a provider-native video post record with a poster frame.
func videoItem(pk, code, username, videoURL, posterURL string, takenAt int64) map[string]interface{} {
	item := imageItem(pk, code, username, posterURL, 720, 1280, takenAt)
	item["media_type"] = 2
	item["video_versions"] = []interface{}{
		map[string]interface{}{"url": videoURL, "width": 720, "height": 1280},
	}
	return item
}

// carouselItem builds a carousel post wrapping the given sub-items.
func carouselItem(pk, code, username string, takenAt int64, children ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"pk":             pk,
		"id":             pk + "_42",
		"code":           code,
		"media_type":     8,
		"taken_at":       takenAt,
		"carousel_media": children,
		"user":           map[string]interface{}{"pk": "42", "username": username},
	}
}
