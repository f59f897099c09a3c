package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfetch/pkg/errors"
	"igfetch/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(5*time.Second, nil, logger.NewNopLogger())
	client.SetBaseURL(server.URL)
	client.SetSession(&Session{
		SessionID: "sess",
		CSRFToken: "csrf",
		DSUserID:  "42",
	})
	return client, server
}

func TestResolveUser(t *testing.T) {
	var gotHeaders http.Header
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		assert.Equal(t, "/api/v1/users/web_profile_info/", r.URL.Path)
		assert.Equal(t, "alice", r.URL.Query().Get("username"))
		w.Write([]byte(`{"data":{"user":{"id":"123","username":"alice","is_private":false,"edge_owner_to_timeline_media":{"count":42}}},"status":"ok"}`))
	}))

	info, err := client.ResolveUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "123", info.ID)
	assert.Equal(t, "alice", info.Username)
	assert.False(t, info.IsPrivate)
	assert.Equal(t, 42, info.MediaCount)

	assert.Equal(t, AppID, gotHeaders.Get(HeaderAppID))
	assert.Equal(t, "csrf", gotHeaders.Get(HeaderCSRFToken))
	assert.Contains(t, gotHeaders.Get("Cookie"), "sessionid=sess")
}

func TestResolveUserInvalidUsername(t *testing.T) {
	client := NewClient(time.Second, nil, logger.NewNopLogger())
	_, err := client.ResolveUser(context.Background(), "not a user!")
	assert.True(t, errors.IsKind(err, errors.KindInvalidURL))
}

func TestClaimTokenPersistedAndReplayed(t *testing.T) {
	var claims []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = append(claims, r.Header.Get(HeaderClaim))
		w.Header().Set(HeaderSetClaim, "hmac.claimtoken")
		w.Write([]byte(`{"data":{"user":{"id":"123","username":"alice"}},"status":"ok"}`))
	}))

	_, err := client.ResolveUser(context.Background(), "alice")
	require.NoError(t, err)
	_, err = client.ResolveUser(context.Background(), "alice")
	require.NoError(t, err)

	require.Len(t, claims, 2)
	assert.Empty(t, claims[0], "first request has no claim yet")
	assert.Equal(t, "hmac.claimtoken", claims[1], "second request echoes the claim")
	assert.Equal(t, "hmac.claimtoken", client.Session().ClaimToken)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind errors.Kind
	}{
		{"rate limited", 429, `{}`, errors.KindRateLimited},
		{"challenge 403", 403, `{"message":"challenge_required"}`, errors.KindChallengeRequired},
		{"checkpoint 401", 401, `{"message":"checkpoint_required"}`, errors.KindChallengeRequired},
		{"plain 401", 401, `{"message":"login_required"}`, errors.KindAuthenticationFailed},
		{"plain 403", 403, `{}`, errors.KindAuthenticationFailed},
		{"not found", 404, `{}`, errors.KindNotFound},
		{"server error", 500, `{}`, errors.KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.ResolveUser(context.Background(), "alice")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, errors.KindOf(err))
		})
	}
}

func TestAuthFailureInvalidatesSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"login_required"}`))
	}))
	require.True(t, client.Authenticated())

	_, err := client.ResolveUser(context.Background(), "alice")
	assert.True(t, errors.IsKind(err, errors.KindAuthenticationFailed))
	assert.Nil(t, client.Session(), "session dropped after auth failure")
}

func TestChallengeDoesNotInvalidateSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"challenge_required"}`))
	}))

	_, err := client.ResolveUser(context.Background(), "alice")
	assert.True(t, errors.IsKind(err, errors.KindChallengeRequired))
	assert.NotNil(t, client.Session(), "challenge keeps the session for manual resolution")
}

func TestNetworkErrorsAreRetryable(t *testing.T) {
	client := NewClient(time.Second, nil, logger.NewNopLogger())
	client.SetBaseURL("http://127.0.0.1:1") // nothing listens here

	_, err := client.FetchFeedPage(context.Background(), "123", "")
	require.Error(t, err)
	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestFetchPost(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Shortcode "B" decodes to media ID 27.
		assert.Equal(t, "/api/v1/media/27/info/", r.URL.Path)
		w.Write([]byte(`{"items":[{"pk":27,"code":"B","media_type":1,"image_versions2":{"candidates":[{"url":"https://cdn/a.jpg","width":1080,"height":1350}]},"user":{"pk":1,"username":"alice"}}],"status":"ok"}`))
	}))

	post, err := client.FetchPost(context.Background(), "B")
	require.NoError(t, err)
	assert.Equal(t, "B", post.Code)
	assert.Equal(t, MediaTypeImage, post.MediaType)
	require.NotNil(t, post.ImageVersions)
	assert.Len(t, post.ImageVersions.Candidates, 1)
}

func TestFetchPostNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[],"status":"ok"}`))
	}))

	_, err := client.FetchPost(context.Background(), "B")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestFetchFeedPageCursor(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/feed/user/123/", r.URL.Path)
		assert.Equal(t, "CURSOR_1", r.URL.Query().Get("max_id"))
		w.Write([]byte(`{"items":[{"pk":1,"code":"AAA","media_type":1}],"more_available":true,"next_max_id":"CURSOR_2","status":"ok"}`))
	}))

	page, err := client.FetchFeedPage(context.Background(), "123", "CURSOR_1")
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.True(t, page.MoreAvailable)
	assert.Equal(t, "CURSOR_2", page.NextMaxID)
}

func TestFetchReelsPagePostsForm(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/clips/user/", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "123", r.PostForm.Get("target_user_id"))
		assert.Equal(t, "CUR", r.PostForm.Get("max_id"))
		w.Write([]byte(`{"items":[{"media":{"pk":9,"code":"XYZ","media_type":2}}],"paging_info":{"max_id":"NEXT","more_available":true},"status":"ok"}`))
	}))

	page, err := client.FetchReelsPage(context.Background(), "123", "CUR")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "XYZ", page.Items[0].Code)
	assert.Equal(t, "NEXT", page.NextMaxID)
	assert.True(t, page.MoreAvailable)
}

func TestFetchReelsMedia(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/feed/reels_media/", r.URL.Path)
		assert.ElementsMatch(t, []string{"123", "highlight:9"}, r.URL.Query()["reel_ids"])
		w.Write([]byte(`{"reels":{"123":{"id":"123","items":[{"pk":1,"media_type":1}],"user":{"pk":123,"username":"alice"}}},"status":"ok"}`))
	}))

	reels, err := client.FetchReelsMedia(context.Background(), []string{"123", "highlight:9"})
	require.NoError(t, err)
	require.Contains(t, reels, "123")
	assert.Len(t, reels["123"].Items, 1)
}

func TestFetchSavedAndCollectionPages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/feed/saved/posts/":
			w.Write([]byte(`{"items":[{"media":{"pk":1,"code":"A","media_type":1}}],"more_available":false,"status":"ok"}`))
		case "/api/v1/feed/collection/777/posts/":
			w.Write([]byte(`{"items":[{"media":{"pk":2,"code":"C","media_type":1}}],"more_available":true,"next_max_id":"N","status":"ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	saved, err := client.FetchSavedPage(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.False(t, saved.MoreAvailable)

	coll, err := client.FetchCollectionPage(context.Background(), "777", "")
	require.NoError(t, err)
	require.Len(t, coll.Items, 1)
	assert.Equal(t, "N", coll.NextMaxID)
}

func TestFetchHighlightTray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/highlights/123/highlights_tray/", r.URL.Path)
		w.Write([]byte(`{"tray":[{"id":"highlight:1","title":"travel"},{"id":"highlight:2","title":"food"}],"status":"ok"}`))
	}))

	tray, err := client.FetchHighlightTray(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, tray, 2)
	assert.Equal(t, "highlight:1", tray[0].ID)
	assert.Equal(t, "travel", tray[0].Title)
}
