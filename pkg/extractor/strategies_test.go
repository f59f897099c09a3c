package extractor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfetch/pkg/errors"
	"igfetch/pkg/instagram"
	"igfetch/pkg/media"
)

func publicUser(username, id string) *instagram.UserInfo {
	return &instagram.UserInfo{ID: id, Username: username}
}

func TestPostStrategyExtract(t *testing.T) {
	f := newFakeClient()
	f.posts["ABC123"] = testPost("ABC123", 1)
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/p/ABC123/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, media.KindImage, out[0].Kind)
	assert.Equal(t, "ABC123", out[0].Meta.Shortcode)
	assert.Equal(t, media.ContentPost, out[0].Meta.ContentKind)
}

func TestReelURLYieldsReelContentKind(t *testing.T) {
	f := newFakeClient()
	f.posts["XYZ"] = testPost("XYZ", 1)
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/reel/XYZ/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, media.ContentReel, out[0].Meta.ContentKind)
}

func TestProfileStrategyPaginates(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	f.feedPages[""] = &instagram.MediaPage{
		Items:         []*instagram.RawPost{testPost("AAA", 1), testPost("BBB", 2)},
		MoreAvailable: true,
		NextMaxID:     "c1",
	}
	f.feedPages["c1"] = &instagram.MediaPage{
		Items: []*instagram.RawPost{testPost("CCC", 3)},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/alice/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "AAA", out[0].Meta.Shortcode)
	assert.Equal(t, "BBB", out[1].Meta.Shortcode)
	assert.Equal(t, "CCC", out[2].Meta.Shortcode)
	assert.Equal(t, 2, f.feedCalls)
}

func TestProfileStrategyItemCapStopsFetching(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	f.feedPages[""] = &instagram.MediaPage{
		Items:         []*instagram.RawPost{testPost("AAA", 1), testPost("BBB", 2), testPost("CCC", 3)},
		MoreAvailable: true,
		NextMaxID:     "c1",
	}
	opts := DefaultOptions()
	opts.MaxItems = 2
	reg := testRegistry(f, opts)

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/alice/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, f.feedCalls, "cap reached mid-page, no second fetch")
}

func TestPrivateAccountFailsFast(t *testing.T) {
	f := newFakeClient()
	f.users["bob"] = &instagram.UserInfo{ID: "9", Username: "bob", IsPrivate: true}
	reg := testRegistry(f, DefaultOptions())

	for _, rawURL := range []string{
		"https://www.instagram.com/bob/",
		"https://www.instagram.com/bob/reels/",
		"https://www.instagram.com/bob/tagged/",
		"https://www.instagram.com/stories/bob/",
		"https://www.instagram.com/bob/highlights/",
	} {
		t.Run(rawURL, func(t *testing.T) {
			_, err := reg.Extract(context.Background(), rawURL)
			assert.True(t, errors.IsKind(err, errors.KindPrivateAccount))
		})
	}
	assert.Equal(t, 0, f.feedCalls, "no paging call after the private check")
}

func TestPrivateButFollowedIsAccessible(t *testing.T) {
	f := newFakeClient()
	f.users["carol"] = &instagram.UserInfo{ID: "7", Username: "carol", IsPrivate: true, FollowedByViewer: true}
	f.feedPages[""] = &instagram.MediaPage{Items: []*instagram.RawPost{testPost("AAA", 1)}}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/carol/")
	require.NoError(t, err)
	out, err := stream.Collect()
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func storyVideoItem(pk string) *instagram.RawPost {
	return &instagram.RawPost{
		PK:        json.Number(pk),
		MediaType: instagram.MediaTypeVideo,
		TakenAt:   1700000100,
		VideoVersions: []instagram.VideoVersion{
			{URL: "https://cdn/story_" + pk + ".mp4", Width: 720, Height: 1280},
		},
		ImageVersions: &instagram.ImageVersions{
			Candidates: []instagram.ImageCandidate{
				{URL: "https://cdn/story_" + pk + "_poster.jpg", Width: 720, Height: 1280},
			},
		},
	}
}

func TestStoriesStrategySuppressesPosterImages(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	f.reels["123"] = &instagram.Reel{
		ID:    "123",
		User:  instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("111"), storyVideoItem("222")},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/stories/alice/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 2, "one descriptor per story item, poster suppressed")
	for _, d := range out {
		assert.Equal(t, media.KindVideo, d.Kind)
		assert.Equal(t, media.ContentStory, d.Meta.ContentKind)
		assert.Equal(t, "alice", d.Meta.Username)
	}
}

func TestStoriesStrategyFiltersByStoryID(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	f.reels["123"] = &instagram.Reel{
		ID:    "123",
		User:  instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("111"), storyVideoItem("222")},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/stories/alice/222/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "222", out[0].Meta.PostID)
}

func TestHighlightStrategyByID(t *testing.T) {
	f := newFakeClient()
	f.reels["highlight:17895"] = &instagram.Reel{
		ID:    "highlight:17895",
		Title: "travel",
		User:  instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("333")},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/stories/highlights/17895/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, media.ContentHighlight, out[0].Meta.ContentKind)
}

func TestHighlightStrategyAllForUserFansOutSequentially(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	f.tray = []instagram.HighlightEntry{
		{ID: "highlight:1", Title: "one"},
		{ID: "highlight:2", Title: "two"},
	}
	f.reels["highlight:1"] = &instagram.Reel{
		ID: "highlight:1", User: instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("111")},
	}
	f.reels["highlight:2"] = &instagram.Reel{
		ID: "highlight:2", User: instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("222"), storyVideoItem("333")},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/alice/highlights/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "111", out[0].Meta.PostID)
	assert.Equal(t, "222", out[1].Meta.PostID)
	assert.Equal(t, "333", out[2].Meta.PostID)
}

func TestHighlightFanOutIsLazy(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	f.tray = []instagram.HighlightEntry{
		{ID: "highlight:1"}, {ID: "highlight:2"},
	}
	f.reels["highlight:1"] = &instagram.Reel{
		ID: "highlight:1", User: instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("111")},
	}
	f.reels["highlight:2"] = &instagram.Reel{
		ID: "highlight:2", User: instagram.RawUser{Username: "alice"},
		Items: []*instagram.RawPost{storyVideoItem("222")},
	}
	opts := DefaultOptions()
	opts.MaxItems = 1
	reg := testRegistry(f, opts)

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/alice/highlights/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, 1, f.reelCalls, "cap satisfied by the first reel, second never fetched")
}

func TestSavedStrategyPaginates(t *testing.T) {
	f := newFakeClient()
	f.savedPages[""] = &instagram.MediaPage{
		Items:         []*instagram.RawPost{testPost("SAVED1", 1)},
		MoreAvailable: true,
		NextMaxID:     "s1",
	}
	f.savedPages["s1"] = &instagram.MediaPage{
		Items: []*instagram.RawPost{testPost("SAVED2", 2)},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/me/saved/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, f.savedCalls)
}

func TestCollectionStrategy(t *testing.T) {
	f := newFakeClient()
	f.collections["17843668231"] = map[string]*instagram.MediaPage{
		"": {Items: []*instagram.RawPost{testPost("COLL", 1)}},
	}
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/me/saved/trips/17843668231/")
	require.NoError(t, err)

	out, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "COLL", out[0].Meta.Shortcode)
}

func TestExtractionErrorAbortsSequence(t *testing.T) {
	f := newFakeClient()
	f.users["alice"] = publicUser("alice", "123")
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/alice/")
	require.NoError(t, err)

	f.err = errors.New(errors.KindRateLimited, "slow down")
	out, err := stream.Collect()
	assert.Empty(t, out)
	assert.True(t, errors.IsKind(err, errors.KindRateLimited))
}

func TestStreamIsNotRestartable(t *testing.T) {
	f := newFakeClient()
	f.posts["ABC"] = testPost("ABC", 1)
	reg := testRegistry(f, DefaultOptions())

	stream, err := reg.Extract(context.Background(), "https://www.instagram.com/p/ABC/")
	require.NoError(t, err)

	first, err := stream.Collect()
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := stream.Collect()
	require.NoError(t, err)
	assert.Empty(t, second)
}
