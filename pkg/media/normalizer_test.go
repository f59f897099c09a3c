package media

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igfetch/pkg/instagram"
)

func imageItem(width, height int) instagram.RawPost {
	return instagram.RawPost{
		MediaType: instagram.MediaTypeImage,
		ImageVersions: &instagram.ImageVersions{
			Candidates: []instagram.ImageCandidate{
				{URL: fmt.Sprintf("https://cdn/img_%dx%d.jpg", width, height), Width: width, Height: height},
				{URL: "https://cdn/img_small.jpg", Width: width / 2, Height: height / 2},
			},
		},
	}
}

func videoItem(width, height int) instagram.RawPost {
	item := imageItem(width, height)
	item.MediaType = instagram.MediaTypeVideo
	item.VideoVersions = []instagram.VideoVersion{
		{URL: "https://cdn/video_low.mp4", Width: width / 2, Height: height / 2},
		{URL: fmt.Sprintf("https://cdn/video_%dx%d.mp4", width, height), Width: width, Height: height},
	}
	return item
}

func basePost() *instagram.RawPost {
	return &instagram.RawPost{
		PK:        json.Number("12345"),
		Code:      "ABC123",
		TakenAt:   1700000000,
		User:      instagram.RawUser{PK: json.Number("1"), Username: "alice"},
		Caption:   &instagram.Caption{Text: "hello"},
		LikeCount: 10,
	}
}

func allOpts() Options {
	return Options{IncludeVideos: true, IncludeImages: true}
}

func TestNormalizeSingleImage(t *testing.T) {
	post := basePost()
	item := imageItem(1080, 1350)
	post.MediaType = item.MediaType
	post.ImageVersions = item.ImageVersions

	out := Normalize(post, allOpts())
	require.Len(t, out, 1)

	d := out[0]
	assert.Equal(t, KindImage, d.Kind)
	assert.Equal(t, "https://cdn/img_1080x1350.jpg", d.URL, "maximal resolution candidate wins")
	assert.Equal(t, "jpg", d.Extension)
	assert.False(t, d.Meta.IsCarousel)
	assert.Zero(t, d.Meta.CarouselIndex)
	assert.Equal(t, "12345", d.Meta.PostID)
	assert.Equal(t, "alice", d.Meta.Username)
	assert.Equal(t, 1080, d.Meta.Width)
	assert.Equal(t, 1350, d.Meta.Height)
}

func TestNormalizeCarouselAssignsIndexes(t *testing.T) {
	post := basePost()
	post.MediaType = instagram.MediaTypeCarousel
	post.CarouselMedia = []instagram.RawPost{
		imageItem(640, 640),
		imageItem(1080, 1080),
		imageItem(320, 320),
	}

	out := Normalize(post, allOpts())
	require.Len(t, out, 3)

	for i, d := range out {
		assert.True(t, d.Meta.IsCarousel)
		assert.Equal(t, i+1, d.Meta.CarouselIndex, "1-based source order")
		assert.Equal(t, "ABC123", d.Meta.Shortcode)
	}
	assert.Equal(t, "https://cdn/img_640x640.jpg", out[0].URL)
	assert.Equal(t, "https://cdn/img_1080x1080.jpg", out[1].URL)
	assert.Equal(t, "https://cdn/img_320x320.jpg", out[2].URL)
}

func TestNormalizePostEmitsVideoAndPosterImage(t *testing.T) {
	post := basePost()
	item := videoItem(720, 1280)
	post.MediaType = item.MediaType
	post.ImageVersions = item.ImageVersions
	post.VideoVersions = item.VideoVersions

	out := Normalize(post, allOpts())
	require.Len(t, out, 2, "regular posts keep the poster frame next to the video")
	assert.Equal(t, KindVideo, out[0].Kind)
	assert.Equal(t, "https://cdn/video_720x1280.mp4", out[0].URL)
	assert.Equal(t, "mp4", out[0].Extension)
	assert.Equal(t, KindImage, out[1].Kind)
}

func TestNormalizeStorySuppressesImageWhenVideoPresent(t *testing.T) {
	post := basePost()
	item := videoItem(720, 1280)
	post.MediaType = item.MediaType
	post.ImageVersions = item.ImageVersions
	post.VideoVersions = item.VideoVersions

	opts := allOpts()
	opts.ContentKind = ContentStory
	out := Normalize(post, opts)

	require.Len(t, out, 1, "stories are either/or")
	assert.Equal(t, KindVideo, out[0].Kind)
	assert.Equal(t, ContentStory, out[0].Meta.ContentKind)
}

func TestNormalizeStoryImageOnly(t *testing.T) {
	post := basePost()
	item := imageItem(1080, 1920)
	post.MediaType = item.MediaType
	post.ImageVersions = item.ImageVersions

	opts := allOpts()
	opts.ContentKind = ContentHighlight
	out := Normalize(post, opts)

	require.Len(t, out, 1)
	assert.Equal(t, KindImage, out[0].Kind)
}

func TestNormalizeRespectsEnableFlags(t *testing.T) {
	post := basePost()
	item := videoItem(720, 1280)
	post.MediaType = item.MediaType
	post.ImageVersions = item.ImageVersions
	post.VideoVersions = item.VideoVersions

	out := Normalize(post, Options{IncludeVideos: false, IncludeImages: true})
	require.Len(t, out, 1)
	assert.Equal(t, KindImage, out[0].Kind)

	out = Normalize(post, Options{IncludeVideos: true, IncludeImages: false})
	require.Len(t, out, 1)
	assert.Equal(t, KindVideo, out[0].Kind)

	out = Normalize(post, Options{})
	assert.Empty(t, out)
}

func TestBestAssetTiesResolveToFirst(t *testing.T) {
	iv := &instagram.ImageVersions{
		Candidates: []instagram.ImageCandidate{
			{URL: "https://cdn/first.jpg", Width: 100, Height: 100},
			{URL: "https://cdn/second.jpg", Width: 100, Height: 100},
		},
	}
	best := bestImage(iv)
	require.NotNil(t, best)
	assert.Equal(t, "https://cdn/first.jpg", best.URL)

	versions := []instagram.VideoVersion{
		{URL: "https://cdn/v1.mp4", Width: 50, Height: 50},
		{URL: "https://cdn/v2.mp4", Width: 50, Height: 50},
	}
	bv := bestVideo(versions)
	require.NotNil(t, bv)
	assert.Equal(t, "https://cdn/v1.mp4", bv.URL)
}

func TestNormalizeCarouselThreeDistinctResolutions(t *testing.T) {
	// End-to-end shape: 3 sub-items, one image candidate each, no videos.
	post := basePost()
	post.MediaType = instagram.MediaTypeCarousel
	for _, res := range []int{480, 720, 1080} {
		post.CarouselMedia = append(post.CarouselMedia, instagram.RawPost{
			MediaType: instagram.MediaTypeImage,
			ImageVersions: &instagram.ImageVersions{
				Candidates: []instagram.ImageCandidate{
					{URL: fmt.Sprintf("https://cdn/only_%d.jpg", res), Width: res, Height: res},
				},
			},
		})
	}

	out := Normalize(post, allOpts())
	require.Len(t, out, 3)
	for i, d := range out {
		assert.Equal(t, KindImage, d.Kind)
		assert.True(t, d.Meta.IsCarousel)
		assert.Equal(t, i+1, d.Meta.CarouselIndex)
	}
}

func TestNormalizeYieldBounds(t *testing.T) {
	// N sub-items parse into between 0 and 2N descriptors.
	post := basePost()
	post.MediaType = instagram.MediaTypeCarousel
	post.CarouselMedia = []instagram.RawPost{
		videoItem(720, 1280), // video + poster image = 2
		imageItem(640, 640),  // image = 1
		{MediaType: instagram.MediaTypeImage}, // no assets = 0
	}

	out := Normalize(post, allOpts())
	assert.Len(t, out, 3)
	assert.LessOrEqual(t, len(out), 2*len(post.CarouselMedia))
}

func TestNormalizeNil(t *testing.T) {
	assert.Nil(t, Normalize(nil, allOpts()))
}

func TestExtensionDerivation(t *testing.T) {
	assert.Equal(t, "mp4", extensionFor(KindVideo, "https://cdn/whatever.webm"))
	assert.Equal(t, "png", extensionFor(KindImage, "https://cdn/a/b/pic.PNG?sig=x"))
	assert.Equal(t, "jpg", extensionFor(KindImage, "https://cdn/no-extension"))
}
