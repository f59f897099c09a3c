package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullMeta() Metadata {
	return Metadata{
		PostID:        "999",
		Shortcode:     "XYZ789",
		Username:      "bob",
		Timestamp:     1700000000, // 2023-11-14 UTC
		IsCarousel:    true,
		CarouselIndex: 2,
		ContentKind:   ContentPost,
	}
}

func TestRenderFilenameAllPlaceholders(t *testing.T) {
	template := "{username}-{shortcode}-{postId}-{num}-{timestamp}-{date}-{type}.{extension}"
	got := RenderFilename(template, fullMeta(), KindImage, "jpg")

	assert.Equal(t, "bob-XYZ789-999-2-1700000000-20231114-image.jpg", got)
	assert.NotContains(t, got, "{", "no token left unresolved")
}

func TestRenderFilenameMissingFieldsBecomeUnknown(t *testing.T) {
	template := "{username}_{shortcode}_{date}.{extension}"
	got := RenderFilename(template, Metadata{}, KindVideo, "mp4")

	assert.Equal(t, "unknown_unknown_unknown.mp4", got)
	assert.NotContains(t, got, "{")
}

func TestRenderFilenameDefaultTemplate(t *testing.T) {
	got := RenderFilename("", fullMeta(), KindImage, "jpg")
	assert.Equal(t, "bob_XYZ789_2.jpg", got)
}

func TestRenderFilenameNonCarouselNumIsOne(t *testing.T) {
	meta := fullMeta()
	meta.IsCarousel = false
	meta.CarouselIndex = 0
	got := RenderFilename("{shortcode}_{num}.{extension}", meta, KindImage, "jpg")
	assert.Equal(t, "XYZ789_1.jpg", got)
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "alice", "alice"},
		{"whitespace collapsed", "a  b\tc", "a_b_c"},
		{"reserved chars", `a/b\c:d*e`, "a_b_c_d_e"},
		{"control chars", "a\x00b\x1fc", "a_b_c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeUsername(tt.in))
		})
	}
}

func TestSanitizeUsernameLengthCap(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := SanitizeUsername(long)
	assert.Len(t, []rune(got), maxUsernameRunes)
}
