package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortcodeToMediaID(t *testing.T) {
	tests := []struct {
		shortcode string
		mediaID   string
	}{
		{"A", "0"},
		{"B", "1"},
		{"_", "63"},
		{"BA", "64"},
		{"CKWvoDnsyFH", "2492388904648515911"},
	}

	for _, tt := range tests {
		t.Run(tt.shortcode, func(t *testing.T) {
			id, ok := ShortcodeToMediaID(tt.shortcode)
			require.True(t, ok)
			assert.Equal(t, tt.mediaID, id)
		})
	}
}

func TestShortcodeRoundTrip(t *testing.T) {
	for _, code := range []string{"B", "CKWvoDnsyFH", "DEF456xyz-_"} {
		id, ok := ShortcodeToMediaID(code)
		require.True(t, ok)
		back, ok := MediaIDToShortcode(id)
		require.True(t, ok)
		assert.Equal(t, code, back)
	}
}

func TestShortcodeInvalid(t *testing.T) {
	_, ok := ShortcodeToMediaID("")
	assert.False(t, ok)

	_, ok = ShortcodeToMediaID("has space")
	assert.False(t, ok)

	_, ok = MediaIDToShortcode("not-a-number")
	assert.False(t, ok)
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("alice"))
	assert.True(t, IsValidUsername("a.b_c123"))
	assert.False(t, IsValidUsername(""))
	assert.False(t, IsValidUsername("has space"))
	assert.False(t, IsValidUsername("way.too.long.username.over.thirty.chars"))
}
