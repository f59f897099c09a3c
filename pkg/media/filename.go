package media

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const unknownValue = "unknown"

// maxUsernameRunes caps the sanitized username component.
const maxUsernameRunes = 64

// reservedFilenameChars are replaced during sanitization; the set covers
// path separators and the characters Windows refuses in filenames.
const reservedFilenameChars = `<>:"/\|?*`

// RenderFilename substitutes the named placeholders of a filename template.
// Recognized placeholders: {username} {shortcode} {postId} {num}
// {extension} {timestamp} {date} {type}. A missing value renders the
// literal "unknown", never an empty string.
func RenderFilename(template string, meta Metadata, kind Kind, extension string) string {
	if template == "" {
		template = DefaultTemplate
	}

	num := ""
	if meta.CarouselIndex > 0 {
		num = strconv.Itoa(meta.CarouselIndex)
	} else {
		num = "1"
	}

	timestamp := ""
	date := ""
	if meta.Timestamp > 0 {
		timestamp = strconv.FormatInt(meta.Timestamp, 10)
		date = time.Unix(meta.Timestamp, 0).UTC().Format("20060102")
	}

	replacements := map[string]string{
		"{username}":  SanitizeUsername(meta.Username),
		"{shortcode}": meta.Shortcode,
		"{postId}":    meta.PostID,
		"{num}":       num,
		"{extension}": extension,
		"{timestamp}": timestamp,
		"{date}":      date,
		"{type}":      string(kind),
	}

	out := template
	for placeholder, value := range replacements {
		if value == "" {
			value = unknownValue
		}
		out = strings.ReplaceAll(out, placeholder, value)
	}
	return out
}

// SanitizeUsername makes a username safe as a filename component: control
// and reserved characters become underscores, whitespace runs collapse to a
// single underscore, and the result is length-capped.
func SanitizeUsername(username string) string {
	if username == "" {
		return ""
	}

	var b strings.Builder
	lastWasSpace := false
	for _, r := range username {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace {
				b.WriteRune('_')
			}
			lastWasSpace = true
		case unicode.IsControl(r) || strings.ContainsRune(reservedFilenameChars, r):
			b.WriteRune('_')
			lastWasSpace = false
		default:
			b.WriteRune(r)
			lastWasSpace = false
		}
	}

	out := b.String()
	runes := []rune(out)
	if len(runes) > maxUsernameRunes {
		out = string(runes[:maxUsernameRunes])
	}
	return out
}
