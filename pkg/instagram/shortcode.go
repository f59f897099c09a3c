package instagram

import (
	"math/big"
	"strings"
)

// shortcodeAlphabet is the fixed 64-symbol alphabet Instagram uses to encode
// numeric media IDs as post shortcodes.
const shortcodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// ShortcodeToMediaID converts a post shortcode to its numeric media ID.
// Returns false for strings containing symbols outside the alphabet.
func ShortcodeToMediaID(shortcode string) (string, bool) {
	if shortcode == "" {
		return "", false
	}

	id := new(big.Int)
	base := big.NewInt(64)
	for _, r := range shortcode {
		idx := strings.IndexRune(shortcodeAlphabet, r)
		if idx < 0 {
			return "", false
		}
		id.Mul(id, base)
		id.Add(id, big.NewInt(int64(idx)))
	}
	return id.String(), true
}

// MediaIDToShortcode converts a numeric media ID back to its shortcode.
func MediaIDToShortcode(mediaID string) (string, bool) {
	id, ok := new(big.Int).SetString(mediaID, 10)
	if !ok || id.Sign() < 0 {
		return "", false
	}
	if id.Sign() == 0 {
		return string(shortcodeAlphabet[0]), true
	}

	base := big.NewInt(64)
	mod := new(big.Int)
	var sb []byte
	for id.Sign() > 0 {
		id.DivMod(id, base, mod)
		sb = append(sb, shortcodeAlphabet[mod.Int64()])
	}
	for i, j := 0, len(sb)-1; i < j; i, j = i+1, j-1 {
		sb[i], sb[j] = sb[j], sb[i]
	}
	return string(sb), true
}
