// Package extractor turns Instagram URLs into lazy sequences of normalized
// media descriptors.
//
// Each supported content shape (single post, profile feed, reels, tagged,
// stories, highlights, saved posts, saved collection) is one Strategy value
// implementing Match and Extract. The Registry holds them in fixed
// specificity order and selects the first match for a URL; no match is an
// explicit error.
//
// Extraction is strictly sequential: one page fetch at a time, randomized
// delay between fetches, item cap checked once per yielded descriptor.
package extractor
