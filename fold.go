package banhash

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// appendFolded appends the Unicode case folding of r to dst. A single rune
// may fold to several (ß folds to "ss"). A Caser carries state and must not
// be shared between goroutines, so one is built per call.
func appendFolded(dst []rune, r rune) []rune {
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return append(dst, r)
	}
	c := cases.Fold()
	for _, fr := range c.String(string(r)) {
		dst = append(dst, fr)
	}
	return dst
}

// foldString returns the case folding of s, folded one rune at a time so
// that it agrees with the rune-by-rune folding done while matching.
func foldString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var buf []rune
	for _, r := range s {
		buf = appendFolded(buf[:0], r)
		for _, fr := range buf {
			b.WriteRune(fr)
		}
	}
	return b.String()
}
