// Package textx canonicalizes pasted chat content before it is stored.
package textx

import (
	"regexp"
	"strings"
)

// Full-width characters commonly produced by CJK input methods, and their
// half-width equivalents, index for index.
const (
	fullWidth = "０１２３４５６７８９＋－＝／＼（）［］｛｝＜＞｜＆＊＠＄％＾＿｀～：；＂＇，．？！　"
	halfWidth = "0123456789+-=/\\()[]{}<>|&*@$%^_`~:;\"',.?! "
)

var (
	crlfRe       = regexp.MustCompile(`\r\n?`)
	fenceOpenRe  = regexp.MustCompile("(?m)^```\\w*\\n?")
	fenceCloseRe = regexp.MustCompile("(?m)\\n?```$")
	emojiRe      = regexp.MustCompile(`(?m)^[\x{1F300}-\x{1F9FF}\x{2600}-\x{27BF}]+[ \t]*`)
	zeroWidthRe  = regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}]`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)

	fullToHalf = func() map[rune]rune {
		full := []rune(fullWidth)
		half := []rune(halfWidth)
		m := make(map[rune]rune, len(full))
		for i, r := range full {
			m[r] = half[i]
		}
		return m
	}()
)

// Normalize cleans raw pasted text: unifies line endings, strips fenced-code
// delimiter lines, removes a leading emoji run from each line, maps full-width
// punctuation and digits to half-width, drops zero-width characters, collapses
// runs of blank lines and trims the result. Total function, idempotent.
func Normalize(raw string) string {
	s := crlfRe.ReplaceAllString(raw, "\n")
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	s = emojiRe.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if h, ok := fullToHalf[r]; ok {
			return h
		}
		return r
	}, s)
	s = zeroWidthRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
