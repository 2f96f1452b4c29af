package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "crème" and
// "creme" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, strips diacritics, replaces anything outside
// [a-z0-9 ] with a space, and collapses whitespace. Idempotent: normalizing
// an already-normalized string returns it unchanged. Empty input yields "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	lowered := strings.ToLower(raw)
	folded, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// Malformed UTF-8: fall back to the lowered input, the character
		// filter below drops anything non-ASCII anyway.
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
