package signals

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentStripper decomposes text and drops combining marks, so that
// "código" and "codigo" normalize to the same form. Built once; Transformer
// values are stateless and safe for concurrent use via transform.String.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts learner text to the canonical matching form:
// lowercase, accents stripped, punctuation removed, whitespace collapsed.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	stripped, _, err := transform.String(accentStripper, lowered)
	if err != nil {
		// Fall back to the lowercased input; matching still works for
		// unaccented text.
		stripped = lowered
	}

	var sb strings.Builder
	sb.Grow(len(stripped))
	lastSpace := true
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !lastSpace {
				sb.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(sb.String())
}
