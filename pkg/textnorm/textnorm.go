// Package textnorm holds the text clean-up steps applied to exercise names
// before alias lookup and embedding.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// annotationPattern matches a bracketed or parenthesised span. The first
// closing bracket of the same kind ends the span.
var annotationPattern = regexp.MustCompile(`\[.*?\]|\(.*?\)`)

// StripAnnotations removes "[...]" and "(...)" spans from an exercise name
// and trims the result. "Bench Press (paused) [A1]" becomes "Bench Press".
func StripAnnotations(name string) string {
	return strings.TrimSpace(annotationPattern.ReplaceAllString(name, ""))
}

// Normalize lowercases and trims.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PreprocessForEmbedding reduces a name to lowercase ASCII letters, digits
// and single spaces. Accented letters are folded to their base letter first.
// Applying it twice gives the same result as applying it once.
func PreprocessForEmbedding(name string) string {
	folded := foldAccents(strings.ToLower(name))

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
