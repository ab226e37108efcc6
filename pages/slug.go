package pages

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts a name to a URL-safe slug: accents are folded, letters
// are lowercased, and every run of other runes becomes a single hyphen.
func Slugify(s string) string {
	folded, _, err := transform.String(deburr(), s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// transform.Transformer values are stateful, so each call builds its own.
func deburr() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// TagPath returns the page path for a tag under base, e.g.
// TagPath("pensieve", "Harry Potter") == "/pensieve/tags/harry-potter/".
// Renderers must build tag links with this function.
func TagPath(base, name string) string {
	return TagIndexPath(base) + Slugify(name) + "/"
}

// TagIndexPath returns the path of the page listing every tag.
func TagIndexPath(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return "/tags/"
	}
	return "/" + base + "/tags/"
}
