package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	prefold  = strings.NewReplacer("'", "", "’", "", "ı", "i")
)

// Generate turns a display name into a URL-friendly slug. Diacritics are
// stripped, apostrophes are dropped without leaving a separator and any other
// run of non-alphanumerics becomes a single hyphen.
//
//	"men's clothing" -> "mens-clothing"
//	"Électronique"   -> "electronique"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = prefold.Replace(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}

// Matches reports whether value names the same thing as name, either verbatim
// (case-insensitively) or by slug.
func Matches(name, value string) bool {
	if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(value)) {
		return true
	}
	g := Generate(value)
	return g != "" && Generate(name) == g
}
