package normalizer

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripDiacritics removes combining marks, keeping base letters.
// "Córdoba" -> "Cordoba", "Cádiz" -> "Cadiz".
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Fold strips diacritics, lowercases and collapses whitespace.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(StripDiacritics(s))), " ")
}

// Unaccent transliterates to ASCII and lowercases ("Ñ" -> "n", "ß" -> "ss").
// Used for search documents where every byte must be plain ASCII.
func Unaccent(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}
