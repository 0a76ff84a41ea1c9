// Package normalize implements the optional Latin diacritic folding
// mentioned in spec.md §4.2: queries and match text can be compared with
// common accents folded away, while reported match positions stay
// against the original (unfolded) text.
package normalize

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldDiacritics decomposes runes and drops every nonspacing combining
// mark (category Mn), e.g. "café" -> "cafe". The removal is not limited
// to Latin: such marks in other scripts are dropped too. Errors from the
// transform chain
// (which can only come from malformed UTF-8) fall back to the input
// unchanged, since match text is treated byte-safe rather than rejected
// (§8 "invalid UTF-8 ... treated as raw bytes").
func FoldDiacritics(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// EqualFold reports whether folding both a and b (diacritics + case, per
// ignoreCase) makes them equal. The engines do not call it; the exact
// engine folds through FoldDiacriticsAligned instead.
func EqualFold(a, b string, ignoreCase bool) bool {
	fa, fb := FoldDiacritics(a), FoldDiacritics(b)
	if ignoreCase {
		return equalFoldASCIIAware(fa, fb)
	}
	return fa == fb
}

// FoldRune folds a single rune's diacritic away, e.g. 'é' -> 'e'. Runes
// that don't fold down to exactly one rune are returned unchanged, so
// FoldDiacriticsAligned can fold a string rune-by-rune without ever
// shifting another rune's offset.
func FoldRune(r rune) rune {
	folded := []rune(FoldDiacritics(string(r)))
	if len(folded) != 1 {
		return r
	}
	return folded[0]
}

// FoldDiacriticsAligned folds s rune-by-rune via FoldRune. Unlike
// FoldDiacritics, the result always has exactly as many runes as s, so a
// rune offset computed against the folded string is also valid against
// the original — the property the exact engine's position reporting
// depends on.
func FoldDiacriticsAligned(s string) string {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = FoldRune(r)
	}
	return string(rs)
}

func equalFoldASCIIAware(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if unicode.ToLower(ra[i]) != unicode.ToLower(rb[i]) {
			return false
		}
	}
	return true
}
