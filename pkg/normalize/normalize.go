// Package normalize folds Greek text for matching: lower case, no diacritics.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// markRemover decomposes, drops nonspacing marks (tonos, dialytika) and recomposes.
func markRemover() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize returns s in lower case with all combining diacritical marks removed,
// so that "Κλοπή" and "κλοπη" normalize to the same string. Final sigma is
// kept as written; use Key when comparing text.
func Normalize(s string) string {
	return stripMarks(strings.ToLower(s))
}

// StripAccents removes combining diacritical marks and keeps the case.
func StripAccents(s string) string {
	return stripMarks(s)
}

// Key is the matching form of s: Normalize with final sigma folded to σ.
// strings.ToLower maps a capital Σ to σ even at the end of a word, so
// "ΝΟΜΟΣ" and "Νόμος" only compare equal once ς is folded too.
func Key(s string) string {
	return strings.ReplaceAll(Normalize(s), "ς", "σ")
}

func stripMarks(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(markRemover(), s)
	if err != nil {
		// Only reachable on invalid UTF-8; fall back to a rune-wise pass.
		return stripRunes(s)
	}
	return out
}

func stripRunes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// Contains reports whether needle occurs in haystack after both are keyed.
func Contains(haystack, needle string) bool {
	return strings.Contains(Key(haystack), Key(needle))
}

// Fold keys s and collapses runs of whitespace to a single space.
func Fold(s string) string {
	return strings.Join(strings.Fields(Key(s)), " ")
}
