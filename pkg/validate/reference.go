package validate

import (
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/nomiki/pkg/normalize"
)

var (
	// articleRefPattern matches "Άρθρο 5", "άρθρο 12α" in any case.
	articleRefPattern = regexp.MustCompile(`(?i)[Άά]ρθρο[ \t]+\d+[α-ω]?`)
	// lawRefPattern matches "Ν.4139/2013", "Π.Κ. 372", "Π.Δ. 141/1991", "ΚΠΔ 45".
	// The prefix must not continue a word and the number must be on the same
	// line, so "ετών.\n\n2." and "μηνών. 3" are not citations.
	lawRefPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}])(?P<text>(?:Ν\.|Π\.Κ\.|Π\.Δ\.|ΚΠΔ)[ \t]*\d+[α-ω]?(?:/\d{4})?)`)
	lawRefText    = lawRefPattern.SubexpIndex("text")

	// numberPattern reads the article number out of a normalized token or title.
	numberPattern = regexp.MustCompile(`^\s*αρθρο\s+(\d+[α-ω]?)`)
	spacePattern  = regexp.MustCompile(`\s+`)
)

// ExtractReferences returns the reference tokens found in content: article
// numbers and law citations, sorted and de-duplicated. Content without
// references yields an empty, non-nil slice.
func ExtractReferences(content string) []string {
	seen := make(map[string]bool)
	for _, token := range articleRefPattern.FindAllString(content, -1) {
		seen[token] = true
	}
	for _, m := range lawRefPattern.FindAllStringSubmatch(content, -1) {
		seen[m[lawRefText]] = true
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// articleNumber returns the lower case article number of a token or title
// ("Άρθρο 12Α - ..." -> "12α"), or "" when there is none.
func articleNumber(s string) string {
	m := numberPattern.FindStringSubmatch(normalize.Key(s))
	if m == nil {
		return ""
	}
	return m[1]
}

// isLawToken reports whether a token came from the law-citation pattern.
func isLawToken(token string) bool {
	return lawRefPattern.MatchString(token) && !articleRefPattern.MatchString(token)
}

// canonicalLaw folds a citation for comparison: keyed, no whitespace.
// "Π.Κ. 372" and "π.κ.372" compare equal.
func canonicalLaw(s string) string {
	return spacePattern.ReplaceAllString(normalize.Key(strings.TrimSpace(s)), "")
}

// codePrefixes are the codes cited by article number: "Π.Κ. 372" is article
// 372 of the Penal Code, not the whole code.
var codePrefixes = []string{canonicalLaw("Π.Κ."), canonicalLaw("ΚΠΔ")}

// citesArticle reports whether a law token names a single article of a code
// rather than a whole law.
func citesArticle(token string) bool {
	law := canonicalLaw(token)
	if strings.Contains(law, "/") {
		return false
	}
	for _, prefix := range codePrefixes {
		if strings.HasPrefix(law, prefix) {
			return true
		}
	}
	return false
}

// citedLaws returns the known laws a canonical law citation names. A citation
// without a year ("Ν. 4139") names every known law with that number.
func citedLaws(law string, known []string) []string {
	var out []string
	for _, k := range known {
		if k == law || (!strings.Contains(law, "/") && strings.HasPrefix(k, law+"/")) {
			out = append(out, k)
		}
	}
	return out
}
