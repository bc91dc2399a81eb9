package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/nomiki/pkg/normalize"
)

// RuleKind tells the scan loop what a rule match means.
type RuleKind string

const (
	// KindArticle rules recognise a line that opens a new article.
	KindArticle RuleKind = "article"
	// KindSection rules recognise a line that switches the current subcategory.
	KindSection RuleKind = "section"
	// KindPenalty rules recognise a chunk that carries the penalty clause.
	KindPenalty RuleKind = "penalty"
	// KindCitation rules find a law citation inside a line or chunk.
	KindCitation RuleKind = "citation"
)

// Valid reports whether k is a known kind.
func (k RuleKind) Valid() bool {
	switch k {
	case KindArticle, KindSection, KindPenalty, KindCitation:
		return true
	}
	return false
}

// Match is the outcome of a rule applied to a line or chunk.
type Match struct {
	Rule   string   `json:"rule"`
	Kind   RuleKind `json:"kind"`
	Text   string   `json:"text"`
	Number string   `json:"number,omitempty"`
	Title  string   `json:"title,omitempty"`
}

// Rule is a single named, independently testable detection pattern.
type Rule interface {
	Name() string
	Kind() RuleKind
	Match(text string) (Match, bool)
}

// Subject selects the form of the input a pattern is matched against.
type Subject string

const (
	// SubjectRaw matches the trimmed input as is.
	SubjectRaw Subject = ""
	// SubjectNormalized matches lower case, accent-free text with final
	// sigma folded to σ.
	SubjectNormalized Subject = "normalized"
	// SubjectUnaccented matches accent-free text in its original case.
	SubjectUnaccented Subject = "unaccented"
)

// Valid reports whether s is a known subject form.
func (s Subject) Valid() bool {
	switch s {
	case SubjectRaw, SubjectNormalized, SubjectUnaccented:
		return true
	}
	return false
}

func (s Subject) apply(text string) string {
	switch s {
	case SubjectNormalized:
		return normalize.Key(text)
	case SubjectUnaccented:
		return normalize.StripAccents(text)
	}
	return text
}

// PatternRule matches a regular expression against the input in the form
// chosen by its Subject.
type PatternRule struct {
	name        string
	kind        RuleKind
	pattern     *regexp.Regexp
	subject     Subject
	numberGroup int
	titleGroup  int
	textGroup   int
}

// NewPatternRule compiles expr into a rule. numberGroup and titleGroup select
// the capture groups reported as Match.Number and Match.Title; 0 disables them.
// A group named "text" narrows Match.Text on raw rules.
func NewPatternRule(name string, kind RuleKind, expr string, subject Subject, numberGroup, titleGroup int) (*PatternRule, error) {
	if name == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("rule %q: unknown kind %q", name, kind)
	}
	if !subject.Valid() {
		return nil, fmt.Errorf("rule %q: unknown subject %q", name, subject)
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("rule %q: invalid pattern: %w", name, err)
	}
	groups := pattern.NumSubexp()
	if numberGroup < 0 || numberGroup > groups || titleGroup < 0 || titleGroup > groups {
		return nil, fmt.Errorf("rule %q: capture group out of range (pattern has %d)", name, groups)
	}
	return &PatternRule{
		name:        name,
		kind:        kind,
		pattern:     pattern,
		subject:     subject,
		numberGroup: numberGroup,
		titleGroup:  titleGroup,
		textGroup:   pattern.SubexpIndex("text"),
	}, nil
}

func mustPatternRule(name string, kind RuleKind, expr string, subject Subject, numberGroup, titleGroup int) *PatternRule {
	rule, err := NewPatternRule(name, kind, expr, subject, numberGroup, titleGroup)
	if err != nil {
		panic(err)
	}
	return rule
}

// Name returns the rule name.
func (r *PatternRule) Name() string { return r.name }

// Kind returns the rule kind.
func (r *PatternRule) Kind() RuleKind { return r.kind }

// Match applies the pattern. Text is the matched part of the input for raw
// rules and the whole trimmed input otherwise.
func (r *PatternRule) Match(text string) (Match, bool) {
	subject := r.subject.apply(strings.TrimSpace(text))
	loc := r.pattern.FindStringSubmatchIndex(subject)
	if loc == nil {
		return Match{}, false
	}

	m := Match{Rule: r.name, Kind: r.kind, Text: strings.TrimSpace(text)}
	if r.subject == SubjectRaw {
		m.Text = subject[loc[0]:loc[1]]
		if r.textGroup > 0 {
			m.Text = group(subject, loc, r.textGroup)
		}
	}
	m.Number = group(subject, loc, r.numberGroup)
	m.Title = group(subject, loc, r.titleGroup)
	if r.subject != SubjectRaw && r.titleGroup > 0 {
		// Report the title in its original spelling when the two forms
		// line up rune for rune.
		m.Title = originalSuffix(strings.TrimSpace(text), m.Title, r.subject)
	}
	return m, true
}

func group(subject string, loc []int, n int) string {
	if n <= 0 || 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return strings.TrimSpace(subject[loc[2*n]:loc[2*n+1]])
}

// originalSuffix returns the tail of original whose subject form is
// fragment, falling back to fragment itself.
func originalSuffix(original, fragment string, subject Subject) string {
	if fragment == "" {
		return ""
	}
	runes := []rune(original)
	want := []rune(fragment)
	if len(want) <= len(runes) {
		tail := strings.TrimSpace(string(runes[len(runes)-len(want):]))
		if subject.apply(tail) == fragment {
			return tail
		}
	}
	return fragment
}

// KeywordRule matches when the normalized input contains any keyword.
type KeywordRule struct {
	name     string
	kind     RuleKind
	keywords []string
}

// NewKeywordRule builds a keyword rule; keywords are normalized once here.
func NewKeywordRule(name string, kind RuleKind, keywords ...string) (*KeywordRule, error) {
	if name == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("rule %q: unknown kind %q", name, kind)
	}
	normalized := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = normalize.Fold(k); k != "" {
			normalized = append(normalized, k)
		}
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("rule %q: at least one keyword is required", name)
	}
	return &KeywordRule{name: name, kind: kind, keywords: normalized}, nil
}

func mustKeywordRule(name string, kind RuleKind, keywords ...string) *KeywordRule {
	rule, err := NewKeywordRule(name, kind, keywords...)
	if err != nil {
		panic(err)
	}
	return rule
}

// Name returns the rule name.
func (r *KeywordRule) Name() string { return r.name }

// Kind returns the rule kind.
func (r *KeywordRule) Kind() RuleKind { return r.kind }

// Keywords returns the normalized keywords.
func (r *KeywordRule) Keywords() []string {
	return append([]string(nil), r.keywords...)
}

// Match reports the first keyword found in text.
func (r *KeywordRule) Match(text string) (Match, bool) {
	subject := normalize.Key(text)
	for _, k := range r.keywords {
		if strings.Contains(subject, k) {
			return Match{Rule: r.name, Kind: r.kind, Text: strings.TrimSpace(text), Title: k}, true
		}
	}
	return Match{}, false
}

// Built-in rule names.
const (
	RuleArticleHeader = "article-header"
	RuleSectionHeader = "section-header"
	RulePenalty       = "penalty"
	RulePenaltyStrict = "penalty-strict"
	RuleLawCitation   = "law-citation"
)

// PenaltyKeywords are the indicator words of a penalty clause.
var PenaltyKeywords = []string{"τιμωρείται", "ποινή", "κύρωση", "πρόστιμο"}

// StrictPenaltyKeywords are added by the strict penalty rule.
var StrictPenaltyKeywords = []string{"φυλάκιση", "κάθειρξη"}

// ArticleHeaderRule matches "Άρθρο 5 - Κλοπή", "ΑΡΘΡΟ 12α – ..." in any case.
func ArticleHeaderRule() Rule {
	return mustPatternRule(RuleArticleHeader, KindArticle,
		`^αρθρο\s+(\d+[α-ω]?)\s*[-–—]\s*(\S.*)$`, SubjectNormalized, 1, 2)
}

// SectionHeaderRule matches "ΚΕΦΑΛΑΙΟ Α - ...", "ΜΕΡΟΣ ΠΡΩΤΟ: ...",
// "ΤΜΗΜΑ 2 – ..." and "ΤΙΤΛΟΣ ..." headings. The keyword must be in capitals:
// a wrapped body line such as "μέρος που αναλογεί - ..." is not a heading.
func SectionHeaderRule() Rule {
	return mustPatternRule(RuleSectionHeader, KindSection,
		`^(ΚΕΦΑΛΑΙΟ|ΜΕΡΟΣ|ΤΜΗΜΑ|ΤΙΤΛΟΣ)\s+(.+?)\s*[-–—:]\s*(\S.*)$`, SubjectUnaccented, 2, 3)
}

// PenaltyRule matches the penalty indicator words; strict adds the
// imprisonment terms.
func PenaltyRule(strict bool) Rule {
	if strict {
		keywords := append(append([]string(nil), PenaltyKeywords...), StrictPenaltyKeywords...)
		return mustKeywordRule(RulePenaltyStrict, KindPenalty, keywords...)
	}
	return mustKeywordRule(RulePenalty, KindPenalty, PenaltyKeywords...)
}

// LawCitationRule finds citations such as "Ν.4139/2013", "Π.Κ. 372",
// "Π.Δ. 141/1991" or "ΚΠΔ 45". The prefix must not continue a word, so the
// end of "ετών. 2." is not read as a citation.
func LawCitationRule() Rule {
	return mustPatternRule(RuleLawCitation, KindCitation,
		`(?i)(?:^|[^\p{L}])(?P<text>(?:Ν\.|Π\.Κ\.|Π\.Δ\.|ΚΠΔ)[ \t]*\d+[α-ω]?(?:/\d{4})?)`, SubjectRaw, 0, 0)
}

// RuleSet is an ordered collection of rules. Earlier rules win.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet creates a rule set from rules in priority order.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{}
	rs.Add(rules...)
	return rs
}

// DefaultRules returns the built-in rules.
func DefaultRules(strictPenalty bool) *RuleSet {
	return NewRuleSet(
		ArticleHeaderRule(),
		SectionHeaderRule(),
		PenaltyRule(strictPenalty),
		LawCitationRule(),
	)
}

// Add appends rules after the existing ones. Nil rules are ignored.
func (rs *RuleSet) Add(rules ...Rule) {
	for _, r := range rules {
		if r != nil {
			rs.rules = append(rs.rules, r)
		}
	}
}

// Rules returns the rules in priority order.
func (rs *RuleSet) Rules() []Rule {
	return append([]Rule(nil), rs.rules...)
}

// Get returns the rule with the given name.
func (rs *RuleSet) Get(name string) (Rule, bool) {
	for _, r := range rs.rules {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// First applies the rules of the given kind in order and returns the first match.
func (rs *RuleSet) First(kind RuleKind, text string) (Match, bool) {
	for _, r := range rs.rules {
		if r.Kind() != kind {
			continue
		}
		if m, ok := r.Match(text); ok {
			return m, true
		}
	}
	return Match{}, false
}
