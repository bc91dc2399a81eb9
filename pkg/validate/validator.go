// Package validate guards deletions: it records the references every article
// makes and reports which articles would be left pointing at a removed one.
package validate

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/coolbeans/nomiki/pkg/types"
)

// Mode selects how a reference token is matched against a removal target.
type Mode string

const (
	// ModeDirectional resolves every token to the articles it identifies and
	// answers removals from that inbound index.
	ModeDirectional Mode = "directional"
	// ModeLegacy blocks a removal when another article holds a token that is
	// a substring of the target title.
	ModeLegacy Mode = "legacy"
)

// ParseMode parses a mode name. The empty string is ModeDirectional.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDirectional:
		return ModeDirectional, nil
	case ModeLegacy:
		return ModeLegacy, nil
	}
	return "", fmt.Errorf("unknown validator mode %q (want %q or %q)", s, ModeDirectional, ModeLegacy)
}

// Blocker is an article that would be left with a dangling reference.
type Blocker struct {
	Source types.ArticleID `json:"source"`
	Token  string          `json:"token"`
}

// String renders the blocker as "category:subcategory:title (token)".
func (b Blocker) String() string {
	return fmt.Sprintf("%s (%s)", b.Source, b.Token)
}

// Stats describes the current reference map.
type Stats struct {
	Articles int `json:"articles"`
	Tokens   int `json:"tokens"`
	Edges    int `json:"edges"`
}

// Option configures a Validator.
type Option func(*Validator)

// WithMode sets the matching mode.
func WithMode(mode Mode) Option {
	return func(v *Validator) {
		v.mode = mode
	}
}

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator holds the reference map of a taxonomy. The map is a snapshot: it
// does not follow later mutations of the taxonomy until UpdateReferences is
// called. A Validator is not safe for concurrent use.
type Validator struct {
	taxonomy *types.Taxonomy
	mode     Mode
	logger   *slog.Logger

	order   []types.ArticleID
	refs    map[types.ArticleID][]string
	inbound map[types.ArticleID][]Blocker
	laws    map[string]*lawGroup
	lawKeys []string
	edges   int
}

// lawGroup holds the citations of a whole law. They dangle only once every
// article of the law is gone.
type lawGroup struct {
	members []types.ArticleID
	citers  []Blocker
}

func (g *lawGroup) coveredBy(removed map[types.ArticleID]bool) bool {
	if len(g.members) == 0 {
		return false
	}
	for _, id := range g.members {
		if !removed[id] {
			return false
		}
	}
	return true
}

// New builds a validator over t.
func New(t *types.Taxonomy, opts ...Option) *Validator {
	v := &Validator{
		taxonomy: t,
		mode:     ModeDirectional,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.build()
	return v
}

// Mode returns the matching mode.
func (v *Validator) Mode() Mode {
	return v.mode
}

// UpdateReferences clears the map and rebuilds it from the taxonomy.
func (v *Validator) UpdateReferences() {
	v.build()
}

func (v *Validator) build() {
	v.order = nil
	v.refs = make(map[types.ArticleID][]string)
	v.inbound = make(map[types.ArticleID][]Blocker)
	v.laws = make(map[string]*lawGroup)
	v.lawKeys = nil
	v.edges = 0

	if v.taxonomy == nil {
		return
	}

	// Lookup tables for token resolution.
	byNumber := make(map[string]map[string][]types.ArticleID) // category -> number -> ids
	byLaw := make(map[string][]types.ArticleID)               // canonical law -> ids
	laws := make(map[types.ArticleID]string)

	_ = v.taxonomy.Walk(func(a types.Article) error {
		id := a.ID()
		tokens := ExtractReferences(a.Content)
		if existing, ok := v.refs[id]; ok {
			v.refs[id] = union(existing, tokens)
			return nil
		}
		v.order = append(v.order, id)
		v.refs[id] = tokens

		if n := articleNumber(a.Title); n != "" {
			if byNumber[a.Category] == nil {
				byNumber[a.Category] = make(map[string][]types.ArticleID)
			}
			byNumber[a.Category][n] = append(byNumber[a.Category][n], id)
		}
		if law := canonicalLaw(a.Law); law != "" {
			if !containsID(byLaw[law], id) {
				byLaw[law] = append(byLaw[law], id)
			}
			laws[id] = law
		}
		return nil
	})

	if v.mode != ModeDirectional {
		v.logBuild()
		return
	}

	lawNames := make([]string, 0, len(byLaw))
	for law := range byLaw {
		lawNames = append(lawNames, law)
	}
	sort.Strings(lawNames)

	for _, source := range v.order {
		for _, token := range v.refs[source] {
			var targets []types.ArticleID
			switch {
			case isLawToken(token) && citesArticle(token):
				law := canonicalLaw(token)
				if law == laws[source] {
					continue
				}
				targets = byLaw[law]
			case isLawToken(token):
				for _, law := range citedLaws(canonicalLaw(token), lawNames) {
					if law == laws[source] {
						// A citation of the article's own law.
						continue
					}
					v.addLawCitation(law, byLaw[law], Blocker{Source: source, Token: token})
				}
				continue
			default:
				targets = byNumber[source.Category][articleNumber(token)]
			}
			for _, target := range targets {
				if target == source {
					continue
				}
				v.inbound[target] = append(v.inbound[target], Blocker{Source: source, Token: token})
				v.edges++
			}
		}
	}
	v.logBuild()
}

func (v *Validator) addLawCitation(law string, members []types.ArticleID, b Blocker) {
	g, ok := v.laws[law]
	if !ok {
		g = &lawGroup{members: members}
		v.laws[law] = g
		v.lawKeys = append(v.lawKeys, law)
	}
	g.citers = append(g.citers, b)
	v.edges++
}

func containsID(ids []types.ArticleID, id types.ArticleID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func (v *Validator) logBuild() {
	stats := v.Stats()
	v.logger.Debug("reference map built",
		"mode", string(v.mode),
		"articles", stats.Articles,
		"tokens", stats.Tokens,
		"edges", stats.Edges,
	)
}

// ValidateRemoval reports whether the article can be removed without leaving
// another article with a dangling reference, and which articles would.
//
// In directional mode a citation of a whole law ("Ν.4139/2013") blocks only
// the removal of the last article of that law; article numbers and code
// citations ("Π.Κ. 372") block the article they identify.
func (v *Validator) ValidateRemoval(category, subcategory, title string) (bool, []Blocker) {
	target := types.ArticleID{Category: category, Subcategory: subcategory, Title: title}

	if v.mode != ModeLegacy {
		blockers := v.danglingAfter(map[types.ArticleID]bool{target: true})
		return len(blockers) == 0, blockers
	}

	var blockers []Blocker
	for _, source := range v.order {
		if source == target {
			continue
		}
		for _, token := range v.refs[source] {
			if strings.Contains(title, token) {
				blockers = append(blockers, Blocker{Source: source, Token: token})
				break
			}
		}
	}
	return len(blockers) == 0, blockers
}

// ValidateSectionRemoval checks the removal of every article of the
// subcategory at once. In directional mode, references from inside the
// subcategory do not block since they are removed as well, and a law citation
// blocks when the subcategory holds all remaining articles of that law.
// Legacy mode returns the de-duplicated union of the per-article blockers.
func (v *Validator) ValidateSectionRemoval(category, subcategory string) (bool, []Blocker) {
	section := types.SectionID{Category: category, Subcategory: subcategory}
	articles := v.sectionArticles(section)

	if v.mode != ModeLegacy {
		removed := make(map[types.ArticleID]bool, len(articles))
		for _, a := range articles {
			removed[a.ID()] = true
		}
		blockers := v.danglingAfter(removed)
		return len(blockers) == 0, blockers
	}

	seen := make(map[Blocker]bool)
	var blockers []Blocker
	for _, article := range articles {
		_, found := v.ValidateRemoval(category, subcategory, article.Title)
		for _, b := range found {
			if seen[b] {
				continue
			}
			seen[b] = true
			blockers = append(blockers, b)
		}
	}
	return len(blockers) == 0, blockers
}

// danglingAfter lists the references left without a target once every
// article in removed is gone. Sources that are removed themselves are
// skipped.
func (v *Validator) danglingAfter(removed map[types.ArticleID]bool) []Blocker {
	seen := make(map[Blocker]bool)
	var blockers []Blocker
	add := func(b Blocker) {
		if removed[b.Source] || seen[b] {
			return
		}
		seen[b] = true
		blockers = append(blockers, b)
	}

	for _, id := range v.order {
		if removed[id] {
			for _, b := range v.inbound[id] {
				add(b)
			}
		}
	}
	for _, law := range v.lawKeys {
		if g := v.laws[law]; g.coveredBy(removed) {
			for _, b := range g.citers {
				add(b)
			}
		}
	}
	return blockers
}

// sectionArticles lists the articles of a section, one per title.
func (v *Validator) sectionArticles(section types.SectionID) []types.Article {
	if v.taxonomy == nil {
		return nil
	}
	var articles []types.Article
	seen := make(map[string]bool)
	for _, a := range v.taxonomy.Articles(section.Category, section.Subcategory) {
		if seen[a.Title] {
			continue
		}
		seen[a.Title] = true
		articles = append(articles, a)
	}
	return articles
}

// ArticleReferences returns the tokens found in an article's content. An
// unknown article has no references.
func (v *Validator) ArticleReferences(category, subcategory, title string) []string {
	refs := v.refs[types.ArticleID{Category: category, Subcategory: subcategory, Title: title}]
	return append([]string{}, refs...)
}

// ReferenceMap returns a copy of the map keyed by the string form of the IDs.
func (v *Validator) ReferenceMap() map[string][]string {
	out := make(map[string][]string, len(v.refs))
	for id, tokens := range v.refs {
		out[id.String()] = append([]string{}, tokens...)
	}
	return out
}

// Stats reports the size of the reference map.
func (v *Validator) Stats() Stats {
	stats := Stats{Articles: len(v.order), Edges: v.edges}
	for _, tokens := range v.refs {
		stats.Tokens += len(tokens)
	}
	return stats
}

func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
