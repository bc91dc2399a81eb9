package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/coolbeans/nomiki/pkg/fsutil"
)

// Taxonomy is an ordered two-level grouping of articles:
// category -> subcategory -> articles. Category and subcategory insertion order
// is kept for display and survives JSON round trips.
//
// The zero value is an empty taxonomy ready for use. A Taxonomy is not safe for
// concurrent mutation; callers serialize access (see pkg/store).
type Taxonomy struct {
	categories []*categoryNode
	index      map[string]*categoryNode
}

type categoryNode struct {
	name          string
	subcategories []*subcategoryNode
	index         map[string]*subcategoryNode
}

type subcategoryNode struct {
	name     string
	articles []Article
}

// NewTaxonomy creates an empty taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{index: make(map[string]*categoryNode)}
}

func (t *Taxonomy) category(name string, create bool) *categoryNode {
	if t.index == nil {
		t.index = make(map[string]*categoryNode)
	}
	if node, ok := t.index[name]; ok {
		return node
	}
	if !create {
		return nil
	}
	node := &categoryNode{name: name, index: make(map[string]*subcategoryNode)}
	t.categories = append(t.categories, node)
	t.index[name] = node
	return node
}

func (c *categoryNode) subcategory(name string, create bool) *subcategoryNode {
	if node, ok := c.index[name]; ok {
		return node
	}
	if !create {
		return nil
	}
	node := &subcategoryNode{name: name}
	c.subcategories = append(c.subcategories, node)
	c.index[name] = node
	return node
}

func (t *Taxonomy) section(category, subcategory string) *subcategoryNode {
	if t == nil {
		return nil
	}
	cat := t.category(category, false)
	if cat == nil {
		return nil
	}
	return cat.subcategory(subcategory, false)
}

// Categories returns category names in insertion order.
func (t *Taxonomy) Categories() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		names = append(names, c.name)
	}
	return names
}

// Subcategories returns the subcategory names of a category in insertion
// order. An unknown category has no subcategories.
func (t *Taxonomy) Subcategories(category string) []string {
	if t == nil {
		return nil
	}
	cat := t.category(category, false)
	if cat == nil {
		return nil
	}
	names := make([]string, 0, len(cat.subcategories))
	for _, s := range cat.subcategories {
		names = append(names, s.name)
	}
	return names
}

// Articles returns a copy of the articles filed under category/subcategory.
// Unknown keys yield no articles.
func (t *Taxonomy) Articles(category, subcategory string) []Article {
	sec := t.section(category, subcategory)
	if sec == nil {
		return nil
	}
	out := make([]Article, len(sec.articles))
	copy(out, sec.articles)
	return out
}

// HasCategory reports whether the category exists.
func (t *Taxonomy) HasCategory(category string) bool {
	return t != nil && t.category(category, false) != nil
}

// HasSection reports whether the category/subcategory pair exists.
func (t *Taxonomy) HasSection(category, subcategory string) bool {
	return t.section(category, subcategory) != nil
}

// Find returns the first article with the given title in category/subcategory.
func (t *Taxonomy) Find(category, subcategory, title string) (Article, bool) {
	sec := t.section(category, subcategory)
	if sec == nil {
		return Article{}, false
	}
	for _, a := range sec.articles {
		if a.Title == title {
			return a, true
		}
	}
	return Article{}, false
}

// Append files articles under category/subcategory, creating either key when
// unseen. Existing articles are never replaced; the Category and Subcategory
// fields of each appended article are set to the keys.
func (t *Taxonomy) Append(category, subcategory string, articles ...Article) {
	sec := t.category(category, true).subcategory(subcategory, true)
	for _, a := range articles {
		a.Category = category
		a.Subcategory = subcategory
		sec.articles = append(sec.articles, a)
	}
}

// EnsureSection creates an empty category/subcategory pair if missing.
func (t *Taxonomy) EnsureSection(category, subcategory string) {
	t.category(category, true).subcategory(subcategory, true)
}

// RemoveArticle deletes the first article with the given title. The
// subcategory is kept even when it becomes empty.
func (t *Taxonomy) RemoveArticle(category, subcategory, title string) bool {
	sec := t.section(category, subcategory)
	if sec == nil {
		return false
	}
	for i, a := range sec.articles {
		if a.Title == title {
			sec.articles = append(sec.articles[:i:i], sec.articles[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveSubcategory deletes a subcategory and its articles. A category left
// without subcategories is removed as well.
func (t *Taxonomy) RemoveSubcategory(category, subcategory string) bool {
	if t == nil {
		return false
	}
	cat := t.category(category, false)
	if cat == nil {
		return false
	}
	if _, ok := cat.index[subcategory]; !ok {
		return false
	}
	delete(cat.index, subcategory)
	for i, s := range cat.subcategories {
		if s.name == subcategory {
			cat.subcategories = append(cat.subcategories[:i:i], cat.subcategories[i+1:]...)
			break
		}
	}
	if len(cat.subcategories) == 0 {
		t.RemoveCategory(category)
	}
	return true
}

// RemoveCategory deletes a category and everything under it.
func (t *Taxonomy) RemoveCategory(category string) bool {
	if t == nil || t.category(category, false) == nil {
		return false
	}
	delete(t.index, category)
	for i, c := range t.categories {
		if c.name == category {
			t.categories = append(t.categories[:i:i], t.categories[i+1:]...)
			break
		}
	}
	return true
}

// ReplaceCategory swaps the contents of category for the same category in
// src. The category keeps its position; it is appended when new. A category
// missing from src is removed from t.
func (t *Taxonomy) ReplaceCategory(category string, src *Taxonomy) {
	var incoming *categoryNode
	if src != nil {
		incoming = src.category(category, false)
	}
	if incoming == nil {
		t.RemoveCategory(category)
		return
	}
	cloned := incoming.clone()
	if existing := t.category(category, false); existing != nil {
		*existing = *cloned
		return
	}
	t.categories = append(t.categories, cloned)
	t.index[category] = cloned
}

// Merge appends every article of other into t, keeping other's order.
func (t *Taxonomy) Merge(other *Taxonomy) {
	if other == nil {
		return
	}
	for _, c := range other.categories {
		for _, s := range c.subcategories {
			t.EnsureSection(c.name, s.name)
			t.Append(c.name, s.name, s.articles...)
		}
	}
}

// Walk calls fn for every article in traversal order: category insertion
// order, then subcategory insertion order, then article order. Walk stops at
// the first error and returns it.
func (t *Taxonomy) Walk(fn func(Article) error) error {
	if t == nil {
		return nil
	}
	for _, c := range t.categories {
		for _, s := range c.subcategories {
			for _, a := range s.articles {
				if err := fn(a); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Len returns the total number of articles.
func (t *Taxonomy) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, c := range t.categories {
		for _, s := range c.subcategories {
			n += len(s.articles)
		}
	}
	return n
}

// Clone returns a deep copy.
func (t *Taxonomy) Clone() *Taxonomy {
	out := NewTaxonomy()
	if t == nil {
		return out
	}
	for _, c := range t.categories {
		cloned := c.clone()
		out.categories = append(out.categories, cloned)
		out.index[c.name] = cloned
	}
	return out
}

func (c *categoryNode) clone() *categoryNode {
	out := &categoryNode{name: c.name, index: make(map[string]*subcategoryNode, len(c.subcategories))}
	for _, s := range c.subcategories {
		sub := &subcategoryNode{name: s.name, articles: append([]Article(nil), s.articles...)}
		out.subcategories = append(out.subcategories, sub)
		out.index[s.name] = sub
	}
	return out
}

// MarshalJSON writes the taxonomy as nested JSON objects in insertion order.
func (t *Taxonomy) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if t != nil {
		for i, c := range t.categories {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, c.name); err != nil {
				return nil, err
			}
			buf.WriteByte('{')
			for j, s := range c.subcategories {
				if j > 0 {
					buf.WriteByte(',')
				}
				if err := writeKey(&buf, s.name); err != nil {
					return nil, err
				}
				articles := s.articles
				if articles == nil {
					articles = []Article{}
				}
				data, err := fsutil.Marshal(articles)
				if err != nil {
					return nil, fmt.Errorf("failed to marshal %s/%s: %w", c.name, s.name, err)
				}
				buf.Write(data)
			}
			buf.WriteByte('}')
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	data, err := fsutil.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(data)
	buf.WriteByte(':')
	return nil
}

// UnmarshalJSON reads nested JSON objects, keeping the key order of the
// document. Category and subcategory fields of the articles are set from the
// enclosing keys.
func (t *Taxonomy) UnmarshalJSON(data []byte) error {
	*t = Taxonomy{index: make(map[string]*categoryNode)}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("taxonomy: %w", err)
	}
	for dec.More() {
		category, err := readKey(dec)
		if err != nil {
			return fmt.Errorf("taxonomy: %w", err)
		}
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("taxonomy category %q: %w", category, err)
		}
		for dec.More() {
			subcategory, err := readKey(dec)
			if err != nil {
				return fmt.Errorf("taxonomy category %q: %w", category, err)
			}
			var articles []Article
			if err := dec.Decode(&articles); err != nil {
				return fmt.Errorf("taxonomy section %q/%q: %w", category, subcategory, err)
			}
			t.EnsureSection(category, subcategory)
			t.Append(category, subcategory, articles...)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return fmt.Errorf("taxonomy category %q: %w", category, err)
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
