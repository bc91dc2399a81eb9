// Package types holds the data model shared by the extraction, search and
// validation packages: articles and the category/subcategory taxonomy.
package types

import "strings"

// idSeparator joins the parts of an ArticleID in its string form.
const idSeparator = ":"

// Article is a single legal provision.
type Article struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Law         string `json:"law"`
	Penalty     string `json:"penalty"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}

// ID returns the identity of the article inside the taxonomy.
func (a Article) ID() ArticleID {
	return ArticleID{Category: a.Category, Subcategory: a.Subcategory, Title: a.Title}
}

// ArticleID identifies an article by category, subcategory and title.
// Titles are not unique; two articles of the same subcategory that share a
// title share an ID.
type ArticleID struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Title       string `json:"title"`
}

// String renders the ID as "category:subcategory:title".
func (id ArticleID) String() string {
	return strings.Join([]string{id.Category, id.Subcategory, id.Title}, idSeparator)
}

// ParseArticleID splits an ID produced by String. Category and subcategory
// names must not contain the separator; the title may.
func ParseArticleID(s string) (ArticleID, bool) {
	parts := strings.SplitN(s, idSeparator, 3)
	if len(parts) != 3 {
		return ArticleID{}, false
	}
	return ArticleID{Category: parts[0], Subcategory: parts[1], Title: parts[2]}, true
}

// SectionID identifies a subcategory.
type SectionID struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Contains reports whether the article identified by id lives in the section.
func (s SectionID) Contains(id ArticleID) bool {
	return id.Category == s.Category && id.Subcategory == s.Subcategory
}
