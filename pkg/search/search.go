// Package search implements the diacritic-insensitive keyword search over a
// taxonomy.
package search

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coolbeans/nomiki/pkg/normalize"
	"github.com/coolbeans/nomiki/pkg/types"
)

// ErrSearchFailed wraps every internal failure of a search.
var ErrSearchFailed = errors.New("search failed")

// Match is a denormalized copy of a matching article. It stays valid after
// the taxonomy changes.
type Match struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Law         string `json:"law"`
	Penalty     string `json:"penalty"`
}

// ID returns the identity of the matched article.
func (m Match) ID() types.ArticleID {
	return types.ArticleID{Category: m.Category, Subcategory: m.Subcategory, Title: m.Title}
}

// Search returns the articles whose title, content or law contains the query,
// compared in normalize.Key form, in taxonomy traversal order. A blank query
// (empty or whitespace only) returns no matches and no error; a lone space
// would otherwise match nearly every article.
func Search(query string, t *types.Taxonomy) (matches []Match, err error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if t == nil {
		return nil, fmt.Errorf("%w: no taxonomy", ErrSearchFailed)
	}

	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = fmt.Errorf("%w: %v", ErrSearchFailed, r)
		}
	}()

	needle := normalize.Key(query)
	err = t.Walk(func(a types.Article) error {
		if strings.Contains(normalize.Key(a.Title), needle) ||
			strings.Contains(normalize.Key(a.Content), needle) ||
			strings.Contains(normalize.Key(a.Law), needle) {
			matches = append(matches, Match{
				Category:    a.Category,
				Subcategory: a.Subcategory,
				Title:       a.Title,
				Content:     a.Content,
				Law:         a.Law,
				Penalty:     a.Penalty,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchFailed, err)
	}
	return matches, nil
}

// SearchOrEmpty is the degrading form of Search: failures are logged and an
// empty result is returned.
func SearchOrEmpty(query string, t *types.Taxonomy, logger *slog.Logger) []Match {
	matches, err := Search(query, t)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("search failed", "query", query, "error", err)
		return []Match{}
	}
	return matches
}
