// Package bookmark keeps the articles a user has marked, in a JSON file keyed
// by article ID.
package bookmark

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/coolbeans/nomiki/pkg/fsutil"
	"github.com/coolbeans/nomiki/pkg/types"
)

// DefaultFileName is the bookmark file name inside the data directory.
const DefaultFileName = "bookmarks.json"

// Record is a bookmarked copy of an article.
type Record struct {
	Category     string          `json:"category"`
	Subcategory  string          `json:"subcategory"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Law          string          `json:"law"`
	Penalty      string          `json:"penalty"`
	BookmarkedAt types.Timestamp `json:"bookmarked_at"`
}

// FromArticle copies an article into a record.
func FromArticle(a types.Article) Record {
	return Record{
		Category:    a.Category,
		Subcategory: a.Subcategory,
		Title:       a.Title,
		Content:     a.Content,
		Law:         a.Law,
		Penalty:     a.Penalty,
	}
}

// ID returns the article ID of the record.
func (r Record) ID() types.ArticleID {
	return types.ArticleID{Category: r.Category, Subcategory: r.Subcategory, Title: r.Title}
}

// Entry pairs a record with its key.
type Entry struct {
	ID     string `json:"id"`
	Record Record `json:"record"`
}

// Store reads and rewrites the bookmark file on every call, so several
// processes see each other's changes.
type Store struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Open returns the store at path, creating the directory and an empty file
// when missing.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := fsutil.WriteJSON(path, map[string]Record{}); err != nil {
			return nil, fmt.Errorf("failed to create bookmark file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to open bookmark file: %w", err)
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Add bookmarks an article. It reports false when the ID is already
// bookmarked; the existing record is kept.
func (s *Store) Add(id string, record Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadUnsafe()
	if err != nil {
		return false, err
	}
	if _, ok := bookmarks[id]; ok {
		return false, nil
	}
	record.BookmarkedAt = types.Timestamp{Time: s.now().UTC()}
	bookmarks[id] = record
	return true, s.saveUnsafe(bookmarks)
}

// Remove deletes a bookmark. It reports false when the ID was not bookmarked.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookmarks, err := s.loadUnsafe()
	if err != nil {
		return false, err
	}
	if _, ok := bookmarks[id]; !ok {
		return false, nil
	}
	delete(bookmarks, id)
	return true, s.saveUnsafe(bookmarks)
}

// All returns every bookmark keyed by ID.
func (s *Store) All() (map[string]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUnsafe()
}

// IsBookmarked reports whether the ID is bookmarked.
func (s *Store) IsBookmarked(id string) (bool, error) {
	bookmarks, err := s.All()
	if err != nil {
		return false, err
	}
	_, ok := bookmarks[id]
	return ok, nil
}

// List returns the bookmarks, most recently added first.
func (s *Store) List() ([]Entry, error) {
	bookmarks, err := s.All()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(bookmarks))
	for id, r := range bookmarks {
		entries = append(entries, Entry{ID: id, Record: r})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Record.BookmarkedAt, entries[j].Record.BookmarkedAt
		if !a.Equal(b.Time) {
			return a.After(b.Time)
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *Store) loadUnsafe() (map[string]Record, error) {
	bookmarks := make(map[string]Record)
	if _, err := fsutil.ReadJSON(s.path, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (s *Store) saveUnsafe(bookmarks map[string]Record) error {
	if err := fsutil.WriteJSON(s.path, bookmarks); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}
