// Package lawdb persists the law database: extra categories fetched or
// extracted outside the seed, plus the time each category was last updated.
package lawdb

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/coolbeans/nomiki/pkg/fsutil"
	"github.com/coolbeans/nomiki/pkg/types"
)

// DefaultFileName is the database file name inside the data directory.
const DefaultFileName = "law_database.json"

// Database is the on-disk law database.
type Database struct {
	Categories *types.Taxonomy
	LastUpdate map[string]time.Time
}

type databaseFile struct {
	Categories *types.Taxonomy   `json:"categories"`
	LastUpdate map[string]string `json:"last_update"`
}

// New returns an empty database.
func New() *Database {
	return &Database{
		Categories: types.NewTaxonomy(),
		LastUpdate: make(map[string]time.Time),
	}
}

// MarshalJSON writes {"categories": {...}, "last_update": {category: RFC3339}}.
func (db *Database) MarshalJSON() ([]byte, error) {
	file := databaseFile{
		Categories: db.Categories,
		LastUpdate: make(map[string]string, len(db.LastUpdate)),
	}
	if file.Categories == nil {
		file.Categories = types.NewTaxonomy()
	}
	for category, ts := range db.LastUpdate {
		file.LastUpdate[category] = ts.UTC().Format(time.RFC3339)
	}
	return fsutil.Marshal(file)
}

// UnmarshalJSON reads the database shape. Unparseable timestamps are an error.
func (db *Database) UnmarshalJSON(data []byte) error {
	file := databaseFile{Categories: types.NewTaxonomy()}
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}
	if file.Categories == nil {
		file.Categories = types.NewTaxonomy()
	}

	db.Categories = file.Categories
	db.LastUpdate = make(map[string]time.Time, len(file.LastUpdate))
	for category, raw := range file.LastUpdate {
		ts, err := types.ParseTimestamp(raw)
		if err != nil {
			return fmt.Errorf("last_update %q: %w", category, err)
		}
		db.LastUpdate[category] = ts
	}
	return nil
}

// Load reads the database at path. A missing file is an empty database.
func Load(path string) (*Database, error) {
	db := New()
	if _, err := fsutil.ReadJSON(path, db); err != nil {
		return nil, fmt.Errorf("failed to load law database: %w", err)
	}
	return db, nil
}

// Save writes the database atomically, creating the directory if needed.
func (db *Database) Save(path string) error {
	if err := fsutil.WriteJSON(path, db); err != nil {
		return fmt.Errorf("failed to save law database: %w", err)
	}
	return nil
}

// SetCategory replaces a category with the contents of src and stamps it.
func (db *Database) SetCategory(category string, src *types.Taxonomy, at time.Time) {
	if db.Categories == nil {
		db.Categories = types.NewTaxonomy()
	}
	if db.LastUpdate == nil {
		db.LastUpdate = make(map[string]time.Time)
	}
	db.Categories.ReplaceCategory(category, src)
	db.LastUpdate[category] = at
}

// ApplyTo replaces each database category in t, appending categories t does
// not have yet.
func (db *Database) ApplyTo(t *types.Taxonomy) []string {
	if db.Categories == nil {
		return nil
	}
	applied := db.Categories.Categories()
	for _, category := range applied {
		t.ReplaceCategory(category, db.Categories)
	}
	return applied
}

// CategoryUpdate pairs a category with its last update time.
type CategoryUpdate struct {
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Updates lists the stamped categories, most recent first.
func (db *Database) Updates() []CategoryUpdate {
	updates := make([]CategoryUpdate, 0, len(db.LastUpdate))
	for category, ts := range db.LastUpdate {
		updates = append(updates, CategoryUpdate{Category: category, UpdatedAt: ts})
	}
	sort.Slice(updates, func(i, j int) bool {
		if !updates[i].UpdatedAt.Equal(updates[j].UpdatedAt) {
			return updates[i].UpdatedAt.After(updates[j].UpdatedAt)
		}
		return updates[i].Category < updates[j].Category
	})
	return updates
}
