// Package store owns the working taxonomy and its reference validator, and
// serializes every upload, deletion and search against them.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coolbeans/nomiki/pkg/corpus"
	"github.com/coolbeans/nomiki/pkg/lawdb"
	"github.com/coolbeans/nomiki/pkg/pdftext"
	"github.com/coolbeans/nomiki/pkg/search"
	"github.com/coolbeans/nomiki/pkg/types"
	"github.com/coolbeans/nomiki/pkg/validate"
)

var (
	// ErrNotFound is returned when a deletion target does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsafeRemoval is returned when a deletion would leave dangling
	// references and was not overridden.
	ErrUnsafeRemoval = errors.New("removal would break references")
)

// Options configures a Store.
type Options struct {
	// Taxonomy is the starting corpus. Defaults to corpus.Seed().
	Taxonomy      *types.Taxonomy
	Assembler     *corpus.Assembler
	Decoders      pdftext.Decoders
	ValidatorMode validate.Mode
	Logger        *slog.Logger
	// DatabasePath is where Save writes the law database. Empty disables
	// persistence.
	DatabasePath string
	Now          func() time.Time
}

// File is an uploaded document.
type File struct {
	Name string
	Data []byte
}

// FileFailure records a file that could not be decoded.
type FileFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// UploadReport describes one upload batch.
type UploadReport struct {
	Batch     string                  `json:"batch"`
	Documents []corpus.DocumentReport `json:"documents"`
	Failed    []FileFailure           `json:"failed,omitempty"`
	Articles  int                     `json:"articles"`
}

// OK reports whether at least one document was decoded and none failed.
func (r *UploadReport) OK() bool {
	return len(r.Documents) > 0 && len(r.Failed) == 0
}

// Deletion is the outcome of a deletion request.
type Deletion struct {
	Target     string             `json:"target"`
	Removed    bool               `json:"removed"`
	Overridden bool               `json:"overridden,omitempty"`
	Blockers   []validate.Blocker `json:"blockers,omitempty"`
}

// Store is the single owner of the working corpus.
type Store struct {
	mu        sync.RWMutex
	taxonomy  *types.Taxonomy
	validator *validate.Validator
	assembler *corpus.Assembler
	decoders  pdftext.Decoders
	updated   map[string]time.Time
	path      string
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a store and builds the reference map of its taxonomy.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	taxonomy := opts.Taxonomy
	if taxonomy == nil {
		taxonomy = corpus.Seed()
	}
	assembler := opts.Assembler
	if assembler == nil {
		assembler = corpus.NewAssembler(nil, logger)
	}
	decoders := opts.Decoders
	if decoders == nil {
		decoders = pdftext.DefaultDecoders(logger)
	}
	mode := opts.ValidatorMode
	if mode == "" {
		mode = validate.ModeDirectional
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Store{
		taxonomy:  taxonomy,
		validator: validate.New(taxonomy, validate.WithMode(mode), validate.WithLogger(logger)),
		assembler: assembler,
		decoders:  decoders,
		updated:   make(map[string]time.Time),
		path:      opts.DatabasePath,
		logger:    logger,
		now:       now,
	}
}

// Upload decodes each file and assembles the decoded documents into the
// corpus. Files that fail to decode are logged and recorded in the report;
// they never reach the extractor. The returned error is reserved for a
// cancelled context or a failed save.
func (s *Store) Upload(ctx context.Context, files []File) (*UploadReport, error) {
	report := &UploadReport{Batch: uuid.NewString()}
	logger := s.logger.With("batch", report.Batch)

	var docs []corpus.Document
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		text, err := s.decoders.Decode(f.Name, f.Data)
		if err != nil {
			logger.Warn("failed to decode document", "file", f.Name, "error", err)
			report.Failed = append(report.Failed, FileFailure{Name: f.Name, Error: err.Error()})
			continue
		}
		docs = append(docs, corpus.Document{Name: f.Name, Text: text})
	}
	if len(docs) == 0 {
		logger.Info("upload finished", "documents", 0, "failed", len(report.Failed))
		return report, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assembled := s.assembler.Assemble(s.taxonomy, docs...)
	report.Documents = assembled.Documents
	report.Articles = assembled.Articles

	stamp := s.now().UTC()
	for _, d := range assembled.Documents {
		if d.Articles > 0 {
			s.updated[d.Category] = stamp
		}
	}
	s.validator.UpdateReferences()

	logger.Info("upload finished",
		"documents", len(report.Documents),
		"failed", len(report.Failed),
		"articles", report.Articles)

	if err := s.saveUnsafe(); err != nil {
		return report, err
	}
	return report, nil
}

// Search runs the degrading keyword search under the read lock. A blank
// query (empty or whitespace only) matches nothing.
func (s *Store) Search(query string) []search.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return search.SearchOrEmpty(query, s.taxonomy, s.logger)
}

// DeleteArticle removes an article after checking that no other article
// references it. An unsafe removal is refused with ErrUnsafeRemoval unless
// override is set; the returned Deletion lists the blockers either way.
func (s *Store) DeleteArticle(category, subcategory, title string, override bool) (*Deletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := types.ArticleID{Category: category, Subcategory: subcategory, Title: title}
	if _, ok := s.taxonomy.Find(category, subcategory, title); !ok {
		return nil, fmt.Errorf("%w: article %s", ErrNotFound, id)
	}

	safe, blockers := s.validator.ValidateRemoval(category, subcategory, title)
	d := &Deletion{Target: id.String(), Blockers: blockers}
	if !safe && !override {
		s.logger.Warn("refusing unsafe removal", "category", category, "subcategory", subcategory, "title", title, "blockers", len(blockers))
		return d, ErrUnsafeRemoval
	}

	s.taxonomy.RemoveArticle(category, subcategory, title)
	return s.finishDeletionUnsafe(d, category, !safe)
}

// DeleteSection removes a subcategory and its articles, with the same
// safety rules as DeleteArticle.
func (s *Store) DeleteSection(category, subcategory string, override bool) (*Deletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := category + ":" + subcategory
	if !s.taxonomy.HasSection(category, subcategory) {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, target)
	}

	safe, blockers := s.validator.ValidateSectionRemoval(category, subcategory)
	d := &Deletion{Target: target, Blockers: blockers}
	if !safe && !override {
		s.logger.Warn("refusing unsafe removal", "category", category, "subcategory", subcategory, "blockers", len(blockers))
		return d, ErrUnsafeRemoval
	}

	s.taxonomy.RemoveSubcategory(category, subcategory)
	return s.finishDeletionUnsafe(d, category, !safe)
}

func (s *Store) finishDeletionUnsafe(d *Deletion, category string, overridden bool) (*Deletion, error) {
	d.Removed = true
	d.Overridden = overridden
	if overridden {
		s.logger.Warn("removal overridden", "target", d.Target, "blockers", len(d.Blockers))
	} else {
		s.logger.Info("removed", "target", d.Target)
	}
	if s.taxonomy.HasCategory(category) {
		s.updated[category] = s.now().UTC()
	} else {
		delete(s.updated, category)
	}
	s.validator.UpdateReferences()
	if err := s.saveUnsafe(); err != nil {
		return d, err
	}
	return d, nil
}

// References returns the reference tokens recorded for an article.
func (s *Store) References(category, subcategory, title string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validator.ArticleReferences(category, subcategory, title)
}

// ReferenceStats describes the current reference map.
func (s *Store) ReferenceStats() validate.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validator.Stats()
}

// Snapshot returns a deep copy of the taxonomy.
func (s *Store) Snapshot() *types.Taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxonomy.Clone()
}

// Articles returns a copy of the articles of a subcategory.
func (s *Store) Articles(category, subcategory string) []types.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxonomy.Articles(category, subcategory)
}

// Categories lists the categories in order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxonomy.Categories()
}

// Subcategories lists the subcategories of a category in order.
func (s *Store) Subcategories(category string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taxonomy.Subcategories(category)
}

// Updates lists category update times, most recent first.
func (s *Store) Updates() []lawdb.CategoryUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.databaseUnsafe().Updates()
}

// Load applies the law database at path to the corpus: each of its
// categories replaces the same category. The path becomes the save target.
// A missing file changes nothing.
func (s *Store) Load(path string) ([]string, error) {
	db, err := lawdb.Load(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := db.ApplyTo(s.taxonomy)
	for category, ts := range db.LastUpdate {
		s.updated[category] = ts
	}
	s.path = path
	s.validator.UpdateReferences()
	s.logger.Debug("law database loaded", "path", path, "categories", len(applied))
	return applied, nil
}

// Save writes the corpus to the law database path.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveUnsafe()
}

func (s *Store) saveUnsafe() error {
	if s.path == "" {
		return nil
	}
	return s.databaseUnsafe().Save(s.path)
}

func (s *Store) databaseUnsafe() *lawdb.Database {
	updated := make(map[string]time.Time, len(s.updated))
	for category, ts := range s.updated {
		updated[category] = ts
	}
	return &lawdb.Database{Categories: s.taxonomy, LastUpdate: updated}
}
