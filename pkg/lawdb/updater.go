package lawdb

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/coolbeans/nomiki/pkg/corpus"
	"github.com/coolbeans/nomiki/pkg/extract"
	"github.com/coolbeans/nomiki/pkg/pdftext"
	"github.com/coolbeans/nomiki/pkg/types"
)

// Source is one document feeding a category of the law database.
type Source struct {
	Category      string `yaml:"category" json:"category"`
	Subcategory   string `yaml:"subcategory" json:"subcategory"`
	Location      string `yaml:"location" json:"location"` // local path or http(s) URL
	Law           string `yaml:"law,omitempty" json:"law,omitempty"`
	ArticlePrefix string `yaml:"article_prefix,omitempty" json:"article_prefix,omitempty"`
}

// Remote reports whether the location is an http(s) URL.
func (s Source) Remote() bool {
	return strings.HasPrefix(s.Location, "http://") || strings.HasPrefix(s.Location, "https://")
}

func (s Source) options() extract.Options {
	subcategory := s.Subcategory
	if subcategory == "" {
		subcategory = corpus.SubcategoryGeneral
	}
	return extract.Options{
		Category:      s.Category,
		Subcategory:   subcategory,
		Law:           s.Law,
		ArticlePrefix: s.ArticlePrefix,
	}
}

// UpdateResult reports what one category update found.
type UpdateResult struct {
	Category string   `json:"category"`
	Sources  int      `json:"sources"`
	Failed   []string `json:"failed,omitempty"`
	Articles int      `json:"articles"`
	Updated  bool     `json:"updated"`
}

// Updater refreshes database categories from their sources.
type Updater struct {
	Sources   []Source
	Decoders  pdftext.Decoders
	Extractor *extract.Extractor
	Fetcher   Fetcher
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewUpdater creates an updater with default decoders, extractor and fetcher.
func NewUpdater(sources []Source, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		Sources:   sources,
		Decoders:  pdftext.DefaultDecoders(logger),
		Extractor: extract.NewExtractor(nil),
		Fetcher:   NewHTMLFetcher(HTMLFetcherConfig{}),
		Logger:    logger,
		Now:       time.Now,
	}
}

// Update rebuilds every category whose sources yield at least one article,
// replacing it in db and stamping its update time. Sources that fail are
// logged and skipped; a category with no articles keeps its previous
// contents. Update reports whether any category changed. The only error
// returned is a cancelled context.
func (u *Updater) Update(ctx context.Context, db *Database) (bool, error) {
	results, err := u.UpdateWithResults(ctx, db)
	updated := false
	for _, r := range results {
		updated = updated || r.Updated
	}
	return updated, err
}

// UpdateWithResults is Update with per-category results.
func (u *Updater) UpdateWithResults(ctx context.Context, db *Database) ([]UpdateResult, error) {
	logger := u.logger()
	now := time.Now
	if u.Now != nil {
		now = u.Now
	}
	extractor := u.Extractor
	if extractor == nil {
		extractor = extract.NewExtractor(nil)
	}

	var results []UpdateResult
	for _, category := range u.categories() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		logger.Info("checking updates", "category", category)

		result := UpdateResult{Category: category}
		fresh := types.NewTaxonomy()
		for _, src := range u.Sources {
			if src.Category != category {
				continue
			}
			result.Sources++

			text, err := u.load(ctx, src)
			if err != nil {
				if ctx.Err() != nil {
					return results, ctx.Err()
				}
				logger.Warn("failed to load source", "category", category, "location", src.Location, "error", err)
				result.Failed = append(result.Failed, src.Location)
				continue
			}
			for _, a := range extractor.Extract(text, src.options()) {
				fresh.Append(a.Category, a.Subcategory, a)
			}
		}

		result.Articles = fresh.Len()
		if result.Articles > 0 {
			db.SetCategory(category, fresh, now().UTC())
			result.Updated = true
			logger.Info("category updated", "category", category, "articles", result.Articles)
		}
		results = append(results, result)
	}
	return results, nil
}

// UpdateFile loads the database at path, updates it and saves it when any
// category changed.
func (u *Updater) UpdateFile(ctx context.Context, path string) (*Database, []UpdateResult, error) {
	db, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	results, err := u.UpdateWithResults(ctx, db)
	if err != nil {
		return db, results, err
	}
	for _, r := range results {
		if r.Updated {
			if err := db.Save(path); err != nil {
				return db, results, err
			}
			u.logger().Info("law database updated", "path", path)
			break
		}
	}
	return db, results, nil
}

func (u *Updater) load(ctx context.Context, src Source) (string, error) {
	if src.Remote() {
		if u.Fetcher == nil {
			return "", fmt.Errorf("no fetcher configured for %s", src.Location)
		}
		return u.Fetcher.Fetch(ctx, src.Location)
	}
	decoders := u.Decoders
	if decoders == nil {
		decoders = pdftext.DefaultDecoders(u.logger())
	}
	return decoders.DecodeFile(src.Location)
}

// categories lists the source categories in first-seen order.
func (u *Updater) categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, src := range u.Sources {
		if !seen[src.Category] {
			seen[src.Category] = true
			out = append(out, src.Category)
		}
	}
	return out
}

func (u *Updater) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}

// defaultSourceFiles lists the bundled documents per category and subcategory.
var defaultSourceFiles = []struct {
	category, subcategory, file string
}{
	{corpus.CategoryPenalCode, "", "Ποινικός-Κώδικας.pdf"},
	{corpus.CategorySpecialPenalLaws, "", "eidikoi_poinikoi_nomoi-poinologi.pdf"},
	{corpus.CategoryCriminalProcedure, "", "Κώδικας-Ποινικής-Δικονομίας.pdf"},
	{corpus.CategoryNarcotics, "", "nomos peri narkotikon.pdf"},
	{corpus.CategoryWeapons, "", "Ν.-2168.1993-ΠΕΡΙ-ΟΠΛΩΝ-ΕΠΙΚΑΙΡΟΠΟΙΗΜΕΝΟΣ.pdf"},
	{corpus.CategoryDomesticViolence, "Ορισμοί", "νομος ενδοοικογενειακης βιας.pdf"},
	{corpus.CategoryDomesticViolence, "Σωματική Βία", "νομος ενδοοικογενειακης βιας.pdf"},
	{corpus.CategoryDomesticViolence, "Οδηγός Αντιμετώπισης", "Οδηγός αντιμετώπισης ενδοοικογενειακής βίας .pdf"},
	{corpus.CategoryLegalProcedures, "", "ΠΔ 141 1991 ΑΡΜΟΔΙΟΤΗΤΕΣ ΚΑΙ ΕΝΕΡΓΕΙΕΣ ΕΛΑΣ.pdf"},
	{corpus.CategoryTraffic, "", "neoskok.pdf"},
	{corpus.CategoryPets, "", "ΦΕΚ κατοικιδια.pdf"},
	{corpus.CategoryPolicePersonnel, "Άδειες", "adeies astynomikoy prosopikoy.pdf"},
	{corpus.CategoryPolicePersonnel, "Μεταθέσεις", "metaueseis astynomikoy prosopikoy.pdf"},
	{corpus.CategoryPolicePersonnel, "Κώδικας Δεοντολογίας", "kodikas deontologias.pdf"},
	{corpus.CategoryPolicePersonnel, "Χρήση Οπλισμού", "nomos peri xrhshs oplismoy.pdf"},
	{corpus.CategoryPolicePersonnel, "Πειθαρχικό Δίκαιο", "peitharxiko dikaio astynomikon.pdf"},
	{corpus.CategoryPolicePersonnel, "Χρόνος Εργασίας", "xronos ergasias astynomikon.pdf"},
	{corpus.CategoryPolicePersonnel, "Παροχές και Αποζημιώσεις", "Παροχές προς προσωπικό τραυματισμοί εν υπηρεσία κτλ.pdf"},
}

// DefaultSources returns the bundled source documents under dir. Law labels
// and article prefixes come from the corpus lookup table.
func DefaultSources(dir string) []Source {
	table := corpus.DefaultTable()
	sources := make([]Source, 0, len(defaultSourceFiles))
	for _, f := range defaultSourceFiles {
		rule := corpus.Infer(table, f.file)
		subcategory := f.subcategory
		if subcategory == "" {
			subcategory = rule.Subcategory
		}
		sources = append(sources, Source{
			Category:      f.category,
			Subcategory:   subcategory,
			Location:      filepath.Join(dir, f.file),
			Law:           rule.Law,
			ArticlePrefix: rule.ArticlePrefix,
		})
	}
	return sources
}
