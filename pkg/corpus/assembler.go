package corpus

import (
	"log/slog"

	"github.com/coolbeans/nomiki/pkg/extract"
	"github.com/coolbeans/nomiki/pkg/types"
)

// Document is one decoded input: the filename drives category inference and
// Text is what the extractor scans.
type Document struct {
	Name string
	Text string
}

// DocumentReport describes where one document's articles went.
type DocumentReport struct {
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Subcategory string        `json:"subcategory"`
	Articles    int           `json:"articles"`
	Stats       extract.Stats `json:"stats"`
}

// AssembleReport summarises an Assemble call.
type AssembleReport struct {
	Documents []DocumentReport `json:"documents"`
	Articles  int              `json:"articles"`
}

// Assembler infers a category for each document, extracts its articles and
// appends them to a taxonomy.
type Assembler struct {
	Table     []CategoryRule
	Extractor *extract.Extractor
	Logger    *slog.Logger
}

// NewAssembler creates an assembler with the default lookup table. A nil
// extractor uses the default rules; a nil logger uses slog.Default().
func NewAssembler(extractor *extract.Extractor, logger *slog.Logger) *Assembler {
	if extractor == nil {
		extractor = extract.NewExtractor(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{Table: DefaultTable(), Extractor: extractor, Logger: logger}
}

// Infer applies the assembler's table to a filename.
func (a *Assembler) Infer(filename string) CategoryRule {
	return Infer(a.Table, filename)
}

// Assemble extracts every document and appends the articles to t under their
// own category and subcategory. Existing articles are never replaced and
// nothing is de-duplicated: assembling the same document twice appends its
// articles twice.
func (a *Assembler) Assemble(t *types.Taxonomy, docs ...Document) AssembleReport {
	extractor := a.Extractor
	if extractor == nil {
		extractor = extract.NewExtractor(nil)
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := AssembleReport{Documents: make([]DocumentReport, 0, len(docs))}
	for _, doc := range docs {
		rule := a.Infer(doc.Name)
		articles, stats := extractor.ExtractWithStats(doc.Text, rule.Options())

		for _, article := range articles {
			t.Append(article.Category, article.Subcategory, article)
		}

		logger.Info("assembled document",
			"file", doc.Name,
			"category", rule.Category,
			"subcategory", rule.Subcategory,
			"articles", len(articles),
			"discarded_chunks", stats.Discarded,
		)
		if len(articles) == 0 {
			logger.Warn("no articles found in document", "file", doc.Name, "chunks", stats.Chunks)
		}

		report.Documents = append(report.Documents, DocumentReport{
			Name:        doc.Name,
			Category:    rule.Category,
			Subcategory: rule.Subcategory,
			Articles:    len(articles),
			Stats:       stats,
		})
		report.Articles += len(articles)
	}
	return report
}
