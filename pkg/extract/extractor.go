// Package extract turns raw text decoded from legal PDFs into structured
// articles: title, content, law citation and penalty clause.
package extract

import (
	"regexp"
	"strings"

	"github.com/coolbeans/nomiki/pkg/types"
)

// Options carries the per-document context of an extraction.
type Options struct {
	// Category is the top-level grouping of every extracted article.
	Category string
	// Subcategory applies until the first section header.
	Subcategory string
	// Law is the citation used when none is found inline. Defaults to Category.
	Law string
	// ArticlePrefix, when set, turns an article number into a citation
	// ("Π.Κ." + "372" -> "Π.Κ. 372") for articles without an inline citation.
	ArticlePrefix string
}

func (o Options) law() string {
	if o.Law != "" {
		return o.Law
	}
	return o.Category
}

// Stats counts what the scan saw.
type Stats struct {
	Chunks         int `json:"chunks"`
	ArticleHeaders int `json:"article_headers"`
	SectionHeaders int `json:"section_headers"`
	Articles       int `json:"articles"`
	EmptyArticles  int `json:"empty_articles"`
	Discarded      int `json:"discarded"`
	Penalties      int `json:"penalties"`
}

// Extractor scans text left to right and builds articles using a RuleSet.
type Extractor struct {
	rules *RuleSet
}

// NewExtractor creates an extractor. A nil rule set means DefaultRules(false).
func NewExtractor(rules *RuleSet) *Extractor {
	if rules == nil {
		rules = DefaultRules(false)
	}
	return &Extractor{rules: rules}
}

// Rules returns the extractor's rule set.
func (e *Extractor) Rules() *RuleSet {
	return e.rules
}

// Extract returns the articles found in text, in source order. Every article
// has non-empty content; text without article headers yields no articles.
func (e *Extractor) Extract(text string, opts Options) []types.Article {
	articles, _ := e.ExtractWithStats(text, opts)
	return articles
}

// chunk is a paragraph-like unit of the input. Header lines are chunks of
// their own.
type chunk struct {
	text   string
	header *Match
}

// ExtractWithStats is Extract plus scan statistics.
func (e *Extractor) ExtractWithStats(text string, opts Options) ([]types.Article, Stats) {
	var stats Stats
	chunks := e.split(Clean(text))
	stats.Chunks = len(chunks)

	articles := make([]types.Article, 0)
	subcategory := opts.Subcategory

	var current *types.Article
	var header chunk
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		if len(body) == 0 {
			stats.EmptyArticles++
		} else {
			current.Content = strings.Join(body, "\n\n")
			current.Law = e.resolveLaw(header, body[0], opts)
			articles = append(articles, *current)
			stats.Articles++
		}
		current = nil
		body = nil
	}

	for _, c := range chunks {
		if c.header != nil {
			switch c.header.Kind {
			case KindArticle:
				flush()
				stats.ArticleHeaders++
				current = &types.Article{
					Title:       c.text,
					Category:    opts.Category,
					Subcategory: subcategory,
				}
				header = c
			case KindSection:
				stats.SectionHeaders++
				subcategory = c.text
			}
			continue
		}

		if current == nil {
			stats.Discarded++
			continue
		}

		body = append(body, c.text)
		if current.Penalty == "" {
			if _, ok := e.rules.First(KindPenalty, c.text); ok {
				current.Penalty = c.text
				stats.Penalties++
			}
		}
	}
	flush()

	return articles, stats
}

// split breaks cleaned text into chunks: blank lines end a chunk, header lines
// stand alone, other consecutive lines are joined with a space.
func (e *Extractor) split(text string) []chunk {
	var chunks []chunk
	var lines []string

	flush := func() {
		if len(lines) > 0 {
			chunks = append(chunks, chunk{text: strings.Join(lines, " ")})
			lines = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if m, ok := e.header(line); ok {
			flush()
			chunks = append(chunks, chunk{text: line, header: &m})
			continue
		}
		lines = append(lines, line)
	}
	flush()

	return chunks
}

func (e *Extractor) header(line string) (Match, bool) {
	if m, ok := e.rules.First(KindArticle, line); ok {
		return m, true
	}
	return e.rules.First(KindSection, line)
}

// resolveLaw picks the article citation: inline in the header, inline in the
// first body chunk, prefix + article number, or the caller's label.
func (e *Extractor) resolveLaw(header chunk, firstBody string, opts Options) string {
	if m, ok := e.rules.First(KindCitation, header.text); ok {
		return m.Text
	}
	if m, ok := e.rules.First(KindCitation, firstBody); ok {
		return m.Text
	}
	if opts.ArticlePrefix != "" && header.header != nil && header.header.Number != "" {
		return opts.ArticlePrefix + " " + strings.ToUpper(header.header.Number)
	}
	return opts.law()
}

var (
	crlfPattern       = regexp.MustCompile(`\r\n?`)
	blankSpacePattern = regexp.MustCompile("[\t\f\v\u00A0\u2007\u202F]+")
	multiSpacePattern = regexp.MustCompile(` {2,}`)
	hyphenPattern     = regexp.MustCompile(`(\p{L})-\n(\p{Ll})`)
)

// Clean prepares decoded PDF text for scanning: unified line endings, exotic
// blanks turned into spaces, soft hyphenation at line ends joined, runs of
// spaces collapsed. Line structure is kept.
func Clean(text string) string {
	text = crlfPattern.ReplaceAllString(text, "\n")
	text = blankSpacePattern.ReplaceAllString(text, " ")
	text = hyphenPattern.ReplaceAllString(text, "$1$2")
	return multiSpacePattern.ReplaceAllString(text, " ")
}
