package lawdb

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// Fetcher retrieves the text of a remote legal document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTMLFetcherConfig configures an HTMLFetcher.
type HTMLFetcherConfig struct {
	RateLimit float64 // requests per second
	Timeout   time.Duration
	UserAgent string
}

// HTMLFetcher downloads a page and keeps the text of its block elements, one
// per line, so the article extractor sees the document's line structure.
type HTMLFetcher struct {
	config  HTMLFetcherConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTMLFetcher creates a rate limited fetcher.
func NewHTMLFetcher(config HTMLFetcherConfig) *HTMLFetcher {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 1
	}
	if config.UserAgent == "" {
		config.UserAgent = "nomiki-law-updater"
	}
	return &HTMLFetcher{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// blockSelector lists the elements whose text becomes a line of its own.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, pre, td, dt, dd, blockquote"

// Fetch implements Fetcher.
func (f *HTMLFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return documentText(doc), nil
}

// documentText returns the text of the document's block elements, one per
// line. Scripts and styles are dropped; a page without block elements falls
// back to the body text.
func documentText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer").Remove()

	root := doc.Find("main, article").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var lines []string
	root.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are visited on their own.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if line := strings.Join(strings.Fields(s.Text()), " "); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return strings.TrimSpace(root.Text())
	}
	return strings.Join(lines, "\n")
}
