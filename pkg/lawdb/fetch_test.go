package lawdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weaponsPage = `<html>
<head><title>Ν.2168/1993</title><style>p { color: red }</style></head>
<body>
<nav><ul><li>Αρχική</li><li>Νομοθεσία</li></ul></nav>
<article>
<h2>Άρθρο 1 - Ορισμοί</h2>
<p>Για την εφαρμογή του παρόντος
   νόμου ως όπλα νοούνται:</p>
<ul><li>α) τα πυροβόλα όπλα</li></ul>
<h2>Άρθρο 15 - Κυρώσεις</h2>
<p>Όποιος παραβαίνει το <b>άρθρο 1</b> τιμωρείται με φυλάκιση.</p>
<script>track();</script>
</article>
<footer>© Υπουργείο</footer>
</body>
</html>`

func TestDocumentText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(weaponsPage))
	require.NoError(t, err)

	text := documentText(doc)

	assert.Equal(t, strings.Join([]string{
		"Άρθρο 1 - Ορισμοί",
		"Για την εφαρμογή του παρόντος νόμου ως όπλα νοούνται:",
		"α) τα πυροβόλα όπλα",
		"Άρθρο 15 - Κυρώσεις",
		"Όποιος παραβαίνει το άρθρο 1 τιμωρείται με φυλάκιση.",
	}, "\n"), text)
}

func TestDocumentTextWithoutBlocks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>  απλό κείμενο </body></html>"))
	require.NoError(t, err)

	assert.Equal(t, "απλό κείμενο", documentText(doc))
}

func TestHTMLFetcherFetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, weaponsPage)
	}))
	defer server.Close()

	fetcher := NewHTMLFetcher(HTMLFetcherConfig{RateLimit: 100})
	text, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Άρθρο 1 - Ορισμοί\n"), text)
	assert.Equal(t, "nomiki-law-updater", userAgent)
}

func TestHTMLFetcherStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewHTMLFetcher(HTMLFetcherConfig{RateLimit: 100})
	_, err := fetcher.Fetch(context.Background(), server.URL)

	assert.ErrorContains(t, err, "received status code 404")
}

func TestHTMLFetcherCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTMLFetcher(HTMLFetcherConfig{})
	_, err := fetcher.Fetch(ctx, "http://127.0.0.1:1/")

	assert.Error(t, err)
}
