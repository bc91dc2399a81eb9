package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const penalCodeSample = `ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ
Εισαγωγικό κείμενο που δεν ανήκει σε κανένα άρθρο.

ΚΕΦΑΛΑΙΟ ΕΙΚΟΣΤΟ ΤΡΙΤΟ - Εγκλήματα κατά της ιδιοκτησίας
Άρθρο 372 - Κλοπή
1. Όποιος αφαιρεί ξένο (ολικά ή εν μέρει) κινητό πράγμα από την κατοχή
άλλου με σκοπό να το ιδιοποιηθεί παράνομα,

τιμωρείται με φυλάκιση έως πέντε ετών.

2. Αν το αντικείμενο είναι μικρής αξίας επιβάλλεται ποινή έως ένα έτος.
Άρθρο 374 - Διακεκριμένη κλοπή
Η κλοπή του άρθρου 372 τιμωρείται με κάθειρξη έως δέκα ετών.
Άρθρο 374α - Κενό
ΚΕΦΑΛΑΙΟ ΕΙΚΟΣΤΟ ΤΕΤΑΡΤΟ: Υπεξαίρεση
ΑΡΘΡΟ 375 – Υπεξαίρεση
Όποιος ιδιοποιείται παράνομα ξένο κινητό πράγμα που περιήλθε στην κατοχή του.
`

func TestExtractArticleHeaderTitle(t *testing.T) {
	extractor := NewExtractor(nil)

	articles := extractor.Extract("Άρθρο 5 - Κλοπή\nΌποιος αφαιρεί ξένο κινητό πράγμα.", Options{Category: "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ"})

	require.NotEmpty(t, articles)
	assert.True(t, strings.HasPrefix(articles[0].Title, "Άρθρο 5"), "title %q", articles[0].Title)
	assert.Equal(t, "Άρθρο 5 - Κλοπή", articles[0].Title)
	assert.Equal(t, "Όποιος αφαιρεί ξένο κινητό πράγμα.", articles[0].Content)
}

func TestExtractWithoutHeadersYieldsNothing(t *testing.T) {
	extractor := NewExtractor(nil)

	inputs := []string{
		"",
		"Απλό κείμενο χωρίς άρθρα.\n\nΤιμωρείται όποιος παραβαίνει.",
		"ΚΕΦΑΛΑΙΟ Α - Γενικά\nΚείμενο κεφαλαίου",
		"Σύμφωνα με το άρθρο 5 του νόμου",
	}
	for _, input := range inputs {
		assert.Empty(t, extractor.Extract(input, Options{Category: "X"}), "input %q", input)
	}
}

func TestExtractPenalCodeSample(t *testing.T) {
	extractor := NewExtractor(nil)

	articles, stats := extractor.ExtractWithStats(penalCodeSample, Options{
		Category:      "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ",
		Subcategory:   "Γενικές Διατάξεις",
		ArticlePrefix: "Π.Κ.",
	})

	require.Len(t, articles, 3)

	theft := articles[0]
	assert.Equal(t, "Άρθρο 372 - Κλοπή", theft.Title)
	assert.Equal(t, "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ", theft.Category)
	assert.Equal(t, "ΚΕΦΑΛΑΙΟ ΕΙΚΟΣΤΟ ΤΡΙΤΟ - Εγκλήματα κατά της ιδιοκτησίας", theft.Subcategory)
	assert.Equal(t, "Π.Κ. 372", theft.Law)
	assert.Equal(t, "τιμωρείται με φυλάκιση έως πέντε ετών.", theft.Penalty, "first penalty chunk wins")
	paragraphs := strings.Split(theft.Content, "\n\n")
	require.Len(t, paragraphs, 3)
	assert.Equal(t, "1. Όποιος αφαιρεί ξένο (ολικά ή εν μέρει) κινητό πράγμα από την κατοχή άλλου με σκοπό να το ιδιοποιηθεί παράνομα,", paragraphs[0])

	aggravated := articles[1]
	assert.Equal(t, "Άρθρο 374 - Διακεκριμένη κλοπή", aggravated.Title)
	assert.Equal(t, "Π.Κ. 374", aggravated.Law)
	assert.NotEmpty(t, aggravated.Penalty)

	embezzlement := articles[2]
	assert.Equal(t, "ΑΡΘΡΟ 375 – Υπεξαίρεση", embezzlement.Title)
	assert.Equal(t, "ΚΕΦΑΛΑΙΟ ΕΙΚΟΣΤΟ ΤΕΤΑΡΤΟ: Υπεξαίρεση", embezzlement.Subcategory)
	assert.Empty(t, embezzlement.Penalty)

	assert.Equal(t, 4, stats.ArticleHeaders)
	assert.Equal(t, 2, stats.SectionHeaders)
	assert.Equal(t, 1, stats.EmptyArticles, "Άρθρο 374α has no content")
	assert.Equal(t, 1, stats.Discarded, "preamble before the first article is dropped")
	assert.Equal(t, 3, stats.Articles)
}

func TestExtractEveryArticleHasContent(t *testing.T) {
	extractor := NewExtractor(nil)

	articles := extractor.Extract("Άρθρο 1 - Α\nΆρθρο 2 - Β\nκείμενο\nΆρθρο 3 - Γ\n\n\n", Options{Category: "X"})

	require.Len(t, articles, 1)
	assert.Equal(t, "Άρθρο 2 - Β", articles[0].Title)
	for _, a := range articles {
		assert.NotEmpty(t, a.Content)
	}
}

func TestExtractDefaultSubcategoryInherited(t *testing.T) {
	extractor := NewExtractor(nil)

	articles := extractor.Extract("Άρθρο 1 - Ορισμοί\nκείμενο", Options{Category: "ΟΠΛΑ", Subcategory: "Γενικά"})

	require.Len(t, articles, 1)
	assert.Equal(t, "Γενικά", articles[0].Subcategory)
}

func TestExtractKeepsWrappedBodyLines(t *testing.T) {
	extractor := NewExtractor(nil)
	text := "Άρθρο 1 - Αποζημίωση\n" +
		"Η αποζημίωση καταβάλλεται για το\n" +
		"μέρος που αναλογεί - εφόσον υπάρχει απόφαση\n" +
		"του αρμόδιου οργάνου.\n" +
		"\n" +
		"Άρθρο 2 - Άδειες\n" +
		"Οι άδειες χορηγούνται από τη διεύθυνση.\n"

	articles, stats := extractor.ExtractWithStats(text, Options{Category: "ΑΣΤΥΝΟΜΙΚΟ ΠΡΟΣΩΠΙΚΟ", Subcategory: "Παροχές"})

	require.Len(t, articles, 2)
	assert.Equal(t, "Η αποζημίωση καταβάλλεται για το μέρος που αναλογεί - εφόσον υπάρχει απόφαση του αρμόδιου οργάνου.", articles[0].Content)
	assert.Equal(t, "Παροχές", articles[1].Subcategory)
	assert.Zero(t, stats.SectionHeaders)
}

func TestExtractLawResolution(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name string
		text string
		opts Options
		want string
	}{
		{
			name: "citation in header",
			text: "Άρθρο 1 - Τροποποίηση Ν.4139/2013\nκείμενο",
			opts: Options{Category: "ΝΑΡΚΩΤΙΚΑ"},
			want: "Ν.4139/2013",
		},
		{
			name: "citation in first paragraph",
			text: "Άρθρο 2 - Ορισμοί\nΓια την εφαρμογή του Π.Δ. 141/1991 ορίζονται τα εξής.\n\nκαι Ν.2168/1993",
			opts: Options{Category: "ΝΟΜΙΜΕΣ ΔΙΑΔΙΚΑΣΙΕΣ"},
			want: "Π.Δ. 141/1991",
		},
		{
			name: "citation outside the first paragraph is ignored",
			text: "Άρθρο 3 - Ορισμοί\nκείμενο\n\nβλ. Ν.2168/1993",
			opts: Options{Category: "ΟΠΛΑ", Law: "Ν.2168/1993 (ΦΕΚ Α 113)"},
			want: "Ν.2168/1993 (ΦΕΚ Α 113)",
		},
		{
			name: "article prefix",
			text: "Άρθρο 12α - Κάτι\nκείμενο",
			opts: Options{Category: "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ", ArticlePrefix: "Π.Κ."},
			want: "Π.Κ. 12Α",
		},
		{
			name: "category label fallback",
			text: "Άρθρο 4 - Κάτι\nκείμενο",
			opts: Options{Category: "ΚΟΚ-ΤΡΟΧΟΝΟΜΙΚΑ"},
			want: "ΚΟΚ-ΤΡΟΧΟΝΟΜΙΚΑ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := extractor.Extract(tt.text, tt.opts)
			require.Len(t, articles, 1)
			assert.Equal(t, tt.want, articles[0].Law)
		})
	}
}

func TestExtractStrictPenalty(t *testing.T) {
	text := "Άρθρο 1 - Α\nΗ πράξη επισύρει φυλάκιση τουλάχιστον ενός έτους."

	lenient := NewExtractor(DefaultRules(false)).Extract(text, Options{Category: "X"})
	strict := NewExtractor(DefaultRules(true)).Extract(text, Options{Category: "X"})

	require.Len(t, lenient, 1)
	require.Len(t, strict, 1)
	assert.Empty(t, lenient[0].Penalty)
	assert.Equal(t, "Η πράξη επισύρει φυλάκιση τουλάχιστον ενός έτους.", strict[0].Penalty)
}

func TestExtractPreservesSourceOrder(t *testing.T) {
	var b strings.Builder
	for _, n := range []string{"9", "3", "7", "1"} {
		b.WriteString("Άρθρο " + n + " - Τίτλος\nκείμενο " + n + "\n")
	}

	articles := NewExtractor(nil).Extract(b.String(), Options{Category: "X"})

	require.Len(t, articles, 4)
	for i, n := range []string{"9", "3", "7", "1"} {
		assert.Equal(t, "κείμενο "+n, articles[i].Content)
	}
}

func TestExtractWithCustomRule(t *testing.T) {
	rules := DefaultRules(false)
	custom, err := NewPatternRule("article-bare", KindArticle, `^αρθρο\s+(\d+)$`, SubjectNormalized, 1, 0)
	require.NoError(t, err)
	rules.Add(custom)

	articles := NewExtractor(rules).Extract("Άρθρο 7\nΚείμενο χωρίς τίτλο.", Options{Category: "X", ArticlePrefix: "Ν.1"})

	require.Len(t, articles, 1)
	assert.Equal(t, "Άρθρο 7", articles[0].Title)
	assert.Equal(t, "Ν.1 7", articles[0].Law)
}

func TestClean(t *testing.T) {
	input := "Άρθρο 1 - Τίτλος\r\nπρο-\nστασία  του   πολίτη\tκαι"
	assert.Equal(t, "Άρθρο 1 - Τίτλος\nπροστασία του πολίτη και", Clean(input))
}

func TestExtractJoinsHyphenatedLines(t *testing.T) {
	articles := NewExtractor(nil).Extract("Άρθρο 1 - Α\nη ποινή επι-\nβάλλεται", Options{Category: "X"})

	require.Len(t, articles, 1)
	assert.Equal(t, "η ποινή επιβάλλεται", articles[0].Content)
}
