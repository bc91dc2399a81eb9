package search

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/nomiki/pkg/types"
)

func sampleTaxonomy() *types.Taxonomy {
	t := types.NewTaxonomy()
	t.Append("ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ", "Ιδιοκτησία",
		types.Article{Title: "Άρθρο 372 - Κλοπή", Content: "Όποιος αφαιρεί ξένο κινητό πράγμα.", Law: "Π.Κ. 372", Penalty: "Φυλάκιση"},
		types.Article{Title: "Άρθρο 375 - Υπεξαίρεση", Content: "Όποιος ιδιοποιείται παράνομα ξένο πράγμα.", Law: "Π.Κ. 375"},
	)
	t.Append("ΝΑΡΚΩΤΙΚΑ", "Γενικά",
		types.Article{Title: "Άρθρο 20 - Διακίνηση", Content: "Όποιος διακινεί ναρκωτικά.", Law: "Ν.4139/2013"},
	)
	t.Append("ΟΠΛΑ", "Γενικά",
		types.Article{Title: "Άρθρο 15 - Κυρώσεις", Content: "Η ΚΛΟΠΗ όπλου τιμωρείται αυστηρότερα.", Law: "Ν.2168/1993"},
	)
	return t
}

func TestSearchEmptyQuery(t *testing.T) {
	matches, err := Search("", sampleTaxonomy())

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchBlankQuery(t *testing.T) {
	for _, query := range []string{" ", "   ", "\t\n", "\u00a0"} {
		matches, err := Search(query, sampleTaxonomy())
		require.NoError(t, err)
		assert.Empty(t, matches, "blank query %q matches nothing", query)
	}
}

func TestSearchIsDiacriticAndCaseInsensitive(t *testing.T) {
	tests := []struct {
		query      string
		wantTitles []string
	}{
		{"κλοπη", []string{"Άρθρο 372 - Κλοπή", "Άρθρο 15 - Κυρώσεις"}},
		{"ΚΛΟΠΉ", []string{"Άρθρο 372 - Κλοπή", "Άρθρο 15 - Κυρώσεις"}},
		{"υπεξαιρεσ", []string{"Άρθρο 375 - Υπεξαίρεση"}},
		{"4139", []string{"Άρθρο 20 - Διακίνηση"}},
		{"π.κ.", []string{"Άρθρο 372 - Κλοπή", "Άρθρο 375 - Υπεξαίρεση"}},
		{"ξένο", []string{"Άρθρο 372 - Κλοπή", "Άρθρο 375 - Υπεξαίρεση"}},
		{"ανύπαρκτο", nil},
	}

	taxonomy := sampleTaxonomy()
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			matches, err := Search(tt.query, taxonomy)
			require.NoError(t, err)

			var titles []string
			for _, m := range matches {
				titles = append(titles, m.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestSearchPenaltyIsNotSearched(t *testing.T) {
	matches, err := Search("φυλακιση", sampleTaxonomy())

	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchMatchIsACopy(t *testing.T) {
	taxonomy := sampleTaxonomy()

	matches, err := Search("κλοπη", taxonomy)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	taxonomy.RemoveCategory("ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ")

	assert.Equal(t, Match{
		Category:    "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ",
		Subcategory: "Ιδιοκτησία",
		Title:       "Άρθρο 372 - Κλοπή",
		Content:     "Όποιος αφαιρεί ξένο κινητό πράγμα.",
		Law:         "Π.Κ. 372",
		Penalty:     "Φυλάκιση",
	}, matches[0])
	assert.Equal(t, "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ:Ιδιοκτησία:Άρθρο 372 - Κλοπή", matches[0].ID().String())
}

func TestSearchEndToEnd(t *testing.T) {
	taxonomy := types.NewTaxonomy()
	taxonomy.Append("X", "Y", types.Article{Title: "Άρθρο 1 - Test", Content: "body", Law: "Ν.1/2020"})

	matches, err := Search("test", taxonomy)

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "X", matches[0].Category)
	assert.Equal(t, "Y", matches[0].Subcategory)
	assert.Empty(t, matches[0].Penalty)
}

func TestSearchNilTaxonomy(t *testing.T) {
	matches, err := Search("κλοπη", nil)

	require.ErrorIs(t, err, ErrSearchFailed)
	assert.Nil(t, matches)
}

func TestSearchOrEmptyLogsFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	matches := SearchOrEmpty("κλοπη", nil, logger)

	assert.NotNil(t, matches)
	assert.Empty(t, matches)
	assert.Contains(t, logs.String(), "search failed")
}

func TestSearchOrEmptySuccessDoesNotLog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	matches := SearchOrEmpty("κλοπη", sampleTaxonomy(), logger)

	assert.Len(t, matches, 2)
	assert.Empty(t, logs.String())
}
