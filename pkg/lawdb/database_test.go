package lawdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/nomiki/pkg/types"
)

func weaponsTaxonomy(titles ...string) *types.Taxonomy {
	t := types.NewTaxonomy()
	for _, title := range titles {
		t.Append("ΟΠΛΑ", "Γενικά", types.Article{Title: title, Content: "Περιεχόμενο " + title, Law: "Ν.2168/1993"})
	}
	return t
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	db, err := Load(filepath.Join(t.TempDir(), DefaultFileName))

	require.NoError(t, err)
	assert.Equal(t, 0, db.Categories.Len())
	assert.Empty(t, db.LastUpdate)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", DefaultFileName)
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	db := New()
	db.SetCategory("ΟΠΛΑ", weaponsTaxonomy("Άρθρο 1 - Ορισμοί", "Άρθρο 15 - Κυρώσεις"), at)
	require.NoError(t, db.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ΟΠΛΑ"}, loaded.Categories.Categories())
	articles := loaded.Categories.Articles("ΟΠΛΑ", "Γενικά")
	require.Len(t, articles, 2)
	assert.Equal(t, "Άρθρο 1 - Ορισμοί", articles[0].Title)
	assert.True(t, at.Equal(loaded.LastUpdate["ΟΠΛΑ"]))
}

func TestUnmarshalNaiveTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	raw := `{
  "categories": {
    "ΝΑΡΚΩΤΙΚΑ": {
      "articles": [
        {"title": "Άρθρο 20 - Διακίνηση", "content": "Όποιος διακινεί.", "law": "Ν.4139/2013", "penalty": ""}
      ]
    }
  },
  "last_update": {"ΝΑΡΚΩΤΙΚΑ": "2024-05-01T12:34:56.789012"}
}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	db, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, db.Categories.Len())
	assert.Equal(t, []string{"articles"}, db.Categories.Subcategories("ΝΑΡΚΩΤΙΚΑ"))
	ts := db.LastUpdate["ΝΑΡΚΩΤΙΚΑ"]
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 34, ts.Minute())
}

func TestUnmarshalBadTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"categories": {}, "last_update": {"X": "yesterday"}}`), 0644))

	_, err := Load(path)

	assert.ErrorContains(t, err, "yesterday")
}

func TestSetCategoryReplaces(t *testing.T) {
	db := New()
	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	db.SetCategory("ΟΠΛΑ", weaponsTaxonomy("Άρθρο 1 - Ορισμοί", "Άρθρο 2 - Άδειες"), first)
	db.SetCategory("ΟΠΛΑ", weaponsTaxonomy("Άρθρο 15 - Κυρώσεις"), second)

	articles := db.Categories.Articles("ΟΠΛΑ", "Γενικά")
	require.Len(t, articles, 1)
	assert.Equal(t, "Άρθρο 15 - Κυρώσεις", articles[0].Title)
	assert.True(t, second.Equal(db.LastUpdate["ΟΠΛΑ"]))
}

func TestApplyTo(t *testing.T) {
	db := New()
	db.SetCategory("ΟΠΛΑ", weaponsTaxonomy("Άρθρο 15 - Κυρώσεις"), time.Now())
	extra := types.NewTaxonomy()
	extra.Append("ΝΕΑ ΚΑΤΗΓΟΡΙΑ", "Γενικά", types.Article{Title: "Άρθρο 1", Content: "Κείμενο"})
	db.SetCategory("ΝΕΑ ΚΑΤΗΓΟΡΙΑ", extra, time.Now())

	target := types.NewTaxonomy()
	target.Append("ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ", "Γενικά", types.Article{Title: "Άρθρο 372 - Κλοπή", Content: "Όποιος αφαιρεί."})
	target.Append("ΟΠΛΑ", "Παλιά", types.Article{Title: "Άρθρο 1 - Παλιό", Content: "Παλιό κείμενο"})

	applied := db.ApplyTo(target)

	assert.Equal(t, []string{"ΟΠΛΑ", "ΝΕΑ ΚΑΤΗΓΟΡΙΑ"}, applied)
	assert.Equal(t, []string{"ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ", "ΟΠΛΑ", "ΝΕΑ ΚΑΤΗΓΟΡΙΑ"}, target.Categories())
	assert.Equal(t, []string{"Γενικά"}, target.Subcategories("ΟΠΛΑ"), "database category replaces the seed category")
	assert.Len(t, target.Articles("ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ", "Γενικά"), 1)
}

func TestUpdatesMostRecentFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	db := New()
	db.LastUpdate["Α"] = base
	db.LastUpdate["Β"] = base.Add(time.Hour)
	db.LastUpdate["Γ"] = base

	updates := db.Updates()

	require.Len(t, updates, 3)
	assert.Equal(t, "Β", updates[0].Category)
	assert.Equal(t, "Α", updates[1].Category)
	assert.Equal(t, "Γ", updates[2].Category)
}
