// Package corpus folds extracted articles into the shared taxonomy. It owns
// the filename lookup table that decides where a document belongs and the
// static seed the process starts from.
package corpus

import (
	"path/filepath"
	"strings"

	"github.com/coolbeans/nomiki/pkg/extract"
	"github.com/coolbeans/nomiki/pkg/normalize"
)

// Category names used by the lookup table and the seed.
const (
	CategoryPenalCode         = "ΠΟΙΝΙΚΟΣ ΚΩΔΙΚΑΣ"
	CategorySpecialPenalLaws  = "ΕΙΔΙΚΟΙ ΠΟΙΝΙΚΟΙ ΝΟΜΟΙ"
	CategoryCriminalProcedure = "ΚΩΔΙΚΑΣ ΠΟΙΝΙΚΗΣ ΔΙΚΟΝΟΜΙΑΣ"
	CategoryNarcotics         = "ΝΑΡΚΩΤΙΚΑ"
	CategoryWeapons           = "ΟΠΛΑ"
	CategoryDomesticViolence  = "ΕΝΔΟΟΙΚΟΓΕΝΕΙΑΚΗ ΒΙΑ (Ν.3500/2006)"
	CategoryLegalProcedures   = "ΝΟΜΙΜΕΣ ΔΙΑΔΙΚΑΣΙΕΣ - 141/1991"
	CategoryTraffic           = "ΚΟΚ-ΤΡΟΧΟΝΟΜΙΚΑ"
	CategoryPets              = "ΝΟΜΟΣ ΠΕΡΙ ΚΑΤΟΙΚΙΔΙΩΝ"
	CategoryPolicePersonnel   = "ΑΣΤΥΝΟΜΙΚΟ ΠΡΟΣΩΠΙΚΟ"
	CategoryOther             = "ΛΟΙΠΑ ΝΟΜΟΘΕΤΗΜΑΤΑ"

	// SubcategoryGeneral is the default subcategory of a document.
	SubcategoryGeneral = "Γενικά"
)

// CategoryRule maps filename keywords to the placement and citation context
// of a document.
type CategoryRule struct {
	Keywords      []string `yaml:"keywords" json:"keywords"`
	Category      string   `yaml:"category" json:"category"`
	Subcategory   string   `yaml:"subcategory" json:"subcategory"`
	Law           string   `yaml:"law,omitempty" json:"law,omitempty"`
	ArticlePrefix string   `yaml:"article_prefix,omitempty" json:"article_prefix,omitempty"`
}

// Options converts the rule into extraction options.
func (r CategoryRule) Options() extract.Options {
	return extract.Options{
		Category:      r.Category,
		Subcategory:   r.Subcategory,
		Law:           r.Law,
		ArticlePrefix: r.ArticlePrefix,
	}
}

// matches reports whether any keyword occurs in the normalized filename.
func (r CategoryRule) matches(normalizedName string) bool {
	for _, k := range r.Keywords {
		if k = normalize.Fold(k); k != "" && strings.Contains(normalizedName, k) {
			return true
		}
	}
	return false
}

// FallbackRule is used when no table entry matches.
func FallbackRule() CategoryRule {
	return CategoryRule{Category: CategoryOther, Subcategory: SubcategoryGeneral}
}

// DefaultTable returns the built-in lookup table. More specific entries come
// first: the police personnel documents mention weapons and leave, so they
// are checked before the generic weapons law.
func DefaultTable() []CategoryRule {
	return []CategoryRule{
		// Police personnel.
		{Keywords: []string{"adeies astynomik", "άδειες αστυνομικ"}, Category: CategoryPolicePersonnel, Subcategory: "Άδειες"},
		{Keywords: []string{"metaueseis", "metatheseis", "μεταθέσεις"}, Category: CategoryPolicePersonnel, Subcategory: "Μεταθέσεις"},
		{Keywords: []string{"deontolog", "δεοντολογ"}, Category: CategoryPolicePersonnel, Subcategory: "Κώδικας Δεοντολογίας"},
		{Keywords: []string{"oplismo", "οπλισμ"}, Category: CategoryPolicePersonnel, Subcategory: "Χρήση Οπλισμού"},
		{Keywords: []string{"peitharx", "πειθαρχ"}, Category: CategoryPolicePersonnel, Subcategory: "Πειθαρχικό Δίκαιο"},
		{Keywords: []string{"xronos ergasias", "χρόνος εργασίας"}, Category: CategoryPolicePersonnel, Subcategory: "Χρόνος Εργασίας"},
		{Keywords: []string{"παροχές", "αποζημιώσ", "τραυματισμ", "paroxes"}, Category: CategoryPolicePersonnel, Subcategory: "Παροχές και Αποζημιώσεις"},

		// Domestic violence: the response guide is its own subcategory.
		{Keywords: []string{"οδηγός αντιμετώπισης", "odhgos"}, Category: CategoryDomesticViolence, Subcategory: "Οδηγός Αντιμετώπισης", Law: "Ν.3500/2006"},
		{Keywords: []string{"ενδοοικογενειακ", "endooikogeneiak", "3500"}, Category: CategoryDomesticViolence, Subcategory: "Ορισμοί", Law: "Ν.3500/2006"},

		// Codes and laws.
		{Keywords: []string{"δικονομ", "dikonom", "κπδ"}, Category: CategoryCriminalProcedure, Subcategory: SubcategoryGeneral, Law: "ΚΠΔ", ArticlePrefix: "ΚΠΔ"},
		{Keywords: []string{"eidikoi", "ειδικοί ποινικοί", "poinologi"}, Category: CategorySpecialPenalLaws, Subcategory: SubcategoryGeneral},
		{Keywords: []string{"ποινικός-κώδικας", "ποινικός κώδικας", "ποινικός_κώδικας", "poinikos kodikas", "poinikos-kodikas"}, Category: CategoryPenalCode, Subcategory: SubcategoryGeneral, Law: "Π.Κ.", ArticlePrefix: "Π.Κ."},
		{Keywords: []string{"narkotik", "ναρκωτικ", "4139"}, Category: CategoryNarcotics, Subcategory: SubcategoryGeneral, Law: "Ν.4139/2013"},
		{Keywords: []string{"όπλων", "oplon", "2168"}, Category: CategoryWeapons, Subcategory: SubcategoryGeneral, Law: "Ν.2168/1993"},
		{Keywords: []string{"141 1991", "141/1991", "141.1991", "πδ 141"}, Category: CategoryLegalProcedures, Subcategory: SubcategoryGeneral, Law: "Π.Δ. 141/1991"},
		{Keywords: []string{"neoskok", "κοκ", "τροχονομ", "kok"}, Category: CategoryTraffic, Subcategory: SubcategoryGeneral, Law: "Ν.2696/1999"},
		{Keywords: []string{"κατοικίδι", "katoikidi"}, Category: CategoryPets, Subcategory: SubcategoryGeneral, Law: "Ν.4830/2021"},
	}
}

// Infer picks the rule for a document from its filename. Matching is
// case- and diacritic-insensitive substring matching on the base name, first
// rule wins; unmatched names get FallbackRule.
func Infer(table []CategoryRule, filename string) CategoryRule {
	name := normalize.Fold(filepath.Base(filename))
	for _, rule := range table {
		if rule.matches(name) {
			if rule.Subcategory == "" {
				rule.Subcategory = SubcategoryGeneral
			}
			return rule
		}
	}
	return FallbackRule()
}
