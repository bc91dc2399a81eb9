package corpus

import "github.com/coolbeans/nomiki/pkg/types"

// Seed returns the built-in taxonomy the process starts from. Each call
// returns a fresh copy the caller may mutate.
func Seed() *types.Taxonomy {
	t := types.NewTaxonomy()

	t.Append(CategoryPenalCode, "Εγκλήματα κατά της ιδιοκτησίας",
		types.Article{
			Title:   "Άρθρο 372 - Κλοπή",
			Content: "1. Όποιος αφαιρεί ξένο (ολικά ή εν μέρει) κινητό πράγμα από την κατοχή άλλου με σκοπό να το ιδιοποιηθεί παράνομα τιμωρείται με φυλάκιση.",
			Law:     "Π.Κ. 372",
			Penalty: "Φυλάκιση",
		},
		types.Article{
			Title:   "Άρθρο 374 - Διακεκριμένη κλοπή",
			Content: "Η κλοπή (βλ. Άρθρο 372) τιμωρείται με κάθειρξη έως δέκα ετών αν τελέστηκε από δράστη που διαπράττει κλοπές κατ' επάγγελμα ή κατά συνήθεια.",
			Law:     "Π.Κ. 374",
			Penalty: "Κάθειρξη έως δέκα ετών",
		},
		types.Article{
			Title:   "Άρθρο 375 - Υπεξαίρεση",
			Content: "1. Όποιος ιδιοποιείται παράνομα ξένο (ολικά ή εν μέρει) κινητό πράγμα που περιήλθε στην κατοχή του με οποιονδήποτε τρόπο τιμωρείται με φυλάκιση έως δύο ετών.",
			Law:     "Π.Κ. 375",
			Penalty: "Φυλάκιση έως δύο ετών",
		},
	)
	t.Append(CategoryPenalCode, "Εγκλήματα κατά της ζωής και της σωματικής ακεραιότητας",
		types.Article{
			Title:   "Άρθρο 308 - Απλή σωματική βλάβη",
			Content: "1. Όποιος με πρόθεση προξενεί σε άλλον βλάβη του σώματος ή της υγείας του τιμωρείται με φυλάκιση έως τρία έτη.",
			Law:     "Π.Κ. 308",
			Penalty: "Φυλάκιση έως τρία έτη",
		},
		types.Article{
			Title:   "Άρθρο 309 - Επικίνδυνη σωματική βλάβη",
			Content: "Αν η πράξη του Άρθρο 308 τελέστηκε με τρόπο που μπορούσε να προκαλέσει κίνδυνο για τη ζωή του παθόντος ή βαριά σωματική βλάβη, επιβάλλεται φυλάκιση τουλάχιστον ενός έτους.",
			Law:     "Π.Κ. 309",
			Penalty: "Φυλάκιση τουλάχιστον ενός έτους",
		},
	)

	t.Append(CategoryCriminalProcedure, "Αυτόφωρη διαδικασία",
		types.Article{
			Title:   "Άρθρο 417 - Αυτόφωρη διαδικασία",
			Content: "Για τα αυτόφωρα πλημμελήματα ο δράστης οδηγείται αμέσως στον εισαγγελέα, ο οποίος εισάγει την υπόθεση στο αρμόδιο δικαστήριο.",
			Law:     "ΚΠΔ 417",
		},
	)

	t.Append(CategoryNarcotics, SubcategoryGeneral,
		types.Article{
			Title:   "Άρθρο 20 - Διακίνηση ναρκωτικών",
			Content: "Όποιος αγοράζει, πωλεί, μεταφέρει ή με οποιονδήποτε τρόπο διακινεί ναρκωτικά κατά παράβαση του Ν.4139/2013 τιμωρείται με κάθειρξη τουλάχιστον οκτώ ετών και χρηματική ποινή.",
			Law:     "Ν.4139/2013",
			Penalty: "Κάθειρξη τουλάχιστον οκτώ ετών και χρηματική ποινή",
		},
		types.Article{
			Title:   "Άρθρο 29 - Χρήση ναρκωτικών",
			Content: "Όποιος για δική του αποκλειστικά χρήση προμηθεύεται ή κατέχει ναρκωτικά σε ποσότητα που εξυπηρετεί αποκλειστικά τις ατομικές του ανάγκες τιμωρείται με φυλάκιση έως πέντε μηνών.",
			Law:     "Ν.4139/2013",
			Penalty: "Φυλάκιση έως πέντε μηνών",
		},
	)

	t.Append(CategoryWeapons, SubcategoryGeneral,
		types.Article{
			Title:   "Άρθρο 1 - Ορισμοί",
			Content: "Όπλα κατά την έννοια του Ν.2168/1993 είναι τα πυροβόλα, τα αγχέμαχα και κάθε αντικείμενο που είναι κατάλληλο για επίθεση ή άμυνα.",
			Law:     "Ν.2168/1993",
		},
		types.Article{
			Title:   "Άρθρο 15 - Ποινικές κυρώσεις",
			Content: "Όποιος κατέχει ή φέρει πυροβόλο όπλο χωρίς άδεια τιμωρείται με φυλάκιση τουλάχιστον ενός έτους. Για τον ορισμό του όπλου βλ. Άρθρο 1.",
			Law:     "Ν.2168/1993",
			Penalty: "Φυλάκιση τουλάχιστον ενός έτους",
		},
	)

	t.Append(CategoryDomesticViolence, "Ορισμοί",
		types.Article{
			Title:   "Άρθρο 1 - Ορισμοί",
			Content: "Ενδοοικογενειακή βία είναι κάθε πράξη βίας που ασκείται σε βάρος μέλους της οικογένειας.",
			Law:     "Ν.3500/2006",
		},
	)
	t.Append(CategoryDomesticViolence, "Σωματική Βία",
		types.Article{
			Title:   "Άρθρο 6 - Ενδοοικογενειακή σωματική βλάβη",
			Content: "Όποιος προξενεί σε μέλος της οικογένειας σωματική βλάβη τιμωρείται με φυλάκιση τουλάχιστον ενός έτους. Οι ορισμοί του Ν.3500/2006 εφαρμόζονται αναλόγως.",
			Law:     "Ν.3500/2006",
			Penalty: "Φυλάκιση τουλάχιστον ενός έτους",
		},
	)

	t.Append(CategoryLegalProcedures, "Αρμοδιότητες",
		types.Article{
			Title:   "Άρθρο 90 - Προανάκριση",
			Content: "Οι αστυνομικοί διενεργούν προανάκριση σύμφωνα με τις διατάξεις του Κώδικα Ποινικής Δικονομίας και τις εντολές του αρμόδιου εισαγγελέα.",
			Law:     "Π.Δ. 141/1991",
		},
	)

	t.Append(CategoryTraffic, SubcategoryGeneral,
		types.Article{
			Title:   "Άρθρο 20 - Όρια ταχύτητας",
			Content: "Οι οδηγοί πρέπει να ρυθμίζουν την ταχύτητα του οχήματός τους ανάλογα με τις συνθήκες. Στον παραβάτη επιβάλλεται πρόστιμο.",
			Law:     "Ν.2696/1999",
			Penalty: "Πρόστιμο",
		},
	)

	t.Append(CategoryPets, SubcategoryGeneral,
		types.Article{
			Title:   "Άρθρο 6 - Υποχρεώσεις ιδιοκτήτη",
			Content: "Ο ιδιοκτήτης ζώου συντροφιάς οφείλει να το καταχωρίζει στο Εθνικό Ηλεκτρονικό Μητρώο. Σε περίπτωση παράβασης επιβάλλεται πρόστιμο.",
			Law:     "Ν.4830/2021",
			Penalty: "Πρόστιμο",
		},
	)

	for _, rule := range DefaultTable() {
		if rule.Category == CategoryPolicePersonnel {
			t.EnsureSection(rule.Category, rule.Subcategory)
		}
	}

	return t
}
