// Package titck looks up drugs licensed on the Turkish market together with
// their SGK reimbursement rules.
package titck

import (
	"slices"
	"strings"

	"github.com/eczane/pharmacy-api/normalize"
	"github.com/eczane/pharmacy-api/reference"
)

const (
	Source = "TİTCK Yerel Veritabanı"

	notFound = "İlaç bulunamadı"
)

type SearchResult struct {
	Found   bool                    `json:"found"`
	Count   int                     `json:"count"`
	Results []reference.TurkishDrug `json:"results"`
	Source  string                  `json:"source"`
}

// Details is one drug flattened with its SGK rule
type Details struct {
	Found bool `json:"found"`
	*reference.TurkishDrug
	SGKRules *reference.SGKRule `json:"sgkRules,omitempty"`
	Message  string             `json:"message,omitempty"`
}

type Warnings struct {
	Found        bool               `json:"found"`
	DrugName     string             `json:"drugName,omitempty"`
	TurkishNotes string             `json:"turkishNotes,omitempty"`
	Warnings     []string           `json:"warnings,omitempty"`
	Prescription string             `json:"prescription,omitempty"`
	SGK          string             `json:"sgk,omitempty"`
	SGKRules     *reference.SGKRule `json:"sgkRules,omitempty"`
	Message      string             `json:"message,omitempty"`
}

type PrescriptionList struct {
	Found                bool                    `json:"found"`
	PrescriptionRequired bool                    `json:"prescriptionRequired"`
	Count                int                     `json:"count"`
	Results              []reference.TurkishDrug `json:"results"`
}

type ReimbursedList struct {
	Found   bool                    `json:"found"`
	Count   int                     `json:"count"`
	Results []reference.TurkishDrug `json:"results"`
	Note    string                  `json:"note"`
}

type ATCResult struct {
	Found   bool                    `json:"found"`
	ATCCode string                  `json:"atcCode"`
	Count   int                     `json:"count"`
	Results []reference.TurkishDrug `json:"results"`
}

type Service struct{}

func NewService() *Service { return &Service{} }

func filter(keep func(reference.TurkishDrug) bool) []reference.TurkishDrug {
	out := []reference.TurkishDrug{}
	for _, d := range reference.TurkishDrugs() {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// Search matches query against key, name, brand names and active ingredient
func (s *Service) Search(query string) SearchResult {
	q := normalize.Fold(query)
	if q == "" {
		return SearchResult{Results: []reference.TurkishDrug{}, Source: Source}
	}

	results := filter(func(d reference.TurkishDrug) bool {
		if strings.Contains(d.Key, q) ||
			strings.Contains(normalize.Fold(d.Name), q) ||
			strings.Contains(normalize.Fold(d.ActiveIngredient), q) {
			return true
		}
		return slices.ContainsFunc(d.BrandNames, func(b string) bool {
			return strings.Contains(normalize.Fold(b), q)
		})
	})
	return SearchResult{Found: len(results) > 0, Count: len(results), Results: results, Source: Source}
}

// Details finds a drug by registry key first, then by exact brand name
func (s *Service) Details(name string) Details {
	q := normalize.Fold(name)
	drugs := reference.TurkishDrugs()

	idx := slices.IndexFunc(drugs, func(d reference.TurkishDrug) bool { return d.Key == q })
	if idx < 0 {
		idx = slices.IndexFunc(drugs, func(d reference.TurkishDrug) bool {
			return slices.ContainsFunc(d.BrandNames, func(b string) bool { return normalize.Fold(b) == q })
		})
	}
	if q == "" || idx < 0 {
		return Details{Message: notFound}
	}

	d := drugs[idx]
	rule := reference.SGKRuleFor(d.ATCCode)
	return Details{Found: true, TurkishDrug: &d, SGKRules: &rule}
}

func (s *Service) ListByPrescription(required bool) PrescriptionList {
	results := filter(func(d reference.TurkishDrug) bool { return d.Prescription == required })
	return PrescriptionList{Found: len(results) > 0, PrescriptionRequired: required, Count: len(results), Results: results}
}

func (s *Service) ListReimbursed() ReimbursedList {
	results := filter(func(d reference.TurkishDrug) bool { return d.Reimbursed })
	return ReimbursedList{
		Found:   len(results) > 0,
		Count:   len(results),
		Results: results,
		Note:    "Bu ilaçlar SGK tarafından karşılanır. Provizyon koşullarına dikkat edilmelidir.",
	}
}

// Warnings returns the Turkey specific notes and coverage status of a drug
func (s *Service) Warnings(name string) Warnings {
	det := s.Details(name)
	if !det.Found {
		return Warnings{Message: notFound}
	}

	w := Warnings{
		Found:        true,
		DrugName:     det.Name,
		TurkishNotes: det.TurkishNotes,
		Warnings:     det.TurkishDrug.Warnings,
		Prescription: "Reçetesiz ilaç (OTC)",
		SGK:          "SGK kapsamı dışında",
		SGKRules:     det.SGKRules,
	}
	if det.Prescription {
		w.Prescription = "Reçeteli ilaç"
	}
	if det.Reimbursed {
		w.SGK = "SGK tarafından ödenir"
	}
	return w
}

// SearchByATC lists drugs whose ATC code starts with code
func (s *Service) SearchByATC(code string) ATCResult {
	prefix := strings.ToUpper(strings.TrimSpace(code))
	results := []reference.TurkishDrug{}
	if prefix != "" {
		results = filter(func(d reference.TurkishDrug) bool { return strings.HasPrefix(d.ATCCode, prefix) })
	}
	return ATCResult{Found: len(results) > 0, ATCCode: prefix, Count: len(results), Results: results}
}
