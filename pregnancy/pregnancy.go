// Package pregnancy answers pregnancy and lactation safety questions by
// combining FDA label text with the local category table.
package pregnancy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/normalize"
	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/reference"
)

const (
	SourceFDA   = "FDA (OpenFDA)"
	SourceLocal = "Farmakolojik Literatür"

	lactationUnknown = "unknown"
)

// LabelReader is the part of the OpenFDA client the service needs
type LabelReader interface {
	PregnancyInfo(ctx context.Context, name string) (openfda.PregnancyInfo, error)
}

type Result struct {
	Found          bool                         `json:"found"`
	DrugName       string                       `json:"drugName"`
	Category       string                       `json:"category,omitempty"`
	CategoryInfo   *reference.FDACategory       `json:"categoryInfo,omitempty"`
	Lactation      string                       `json:"lactation,omitempty"`
	LactationInfo  *reference.LactationCategory `json:"lactationInfo,omitempty"`
	FDAInfo        string                       `json:"fdaInfo,omitempty"`
	NursingInfo    string                       `json:"nursingInfo,omitempty"`
	Notes          string                       `json:"notes,omitempty"`
	Trimester      string                       `json:"trimester,omitempty"`
	Source         string                       `json:"source,omitempty"`
	Recommendation string                       `json:"recommendation,omitempty"`
	Message        string                       `json:"message,omitempty"`
}

type MultiResult struct {
	Drugs        []Result `json:"drugs"`
	OverallRisk  string   `json:"overallRisk"`
	HighRiskDrug *string  `json:"highRiskDrug"`
	Summary      string   `json:"summary"`
}

type Service struct {
	fda   LabelReader
	store cache.Store
}

// NewService builds the service; a nil reader answers from the local table only
func NewService(fda LabelReader, store cache.Store) *Service {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Service{fda: fda, store: store}
}

// fdaEntry is the cached outcome of a label lookup, negative answers included
type fdaEntry struct {
	Found bool                  `json:"found"`
	Info  openfda.PregnancyInfo `json:"info"`
}

func (s *Service) fdaInfo(ctx context.Context, generic string) (openfda.PregnancyInfo, bool) {
	if s.fda == nil {
		return openfda.PregnancyInfo{}, false
	}

	key := cache.PregnancyKey(generic)
	var entry fdaEntry
	if err := cache.GetJSON(ctx, s.store, key, &entry); err == nil {
		return entry.Info, entry.Found
	}

	info, err := s.fda.PregnancyInfo(ctx, generic)
	switch {
	case err == nil:
		entry = fdaEntry{Found: true, Info: info}
	case errors.Is(err, openfda.ErrNotFound):
		entry = fdaEntry{}
	default:
		// transport failures are not cached
		logging.Warn("OpenFDA pregnancy lookup failed", "drug", generic, "error", err)
		return openfda.PregnancyInfo{}, false
	}

	if err := cache.SetJSON(ctx, s.store, key, entry, cache.TTLPregnancy); err != nil {
		logging.Debug("Pregnancy cache write failed", "key", key, "error", err)
	}
	return entry.Info, entry.Found
}

// Check reports the pregnancy safety of one drug. FDA label text is preferred
// when present; the letter category always comes from the local table.
func (s *Service) Check(ctx context.Context, drug, trimester string) Result {
	generic := normalize.ToGeneric(drug)
	fda, fdaFound := s.fdaInfo(ctx, generic)
	local, localFound := reference.Pregnancy(generic)

	if !fdaFound && !localFound {
		return Result{
			DrugName:  drug,
			Trimester: trimester,
			Message:   fmt.Sprintf("Bu ilaç (%s -> %s) için veritabanlarında bilgi bulunamadı.", drug, generic),
		}
	}

	category := local.Category
	if category == "" {
		category = reference.CategoryUnclassified
	}
	lactation := local.Lactation
	if lactation == "" {
		lactation = lactationUnknown
	}
	catInfo := reference.FDACategoryFor(category)
	lacInfo := reference.LactationCategoryFor(lactation)

	res := Result{
		Found:          true,
		DrugName:       drug,
		Category:       category,
		CategoryInfo:   &catInfo,
		Lactation:      lactation,
		LactationInfo:  &lacInfo,
		FDAInfo:        "FDA verisi çekilemedi veya metin mevcut değil.",
		NursingInfo:    "FDA verisi çekilemedi.",
		Notes:          local.Notes,
		Trimester:      trimester,
		Source:         SourceLocal,
		Recommendation: reference.Recommendation(category),
	}
	if fdaFound {
		res.Source = SourceFDA
		if fda.Pregnancy != "" {
			res.FDAInfo = fda.Pregnancy
		}
		if fda.NursingMothers != "" {
			res.NursingInfo = fda.NursingMothers
		}
	}
	return res
}

// CheckMany checks every drug concurrently and reports the riskiest letter.
func (s *Service) CheckMany(ctx context.Context, drugs []string, trimester string) MultiResult {
	results := make([]Result, len(drugs))
	var wg sync.WaitGroup
	for i, d := range drugs {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			results[i] = s.Check(ctx, d, trimester)
		}(i, d)
	}
	wg.Wait()

	highest := "A"
	var highDrug *string
	var xDrugs, dDrugs []string
	for i := range results {
		r := results[i]
		if !r.Found {
			continue
		}
		if reference.CategoryRisk(r.Category) > reference.CategoryRisk(highest) {
			highest = r.Category
			name := r.DrugName
			highDrug = &name
		}
		switch r.Category {
		case "X":
			xDrugs = append(xDrugs, r.DrugName)
		case "D":
			dDrugs = append(dDrugs, r.DrugName)
		}
	}

	summary := "✅ Kritik hamilelik riski tespit edilmedi."
	switch {
	case len(xDrugs) > 0:
		summary = fmt.Sprintf("🚫 KRİTİK: %s gebelikte kontraendikedir!", strings.Join(xDrugs, ", "))
	case len(dDrugs) > 0:
		summary = fmt.Sprintf("⚠️ DİKKAT: %s gebelikte risklidir.", strings.Join(dDrugs, ", "))
	}

	return MultiResult{Drugs: results, OverallRisk: highest, HighRiskDrug: highDrug, Summary: summary}
}

// Categories returns the FDA letter table
func Categories() map[string]reference.FDACategory {
	return reference.FDACategories()
}
