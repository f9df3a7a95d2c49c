// Package icd10 searches the local ICD-10 table by code, name, category and
// colloquial Turkish disease names.
package icd10

import (
	"context"
	"errors"
	"strings"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/normalize"
	"github.com/eczane/pharmacy-api/reference"
)

const Source = "ICD-10 Yerel Veritabanı"

type SearchResult struct {
	Found   bool                `json:"found"`
	Count   int                 `json:"count"`
	Results []reference.Disease `json:"results"`
	Source  string              `json:"source"`
}

// CodeResult is an exact hit (Disease set) or a list of prefix matches
type CodeResult struct {
	Found        bool                `json:"found"`
	Disease      *reference.Disease  `json:"disease,omitempty"`
	PartialMatch bool                `json:"partialMatch,omitempty"`
	Results      []reference.Disease `json:"results,omitempty"`
	Message      string              `json:"message,omitempty"`
}

type CategoryResult struct {
	Found    bool                `json:"found"`
	Category string              `json:"category"`
	Count    int                 `json:"count"`
	Results  []reference.Disease `json:"results"`
}

type DrugsResult struct {
	Found       bool     `json:"found"`
	ICDCode     string   `json:"icdCode,omitempty"`
	DiseaseName string   `json:"diseaseName,omitempty"`
	Drugs       []string `json:"drugs,omitempty"`
	Note        string   `json:"note,omitempty"`
	Message     string   `json:"message,omitempty"`
}

type Service struct {
	store cache.Store
}

func NewService(store cache.Store) *Service {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Service{store: store}
}

// Search matches query against the alias table first, in both directions,
// then against codes and names. Each code appears once.
func (s *Service) Search(ctx context.Context, query string) SearchResult {
	q := normalize.Fold(query)
	if q == "" {
		return SearchResult{Results: []reference.Disease{}, Source: Source}
	}

	key := cache.DiseaseSearchKey(q)
	var cached SearchResult
	err := cache.GetJSON(ctx, s.store, key, &cached)
	if err == nil {
		return cached
	}
	if !errors.Is(err, cache.ErrMiss) {
		logging.Warn("ICD-10 cache read failed", "key", key, "error", err)
	}

	res := search(q)
	if err := cache.SetJSON(ctx, s.store, key, res, cache.TTLDisease); err != nil {
		logging.Debug("ICD-10 cache write failed", "key", key, "error", err)
	}
	return res
}

func search(q string) SearchResult {
	results := []reference.Disease{}
	added := make(map[string]bool)

	for _, a := range reference.DiseaseAliases() {
		alias := normalize.Fold(a.Alias)
		if !strings.Contains(alias, q) && !strings.Contains(q, alias) {
			continue
		}
		for _, code := range a.Codes {
			if added[code] {
				continue
			}
			if d, ok := reference.ICD10(code); ok {
				results = append(results, d)
				added[code] = true
			}
		}
	}

	for _, d := range reference.Diseases() {
		if added[d.Code] {
			continue
		}
		if strings.Contains(strings.ToLower(d.Code), q) || strings.Contains(normalize.Fold(d.Name), q) {
			results = append(results, d)
			added[d.Code] = true
		}
	}

	return SearchResult{Found: len(results) > 0, Count: len(results), Results: results, Source: Source}
}

// ByCode returns the exact entry, or every entry whose code starts with code
func (s *Service) ByCode(code string) CodeResult {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if upper == "" {
		return CodeResult{Message: "ICD-10 kodu bulunamadı"}
	}
	if d, ok := reference.ICD10(upper); ok {
		return CodeResult{Found: true, Disease: &d}
	}
	if partial := reference.ICD10ByPrefix(upper); len(partial) > 0 {
		return CodeResult{Found: true, PartialMatch: true, Results: partial}
	}
	return CodeResult{Message: "ICD-10 kodu bulunamadı"}
}

// ByCategory lists entries whose category contains category, case-insensitively
func (s *Service) ByCategory(category string) CategoryResult {
	needle := normalize.Fold(category)
	results := []reference.Disease{}
	for _, d := range reference.Diseases() {
		if strings.Contains(normalize.Fold(d.Category), needle) {
			results = append(results, d)
		}
	}
	return CategoryResult{Found: len(results) > 0, Category: category, Count: len(results), Results: results}
}

// Categories lists distinct categories in table order
func (s *Service) Categories() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, d := range reference.Diseases() {
		if !seen[d.Category] {
			seen[d.Category] = true
			out = append(out, d.Category)
		}
	}
	return out
}

func (s *Service) DrugsForDisease(code string) DrugsResult {
	upper := strings.ToUpper(strings.TrimSpace(code))
	d, ok := reference.ICD10(upper)
	if !ok || len(d.Drugs) == 0 {
		return DrugsResult{Message: "Bu hastalık için ilaç önerisi bulunamadı"}
	}
	return DrugsResult{
		Found:       true,
		ICDCode:     upper,
		DiseaseName: d.Name,
		Drugs:       d.Drugs,
		Note:        "Bu öneriler genel bilgi amaçlıdır. Tedavi kararları hekim tarafından verilmelidir.",
	}
}
