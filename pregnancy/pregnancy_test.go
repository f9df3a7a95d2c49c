package pregnancy

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/openfda"
)

type stubLabels struct {
	mu    sync.Mutex
	data  map[string]openfda.PregnancyInfo
	err   error
	calls int
}

func (s *stubLabels) PregnancyInfo(_ context.Context, name string) (openfda.PregnancyInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return openfda.PregnancyInfo{}, s.err
	}
	info, ok := s.data[name]
	if !ok {
		return openfda.PregnancyInfo{}, openfda.ErrNotFound
	}
	return info, nil
}

func TestCheckLocalOnly(t *testing.T) {
	s := NewService(nil, nil)
	got := s.Check(context.Background(), "warfarin", "1")

	if !got.Found || got.Category != "X" || got.Source != SourceLocal {
		t.Fatalf("Check = %+v", got)
	}
	if got.FDAInfo != "FDA verisi çekilemedi veya metin mevcut değil." || got.NursingInfo != "FDA verisi çekilemedi." {
		t.Errorf("fallback texts = %q / %q", got.FDAInfo, got.NursingInfo)
	}
	if got.CategoryInfo == nil || got.CategoryInfo.Color != "red" {
		t.Errorf("CategoryInfo = %+v", got.CategoryInfo)
	}
	if got.Trimester != "1" {
		t.Errorf("trimester not echoed: %q", got.Trimester)
	}
}

func TestCheckPrefersFDAText(t *testing.T) {
	fda := &stubLabels{data: map[string]openfda.PregnancyInfo{
		"warfarin": {Pregnancy: "Contraindicated in pregnancy.", NursingMothers: "Bilgi yok"},
	}}
	s := NewService(fda, cache.NewMemoryStore())

	got := s.Check(context.Background(), "warfarin", "")
	if got.Source != SourceFDA || got.FDAInfo != "Contraindicated in pregnancy." {
		t.Errorf("Check = %+v", got)
	}
	if got.Category != "X" {
		t.Errorf("letter should still come from the local table, got %q", got.Category)
	}

	s.Check(context.Background(), "warfarin", "")
	if fda.calls != 1 {
		t.Errorf("second check should be served from cache, upstream calls = %d", fda.calls)
	}
}

func TestCheckFDAOnlyDrugIsUnclassified(t *testing.T) {
	fda := &stubLabels{data: map[string]openfda.PregnancyInfo{"zolpidem": {Pregnancy: "Limited data."}}}
	got := NewService(fda, nil).Check(context.Background(), "zolpidem", "")

	if !got.Found || got.Category != "N" || got.Lactation != "unknown" {
		t.Errorf("Check = %+v", got)
	}
	if got.Recommendation != "Mevcut sınıflandırma bilgisi yok. FDA metnini inceleyiniz." {
		t.Errorf("Recommendation = %q", got.Recommendation)
	}
}

func TestCheckNotFound(t *testing.T) {
	fda := &stubLabels{err: errors.New("connection refused")}
	store := cache.NewMemoryStore()
	got := NewService(fda, store).Check(context.Background(), "Bilinmez", "")

	if got.Found {
		t.Fatal("expected not found")
	}
	if got.Message != "Bu ilaç (Bilinmez -> bilinmez) için veritabanlarında bilgi bulunamadı." {
		t.Errorf("Message = %q", got.Message)
	}
	if store.Len() != 0 {
		t.Error("transport failures must not be cached")
	}
}

func TestCheckMany(t *testing.T) {
	s := NewService(nil, nil)

	got := s.CheckMany(context.Background(), []string{"paracetamol", "lisinopril", "isotretinoin", "nothing"}, "")
	if got.OverallRisk != "X" || got.HighRiskDrug == nil || *got.HighRiskDrug != "isotretinoin" {
		t.Errorf("OverallRisk = %s, HighRiskDrug = %v", got.OverallRisk, got.HighRiskDrug)
	}
	if got.Summary != "🚫 KRİTİK: isotretinoin gebelikte kontraendikedir!" {
		t.Errorf("Summary = %q", got.Summary)
	}
	if len(got.Drugs) != 4 || got.Drugs[3].Found {
		t.Errorf("results should keep input order, got %+v", got.Drugs)
	}

	d := s.CheckMany(context.Background(), []string{"losartan", "lisinopril"}, "")
	if d.Summary != "⚠️ DİKKAT: losartan, lisinopril gebelikte risklidir." || *d.HighRiskDrug != "losartan" {
		t.Errorf("D summary = %q, high = %v", d.Summary, *d.HighRiskDrug)
	}

	safe := s.CheckMany(context.Background(), []string{"folic_acid"}, "")
	if safe.OverallRisk != "A" || safe.HighRiskDrug != nil {
		t.Errorf("category A alone should not replace the starting level: %+v", safe)
	}
	if safe.Summary != "✅ Kritik hamilelik riski tespit edilmedi." {
		t.Errorf("Summary = %q", safe.Summary)
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	for _, letter := range []string{"A", "B", "C", "D", "X", "N"} {
		if _, ok := cats[letter]; !ok {
			t.Errorf("missing category %s", letter)
		}
	}
}
