// Package interactions resolves drug-drug interactions for a set of names by
// trying RxNorm, OpenFDA and the local table in turn, then ranks and caches
// the answer.
package interactions

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/metrics"
	"github.com/eczane/pharmacy-api/normalize"
	"github.com/eczane/pharmacy-api/reference"
)

// Risk is the overall verdict of a result
type Risk string

const (
	RiskCritical Risk = "critical"
	RiskHigh     Risk = "high"
	RiskModerate Risk = "moderate"
	RiskLow      Risk = "low"
)

// Record is one interaction between two drugs
type Record struct {
	Pair      [2]string          `json:"pair"`
	Severity  reference.Severity `json:"severity"`
	Mechanism string             `json:"mechanism"`
	Action    string             `json:"action"`
	Source    string             `json:"source"`
}

type Result struct {
	Drugs            []string `json:"drugs"`
	Interactions     []Record `json:"interactions"`
	OverallRisk      Risk     `json:"overallRisk"`
	InteractionCount int      `json:"interactionCount"`
	Summary          string   `json:"summary"`
	Source           string   `json:"source"`
	NotFoundDrugs    []string `json:"notFoundDrugs"`
}

type Engine struct {
	sources []Source
	store   cache.Store
}

// NewEngine tries sources in the given order. A nil store disables caching.
func NewEngine(store cache.Store, sources ...Source) *Engine {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Engine{sources: sources, store: store}
}

// prepare normalizes names, dropping empties and repeats
func prepare(names []string) []string {
	drugs := make([]string, 0, len(names))
	for _, n := range normalize.Many(names) {
		if n != "" && !slices.Contains(drugs, n) {
			drugs = append(drugs, n)
		}
	}
	return drugs
}

// Check answers the interaction query for names. It never fails: source and
// cache errors are logged and the cascade moves on.
func (e *Engine) Check(ctx context.Context, names []string) Result {
	drugs := prepare(names)
	if len(drugs) < 2 {
		shown := make([]string, 0, len(names))
		for _, n := range names {
			if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
				shown = append(shown, n)
			}
		}
		return Result{
			Drugs:         shown,
			Interactions:  []Record{},
			OverallRisk:   RiskLow,
			Summary:       "En az 2 ilaç girilmelidir.",
			Source:        SourceLocal,
			NotFoundDrugs: []string{},
		}
	}

	key := cache.InteractionKey(drugs)
	var cached Result
	err := cache.GetJSON(ctx, e.store, key, &cached)
	if err == nil {
		return cached
	}
	if !errors.Is(err, cache.ErrMiss) {
		logging.Warn("Interaction cache read failed", "key", key, "error", err)
	}

	result := e.resolve(ctx, drugs)

	if err := cache.SetJSON(ctx, e.store, key, result, cache.TTLInteraction); err != nil {
		logging.Warn("Interaction cache write failed", "key", key, "error", err)
	} else if err := e.store.SAdd(ctx, cache.InteractionIndexKey, key); err != nil {
		logging.Debug("Interaction index update failed", "key", key, "error", err)
	}

	metrics.InteractionChecks.WithLabelValues(string(result.OverallRisk)).Inc()
	return result
}

func (e *Engine) resolve(ctx context.Context, drugs []string) Result {
	result := Result{
		Drugs:         drugs,
		Interactions:  []Record{},
		Source:        SourceLocal,
		NotFoundDrugs: []string{},
	}

	for _, src := range e.sources {
		lk, err := src.Lookup(ctx, drugs)
		if err != nil {
			metrics.InteractionSourceLookups.WithLabelValues(src.Name(), metrics.OutcomeError).Inc()
			logging.Warn("Interaction source failed", "source", src.Name(), "drugs", drugs, "error", err)
			continue
		}
		if len(lk.Records) == 0 {
			metrics.InteractionSourceLookups.WithLabelValues(src.Name(), metrics.OutcomeEmpty).Inc()
			continue
		}

		metrics.InteractionSourceLookups.WithLabelValues(src.Name(), metrics.OutcomeHit).Inc()
		logging.Debug("Interaction source answered", "source", src.Name(), "count", len(lk.Records))
		result.Interactions = lk.Records
		result.Source = src.Name()
		if lk.NotFound != nil {
			result.NotFoundDrugs = lk.NotFound
		}
		break
	}

	Rank(result.Interactions)
	result.InteractionCount = len(result.Interactions)
	result.OverallRisk = OverallRisk(result.Interactions)
	result.Summary = Summary(result.Interactions)
	return result
}

// Rank sorts records by severity, most dangerous first, keeping source order
// among equals.
func Rank(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return a.Severity.Rank() - b.Severity.Rank()
	})
}

func OverallRisk(records []Record) Risk {
	has := func(s reference.Severity) bool {
		return slices.ContainsFunc(records, func(r Record) bool { return r.Severity == s })
	}
	switch {
	case has(reference.SeverityContraindicated):
		return RiskCritical
	case has(reference.SeveritySerious):
		return RiskHigh
	case has(reference.SeverityModerate):
		return RiskModerate
	default:
		return RiskLow
	}
}

// Summary renders the Turkish one-line verdict. Minor records are not counted.
func Summary(records []Record) string {
	if len(records) == 0 {
		return "Girilen ilaçlar arasında bilinen bir etkileşim tespit edilmedi."
	}

	var contra, serious, moderate int
	for _, r := range records {
		switch r.Severity {
		case reference.SeverityContraindicated:
			contra++
		case reference.SeveritySerious:
			serious++
		case reference.SeverityModerate:
			moderate++
		}
	}

	var b strings.Builder
	if contra > 0 {
		fmt.Fprintf(&b, "⛔ %d KONTRAENDİKE etkileşim! ", contra)
	}
	if serious > 0 {
		fmt.Fprintf(&b, "🔴 %d ciddi etkileşim. ", serious)
	}
	if moderate > 0 {
		fmt.Fprintf(&b, "🟠 %d orta düzey etkileşim.", moderate)
	}
	return strings.TrimSpace(b.String())
}

// Context formats a result as plain text for a chat assistant prompt
func Context(drugs []string, records []Record) string {
	src := "local"
	if len(records) > 0 && records[0].Source != "" {
		src = records[0].Source
	}

	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("- %s + %s: %s - %s", r.Pair[0], r.Pair[1], r.Severity, r.Mechanism)
	}
	return fmt.Sprintf("İlaç Listesi: %s\nKaynak: %s\n\nEtkileşimler:\n%s",
		strings.Join(drugs, ", "), src, strings.Join(lines, "\n"))
}

// Alternatives lists safer substitutes for a drug
func (e *Engine) Alternatives(name string) []string {
	alts := reference.Alternatives(normalize.ToGeneric(name))
	if alts == nil {
		return []string{}
	}
	return alts
}

func (e *Engine) DrugClasses(name string) []string {
	classes := reference.DrugClasses(normalize.ToGeneric(name))
	if classes == nil {
		return []string{}
	}
	return classes
}

// WarmReport summarizes a warm-up run
type WarmReport struct {
	Computed int
	Fresh    int
}

// Warm recomputes every drug set that is not currently cached: the fixed
// common sets plus any set indexed by an earlier Check whose entry expired.
func (e *Engine) Warm(ctx context.Context, common [][]string) WarmReport {
	sets := make(map[string][]string, len(common))
	for _, names := range common {
		drugs := prepare(names)
		if len(drugs) >= 2 {
			sets[cache.InteractionKey(drugs)] = drugs
		}
	}

	indexed, err := e.store.SMembers(ctx, cache.InteractionIndexKey)
	if err != nil {
		logging.Warn("Interaction index read failed", "error", err)
	}
	for _, key := range indexed {
		if drugs, ok := cache.NamesFromInteractionKey(key); ok && len(drugs) >= 2 {
			sets[key] = drugs
		}
	}

	var report WarmReport
	for key, drugs := range sets {
		if ctx.Err() != nil {
			break
		}
		if _, err := e.store.Get(ctx, key); err == nil {
			report.Fresh++
			continue
		}
		e.Check(ctx, drugs)
		report.Computed++
	}
	return report
}
