// Package dose implements the renal function estimates and the pediatric,
// renal and hepatic dose adjustment lookups.
package dose

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/eczane/pharmacy-api/normalize"
	"github.com/eczane/pharmacy-api/reference"
)

// ErrUnknownChildPugh is reported for a class other than A, B or C
var ErrUnknownChildPugh = errors.New("unknown Child-Pugh class")

type RenalCategory string

const (
	RenalNormal   RenalCategory = "normal"
	RenalMild     RenalCategory = "mild"
	RenalModerate RenalCategory = "moderate"
	RenalSevere   RenalCategory = "severe"
)

// round rounds half up, like the calculators pharmacists compare against
func round(x float64) float64 { return math.Floor(x + 0.5) }

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return round(x*p) / p
}

// CrCl is the Cockcroft-Gault creatinine clearance in mL/min. Callers must
// keep age below 140 and serum creatinine positive.
func CrCl(age, weightKg, serumCreatinine float64, female bool) int {
	crcl := ((140 - age) * weightKg) / (72 * serumCreatinine)
	if female {
		crcl *= 0.85
	}
	return int(round(crcl))
}

// EGFR is the race-free CKD-EPI 2021 estimate in mL/min/1.73m²
func EGFR(age, serumCreatinine float64, female bool) int {
	kappa, alpha := 0.9, -0.302
	if female {
		kappa, alpha = 0.7, -0.241
	}

	ratio := serumCreatinine / kappa
	exp := alpha
	if ratio > 1 {
		exp = -1.200
	}
	egfr := 142 * math.Pow(ratio, exp) * math.Pow(0.9938, age)
	if female {
		egfr *= 1.012
	}
	return int(round(egfr))
}

// RenalCategoryFor buckets a GFR or CrCl value; lower bounds are inclusive.
func RenalCategoryFor(gfr float64) RenalCategory {
	switch {
	case gfr >= 90:
		return RenalNormal
	case gfr >= 60:
		return RenalMild
	case gfr >= 30:
		return RenalModerate
	default:
		return RenalSevere
	}
}

// BSA is the Mosteller body surface area in m²
func BSA(weightKg, heightCm float64) float64 {
	return math.Sqrt(heightCm * weightKg / 3600)
}

type PediatricResult struct {
	Found          bool    `json:"found"`
	DrugName       string  `json:"drugName"`
	Weight         float64 `json:"weight,omitempty"`
	CalculatedDose float64 `json:"calculatedDose,omitempty"`
	Unit           string  `json:"unit,omitempty"`
	Frequency      string  `json:"frequency,omitempty"`
	MaxDailyTotal  float64 `json:"maxDailyTotal,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	Formula        string  `json:"formula,omitempty"`
	Message        string  `json:"message,omitempty"`
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// pediatricKey lowercases and joins whitespace runs with "_"
func pediatricKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// Pediatric scales the per-kg rule of drug to weightKg. The table is keyed by
// the underscored name; brand and Turkish names fall back to their generic.
func Pediatric(drug string, weightKg float64) PediatricResult {
	rule, ok := reference.PediatricDoseFor(pediatricKey(drug))
	if !ok {
		rule, ok = reference.PediatricDoseFor(normalize.ToGeneric(drug))
	}
	if !ok {
		return PediatricResult{DrugName: drug, Message: fmt.Sprintf("%s için pediatrik doz bulunamadı.", drug)}
	}

	return PediatricResult{
		Found:          true,
		DrugName:       drug,
		Weight:         weightKg,
		CalculatedDose: roundTo(weightKg*rule.Dose, 1),
		Unit:           "mg",
		Frequency:      rule.Frequency,
		MaxDailyTotal:  round(weightKg * rule.MaxDaily),
		Notes:          rule.Notes,
		Formula:        fmt.Sprintf("%s %s x %skg", formatNumber(rule.Dose), rule.Unit, formatNumber(weightKg)),
	}
}

type RenalResult struct {
	Found          bool          `json:"found"`
	DrugName       string        `json:"drugName"`
	GFR            float64       `json:"gfr,omitempty"`
	Category       RenalCategory `json:"category,omitempty"`
	Recommendation string        `json:"recommendation,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	Message        string        `json:"message,omitempty"`
}

// Renal looks up the adjustment of drug for a GFR or CrCl value. NSAIDs
// without their own entry use the shared NSAID rule.
func Renal(drug string, gfr float64) RenalResult {
	generic := normalize.ToGeneric(drug)
	adj, ok := reference.RenalAdjustmentFor(generic)
	if !ok && reference.IsNSAID(generic) {
		adj, ok = reference.RenalAdjustmentFor(reference.NSAIDClass)
	}
	if !ok {
		return RenalResult{DrugName: drug, Message: fmt.Sprintf("%s için böbrek doz bilgisi bulunamadı.", drug)}
	}

	category := RenalCategoryFor(gfr)
	return RenalResult{
		Found:          true,
		DrugName:       drug,
		GFR:            gfr,
		Category:       category,
		Recommendation: adj.For(string(category)),
		Notes:          adj.Notes,
	}
}

type HepaticResult struct {
	Found          bool   `json:"found"`
	DrugName       string `json:"drugName"`
	ChildPughClass string `json:"childPughClass,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Message        string `json:"message,omitempty"`
}

// ParseChildPugh reads the class letter from inputs like "B" or "b (7-9 puan)"
func ParseChildPugh(class string) (string, error) {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return "", ErrUnknownChildPugh
	}
	letter := strings.ToUpper(fields[0])
	switch letter {
	case "A", "B", "C":
		return letter, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChildPugh, class)
}

// Hepatic looks up the adjustment of drug for a Child-Pugh class. An
// unrecognized class is reported as not found rather than read as A.
func Hepatic(drug, childPughClass string) HepaticResult {
	adj, ok := reference.HepaticAdjustmentFor(normalize.ToGeneric(drug))
	if !ok {
		return HepaticResult{DrugName: drug, Message: fmt.Sprintf("%s için karaciğer doz bilgisi bulunamadı.", drug)}
	}

	letter, err := ParseChildPugh(childPughClass)
	if err != nil {
		return HepaticResult{
			DrugName:       drug,
			ChildPughClass: childPughClass,
			Message:        fmt.Sprintf("Geçersiz Child-Pugh sınıfı: %s (A, B veya C olmalı).", childPughClass),
		}
	}
	rec, _ := adj.For(letter)

	return HepaticResult{
		Found:          true,
		DrugName:       drug,
		ChildPughClass: childPughClass,
		Recommendation: rec,
		Notes:          adj.Notes,
	}
}
