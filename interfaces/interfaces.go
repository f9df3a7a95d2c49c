// Package interfaces defines the contracts between the pharmacy API packages
// so handlers, health checks and the scheduler can be tested with mocks.
package interfaces

import (
	"context"
	"net/http"

	"github.com/eczane/pharmacy-api/icd10"
	"github.com/eczane/pharmacy-api/interactions"
	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/pregnancy"
	"github.com/eczane/pharmacy-api/rxnorm"
	"github.com/eczane/pharmacy-api/titck"
)

// PatientParams are the patient values checked before a dose calculation.
// Zero means "not given".
type PatientParams struct {
	Weight          float64
	Age             float64
	Height          float64
	SerumCreatinine float64
}

// InteractionChecker resolves interactions and the related local lookups
type InteractionChecker interface {
	Check(ctx context.Context, names []string) interactions.Result
	Alternatives(name string) []string
	DrugClasses(name string) []string
}

// CacheWarmer precomputes interaction answers
type CacheWarmer interface {
	Warm(ctx context.Context, common [][]string) interactions.WarmReport
}

type PregnancyChecker interface {
	Check(ctx context.Context, drug, trimester string) pregnancy.Result
	CheckMany(ctx context.Context, drugs []string, trimester string) pregnancy.MultiResult
}

// LabelService is the OpenFDA surface exposed over HTTP
type LabelService interface {
	SearchLabel(ctx context.Context, name string) ([]openfda.Label, error)
	InteractionText(ctx context.Context, name string) (openfda.InteractionInfo, error)
	PregnancyInfo(ctx context.Context, name string) (openfda.PregnancyInfo, error)
	AdverseEvents(ctx context.Context, name string) (openfda.AdverseEvents, error)
	Recalls(ctx context.Context, name string) ([]openfda.Recall, error)
}

// RxNormService is the RxNav surface exposed over HTTP
type RxNormService interface {
	RxCUI(ctx context.Context, name string) (rxnorm.Concept, error)
	CheckByNames(ctx context.Context, names []string) (rxnorm.InteractionList, error)
	DrugClasses(ctx context.Context, rxcui string) ([]rxnorm.DrugClass, error)
}

type DiseaseLookup interface {
	Search(ctx context.Context, query string) icd10.SearchResult
	ByCode(code string) icd10.CodeResult
	ByCategory(category string) icd10.CategoryResult
	Categories() []string
	DrugsForDisease(code string) icd10.DrugsResult
}

type TurkishDrugLookup interface {
	Search(query string) titck.SearchResult
	Details(name string) titck.Details
	ListByPrescription(required bool) titck.PrescriptionList
	ListReimbursed() titck.ReimbursedList
	Warnings(name string) titck.Warnings
	SearchByATC(code string) titck.ATCResult
}

// Pinger is anything whose reachability can be probed
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler defines the contract for background jobs
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker reports the service status for /health
type HealthChecker interface {
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)
}

// InputValidator checks request input before any lookup runs
type InputValidator interface {
	// ValidateInput validates a drug name or search term
	ValidateInput(input string) error

	// ValidateDrugList checks the count and every name of a drug list
	ValidateDrugList(drugs []string, minCount int) error

	ValidateICD10Code(code string) error
	ValidateATCCode(code string) error
	ValidateRxCUI(input string) (int, error)
	ValidatePatient(p PatientParams) error
	ValidateTrimester(trimester string) error
}

// HTTPHandler lists every endpoint of the API
type HTTPHandler interface {
	// Interactions
	CheckInteractions(w http.ResponseWriter, r *http.Request)
	Alternatives(w http.ResponseWriter, r *http.Request)
	ComprehensiveCheck(w http.ResponseWriter, r *http.Request)

	// Pregnancy
	PregnancySafety(w http.ResponseWriter, r *http.Request)
	PregnancySafetyMany(w http.ResponseWriter, r *http.Request)
	PregnancyCategories(w http.ResponseWriter, r *http.Request)

	// Dose
	PediatricDose(w http.ResponseWriter, r *http.Request)
	RenalDose(w http.ResponseWriter, r *http.Request)
	HepaticDose(w http.ResponseWriter, r *http.Request)
	ComprehensiveDose(w http.ResponseWriter, r *http.Request)

	// OpenFDA
	FDALabel(w http.ResponseWriter, r *http.Request)
	FDAAdverseEvents(w http.ResponseWriter, r *http.Request)
	FDAInteractions(w http.ResponseWriter, r *http.Request)
	FDAPregnancy(w http.ResponseWriter, r *http.Request)
	FDARecalls(w http.ResponseWriter, r *http.Request)

	// RxNorm
	RxNormSearch(w http.ResponseWriter, r *http.Request)
	RxNormInteractions(w http.ResponseWriter, r *http.Request)
	RxNormClass(w http.ResponseWriter, r *http.Request)

	// ICD-10
	ICD10Search(w http.ResponseWriter, r *http.Request)
	ICD10ByCode(w http.ResponseWriter, r *http.Request)
	ICD10ByCategory(w http.ResponseWriter, r *http.Request)
	ICD10Categories(w http.ResponseWriter, r *http.Request)
	ICD10Drugs(w http.ResponseWriter, r *http.Request)

	// TİTCK
	TITCKSearch(w http.ResponseWriter, r *http.Request)
	TITCKDrug(w http.ResponseWriter, r *http.Request)
	TITCKWarnings(w http.ResponseWriter, r *http.Request)
	TITCKOTC(w http.ResponseWriter, r *http.Request)
	TITCKReimbursed(w http.ResponseWriter, r *http.Request)
	TITCKByATC(w http.ResponseWriter, r *http.Request)

	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
