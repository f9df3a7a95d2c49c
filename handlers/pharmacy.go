package handlers

import (
	"net/http"

	"github.com/eczane/pharmacy-api/dose"
	"github.com/eczane/pharmacy-api/interactions"
	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/pregnancy"
)

const invalidJSON = "Geçersiz JSON gövdesi"

type interactionRequest struct {
	Drugs          []string `json:"drugs"`
	IncludeContext bool     `json:"includeContext"`
}

type interactionResponse struct {
	interactions.Result
	Context string `json:"context,omitempty"`
}

// CheckInteractions resolves the interactions of a drug list
func (h *HTTPHandlerImpl) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}
	if len(req.Drugs) < 2 {
		h.RespondWithError(w, http.StatusBadRequest, "En az 2 ilaç gerekli")
		return
	}
	if err := h.validator.ValidateDrugList(req.Drugs, 2); err != nil {
		h.badInput(w, r, err)
		return
	}

	result := h.interactions.Check(r.Context(), req.Drugs)
	resp := interactionResponse{Result: result}
	if req.IncludeContext {
		resp.Context = interactions.Context(result.Drugs, result.Interactions)
	}
	h.RespondWithSuccess(w, true, resp)
}

type alternativesResponse struct {
	Drug            string   `json:"drug"`
	Alternatives    []string `json:"alternatives"`
	HasAlternatives bool     `json:"hasAlternatives"`
	DrugClasses     []string `json:"drugClasses"`
}

// Alternatives lists safer substitutes for a drug
func (h *HTTPHandlerImpl) Alternatives(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	alts := h.interactions.Alternatives(drug)
	h.RespondWithSuccess(w, true, alternativesResponse{
		Drug:            drug,
		Alternatives:    alts,
		HasAlternatives: len(alts) > 0,
		DrugClasses:     h.interactions.DrugClasses(drug),
	})
}

type comprehensiveRequest struct {
	Drugs         []string `json:"drugs"`
	IncludeFDA    *bool    `json:"includeFda"`
	IncludeRxNorm *bool    `json:"includeRxNorm"`
}

type comprehensiveResponse struct {
	Drugs              []string              `json:"drugs"`
	LocalDatabase      *interactions.Result  `json:"localDatabase"`
	FDAData            *labelPayload         `json:"fdaData"`
	RxNormInteractions *rxInteractionPayload `json:"rxNormInteractions"`
	Sources            []string              `json:"sources"`
}

// ComprehensiveCheck combines the interaction engine with direct OpenFDA
// and RxNorm answers. Upstream failures are reported inline.
func (h *HTTPHandlerImpl) ComprehensiveCheck(w http.ResponseWriter, r *http.Request) {
	var req comprehensiveRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}
	if len(req.Drugs) == 0 {
		h.RespondWithError(w, http.StatusBadRequest, "En az 1 ilaç gerekli")
		return
	}
	if err := h.validator.ValidateDrugList(req.Drugs, 1); err != nil {
		h.badInput(w, r, err)
		return
	}

	ctx := r.Context()
	resp := comprehensiveResponse{
		Drugs:   req.Drugs,
		Sources: []string{"Local Database", "OpenFDA", "RxNorm/DrugBank"},
	}

	if len(req.Drugs) >= 2 {
		local := h.interactions.Check(ctx, req.Drugs)
		resp.LocalDatabase = &local
	}

	if req.IncludeFDA == nil || *req.IncludeFDA {
		labels, err := h.labels.SearchLabel(ctx, req.Drugs[0])
		payload, transportErr := labelResult(labels, err)
		if transportErr {
			logging.Warn("OpenFDA lookup failed", "drug", req.Drugs[0], "error", err)
			payload = labelPayload{Error: "FDA bağlantı hatası"}
		}
		resp.FDAData = &payload
	}

	if (req.IncludeRxNorm == nil || *req.IncludeRxNorm) && len(req.Drugs) >= 2 {
		list, err := h.rxnorm.CheckByNames(ctx, req.Drugs)
		payload, transportErr := rxInteractionResult(list, err)
		if transportErr {
			logging.Warn("RxNorm interaction check failed", "drugs", req.Drugs, "error", err)
			payload = rxInteractionPayload{Error: "RxNorm bağlantı hatası"}
		}
		resp.RxNormInteractions = &payload
	}

	h.RespondWithSuccess(w, true, resp)
}

// PregnancySafety reports the pregnancy and lactation profile of one drug
func (h *HTTPHandlerImpl) PregnancySafety(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}
	trimester := r.URL.Query().Get("trimester")
	if err := h.validator.ValidateTrimester(trimester); err != nil {
		h.badInput(w, r, err)
		return
	}

	h.RespondWithSuccess(w, true, h.pregnancy.Check(r.Context(), drug, trimester))
}

type pregnancyManyRequest struct {
	Drugs     []string `json:"drugs"`
	Trimester string   `json:"trimester"`
}

// PregnancySafetyMany checks a drug list and names the riskiest drug
func (h *HTTPHandlerImpl) PregnancySafetyMany(w http.ResponseWriter, r *http.Request) {
	var req pregnancyManyRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}
	if len(req.Drugs) == 0 {
		h.RespondWithError(w, http.StatusBadRequest, "En az 1 ilaç gerekli")
		return
	}
	if err := h.validator.ValidateDrugList(req.Drugs, 1); err != nil {
		h.badInput(w, r, err)
		return
	}
	if err := h.validator.ValidateTrimester(req.Trimester); err != nil {
		h.badInput(w, r, err)
		return
	}

	h.RespondWithSuccess(w, true, h.pregnancy.CheckMany(r.Context(), req.Drugs, req.Trimester))
}

// PregnancyCategories returns the FDA category definitions
func (h *HTTPHandlerImpl) PregnancyCategories(w http.ResponseWriter, r *http.Request) {
	h.RespondWithSuccess(w, true, map[string]any{"categories": pregnancy.Categories()})
}

type pediatricRequest struct {
	Drug      string  `json:"drug"`
	Weight    float64 `json:"weight"`
	AgeYears  float64 `json:"ageYears"`
	AgeMonths float64 `json:"ageMonths"`
	Height    float64 `json:"height"`
	AdultDose float64 `json:"adultDose"`
}

type pediatricResponse struct {
	dose.PediatricResult
	Estimates *dose.Estimates `json:"estimates,omitempty"`
}

// PediatricDose scales the per-kg rule of a drug to the child's weight.
// With an adult dose it also returns the age, weight and BSA estimates.
func (h *HTTPHandlerImpl) PediatricDose(w http.ResponseWriter, r *http.Request) {
	var req pediatricRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}
	if req.Drug == "" || req.Weight <= 0 {
		h.RespondWithError(w, http.StatusBadRequest, "İlaç adı ve vücut ağırlığı gerekli")
		return
	}
	if err := h.validator.ValidateInput(req.Drug); err != nil {
		h.badInput(w, r, err)
		return
	}
	patient := interfaces.PatientParams{Weight: req.Weight, Age: req.AgeYears, Height: req.Height}
	if err := h.validator.ValidatePatient(patient); err != nil {
		h.badInput(w, r, err)
		return
	}

	resp := pediatricResponse{PediatricResult: dose.Pediatric(req.Drug, req.Weight)}
	if req.AdultDose > 0 {
		est := dose.Estimate(req.AdultDose, dose.EstimateInput{
			AgeYears:  req.AgeYears,
			AgeMonths: req.AgeMonths,
			WeightKg:  req.Weight,
			HeightCm:  req.Height,
		})
		resp.Estimates = &est
	}
	h.RespondWithSuccess(w, true, resp)
}

type renalRequest struct {
	Drug            string  `json:"drug"`
	CrCl            float64 `json:"crCl"`
	Age             float64 `json:"age"`
	Weight          float64 `json:"weight"`
	SerumCreatinine float64 `json:"serumCreatinine"`
	IsFemale        bool    `json:"isFemale"`
}

type renalResponse struct {
	dose.RenalResult
	CalculatedCrCl *int `json:"calculatedCrCl,omitempty"`
}

// RenalDose looks up the renal adjustment of a drug. Without a CrCl value
// it is computed with Cockcroft-Gault from age, weight and serum creatinine.
func (h *HTTPHandlerImpl) RenalDose(w http.ResponseWriter, r *http.Request) {
	var req renalRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}

	var computed *int
	if req.CrCl <= 0 && req.Age > 0 && req.Weight > 0 && req.SerumCreatinine > 0 {
		patient := interfaces.PatientParams{Weight: req.Weight, Age: req.Age, SerumCreatinine: req.SerumCreatinine}
		if err := h.validator.ValidatePatient(patient); err != nil {
			h.badInput(w, r, err)
			return
		}
		crcl := dose.CrCl(req.Age, req.Weight, req.SerumCreatinine, req.IsFemale)
		computed = &crcl
		req.CrCl = float64(crcl)
	}

	if req.Drug == "" || req.CrCl <= 0 {
		h.RespondWithError(w, http.StatusBadRequest, "İlaç adı ve CrCl değeri (veya hesaplama parametreleri) gerekli")
		return
	}
	if err := h.validator.ValidateInput(req.Drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	h.RespondWithSuccess(w, true, renalResponse{
		RenalResult:    dose.Renal(req.Drug, req.CrCl),
		CalculatedCrCl: computed,
	})
}

type hepaticRequest struct {
	Drug           string `json:"drug"`
	ChildPughClass string `json:"childPughClass"`
}

// HepaticDose looks up the hepatic adjustment of a drug for a Child-Pugh class
func (h *HTTPHandlerImpl) HepaticDose(w http.ResponseWriter, r *http.Request) {
	var req hepaticRequest
	if err := decodeBody(r, &req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}
	if req.Drug == "" || req.ChildPughClass == "" {
		h.RespondWithError(w, http.StatusBadRequest, "İlaç adı ve Child-Pugh sınıfı gerekli")
		return
	}
	if err := h.validator.ValidateInput(req.Drug); err != nil {
		h.badInput(w, r, err)
		return
	}
	if _, err := dose.ParseChildPugh(req.ChildPughClass); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Geçersiz Child-Pugh sınıfı: "+req.ChildPughClass+" (A, B veya C olmalı).")
		return
	}

	h.RespondWithSuccess(w, true, dose.Hepatic(req.Drug, req.ChildPughClass))
}

// ComprehensiveDose runs every dose calculation whose inputs are present
func (h *HTTPHandlerImpl) ComprehensiveDose(w http.ResponseWriter, r *http.Request) {
	var p dose.Params
	if err := decodeBody(r, &p); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, invalidJSON)
		return
	}
	if p.DrugName == "" {
		h.RespondWithError(w, http.StatusBadRequest, "İlaç adı gerekli")
		return
	}
	if err := h.validator.ValidateInput(p.DrugName); err != nil {
		h.badInput(w, r, err)
		return
	}
	patient := interfaces.PatientParams{
		Weight:          p.Weight,
		Age:             p.Age,
		Height:          p.Height,
		SerumCreatinine: p.SerumCreatinine,
	}
	if err := h.validator.ValidatePatient(patient); err != nil {
		h.badInput(w, r, err)
		return
	}

	h.RespondWithSuccess(w, true, dose.Comprehensive(p))
}
