package handlers

import (
	"net/http"
)

// ICD10Search matches a term against codes and disease names
func (h *HTTPHandlerImpl) ICD10Search(w http.ResponseWriter, r *http.Request) {
	query := urlParam(r, "query")
	if err := h.validator.ValidateInput(query); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.diseases.Search(r.Context(), query)
	h.RespondWithSuccess(w, res.Found, res)
}

func (h *HTTPHandlerImpl) ICD10ByCode(w http.ResponseWriter, r *http.Request) {
	code := urlParam(r, "code")
	if err := h.validator.ValidateICD10Code(code); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.diseases.ByCode(code)
	h.RespondWithSuccess(w, res.Found, res)
}

func (h *HTTPHandlerImpl) ICD10ByCategory(w http.ResponseWriter, r *http.Request) {
	category := urlParam(r, "category")
	if err := h.validator.ValidateInput(category); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.diseases.ByCategory(category)
	h.RespondWithSuccess(w, res.Found, res)
}

// ICD10Categories lists the disease categories
func (h *HTTPHandlerImpl) ICD10Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.diseases.Categories()
	h.RespondWithSuccess(w, true, map[string]any{"categories": categories, "count": len(categories)})
}

// ICD10Drugs lists the usual drugs for a diagnosis
func (h *HTTPHandlerImpl) ICD10Drugs(w http.ResponseWriter, r *http.Request) {
	code := urlParam(r, "code")
	if err := h.validator.ValidateICD10Code(code); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.diseases.DrugsForDisease(code)
	h.RespondWithSuccess(w, res.Found, res)
}

// TITCKSearch searches the Turkish drug registry
func (h *HTTPHandlerImpl) TITCKSearch(w http.ResponseWriter, r *http.Request) {
	query := urlParam(r, "query")
	if err := h.validator.ValidateInput(query); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.drugs.Search(query)
	h.RespondWithSuccess(w, res.Found, res)
}

func (h *HTTPHandlerImpl) TITCKDrug(w http.ResponseWriter, r *http.Request) {
	name := urlParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.drugs.Details(name)
	h.RespondWithSuccess(w, res.Found, res)
}

func (h *HTTPHandlerImpl) TITCKWarnings(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.drugs.Warnings(drug)
	h.RespondWithSuccess(w, res.Found, res)
}

// TITCKOTC lists the drugs sold without prescription
func (h *HTTPHandlerImpl) TITCKOTC(w http.ResponseWriter, r *http.Request) {
	res := h.drugs.ListByPrescription(false)
	h.RespondWithSuccess(w, res.Found, res)
}

func (h *HTTPHandlerImpl) TITCKReimbursed(w http.ResponseWriter, r *http.Request) {
	res := h.drugs.ListReimbursed()
	h.RespondWithSuccess(w, res.Found, res)
}

func (h *HTTPHandlerImpl) TITCKByATC(w http.ResponseWriter, r *http.Request) {
	code := urlParam(r, "code")
	if err := h.validator.ValidateATCCode(code); err != nil {
		h.badInput(w, r, err)
		return
	}

	res := h.drugs.SearchByATC(code)
	h.RespondWithSuccess(w, res.Found, res)
}
