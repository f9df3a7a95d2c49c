package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/rxnorm"
)

type labelPayload struct {
	Found   bool            `json:"found"`
	Count   int             `json:"count,omitempty"`
	Drugs   []openfda.Label `json:"drugs,omitempty"`
	Source  string          `json:"source,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// labelResult maps a label search to its payload. The flag reports an
// upstream failure the caller has to surface.
func labelResult(labels []openfda.Label, err error) (labelPayload, bool) {
	switch {
	case errors.Is(err, openfda.ErrNotFound):
		return labelPayload{Message: "İlaç bulunamadı"}, false
	case err != nil:
		return labelPayload{}, true
	}
	return labelPayload{Found: true, Count: len(labels), Drugs: labels, Source: "OpenFDA"}, false
}

type rxInteractionPayload struct {
	Found bool `json:"found"`
	rxnorm.InteractionList
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func rxInteractionResult(list rxnorm.InteractionList, err error) (rxInteractionPayload, bool) {
	switch {
	case errors.Is(err, rxnorm.ErrInsufficientDrugs):
		return rxInteractionPayload{
			InteractionList: rxnorm.InteractionList{NotFound: list.NotFound, CheckedDrugs: list.CheckedDrugs},
			Message:         "Yeterli ilaç bulunamadı. Bulunamayan: " + strings.Join(list.NotFound, ", "),
		}, false
	case err != nil:
		return rxInteractionPayload{}, true
	}
	p := rxInteractionPayload{Found: true, InteractionList: list}
	if len(list.Interactions) == 0 {
		p.Message = "Bilinen etkileşim bulunamadı"
	}
	return p, false
}

// notFound answers a miss of an upstream lookup
func (h *HTTPHandlerImpl) notFound(w http.ResponseWriter, message string) {
	h.RespondWithSuccess(w, false, map[string]any{"found": false, "message": message})
}

// upstreamFailed answers 502 for a transport or decode failure
func (h *HTTPHandlerImpl) upstreamFailed(w http.ResponseWriter, r *http.Request, upstream string, err error) {
	logging.Error("Upstream request failed", "upstream", upstream, "path", r.URL.Path, "error", err)
	h.RespondWithError(w, http.StatusBadGateway, upstream+" verisi alınamadı")
}

// FDALabel searches drug labels by generic or brand name
func (h *HTTPHandlerImpl) FDALabel(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	labels, err := h.labels.SearchLabel(r.Context(), drug)
	payload, transportErr := labelResult(labels, err)
	if transportErr {
		h.upstreamFailed(w, r, "OpenFDA", err)
		return
	}
	h.RespondWithSuccess(w, payload.Found, payload)
}

type adverseEventsPayload struct {
	Found bool `json:"found"`
	openfda.AdverseEvents
}

func (h *HTTPHandlerImpl) FDAAdverseEvents(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	events, err := h.labels.AdverseEvents(r.Context(), drug)
	switch {
	case errors.Is(err, openfda.ErrNotFound):
		h.notFound(w, "Yan etki verisi bulunamadı")
	case err != nil:
		h.upstreamFailed(w, r, "OpenFDA", err)
	default:
		h.RespondWithSuccess(w, true, adverseEventsPayload{Found: true, AdverseEvents: events})
	}
}

type interactionTextPayload struct {
	Found bool `json:"found"`
	openfda.InteractionInfo
}

func (h *HTTPHandlerImpl) FDAInteractions(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	info, err := h.labels.InteractionText(r.Context(), drug)
	switch {
	case errors.Is(err, openfda.ErrNotFound):
		h.notFound(w, "Etkileşim bilgisi bulunamadı")
	case err != nil:
		h.upstreamFailed(w, r, "OpenFDA", err)
	default:
		h.RespondWithSuccess(w, true, interactionTextPayload{Found: true, InteractionInfo: info})
	}
}

type pregnancyLabelPayload struct {
	Found bool `json:"found"`
	openfda.PregnancyInfo
}

func (h *HTTPHandlerImpl) FDAPregnancy(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	info, err := h.labels.PregnancyInfo(r.Context(), drug)
	switch {
	case errors.Is(err, openfda.ErrNotFound):
		h.notFound(w, "Hamilelik bilgisi bulunamadı")
	case err != nil:
		h.upstreamFailed(w, r, "OpenFDA", err)
	default:
		h.RespondWithSuccess(w, true, pregnancyLabelPayload{Found: true, PregnancyInfo: info})
	}
}

type recallsPayload struct {
	Found    bool             `json:"found"`
	DrugName string           `json:"drugName"`
	Recalls  []openfda.Recall `json:"recalls"`
	Source   string           `json:"source"`
}

// FDARecalls lists enforcement reports for a drug
func (h *HTTPHandlerImpl) FDARecalls(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	recalls, err := h.labels.Recalls(r.Context(), drug)
	switch {
	case errors.Is(err, openfda.ErrNotFound):
		h.notFound(w, "Geri çağırma kaydı yok")
	case err != nil:
		h.upstreamFailed(w, r, "OpenFDA", err)
	default:
		h.RespondWithSuccess(w, true, recallsPayload{
			Found:    true,
			DrugName: drug,
			Recalls:  recalls,
			Source:   "FDA Enforcement Reports",
		})
	}
}

type conceptPayload struct {
	Found bool `json:"found"`
	rxnorm.Concept
}

// RxNormSearch resolves a drug name to its RxCUI
func (h *HTTPHandlerImpl) RxNormSearch(w http.ResponseWriter, r *http.Request) {
	drug := urlParam(r, "drug")
	if err := h.validator.ValidateInput(drug); err != nil {
		h.badInput(w, r, err)
		return
	}

	concept, err := h.rxnorm.RxCUI(r.Context(), drug)
	switch {
	case errors.Is(err, rxnorm.ErrNotFound):
		h.notFound(w, "RxNorm kaydı bulunamadı")
	case err != nil:
		h.upstreamFailed(w, r, "RxNorm", err)
	default:
		h.RespondWithSuccess(w, true, conceptPayload{Found: true, Concept: concept})
	}
}

// RxNormInteractions checks a drug list against the RxNav interaction API
func (h *HTTPHandlerImpl) RxNormInteractions(w http.ResponseWriter, r *http.Request) {
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

	list, err := h.rxnorm.CheckByNames(r.Context(), req.Drugs)
	payload, transportErr := rxInteractionResult(list, err)
	if transportErr {
		h.upstreamFailed(w, r, "RxNorm", err)
		return
	}
	h.RespondWithSuccess(w, payload.Found, payload)
}

type classesPayload struct {
	Found   bool               `json:"found"`
	RxCUI   string             `json:"rxcui"`
	Classes []rxnorm.DrugClass `json:"classes"`
	Source  string             `json:"source"`
}

// RxNormClass lists the RxClass classes of a concept
func (h *HTTPHandlerImpl) RxNormClass(w http.ResponseWriter, r *http.Request) {
	rxcui := urlParam(r, "rxcui")
	if _, err := h.validator.ValidateRxCUI(rxcui); err != nil {
		h.badInput(w, r, err)
		return
	}

	classes, err := h.rxnorm.DrugClasses(r.Context(), rxcui)
	switch {
	case errors.Is(err, rxnorm.ErrNotFound):
		h.notFound(w, "Sınıf bilgisi bulunamadı")
	case err != nil:
		h.upstreamFailed(w, r, "RxNorm", err)
	default:
		h.RespondWithSuccess(w, true, classesPayload{Found: true, RxCUI: rxcui, Classes: classes, Source: "RxClass"})
	}
}
