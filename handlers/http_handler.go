// Package handlers provides the HTTP handlers of the pharmacy API endpoints.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/go-chi/chi/v5"
)

// Services groups the lookups the handlers depend on
type Services struct {
	Interactions interfaces.InteractionChecker
	Pregnancy    interfaces.PregnancyChecker
	Labels       interfaces.LabelService
	RxNorm       interfaces.RxNormService
	Diseases     interfaces.DiseaseLookup
	Drugs        interfaces.TurkishDrugLookup
	Health       interfaces.HealthChecker
}

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	interactions interfaces.InteractionChecker
	pregnancy    interfaces.PregnancyChecker
	labels       interfaces.LabelService
	rxnorm       interfaces.RxNormService
	diseases     interfaces.DiseaseLookup
	drugs        interfaces.TurkishDrugLookup
	health       interfaces.HealthChecker
	validator    interfaces.InputValidator
}

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(services Services, validator interfaces.InputValidator) interfaces.HTTPHandler {
	return &HTTPHandlerImpl{
		interactions: services.Interactions,
		pregnancy:    services.Pregnancy,
		labels:       services.Labels,
		rxnorm:       services.RxNorm,
		diseases:     services.Diseases,
		drugs:        services.Drugs,
		health:       services.Health,
		validator:    validator,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// RespondWithSuccess writes payload with a leading "success" field. The
// payload must marshal to a JSON object without its own "success" key.
func (h *HTTPHandlerImpl) RespondWithSuccess(w http.ResponseWriter, success bool, payload any) {
	body, err := json.Marshal(payload)
	if err != nil || len(body) < 2 || body[0] != '{' {
		logging.Error("Response payload is not a JSON object", "error", err)
		h.RespondWithError(w, http.StatusInternalServerError, "Yanıt oluşturulamadı")
		return
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + 16)
	fmt.Fprintf(&buf, `{"success":%t`, success)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	h.RespondWithJSON(w, http.StatusOK, json.RawMessage(buf.Bytes()))
}

// decodeBody reads a JSON request body into dst. An empty body leaves dst
// untouched so the field checks of the caller report what is missing.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// urlParam returns a path parameter, unescaping Turkish characters chi may
// leave percent-encoded
func urlParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

// badInput logs rejected input and answers 400
func (h *HTTPHandlerImpl) badInput(w http.ResponseWriter, r *http.Request, err error) {
	logging.Warn("Unusual user input", "path", r.URL.Path, "error", err)
	h.RespondWithError(w, http.StatusBadRequest, err.Error())
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

// HealthCheck reports the service status
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.health == nil {
		h.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Data: map[string]any{}})
		return
	}
	status, details, code := h.health.HealthCheck(r.Context())
	h.RespondWithJSON(w, code, HealthResponse{Status: status, Data: details})
}
