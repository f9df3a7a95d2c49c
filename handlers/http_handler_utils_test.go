package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eczane/pharmacy-api/icd10"
	"github.com/eczane/pharmacy-api/interactions"
	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/pregnancy"
	"github.com/eczane/pharmacy-api/rxnorm"
	"github.com/eczane/pharmacy-api/titck"
	"github.com/go-chi/chi/v5"
)

// ============================================================================
// MOCK BUILDERS
// ============================================================================

// MockInteractionCheckerBuilder provides fluent interface for building mock checkers
type MockInteractionCheckerBuilder struct {
	mock *MockInteractionChecker
}

func NewMockInteractionCheckerBuilder() *MockInteractionCheckerBuilder {
	return &MockInteractionCheckerBuilder{
		mock: &MockInteractionChecker{
			alternatives: []string{},
			classes:      []string{},
		},
	}
}

func (b *MockInteractionCheckerBuilder) WithResult(result interactions.Result) *MockInteractionCheckerBuilder {
	b.mock.result = result
	return b
}

func (b *MockInteractionCheckerBuilder) WithAlternatives(alts ...string) *MockInteractionCheckerBuilder {
	b.mock.alternatives = alts
	return b
}

func (b *MockInteractionCheckerBuilder) WithClasses(classes ...string) *MockInteractionCheckerBuilder {
	b.mock.classes = classes
	return b
}

func (b *MockInteractionCheckerBuilder) Build() *MockInteractionChecker {
	return b.mock
}

// MockLabelServiceBuilder builds OpenFDA mocks
type MockLabelServiceBuilder struct {
	mock *MockLabelService
}

func NewMockLabelServiceBuilder() *MockLabelServiceBuilder {
	return &MockLabelServiceBuilder{mock: &MockLabelService{}}
}

func (b *MockLabelServiceBuilder) WithLabels(labels ...openfda.Label) *MockLabelServiceBuilder {
	b.mock.labels = labels
	return b
}

func (b *MockLabelServiceBuilder) WithRecalls(recalls ...openfda.Recall) *MockLabelServiceBuilder {
	b.mock.recalls = recalls
	return b
}

func (b *MockLabelServiceBuilder) WithEvents(events openfda.AdverseEvents) *MockLabelServiceBuilder {
	b.mock.events = events
	return b
}

// WithError makes every method fail with err
func (b *MockLabelServiceBuilder) WithError(err error) *MockLabelServiceBuilder {
	b.mock.err = err
	return b
}

func (b *MockLabelServiceBuilder) Build() *MockLabelService {
	return b.mock
}

// MockRxNormServiceBuilder builds RxNorm mocks
type MockRxNormServiceBuilder struct {
	mock *MockRxNormService
}

func NewMockRxNormServiceBuilder() *MockRxNormServiceBuilder {
	return &MockRxNormServiceBuilder{mock: &MockRxNormService{}}
}

func (b *MockRxNormServiceBuilder) WithConcept(c rxnorm.Concept) *MockRxNormServiceBuilder {
	b.mock.concept = c
	return b
}

func (b *MockRxNormServiceBuilder) WithList(list rxnorm.InteractionList) *MockRxNormServiceBuilder {
	b.mock.list = list
	return b
}

func (b *MockRxNormServiceBuilder) WithClasses(classes ...rxnorm.DrugClass) *MockRxNormServiceBuilder {
	b.mock.classes = classes
	return b
}

func (b *MockRxNormServiceBuilder) WithError(err error) *MockRxNormServiceBuilder {
	b.mock.err = err
	return b
}

func (b *MockRxNormServiceBuilder) Build() *MockRxNormService {
	return b.mock
}

// MockValidatorBuilder provides fluent interface for building mock validators
type MockValidatorBuilder struct {
	mock *MockValidator
}

func NewMockValidatorBuilder() *MockValidatorBuilder {
	return &MockValidatorBuilder{mock: &MockValidator{}}
}

// WithInputError makes every validation fail with err
func (b *MockValidatorBuilder) WithInputError(err error) *MockValidatorBuilder {
	b.mock.err = err
	return b
}

func (b *MockValidatorBuilder) Build() *MockValidator {
	return b.mock
}

// ============================================================================
// HTTP TEST UTILITIES
// ============================================================================

// HTTPTestHelper provides utilities for HTTP handler testing
type HTTPTestHelper struct {
	t *testing.T
}

func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{t: t}
}

// ExecuteRequest executes an HTTP handler with an optional JSON body and URL params
func (h *HTTPTestHelper) ExecuteRequest(handler http.HandlerFunc, method, path, body string, urlParams map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range urlParams {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// AssertJSONResponse asserts that response contains valid JSON with expected status
func (h *HTTPTestHelper) AssertJSONResponse(resp *httptest.ResponseRecorder, expectedStatus int, target any) {
	h.t.Helper()
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d: %s", expectedStatus, resp.Code, resp.Body.String())
	}

	if err := json.Unmarshal(resp.Body.Bytes(), target); err != nil {
		h.t.Errorf("Response should be valid JSON, got error: %v", err)
	}
}

// AssertSuccess decodes a 200 response and checks its "success" flag
func (h *HTTPTestHelper) AssertSuccess(resp *httptest.ResponseRecorder, expected bool) map[string]any {
	h.t.Helper()
	var response map[string]any
	h.AssertJSONResponse(resp, http.StatusOK, &response)
	if response["success"] != expected {
		h.t.Errorf("Expected success=%v, got %v: %s", expected, response["success"], resp.Body.String())
	}
	return response
}

// AssertErrorResponse asserts the error envelope, and its message when given
func (h *HTTPTestHelper) AssertErrorResponse(resp *httptest.ResponseRecorder, expectedStatus int, expectedMessage string) {
	h.t.Helper()
	var errorResp map[string]any
	h.AssertJSONResponse(resp, expectedStatus, &errorResp)

	if _, ok := errorResp["code"]; !ok {
		h.t.Error("Error response should have code field")
	}
	if expectedMessage != "" && errorResp["message"] != expectedMessage {
		h.t.Errorf("Expected message %q, got %v", expectedMessage, errorResp["message"])
	}
}

// ============================================================================
// MOCK IMPLEMENTATIONS
// ============================================================================

// MockInteractionChecker implements interfaces.InteractionChecker for testing
type MockInteractionChecker struct {
	result       interactions.Result
	alternatives []string
	classes      []string

	// Method call tracking
	checkCalls int
	lastNames  []string
}

func (m *MockInteractionChecker) Check(_ context.Context, names []string) interactions.Result {
	m.checkCalls++
	m.lastNames = names
	res := m.result
	if res.Drugs == nil {
		res.Drugs = names
	}
	return res
}

func (m *MockInteractionChecker) Alternatives(string) []string { return m.alternatives }
func (m *MockInteractionChecker) DrugClasses(string) []string  { return m.classes }

// MockPregnancyChecker answers every drug with the same category
type MockPregnancyChecker struct {
	category      string
	lastTrimester string
}

func (m *MockPregnancyChecker) Check(_ context.Context, drug, trimester string) pregnancy.Result {
	m.lastTrimester = trimester
	return pregnancy.Result{Found: true, DrugName: drug, Category: m.category, Trimester: trimester}
}

func (m *MockPregnancyChecker) CheckMany(ctx context.Context, drugs []string, trimester string) pregnancy.MultiResult {
	out := pregnancy.MultiResult{OverallRisk: "low"}
	for _, d := range drugs {
		out.Drugs = append(out.Drugs, m.Check(ctx, d, trimester))
	}
	return out
}

// MockLabelService implements interfaces.LabelService for testing
type MockLabelService struct {
	labels  []openfda.Label
	recalls []openfda.Recall
	events  openfda.AdverseEvents
	err     error

	searchCalls int
}

func (m *MockLabelService) SearchLabel(_ context.Context, _ string) ([]openfda.Label, error) {
	m.searchCalls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.labels) == 0 {
		return nil, openfda.ErrNotFound
	}
	return m.labels, nil
}

func (m *MockLabelService) InteractionText(_ context.Context, name string) (openfda.InteractionInfo, error) {
	if m.err != nil {
		return openfda.InteractionInfo{}, m.err
	}
	if len(m.labels) == 0 || m.labels[0].DrugInteractions == "" {
		return openfda.InteractionInfo{DrugName: name}, openfda.ErrNotFound
	}
	l := m.labels[0]
	return openfda.InteractionInfo{DrugName: l.GenericName, BrandName: l.BrandName, InteractionText: l.DrugInteractions, Source: "FDA Drug Label"}, nil
}

func (m *MockLabelService) PregnancyInfo(_ context.Context, _ string) (openfda.PregnancyInfo, error) {
	if m.err != nil {
		return openfda.PregnancyInfo{}, m.err
	}
	if len(m.labels) == 0 || m.labels[0].Pregnancy == "" {
		return openfda.PregnancyInfo{}, openfda.ErrNotFound
	}
	l := m.labels[0]
	return openfda.PregnancyInfo{DrugName: l.GenericName, Pregnancy: l.Pregnancy, Source: "FDA Drug Label"}, nil
}

func (m *MockLabelService) AdverseEvents(_ context.Context, _ string) (openfda.AdverseEvents, error) {
	if m.err != nil {
		return openfda.AdverseEvents{}, m.err
	}
	if len(m.events.Events) == 0 {
		return openfda.AdverseEvents{}, openfda.ErrNotFound
	}
	return m.events, nil
}

func (m *MockLabelService) Recalls(_ context.Context, _ string) ([]openfda.Recall, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.recalls) == 0 {
		return nil, openfda.ErrNotFound
	}
	return m.recalls, nil
}

// MockRxNormService implements interfaces.RxNormService for testing
type MockRxNormService struct {
	concept rxnorm.Concept
	list    rxnorm.InteractionList
	classes []rxnorm.DrugClass
	err     error
}

func (m *MockRxNormService) RxCUI(_ context.Context, _ string) (rxnorm.Concept, error) {
	if m.err != nil {
		return rxnorm.Concept{}, m.err
	}
	if m.concept.RxCUI == "" {
		return rxnorm.Concept{}, rxnorm.ErrNotFound
	}
	return m.concept, nil
}

func (m *MockRxNormService) CheckByNames(_ context.Context, _ []string) (rxnorm.InteractionList, error) {
	return m.list, m.err
}

func (m *MockRxNormService) DrugClasses(_ context.Context, _ string) ([]rxnorm.DrugClass, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.classes) == 0 {
		return nil, rxnorm.ErrNotFound
	}
	return m.classes, nil
}

// MockHealthChecker implements interfaces.HealthChecker for testing
type MockHealthChecker struct {
	status  string
	details map[string]any
	code    int
}

func (m *MockHealthChecker) HealthCheck(context.Context) (string, map[string]any, int) {
	return m.status, m.details, m.code
}

// MockValidator implements interfaces.InputValidator for testing
type MockValidator struct {
	err error
}

func (m *MockValidator) ValidateInput(string) error                     { return m.err }
func (m *MockValidator) ValidateDrugList([]string, int) error           { return m.err }
func (m *MockValidator) ValidateICD10Code(string) error                 { return m.err }
func (m *MockValidator) ValidateATCCode(string) error                   { return m.err }
func (m *MockValidator) ValidatePatient(interfaces.PatientParams) error { return m.err }
func (m *MockValidator) ValidateTrimester(string) error                 { return m.err }

func (m *MockValidator) ValidateRxCUI(string) (int, error) {
	if m.err != nil {
		return -1, m.err
	}
	return 1, nil
}

// testServices wires mocks for the upstream services and the real local lookups
func testServices() Services {
	return Services{
		Interactions: NewMockInteractionCheckerBuilder().Build(),
		Pregnancy:    &MockPregnancyChecker{category: "B"},
		Labels:       NewMockLabelServiceBuilder().Build(),
		RxNorm:       NewMockRxNormServiceBuilder().Build(),
		Diseases:     icd10.NewService(nil),
		Drugs:        titck.NewService(),
		Health:       &MockHealthChecker{status: "healthy", details: map[string]any{}, code: http.StatusOK},
	}
}

func newTestHandler(services Services, validator interfaces.InputValidator) *HTTPHandlerImpl {
	return NewHTTPHandler(services, validator).(*HTTPHandlerImpl)
}
