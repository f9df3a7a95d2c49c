package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/rxnorm"
	"github.com/eczane/pharmacy-api/validation"
)

var errUpstream = errors.New("connection refused")

func TestFDALabel(t *testing.T) {
	tests := []struct {
		name           string
		labels         *MockLabelService
		expectedStatus int
		success        bool
		message        string
	}{
		{
			name:           "found",
			labels:         NewMockLabelServiceBuilder().WithLabels(openfda.Label{BrandName: "Tylenol", GenericName: "acetaminophen"}).Build(),
			expectedStatus: http.StatusOK,
			success:        true,
		},
		{
			name:           "not found",
			labels:         NewMockLabelServiceBuilder().Build(),
			expectedStatus: http.StatusOK,
			message:        "İlaç bulunamadı",
		},
		{
			name:           "upstream down",
			labels:         NewMockLabelServiceBuilder().WithError(errUpstream).Build(),
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := testServices()
			services.Labels = tt.labels
			handler := newTestHandler(services, NewMockValidatorBuilder().Build())
			helper := NewHTTPTestHelper(t)

			rr := helper.ExecuteRequest(handler.FDALabel, "GET", "/api/pharmacy/fda/label/tylenol", "",
				map[string]string{"drug": "tylenol"})
			if tt.expectedStatus != http.StatusOK {
				helper.AssertErrorResponse(rr, tt.expectedStatus, "OpenFDA verisi alınamadı")
				return
			}

			resp := helper.AssertSuccess(rr, tt.success)
			if resp["found"] != tt.success {
				t.Errorf("found = %v", resp["found"])
			}
			if tt.success && (resp["count"] != float64(1) || resp["source"] != "OpenFDA") {
				t.Errorf("response = %v", resp)
			}
			if tt.message != "" && resp["message"] != tt.message {
				t.Errorf("message = %v", resp["message"])
			}
		})
	}
}

func TestFDAAdverseEvents(t *testing.T) {
	events := openfda.AdverseEvents{
		DrugName:     "ibuprofen",
		Events:       []openfda.AdverseEvent{{Reaction: "NAUSEA", Count: 120}},
		TotalReports: 120,
		Source:       "FDA Adverse Event Reporting System",
	}
	services := testServices()
	services.Labels = NewMockLabelServiceBuilder().WithEvents(events).Build()
	handler := newTestHandler(services, NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.FDAAdverseEvents, "GET", "/api/pharmacy/fda/adverse-events/ibuprofen", "",
		map[string]string{"drug": "ibuprofen"}), true)
	if list, _ := resp["adverseEvents"].([]any); len(list) != 1 || resp["totalReports"] != float64(120) {
		t.Errorf("response = %v", resp)
	}

	services.Labels = NewMockLabelServiceBuilder().Build()
	empty := newTestHandler(services, NewMockValidatorBuilder().Build())
	miss := helper.AssertSuccess(helper.ExecuteRequest(empty.FDAAdverseEvents, "GET", "/api/pharmacy/fda/adverse-events/xyz", "",
		map[string]string{"drug": "xyz"}), false)
	if miss["message"] != "Yan etki verisi bulunamadı" {
		t.Errorf("message = %v", miss["message"])
	}
}

func TestFDAInteractionsAndPregnancy(t *testing.T) {
	withText := NewMockLabelServiceBuilder().WithLabels(openfda.Label{
		GenericName:      "warfarin",
		DrugInteractions: "NSAIDs increase bleeding risk",
		Pregnancy:        "Contraindicated in pregnancy",
	}).Build()
	withoutText := NewMockLabelServiceBuilder().WithLabels(openfda.Label{GenericName: "water"}).Build()

	tests := []struct {
		name    string
		labels  *MockLabelService
		handler func(h *HTTPHandlerImpl) http.HandlerFunc
		success bool
		field   string
		want    string
	}{
		{"interactions found", withText, func(h *HTTPHandlerImpl) http.HandlerFunc { return h.FDAInteractions }, true, "interactionText", "NSAIDs increase bleeding risk"},
		{"interactions missing", withoutText, func(h *HTTPHandlerImpl) http.HandlerFunc { return h.FDAInteractions }, false, "message", "Etkileşim bilgisi bulunamadı"},
		{"pregnancy found", withText, func(h *HTTPHandlerImpl) http.HandlerFunc { return h.FDAPregnancy }, true, "pregnancy", "Contraindicated in pregnancy"},
		{"pregnancy missing", withoutText, func(h *HTTPHandlerImpl) http.HandlerFunc { return h.FDAPregnancy }, false, "message", "Hamilelik bilgisi bulunamadı"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := testServices()
			services.Labels = tt.labels
			handler := newTestHandler(services, NewMockValidatorBuilder().Build())
			helper := NewHTTPTestHelper(t)

			resp := helper.AssertSuccess(helper.ExecuteRequest(tt.handler(handler), "GET", "/", "", map[string]string{"drug": "warfarin"}), tt.success)
			if resp[tt.field] != tt.want {
				t.Errorf("%s = %v, want %q", tt.field, resp[tt.field], tt.want)
			}
		})
	}
}

func TestFDARecalls(t *testing.T) {
	services := testServices()
	services.Labels = NewMockLabelServiceBuilder().WithRecalls(openfda.Recall{RecallNumber: "D-0001-2024", Classification: "Class II"}).Build()
	handler := newTestHandler(services, NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.FDARecalls, "GET", "/api/pharmacy/fda/recalls/valsartan", "",
		map[string]string{"drug": "valsartan"}), true)
	if resp["drugName"] != "valsartan" || resp["source"] != "FDA Enforcement Reports" {
		t.Errorf("response = %v", resp)
	}

	services.Labels = NewMockLabelServiceBuilder().Build()
	miss := helper.AssertSuccess(helper.ExecuteRequest(newTestHandler(services, NewMockValidatorBuilder().Build()).FDARecalls,
		"GET", "/", "", map[string]string{"drug": "parol"}), false)
	if miss["message"] != "Geri çağırma kaydı yok" {
		t.Errorf("message = %v", miss["message"])
	}
}

func TestRxNormSearch(t *testing.T) {
	services := testServices()
	services.RxNorm = NewMockRxNormServiceBuilder().WithConcept(rxnorm.Concept{RxCUI: "1191", Name: "aspirin"}).Build()
	handler := newTestHandler(services, NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.RxNormSearch, "GET", "/api/pharmacy/rxnorm/search/aspirin", "",
		map[string]string{"drug": "aspirin"}), true)
	if resp["rxcui"] != "1191" || resp["name"] != "aspirin" {
		t.Errorf("response = %v", resp)
	}

	services.RxNorm = NewMockRxNormServiceBuilder().WithError(errUpstream).Build()
	down := helper.ExecuteRequest(newTestHandler(services, NewMockValidatorBuilder().Build()).RxNormSearch,
		"GET", "/", "", map[string]string{"drug": "aspirin"})
	helper.AssertErrorResponse(down, http.StatusBadGateway, "RxNorm verisi alınamadı")
}

func TestRxNormInteractions(t *testing.T) {
	tests := []struct {
		name    string
		rx      *MockRxNormService
		body    string
		status  int
		success bool
		check   func(t *testing.T, resp map[string]any)
	}{
		{
			name: "interactions found",
			rx: NewMockRxNormServiceBuilder().WithList(rxnorm.InteractionList{
				Interactions: []rxnorm.Interaction{{Severity: "high", Drug1: "warfarin", Drug2: "aspirin"}},
				CheckedDrugs: []string{"warfarin", "aspirin"},
				NotFound:     []string{},
			}).Build(),
			body:    `{"drugs":["warfarin","aspirin"]}`,
			status:  http.StatusOK,
			success: true,
			check: func(t *testing.T, resp map[string]any) {
				if list, _ := resp["interactions"].([]any); len(list) != 1 {
					t.Errorf("interactions = %v", resp["interactions"])
				}
				if _, ok := resp["message"]; ok {
					t.Error("no message expected when interactions exist")
				}
			},
		},
		{
			name: "no known interaction",
			rx: NewMockRxNormServiceBuilder().WithList(rxnorm.InteractionList{
				CheckedDrugs: []string{"parasetamol", "omeprazol"},
				NotFound:     []string{},
			}).Build(),
			body:    `{"drugs":["parasetamol","omeprazol"]}`,
			status:  http.StatusOK,
			success: true,
			check: func(t *testing.T, resp map[string]any) {
				if resp["message"] != "Bilinen etkileşim bulunamadı" {
					t.Errorf("message = %v", resp["message"])
				}
			},
		},
		{
			name: "insufficient drugs",
			rx: NewMockRxNormServiceBuilder().
				WithList(rxnorm.InteractionList{NotFound: []string{"xyz", "abc"}, CheckedDrugs: []string{}}).
				WithError(fmt.Errorf("%w (not found: xyz, abc)", rxnorm.ErrInsufficientDrugs)).
				Build(),
			body:    `{"drugs":["xyz","abc"]}`,
			status:  http.StatusOK,
			success: false,
			check: func(t *testing.T, resp map[string]any) {
				msg, _ := resp["message"].(string)
				if !strings.HasSuffix(msg, "Bulunamayan: xyz, abc") {
					t.Errorf("message = %q", msg)
				}
				if nf, _ := resp["notFound"].([]any); len(nf) != 2 {
					t.Errorf("notFound = %v", resp["notFound"])
				}
			},
		},
		{
			name:   "single drug",
			rx:     NewMockRxNormServiceBuilder().Build(),
			body:   `{"drugs":["warfarin"]}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "upstream down",
			rx:     NewMockRxNormServiceBuilder().WithError(errUpstream).Build(),
			body:   `{"drugs":["warfarin","aspirin"]}`,
			status: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := testServices()
			services.RxNorm = tt.rx
			handler := newTestHandler(services, NewMockValidatorBuilder().Build())
			helper := NewHTTPTestHelper(t)

			rr := helper.ExecuteRequest(handler.RxNormInteractions, "POST", "/api/pharmacy/rxnorm/interactions", tt.body, nil)
			if tt.status != http.StatusOK {
				helper.AssertErrorResponse(rr, tt.status, "")
				return
			}
			resp := helper.AssertSuccess(rr, tt.success)
			tt.check(t, resp)
		})
	}
}

func TestRxNormClass(t *testing.T) {
	services := testServices()
	services.RxNorm = NewMockRxNormServiceBuilder().WithClasses(rxnorm.DrugClass{ClassID: "N02BA", ClassName: "Salicylic acid and derivatives", ClassType: "ATC1-4"}).Build()
	handler := newTestHandler(services, validation.NewDataValidator())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.RxNormClass, "GET", "/api/pharmacy/rxnorm/class/1191", "",
		map[string]string{"rxcui": "1191"}), true)
	if resp["rxcui"] != "1191" || resp["source"] != "RxClass" {
		t.Errorf("response = %v", resp)
	}

	bad := helper.ExecuteRequest(handler.RxNormClass, "GET", "/api/pharmacy/rxnorm/class/abc", "", map[string]string{"rxcui": "abc"})
	helper.AssertErrorResponse(bad, http.StatusBadRequest, "")
}

func TestComprehensiveCheck(t *testing.T) {
	tests := []struct {
		name   string
		labels *MockLabelService
		rx     *MockRxNormService
		body   string
		check  func(t *testing.T, resp map[string]any, checker *MockInteractionChecker, labels *MockLabelService)
	}{
		{
			name:   "single drug skips pair checks",
			labels: NewMockLabelServiceBuilder().WithLabels(openfda.Label{GenericName: "ibuprofen"}).Build(),
			rx:     NewMockRxNormServiceBuilder().Build(),
			body:   `{"drugs":["ibuprofen"]}`,
			check: func(t *testing.T, resp map[string]any, checker *MockInteractionChecker, _ *MockLabelService) {
				if resp["localDatabase"] != nil || resp["rxNormInteractions"] != nil {
					t.Errorf("pair checks should be null: %v", resp)
				}
				fda, _ := resp["fdaData"].(map[string]any)
				if fda["found"] != true {
					t.Errorf("fdaData = %v", fda)
				}
				if checker.checkCalls != 0 {
					t.Error("engine should not run for one drug")
				}
			},
		},
		{
			name:   "upstream failures are reported inline",
			labels: NewMockLabelServiceBuilder().WithError(errUpstream).Build(),
			rx:     NewMockRxNormServiceBuilder().WithError(errUpstream).Build(),
			body:   `{"drugs":["warfarin","aspirin"]}`,
			check: func(t *testing.T, resp map[string]any, checker *MockInteractionChecker, _ *MockLabelService) {
				fda, _ := resp["fdaData"].(map[string]any)
				rx, _ := resp["rxNormInteractions"].(map[string]any)
				if fda["found"] != false || fda["error"] != "FDA bağlantı hatası" {
					t.Errorf("fdaData = %v", fda)
				}
				if rx["found"] != false || rx["error"] != "RxNorm bağlantı hatası" {
					t.Errorf("rxNormInteractions = %v", rx)
				}
				if resp["localDatabase"] == nil || checker.checkCalls != 1 {
					t.Error("local database check should still run")
				}
			},
		},
		{
			name:   "FDA lookup can be skipped",
			labels: NewMockLabelServiceBuilder().Build(),
			rx:     NewMockRxNormServiceBuilder().WithList(rxnorm.InteractionList{}).Build(),
			body:   `{"drugs":["warfarin","aspirin"],"includeFda":false}`,
			check: func(t *testing.T, resp map[string]any, _ *MockInteractionChecker, labels *MockLabelService) {
				if resp["fdaData"] != nil || labels.searchCalls != 0 {
					t.Errorf("fdaData = %v after %d calls", resp["fdaData"], labels.searchCalls)
				}
				if sources, _ := resp["sources"].([]any); len(sources) != 3 {
					t.Errorf("sources = %v", resp["sources"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewMockInteractionCheckerBuilder().Build()
			services := testServices()
			services.Interactions = checker
			services.Labels = tt.labels
			services.RxNorm = tt.rx
			handler := newTestHandler(services, NewMockValidatorBuilder().Build())
			helper := NewHTTPTestHelper(t)

			resp := helper.AssertSuccess(helper.ExecuteRequest(handler.ComprehensiveCheck, "POST", "/api/pharmacy/comprehensive-check", tt.body, nil), true)
			tt.check(t, resp, checker, tt.labels)
		})
	}

	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)
	helper.AssertErrorResponse(helper.ExecuteRequest(handler.ComprehensiveCheck, "POST", "/api/pharmacy/comprehensive-check", `{"drugs":[]}`, nil),
		http.StatusBadRequest, "En az 1 ilaç gerekli")
}
