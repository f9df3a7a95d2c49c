package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eczane/pharmacy-api/interactions"
	"github.com/eczane/pharmacy-api/validation"
)

// ============================================================================
// CORE HANDLER TESTS
// ============================================================================

func TestNewHTTPHandler(t *testing.T) {
	tests := []struct {
		name     string
		services Services
	}{
		{"all services", testServices()},
		{"no services", Services{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if handler := NewHTTPHandler(tt.services, NewMockValidatorBuilder().Build()); handler == nil {
				t.Fatal("Handler should not be nil")
			}
		})
	}
}

func TestRespondWithJSON(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())

	rr := httptest.NewRecorder()
	handler.RespondWithJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rr.Header().Get("Last-Modified") == "" {
		t.Error("Last-Modified header should be set")
	}
	if body := rr.Body.String(); body != `{"message":"ok"}` {
		t.Errorf("body = %s", body)
	}

	bad := httptest.NewRecorder()
	handler.RespondWithJSON(bad, http.StatusOK, make(chan int))
	if bad.Code != http.StatusInternalServerError {
		t.Errorf("unmarshalable payload should give 500, got %d", bad.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	rr := httptest.NewRecorder()
	handler.RespondWithError(rr, http.StatusBadRequest, "En az 2 ilaç gerekli")
	helper.AssertErrorResponse(rr, http.StatusBadRequest, "En az 2 ilaç gerekli")
	if !strings.Contains(rr.Body.String(), `"error":"Bad Request"`) {
		t.Errorf("error field missing: %s", rr.Body.String())
	}
}

func TestRespondWithSuccess(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())

	tests := []struct {
		name     string
		success  bool
		payload  any
		expected string
		code     int
	}{
		{
			name:    "object payload",
			success: true,
			payload: struct {
				Found bool `json:"found"`
				Count int  `json:"count"`
			}{true, 2},
			expected: `{"success":true,"found":true,"count":2}`,
			code:     http.StatusOK,
		},
		{
			name:     "empty object",
			success:  false,
			payload:  map[string]any{},
			expected: `{"success":false}`,
			code:     http.StatusOK,
		},
		{
			name:    "array payload",
			success: true,
			payload: []int{1, 2},
			code:    http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.RespondWithSuccess(rr, tt.success, tt.payload)
			if rr.Code != tt.code {
				t.Fatalf("Expected status %d, got %d", tt.code, rr.Code)
			}
			if tt.expected != "" && rr.Body.String() != tt.expected {
				t.Errorf("body = %s, want %s", rr.Body.String(), tt.expected)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	services := testServices()
	services.Health = &MockHealthChecker{
		status:  "unhealthy",
		details: map[string]any{"cache": "redis unreachable"},
		code:    http.StatusServiceUnavailable,
	}
	handler := newTestHandler(services, NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	var resp HealthResponse
	helper.AssertJSONResponse(helper.ExecuteRequest(handler.HealthCheck, "GET", "/health", "", nil), http.StatusServiceUnavailable, &resp)
	if resp.Status != "unhealthy" || resp.Data["cache"] != "redis unreachable" {
		t.Errorf("health response = %+v", resp)
	}
}

// ============================================================================
// INTERACTION TESTS
// ============================================================================

func TestCheckInteractions(t *testing.T) {
	result := interactions.Result{
		Interactions:     []interactions.Record{{Pair: [2]string{"warfarin", "aspirin"}, Severity: "major", Mechanism: "Kanama riski"}},
		OverallRisk:      interactions.RiskHigh,
		InteractionCount: 1,
		Source:           interactions.SourceLocal,
	}

	tests := []struct {
		name           string
		body           string
		validatorErr   error
		expectedStatus int
		expectedMsg    string
	}{
		{"valid pair", `{"drugs":["warfarin","aspirin"]}`, nil, http.StatusOK, ""},
		{"single drug", `{"drugs":["warfarin"]}`, nil, http.StatusBadRequest, "En az 2 ilaç gerekli"},
		{"empty body", ``, nil, http.StatusBadRequest, "En az 2 ilaç gerekli"},
		{"malformed JSON", `{"drugs":`, nil, http.StatusBadRequest, invalidJSON},
		{"rejected name", `{"drugs":["warfarin","<script>"]}`, validation.ErrInvalidInput, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewMockInteractionCheckerBuilder().WithResult(result).Build()
			services := testServices()
			services.Interactions = checker
			handler := newTestHandler(services, NewMockValidatorBuilder().WithInputError(tt.validatorErr).Build())
			helper := NewHTTPTestHelper(t)

			rr := helper.ExecuteRequest(handler.CheckInteractions, "POST", "/api/pharmacy/interactions", tt.body, nil)
			if tt.expectedStatus != http.StatusOK {
				helper.AssertErrorResponse(rr, tt.expectedStatus, tt.expectedMsg)
				if checker.checkCalls != 0 {
					t.Error("Check should not run for a rejected request")
				}
				return
			}

			resp := helper.AssertSuccess(rr, true)
			if resp["interactionCount"] != float64(1) || resp["overallRisk"] != "high" {
				t.Errorf("response = %v", resp)
			}
			if _, ok := resp["context"]; ok {
				t.Error("context should only be present on request")
			}
		})
	}
}

func TestCheckInteractionsWithContext(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	rr := helper.ExecuteRequest(handler.CheckInteractions, "POST", "/api/pharmacy/interactions",
		`{"drugs":["warfarin","aspirin"],"includeContext":true}`, nil)
	resp := helper.AssertSuccess(rr, true)
	ctx, _ := resp["context"].(string)
	if !strings.Contains(ctx, "İlaç Listesi: warfarin, aspirin") {
		t.Errorf("context = %q", ctx)
	}
}

func TestAlternatives(t *testing.T) {
	services := testServices()
	services.Interactions = NewMockInteractionCheckerBuilder().
		WithAlternatives("parasetamol").
		WithClasses("nsaid").
		Build()
	handler := newTestHandler(services, NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	rr := helper.ExecuteRequest(handler.Alternatives, "GET", "/api/pharmacy/alternatives/%C4%B0buprofen", "",
		map[string]string{"drug": "%C4%B0buprofen"})
	resp := helper.AssertSuccess(rr, true)

	if resp["drug"] != "İbuprofen" {
		t.Errorf("drug = %v, want the unescaped name", resp["drug"])
	}
	if resp["hasAlternatives"] != true {
		t.Errorf("hasAlternatives = %v", resp["hasAlternatives"])
	}
	if classes, _ := resp["drugClasses"].([]any); len(classes) != 1 {
		t.Errorf("drugClasses = %v", resp["drugClasses"])
	}
}

// ============================================================================
// PREGNANCY TESTS
// ============================================================================

func TestPregnancySafety(t *testing.T) {
	preg := &MockPregnancyChecker{category: "D"}
	services := testServices()
	services.Pregnancy = preg
	handler := newTestHandler(services, validation.NewDataValidator())
	helper := NewHTTPTestHelper(t)

	rr := helper.ExecuteRequest(handler.PregnancySafety, "GET", "/api/pharmacy/pregnancy/ibuprofen?trimester=3", "",
		map[string]string{"drug": "ibuprofen"})
	resp := helper.AssertSuccess(rr, true)
	if resp["category"] != "D" || preg.lastTrimester != "3" {
		t.Errorf("response = %v, trimester %q", resp, preg.lastTrimester)
	}

	bad := helper.ExecuteRequest(handler.PregnancySafety, "GET", "/api/pharmacy/pregnancy/ibuprofen?trimester=5", "",
		map[string]string{"drug": "ibuprofen"})
	helper.AssertErrorResponse(bad, http.StatusBadRequest, "")
}

func TestPregnancySafetyMany(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	rr := helper.ExecuteRequest(handler.PregnancySafetyMany, "POST", "/api/pharmacy/pregnancy",
		`{"drugs":["parasetamol","metformin"],"trimester":"2"}`, nil)
	resp := helper.AssertSuccess(rr, true)
	if drugs, _ := resp["drugs"].([]any); len(drugs) != 2 {
		t.Errorf("drugs = %v", resp["drugs"])
	}

	empty := helper.ExecuteRequest(handler.PregnancySafetyMany, "POST", "/api/pharmacy/pregnancy", `{"drugs":[]}`, nil)
	helper.AssertErrorResponse(empty, http.StatusBadRequest, "En az 1 ilaç gerekli")
}

func TestPregnancyCategories(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.PregnancyCategories, "GET", "/api/pharmacy/pregnancy-categories", "", nil), true)
	categories, _ := resp["categories"].(map[string]any)
	for _, c := range []string{"A", "B", "C", "D", "X"} {
		if _, ok := categories[c]; !ok {
			t.Errorf("category %s missing", c)
		}
	}
}

// ============================================================================
// DOSE TESTS
// ============================================================================

func TestPediatricDose(t *testing.T) {
	handler := newTestHandler(testServices(), validation.NewDataValidator())
	helper := NewHTTPTestHelper(t)

	rr := helper.ExecuteRequest(handler.PediatricDose, "POST", "/api/pharmacy/dose/pediatric",
		`{"drug":"parasetamol","weight":20,"ageYears":6,"adultDose":500}`, nil)
	resp := helper.AssertSuccess(rr, true)
	if resp["found"] != true || resp["calculatedDose"] != float64(300) {
		t.Errorf("response = %v", resp)
	}
	est, _ := resp["estimates"].(map[string]any)
	if est["young"] != 166.7 || est["clark"] != 142.9 || est["fried"] != float64(240) {
		t.Errorf("estimates = %v", est)
	}

	noAdult := helper.AssertSuccess(helper.ExecuteRequest(handler.PediatricDose, "POST", "/api/pharmacy/dose/pediatric",
		`{"drug":"ibuprofen","weight":12}`, nil), true)
	if _, ok := noAdult["estimates"]; ok {
		t.Error("estimates need an adult dose")
	}

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing weight", `{"drug":"parasetamol"}`, "İlaç adı ve vücut ağırlığı gerekli"},
		{"missing drug", `{"weight":20}`, "İlaç adı ve vücut ağırlığı gerekli"},
		{"implausible weight", `{"drug":"parasetamol","weight":900}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := helper.ExecuteRequest(handler.PediatricDose, "POST", "/api/pharmacy/dose/pediatric", tt.body, nil)
			helper.AssertErrorResponse(rr, http.StatusBadRequest, tt.msg)
		})
	}
}

func TestRenalDose(t *testing.T) {
	handler := newTestHandler(testServices(), validation.NewDataValidator())
	helper := NewHTTPTestHelper(t)

	computed := helper.AssertSuccess(helper.ExecuteRequest(handler.RenalDose, "POST", "/api/pharmacy/dose/renal",
		`{"drug":"metformin","age":70,"weight":60,"serumCreatinine":1.5}`, nil), true)
	if computed["calculatedCrCl"] != float64(39) || computed["gfr"] != float64(39) {
		t.Errorf("computed response = %v", computed)
	}

	given := helper.AssertSuccess(helper.ExecuteRequest(handler.RenalDose, "POST", "/api/pharmacy/dose/renal",
		`{"drug":"metformin","crCl":25}`, nil), true)
	if _, ok := given["calculatedCrCl"]; ok || given["found"] != true {
		t.Errorf("given response = %v", given)
	}

	missing := helper.ExecuteRequest(handler.RenalDose, "POST", "/api/pharmacy/dose/renal", `{"drug":"metformin","age":70}`, nil)
	helper.AssertErrorResponse(missing, http.StatusBadRequest, "İlaç adı ve CrCl değeri (veya hesaplama parametreleri) gerekli")
}

func TestHepaticDose(t *testing.T) {
	handler := newTestHandler(testServices(), validation.NewDataValidator())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.HepaticDose, "POST", "/api/pharmacy/dose/hepatic",
		`{"drug":"metformin","childPughClass":"b (7-9 puan)"}`, nil), true)
	if resp["found"] != true || resp["recommendation"] != "Dikkatli" {
		t.Errorf("response = %v", resp)
	}

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing class", `{"drug":"metformin"}`, "İlaç adı ve Child-Pugh sınıfı gerekli"},
		{"unknown class", `{"drug":"metformin","childPughClass":"D"}`, "Geçersiz Child-Pugh sınıfı: D (A, B veya C olmalı)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := helper.ExecuteRequest(handler.HepaticDose, "POST", "/api/pharmacy/dose/hepatic", tt.body, nil)
			helper.AssertErrorResponse(rr, http.StatusBadRequest, tt.msg)
		})
	}
}

func TestComprehensiveDose(t *testing.T) {
	handler := newTestHandler(testServices(), validation.NewDataValidator())
	helper := NewHTTPTestHelper(t)

	resp := helper.AssertSuccess(helper.ExecuteRequest(handler.ComprehensiveDose, "POST", "/api/pharmacy/dose/comprehensive",
		`{"drugName":"metformin","age":60,"weight":80,"height":180,"serumCreatinine":1.0}`, nil), true)
	calc, _ := resp["calculations"].(map[string]any)
	for _, key := range []string{"eGFR", "crCl", "renal", "bsa"} {
		if _, ok := calc[key]; !ok {
			t.Errorf("calculation %s missing: %v", key, calc)
		}
	}
	if _, ok := calc["pediatric"]; ok {
		t.Error("pediatric needs isPediatric")
	}

	helper.AssertErrorResponse(helper.ExecuteRequest(handler.ComprehensiveDose, "POST", "/api/pharmacy/dose/comprehensive",
		`{"age":60}`, nil), http.StatusBadRequest, "İlaç adı gerekli")
	helper.AssertErrorResponse(helper.ExecuteRequest(handler.ComprehensiveDose, "POST", "/api/pharmacy/dose/comprehensive",
		`{"drugName":"metformin","age":-3}`, nil), http.StatusBadRequest, "")
}

func TestDecodeBodyRejectsWrongTypes(t *testing.T) {
	handler := newTestHandler(testServices(), NewMockValidatorBuilder().Build())
	helper := NewHTTPTestHelper(t)

	rr := helper.ExecuteRequest(handler.RenalDose, "POST", "/api/pharmacy/dose/renal", `{"drug":"metformin","crCl":"yüksek"}`, nil)
	helper.AssertErrorResponse(rr, http.StatusBadRequest, invalidJSON)
}
