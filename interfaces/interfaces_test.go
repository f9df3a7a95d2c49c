package interfaces_test

import (
	"context"
	"errors"
	"testing"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/icd10"
	"github.com/eczane/pharmacy-api/interactions"
	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/openfda"
	"github.com/eczane/pharmacy-api/pregnancy"
	"github.com/eczane/pharmacy-api/rxnorm"
	"github.com/eczane/pharmacy-api/titck"
	"github.com/eczane/pharmacy-api/validation"
)

// The service packages cannot import interfaces, so their conformance is
// checked here.
var (
	_ interfaces.InteractionChecker = (*interactions.Engine)(nil)
	_ interfaces.CacheWarmer        = (*interactions.Engine)(nil)
	_ interfaces.PregnancyChecker   = (*pregnancy.Service)(nil)
	_ interfaces.LabelService       = (*openfda.Client)(nil)
	_ interfaces.RxNormService      = (*rxnorm.Client)(nil)
	_ interfaces.DiseaseLookup      = (*icd10.Service)(nil)
	_ interfaces.TurkishDrugLookup  = (*titck.Service)(nil)
	_ interfaces.Pinger             = (*rxnorm.Client)(nil)
	_ interfaces.Pinger             = (*openfda.Client)(nil)
	_ interfaces.Pinger             = cache.Store(nil)
)

// MockScheduler implements Scheduler interface for testing
type MockScheduler struct {
	started bool
	stopped bool
}

func (m *MockScheduler) Start() error {
	if m.started {
		return errors.New("already started")
	}
	m.started = true
	return nil
}

func (m *MockScheduler) Stop() {
	m.stopped = true
}

// MockHealthChecker implements HealthChecker interface for testing
type MockHealthChecker struct {
	status  string
	details map[string]any
	code    int
}

func (m *MockHealthChecker) HealthCheck(context.Context) (string, map[string]any, int) {
	return m.status, m.details, m.code
}

func TestSchedulerInterface(t *testing.T) {
	var s interfaces.Scheduler = &MockScheduler{}

	if err := s.Start(); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start should fail")
	}
	s.Stop()
	if !s.(*MockScheduler).stopped {
		t.Error("Stop was not recorded")
	}
}

func TestHealthCheckerInterface(t *testing.T) {
	var hc interfaces.HealthChecker = &MockHealthChecker{
		status:  "degraded",
		details: map[string]any{"cache": "memory"},
		code:    200,
	}

	status, details, code := hc.HealthCheck(context.Background())
	if status != "degraded" || details["cache"] != "memory" || code != 200 {
		t.Errorf("HealthCheck = %s %v %d", status, details, code)
	}
}

func TestLocalServicesThroughInterfaces(t *testing.T) {
	var diseases interfaces.DiseaseLookup = icd10.NewService(nil)
	if got := diseases.ByCode("I10"); !got.Found {
		t.Error("I10 should be found through DiseaseLookup")
	}

	var drugs interfaces.TurkishDrugLookup = titck.NewService()
	if got := drugs.Details("parol"); !got.Found {
		t.Error("Parol should be found through TurkishDrugLookup")
	}

	var checker interfaces.InteractionChecker = interactions.NewEngine(nil, interactions.LocalSource{})
	if got := checker.Check(context.Background(), []string{"warfarin", "aspirin"}); got.InteractionCount == 0 {
		t.Error("warfarin + aspirin should interact through InteractionChecker")
	}
}

func TestInputValidatorInterface(t *testing.T) {
	var v interfaces.InputValidator = validation.NewDataValidator()

	if err := v.ValidatePatient(interfaces.PatientParams{Weight: 70, Age: 50}); err != nil {
		t.Errorf("ValidatePatient: %v", err)
	}
	if err := v.ValidateDrugList([]string{"warfarin"}, 2); err == nil {
		t.Error("a single drug should not satisfy a minimum of two")
	}
}
