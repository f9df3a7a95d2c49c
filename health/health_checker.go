// Package health provides health checking functionality for the pharmacy API.
package health

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/eczane/pharmacy-api/cache"
	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/reference"
)

const cachePingTimeout = 2 * time.Second

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	store     cache.Store
	monitor   *UpstreamMonitor
	startTime time.Time
}

var _ interfaces.HealthChecker = (*HealthCheckerImpl)(nil)

// NewHealthChecker creates a health checker. Both arguments may be nil.
func NewHealthChecker(store cache.Store, monitor *UpstreamMonitor) *HealthCheckerImpl {
	if store == nil {
		store = cache.NopStore{}
	}
	return &HealthCheckerImpl{
		store:     store,
		monitor:   monitor,
		startTime: time.Now(),
	}
}

// HealthCheck returns the status used by the /health endpoint. The local
// tables answer every request on their own, so a lost cache or upstream only
// degrades the service.
func (h *HealthCheckerImpl) HealthCheck(ctx context.Context) (status string, data map[string]any, httpStatus int) {
	pediatric, renal, hepatic := reference.DoseTableSizes()
	tables := map[string]int{
		"interactionRules": reference.InteractionRuleCount(),
		"pregnancy":        reference.PregnancyEntryCount(),
		"icd10":            len(reference.ICD10Codes()),
		"titck":            len(reference.TurkishDrugs()),
		"pediatricDoses":   pediatric,
		"renalDoses":       renal,
		"hepaticDoses":     hepatic,
	}

	pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
	defer cancel()
	cacheErr := h.store.Ping(pingCtx)

	cacheInfo := map[string]any{
		"backend":   h.store.Backend(),
		"reachable": cacheErr == nil,
	}
	if cacheErr != nil {
		cacheInfo["error"] = cacheErr.Error()
	}

	upstreams := map[string]UpstreamStatus{}
	if h.monitor != nil {
		upstreams = h.monitor.Status()
	}

	switch {
	case tables["interactionRules"] == 0 || tables["icd10"] == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case cacheErr != nil || anyDown(upstreams):
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	uptime := time.Since(h.startTime)
	data = map[string]any{
		"tables":       tables,
		"cache":        cacheInfo,
		"upstreams":    upstreams,
		"uptime":       uptime.Round(time.Second).String(),
		"uptime_hours": math.Round(uptime.Hours()*10) / 10,
	}

	return status, data, httpStatus
}

func anyDown(statuses map[string]UpstreamStatus) bool {
	for _, s := range statuses {
		if s.Checked && !s.Up {
			return true
		}
	}
	return false
}
