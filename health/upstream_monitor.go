package health

import (
	"context"
	"sync"
	"time"

	"github.com/eczane/pharmacy-api/interfaces"
	"github.com/eczane/pharmacy-api/logging"
	"github.com/eczane/pharmacy-api/metrics"
)

// UpstreamStatus is the outcome of the last probe of one upstream
type UpstreamStatus struct {
	Up          bool      `json:"up"`
	Checked     bool      `json:"checked"`
	LastChecked time.Time `json:"lastChecked,omitzero"`
	Latency     string    `json:"latency,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// UpstreamMonitor keeps the reachability of the external drug APIs
type UpstreamMonitor struct {
	targets map[string]interfaces.Pinger
	timeout time.Duration

	mu       sync.RWMutex
	statuses map[string]UpstreamStatus
}

// NewUpstreamMonitor watches the given targets. Until the first Probe every
// target is reported as unchecked.
func NewUpstreamMonitor(targets map[string]interfaces.Pinger, timeout time.Duration) *UpstreamMonitor {
	statuses := make(map[string]UpstreamStatus, len(targets))
	for name := range targets {
		statuses[name] = UpstreamStatus{}
	}
	return &UpstreamMonitor{
		targets:  targets,
		timeout:  timeout,
		statuses: statuses,
	}
}

// Probe pings every target concurrently and records the results
func (m *UpstreamMonitor) Probe(ctx context.Context) {
	var wg sync.WaitGroup
	for name, target := range m.targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.record(name, m.ping(ctx, target))
		}()
	}
	wg.Wait()
}

func (m *UpstreamMonitor) ping(ctx context.Context, target interfaces.Pinger) UpstreamStatus {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	start := time.Now()
	err := target.Ping(ctx)
	status := UpstreamStatus{
		Up:          err == nil,
		Checked:     true,
		LastChecked: start,
		Latency:     time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func (m *UpstreamMonitor) record(name string, status UpstreamStatus) {
	m.mu.Lock()
	previous := m.statuses[name]
	m.statuses[name] = status
	m.mu.Unlock()

	if status.Up {
		metrics.UpstreamUp.WithLabelValues(name).Set(1)
	} else {
		metrics.UpstreamUp.WithLabelValues(name).Set(0)
	}

	switch {
	case !status.Up && (previous.Up || !previous.Checked):
		logging.Warn("Upstream unreachable", "upstream", name, "error", status.Error)
	case status.Up && previous.Checked && !previous.Up:
		logging.Info("Upstream reachable again", "upstream", name)
	}
}

// Status returns a snapshot of the last probe results
func (m *UpstreamMonitor) Status() map[string]UpstreamStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]UpstreamStatus, len(m.statuses))
	for name, s := range m.statuses {
		out[name] = s
	}
	return out
}
