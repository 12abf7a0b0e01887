package service

import (
	"sync"
	"time"

	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/internal/ringbuf"
)

// MetricsService owns the single live application counter set and the
// immutable snapshot history. Counters are cumulative for the process
// lifetime; Snapshot copies, it never resets.
type MetricsService struct {
	mu      sync.Mutex
	now     func() time.Time
	live    domain.ApplicationSnapshot
	recent  *ringbuf.Buffer[domain.ErrorEntry]
	history *ringbuf.Buffer[domain.ApplicationSnapshot]
}

func NewMetricsService() *MetricsService {
	return &MetricsService{
		now: time.Now,
		live: domain.ApplicationSnapshot{
			Errors: domain.ErrorCounters{CountByKind: make(map[string]int64)},
		},
		recent:  ringbuf.New[domain.ErrorEntry](domain.RecentErrorsCap),
		history: ringbuf.New[domain.ApplicationSnapshot](domain.ApplicationHistoryCap),
	}
}

func (m *MetricsService) RecordSessionStart() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live.Sessions.Active++
	m.live.Sessions.Total++
}

func (m *MetricsService) RecordSessionEnd(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live.Sessions.Active--
	if !success {
		m.live.Sessions.ExpiredCount++
	}
}

func (m *MetricsService) RecordCall(success bool, durationMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live.Calls.Total++
	if success {
		m.live.Calls.Successful++
	} else {
		m.live.Calls.Failed++
	}
	// The rolling average divides by the successful-call count but runs on
	// every call, failed ones included. Downstream dashboards were built
	// against this behavior; keep it.
	if n := m.live.Calls.Successful; n > 0 {
		m.live.Calls.AverageDurationMs = (m.live.Calls.AverageDurationMs*float64(n-1) + durationMs) / float64(n)
	}
}

func (m *MetricsService) RecordAPIRequest(success bool, responseTimeMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live.API.TotalRequests++
	if success {
		m.live.API.SuccessfulRequests++
	} else {
		m.live.API.FailedRequests++
	}
	n := m.live.API.TotalRequests
	m.live.API.AverageResponseTimeMs = (m.live.API.AverageResponseTimeMs*float64(n-1) + responseTimeMs) / float64(n)
}

func (m *MetricsService) RecordInferenceRequest(success bool, responseTimeMs float64, tokens int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live.Inference.TotalRequests++
	if success {
		m.live.Inference.SuccessfulRequests++
		m.live.Inference.TokensConsumed += tokens
	} else {
		m.live.Inference.FailedRequests++
	}
	n := m.live.Inference.TotalRequests
	m.live.Inference.AverageResponseTimeMs = (m.live.Inference.AverageResponseTimeMs*float64(n-1) + responseTimeMs) / float64(n)
}

func (m *MetricsService) RecordError(kind, message, trace string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live.Errors.Total++
	m.live.Errors.CountByKind[kind]++
	m.recent.Push(domain.ErrorEntry{
		Timestamp: m.now(),
		Kind:      kind,
		Message:   message,
		Trace:     trace,
	})
}

// Snapshot freezes the live counters into an immutable copy, appends it to
// the history buffer, and returns it.
func (m *MetricsService) Snapshot() domain.ApplicationSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.copyLiveLocked()
	m.history.Push(snap)
	return snap
}

// CurrentSnapshot copies the live counters without touching the history.
func (m *MetricsService) CurrentSnapshot() domain.ApplicationSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.copyLiveLocked()
}

func (m *MetricsService) History() []domain.ApplicationSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.history.Items()
}

func (m *MetricsService) copyLiveLocked() domain.ApplicationSnapshot {
	snap := m.live
	snap.Timestamp = m.now()
	snap.Errors.CountByKind = make(map[string]int64, len(m.live.Errors.CountByKind))
	for k, v := range m.live.Errors.CountByKind {
		snap.Errors.CountByKind[k] = v
	}
	snap.Errors.Recent = m.recent.Items()
	return snap
}
