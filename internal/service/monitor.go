package service

import (
	"context"
	"fmt"

	"github.com/orchids/voice-monitor/internal/config"
	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/pkg/logger"
)

// Monitor wires the sampler, aggregator, alert engine, health registry,
// dashboard, and scheduler into the single surface the rest of the platform
// talks to. Construct one per process and share it by reference.
type Monitor struct {
	sampler   *ResourceSampler
	metrics   *MetricsService
	alerts    *AlertService
	health    *HealthService
	dashboard *DashboardService
	scheduler *Scheduler
}

func NewMonitor(cfg *config.Config, log *logger.Logger) (*Monitor, error) {
	sampler := NewResourceSampler(cfg.Monitor.DiskPath)
	metrics := NewMetricsService()

	alerts, err := NewAlertService(DefaultRules(cfg.Thresholds), log)
	if err != nil {
		return nil, fmt.Errorf("build alert rules: %w", err)
	}

	health := NewHealthService(log)

	scheduler := NewScheduler(sampler, metrics, alerts, log)
	if cfg.Monitor.CollectInterval > 0 {
		scheduler.interval = cfg.Monitor.CollectInterval
	}

	return &Monitor{
		sampler:   sampler,
		metrics:   metrics,
		alerts:    alerts,
		health:    health,
		dashboard: NewDashboardService(sampler, metrics, alerts, health),
		scheduler: scheduler,
	}, nil
}

// Start begins periodic collection. Stop tears it down; both are safe to
// call once each during process lifecycle.
func (m *Monitor) Start() { m.scheduler.Start() }

func (m *Monitor) Stop() { m.scheduler.Stop() }

// Write entry points for collaborator services.

func (m *Monitor) RecordSessionStart() { m.metrics.RecordSessionStart() }

func (m *Monitor) RecordSessionEnd(ok bool) { m.metrics.RecordSessionEnd(ok) }

func (m *Monitor) RecordCall(ok bool, durationMs float64) {
	m.metrics.RecordCall(ok, durationMs)
}
func (m *Monitor) RecordAPIRequest(ok bool, responseTimeMs float64) {
	m.metrics.RecordAPIRequest(ok, responseTimeMs)
}
func (m *Monitor) RecordInferenceRequest(ok bool, responseTimeMs float64, tokens int64) {
	m.metrics.RecordInferenceRequest(ok, responseTimeMs, tokens)
}
func (m *Monitor) RecordError(kind, message, trace string) {
	m.metrics.RecordError(kind, message, trace)
}

// Operator surface.

func (m *Monitor) RegisterCheck(name string, probe domain.ProbeFunc) {
	m.health.Register(name, probe)
}

func (m *Monitor) HealthReport(ctx context.Context) domain.HealthReport {
	return m.health.RunAll(ctx)
}

func (m *Monitor) IsHealthy(ctx context.Context) bool {
	return m.health.IsHealthy(ctx)
}

func (m *Monitor) DashboardData(ctx context.Context) domain.DashboardData {
	return m.dashboard.Data(ctx)
}

func (m *Monitor) MetricsHistory(hours int) (domain.MetricsHistory, error) {
	return m.dashboard.History(hours)
}

func (m *Monitor) CreateAlert(kind string, severity domain.Severity, title, message string, metadata map[string]any) domain.Alert {
	return m.alerts.Create(kind, severity, title, message, metadata)
}

func (m *Monitor) ResolveAlert(id string) bool { return m.alerts.Resolve(id) }

func (m *Monitor) ActiveAlerts() []domain.Alert { return m.alerts.Active() }

func (m *Monitor) AllAlerts() []domain.Alert { return m.alerts.All() }

func (m *Monitor) AlertsBySeverity(severity domain.Severity) []domain.Alert {
	return m.alerts.BySeverity(severity)
}
