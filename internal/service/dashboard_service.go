package service

import (
	"context"
	"fmt"
	"time"

	"github.com/orchids/voice-monitor/internal/domain"
)

// DashboardService composes the other components into a single read-only
// operator view. It owns no state of its own.
type DashboardService struct {
	sampler   *ResourceSampler
	metrics   *MetricsService
	alerts    *AlertService
	health    *HealthService
	now       func() time.Time
	startedAt time.Time
}

func NewDashboardService(sampler *ResourceSampler, metrics *MetricsService, alerts *AlertService, health *HealthService) *DashboardService {
	return &DashboardService{
		sampler:   sampler,
		metrics:   metrics,
		alerts:    alerts,
		health:    health,
		now:       time.Now,
		startedAt: time.Now(),
	}
}

// Data gathers the latest resource sample (nil before the first collection),
// the current application counters, unresolved alerts, a fresh health report,
// and process uptime.
func (s *DashboardService) Data(ctx context.Context) domain.DashboardData {
	now := s.now()
	data := domain.DashboardData{
		Timestamp:     now,
		Application:   s.metrics.CurrentSnapshot(),
		ActiveAlerts:  s.alerts.Active(),
		Health:        s.health.RunAll(ctx),
		UptimeSeconds: now.Sub(s.startedAt).Seconds(),
	}
	if sample, ok := s.sampler.Latest(); ok {
		data.Resources = &sample
	}
	return data
}

// History returns both history buffers filtered to entries stamped at or
// after now minus the requested number of hours, oldest first.
func (s *DashboardService) History(hours int) (domain.MetricsHistory, error) {
	if hours <= 0 {
		return domain.MetricsHistory{}, fmt.Errorf("%w: %d", domain.ErrInvalidHours, hours)
	}
	cutoff := s.now().Add(-time.Duration(hours) * time.Hour)

	out := domain.MetricsHistory{From: cutoff, Hours: hours}
	for _, sample := range s.sampler.History() {
		if !sample.Timestamp.Before(cutoff) {
			out.Resources = append(out.Resources, sample)
		}
	}
	for _, snap := range s.metrics.History() {
		if !snap.Timestamp.Before(cutoff) {
			out.Application = append(out.Application, snap)
		}
	}
	return out, nil
}
