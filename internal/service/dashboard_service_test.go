package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orchids/voice-monitor/internal/domain"
)

func newDashboardFixture(t *testing.T) (*DashboardService, *ResourceSampler, *MetricsService, *AlertService, *HealthService) {
	t.Helper()
	sampler := newTestSampler([]hostReading{
		{cpuTotal: 1000, cpuIdle: 500},
		{cpuTotal: 2000, cpuIdle: 1000},
		{cpuTotal: 3000, cpuIdle: 1500},
	})
	metrics := NewMetricsService()
	alerts := newTestAlertService(t, nil)
	health := NewHealthService(testLogger())
	return NewDashboardService(sampler, metrics, alerts, health), sampler, metrics, alerts, health
}

func TestDataBeforeFirstSampleHasNilResources(t *testing.T) {
	d, _, _, _, _ := newDashboardFixture(t)

	data := d.Data(context.Background())
	if data.Resources != nil {
		t.Fatal("resources must be nil before the first collection tick")
	}
	if !data.Health.Overall {
		t.Error("an empty probe registry is vacuously healthy")
	}
}

func TestDataComposesAllSections(t *testing.T) {
	d, sampler, metrics, alerts, health := newDashboardFixture(t)

	if _, err := sampler.Sample(context.Background()); err != nil {
		t.Fatal(err)
	}
	metrics.RecordCall(true, 150)
	alerts.Create("manual", domain.SeverityHigh, "t", "m", nil)
	health.Register("dep", func(ctx context.Context) (domain.ProbeResult, error) {
		return domain.ProbeResult{}, errors.New("down")
	})

	data := d.Data(context.Background())
	if data.Resources == nil {
		t.Fatal("expected latest resource sample")
	}
	if data.Application.Calls.Total != 1 {
		t.Errorf("application counters missing: %+v", data.Application.Calls)
	}
	if len(data.ActiveAlerts) != 1 {
		t.Errorf("active alerts = %d, want 1", len(data.ActiveAlerts))
	}
	if data.Health.Overall {
		t.Error("health report should reflect the failing probe")
	}
	if data.UptimeSeconds < 0 {
		t.Errorf("uptime = %v", data.UptimeSeconds)
	}
}

func TestHistoryFiltersByCutoffInclusive(t *testing.T) {
	d, sampler, metrics, _, _ := newDashboardFixture(t)
	clock := newFakeClock()
	d.now = clock.Now
	sampler.now = clock.Now
	metrics.now = clock.Now

	// Three samples at t-3h, t-2h, t-1h; snapshots alongside.
	for i := 0; i < 3; i++ {
		if _, err := sampler.Sample(context.Background()); err != nil {
			t.Fatal(err)
		}
		metrics.Snapshot()
		clock.Advance(time.Hour)
	}

	history, err := d.History(2)
	if err != nil {
		t.Fatal(err)
	}
	// Cutoff is exactly t-2h; the sample taken at the cutoff must survive.
	if len(history.Resources) != 2 {
		t.Fatalf("resources in window = %d, want 2", len(history.Resources))
	}
	if len(history.Application) != 2 {
		t.Fatalf("application snapshots in window = %d, want 2", len(history.Application))
	}
	if history.Resources[0].Timestamp.After(history.Resources[1].Timestamp) {
		t.Error("history must stay chronological")
	}
	if history.Hours != 2 {
		t.Errorf("hours echoed = %d, want 2", history.Hours)
	}
}

func TestHistoryRejectsNonPositiveHours(t *testing.T) {
	d, _, _, _, _ := newDashboardFixture(t)
	if _, err := d.History(0); !errors.Is(err, domain.ErrInvalidHours) {
		t.Fatalf("expected ErrInvalidHours, got %v", err)
	}
}
