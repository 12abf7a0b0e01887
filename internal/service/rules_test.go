package service

import (
	"testing"
	"time"

	"github.com/orchids/voice-monitor/internal/config"
	"github.com/orchids/voice-monitor/internal/domain"
)

func testThresholds() config.ThresholdConfig {
	return config.ThresholdConfig{
		CPUPercent:           90,
		MemoryPercent:        90,
		DiskPercent:          85,
		CallFailureRate:      0.2,
		APIFailureRate:       0.2,
		InferenceFailureRate: 0.2,
		MinCallVolume:        10,
		MinRequestVolume:     20,
		ErrorBurstCount:      10,
		ErrorBurstWindow:     5 * time.Minute,
	}
}

func findRule(t *testing.T, rules []domain.AlertRule, name string) domain.AlertRule {
	t.Helper()
	for _, r := range rules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("rule %q not found", name)
	return domain.AlertRule{}
}

func TestResourceRulesSkipWithoutSample(t *testing.T) {
	rules := DefaultRules(testThresholds())
	for _, name := range []string{"high_cpu_usage", "high_memory_usage", "low_disk_space"} {
		r := findRule(t, rules, name)
		if r.When(domain.ApplicationSnapshot{}, nil) {
			t.Errorf("%s must not fire before the first resource sample", name)
		}
	}
}

func TestCPURuleFiresAboveThreshold(t *testing.T) {
	r := findRule(t, DefaultRules(testThresholds()), "high_cpu_usage")

	hot := &domain.ResourceSample{CPU: domain.CPUStats{UsagePercent: 95}}
	cool := &domain.ResourceSample{CPU: domain.CPUStats{UsagePercent: 42}}

	if !r.When(domain.ApplicationSnapshot{}, hot) {
		t.Error("expected fire at 95%")
	}
	if r.When(domain.ApplicationSnapshot{}, cool) {
		t.Error("expected no fire at 42%")
	}
	meta := r.Metadata(domain.ApplicationSnapshot{}, hot)
	if meta["usage_percent"] != 95.0 {
		t.Errorf("metadata = %v", meta)
	}
}

func TestCallFailureRuleNeedsMinimumVolume(t *testing.T) {
	r := findRule(t, DefaultRules(testThresholds()), "high_call_failure_rate")

	lowVolume := domain.ApplicationSnapshot{
		Calls: domain.CallCounters{Total: 4, Failed: 4},
	}
	if r.When(lowVolume, nil) {
		t.Error("must not fire below the minimum call volume")
	}

	breaching := domain.ApplicationSnapshot{
		Calls: domain.CallCounters{Total: 10, Successful: 7, Failed: 3},
	}
	if !r.When(breaching, nil) {
		t.Error("expected fire at 30% failures over 10 calls")
	}

	healthy := domain.ApplicationSnapshot{
		Calls: domain.CallCounters{Total: 100, Successful: 90, Failed: 10},
	}
	if r.When(healthy, nil) {
		t.Error("expected no fire at 10% failures")
	}
}

func TestInferenceFailureRule(t *testing.T) {
	r := findRule(t, DefaultRules(testThresholds()), "high_inference_failure_rate")

	breaching := domain.ApplicationSnapshot{
		Inference: domain.InferenceCounters{TotalRequests: 20, SuccessfulRequests: 14, FailedRequests: 6},
	}
	if !r.When(breaching, nil) {
		t.Error("expected fire at 30% inference failures")
	}
}

func TestErrorBurstRuleCountsWindowOnly(t *testing.T) {
	r := findRule(t, DefaultRules(testThresholds()), "error_burst")

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := make([]domain.ErrorEntry, 0, 15)
	for i := 0; i < 11; i++ {
		recent = append(recent, domain.ErrorEntry{Timestamp: now.Add(-time.Minute), Kind: "k"})
	}
	// Stale entries outside the window must not count.
	for i := 0; i < 4; i++ {
		recent = append(recent, domain.ErrorEntry{Timestamp: now.Add(-time.Hour), Kind: "k"})
	}

	burst := domain.ApplicationSnapshot{
		Timestamp: now,
		Errors:    domain.ErrorCounters{Total: 15, Recent: recent},
	}
	if !r.When(burst, nil) {
		t.Error("expected fire with 11 errors inside the window")
	}

	quiet := domain.ApplicationSnapshot{
		Timestamp: now,
		Errors:    domain.ErrorCounters{Total: 15, Recent: recent[11:]},
	}
	if r.When(quiet, nil) {
		t.Error("stale errors alone must not fire the burst rule")
	}
}

func TestDefaultRulesAreValidConfiguration(t *testing.T) {
	if _, err := NewAlertService(DefaultRules(testThresholds()), testLogger()); err != nil {
		t.Fatalf("default rules rejected: %v", err)
	}
}
