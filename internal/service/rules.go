package service

import (
	"fmt"

	"github.com/orchids/voice-monitor/internal/config"
	"github.com/orchids/voice-monitor/internal/domain"
)

// DefaultRules builds the built-in rule set from configured thresholds.
// Resource rules skip evaluation until the first sample exists; rate rules
// wait for a minimum volume so a single failed call cannot page anyone.
func DefaultRules(t config.ThresholdConfig) []domain.AlertRule {
	return []domain.AlertRule{
		{
			Name:     "high_cpu_usage",
			Severity: domain.SeverityHigh,
			Title:    "High CPU usage",
			Message:  fmt.Sprintf("CPU usage is above %.0f%%", t.CPUPercent),
			When: func(_ domain.ApplicationSnapshot, res *domain.ResourceSample) bool {
				return res != nil && res.CPU.UsagePercent > t.CPUPercent
			},
			Metadata: func(_ domain.ApplicationSnapshot, res *domain.ResourceSample) map[string]any {
				return map[string]any{"usage_percent": res.CPU.UsagePercent, "threshold": t.CPUPercent}
			},
		},
		{
			Name:     "high_memory_usage",
			Severity: domain.SeverityHigh,
			Title:    "High memory usage",
			Message:  fmt.Sprintf("Memory usage is above %.0f%%", t.MemoryPercent),
			When: func(_ domain.ApplicationSnapshot, res *domain.ResourceSample) bool {
				return res != nil && res.Memory.UsagePercent > t.MemoryPercent
			},
			Metadata: func(_ domain.ApplicationSnapshot, res *domain.ResourceSample) map[string]any {
				return map[string]any{"usage_percent": res.Memory.UsagePercent, "threshold": t.MemoryPercent}
			},
		},
		{
			Name:     "low_disk_space",
			Severity: domain.SeverityCritical,
			Title:    "Low disk space",
			Message:  fmt.Sprintf("Disk usage is above %.0f%%", t.DiskPercent),
			When: func(_ domain.ApplicationSnapshot, res *domain.ResourceSample) bool {
				return res != nil && res.Disk.UsagePercent > t.DiskPercent
			},
			Metadata: func(_ domain.ApplicationSnapshot, res *domain.ResourceSample) map[string]any {
				return map[string]any{"usage_percent": res.Disk.UsagePercent, "threshold": t.DiskPercent}
			},
		},
		{
			Name:     "high_call_failure_rate",
			Severity: domain.SeverityHigh,
			Title:    "High call failure rate",
			Message:  fmt.Sprintf("More than %.0f%% of calls are failing", t.CallFailureRate*100),
			When: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) bool {
				c := app.Calls
				return c.Total >= t.MinCallVolume && float64(c.Failed)/float64(c.Total) > t.CallFailureRate
			},
			Metadata: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) map[string]any {
				c := app.Calls
				return map[string]any{"total": c.Total, "failed": c.Failed, "threshold": t.CallFailureRate}
			},
		},
		{
			Name:     "high_api_failure_rate",
			Severity: domain.SeverityMedium,
			Title:    "High API failure rate",
			Message:  fmt.Sprintf("More than %.0f%% of API requests are failing", t.APIFailureRate*100),
			When: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) bool {
				a := app.API
				return a.TotalRequests >= t.MinRequestVolume && float64(a.FailedRequests)/float64(a.TotalRequests) > t.APIFailureRate
			},
			Metadata: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) map[string]any {
				a := app.API
				return map[string]any{"total": a.TotalRequests, "failed": a.FailedRequests, "threshold": t.APIFailureRate}
			},
		},
		{
			Name:     "high_inference_failure_rate",
			Severity: domain.SeverityHigh,
			Title:    "High inference failure rate",
			Message:  fmt.Sprintf("More than %.0f%% of model inference requests are failing", t.InferenceFailureRate*100),
			When: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) bool {
				i := app.Inference
				return i.TotalRequests >= t.MinRequestVolume && float64(i.FailedRequests)/float64(i.TotalRequests) > t.InferenceFailureRate
			},
			Metadata: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) map[string]any {
				i := app.Inference
				return map[string]any{"total": i.TotalRequests, "failed": i.FailedRequests, "threshold": t.InferenceFailureRate}
			},
		},
		{
			Name:     "error_burst",
			Severity: domain.SeverityMedium,
			Title:    "Error burst",
			Message:  fmt.Sprintf("More than %d errors recorded in the last %s", t.ErrorBurstCount, t.ErrorBurstWindow),
			When: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) bool {
				cutoff := app.Timestamp.Add(-t.ErrorBurstWindow)
				n := 0
				for _, e := range app.Errors.Recent {
					if !e.Timestamp.Before(cutoff) {
						n++
					}
				}
				return n > t.ErrorBurstCount
			},
			Metadata: func(app domain.ApplicationSnapshot, _ *domain.ResourceSample) map[string]any {
				return map[string]any{"recent_errors": len(app.Errors.Recent), "window": t.ErrorBurstWindow.String()}
			},
		},
	}
}
