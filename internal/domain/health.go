package domain

import (
	"context"
	"time"
)

// ProbeResult is what a health probe reports when it completes. A probe that
// cannot reach its dependency should return an error instead; the orchestrator
// records it as an unhealthy check without failing the run.
type ProbeResult struct {
	Healthy bool           `json:"healthy"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ProbeFunc is a named health probe. Probes run sequentially and may perform
// network I/O; they receive the caller's context for deadline propagation.
type ProbeFunc func(ctx context.Context) (ProbeResult, error)

type CheckResult struct {
	Healthy bool           `json:"healthy"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// HealthReport is recomputed fresh on every orchestration run, never cached.
// Overall is true only when every registered probe reported healthy.
type HealthReport struct {
	Overall   bool                   `json:"overall"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
}
