package domain

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSeverity, raw)
	}
	return s, nil
}

// AlertRule is static configuration loaded once at startup. When evaluates a
// rule against the latest application snapshot and resource sample; the sample
// is nil until the first collection tick has run.
type AlertRule struct {
	Name     string
	Severity Severity
	Title    string
	Message  string
	When     func(app ApplicationSnapshot, res *ResourceSample) bool
	Metadata func(app ApplicationSnapshot, res *ResourceSample) map[string]any
}

// Alert is one entry in the alert ledger. Alerts are only ever mutated by
// resolution; eviction from the ledger ignores the resolved flag.
type Alert struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Severity   Severity       `json:"severity"`
	Title      string         `json:"title"`
	Message    string         `json:"message"`
	Timestamp  time.Time      `json:"timestamp"`
	Resolved   bool           `json:"resolved"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
