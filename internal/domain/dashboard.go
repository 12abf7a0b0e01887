package domain

import "time"

// DashboardData is the composed read-only operator view. Resources is nil
// until the first collection tick has produced a sample.
type DashboardData struct {
	Timestamp     time.Time           `json:"timestamp"`
	Resources     *ResourceSample     `json:"resources"`
	Application   ApplicationSnapshot `json:"application"`
	ActiveAlerts  []Alert             `json:"active_alerts"`
	Health        HealthReport        `json:"health"`
	UptimeSeconds float64             `json:"uptime_seconds"`
}

// MetricsHistory holds the trailing window of both history buffers, oldest
// entries first.
type MetricsHistory struct {
	From        time.Time             `json:"from"`
	Hours       int                   `json:"hours"`
	Resources   []ResourceSample      `json:"resources"`
	Application []ApplicationSnapshot `json:"application"`
}
