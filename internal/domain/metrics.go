package domain

import "time"

// History capacities. Eviction is oldest-first once a buffer is full.
const (
	ResourceHistoryCap    = 1000
	ApplicationHistoryCap = 1000
	AlertLedgerCap        = 500
	RecentErrorsCap       = 100
)

type CPUStats struct {
	UsagePercent float64   `json:"usage_percent"`
	LoadAverages []float64 `json:"load_averages"`
}

type MemoryStats struct {
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

type DiskStats struct {
	UsedBytes    uint64  `json:"used_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

type NetworkStats struct {
	BytesIn           uint64 `json:"bytes_in"`
	BytesOut          uint64 `json:"bytes_out"`
	ActiveConnections int    `json:"active_connections"`
}

// ResourceSample is one point-in-time reading of host resources. Samples are
// immutable once produced by the sampler.
type ResourceSample struct {
	Timestamp time.Time    `json:"timestamp"`
	CPU       CPUStats     `json:"cpu"`
	Memory    MemoryStats  `json:"memory"`
	Disk      DiskStats    `json:"disk"`
	Network   NetworkStats `json:"network"`
}

type SessionCounters struct {
	Active       int64 `json:"active"`
	Total        int64 `json:"total"`
	ExpiredCount int64 `json:"expired_count"`
}

type CallCounters struct {
	Total             int64   `json:"total"`
	Successful        int64   `json:"successful"`
	Failed            int64   `json:"failed"`
	AverageDurationMs float64 `json:"average_duration_ms"`
}

type APICounters struct {
	TotalRequests         int64   `json:"total_requests"`
	SuccessfulRequests    int64   `json:"successful_requests"`
	FailedRequests        int64   `json:"failed_requests"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
}

type InferenceCounters struct {
	TotalRequests         int64   `json:"total_requests"`
	SuccessfulRequests    int64   `json:"successful_requests"`
	FailedRequests        int64   `json:"failed_requests"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
	TokensConsumed        int64   `json:"tokens_consumed"`
}

type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Trace     string    `json:"trace,omitempty"`
}

type ErrorCounters struct {
	Total       int64            `json:"total"`
	CountByKind map[string]int64 `json:"count_by_kind"`
	Recent      []ErrorEntry     `json:"recent"`
}

// ApplicationSnapshot is an immutable copy of the live application counters.
// Counters are cumulative for the process lifetime, never per-interval deltas.
type ApplicationSnapshot struct {
	Timestamp time.Time         `json:"timestamp"`
	Sessions  SessionCounters   `json:"sessions"`
	Calls     CallCounters      `json:"calls"`
	API       APICounters       `json:"api"`
	Inference InferenceCounters `json:"inference"`
	Errors    ErrorCounters     `json:"errors"`
}
