package probe

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/orchids/voice-monitor/internal/domain"
)

// Redis builds a health probe that pings the given client and reports pool
// statistics as diagnostic detail.
func Redis(client *redis.Client) domain.ProbeFunc {
	return func(ctx context.Context) (domain.ProbeResult, error) {
		if err := client.Ping(ctx).Err(); err != nil {
			return domain.ProbeResult{}, fmt.Errorf("redis ping: %w", err)
		}
		stats := client.PoolStats()
		return domain.ProbeResult{
			Healthy: true,
			Details: map[string]any{
				"total_conns": stats.TotalConns,
				"idle_conns":  stats.IdleConns,
				"hits":        stats.Hits,
				"misses":      stats.Misses,
			},
		}, nil
	}
}
