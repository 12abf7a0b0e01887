package probe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchids/voice-monitor/internal/domain"
)

// Postgres builds a health probe that pings the connection pool and reports
// pool utilization as diagnostic detail.
func Postgres(pool *pgxpool.Pool) domain.ProbeFunc {
	return func(ctx context.Context) (domain.ProbeResult, error) {
		if err := pool.Ping(ctx); err != nil {
			return domain.ProbeResult{}, fmt.Errorf("postgres ping: %w", err)
		}
		stat := pool.Stat()
		return domain.ProbeResult{
			Healthy: true,
			Details: map[string]any{
				"acquired_conns": stat.AcquiredConns(),
				"idle_conns":     stat.IdleConns(),
				"max_conns":      stat.MaxConns(),
			},
		}, nil
	}
}
