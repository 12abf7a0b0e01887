package probe

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/orchids/voice-monitor/internal/domain"
)

// Queue builds a health probe over the task queue inspector. The check is
// unhealthy when any queue's pending backlog exceeds maxPending; a
// non-positive maxPending disables the backlog check and only verifies the
// inspector can reach the broker.
func Queue(inspector *asynq.Inspector, maxPending int) domain.ProbeFunc {
	return func(ctx context.Context) (domain.ProbeResult, error) {
		queues, err := inspector.Queues()
		if err != nil {
			return domain.ProbeResult{}, fmt.Errorf("list queues: %w", err)
		}

		details := make(map[string]any, len(queues))
		result := domain.ProbeResult{Healthy: true, Details: details}
		for _, name := range queues {
			info, err := inspector.GetQueueInfo(name)
			if err != nil {
				continue
			}
			details[name] = map[string]any{
				"pending": info.Pending,
				"active":  info.Active,
				"retry":   info.Retry,
			}
			if maxPending > 0 && info.Pending > maxPending {
				result.Healthy = false
				result.Error = fmt.Sprintf("queue %q backlog %d exceeds %d", name, info.Pending, maxPending)
			}
		}
		return result, nil
	}
}
