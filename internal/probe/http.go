package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/orchids/voice-monitor/internal/domain"
)

// HTTPEndpoint builds a probe that issues a GET against a dependency health
// URL and reports healthy on any 2xx response. The client carries its own
// timeout; the orchestrator does not impose one.
func HTTPEndpoint(url string, client *http.Client) domain.ProbeFunc {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return func(ctx context.Context) (domain.ProbeResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return domain.ProbeResult{}, fmt.Errorf("build request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return domain.ProbeResult{}, fmt.Errorf("get %s: %w", url, err)
		}
		defer resp.Body.Close()

		result := domain.ProbeResult{
			Healthy: resp.StatusCode >= 200 && resp.StatusCode < 300,
			Details: map[string]any{"status_code": resp.StatusCode, "url": url},
		}
		if !result.Healthy {
			result.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return result, nil
	}
}
