package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/pkg/logger"
)

// HealthService keeps the named probe registry and produces aggregate health
// reports. Probes run one at a time in registration order; a failing probe
// becomes an unhealthy check result and never aborts the remaining probes.
type HealthService struct {
	mu     sync.Mutex
	log    *logger.Logger
	now    func() time.Time
	order  []string
	probes map[string]domain.ProbeFunc
}

func NewHealthService(log *logger.Logger) *HealthService {
	return &HealthService{
		log:    log.With("health"),
		now:    time.Now,
		probes: make(map[string]domain.ProbeFunc),
	}
}

// Register adds or replaces the named probe. Re-registering a name keeps its
// original position in the run order; the last probe registered wins.
func (s *HealthService) Register(name string, probe domain.ProbeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.probes[name]; !ok {
		s.order = append(s.order, name)
	}
	s.probes[name] = probe
}

// RunAll executes every registered probe sequentially and composes a fresh
// report. Overall is true only when every check reports healthy. There is no
// per-probe timeout at this layer; pass a context with a deadline to bound a
// slow dependency.
func (s *HealthService) RunAll(ctx context.Context) domain.HealthReport {
	s.mu.Lock()
	order := make([]string, len(s.order))
	copy(order, s.order)
	probes := make(map[string]domain.ProbeFunc, len(s.probes))
	for name, p := range s.probes {
		probes[name] = p
	}
	s.mu.Unlock()

	report := domain.HealthReport{
		Overall: true,
		Checks:  make(map[string]domain.CheckResult, len(order)),
	}
	for _, name := range order {
		res, err := runProbe(ctx, probes[name])
		check := domain.CheckResult{
			Healthy: res.Healthy,
			Details: res.Details,
			Error:   res.Error,
		}
		if err != nil {
			check = domain.CheckResult{Healthy: false, Error: err.Error()}
			s.log.Warn(ctx, "health probe failed", map[string]interface{}{
				"check": name,
				"error": err.Error(),
			})
		}
		if !check.Healthy {
			report.Overall = false
		}
		report.Checks[name] = check
	}
	report.Timestamp = s.now()
	return report
}

// IsHealthy is sugar over RunAll for callers that only need the verdict.
func (s *HealthService) IsHealthy(ctx context.Context) bool {
	return s.RunAll(ctx).Overall
}

// runProbe invokes a probe and converts a panic into a plain error so one
// misbehaving probe cannot take down an orchestration run.
func runProbe(ctx context.Context, probe domain.ProbeFunc) (res domain.ProbeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe panic: %v", r)
		}
	}()
	return probe(ctx)
}
