package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orchids/voice-monitor/internal/domain"
	"github.com/orchids/voice-monitor/internal/ringbuf"
	"github.com/orchids/voice-monitor/pkg/logger"
)

// AlertService evaluates a fixed rule set against snapshots and maintains the
// bounded alert ledger. There is no deduplication or suppression window: a
// condition that keeps breaching produces one new alert per evaluation tick.
type AlertService struct {
	mu     sync.Mutex
	log    *logger.Logger
	now    func() time.Time
	rules  []domain.AlertRule
	ledger *ringbuf.Buffer[*domain.Alert]
}

func NewAlertService(rules []domain.AlertRule, log *logger.Logger) (*AlertService, error) {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Name == "" || r.When == nil {
			return nil, fmt.Errorf("%w: rule needs a name and a predicate", domain.ErrInvalidRule)
		}
		if !r.Severity.Valid() {
			return nil, fmt.Errorf("%w: rule %q has severity %q", domain.ErrInvalidRule, r.Name, r.Severity)
		}
		if _, ok := seen[r.Name]; ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateRule, r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	return &AlertService{
		log:    log.With("alerts"),
		now:    time.Now,
		rules:  rules,
		ledger: ringbuf.New[*domain.Alert](domain.AlertLedgerCap),
	}, nil
}

// Evaluate runs every rule in registration order against the snapshot and the
// latest resource sample (nil before the first collection). Each rule whose
// predicate holds creates a new alert unconditionally.
func (s *AlertService) Evaluate(app domain.ApplicationSnapshot, res *domain.ResourceSample) {
	for _, r := range s.rules {
		if !r.When(app, res) {
			continue
		}
		var meta map[string]any
		if r.Metadata != nil {
			meta = r.Metadata(app, res)
		}
		s.Create(r.Name, r.Severity, r.Title, r.Message, meta)
	}
}

// Create appends a new alert to the ledger, evicting the oldest entry once
// the cap is reached regardless of its resolved state.
func (s *AlertService) Create(kind string, severity domain.Severity, title, message string, metadata map[string]any) domain.Alert {
	s.mu.Lock()
	now := s.now()
	alert := &domain.Alert{
		ID:        fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		Kind:      kind,
		Severity:  severity,
		Title:     title,
		Message:   message,
		Timestamp: now,
		Metadata:  metadata,
	}
	s.ledger.Push(alert)
	// Copy while still holding the lock; a concurrent Resolve mutates the
	// ledger entry through the same pointer.
	out := *alert
	s.mu.Unlock()

	s.log.Warn(context.Background(), "alert triggered", map[string]interface{}{
		"alert_id": out.ID,
		"kind":     out.Kind,
		"severity": string(out.Severity),
		"message":  out.Message,
	})
	return out
}

// Resolve flips the alert to resolved and stamps ResolvedAt. It reports
// whether the resolution took effect; resolving twice is a no-op.
func (s *AlertService) Resolve(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.ledger.Items() {
		if a.ID != id {
			continue
		}
		if a.Resolved {
			return false
		}
		now := s.now()
		a.Resolved = true
		a.ResolvedAt = &now
		return true
	}
	return false
}

func (s *AlertService) All() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collectLocked(func(*domain.Alert) bool { return true })
}

func (s *AlertService) Active() []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collectLocked(func(a *domain.Alert) bool { return !a.Resolved })
}

func (s *AlertService) BySeverity(severity domain.Severity) []domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collectLocked(func(a *domain.Alert) bool { return a.Severity == severity })
}

func (s *AlertService) collectLocked(keep func(*domain.Alert) bool) []domain.Alert {
	items := s.ledger.Items()
	out := make([]domain.Alert, 0, len(items))
	for _, a := range items {
		if keep(a) {
			out = append(out, *a)
		}
	}
	return out
}
