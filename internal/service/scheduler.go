package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orchids/voice-monitor/pkg/logger"
)

const defaultCollectInterval = 60 * time.Second

// Scheduler drives the collection cycle: sample host resources, freeze an
// application snapshot, evaluate alert rules against it. A failed tick is
// logged and swallowed; the next tick always runs.
type Scheduler struct {
	sampler  *ResourceSampler
	metrics  *MetricsService
	alerts   *AlertService
	log      *logger.Logger
	interval time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}
}

func NewScheduler(sampler *ResourceSampler, metrics *MetricsService, alerts *AlertService, log *logger.Logger) *Scheduler {
	return &Scheduler{
		sampler:  sampler,
		metrics:  metrics,
		alerts:   alerts,
		log:      log.With("scheduler"),
		interval: defaultCollectInterval,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the periodic collection loop. Calling Start more than once
// has no effect.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		go s.loop()
	})
}

// Stop terminates the loop and waits for the in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Collect once up front so the dashboard has a resource sample before
	// the first interval elapses.
	s.tick()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) tick() {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "collection tick panicked", fmt.Errorf("%v", r), nil)
		}
	}()

	sample, err := s.sampler.Sample(ctx)
	if err != nil {
		s.log.Error(ctx, "collection tick failed", err, nil)
		return
	}

	snapshot := s.metrics.Snapshot()
	s.alerts.Evaluate(snapshot, &sample)
}
