package service

import (
	"time"

	"github.com/orchids/voice-monitor/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("test", "disabled")
}

// fakeClock hands out strictly increasing timestamps so eviction order is
// observable in tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
