package clock

import (
	"sync"
	"time"

	"github.com/nm-morais/go-babel-timer/pkg/logs"
	"github.com/sirupsen/logrus"
)

const clockCaller = "clock"

// Clock supplies the current logical time. Consecutive calls never go backwards.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// ManualClock only moves when told to. It is meant for tests and simulations
// where the driving loop advances time explicitly.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	logger *logrus.Logger
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{
		now:    start,
		logger: logs.NewLogger(clockCaller),
	}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *ManualClock) Advance(d time.Duration) {
	if d < 0 {
		c.logger.Warnf("ignoring negative clock advance of %s", d)
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Set jumps the clock to t. Instants before the current time are ignored.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.Before(c.now) {
		c.logger.Warnf("ignoring clock set to %s, before current time %s", t, c.now)
		return
	}
	c.now = t
}
