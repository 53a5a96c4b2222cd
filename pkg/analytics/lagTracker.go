package analytics

import (
	"sync"
	"time"

	"github.com/nm-morais/go-babel-timer/pkg/timer"
)

// LagTracker follows how late timers fire across drains: an exponentially
// weighted average plus the worst lag over the last few drains. A growing lag
// means the driving loop drains less often than the shortest timer needs.
type LagTracker struct {
	mu                    sync.Mutex
	newMeasurementsWeight float64
	oldMeasurementsWeight float64
	nMeasurements         int
	avg                   time.Duration
	recent                *SlidingWindow
}

func NewLagTracker(newMeasurementsWeight float64, window int) *LagTracker {
	return &LagTracker{
		newMeasurementsWeight: newMeasurementsWeight,
		oldMeasurementsWeight: 1 - newMeasurementsWeight,
		recent:                NewSlidingWindow(window),
	}
}

// Observe has the signature of a timer drain observer. Drains that fired
// nothing carry no lag information and are skipped.
func (l *LagTracker) Observe(stats timer.DrainStats) {
	if stats.Fired == 0 {
		return
	}
	l.AddMeasurement(stats.MaxLag)
}

func (l *LagTracker) AddMeasurement(lag time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recent.Push(float64(lag))
	if l.nMeasurements == 0 {
		l.nMeasurements++
		l.avg = lag
		return
	}
	l.nMeasurements++
	l.avg = time.Duration(float64(lag)*l.newMeasurementsWeight + float64(l.avg)*l.oldMeasurementsWeight)
}

// Average returns the weighted average lag, false before the first measurement.
func (l *LagTracker) Average() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avg, l.nMeasurements > 0
}

func (l *LagTracker) RecentMax() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return time.Duration(l.recent.Max())
}

func (l *LagTracker) NrMeasurements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nMeasurements
}
