package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/nm-morais/go-babel-timer/pkg/timer"
)

func TestSlidingWindowStats(t *testing.T) {
	w := NewSlidingWindow(3)
	if w.Len() != 0 || w.Mean() != 0 || w.Max() != 0 {
		t.Error("empty window should report zeroes")
	}
	w.Push(1)
	w.Push(2)
	w.Push(3)
	if w.Mean() != 2 {
		t.Errorf("expected mean 2, got %f", w.Mean())
	}
	if w.Var() != 1 {
		t.Errorf("expected variance 1, got %f", w.Var())
	}

	if old := w.Push(10); old != 1 {
		t.Errorf("expected 1 to be evicted, got %f", old)
	}
	if w.Len() != 3 {
		t.Errorf("window should stay at capacity, len %d", w.Len())
	}
	if w.Mean() != 5 {
		t.Errorf("expected mean 5, got %f", w.Mean())
	}
	if w.Max() != 10 {
		t.Errorf("expected max 10, got %f", w.Max())
	}
}

func TestLagTrackerObservesDrains(t *testing.T) {
	l := NewLagTracker(0.5, 4)
	if _, ok := l.Average(); ok {
		t.Error("expected no average before any measurement")
	}

	l.Observe(timer.DrainStats{Fired: 0, MaxLag: time.Hour})
	if l.NrMeasurements() != 0 {
		t.Error("empty drains should be ignored")
	}

	l.Observe(timer.DrainStats{Fired: 1, MaxLag: 100 * time.Millisecond})
	l.Observe(timer.DrainStats{Fired: 2, MaxLag: 300 * time.Millisecond})
	avg, ok := l.Average()
	if !ok || avg != 200*time.Millisecond {
		t.Errorf("expected average 200ms, got %s", avg)
	}
	if l.RecentMax() != 300*time.Millisecond {
		t.Errorf("expected recent max 300ms, got %s", l.RecentMax())
	}
}

func TestDetectorSuspicionGrowsWithSilence(t *testing.T) {
	d := NewDetector(10, 3)
	now := time.Unix(0, 0)
	if phi := d.Phi(now); phi != 0 {
		t.Errorf("expected 0 without samples, got %f", phi)
	}

	for i := 0; i < 5; i++ {
		now = now.Add(time.Second)
		d.Ping(now)
	}

	onTime := d.Phi(now.Add(time.Second))
	late := d.Phi(now.Add(2 * time.Second))
	if !(late > onTime) {
		t.Errorf("expected suspicion to grow, on time %f, late %f", onTime, late)
	}
	if veryLate := d.Phi(now.Add(time.Minute)); !math.IsInf(veryLate, 1) && veryLate < 8 {
		t.Errorf("expected a very late peer to be highly suspected, got %f", veryLate)
	}
}
