package analytics

import (
	"math"
	"sync"
	"time"
)

// Detector is a phi accrual failure detector fed with heartbeat arrival times.
type Detector struct {
	w          *SlidingWindow
	last       time.Time
	minSamples int
	mu         sync.Mutex
}

// NewDetector returns a failure detector that considers the last windowSize
// inter-arrival intervals and answers 0 until it has seen minSamples of them.
func NewDetector(windowSize, minSamples int) *Detector {
	return &Detector{
		w:          NewSlidingWindow(windowSize),
		minSamples: minSamples,
	}
}

// Ping registers a heartbeat arrival at now.
func (d *Detector) Ping(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.last.IsZero() {
		d.w.Push(now.Sub(d.last).Seconds())
	}
	d.last = now
}

// Phi is the suspicion level at now that the remote end has failed. Higher is
// more suspicious; phi = 1 means about a 10% chance of a false positive.
func (d *Detector) Phi(now time.Time) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.w.Len() < d.minSamples || d.w.Len() == 0 {
		return 0
	}

	t := now.Sub(d.last).Seconds()
	stddev := d.w.Stddev()
	// perfectly regular arrivals would divide by zero
	if minStddev := math.Max(d.w.Mean()/10, 1e-6); stddev < minStddev {
		stddev = minStddev
	}
	pLater := 1 - cdf(d.w.Mean(), stddev, t)
	if pLater <= 0 {
		return math.Inf(1)
	}
	return -math.Log10(pLater)
}

// cdf is the cumulative distribution function of a normally distributed random
// variable with the given mean and standard deviation
func cdf(mean, stddev, x float64) float64 {
	return 0.5 + 0.5*math.Erf((x-mean)/(stddev*math.Sqrt2))
}
