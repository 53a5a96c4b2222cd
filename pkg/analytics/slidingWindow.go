package analytics

import "math"

// SlidingWindow keeps the last len(data) samples and their running sum.
type SlidingWindow struct {
	data []float64
	head int

	length int
	sum    float64
}

func NewSlidingWindow(capacity int) *SlidingWindow {
	if capacity < 1 {
		capacity = 1
	}
	return &SlidingWindow{
		data: make([]float64, capacity),
	}
}

// Push adds n, evicting and returning the oldest sample once the window is full.
func (w *SlidingWindow) Push(n float64) float64 {
	old := w.data[w.head]

	if w.length < len(w.data) {
		w.length++
	}

	w.data[w.head] = n
	w.head++
	if w.head >= len(w.data) {
		w.head = 0
	}

	w.sum -= old
	w.sum += n

	return old
}

func (w *SlidingWindow) Len() int {
	return w.length
}

func (w *SlidingWindow) Mean() float64 {
	if w.length == 0 {
		return 0
	}
	return w.sum / float64(w.length)
}

// Var is the sample variance. Samples live in data[:length] until the window
// first wraps, and fill the whole slice afterwards.
func (w *SlidingWindow) Var() float64 {
	if w.length < 2 {
		return 0
	}
	mean := w.Mean()
	sum := 0.0
	for _, v := range w.data[:w.length] {
		xm := v - mean
		sum += xm * xm
	}
	return sum / float64(w.length-1)
}

func (w *SlidingWindow) Stddev() float64 {
	return math.Sqrt(w.Var())
}

func (w *SlidingWindow) Max() float64 {
	if w.length == 0 {
		return 0
	}
	top := math.Inf(-1)
	for _, v := range w.data[:w.length] {
		if v > top {
			top = v
		}
	}
	return top
}
