package timer

import (
	"time"

	"github.com/nm-morais/go-babel-timer/pkg/clock"
	teq "github.com/nm-morais/go-babel-timer/pkg/dataStructures/timedEventQueue"
	"github.com/nm-morais/go-babel-timer/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ID identifies a single Schedule call. The zero ID is never handed out.
type ID = uint64

type Callback = teq.Callback

// NewCallback wraps a function in a Callback with its own identity.
func NewCallback(name string, fn func() error) Callback {
	return teq.NewCallback(name, fn)
}

// TimerService multiplexes one-shot callbacks over a logical clock. Nothing
// fires on its own: an external loop calls Drain, which runs every callback
// whose due time has been reached. Implementations do no locking.
type TimerService interface {
	CurrentTime() time.Time
	Schedule(delay time.Duration, cb Callback) (ID, errors.Error)
	Cancel(cb Callback) int
	CancelTimer(id ID) errors.Error
	Drain() int
	Pending() int
	LogPending()
	Logger() *logrus.Logger
}

// DrainStats summarises one Drain call. MaxLag is how late, in clock time,
// the most overdue callback fired.
type DrainStats struct {
	Fired   int
	Failed  int
	Pending int
	MaxLag  time.Duration
	Elapsed time.Duration
}

type Option func(*timerService)

func WithClock(c clock.Clock) Option {
	return func(ts *timerService) {
		ts.clock = c
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(ts *timerService) {
		ts.logger = logger
	}
}

// WithDrainObserver registers fn to be called at the end of every Drain.
func WithDrainObserver(fn func(DrainStats)) Option {
	return func(ts *timerService) {
		ts.observer = fn
	}
}
