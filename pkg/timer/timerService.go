package timer

import (
	"fmt"
	"time"

	"github.com/nm-morais/go-babel-timer/pkg/clock"
	teq "github.com/nm-morais/go-babel-timer/pkg/dataStructures/timedEventQueue"
	"github.com/nm-morais/go-babel-timer/pkg/errors"
	"github.com/nm-morais/go-babel-timer/pkg/logs"
	"github.com/sirupsen/logrus"
)

const timerServiceCaller = "timerService"

type timerService struct {
	clock    clock.Clock
	teq      teq.TimedEventQueue
	logger   *logrus.Logger
	observer func(DrainStats)
	lastID   ID
}

func NewTimerService(opts ...Option) TimerService {
	ts := &timerService{
		teq: teq.NewTimedEventQueue(),
	}
	for _, opt := range opts {
		opt(ts)
	}
	if ts.clock == nil {
		ts.clock = clock.SystemClock()
	}
	if ts.logger == nil {
		ts.logger = logs.NewLogger(timerServiceCaller)
	}
	return ts
}

func (ts *timerService) CurrentTime() time.Time {
	return ts.clock.Now()
}

func (ts *timerService) Schedule(delay time.Duration, cb Callback) (ID, errors.Error) {
	if delay < 0 {
		return 0, errors.InvalidDelay(delay, timerServiceCaller)
	}
	if cb == nil {
		return 0, errors.NonFatalError(errors.InvalidCallbackCode, "nil callback", timerServiceCaller)
	}
	if !teq.Comparable(cb) {
		return 0, errors.NonFatalError(errors.InvalidCallbackCode, fmt.Sprintf("callback of type %T is not comparable", cb), timerServiceCaller)
	}
	ts.lastID++
	ts.teq.Add(teq.TimerEvent{
		ID:       ts.lastID,
		Due:      ts.CurrentTime().Add(delay),
		Callback: cb,
	})
	return ts.lastID, nil
}

func (ts *timerService) Cancel(cb Callback) int {
	removed := ts.teq.RemoveByCallback(cb)
	if removed > 0 {
		ts.logger.Debugf("cancelled %d pending instance(s) of %s", removed, teq.Name(cb))
	}
	return removed
}

func (ts *timerService) CancelTimer(id ID) errors.Error {
	if !ts.teq.RemoveByID(id) {
		return errors.NonFatalError(errors.NotFoundCode, fmt.Sprintf("timer %d not found", id), timerServiceCaller)
	}
	return nil
}

// Drain fires every due callback, earliest first, and returns how many fired.
// A failing callback is logged and skipped; the remaining due callbacks still run.
func (ts *timerService) Drain() int {
	start := time.Now()
	stats := DrainStats{}
	for {
		next, ok := ts.teq.PeekMin()
		if !ok {
			break
		}
		now := ts.CurrentTime()
		if next.Due.After(now) {
			break
		}
		ev, err := ts.teq.PopMin()
		if err != nil {
			err.Log()
			break
		}
		if lag := now.Sub(ev.Due); lag > stats.MaxLag {
			stats.MaxLag = lag
		}
		stats.Fired++
		if !ts.fire(ev) {
			stats.Failed++
		}
	}
	stats.Pending = ts.teq.Size()
	stats.Elapsed = time.Since(start)
	if stats.Fired > 0 {
		ts.logger.Debugf("drain fired %d timer(s), %d failed, %d pending", stats.Fired, stats.Failed, stats.Pending)
	}
	if ts.observer != nil {
		ts.observer(stats)
	}
	return stats.Fired
}

func (ts *timerService) fire(ev teq.TimerEvent) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ts.callbackFailed(ev, r)
			ok = false
		}
	}()
	if err := ev.Callback.OnTrigger(); err != nil {
		ts.callbackFailed(ev, err)
		return false
	}
	return true
}

func (ts *timerService) callbackFailed(ev teq.TimerEvent, cause interface{}) {
	name := teq.Name(ev.Callback)
	err := errors.CallbackFailure(name, cause, timerServiceCaller)
	ts.logger.WithFields(logrus.Fields{
		"timer":    ev.ID,
		"callback": name,
		"due":      ev.Due,
	}).Error(err.Reason())
}

func (ts *timerService) Pending() int {
	return ts.teq.Size()
}

func (ts *timerService) LogPending() {
	ts.teq.LogEntries(ts.logger, ts.CurrentTime())
}

func (ts *timerService) Logger() *logrus.Logger {
	return ts.logger
}
