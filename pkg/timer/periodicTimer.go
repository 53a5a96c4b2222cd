package timer

import (
	"fmt"
	"time"

	teq "github.com/nm-morais/go-babel-timer/pkg/dataStructures/timedEventQueue"
	"github.com/nm-morais/go-babel-timer/pkg/errors"
)

const repeatingTimerCaller = "repeatingTimer"

// RepeatingTimer re-arms itself on a TimerService after every firing until
// stopped. It only uses the service's public methods. Like the service, it is
// not safe for concurrent use.
type RepeatingTimer struct {
	svc      TimerService
	interval time.Duration
	callback Callback
	trigger  Callback
	active   bool
	armed    bool
}

func NewRepeatingTimer(svc TimerService, interval time.Duration, cb Callback, startNow bool) (*RepeatingTimer, errors.Error) {
	if interval <= 0 {
		return nil, errors.InvalidDelay(interval, repeatingTimerCaller)
	}
	if cb == nil {
		return nil, errors.NonFatalError(errors.InvalidCallbackCode, "nil callback", repeatingTimerCaller)
	}
	if !teq.Comparable(cb) {
		return nil, errors.NonFatalError(errors.InvalidCallbackCode, fmt.Sprintf("callback of type %T is not comparable", cb), repeatingTimerCaller)
	}
	rt := &RepeatingTimer{
		svc:      svc,
		interval: interval,
		callback: cb,
	}
	rt.trigger = teq.NewCallback("repeating:"+teq.Name(cb), rt.fire)
	if startNow {
		rt.Start()
	}
	return rt, nil
}

// Start schedules the first firing one interval from now. No-op when active.
func (rt *RepeatingTimer) Start() {
	if rt.active {
		return
	}
	rt.active = true
	rt.arm()
}

// Stop cancels the pending firing. No-op when inactive.
func (rt *RepeatingTimer) Stop() {
	if !rt.active {
		return
	}
	rt.active = false
	rt.armed = false
	rt.svc.Cancel(rt.trigger)
}

// UpdateInterval changes the interval used by future re-arms. An already
// pending firing keeps its due time. Non-positive values are logged and ignored.
func (rt *RepeatingTimer) UpdateInterval(interval time.Duration) {
	if interval <= 0 {
		rt.svc.Logger().Warnf("[%s] ignoring non-positive interval %s for %s", repeatingTimerCaller, interval, teq.Name(rt.callback))
		return
	}
	rt.interval = interval
}

func (rt *RepeatingTimer) Active() bool {
	return rt.active
}

func (rt *RepeatingTimer) Interval() time.Duration {
	return rt.interval
}

func (rt *RepeatingTimer) arm() {
	if _, err := rt.svc.Schedule(rt.interval, rt.trigger); err != nil {
		err.Log()
		rt.active = false
		return
	}
	rt.armed = true
}

func (rt *RepeatingTimer) fire() error {
	rt.armed = false
	if !rt.active {
		return nil
	}
	// re-arm even if the callback fails or panics, unless it stopped
	// (or stopped and restarted) us
	defer func() {
		if rt.active && !rt.armed {
			rt.arm()
		}
	}()
	return rt.callback.OnTrigger()
}
