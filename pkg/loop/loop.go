// Package loop drives a TimerService from a single goroutine. It drains the
// service on every tick and runs submitted functions between drains, so other
// goroutines can schedule and cancel timers without racing the drain.
package loop

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/nm-morais/go-babel-timer/pkg/errors"
	"github.com/nm-morais/go-babel-timer/pkg/timer"
	"github.com/sirupsen/logrus"
)

const (
	loopCaller     = "loop"
	submitQueueLen = 64
)

type submission struct {
	fn   func()
	done chan struct{}
}

type Loop struct {
	services.Service

	svc         timer.TimerService
	tick        time.Duration
	submissions chan submission
	logger      *logrus.Logger
}

func New(svc timer.TimerService, tick time.Duration, logger *logrus.Logger) (*Loop, errors.Error) {
	if tick <= 0 {
		return nil, errors.InvalidDelay(tick, loopCaller)
	}
	if logger == nil {
		logger = svc.Logger()
	}
	l := &Loop{
		svc:         svc,
		tick:        tick,
		submissions: make(chan submission, submitQueueLen),
		logger:      logger,
	}
	l.Service = services.NewBasicService(nil, l.running, l.stopping)
	return l, nil
}

// Submit queues fn to run on the loop goroutine and returns without waiting.
func (l *Loop) Submit(ctx context.Context, fn func()) error {
	select {
	case l.submissions <- submission{fn: fn}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitSync runs fn on the loop goroutine and waits for it to finish.
// Calling it from inside a timer callback deadlocks.
func (l *Loop) SubmitSync(ctx context.Context, fn func()) error {
	req := submission{fn: fn, done: make(chan struct{})}
	select {
	case l.submissions <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) running(ctx context.Context) error {
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-l.submissions:
			l.run(req)
		case <-ticker.C:
			l.onTick()
		}
	}
}

// onTick runs every queued submission before draining, so a timer scheduled
// before the tick is considered by that tick's drain.
func (l *Loop) onTick() {
	for {
		select {
		case req := <-l.submissions:
			l.run(req)
		default:
			l.svc.Drain()
			return
		}
	}
}

func (l *Loop) run(req submission) {
	defer func() {
		if x := recover(); x != nil {
			l.logger.Errorf("[%s] panic in submitted function: %v, STACK: %s", loopCaller, x, string(debug.Stack()))
		}
		if req.done != nil {
			close(req.done)
		}
	}()
	req.fn()
}

func (l *Loop) stopping(_ error) error {
	l.logger.Infof("[%s] stopping with %d timer(s) pending", loopCaller, l.svc.Pending())
	if l.logger.IsLevelEnabled(logrus.DebugLevel) {
		l.svc.LogPending()
	}
	return nil
}
